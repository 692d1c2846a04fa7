package history

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("history disabled")

// Config configures the history store.
//
// Driver values:
//   - "file": dependency-free JSON Lines file
//   - "sqlite": SQLite database file
//
// If Driver is empty or "none", history is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Trigger says what caused a run.
const (
	TriggerTimer    = "timer"
	TriggerManual   = "manual"
	TriggerConflict = "conflict"
)

// Outcomes of a single run.
const (
	OutcomeStarted          = "started"
	OutcomeConflictEnded    = "conflict_ended"
	OutcomeSkippedActive    = "skipped_active"
	OutcomeSkippedNotFound  = "skipped_not_found"
	OutcomeFailedPermission = "failed_permission"
	OutcomeFailedRemote     = "failed_remote"
	OutcomeFailed           = "failed"
)

// RunEntry records one automation action against one event.
// Keep it compact and schema-stable.
type RunEntry struct {
	At        time.Time `json:"at"`
	EventID   string    `json:"event_id"`
	EventName string    `json:"event_name,omitempty"`
	ChannelID string    `json:"channel_id,omitempty"`
	FiredBy   string    `json:"fired_by"`
	Outcome   string    `json:"outcome"`
	Error     string    `json:"error,omitempty"`
	TookMS    int64     `json:"took_ms"`
}
