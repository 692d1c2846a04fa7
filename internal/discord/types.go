package discord

import (
	"context"
	"time"
)

// EventStatus is the lifecycle state of a guild scheduled event.
type EventStatus uint8

const (
	StatusUnknown EventStatus = iota
	StatusScheduled
	StatusActive
	StatusCompleted
	StatusCanceled
)

func (s EventStatus) String() string {
	switch s {
	case StatusScheduled:
		return "scheduled"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	case StatusCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// EntityType is where a scheduled event takes place.
type EntityType uint8

const (
	EntityUnknown EntityType = iota
	EntityStage
	EntityVoice
	EntityExternal
)

func (t EntityType) String() string {
	switch t {
	case EntityStage:
		return "stage"
	case EntityVoice:
		return "voice"
	case EntityExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Channel is a minimal reference to a voice/stage channel.
type Channel struct {
	ID   string
	Name string
}

// ScheduledEvent is an immutable snapshot of a guild scheduled event,
// validated at the adapter boundary. IDs are Discord snowflakes and kept
// as opaque strings.
type ScheduledEvent struct {
	ID         string
	Name       string
	Status     EventStatus
	EntityType EntityType
	StartTime  time.Time

	// Channel is nil for external (non-location) events.
	Channel *Channel
}

// Eligible reports whether the event qualifies for start automation:
// still scheduled, and bound to a voice or stage channel.
func (e ScheduledEvent) Eligible() bool {
	if e.Status != StatusScheduled {
		return false
	}
	return e.EntityType == EntityVoice || e.EntityType == EntityStage
}

// EventSource is the read/act surface of the guild's scheduled events.
// The automation core only reads snapshots and requests actions; it never
// mutates remote state directly.
type EventSource interface {
	// ListScheduledEvents returns all scheduled events of the configured guild.
	ListScheduledEvents(ctx context.Context) ([]ScheduledEvent, error)

	// GetScheduledEvent fetches one event by id.
	// Returns ErrNotFound if the guild or event no longer exists.
	GetScheduledEvent(ctx context.Context, eventID string) (*ScheduledEvent, error)

	// StartEvent transitions the event to active.
	StartEvent(ctx context.Context, eventID string) error

	// EndEvent transitions the event to completed.
	EndEvent(ctx context.Context, eventID string) error
}
