package automation

import (
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"eventbot/internal/discord"
	"eventbot/internal/eventbus"
	"eventbot/internal/schedule"
	logx "eventbot/pkg/logx"
)

// ErrInvalidEventID marks a user-supplied id that is not a snowflake.
var ErrInvalidEventID = errors.New("invalid event id")

// Config controls the automation service.
type Config struct {
	// Grace is the fallback delay for events whose start time already
	// passed when a sync ran (default 60s).
	Grace time.Duration

	// StartTimeout bounds one fire: revalidation, conflict resolution and
	// the start call together (default 30s).
	StartTimeout time.Duration

	// Resync is an optional cron spec / "@every" interval for periodic
	// reconciliation. Empty disables the schedule.
	Resync string

	// Timezone for the resync schedule (IANA name, empty = local).
	Timezone string
}

// Listing pairs an eligible event with its scheduling state.
type Listing struct {
	Event  discord.ScheduledEvent
	HasJob bool
}

// Status summarizes the scheduling core for the /bot_status command.
type Status struct {
	JobCount int
	Running  bool
	NextFire *time.Time
}

// Service is the reconciliation core. It owns the job table lifecycle and
// the optional resync schedule; all remote access goes through src.
type Service struct {
	src  discord.EventSource
	jobs *schedule.Service
	bus  eventbus.Bus
	log  logx.Logger

	mu     sync.Mutex
	cfg    Config
	c      *cron.Cron
	parser cron.Parser

	// now is swappable for tests.
	now func() time.Time
}
