package schedule

import (
	"context"
	"sync"
	"time"

	logx "eventbot/pkg/logx"
)

// Config controls the worker pool that executes fired jobs.
type Config struct {
	Workers   int
	QueueSize int
}

// Job is one pending one-shot trigger.
type Job struct {
	// Key is the identity used for replace-on-reschedule ("event_<id>").
	Key string

	// EventID is the scheduled event this job will start.
	EventID string

	// FireAt is the absolute time the payload runs.
	FireAt time.Time
}

// Snapshot is a point-in-time view of the table for status reporting.
type Snapshot struct {
	Running  bool
	QueueLen int
	Jobs     []Job
}

type task struct {
	key     string
	eventID string
	run     func(ctx context.Context)
}

type entry struct {
	job   Job
	ver   uint64
	timer *time.Timer
	run   func(ctx context.Context)
}

// Service owns the job table and the worker pool.
type Service struct {
	log logx.Logger

	mu        sync.Mutex
	cfg       Config
	queue     chan task
	stopCh    chan struct{}
	runCtx    context.Context
	runCancel context.CancelFunc
	workerWG  sync.WaitGroup

	// tmu guards the table itself. Kept separate from mu so a slow
	// Start/Stop never blocks an Upsert issued by a running sync.
	tmu     sync.Mutex
	entries map[string]*entry
	// vers outlives entries: a key's version only ever grows, so a timer
	// callback from before a Clear() can never be mistaken for the
	// current job even if the key was re-added meanwhile.
	vers map[string]uint64
}
