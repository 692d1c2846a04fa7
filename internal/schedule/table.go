package schedule

import (
	"context"
	"sort"
	"time"

	logx "eventbot/pkg/logx"
)

// JobKey derives the table identity for an event id.
func JobKey(eventID string) string { return "event_" + eventID }

// Upsert schedules run at the given fire time, replacing any pending job for
// the same event. The replacement is atomic: the old timer is stopped and
// its version invalidated before the new one is armed, so the old and new
// job can never both fire.
func (s *Service) Upsert(eventID string, at time.Time, run func(ctx context.Context)) Job {
	key := JobKey(eventID)
	job := Job{Key: key, EventID: eventID, FireAt: at}

	s.tmu.Lock()
	if old, ok := s.entries[key]; ok && old.timer != nil {
		_ = old.timer.Stop()
	}
	ver := s.vers[key] + 1
	s.vers[key] = ver

	e := &entry{job: job, ver: ver, run: run}
	s.entries[key] = e

	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}
	localVer := ver
	e.timer = time.AfterFunc(delay, func() { s.fire(key, localVer) })
	s.tmu.Unlock()

	s.log.Debug("job scheduled", logx.String("key", key), logx.Time("fire_at", at))
	return job
}

// fire moves a due job out of the table and onto the worker queue,
// unless it was replaced or cleared since the timer was armed.
func (s *Service) fire(key string, ver uint64) {
	s.tmu.Lock()
	e, ok := s.entries[key]
	if !ok || e.ver != ver || s.vers[key] != ver {
		s.tmu.Unlock()
		return
	}
	// One-shot: the job is gone before the payload runs, so a concurrent
	// sync observing the table sees it as "needs rescheduling".
	delete(s.entries, key)
	s.tmu.Unlock()

	s.enqueue(task{key: key, eventID: e.job.EventID, run: e.run})
}

// Clear removes every pending job unconditionally.
func (s *Service) Clear() int {
	s.tmu.Lock()
	n := len(s.entries)
	for key, e := range s.entries {
		if e.timer != nil {
			_ = e.timer.Stop()
		}
		// Bump so an already-fired callback for this key is discarded.
		s.vers[key]++
	}
	s.entries = map[string]*entry{}
	s.tmu.Unlock()

	if n > 0 {
		s.log.Debug("job table cleared", logx.Int("removed", n))
	}
	return n
}

// Jobs returns all pending jobs ordered by fire time.
func (s *Service) Jobs() []Job {
	s.tmu.Lock()
	out := make([]Job, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.job)
	}
	s.tmu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out
}

// Next returns the chronologically next pending job, if any.
// Status reporting only; execution order is the timers' business.
func (s *Service) Next() (Job, bool) {
	var (
		best  Job
		found bool
	)
	s.tmu.Lock()
	for _, e := range s.entries {
		if !found || e.job.FireAt.Before(best.FireAt) {
			best = e.job
			found = true
		}
	}
	s.tmu.Unlock()
	return best, found
}

// Has reports whether a job is pending for the given event id.
func (s *Service) Has(eventID string) bool {
	s.tmu.Lock()
	_, ok := s.entries[JobKey(eventID)]
	s.tmu.Unlock()
	return ok
}

// Len returns the number of pending jobs.
func (s *Service) Len() int {
	s.tmu.Lock()
	defer s.tmu.Unlock()
	return len(s.entries)
}

// Snapshot captures the table state for status commands.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	running := s.stopCh != nil
	ql := 0
	if s.queue != nil {
		ql = len(s.queue)
	}
	s.mu.Unlock()
	return Snapshot{Running: running, QueueLen: ql, Jobs: s.Jobs()}
}
