package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	logx "eventbot/pkg/logx"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s := New(Config{Workers: 2, QueueSize: 16}, logx.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
		s.Stop(stopCtx)
		stopCancel()
		cancel()
	})
	return s
}

func TestJobKey(t *testing.T) {
	t.Parallel()
	if got := JobKey("123"); got != "event_123" {
		t.Fatalf("JobKey = %q, want event_123", got)
	}
}

func TestUpsertReplacesPerKey(t *testing.T) {
	t.Parallel()
	s := New(Config{}, logx.Nop())

	far := time.Now().Add(time.Hour)
	nearer := time.Now().Add(30 * time.Minute)

	s.Upsert("a", far, func(context.Context) {})
	s.Upsert("a", nearer, func(context.Context) {})
	s.Upsert("b", far, func(context.Context) {})

	if got := s.Len(); got != 2 {
		t.Fatalf("Len = %d, want 2 (one job per event)", got)
	}
	jobs := s.Jobs()
	if jobs[0].EventID != "a" || !jobs[0].FireAt.Equal(nearer) {
		t.Fatalf("first job = %+v, want event a at the replaced fire time", jobs[0])
	}
	if !s.Has("a") || !s.Has("b") || s.Has("c") {
		t.Fatal("Has reports wrong membership")
	}
}

func TestNextAndClear(t *testing.T) {
	t.Parallel()
	s := New(Config{}, logx.Nop())

	if _, ok := s.Next(); ok {
		t.Fatal("Next on empty table should report absent")
	}

	base := time.Now().Add(time.Hour)
	s.Upsert("late", base.Add(10*time.Minute), func(context.Context) {})
	s.Upsert("soon", base, func(context.Context) {})

	next, ok := s.Next()
	if !ok || next.EventID != "soon" {
		t.Fatalf("Next = (%+v, %v), want the soonest job", next, ok)
	}

	if removed := s.Clear(); removed != 2 {
		t.Fatalf("Clear removed %d, want 2", removed)
	}
	if s.Len() != 0 {
		t.Fatal("table not empty after Clear")
	}
}

func TestFireRunsPayloadOnce(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	var runs atomic.Int32
	done := make(chan struct{}, 1)
	s.Upsert("ev", time.Now().Add(20*time.Millisecond), func(context.Context) {
		runs.Add(1)
		done <- struct{}{}
	})

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not fire")
	}
	// One-shot: the job leaves the table on fire.
	deadline := time.Now().Add(time.Second)
	for s.Has("ev") && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if s.Has("ev") {
		t.Fatal("fired job still present in table")
	}
	if got := runs.Load(); got != 1 {
		t.Fatalf("payload ran %d times, want 1", got)
	}
}

func TestReplacedJobNeverFires(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	var oldRuns, newRuns atomic.Int32
	done := make(chan struct{}, 1)

	s.Upsert("ev", time.Now().Add(30*time.Millisecond), func(context.Context) {
		oldRuns.Add(1)
	})
	s.Upsert("ev", time.Now().Add(80*time.Millisecond), func(context.Context) {
		newRuns.Add(1)
		done <- struct{}{}
	})

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("replacement job did not fire")
	}
	if got := oldRuns.Load(); got != 0 {
		t.Fatalf("replaced payload ran %d times, want 0", got)
	}
	if got := newRuns.Load(); got != 1 {
		t.Fatalf("replacement payload ran %d times, want 1", got)
	}
}

func TestClearedJobNeverFires(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	var runs atomic.Int32
	s.Upsert("ev", time.Now().Add(40*time.Millisecond), func(context.Context) {
		runs.Add(1)
	})
	s.Clear()

	time.Sleep(200 * time.Millisecond)
	if got := runs.Load(); got != 0 {
		t.Fatalf("cleared payload ran %d times, want 0", got)
	}
}

func TestPastDueFiresImmediately(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	done := make(chan struct{}, 1)
	s.Upsert("ev", time.Now().Add(-time.Minute), func(context.Context) {
		done <- struct{}{}
	})
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("past-due job did not fire")
	}
}

func TestSnapshot(t *testing.T) {
	t.Parallel()
	s := New(Config{}, logx.Nop())
	s.Upsert("a", time.Now().Add(time.Hour), func(context.Context) {})

	snap := s.Snapshot()
	if snap.Running {
		t.Fatal("snapshot reports running before Start")
	}
	if len(snap.Jobs) != 1 || snap.Jobs[0].Key != "event_a" {
		t.Fatalf("snapshot jobs = %+v", snap.Jobs)
	}
}
