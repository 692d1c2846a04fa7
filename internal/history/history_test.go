package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	logx "eventbot/pkg/logx"
)

func TestOpenDisabled(t *testing.T) {
	t.Parallel()
	st, err := Open(Config{}, logx.Nop())
	if err != nil || st != nil {
		t.Fatalf("Open with empty driver = (%v, %v), want (nil, nil)", st, err)
	}
	st, err = Open(Config{Driver: "none"}, logx.Nop())
	if err != nil || st != nil {
		t.Fatalf("Open with driver none = (%v, %v), want (nil, nil)", st, err)
	}
	if _, err := Open(Config{Driver: "redis", Path: "x"}, logx.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func roundTrip(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	entries := []RunEntry{
		{At: now.Add(-2 * time.Minute), EventID: "111", EventName: "standup", FiredBy: TriggerTimer, Outcome: OutcomeStarted, TookMS: 120},
		{At: now.Add(-time.Minute), EventID: "222", EventName: "gone", FiredBy: TriggerTimer, Outcome: OutcomeSkippedNotFound},
		{At: now, EventID: "333", EventName: "townhall", ChannelID: "555", FiredBy: TriggerManual, Outcome: OutcomeFailedPermission, Error: "missing manage events"},
	}
	for _, e := range entries {
		if err := st.AppendRun(ctx, e); err != nil {
			t.Fatalf("AppendRun: %v", err)
		}
	}

	recent, err := st.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d entries, want 2", len(recent))
	}
	// Newest first.
	if recent[0].EventID != "333" || recent[1].EventID != "222" {
		t.Fatalf("unexpected order: %q then %q", recent[0].EventID, recent[1].EventID)
	}
	if recent[0].Outcome != OutcomeFailedPermission || recent[0].Error == "" {
		t.Fatalf("failure detail lost: %+v", recent[0])
	}

	all, err := st.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns(10): %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d entries, want 3", len(all))
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	st, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()
	roundTrip(t, st)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "runs.db")
	st, err := Open(Config{Driver: "sqlite", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()
	roundTrip(t, st)
}
