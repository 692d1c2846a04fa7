package automation

import (
	"context"
	"sort"
)

// Status reports the scheduling core state.
func (s *Service) Status() Status {
	snap := s.jobs.Snapshot()
	st := Status{JobCount: len(snap.Jobs), Running: snap.Running}
	if next, ok := s.jobs.Next(); ok {
		at := next.FireAt
		st.NextFire = &at
	}
	return st
}

// EligibleEvents fetches the guild's events and returns the eligible ones
// ordered by start time, each flagged with whether a job is pending for it.
// A listing without a job means the table is out of date: the event was
// created or edited after the last sync.
func (s *Service) EligibleEvents(ctx context.Context) ([]Listing, error) {
	events, err := s.src.ListScheduledEvents(ctx)
	if err != nil {
		return nil, err
	}

	var out []Listing
	for _, ev := range events {
		if !ev.Eligible() {
			continue
		}
		out = append(out, Listing{Event: ev, HasJob: s.jobs.Has(ev.ID)})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Event.StartTime.Before(out[j].Event.StartTime)
	})
	return out, nil
}
