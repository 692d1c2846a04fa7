package automation

import (
	"context"

	logx "eventbot/pkg/logx"
)

// Sync rebuilds the job table from the remote scheduled-event list and
// returns the number of jobs scheduled. The table is cleared up front so a
// canceled or rescheduled remote event cannot leave a stale timer behind.
func (s *Service) Sync(ctx context.Context) (int, error) {
	cleared := s.jobs.Clear()

	events, err := s.src.ListScheduledEvents(ctx)
	if err != nil {
		s.log.Error("sync: listing scheduled events failed", logx.Err(err))
		return 0, err
	}

	grace := s.grace()
	now := s.now()
	scheduled := 0
	for _, ev := range events {
		if !ev.Eligible() {
			continue
		}
		if ev.StartTime.IsZero() {
			// Scheduled voice/stage events always carry a start time; a
			// missing one means the snapshot is bad, not that it fires now.
			s.log.Warn("sync: event has no start time, skipping",
				logx.String("event_id", ev.ID), logx.String("name", ev.Name))
			continue
		}

		fireAt := ev.StartTime
		if !fireAt.After(now) {
			// Past due (missed while we were down, or a late sync). Give the
			// operator a short window to intervene instead of firing mid-sync.
			fireAt = now.Add(grace)
			s.log.Info("sync: event past due, deferring start",
				logx.String("event_id", ev.ID),
				logx.String("name", ev.Name),
				logx.Time("was", ev.StartTime),
				logx.Time("fire_at", fireAt))
		}

		eventID := ev.ID
		s.jobs.Upsert(eventID, fireAt, func(ctx context.Context) {
			s.fireEvent(ctx, eventID)
		})
		scheduled++
	}

	s.log.Info("sync complete",
		logx.Int("remote_events", len(events)),
		logx.Int("cleared", cleared),
		logx.Int("scheduled", scheduled))
	return scheduled, nil
}
