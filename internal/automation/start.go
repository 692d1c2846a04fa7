package automation

import (
	"context"
	"errors"

	"eventbot/internal/discord"
	"eventbot/internal/history"
	logx "eventbot/pkg/logx"
)

// TopicRun is the bus topic for completed run records.
const TopicRun = "automation.run"

// fireEvent is the timer payload: one bounded attempt to start one event.
func (s *Service) fireEvent(ctx context.Context, eventID string) {
	ctx, cancel := context.WithTimeout(ctx, s.startTimeout())
	defer cancel()
	s.startEvent(ctx, eventID, history.TriggerTimer)
}

// ManualStart starts an event on operator request, bypassing the job table.
// It returns the event name for command feedback.
func (s *Service) ManualStart(ctx context.Context, eventID string) (string, error) {
	if !discord.IsSnowflake(eventID) {
		return "", ErrInvalidEventID
	}
	ctx, cancel := context.WithTimeout(ctx, s.startTimeout())
	defer cancel()
	return s.startEvent(ctx, eventID, history.TriggerManual)
}

// startEvent revalidates, resolves channel conflicts and issues the start.
// Every exit is logged and recorded; errors are returned for the manual path
// and otherwise contained here. There are no retries: the next sync
// reschedules anything that is still worth starting.
func (s *Service) startEvent(ctx context.Context, eventID string, firedBy string) (string, error) {
	began := s.now()
	rec := history.RunEntry{At: began, EventID: eventID, FiredBy: firedBy}

	finish := func(outcome string, err error) (string, error) {
		rec.Outcome = outcome
		if err != nil {
			rec.Error = err.Error()
		}
		rec.TookMS = s.now().Sub(began).Milliseconds()
		s.publish(TopicRun, rec)
		return rec.EventName, err
	}

	ev, err := s.src.GetScheduledEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, discord.ErrNotFound) {
			// Deleted or canceled since scheduling. Normal, not an error.
			s.log.Info("event gone before start, skipping", logx.String("event_id", eventID))
			return finish(history.OutcomeSkippedNotFound, nil)
		}
		s.log.Error("re-fetch before start failed",
			logx.String("event_id", eventID), logx.Err(err))
		return finish(history.OutcomeFailedRemote, err)
	}
	rec.EventName = ev.Name
	if ev.Channel != nil {
		rec.ChannelID = ev.Channel.ID
	}

	if ev.Status == discord.StatusActive {
		// Someone started it by hand. Done.
		s.log.Info("event already active, skipping",
			logx.String("event_id", eventID), logx.String("name", ev.Name))
		return finish(history.OutcomeSkippedActive, nil)
	}
	if ev.Status != discord.StatusScheduled {
		s.log.Info("event no longer startable, skipping",
			logx.String("event_id", eventID),
			logx.String("name", ev.Name),
			logx.String("status", ev.Status.String()))
		return finish(history.OutcomeSkippedNotFound, nil)
	}

	if ev.Channel != nil {
		// Best effort: a failed conflict end is logged inside and the start
		// is still attempted, since the remote may allow it anyway.
		s.resolveConflicts(ctx, ev.Channel.ID, eventID)
	}

	if err := s.src.StartEvent(ctx, eventID); err != nil {
		switch {
		case errors.Is(err, discord.ErrNotFound):
			s.log.Info("event vanished during start, skipping",
				logx.String("event_id", eventID), logx.String("name", ev.Name))
			return finish(history.OutcomeSkippedNotFound, nil)
		case errors.Is(err, discord.ErrPermissionDenied):
			s.log.Error("starting event denied, check Manage Events permission",
				logx.String("event_id", eventID), logx.String("name", ev.Name))
			return finish(history.OutcomeFailedPermission, err)
		default:
			var rerr *discord.RemoteError
			if errors.As(err, &rerr) {
				s.log.Error("starting event failed remotely",
					logx.String("event_id", eventID),
					logx.String("name", ev.Name),
					logx.Int("status", rerr.Status),
					logx.Err(err))
				return finish(history.OutcomeFailedRemote, err)
			}
			s.log.Error("starting event failed",
				logx.String("event_id", eventID), logx.String("name", ev.Name), logx.Err(err))
			return finish(history.OutcomeFailed, err)
		}
	}

	s.log.Info("event started",
		logx.String("event_id", eventID),
		logx.String("name", ev.Name),
		logx.String("fired_by", firedBy))
	return finish(history.OutcomeStarted, nil)
}
