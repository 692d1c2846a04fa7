package automation

import (
	"context"

	"eventbot/internal/discord"
	"eventbot/internal/history"
	logx "eventbot/pkg/logx"
)

// resolveConflicts ends every active voice/stage event bound to channelID so
// the incoming event gets the channel to itself. startingID is only excluded
// defensively; an event we are about to start is never active yet.
func (s *Service) resolveConflicts(ctx context.Context, channelID, startingID string) {
	events, err := s.src.ListScheduledEvents(ctx)
	if err != nil {
		s.log.Warn("conflict check: listing events failed",
			logx.String("channel_id", channelID), logx.Err(err))
		return
	}

	for _, ev := range events {
		if ev.ID == startingID || ev.Status != discord.StatusActive {
			continue
		}
		if ev.EntityType != discord.EntityVoice && ev.EntityType != discord.EntityStage {
			continue
		}
		if ev.Channel == nil || ev.Channel.ID != channelID {
			continue
		}

		began := s.now()
		rec := history.RunEntry{
			At:        began,
			EventID:   ev.ID,
			EventName: ev.Name,
			ChannelID: channelID,
			FiredBy:   history.TriggerConflict,
		}
		if err := s.src.EndEvent(ctx, ev.ID); err != nil {
			s.log.Warn("ending conflicting event failed",
				logx.String("event_id", ev.ID),
				logx.String("name", ev.Name),
				logx.String("channel_id", channelID),
				logx.Err(err))
			rec.Outcome = history.OutcomeFailed
			rec.Error = err.Error()
		} else {
			s.log.Info("ended conflicting event",
				logx.String("event_id", ev.ID),
				logx.String("name", ev.Name),
				logx.String("channel_id", channelID))
			rec.Outcome = history.OutcomeConflictEnded
		}
		rec.TookMS = s.now().Sub(began).Milliseconds()
		s.publish(TopicRun, rec)
	}
}
