package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/automation"
	"eventbot/internal/discord"
	logx "eventbot/pkg/logx"
)

func (h *Handler) handleSync(ctx context.Context) *discordgo.MessageEmbed {
	n, err := h.auto.Sync(ctx)
	if err != nil {
		h.log.Error("manual sync failed", logx.Err(err))
		return errorEmbed("Sync failed", "Could not fetch the guild's scheduled events. Try again in a bit.")
	}
	return &discordgo.MessageEmbed{
		Title:       "Sync complete",
		Description: fmt.Sprintf("Scheduled **%d** event start(s).", n),
		Color:       colorOK,
	}
}

func (h *Handler) handleList(ctx context.Context) *discordgo.MessageEmbed {
	listings, err := h.auto.EligibleEvents(ctx)
	if err != nil {
		h.log.Error("listing events failed", logx.Err(err))
		return errorEmbed("Listing failed", "Could not fetch the guild's scheduled events.")
	}
	return listEmbed(listings)
}

func (h *Handler) handleStart(ctx context.Context, data discordgo.ApplicationCommandInteractionData) *discordgo.MessageEmbed {
	eventID := optionString(data, "event_id")
	name, err := h.auto.ManualStart(ctx, eventID)
	switch {
	case err == nil:
		return &discordgo.MessageEmbed{
			Title:       "Event started",
			Description: fmt.Sprintf("**%s** is now live.", name),
			Color:       colorOK,
		}
	case errors.Is(err, automation.ErrInvalidEventID):
		return errorEmbed("Invalid event id", "That doesn't look like an event id. Copy it from `/list_scheduled`.")
	case errors.Is(err, discord.ErrPermissionDenied):
		return errorEmbed("Permission denied", "The bot is missing the **Manage Events** permission.")
	default:
		h.log.Error("manual start failed", logx.String("event_id", eventID), logx.Err(err))
		return errorEmbed("Start failed", "Discord rejected the start request. Check the logs for details.")
	}
}

func (h *Handler) handleStatus() *discordgo.MessageEmbed {
	return statusEmbed(h.auto.Status())
}

func (h *Handler) handleHistory(ctx context.Context, data discordgo.ApplicationCommandInteractionData) *discordgo.MessageEmbed {
	if h.runs == nil {
		return errorEmbed("History disabled", "No history store is configured. Set `storage.driver` in the config.")
	}
	limit := optionInt(data, "limit", 10)
	entries, err := h.runs.RecentRuns(ctx, limit)
	if err != nil {
		h.log.Error("reading run history failed", logx.Err(err))
		return errorEmbed("History unavailable", "Could not read the run history.")
	}
	return historyEmbed(entries)
}
