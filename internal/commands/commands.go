// Package commands registers the bot's slash commands and dispatches
// interactions to the automation core. All replies are deferred first so a
// slow REST call never runs into Discord's 3 second interaction deadline.
package commands

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/automation"
	"eventbot/internal/discord"
	"eventbot/internal/history"
	logx "eventbot/pkg/logx"
)

// Automation is the slice of the automation service the commands need.
type Automation interface {
	Sync(ctx context.Context) (int, error)
	EligibleEvents(ctx context.Context) ([]automation.Listing, error)
	ManualStart(ctx context.Context, eventID string) (string, error)
	Status() automation.Status
}

// Runs reads back persisted run records for /history. Nil disables the
// command's data (the command still answers, with a hint).
type Runs interface {
	RecentRuns(ctx context.Context, limit int) ([]history.RunEntry, error)
}

const (
	cmdSync    = "sync_events"
	cmdList    = "list_scheduled"
	cmdStart   = "start_event"
	cmdStatus  = "bot_status"
	cmdHistory = "history"
)

// handlerTimeout bounds one interaction end to end.
const handlerTimeout = 15 * time.Second

type Handler struct {
	adapter *discord.Adapter
	auto    Automation
	runs    Runs
	log     logx.Logger
}

func New(adapter *discord.Adapter, auto Automation, runs Runs, log logx.Logger) *Handler {
	if log.IsZero() {
		log = logx.Nop()
	}
	h := &Handler{adapter: adapter, auto: auto, runs: runs, log: log}
	adapter.Session().AddHandler(h.onInteraction)
	return h
}

func definitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        cmdSync,
			Description: "Re-scan scheduled events and rebuild the start timers",
		},
		{
			Name:        cmdList,
			Description: "List upcoming voice/stage events and their timers",
		},
		{
			Name:        cmdStart,
			Description: "Start a scheduled event right now",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "event_id",
					Description: "ID of the scheduled event",
					Required:    true,
				},
			},
		},
		{
			Name:        cmdStatus,
			Description: "Show scheduler status",
		},
		{
			Name:        cmdHistory,
			Description: "Show recent automation runs",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "limit",
					Description: "How many runs to show (default 10)",
					Required:    false,
					MinValue:    func() *float64 { v := 1.0; return &v }(),
					MaxValue:    20,
				},
			},
		},
	}
}

// Register overwrites the guild's command set with ours. Bulk overwrite is
// idempotent and drops commands from previous versions of the bot.
func (h *Handler) Register() error {
	s := h.adapter.Session()
	appID := s.State.User.ID
	cmds, err := s.ApplicationCommandBulkOverwrite(appID, h.adapter.GuildID(), definitions())
	if err != nil {
		return err
	}
	h.log.Info("slash commands registered", logx.Int("count", len(cmds)))
	return nil
}

func (h *Handler) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	// Acknowledge first; the real answer follows as a followup message.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		h.log.Warn("interaction ack failed", logx.String("command", data.Name), logx.Err(err))
		return
	}

	var embed *discordgo.MessageEmbed
	switch data.Name {
	case cmdSync:
		embed = h.handleSync(ctx)
	case cmdList:
		embed = h.handleList(ctx)
	case cmdStart:
		embed = h.handleStart(ctx, data)
	case cmdStatus:
		embed = h.handleStatus()
	case cmdHistory:
		embed = h.handleHistory(ctx, data)
	default:
		embed = errorEmbed("Unknown command", "This command is not wired up.")
	}

	_, err = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		h.log.Warn("interaction followup failed", logx.String("command", data.Name), logx.Err(err))
	}
}

func optionString(data discordgo.ApplicationCommandInteractionData, name string) string {
	for _, opt := range data.Options {
		if opt != nil && opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}

func optionInt(data discordgo.ApplicationCommandInteractionData, name string, def int) int {
	for _, opt := range data.Options {
		if opt != nil && opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionInteger {
			return int(opt.IntValue())
		}
	}
	return def
}
