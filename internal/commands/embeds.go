package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/automation"
	"eventbot/internal/discord"
	"eventbot/internal/history"
)

const (
	colorOK    = 0x2ecc71
	colorError = 0xe74c3c
	colorInfo  = 0x3498db

	// maxListed caps the /list_scheduled embed; the footer carries the total.
	maxListed = 10
)

func errorEmbed(title, detail string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{Title: title, Description: detail, Color: colorError}
}

func listEmbed(listings []automation.Listing) *discordgo.MessageEmbed {
	if len(listings) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "Upcoming events",
			Description: "No scheduled voice or stage events.",
			Color:       colorInfo,
		}
	}

	shown := listings
	if len(shown) > maxListed {
		shown = shown[:maxListed]
	}
	var b strings.Builder
	for _, l := range shown {
		ev := l.Event
		marker := "🕐"
		if !l.HasJob {
			marker = "⚠️"
		}
		fmt.Fprintf(&b, "%s **%s** — %s (%s)\n", marker, ev.Name,
			discord.FormatTimestamp(ev.StartTime, 'F'),
			discord.FormatTimestamp(ev.StartTime, 'R'))
		loc := ev.EntityType.String()
		if ev.Channel != nil && ev.Channel.Name != "" {
			loc += " · " + ev.Channel.Name
		}
		fmt.Fprintf(&b, "-# %s · id `%s`\n", loc, ev.ID)
	}
	if hasUnscheduled(shown) {
		b.WriteString("\n⚠️ = no timer pending, run `/sync_events`")
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Upcoming events",
		Description: b.String(),
		Color:       colorInfo,
	}
	if len(listings) > maxListed {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Showing %d of %d events", maxListed, len(listings)),
		}
	}
	return embed
}

func hasUnscheduled(listings []automation.Listing) bool {
	for _, l := range listings {
		if !l.HasJob {
			return true
		}
	}
	return false
}

func statusEmbed(st automation.Status) *discordgo.MessageEmbed {
	runner := "running"
	color := colorOK
	if !st.Running {
		runner = "stopped"
		color = colorError
	}
	next := "—"
	if st.NextFire != nil {
		next = discord.FormatTimestamp(*st.NextFire, 'F') + " (" + discord.FormatTimestamp(*st.NextFire, 'R') + ")"
	}
	return &discordgo.MessageEmbed{
		Title: "Scheduler status",
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Runner", Value: runner, Inline: true},
			{Name: "Pending jobs", Value: fmt.Sprintf("%d", st.JobCount), Inline: true},
			{Name: "Next start", Value: next, Inline: false},
		},
	}
}

func historyEmbed(entries []history.RunEntry) *discordgo.MessageEmbed {
	if len(entries) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "Run history",
			Description: "No runs recorded yet.",
			Color:       colorInfo,
		}
	}
	var b strings.Builder
	for _, e := range entries {
		name := e.EventName
		if name == "" {
			name = e.EventID
		}
		fmt.Fprintf(&b, "%s %s **%s** · %s · %s\n",
			outcomeMarker(e.Outcome),
			discord.FormatTimestamp(e.At, 'R'),
			name, e.Outcome, e.FiredBy)
		if e.Error != "" {
			fmt.Fprintf(&b, "-# %s\n", e.Error)
		}
	}
	return &discordgo.MessageEmbed{
		Title:       "Run history",
		Description: b.String(),
		Color:       colorInfo,
	}
}

func outcomeMarker(outcome string) string {
	switch outcome {
	case history.OutcomeStarted, history.OutcomeConflictEnded:
		return "✅"
	case history.OutcomeSkippedActive, history.OutcomeSkippedNotFound:
		return "⏭️"
	default:
		return "❌"
	}
}
