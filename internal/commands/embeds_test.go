package commands

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"eventbot/internal/automation"
	"eventbot/internal/discord"
	"eventbot/internal/history"
)

func testListing(i int, hasJob bool) automation.Listing {
	return automation.Listing{
		Event: discord.ScheduledEvent{
			ID:         fmt.Sprintf("10000000000000000%d", i),
			Name:       fmt.Sprintf("event-%d", i),
			Status:     discord.StatusScheduled,
			EntityType: discord.EntityVoice,
			StartTime:  time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
			Channel:    &discord.Channel{ID: "555", Name: "lounge"},
		},
		HasJob: hasJob,
	}
}

func TestListEmbedEmpty(t *testing.T) {
	t.Parallel()
	embed := listEmbed(nil)
	if !strings.Contains(embed.Description, "No scheduled") {
		t.Fatalf("unexpected description: %q", embed.Description)
	}
	if embed.Footer != nil {
		t.Fatal("empty list should have no footer")
	}
}

func TestListEmbedCapsAtTen(t *testing.T) {
	t.Parallel()
	var listings []automation.Listing
	for i := 0; i < 14; i++ {
		listings = append(listings, testListing(i, true))
	}
	embed := listEmbed(listings)

	for i := 0; i < 10; i++ {
		if !strings.Contains(embed.Description, fmt.Sprintf("event-%d", i)) {
			t.Fatalf("event-%d missing from embed", i)
		}
	}
	if strings.Contains(embed.Description, "event-10") {
		t.Fatal("11th event should not be listed")
	}
	if embed.Footer == nil || !strings.Contains(embed.Footer.Text, "10 of 14") {
		t.Fatalf("footer should carry the total, got %+v", embed.Footer)
	}
}

func TestListEmbedFlagsUnscheduled(t *testing.T) {
	t.Parallel()
	embed := listEmbed([]automation.Listing{testListing(0, true), testListing(1, false)})
	if !strings.Contains(embed.Description, "⚠️") {
		t.Fatal("unscheduled event should be marked")
	}
	if !strings.Contains(embed.Description, "/sync_events") {
		t.Fatal("embed should hint at re-syncing")
	}

	embed = listEmbed([]automation.Listing{testListing(0, true)})
	if strings.Contains(embed.Description, "⚠️") {
		t.Fatal("fully scheduled list should carry no warning")
	}
}

func TestListEmbedUsesDiscordTimestamps(t *testing.T) {
	t.Parallel()
	l := testListing(0, true)
	embed := listEmbed([]automation.Listing{l})
	want := discord.FormatTimestamp(l.Event.StartTime, 'F')
	if !strings.Contains(embed.Description, want) {
		t.Fatalf("embed %q missing timestamp markup %q", embed.Description, want)
	}
}

func TestStatusEmbed(t *testing.T) {
	t.Parallel()
	embed := statusEmbed(automation.Status{Running: true, JobCount: 0})
	if embed.Color != colorOK {
		t.Fatalf("running status color = %#x, want %#x", embed.Color, colorOK)
	}
	found := false
	for _, f := range embed.Fields {
		if f.Name == "Next start" && f.Value == "—" {
			found = true
		}
	}
	if !found {
		t.Fatalf("zero jobs should show an empty next start, fields: %+v", embed.Fields)
	}

	at := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	embed = statusEmbed(automation.Status{Running: false, JobCount: 3, NextFire: &at})
	if embed.Color != colorError {
		t.Fatalf("stopped status color = %#x, want %#x", embed.Color, colorError)
	}
	found = false
	for _, f := range embed.Fields {
		if f.Name == "Next start" && strings.Contains(f.Value, discord.FormatTimestamp(at, 'F')) {
			found = true
		}
	}
	if !found {
		t.Fatalf("next fire time missing, fields: %+v", embed.Fields)
	}
}

func TestHistoryEmbed(t *testing.T) {
	t.Parallel()
	embed := historyEmbed(nil)
	if !strings.Contains(embed.Description, "No runs") {
		t.Fatalf("unexpected empty description: %q", embed.Description)
	}

	embed = historyEmbed([]history.RunEntry{
		{At: time.Now(), EventID: "111", EventName: "standup", FiredBy: history.TriggerTimer, Outcome: history.OutcomeStarted},
		{At: time.Now(), EventID: "222", FiredBy: history.TriggerManual, Outcome: history.OutcomeFailedPermission, Error: "missing permission"},
	})
	if !strings.Contains(embed.Description, "standup") {
		t.Fatal("named entry should show its name")
	}
	if !strings.Contains(embed.Description, "222") {
		t.Fatal("nameless entry should fall back to the event id")
	}
	if !strings.Contains(embed.Description, "missing permission") {
		t.Fatal("failure detail should be shown")
	}
}
