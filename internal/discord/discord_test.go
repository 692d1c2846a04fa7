package discord

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

func TestEligible(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		status EventStatus
		entity EntityType
		want   bool
	}{
		{"scheduled voice", StatusScheduled, EntityVoice, true},
		{"scheduled stage", StatusScheduled, EntityStage, true},
		{"scheduled external", StatusScheduled, EntityExternal, false},
		{"active voice", StatusActive, EntityVoice, false},
		{"completed stage", StatusCompleted, EntityStage, false},
		{"canceled voice", StatusCanceled, EntityVoice, false},
		{"unknown", StatusUnknown, EntityUnknown, false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ev := ScheduledEvent{Status: tc.status, EntityType: tc.entity}
			if got := ev.Eligible(); got != tc.want {
				t.Fatalf("Eligible() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsSnowflake(t *testing.T) {
	t.Parallel()
	valid := []string{"123456789012345", "1234567890123456789", " 1234567890123456789 "}
	for _, s := range valid {
		if !IsSnowflake(s) {
			t.Errorf("IsSnowflake(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "abc", "12345678901234", "12345678901234567890123", "12345678901234567x9"}
	for _, s := range invalid {
		if IsSnowflake(s) {
			t.Errorf("IsSnowflake(%q) = true, want false", s)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	if got, want := FormatTimestamp(at, 'F'), "<t:1788285600:F>"; got != want {
		t.Fatalf("FormatTimestamp = %q, want %q", got, want)
	}
	if got, want := FormatTimestamp(at, 'R'), "<t:1788285600:R>"; got != want {
		t.Fatalf("FormatTimestamp = %q, want %q", got, want)
	}
}

func restErr(status int) *discordgo.RESTError {
	return &discordgo.RESTError{Response: &http.Response{StatusCode: status}}
}

func TestClassifyErr(t *testing.T) {
	t.Parallel()
	if classifyErr("op", nil) != nil {
		t.Fatal("nil must stay nil")
	}
	if err := classifyErr("op", restErr(http.StatusNotFound)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("404 → %v, want ErrNotFound", err)
	}
	if err := classifyErr("op", restErr(http.StatusForbidden)); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("403 → %v, want ErrPermissionDenied", err)
	}
	if err := classifyErr("op", restErr(http.StatusUnauthorized)); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("401 → %v, want ErrPermissionDenied", err)
	}

	var rerr *RemoteError
	if err := classifyErr("op", restErr(http.StatusBadGateway)); !errors.As(err, &rerr) || rerr.Status != http.StatusBadGateway {
		t.Fatalf("502 → %v, want RemoteError with status", err)
	}
	if err := classifyErr("op", errors.New("conn reset")); !errors.As(err, &rerr) || rerr.Status != 0 {
		t.Fatalf("plain error → %v, want statusless RemoteError", err)
	}
}

func TestConvertStatusAndEntity(t *testing.T) {
	t.Parallel()
	if convertStatus(discordgo.GuildScheduledEventStatusScheduled) != StatusScheduled {
		t.Fatal("scheduled mapping broken")
	}
	if convertStatus(discordgo.GuildScheduledEventStatusActive) != StatusActive {
		t.Fatal("active mapping broken")
	}
	if convertEntityType(discordgo.GuildScheduledEventEntityTypeVoice) != EntityVoice {
		t.Fatal("voice mapping broken")
	}
	if convertEntityType(discordgo.GuildScheduledEventEntityTypeStageInstance) != EntityStage {
		t.Fatal("stage mapping broken")
	}
	if convertEntityType(discordgo.GuildScheduledEventEntityTypeExternal) != EntityExternal {
		t.Fatal("external mapping broken")
	}
}
