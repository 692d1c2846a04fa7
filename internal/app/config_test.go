package app

import (
	"strings"
	"testing"
	"time"

	"eventbot/internal/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		Discord: config.Discord{Token: "token", GuildID: "100000000000000001"},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "ok", mutate: func(*config.Config) {}},
		{
			name:    "missing token",
			mutate:  func(c *config.Config) { c.Discord.Token = " " },
			wantErr: "discord.token",
		},
		{
			name:    "missing guild",
			mutate:  func(c *config.Config) { c.Discord.GuildID = "" },
			wantErr: "discord.guild_id",
		},
		{
			name:    "bad grace",
			mutate:  func(c *config.Config) { c.Automation.Grace = "soon" },
			wantErr: "automation.grace",
		},
		{
			name:    "bad storage driver",
			mutate:  func(c *config.Config) { c.Storage = &config.Storage{Driver: "redis"} },
			wantErr: "storage.driver",
		},
		{
			name:   "storage file ok",
			mutate: func(c *config.Config) { c.Storage = &config.Storage{Driver: "file", Path: "x.jsonl"} },
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := baseConfig()
			tc.mutate(cfg)
			err := validate(cfg)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err = %v, want mention of %q", err, tc.wantErr)
			}
		})
	}
}

func TestAutomationConfigDefaults(t *testing.T) {
	t.Parallel()
	got, err := automationConfig(config.Automation{})
	if err != nil {
		t.Fatalf("automationConfig: %v", err)
	}
	if got.Grace != 60*time.Second {
		t.Fatalf("grace = %v, want 60s", got.Grace)
	}
	if got.StartTimeout != 30*time.Second {
		t.Fatalf("start_timeout = %v, want 30s", got.StartTimeout)
	}

	got, err = automationConfig(config.Automation{Grace: "5m", StartTimeout: "10s"})
	if err != nil {
		t.Fatalf("automationConfig: %v", err)
	}
	if got.Grace != 5*time.Minute || got.StartTimeout != 10*time.Second {
		t.Fatalf("explicit durations not honored: %+v", got)
	}
}
