package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()
	path := writeTemp(t, "config.json", `{
		"discord": {"token": "tok", "guild_id": "123", "presence": "Automating voice events"},
		"logging": {"level": "debug", "console": true, "file": {"enabled": false, "path": ""}, "discord": {"enabled": false, "min_level": "warn", "rate_per_sec": 1}},
		"automation": {"enabled": true, "workers": 3, "grace": "90s", "resync": "@every 10m"}
	}`)

	m := NewManager(path)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Discord.GuildID != "123" {
		t.Fatalf("guild_id = %q, want 123", cfg.Discord.GuildID)
	}
	if cfg.Automation.Workers != 3 {
		t.Fatalf("workers = %d, want 3", cfg.Automation.Workers)
	}
	if got := m.Get(); got != cfg {
		t.Fatal("Get should return the committed config")
	}
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()
	path := writeTemp(t, "config.yaml", `
discord:
  token: tok
  guild_id: "123"
logging:
  level: info
  console: true
  file:
    enabled: false
    path: ""
  discord:
    enabled: false
    min_level: warn
    rate_per_sec: 1
automation:
  enabled: true
  grace: 45s
storage:
  driver: sqlite
  path: ./eventbot.db
`)

	m := NewManager(path)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Automation.Grace != "45s" {
		t.Fatalf("grace = %q, want 45s", cfg.Automation.Grace)
	}
	if cfg.Storage == nil || cfg.Storage.Driver != "sqlite" {
		t.Fatalf("storage = %+v, want sqlite driver", cfg.Storage)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := writeTemp(t, "config.json", `{"discord": {"token": "tok", "guild_id": "1", "bogus": true}}`)
	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestParseDurationField(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{raw: "", want: 0},
		{raw: "60s", want: time.Minute},
		{raw: "2h30m", want: 2*time.Hour + 30*time.Minute},
		{raw: "-5s", wantErr: true},
		{raw: "soon", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDurationField("automation.grace", tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseDurationField(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseDurationField(%q): %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("ParseDurationField(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}

	d, err := ParseDurationOrDefault("automation.grace", "", 60*time.Second)
	if err != nil || d != 60*time.Second {
		t.Fatalf("ParseDurationOrDefault = (%v, %v), want 60s", d, err)
	}
}
