package config

type Config struct {
	Discord Discord `json:"discord"`
	Logging Logging `json:"logging"`

	// Automation controls the event reconciliation/scheduling core.
	Automation Automation `json:"automation"`

	// Storage configures the optional run-history store.
	Storage *Storage `json:"storage,omitempty"`
}

type Discord struct {
	Token string `json:"token"`

	// GuildID is the single guild whose scheduled events are automated.
	GuildID string `json:"guild_id"`

	// LogChannelID receives warning/error log lines when logging.discord
	// is enabled. Empty disables delivery.
	LogChannelID string `json:"log_channel_id,omitempty"`

	// Presence is the "Playing ..." activity shown while connected.
	Presence string `json:"presence,omitempty"`
}

type Logging struct {
	Level   string         `json:"level"`
	Console bool           `json:"console"`
	File    LoggingFile    `json:"file"`
	Discord LoggingDiscord `json:"discord"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type LoggingDiscord struct {
	Enabled    bool   `json:"enabled"`
	MinLevel   string `json:"min_level"`
	RatePerSec int    `json:"rate_per_sec"`
}

// Automation controls the scheduling core.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
//
// Defaults (when fields are omitted/zero):
//   - workers: 2
//   - queue_size: 64
//   - grace: "60s" (fallback delay for events whose start time already passed)
//   - start_timeout: "30s"
//   - resync: "" (no periodic resync; sync runs on startup and on command)
type Automation struct {
	Enabled bool `json:"enabled"`
	Workers int  `json:"workers,omitempty"`

	QueueSize int `json:"queue_size,omitempty"`

	// Grace is how far into the future a past-due event is rescheduled
	// instead of being skipped.
	Grace string `json:"grace,omitempty"`

	// Resync is an optional cron spec or "@every" interval for periodic
	// reconciliation against the remote event list.
	Resync string `json:"resync,omitempty"`

	// StartTimeout bounds each fire (conflict resolution + start call).
	StartTimeout string `json:"start_timeout,omitempty"`

	// Timezone for the resync schedule (IANA name). Empty means local.
	Timezone string `json:"timezone,omitempty"`
}

// Storage configures the run-history store.
//
// Example:
//
//	"storage": { "driver": "sqlite", "path": "./eventbot.db" }
type Storage struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}
