package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"eventbot/internal/automation"
	"eventbot/internal/config"
	"eventbot/internal/history"
	"eventbot/internal/schedule"
	logx "eventbot/pkg/logx"
)

// validate rejects configs the services could not run with. Used both at
// startup and as the hot-reload gate.
func validate(cfg *config.Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if strings.TrimSpace(cfg.Discord.Token) == "" {
		return errors.New("discord.token is required")
	}
	if strings.TrimSpace(cfg.Discord.GuildID) == "" {
		return errors.New("discord.guild_id is required")
	}
	if _, err := automationConfig(cfg.Automation); err != nil {
		return err
	}
	if cfg.Storage != nil {
		switch strings.TrimSpace(cfg.Storage.Driver) {
		case "", "none", "file", "sqlite":
		default:
			return fmt.Errorf("storage.driver: unknown driver %q", cfg.Storage.Driver)
		}
		if _, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout); err != nil {
			return err
		}
	}
	return nil
}

func logxConfig(c config.Logging) logx.Config {
	return logx.Config{
		Level:   c.Level,
		Console: c.Console,
		File:    logx.FileConfig{Enabled: c.File.Enabled, Path: c.File.Path},
		Discord: logx.DiscordConfig{
			Enabled:    c.Discord.Enabled,
			MinLevel:   c.Discord.MinLevel,
			RatePerSec: c.Discord.RatePerSec,
		},
	}
}

func scheduleConfig(c config.Automation) schedule.Config {
	return schedule.Config{Workers: c.Workers, QueueSize: c.QueueSize}
}

func automationConfig(c config.Automation) (automation.Config, error) {
	grace, err := config.ParseDurationOrDefault("automation.grace", c.Grace, 60*time.Second)
	if err != nil {
		return automation.Config{}, err
	}
	startTimeout, err := config.ParseDurationOrDefault("automation.start_timeout", c.StartTimeout, 30*time.Second)
	if err != nil {
		return automation.Config{}, err
	}
	return automation.Config{
		Grace:        grace,
		StartTimeout: startTimeout,
		Resync:       c.Resync,
		Timezone:     c.Timezone,
	}, nil
}

func historyConfig(c *config.Storage) history.Config {
	if c == nil {
		return history.Config{}
	}
	busy, err := config.ParseDurationField("storage.busy_timeout", c.BusyTimeout)
	if err != nil {
		busy = 0
	}
	return history.Config{Driver: c.Driver, Path: c.Path, BusyTimeout: busy}
}
