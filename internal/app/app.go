// Package app wires configuration, logging, the gateway adapter and the
// automation core together and owns their lifecycles.
package app

import (
	"context"
	"fmt"
	"time"

	"eventbot/internal/automation"
	"eventbot/internal/commands"
	"eventbot/internal/config"
	"eventbot/internal/discord"
	"eventbot/internal/eventbus"
	"eventbot/internal/history"
	"eventbot/internal/runtime/supervisor"
	"eventbot/internal/schedule"
	logx "eventbot/pkg/logx"
)

type App struct {
	cfgMgr *config.Manager
	logSvc *logx.Service
	log    logx.Logger

	bus     eventbus.Bus
	adapter *discord.Adapter
	jobs    *schedule.Service
	auto    *automation.Service
	hist    history.Store
	cmds    *commands.Handler

	sup *supervisor.Supervisor
}

func New(configPath string) (*App, error) {
	cfgMgr := config.NewManager(configPath)
	cfg, err := cfgMgr.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}

	logSvc, log := logx.New(logxConfig(cfg.Logging))
	cfgMgr.SetLogger(log.With(logx.String("comp", "config")))
	cfgMgr.SetValidator(func(_ context.Context, c *config.Config) error { return validate(c) })

	adapter, err := discord.New(discord.Config{
		Token:    cfg.Discord.Token,
		GuildID:  cfg.Discord.GuildID,
		Presence: cfg.Discord.Presence,
	}, log.With(logx.String("comp", "discord")))
	if err != nil {
		logSvc.Close()
		return nil, err
	}
	logSvc.SetSender(adapter)
	logSvc.SetDiscordTarget(cfg.Discord.LogChannelID)

	bus := eventbus.New()
	jobs := schedule.New(scheduleConfig(cfg.Automation), log.With(logx.String("comp", "schedule")))

	autoCfg, err := automationConfig(cfg.Automation)
	if err != nil {
		logSvc.Close()
		return nil, err
	}
	auto := automation.New(adapter, jobs, bus, autoCfg, log.With(logx.String("comp", "automation")))

	hist, err := history.Open(historyConfig(cfg.Storage), log.With(logx.String("comp", "history")))
	if err != nil {
		logSvc.Close()
		return nil, fmt.Errorf("opening history store: %w", err)
	}

	var runs commands.Runs
	if hist != nil {
		runs = hist
	}
	cmds := commands.New(adapter, auto, runs, log.With(logx.String("comp", "commands")))

	return &App{
		cfgMgr:  cfgMgr,
		logSvc:  logSvc,
		log:     log,
		bus:     bus,
		adapter: adapter,
		jobs:    jobs,
		auto:    auto,
		hist:    hist,
		cmds:    cmds,
	}, nil
}

// Start connects to the gateway and brings up the background loops. It
// returns once the session is open; command registration and the initial
// sync run when the gateway reports ready.
func (a *App) Start(ctx context.Context) error {
	cfg := a.cfgMgr.Get()

	a.sup = supervisor.New(ctx, supervisor.WithLogger(a.log.With(logx.String("comp", "supervisor"))))
	a.sup.GoRestart("config.watch", a.cfgMgr.Watch)
	a.sup.Go0("config.reload", a.reloadLoop)
	if a.hist != nil {
		a.sup.Go0("history.recorder", a.recordLoop)
	}

	enabled := cfg.Automation.Enabled
	if enabled {
		if err := a.auto.Start(a.sup.Context()); err != nil {
			return err
		}
	} else {
		a.log.Warn("automation disabled; only commands will answer")
	}

	a.adapter.OnReady(func() {
		if err := a.cmds.Register(); err != nil {
			a.log.Error("command registration failed", logx.Err(err))
		}
		if !enabled {
			return
		}
		// First reconciliation; recovers timers lost to the last shutdown.
		syncCtx, cancel := context.WithTimeout(a.sup.Context(), time.Minute)
		defer cancel()
		if _, err := a.auto.Sync(syncCtx); err != nil {
			a.log.Error("startup sync failed", logx.Err(err))
		}
	})

	if err := a.adapter.Start(ctx); err != nil {
		return fmt.Errorf("opening gateway: %w", err)
	}
	a.log.Info("bot started", logx.String("guild_id", cfg.Discord.GuildID))
	return nil
}

func (a *App) Stop(ctx context.Context) {
	if a.sup != nil {
		if err := a.sup.Stop(ctx); err != nil {
			a.log.Warn("supervisor stop", logx.Err(err))
		}
	}
	a.auto.Stop(ctx)
	if err := a.adapter.Stop(ctx); err != nil {
		a.log.Warn("gateway close", logx.Err(err))
	}
	if a.hist != nil {
		if err := a.hist.Close(); err != nil {
			a.log.Warn("history close", logx.Err(err))
		}
	}
	a.log.Info("bot stopped")
	a.logSvc.Close()
}

// reloadLoop applies committed config changes to the running services.
// Token and guild changes need a restart; everything else is hot.
func (a *App) reloadLoop(ctx context.Context) {
	ch := a.cfgMgr.Subscribe(4)
	defer a.cfgMgr.Unsubscribe(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-ch:
			if !ok || cfg == nil {
				return
			}
			a.applyConfig(ctx, cfg)
		}
	}
}

func (a *App) applyConfig(ctx context.Context, cfg *config.Config) {
	a.logSvc.Apply(logxConfig(cfg.Logging))
	a.logSvc.SetDiscordTarget(cfg.Discord.LogChannelID)

	a.jobs.Apply(scheduleConfig(cfg.Automation))
	autoCfg, err := automationConfig(cfg.Automation)
	if err != nil {
		// validate() catches this before commit; belt and braces.
		a.log.Warn("automation config rejected", logx.Err(err))
		return
	}
	a.auto.Apply(ctx, autoCfg)
	a.log.Info("config reloaded")
}

// recordLoop drains run records off the bus into the history store, keeping
// persistence off the timer goroutines.
func (a *App) recordLoop(ctx context.Context) {
	ch, unsub := a.bus.Subscribe(64)
	defer unsub()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			if e.Type != automation.TopicRun {
				continue
			}
			rec, ok := e.Data.(history.RunEntry)
			if !ok {
				continue
			}
			wctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := a.hist.AppendRun(wctx, rec); err != nil {
				a.log.Warn("recording run failed", logx.Err(err))
			}
			cancel()
		}
	}
}
