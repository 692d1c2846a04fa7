package automation

import (
	"context"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"eventbot/internal/discord"
	"eventbot/internal/eventbus"
	"eventbot/internal/schedule"
	logx "eventbot/pkg/logx"
)

func New(src discord.EventSource, jobs *schedule.Service, bus eventbus.Bus, cfg Config, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		src:  src,
		jobs: jobs,
		bus:  bus,
		log:  log,
		cfg:  cfg,
		// SecondOptional allows both 5-field and 6-field (with seconds) resync specs.
		parser: cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		now:    time.Now,
	}
}

// Start brings up the job runner and, if configured, the resync schedule.
func (s *Service) Start(ctx context.Context) error {
	s.jobs.Start(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startCronLocked(ctx)
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.c
	s.c = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	s.jobs.Stop(ctx)
}

// Apply updates tunables at runtime. A changed resync spec or timezone
// restarts the cron; grace/timeout changes take effect on the next use.
func (s *Service) Apply(ctx context.Context, cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldSpec := strings.TrimSpace(s.cfg.Resync)
	oldTZ := strings.TrimSpace(s.cfg.Timezone)
	s.cfg = cfg

	if s.c == nil && strings.TrimSpace(cfg.Resync) == "" {
		return
	}
	if oldSpec == strings.TrimSpace(cfg.Resync) && oldTZ == strings.TrimSpace(cfg.Timezone) {
		return
	}
	if s.c != nil {
		<-s.c.Stop().Done()
		s.c = nil
	}
	if err := s.startCronLocked(ctx); err != nil {
		s.log.Warn("resync schedule rejected", logx.String("spec", cfg.Resync), logx.Err(err))
	}
}

// startCronLocked registers the resync schedule. Call with s.mu held.
func (s *Service) startCronLocked(ctx context.Context) error {
	spec := strings.TrimSpace(s.cfg.Resync)
	if spec == "" {
		return nil
	}
	loc := s.loadLocationLocked()
	c := cron.New(cron.WithParser(s.parser), cron.WithLocation(loc))
	_, err := c.AddFunc(spec, func() {
		runCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		if _, err := s.Sync(runCtx); err != nil {
			s.log.Warn("periodic sync failed", logx.Err(err))
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	s.c = c
	s.log.Info("resync schedule registered", logx.String("spec", spec), logx.String("tz", loc.String()))
	return nil
}

func (s *Service) loadLocationLocked() *time.Location {
	tz := strings.TrimSpace(s.cfg.Timezone)
	if tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		s.log.Warn("invalid timezone; falling back to Local", logx.String("tz", tz), logx.Err(err))
		return time.Local
	}
	return loc
}

func (s *Service) grace() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.Grace > 0 {
		return s.cfg.Grace
	}
	return 60 * time.Second
}

func (s *Service) startTimeout() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.StartTimeout > 0 {
		return s.cfg.StartTimeout
	}
	return 30 * time.Second
}

func (s *Service) publish(typ string, data any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(eventbus.Event{Type: typ, Data: data})
}
