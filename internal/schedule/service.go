package schedule

import (
	"context"
	"runtime/debug"
	"time"

	logx "eventbot/pkg/logx"
)

func New(cfg Config, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		log:     log,
		cfg:     cfg,
		entries: map[string]*entry{},
		vers:    map[string]uint64{},
	}
}

// Apply updates pool sizing; takes effect on the next Start().
func (s *Service) Apply(cfg Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopCh != nil
}

func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh != nil {
		return
	}
	s.stopCh = make(chan struct{})
	s.runCtx, s.runCancel = context.WithCancel(ctx)

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = 2
	}
	queueSize := s.cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	// Fresh queue per run so tasks enqueued before a stop/start toggle
	// cannot execute as stale work afterwards.
	s.queue = make(chan task, queueSize)

	runCtx := s.runCtx
	stopCh := s.stopCh
	queue := s.queue

	s.workerWG.Add(workers)
	for i := 0; i < workers; i++ {
		idx := i
		go func() {
			defer s.workerWG.Done()
			defer func() {
				if r := recover(); r != nil {
					s.log.Error("panic in schedule worker", logx.Int("worker", idx), logx.Any("panic", r), logx.Stack(string(debug.Stack())))
				}
			}()
			s.worker(runCtx, stopCh, queue, idx)
		}()
	}
	s.log.Info("job runner started", logx.Int("workers", workers), logx.Int("queue_cap", queueSize))
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	if s.stopCh == nil {
		s.mu.Unlock()
		return
	}
	stopCh := s.stopCh
	cancel := s.runCancel
	s.stopCh = nil
	s.runCtx = nil
	s.runCancel = nil
	s.queue = nil
	s.mu.Unlock()

	// Stop pending timers; the table definitions stay so a restart could
	// resync, but fired callbacks will see a closed runtime and drop.
	s.tmu.Lock()
	for _, e := range s.entries {
		if e.timer != nil {
			_ = e.timer.Stop()
		}
	}
	s.tmu.Unlock()

	close(stopCh)
	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		s.workerWG.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.log.Info("job runner stopped")
	case <-ctx.Done():
		// workers drain in background
	}
}

func (s *Service) enqueue(t task) {
	s.mu.Lock()
	q := s.queue
	s.mu.Unlock()
	if q == nil {
		s.log.Warn("job runner not running; dropping job", logx.String("key", t.key))
		return
	}
	select {
	case q <- t:
		// ok
	default:
		s.log.Warn("job queue full; dropping job", logx.String("key", t.key), logx.Int("queue_len", len(q)), logx.Int("queue_cap", cap(q)))
	}
}

func (s *Service) worker(ctx context.Context, stopCh <-chan struct{}, queue <-chan task, idx int) {
	for {
		// Fast-exit check so a closed stopCh wins over queued work.
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case t := <-queue:
			s.execOne(ctx, t, idx)
		}
	}
}

func (s *Service) execOne(ctx context.Context, t task, idx int) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic in job payload", logx.String("key", t.key), logx.Int("worker", idx), logx.Any("panic", r), logx.Stack(string(debug.Stack())))
		}
	}()
	t.run(ctx)
	s.log.Debug("job executed", logx.String("key", t.key), logx.Duration("dur", time.Since(start)))
}
