package tokensync

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	loggeradapter "github.com/jatsharma/stackera-project/internal/adapters/logger"
)

type Runner interface {
	Run(ctx context.Context) Result
}

// Scheduler runs a Runner on a fixed interval. At most one run is in flight;
// a tick that finds the previous run still going is skipped.
type Scheduler struct {
	job        Runner
	interval   time.Duration
	runOnStart bool
	logger     *loggeradapter.Logger

	runMu sync.Mutex

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewScheduler(job Runner, interval time.Duration, runOnStart bool, logger *loggeradapter.Logger) *Scheduler {
	if logger == nil {
		logger = loggeradapter.NewNopLogger()
	}
	return &Scheduler{
		job:        job,
		interval:   interval,
		runOnStart: runOnStart,
		logger:     logger,
	}
}

// Start launches the background loop and returns immediately.
// Calling Start on a running scheduler does nothing.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("token sync scheduler started",
		zap.Duration("interval", s.interval),
		zap.Bool("run_on_start", s.runOnStart),
	)
}

// Stop cancels the loop and any run in flight, then waits for them to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("token sync scheduler stopped")
}

// Trigger runs one cycle now unless another is in progress, in which case ok is false.
func (s *Scheduler) Trigger(ctx context.Context) (res Result, ok bool) {
	if !s.runMu.TryLock() {
		s.logger.Warn("token sync already running, skipping")
		return Result{}, false
	}
	defer s.runMu.Unlock()

	return s.job.Run(ctx), true
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	if s.runOnStart {
		s.Trigger(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Trigger(ctx)
		case <-ctx.Done():
			return
		}
	}
}
