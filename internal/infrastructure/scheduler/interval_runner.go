package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// IntervalConfig controls a job that runs on a fixed interval
type IntervalConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// InitialDelay is the wait before the first run after Start
	InitialDelay time.Duration

	// Interval is the time between the end of one run and the start of the next
	Interval time.Duration

	// Timeout is the maximum time for a single run
	Timeout time.Duration
}

// Validate checks the configuration of an enabled job
func (c IntervalConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if c.InitialDelay < 0 {
		return fmt.Errorf("%w: initial delay cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// intervalRunner owns the goroutine lifecycle shared by interval schedulers.
// Runs never overlap: the loop and immediate triggers share runMu.
type intervalRunner struct {
	name   string
	run    func(ctx context.Context)
	logger *zap.Logger
	config IntervalConfig

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	runMu     sync.Mutex
	isRunning bool
}

func newIntervalRunner(name string, config IntervalConfig, logger *zap.Logger, run func(ctx context.Context)) *intervalRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &intervalRunner{name: name, run: run, logger: logger, config: config}
}

func (r *intervalRunner) start(ctx context.Context) error {
	r.mu.Lock()
	if r.isRunning {
		r.mu.Unlock()
		return nil
	}
	if !r.config.Enabled {
		r.mu.Unlock()
		r.logger.Info("Scheduler is disabled", zap.String("scheduler", r.name))
		return nil
	}
	if err := r.config.Validate(); err != nil {
		r.mu.Unlock()
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.isRunning = true
	r.wg.Add(1)
	r.mu.Unlock()

	go r.loop(ctx)

	r.logger.Info("Scheduler started",
		zap.String("scheduler", r.name),
		zap.Duration("initial_delay", r.config.InitialDelay),
		zap.Duration("interval", r.config.Interval),
		zap.Duration("timeout", r.config.Timeout),
	)
	return nil
}

func (r *intervalRunner) stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = false
	cancel := r.cancel
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("Scheduler stopped gracefully", zap.String("scheduler", r.name))
		return nil
	case <-ctx.Done():
		r.logger.Warn("Scheduler stop timed out", zap.String("scheduler", r.name))
		return ctx.Err()
	}
}

func (r *intervalRunner) loop(ctx context.Context) {
	defer r.wg.Done()

	delay := r.config.InitialDelay
	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("Scheduler loop stopping", zap.String("scheduler", r.name))
			return
		case <-timer.C:
			r.execute(ctx)
			timer.Reset(r.config.Interval)
		}
	}
}

// execute runs the job once under the per-run timeout
func (r *intervalRunner) execute(ctx context.Context) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	runCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()
	r.run(runCtx)
}

func (r *intervalRunner) trigger(ctx context.Context) error {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	r.wg.Add(1)
	r.mu.Unlock()

	r.logger.Info("Triggering immediate run", zap.String("scheduler", r.name))

	go func() {
		defer r.wg.Done()
		r.execute(context.WithoutCancel(ctx))
	}()
	return nil
}

func (r *intervalRunner) running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isRunning
}
