package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// OverdueSweeper moves pending bills past their due date to overdue
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context) (int64, error)
}

// OverdueSweepScheduler runs the overdue sweep on a fixed interval
type OverdueSweepScheduler struct {
	sweeper OverdueSweeper
	logger  *zap.Logger
	runner  *intervalRunner
}

// DefaultOverdueSweepSchedulerConfig returns default configuration
func DefaultOverdueSweepSchedulerConfig() IntervalConfig {
	return IntervalConfig{
		Enabled:      true,
		InitialDelay: time.Minute,
		Interval:     time.Hour,
		Timeout:      5 * time.Minute,
	}
}

// NewOverdueSweepScheduler creates a new overdue sweep scheduler
func NewOverdueSweepScheduler(sweeper OverdueSweeper, logger *zap.Logger, config IntervalConfig) *OverdueSweepScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &OverdueSweepScheduler{sweeper: sweeper, logger: logger}
	s.runner = newIntervalRunner("overdue_sweep", config, logger, s.executeSweep)
	return s
}

// Start starts the sweep loop. A disabled scheduler starts as a no-op.
func (s *OverdueSweepScheduler) Start(ctx context.Context) error {
	return s.runner.start(ctx)
}

// Stop gracefully stops the scheduler, waiting for an in-flight sweep
func (s *OverdueSweepScheduler) Stop(ctx context.Context) error {
	return s.runner.stop(ctx)
}

// TriggerImmediate runs a sweep now without waiting for the interval
func (s *OverdueSweepScheduler) TriggerImmediate(ctx context.Context) error {
	return s.runner.trigger(ctx)
}

// IsRunning returns whether the scheduler is running
func (s *OverdueSweepScheduler) IsRunning() bool {
	return s.runner.running()
}

func (s *OverdueSweepScheduler) executeSweep(ctx context.Context) {
	startTime := time.Now()
	count, err := s.sweeper.SweepOverdue(ctx)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Overdue sweep failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Overdue sweep completed",
		zap.Duration("duration", duration),
		zap.Int64("bills_marked_overdue", count),
	)
}
