package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RateRefresher reloads the exchange rate snapshot
type RateRefresher interface {
	Refresh(ctx context.Context) error
}

// RateRefreshScheduler refreshes cached exchange rates on a fixed interval
type RateRefreshScheduler struct {
	refresher RateRefresher
	logger    *zap.Logger
	runner    *intervalRunner
}

// DefaultRateRefreshSchedulerConfig returns default configuration. The
// first refresh waits a full interval because rates load at startup.
func DefaultRateRefreshSchedulerConfig() IntervalConfig {
	return IntervalConfig{
		Enabled:      true,
		InitialDelay: 5 * time.Minute,
		Interval:     5 * time.Minute,
		Timeout:      30 * time.Second,
	}
}

// NewRateRefreshScheduler creates a new rate refresh scheduler
func NewRateRefreshScheduler(refresher RateRefresher, logger *zap.Logger, config IntervalConfig) *RateRefreshScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RateRefreshScheduler{refresher: refresher, logger: logger}
	s.runner = newIntervalRunner("rate_refresh", config, logger, s.executeRefresh)
	return s
}

// Start starts the refresh loop
func (s *RateRefreshScheduler) Start(ctx context.Context) error {
	return s.runner.start(ctx)
}

// Stop gracefully stops the scheduler
func (s *RateRefreshScheduler) Stop(ctx context.Context) error {
	return s.runner.stop(ctx)
}

// TriggerImmediate refreshes rates now
func (s *RateRefreshScheduler) TriggerImmediate(ctx context.Context) error {
	return s.runner.trigger(ctx)
}

// IsRunning returns whether the scheduler is running
func (s *RateRefreshScheduler) IsRunning() bool {
	return s.runner.running()
}

func (s *RateRefreshScheduler) executeRefresh(ctx context.Context) {
	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Warn("Exchange rate refresh failed, keeping current snapshot", zap.Error(err))
		return
	}
	s.logger.Debug("Exchange rates refreshed")
}
