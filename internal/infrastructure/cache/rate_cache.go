package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fundbilling/backend/internal/domain/billing"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// rateSnapshot is an immutable rate table and the moment it was loaded
type rateSnapshot struct {
	rates    map[string]decimal.Decimal
	loadedAt time.Time
}

// RateCache keeps the latest exchange rate snapshot in memory. Lookups on
// a snapshot older than maxStaleness refresh it synchronously; if that
// refresh fails the stale snapshot keeps being served.
type RateCache struct {
	source       RateSource
	maxStaleness time.Duration
	clock        shared.Clock
	logger       *zap.Logger

	mu       sync.RWMutex
	snapshot *rateSnapshot

	refreshMu sync.Mutex
}

// RateCacheOption configures a RateCache
type RateCacheOption func(*RateCache)

// WithRateCacheClock sets the clock used to age snapshots
func WithRateCacheClock(clock shared.Clock) RateCacheOption {
	return func(c *RateCache) {
		c.clock = clock
	}
}

// WithRateCacheLogger sets the logger
func WithRateCacheLogger(logger *zap.Logger) RateCacheOption {
	return func(c *RateCache) {
		c.logger = logger
	}
}

// NewRateCache creates an empty cache over source. A zero maxStaleness
// disables refresh on lookup.
func NewRateCache(source RateSource, maxStaleness time.Duration, opts ...RateCacheOption) *RateCache {
	c := &RateCache{
		source:       source,
		maxStaleness: maxStaleness,
		clock:        shared.SystemClock{},
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh fetches rates from the source and atomically replaces the snapshot
func (c *RateCache) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	return c.refreshLocked(ctx)
}

func (c *RateCache) refreshLocked(ctx context.Context) error {
	rates, err := c.source.FetchRates(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh exchange rates: %w", err)
	}
	snap := &rateSnapshot{rates: rates, loadedAt: c.clock.Now()}

	c.mu.Lock()
	c.snapshot = snap
	c.mu.Unlock()

	c.logger.Debug("Exchange rates refreshed", zap.Int("currencies", len(rates)))
	return nil
}

// Rate returns the USD to currency multiplier
func (c *RateCache) Rate(ctx context.Context, currency valueobject.Currency) (decimal.Decimal, bool) {
	snap := c.current()
	if c.isStale(snap) {
		snap = c.refreshStale(ctx)
	}
	if snap == nil {
		return decimal.Zero, false
	}
	rate, ok := snap.rates[currency.String()]
	return rate, ok
}

// refreshStale refreshes once per stale period; concurrent callers wait for
// the refresh in flight and then read its result
func (c *RateCache) refreshStale(ctx context.Context) *rateSnapshot {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if snap := c.current(); !c.isStale(snap) {
		return snap
	}
	if err := c.refreshLocked(ctx); err != nil {
		stale := c.current()
		fields := []zap.Field{zap.Error(err)}
		if stale != nil {
			fields = append(fields, zap.Duration("age", c.clock.Now().Sub(stale.loadedAt)))
		}
		c.logger.Warn("Serving stale exchange rates", fields...)
		return stale
	}
	return c.current()
}

func (c *RateCache) current() *rateSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

func (c *RateCache) isStale(snap *rateSnapshot) bool {
	if snap == nil {
		return true
	}
	return c.maxStaleness > 0 && c.clock.Now().Sub(snap.loadedAt) > c.maxStaleness
}

// LoadedAt returns when the current snapshot was loaded, zero if never
func (c *RateCache) LoadedAt() time.Time {
	if snap := c.current(); snap != nil {
		return snap.loadedAt
	}
	return time.Time{}
}

// Age returns the age of the current snapshot, or -1 when nothing is loaded
func (c *RateCache) Age() time.Duration {
	snap := c.current()
	if snap == nil {
		return -1
	}
	return c.clock.Now().Sub(snap.loadedAt)
}

var _ billing.RateProvider = (*RateCache)(nil)
