package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fundbilling/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrLockTimeout is returned when an investor lock cannot be acquired in time
var ErrLockTimeout = errors.New("timed out waiting for investor lock")

// InMemoryInvestorLocker is a keyed mutex. It serializes issuance within a
// single process only.
type InMemoryInvestorLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*investorLock
}

type investorLock struct {
	ch   chan struct{}
	refs int
}

// NewInMemoryInvestorLocker creates a new in-process locker
func NewInMemoryInvestorLocker() *InMemoryInvestorLocker {
	return &InMemoryInvestorLocker{locks: make(map[uuid.UUID]*investorLock)}
}

// Lock waits for the investor's lock or ctx cancellation
func (l *InMemoryInvestorLocker) Lock(ctx context.Context, investorID uuid.UUID) (func(), error) {
	l.mu.Lock()
	lock, ok := l.locks[investorID]
	if !ok {
		lock = &investorLock{ch: make(chan struct{}, 1)}
		l.locks[investorID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	select {
	case lock.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(investorID, lock)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-lock.ch
			l.unref(investorID, lock)
		})
	}, nil
}

func (l *InMemoryInvestorLocker) unref(investorID uuid.UUID, lock *investorLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, investorID)
	}
}

// size returns the number of investors with a held or awaited lock
func (l *InMemoryInvestorLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// releaseScript deletes the key only while it still holds the caller's token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisInvestorLockerConfig tunes the distributed lock
type RedisInvestorLockerConfig struct {
	KeyPrefix    string        // Key namespace
	TTL          time.Duration // Lock expiry, bounds the hold time of a crashed holder
	RetryDelay   time.Duration // Pause between acquisition attempts
	WaitTimeout  time.Duration // Maximum time spent acquiring
	ReleaseAfter time.Duration // Timeout for the release round trip
}

// DefaultRedisInvestorLockerConfig returns the default lock settings
func DefaultRedisInvestorLockerConfig() RedisInvestorLockerConfig {
	return RedisInvestorLockerConfig{
		KeyPrefix:    "billing:lock:investor:",
		TTL:          30 * time.Second,
		RetryDelay:   50 * time.Millisecond,
		WaitTimeout:  10 * time.Second,
		ReleaseAfter: 2 * time.Second,
	}
}

// RedisInvestorLocker serializes issuance across instances using
// SET NX PX with a random token and a compare-and-delete release
type RedisInvestorLocker struct {
	client redis.UniversalClient
	config RedisInvestorLockerConfig
	logger *zap.Logger
}

// NewRedisInvestorLocker creates a new distributed locker
func NewRedisInvestorLocker(client redis.UniversalClient, cfg RedisInvestorLockerConfig, logger *zap.Logger) *RedisInvestorLocker {
	defaults := DefaultRedisInvestorLockerConfig()
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaults.KeyPrefix
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaults.TTL
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaults.RetryDelay
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = defaults.WaitTimeout
	}
	if cfg.ReleaseAfter <= 0 {
		cfg.ReleaseAfter = defaults.ReleaseAfter
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisInvestorLocker{client: client, config: cfg, logger: logger}
}

// Lock polls SET NX until it wins, ctx is done or WaitTimeout elapses
func (l *RedisInvestorLocker) Lock(ctx context.Context, investorID uuid.UUID) (func(), error) {
	key := l.config.KeyPrefix + investorID.String()
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.config.WaitTimeout)
	defer cancel()

	ticker := time.NewTicker(l.config.RetryDelay)
	defer ticker.Stop()

	for {
		acquired, err := l.client.SetNX(waitCtx, key, token, l.config.TTL).Result()
		if err != nil {
			if waitCtx.Err() != nil {
				return nil, l.waitError(ctx, investorID)
			}
			return nil, fmt.Errorf("failed to acquire investor lock: %w", err)
		}
		if acquired {
			return l.releaser(key, token), nil
		}

		select {
		case <-waitCtx.Done():
			return nil, l.waitError(ctx, investorID)
		case <-ticker.C:
		}
	}
}

func (l *RedisInvestorLocker) waitError(ctx context.Context, investorID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fmt.Errorf("%w %s", ErrLockTimeout, investorID)
}

func (l *RedisInvestorLocker) releaser(key, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), l.config.ReleaseAfter)
			defer cancel()
			if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
				// The key still expires after TTL
				l.logger.Warn("Failed to release investor lock", zap.String("key", key), zap.Error(err))
			}
		})
	}
}

var (
	_ billing.InvestorLocker = (*InMemoryInvestorLocker)(nil)
	_ billing.InvestorLocker = (*RedisInvestorLocker)(nil)
)
