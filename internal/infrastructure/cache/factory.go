package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/fundbilling/backend/internal/domain/billing"
	"github.com/fundbilling/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrRedisNotConnected reports that the factory runs without Redis
var ErrRedisNotConnected = errors.New("redis not connected")

// Factory builds the Redis backed billing components, falling back to
// in-process implementations when Redis is disabled or unreachable
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	client                *redis.Client
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory components
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// WithClient makes the factory use an existing Redis client
func WithClient(client *redis.Client) FactoryOption {
	return func(f *Factory) {
		f.client = client
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Connect opens the Redis client when Redis is enabled. A nil client with a
// nil error means the factory runs in in-memory mode.
func (f *Factory) Connect(ctx context.Context) (*redis.Client, error) {
	if f.client != nil {
		return f.client, nil
	}
	if !f.redisConfig.Enabled {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis is required but disabled")
		}
		f.logger.Info("Redis disabled, using in-memory locks and static exchange rates")
		return nil, nil
	}

	client, err := NewRedisClient(ctx, f.redisConfig)
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory locks and static exchange rates. "+
			"Issuance is then serialized per process only.",
			zap.Error(err),
		)
		return nil, nil
	}
	f.client = client
	f.logger.Info("Redis connected", zap.String("addr", f.redisConfig.Addr()))
	return client, nil
}

// Client returns the connected Redis client, nil in in-memory mode
func (f *Factory) Client() *redis.Client {
	return f.client
}

// Ping checks Redis reachability. ErrRedisNotConnected is returned in
// in-memory mode.
func (f *Factory) Ping(ctx context.Context) error {
	if f.client == nil {
		return ErrRedisNotConnected
	}
	return f.client.Ping(ctx).Err()
}

// CreateInvestorLocker returns a Redis locker when connected, otherwise an in-memory one
func (f *Factory) CreateInvestorLocker() billing.InvestorLocker {
	if f.client != nil {
		return NewRedisInvestorLocker(f.client, DefaultRedisInvestorLockerConfig(), f.logger.Named("investor_lock"))
	}
	return NewInMemoryInvestorLocker()
}

// CreateRateSource returns the Redis rates document when connected,
// otherwise a static source serving fallback
func (f *Factory) CreateRateSource(fallback map[string]string) (RateSource, error) {
	if f.client != nil {
		return NewRedisRateSource(f.client, DefaultRatesKey), nil
	}
	rates, err := ParseStaticRates(fallback)
	if err != nil {
		return nil, err
	}
	return NewStaticRateSource(rates), nil
}

// Close closes the Redis client if one was opened
func (f *Factory) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}
