package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// DefaultRatesKey is the Redis JSON document holding exchange rates
const DefaultRatesKey = "currencies"

// ErrRatesNotFound is returned when the rates document does not exist
var ErrRatesNotFound = errors.New("exchange rates document not found")

// RateSource fetches USD based exchange rates keyed by ISO 4217 code
type RateSource interface {
	FetchRates(ctx context.Context) (map[string]decimal.Decimal, error)
}

// ratesDocument is the shape of the currencies document
type ratesDocument struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

// RedisRateSource reads rates from a RedisJSON document whose "rates"
// object maps currency codes to the USD multiplier
type RedisRateSource struct {
	client redis.UniversalClient
	key    string
}

// NewRedisRateSource creates a source reading key, DefaultRatesKey when empty
func NewRedisRateSource(client redis.UniversalClient, key string) *RedisRateSource {
	if key == "" {
		key = DefaultRatesKey
	}
	return &RedisRateSource{client: client, key: key}
}

// FetchRates reads the whole rates document
func (s *RedisRateSource) FetchRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	raw, err := s.client.JSONGet(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRatesNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.key, err)
	}
	return ParseRatesDocument([]byte(raw))
}

// ParseRatesDocument decodes a currencies document. Codes are upper-cased.
func ParseRatesDocument(data []byte) (map[string]decimal.Decimal, error) {
	var doc ratesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid exchange rates document: %w", err)
	}
	if doc.Rates == nil {
		return nil, fmt.Errorf("invalid exchange rates document: missing rates")
	}
	rates := make(map[string]decimal.Decimal, len(doc.Rates))
	for code, rate := range doc.Rates {
		rates[strings.ToUpper(strings.TrimSpace(code))] = rate
	}
	return rates, nil
}

// StaticRateSource serves a fixed, replaceable rate table
type StaticRateSource struct {
	mu    sync.RWMutex
	rates map[string]decimal.Decimal
	err   error
}

// NewStaticRateSource creates a source serving rates
func NewStaticRateSource(rates map[string]decimal.Decimal) *StaticRateSource {
	s := &StaticRateSource{}
	s.Set(rates)
	return s
}

// Set replaces the served rates and clears any injected failure
func (s *StaticRateSource) Set(rates map[string]decimal.Decimal) {
	copied := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		copied[strings.ToUpper(code)] = rate
	}
	s.mu.Lock()
	s.rates = copied
	s.err = nil
	s.mu.Unlock()
}

// Fail makes subsequent fetches return err
func (s *StaticRateSource) Fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// FetchRates returns a copy of the rate table
func (s *StaticRateSource) FetchRates(_ context.Context) (map[string]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	copied := make(map[string]decimal.Decimal, len(s.rates))
	for code, rate := range s.rates {
		copied[code] = rate
	}
	return copied, nil
}

var (
	_ RateSource = (*RedisRateSource)(nil)
	_ RateSource = (*StaticRateSource)(nil)
)

// ParseStaticRates converts configured code to rate strings into decimals
func ParseStaticRates(raw map[string]string) (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal, len(raw))
	for code, value := range raw {
		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid exchange rate for %s: %q", code, value)
		}
		rates[strings.ToUpper(code)] = rate
	}
	return rates, nil
}
