package billing

import (
	"context"

	"github.com/fundbilling/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// RateProvider looks up the multiplier converting one USD into a currency
type RateProvider interface {
	Rate(ctx context.Context, currency valueobject.Currency) (decimal.Decimal, bool)
}

// CurrencyConverter converts USD fee amounts to a settlement currency
type CurrencyConverter struct {
	rates RateProvider
}

// NewCurrencyConverter creates a new CurrencyConverter
func NewCurrencyConverter(rates RateProvider) *CurrencyConverter {
	return &CurrencyConverter{rates: rates}
}

// Convert returns amountUSD expressed in target, rounded to cents.
// USD is returned unchanged; a currency without a cached rate fails
// instead of falling back to parity.
func (c *CurrencyConverter) Convert(ctx context.Context, amountUSD decimal.Decimal, target valueobject.Currency) (decimal.Decimal, error) {
	if target == "" || target.IsBase() {
		return amountUSD, nil
	}
	rate, ok := c.rates.Rate(ctx, target)
	if !ok || !rate.IsPositive() {
		return decimal.Zero, NewRateUnavailableError(target.String())
	}
	return amountUSD.Mul(rate).Round(2), nil
}
