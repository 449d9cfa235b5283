package testutil

import (
	"testing"
	"time"

	"github.com/fundbilling/backend/internal/domain/fund"
	"github.com/fundbilling/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// NewInvestor builds an investor settling in currency
func NewInvestor(t *testing.T, name, currency string) *fund.Entity {
	t.Helper()
	return newEntity(t, fund.EntityTypeInvestor, name, currency)
}

// NewFund builds a fund vehicle settling in USD
func NewFund(t *testing.T, name string) *fund.Entity {
	t.Helper()
	return newEntity(t, fund.EntityTypeFund, name, "USD")
}

func newEntity(t *testing.T, entityType fund.EntityType, name, currency string) *fund.Entity {
	t.Helper()
	e, err := fund.NewEntity(entityType, fund.EntityDetails{
		Name:                name,
		BankAccountCurrency: currency,
		BankAccountNumber:   "GB82WEST12345698765432",
		BankAccountType:     valueobject.BankAccountIBAN,
		ContactPersonEmail:  "ops@example.com",
	})
	require.NoError(t, err)
	return e
}

// NewCapitalCall builds a validated call from fundID to investors, due in 30 days
func NewCapitalCall(t *testing.T, fundID uuid.UUID, date time.Time, investors ...uuid.UUID) *fund.CapitalCall {
	t.Helper()
	call, err := fund.NewCapitalCall(fundID, fund.CapitalCallDetails{
		InvestorEntities: investors,
		Date:             date,
		Purpose:          "Initial drawdown",
		Currency:         "USD",
		PaymentMethod:    "wire",
		DueDate:          date.AddDate(0, 0, 30),
	})
	require.NoError(t, err)
	return call
}

// NewInvestment builds a commitment of amount USD
func NewInvestment(t *testing.T, investorID uuid.UUID, amount int64, duration int, date time.Time) *fund.Investment {
	t.Helper()
	inv, err := fund.NewInvestment(investorID, decimal.NewFromInt(amount), duration, date)
	require.NoError(t, err)
	return inv
}

// Date returns midnight UTC of the given day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
