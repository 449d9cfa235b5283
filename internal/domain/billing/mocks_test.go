package billing

import (
	"context"

	"github.com/fundbilling/backend/internal/domain/fund"
	"github.com/fundbilling/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockInvestmentReader is a mock implementation of InvestmentReader
type MockInvestmentReader struct {
	mock.Mock
}

func (m *MockInvestmentReader) FindByID(ctx context.Context, id uuid.UUID) (*fund.Investment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fund.Investment), args.Error(1)
}

func (m *MockInvestmentReader) FindByInvestor(ctx context.Context, investorID uuid.UUID) ([]fund.Investment, error) {
	args := m.Called(ctx, investorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fund.Investment), args.Error(1)
}

// MockBillLookup is a mock implementation of BillLookup
type MockBillLookup struct {
	mock.Mock
}

func (m *MockBillLookup) ExistsForInvestor(ctx context.Context, investorID uuid.UUID, billType BillType, feesYear *int) (bool, error) {
	args := m.Called(ctx, investorID, billType, feesYear)
	return args.Bool(0), args.Error(1)
}

// staticRates is a fixed RateProvider
type staticRates map[valueobject.Currency]decimal.Decimal

func (r staticRates) Rate(_ context.Context, currency valueobject.Currency) (decimal.Decimal, bool) {
	rate, ok := r[currency]
	return rate, ok
}
