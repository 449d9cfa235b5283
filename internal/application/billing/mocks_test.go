package billing

import (
	"context"
	"sync"
	"time"

	"github.com/fundbilling/backend/internal/domain/billing"
	"github.com/fundbilling/backend/internal/domain/fund"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockBillRepository is a mock implementation of BillRepository
type MockBillRepository struct {
	mock.Mock
}

func (m *MockBillRepository) ExistsForInvestor(ctx context.Context, investorID uuid.UUID, billType billing.BillType, feesYear *int) (bool, error) {
	args := m.Called(ctx, investorID, billType, feesYear)
	return args.Bool(0), args.Error(1)
}

func (m *MockBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Bill), args.Error(1)
}

func (m *MockBillRepository) FindMembership(ctx context.Context, investorID uuid.UUID) (*billing.Bill, error) {
	args := m.Called(ctx, investorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Bill), args.Error(1)
}

func (m *MockBillRepository) FindAll(ctx context.Context, filter billing.BillFilter) ([]billing.Bill, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Bill), args.Error(1)
}

func (m *MockBillRepository) Count(ctx context.Context, filter billing.BillFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBillRepository) Create(ctx context.Context, bill *billing.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) SaveWithLock(ctx context.Context, bill *billing.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBillRepository) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

// MockEntityRepository is a mock implementation of EntityRepository
type MockEntityRepository struct {
	mock.Mock
}

func (m *MockEntityRepository) FindByID(ctx context.Context, id uuid.UUID) (*fund.Entity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fund.Entity), args.Error(1)
}

func (m *MockEntityRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]fund.Entity, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fund.Entity), args.Error(1)
}

func (m *MockEntityRepository) FindAll(ctx context.Context, filter fund.EntityFilter) ([]fund.Entity, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fund.Entity), args.Error(1)
}

func (m *MockEntityRepository) Count(ctx context.Context, filter fund.EntityFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEntityRepository) Save(ctx context.Context, entity *fund.Entity) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockEntityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCapitalCallRepository is a mock implementation of CapitalCallRepository
type MockCapitalCallRepository struct {
	mock.Mock
}

func (m *MockCapitalCallRepository) FindByID(ctx context.Context, id uuid.UUID) (*fund.CapitalCall, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fund.CapitalCall), args.Error(1)
}

func (m *MockCapitalCallRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCapitalCallRepository) FindAll(ctx context.Context, filter fund.CapitalCallFilter) ([]fund.CapitalCall, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fund.CapitalCall), args.Error(1)
}

func (m *MockCapitalCallRepository) Count(ctx context.Context, filter fund.CapitalCallFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCapitalCallRepository) Save(ctx context.Context, call *fund.CapitalCall) error {
	args := m.Called(ctx, call)
	return args.Error(0)
}

func (m *MockCapitalCallRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCapitalCallRepository) AppendBill(ctx context.Context, capitalCallID, billID uuid.UUID) error {
	args := m.Called(ctx, capitalCallID, billID)
	return args.Error(0)
}

func (m *MockCapitalCallRepository) ReconcileBills(ctx context.Context, capitalCallID uuid.UUID) (int, error) {
	args := m.Called(ctx, capitalCallID)
	return args.Int(0), args.Error(1)
}

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

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// countingLocker serializes nothing and records lock usage
type countingLocker struct {
	mu       sync.Mutex
	locks    int
	releases int
	err      error
}

func (l *countingLocker) Lock(_ context.Context, _ uuid.UUID) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.locks++
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.releases++
	}, nil
}

// serialLocker holds one mutex for every investor
type serialLocker struct {
	mu sync.Mutex
}

func (l *serialLocker) Lock(_ context.Context, _ uuid.UUID) (func(), error) {
	l.mu.Lock()
	return l.mu.Unlock, nil
}

// staticRates is a fixed RateProvider
type staticRates map[valueobject.Currency]decimal.Decimal

func (r staticRates) Rate(_ context.Context, currency valueobject.Currency) (decimal.Decimal, bool) {
	rate, ok := r[currency]
	return rate, ok
}
