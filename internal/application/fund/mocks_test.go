package fund

import (
	"context"

	"github.com/fundbilling/backend/internal/domain/fund"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

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

// MockInvestmentRepository is a mock implementation of InvestmentRepository
type MockInvestmentRepository struct {
	mock.Mock
}

func (m *MockInvestmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*fund.Investment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fund.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) FindByInvestor(ctx context.Context, investorID uuid.UUID) ([]fund.Investment, error) {
	args := m.Called(ctx, investorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fund.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) FindAll(ctx context.Context, filter fund.InvestmentFilter) ([]fund.Investment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fund.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) Count(ctx context.Context, filter fund.InvestmentFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvestmentRepository) Save(ctx context.Context, investment *fund.Investment) error {
	args := m.Called(ctx, investment)
	return args.Error(0)
}

func (m *MockInvestmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
