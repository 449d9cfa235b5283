package fund

import (
	"context"
	"testing"

	"github.com/fundbilling/backend/internal/domain/fund"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestEntity(t *testing.T, entityType fund.EntityType) *fund.Entity {
	t.Helper()
	e, err := fund.NewEntity(entityType, fund.EntityDetails{
		Name:                "Test " + entityType.String(),
		BankAccountCurrency: "EUR",
		BankAccountNumber:   "DEUTDEFF500",
		BankAccountType:     valueobject.BankAccountSWIFT,
	})
	require.NoError(t, err)
	return e
}

func validCreateEntityRequest() CreateEntityRequest {
	return CreateEntityRequest{
		Type:                "investor",
		Name:                "Acme Pension Fund",
		Address:             "1 Main Street",
		BankAccountCurrency: "gbp",
		BankAccountNumber:   "GB82 WEST 1234 5698 7654 32",
		BankAccountType:     "iban",
		ContactPerson:       "Sam Lee",
		ContactPersonEmail:  "sam@example.com",
	}
}

func TestEntityService_Create(t *testing.T) {
	mockRepo := new(MockEntityRepository)
	service := NewEntityService(mockRepo)
	ctx := context.Background()

	mockRepo.On("Save", ctx, mock.AnythingOfType("*fund.Entity")).Return(nil)

	result, err := service.Create(ctx, validCreateEntityRequest())

	require.NoError(t, err)
	assert.Equal(t, "investor", result.Type)
	assert.Equal(t, "Acme Pension Fund", result.Name)
	assert.Equal(t, "GBP", result.BankAccountCurrency)
	assert.Equal(t, "GB82WEST12345698765432", result.BankAccountNumber)
	mockRepo.AssertExpectations(t)
}

func TestEntityService_Create_BankAccountMismatch(t *testing.T) {
	mockRepo := new(MockEntityRepository)
	service := NewEntityService(mockRepo)
	req := validCreateEntityRequest()
	req.BankAccountType = "swift"

	_, err := service.Create(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Equal(t, "Bank account number GB82WEST12345698765432 does not match swift format", err.Error())
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestEntityService_Update(t *testing.T) {
	t.Run("updates mutable attributes", func(t *testing.T) {
		mockRepo := new(MockEntityRepository)
		service := NewEntityService(mockRepo)
		ctx := context.Background()
		entity := newTestEntity(t, fund.EntityTypeInvestor)

		mockRepo.On("FindByID", ctx, entity.ID).Return(entity, nil)
		mockRepo.On("Save", ctx, entity).Return(nil)

		result, err := service.Update(ctx, entity.ID, UpdateEntityRequest{
			Type:              "investor",
			Name:              "Renamed",
			BankAccountNumber: "DEUTDEFF",
			BankAccountType:   "swift",
		})

		require.NoError(t, err)
		assert.Equal(t, "Renamed", result.Name)
		assert.Equal(t, "USD", result.BankAccountCurrency)
		assert.Equal(t, 2, result.Version)
	})

	t.Run("rejects a type change", func(t *testing.T) {
		mockRepo := new(MockEntityRepository)
		service := NewEntityService(mockRepo)
		ctx := context.Background()
		entity := newTestEntity(t, fund.EntityTypeInvestor)

		mockRepo.On("FindByID", ctx, entity.ID).Return(entity, nil)

		_, err := service.Update(ctx, entity.ID, UpdateEntityRequest{
			Type:              "fund",
			Name:              "Renamed",
			BankAccountNumber: "DEUTDEFF",
			BankAccountType:   "swift",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestEntityService_List(t *testing.T) {
	mockRepo := new(MockEntityRepository)
	service := NewEntityService(mockRepo)
	ctx := context.Background()
	entities := []fund.Entity{*newTestEntity(t, fund.EntityTypeInvestor)}

	matches := mock.MatchedBy(func(f fund.EntityFilter) bool {
		return f.Type != nil && *f.Type == fund.EntityTypeInvestor && f.Search == "acme" && f.Page == 1 && f.PageSize == 20
	})
	mockRepo.On("FindAll", ctx, matches).Return(entities, nil)
	mockRepo.On("Count", ctx, matches).Return(int64(1), nil)

	result, total, err := service.List(ctx, EntityListFilter{Type: "investor", Search: "acme"})

	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, int64(1), total)
}

func TestEntityService_Delete_NotFound(t *testing.T) {
	mockRepo := new(MockEntityRepository)
	service := NewEntityService(mockRepo)
	ctx := context.Background()
	id := uuid.New()

	mockRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	err := service.Delete(ctx, id)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
