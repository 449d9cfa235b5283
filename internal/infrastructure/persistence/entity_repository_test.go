package persistence

import (
	"context"
	"testing"

	"github.com/fundbilling/backend/internal/domain/fund"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormEntityRepository(db)
	ctx := context.Background()

	investor := createInvestor(t, db)
	fundEntity, err := fund.NewEntity(fund.EntityTypeFund, fund.EntityDetails{
		Name:                "Growth Fund I",
		BankAccountNumber:   "DEUTDEFF",
		BankAccountType:     valueobject.BankAccountSWIFT,
		BankAccountCurrency: "EUR",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, fundEntity))

	found, err := repo.FindByID(ctx, investor.ID)
	require.NoError(t, err)
	assert.True(t, found.IsInvestor())
	assert.Equal(t, "GB82WEST12345698765432", found.BankAccountNumber)
	assert.Equal(t, valueobject.USD, found.SettlementCurrency())

	found, err = repo.FindByID(ctx, fundEntity.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.EUR, found.SettlementCurrency())

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	t.Run("find by ids", func(t *testing.T) {
		entities, err := repo.FindByIDs(ctx, []uuid.UUID{investor.ID, fundEntity.ID, uuid.New()})
		require.NoError(t, err)
		assert.Len(t, entities, 2)

		entities, err = repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, entities)
	})

	t.Run("filter by type and search", func(t *testing.T) {
		entityType := fund.EntityTypeInvestor
		entities, err := repo.FindAll(ctx, fund.EntityFilter{Filter: shared.DefaultFilter(), Type: &entityType})
		require.NoError(t, err)
		require.Len(t, entities, 1)
		assert.Equal(t, investor.ID, entities[0].ID)

		filter := fund.EntityFilter{Filter: shared.Filter{Page: 1, PageSize: 10, Search: "growth"}}
		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, fundEntity.ID))
		assert.ErrorIs(t, repo.Delete(ctx, fundEntity.ID), shared.ErrNotFound)
	})
}
