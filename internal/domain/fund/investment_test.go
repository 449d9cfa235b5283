package fund

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvestment(t *testing.T) {
	investorID := uuid.New()

	t.Run("records commitment and raises event", func(t *testing.T) {
		date := time.Date(2020, 6, 15, 13, 0, 0, 0, time.UTC)
		inv, err := NewInvestment(investorID, decimal.NewFromInt(60000), 5, date)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC), inv.Date)

		events := inv.GetDomainEvents()
		require.Len(t, events, 1)
		recorded, ok := events[0].(*InvestmentRecordedEvent)
		require.True(t, ok)
		assert.Equal(t, EventTypeInvestmentRecorded, recorded.EventType())
		assert.Equal(t, investorID, recorded.InvestorID)
		assert.True(t, recorded.Amount.Equal(decimal.NewFromInt(60000)))
	})

	t.Run("defaults date to creation day", func(t *testing.T) {
		inv, err := NewInvestment(investorID, decimal.NewFromInt(100), 1, time.Time{})
		require.NoError(t, err)
		assert.False(t, inv.Date.IsZero())
		assert.Equal(t, 0, inv.Date.Hour())
	})

	t.Run("rejects non positive amount", func(t *testing.T) {
		_, err := NewInvestment(investorID, decimal.Zero, 1, time.Time{})
		assert.EqualError(t, err, "amount must be positive")
	})

	t.Run("rejects zero duration", func(t *testing.T) {
		_, err := NewInvestment(investorID, decimal.NewFromInt(10), 0, time.Time{})
		assert.Error(t, err)
	})

	t.Run("rejects missing investor", func(t *testing.T) {
		_, err := NewInvestment(uuid.Nil, decimal.NewFromInt(10), 1, time.Time{})
		assert.EqualError(t, err, "investor_id is required")
	})
}
