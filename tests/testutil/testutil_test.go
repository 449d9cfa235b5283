package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/fundbilling/backend/internal/domain/fund"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingEventHandler(t *testing.T) {
	handler := NewRecordingEventHandler(fund.EventTypeInvestmentRecorded)
	assert.Equal(t, []string{fund.EventTypeInvestmentRecorded}, handler.EventTypes())

	inv := NewInvestment(t, uuid.New(), 1000, 1, Date(2024, time.January, 2))
	event := fund.NewInvestmentRecordedEvent(inv)

	require.NoError(t, handler.Handle(context.Background(), event))
	assert.Len(t, handler.Handled(), 1)
	assert.Len(t, handler.OfType(fund.EventTypeInvestmentRecorded), 1)
	assert.Empty(t, handler.OfType("BillIssued"))

	handler.SetError(assert.AnError)
	assert.ErrorIs(t, handler.Handle(context.Background(), event), assert.AnError)

	handler.Reset()
	assert.Empty(t, handler.Handled())
	assert.NoError(t, handler.Handle(context.Background(), event))
}

func TestWaitForCondition(t *testing.T) {
	calls := 0
	ok := WaitForCondition(t, func() bool {
		calls++
		return calls >= 3
	}, time.Second, time.Millisecond)
	assert.True(t, ok)

	assert.False(t, WaitForCondition(t, func() bool { return false }, 5*time.Millisecond, time.Millisecond))
}

func TestFixtures(t *testing.T) {
	investor := NewInvestor(t, "Alpine Family Office", "EUR")
	assert.True(t, investor.IsInvestor())
	assert.Equal(t, "EUR", investor.SettlementCurrency().String())

	vehicle := NewFund(t, "Fund I")
	assert.True(t, vehicle.IsFund())

	day := Date(2024, time.May, 1)
	call := NewCapitalCall(t, vehicle.ID, day, investor.ID)
	assert.Equal(t, fund.CapitalCallStatusValidated, call.Status)
	assert.Equal(t, day.AddDate(0, 0, 30), call.DueDate)
	assert.Empty(t, call.Bills)

	inv := NewInvestment(t, investor.ID, 65000, 5, day)
	assert.Equal(t, 5, inv.Duration)
	assert.Equal(t, day, inv.Date)

	var _ shared.EventHandler = NewRecordingEventHandler()
}
