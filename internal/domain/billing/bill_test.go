package billing

import (
	"testing"
	"time"

	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft(billType BillType) BillDraft {
	investmentID := uuid.New()
	d := BillDraft{
		Type:          billType,
		ToInvestorID:  uuid.New(),
		CapitalCallID: uuid.New(),
		FeesYear:      1,
		Amount:        decimal.NewFromInt(1200),
	}
	if billType.RequiresInvestment() {
		d.InvestmentID = &investmentID
	}
	return d
}

func TestNewBill(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		d := validDraft(BillTypeYearlyFees)
		d.Date = time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
		bill, err := NewBill(d)
		require.NoError(t, err)

		assert.Equal(t, BillStatusCreated, bill.Status)
		assert.Equal(t, "USD", bill.Currency.String())
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), bill.Date)
		assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), bill.DueDate)
		assert.Equal(t, "yearly_fees:1", bill.DedupKey())

		events := bill.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeBillIssued, events[0].EventType())
	})

	t.Run("membership drops investment and year", func(t *testing.T) {
		d := validDraft(BillTypeMembership)
		id := uuid.New()
		d.InvestmentID = &id
		d.FeesYear = 4
		bill, err := NewBill(d)
		require.NoError(t, err)
		assert.Nil(t, bill.InvestmentID)
		assert.Equal(t, 0, bill.FeesYear)
		assert.Equal(t, "membership", bill.DedupKey())
	})

	t.Run("fee bill requires investment", func(t *testing.T) {
		d := validDraft(BillTypeUpfrontFees)
		d.InvestmentID = nil
		_, err := NewBill(d)
		assert.Equal(t, shared.CodeInvestmentRequired, domainCode(t, err))
	})

	t.Run("requires capital call", func(t *testing.T) {
		d := validDraft(BillTypeMembership)
		d.CapitalCallID = uuid.Nil
		_, err := NewBill(d)
		assert.EqualError(t, err, "capital_call_id is required")
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		d := validDraft(BillTypeMembership)
		d.Amount = decimal.NewFromInt(-1)
		_, err := NewBill(d)
		assert.Error(t, err)
	})
}

func TestBillTransitions(t *testing.T) {
	bill, err := NewBill(validDraft(BillTypeMembership))
	require.NoError(t, err)

	require.NoError(t, bill.TransitionTo(BillStatusPending))
	require.NoError(t, bill.TransitionTo(BillStatusOverdue))
	require.NoError(t, bill.TransitionTo(BillStatusPaid))

	err = bill.TransitionTo(BillStatusPending)
	assert.Equal(t, shared.CodeInvalidState, domainCode(t, err))
	assert.True(t, bill.Status.IsTerminal())
}

func TestBillWaiveMembership(t *testing.T) {
	bill, err := NewBill(validDraft(BillTypeMembership))
	require.NoError(t, err)
	bill.ClearDomainEvents()

	assert.True(t, bill.WaiveMembership())
	assert.True(t, bill.Amount.IsZero())
	require.Len(t, bill.GetDomainEvents(), 1)

	assert.False(t, bill.WaiveMembership())
	assert.Len(t, bill.GetDomainEvents(), 1)

	fee, err := NewBill(validDraft(BillTypeUpfrontFees))
	require.NoError(t, err)
	assert.False(t, fee.WaiveMembership())
	assert.True(t, fee.Amount.Equal(decimal.NewFromInt(1200)))
}

func TestBillIsOverdueOn(t *testing.T) {
	bill, err := NewBill(validDraft(BillTypeMembership))
	require.NoError(t, err)
	after := bill.DueDate.AddDate(0, 0, 1)

	assert.False(t, bill.IsOverdueOn(after), "created bills are not swept")
	require.NoError(t, bill.TransitionTo(BillStatusPending))
	assert.False(t, bill.IsOverdueOn(bill.DueDate))
	assert.True(t, bill.IsOverdueOn(after))
}
