package event

import (
	"testing"
	"time"

	"github.com/fundbilling/backend/internal/domain/billing"
	"github.com/fundbilling/backend/internal/domain/fund"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var timeNow = time.Now

func newIssuedBill(t *testing.T) *billing.Bill {
	t.Helper()
	bill, err := billing.NewBill(billing.BillDraft{
		Type:          billing.BillTypeMembership,
		ToInvestorID:  uuid.New(),
		CapitalCallID: uuid.New(),
		Amount:        decimal.NewFromInt(3000),
	})
	require.NoError(t, err)
	return bill
}

func TestRegisterAllEvents(t *testing.T) {
	encoder := NewPayloadEncoder()
	RegisterAllEvents(encoder)

	assert.Equal(t, []string{
		billing.EventTypeBillIssued,
		fund.EventTypeInvestmentRecorded,
		billing.EventTypeMembershipFeeWaived,
	}, encoder.EventTypes())
	assert.False(t, encoder.Knows("InvoiceSent"))
}

func TestPayloadEncoder_Encode(t *testing.T) {
	encoder := NewPayloadEncoder()
	bill := newIssuedBill(t)

	data, err := encoder.Encode(billing.NewBillIssuedEvent(bill))

	require.NoError(t, err)
	assert.Contains(t, string(data), `"bill_type":"membership"`)
	assert.Contains(t, string(data), `"amount":"3000"`)
	assert.Contains(t, string(data), `"to_investor_id":"`+bill.ToInvestorID.String()+`"`)
}
