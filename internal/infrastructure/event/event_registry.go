package event

import (
	"github.com/fundbilling/backend/internal/domain/billing"
	"github.com/fundbilling/backend/internal/domain/fund"
)

// RegisterAllEvents registers every domain event type with the encoder
func RegisterAllEvents(encoder *PayloadEncoder) {
	encoder.Register(billing.EventTypeBillIssued)
	encoder.Register(billing.EventTypeMembershipFeeWaived)
	encoder.Register(fund.EventTypeInvestmentRecorded)
}
