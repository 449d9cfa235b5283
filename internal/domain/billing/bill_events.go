package billing

import (
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type names
const (
	EventTypeBillIssued          = "BillIssued"
	EventTypeMembershipFeeWaived = "MembershipFeeWaived"
)

// BillIssuedEvent is raised when a bill is issued
type BillIssuedEvent struct {
	shared.BaseDomainEvent
	BillID        uuid.UUID       `json:"bill_id"`
	BillType      BillType        `json:"bill_type"`
	ToInvestorID  uuid.UUID       `json:"to_investor_id"`
	CapitalCallID uuid.UUID       `json:"capital_call_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
}

// EventType returns the event type name
func (e *BillIssuedEvent) EventType() string {
	return EventTypeBillIssued
}

// NewBillIssuedEvent creates a new BillIssuedEvent
func NewBillIssuedEvent(b *Bill) *BillIssuedEvent {
	return &BillIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillIssued, "Bill", b.ID),
		BillID:          b.ID,
		BillType:        b.Type,
		ToInvestorID:    b.ToInvestorID,
		CapitalCallID:   b.CapitalCallID,
		Amount:          b.Amount,
		Currency:        b.Currency.String(),
	}
}

// MembershipFeeWaivedEvent is raised when a membership bill is zeroed
type MembershipFeeWaivedEvent struct {
	shared.BaseDomainEvent
	BillID         uuid.UUID       `json:"bill_id"`
	ToInvestorID   uuid.UUID       `json:"to_investor_id"`
	PreviousAmount decimal.Decimal `json:"previous_amount"`
}

// EventType returns the event type name
func (e *MembershipFeeWaivedEvent) EventType() string {
	return EventTypeMembershipFeeWaived
}

// NewMembershipFeeWaivedEvent creates a new MembershipFeeWaivedEvent
func NewMembershipFeeWaivedEvent(b *Bill, previous decimal.Decimal) *MembershipFeeWaivedEvent {
	return &MembershipFeeWaivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMembershipFeeWaived, "Bill", b.ID),
		BillID:          b.ID,
		ToInvestorID:    b.ToInvestorID,
		PreviousAmount:  previous,
	}
}
