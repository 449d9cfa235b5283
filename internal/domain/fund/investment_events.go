package fund

import (
	"time"

	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventTypeInvestmentRecorded is published when a commitment is recorded
const EventTypeInvestmentRecorded = "InvestmentRecorded"

// InvestmentRecordedEvent is raised when a new investment is recorded
type InvestmentRecordedEvent struct {
	shared.BaseDomainEvent
	InvestmentID uuid.UUID       `json:"investment_id"`
	InvestorID   uuid.UUID       `json:"investor_id"`
	Amount       decimal.Decimal `json:"amount"`
	Duration     int             `json:"duration"`
	Date         time.Time       `json:"date"`
}

// EventType returns the event type name
func (e *InvestmentRecordedEvent) EventType() string {
	return EventTypeInvestmentRecorded
}

// NewInvestmentRecordedEvent creates a new InvestmentRecordedEvent
func NewInvestmentRecordedEvent(inv *Investment) *InvestmentRecordedEvent {
	return &InvestmentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvestmentRecorded, "Investment", inv.ID),
		InvestmentID:    inv.ID,
		InvestorID:      inv.InvestorID,
		Amount:          inv.Amount,
		Duration:        inv.Duration,
		Date:            inv.Date,
	}
}
