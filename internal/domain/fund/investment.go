package fund

import (
	"time"

	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Investment is a capital commitment recorded for an investor
type Investment struct {
	shared.BaseAggregateRoot
	InvestorID uuid.UUID       `json:"investor_id"`
	Amount     decimal.Decimal `json:"amount"`
	Duration   int             `json:"duration"` // Years of fee liability
	Date       time.Time       `json:"date"`     // Commitment date
}

// NewInvestment records a commitment. A zero date means the commitment
// was made on the creation day.
func NewInvestment(investorID uuid.UUID, amount decimal.Decimal, duration int, date time.Time) (*Investment, error) {
	inv := &Investment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvestorID:        investorID,
	}
	if date.IsZero() {
		date = inv.CreatedAt
	}
	if err := inv.apply(amount, duration, date); err != nil {
		return nil, err
	}
	inv.AddDomainEvent(NewInvestmentRecordedEvent(inv))
	return inv, nil
}

// Update changes the commitment terms
func (i *Investment) Update(amount decimal.Decimal, duration int, date time.Time) error {
	if date.IsZero() {
		date = i.Date
	}
	if err := i.apply(amount, duration, date); err != nil {
		return err
	}
	i.IncrementVersion()
	return nil
}

func (i *Investment) apply(amount decimal.Decimal, duration int, date time.Time) error {
	if i.InvestorID == uuid.Nil {
		return shared.NewValidationError("investor_id is required")
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("amount must be positive")
	}
	if duration < 1 {
		return shared.NewValidationError("duration must be at least 1 year")
	}
	i.Amount = amount
	i.Duration = duration
	i.Date = shared.DateOf(date)
	return nil
}
