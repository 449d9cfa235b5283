package billing

import (
	"fmt"
	"time"

	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultDueDays is the payment window applied when no due date is given
const DefaultDueDays = 30

// Bill is a single fee obligation owed by one investor
type Bill struct {
	shared.BaseAggregateRoot
	Type          BillType             `json:"type"`
	ToInvestorID  uuid.UUID            `json:"to_investor_id"`
	CapitalCallID uuid.UUID            `json:"capital_call_id"`
	InvestmentID  *uuid.UUID           `json:"investment_id"`
	FeesYear      int                  `json:"fees_year"` // 1-based, meaningful for yearly_fees
	Currency      valueobject.Currency `json:"currency"`
	Amount        decimal.Decimal      `json:"amount"`
	Status        BillStatus           `json:"status"`
	Date          time.Time            `json:"date"`
	DueDate       time.Time            `json:"due_date"`
}

// BillDraft carries the validated inputs of a new bill
type BillDraft struct {
	Type          BillType
	ToInvestorID  uuid.UUID
	CapitalCallID uuid.UUID
	InvestmentID  *uuid.UUID
	FeesYear      int
	Currency      valueobject.Currency
	Amount        decimal.Decimal
	Date          time.Time // Zero means the creation day
	DueDate       time.Time // Zero means Date plus DefaultDueDays
}

// NewBill creates a bill in the created status
func NewBill(d BillDraft) (*Bill, error) {
	if !d.Type.IsValid() {
		return nil, shared.NewValidationError("invalid bill type %q", d.Type)
	}
	if d.ToInvestorID == uuid.Nil {
		return nil, shared.NewValidationError(MsgInvestorRequired)
	}
	if d.CapitalCallID == uuid.Nil {
		return nil, shared.NewValidationError("capital_call_id is required")
	}
	if d.Type.RequiresInvestment() && (d.InvestmentID == nil || *d.InvestmentID == uuid.Nil) {
		return nil, NewInvestmentRequiredError(d.Type)
	}
	if d.Type == BillTypeMembership {
		d.InvestmentID = nil
		d.FeesYear = 0
	}
	if d.FeesYear < 0 {
		return nil, shared.NewValidationError("fees_year cannot be negative")
	}
	if d.Amount.IsNegative() {
		return nil, shared.NewValidationError("amount cannot be negative")
	}
	if d.Currency == "" {
		d.Currency = valueobject.BaseCurrency
	}

	bill := &Bill{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              d.Type,
		ToInvestorID:      d.ToInvestorID,
		CapitalCallID:     d.CapitalCallID,
		InvestmentID:      d.InvestmentID,
		FeesYear:          d.FeesYear,
		Currency:          d.Currency,
		Amount:            d.Amount,
		Status:            BillStatusCreated,
	}

	date := d.Date
	if date.IsZero() {
		date = bill.CreatedAt
	}
	bill.Date = shared.DateOf(date)
	if d.DueDate.IsZero() {
		bill.DueDate = bill.Date.AddDate(0, 0, DefaultDueDays)
	} else {
		bill.DueDate = shared.DateOf(d.DueDate)
	}

	bill.AddDomainEvent(NewBillIssuedEvent(bill))
	return bill, nil
}

// DedupKey identifies the uniqueness slot the bill occupies for its investor.
// Storage enforces one bill per (to_investor_id, dedup_key).
func (b *Bill) DedupKey() string {
	return DedupKeyFor(b.Type, b.FeesYear)
}

// DedupKeyFor returns the uniqueness slot of a bill type and fee year
func DedupKeyFor(billType BillType, feesYear int) string {
	if billType == BillTypeMembership {
		return string(BillTypeMembership)
	}
	return fmt.Sprintf("%s:%d", billType, feesYear)
}

// TransitionTo moves the bill to a new status
func (b *Bill) TransitionTo(next BillStatus) error {
	if !next.IsValid() {
		return shared.NewValidationError("invalid bill status %q", next)
	}
	if !b.Status.CanTransitionTo(next) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("cannot move bill from %s to %s", b.Status, next))
	}
	b.Status = next
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// WaiveMembership zeroes a membership bill amount. It reports false when
// the bill is not a membership bill or is already zero.
func (b *Bill) WaiveMembership() bool {
	if b.Type != BillTypeMembership || b.Amount.IsZero() {
		return false
	}
	previous := b.Amount
	b.Amount = decimal.Zero
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	b.AddDomainEvent(NewMembershipFeeWaivedEvent(b, previous))
	return true
}

// IsOverdueOn reports whether a pending bill is past its due date on day
func (b *Bill) IsOverdueOn(day time.Time) bool {
	return b.Status == BillStatusPending && b.DueDate.Before(shared.DateOf(day))
}
