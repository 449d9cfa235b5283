package fund

import (
	"slices"
	"strings"
	"time"

	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// DefaultDueDays is the payment window applied when no due date is given
const DefaultDueDays = 30

// CapitalCallStatus represents the lifecycle state of a capital call
type CapitalCallStatus string

const (
	CapitalCallStatusValidated CapitalCallStatus = "validated" // Approved, not yet sent
	CapitalCallStatusSent      CapitalCallStatus = "sent"      // Sent to investors
	CapitalCallStatusPaid      CapitalCallStatus = "paid"      // Fully paid
	CapitalCallStatusOverdue   CapitalCallStatus = "overdue"   // Past due date
)

// IsValid checks if the status is a valid CapitalCallStatus
func (s CapitalCallStatus) IsValid() bool {
	switch s {
	case CapitalCallStatusValidated, CapitalCallStatusSent, CapitalCallStatusPaid, CapitalCallStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of CapitalCallStatus
func (s CapitalCallStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether the call may move to next
func (s CapitalCallStatus) CanTransitionTo(next CapitalCallStatus) bool {
	switch s {
	case CapitalCallStatusValidated:
		return next == CapitalCallStatusSent || next == CapitalCallStatusOverdue
	case CapitalCallStatusSent:
		return next == CapitalCallStatusPaid || next == CapitalCallStatusOverdue
	case CapitalCallStatusOverdue:
		return next == CapitalCallStatusPaid
	case CapitalCallStatusPaid:
		return false
	}
	return false
}

// CapitalCallDetails holds the attributes supplied when a call is created or edited
type CapitalCallDetails struct {
	InvestorEntities []uuid.UUID
	Date             time.Time
	Purpose          string
	Currency         string
	PaymentMethod    string
	DueDate          time.Time
}

// CapitalCall is a fund's request to its investors for committed capital.
// Bills is append-only: ids are added by bill issuance or reconciliation.
type CapitalCall struct {
	shared.BaseAggregateRoot
	FundEntityID     uuid.UUID            `json:"fund_entity_id"`
	InvestorEntities []uuid.UUID          `json:"investor_entities"`
	Date             time.Time            `json:"date"`
	Purpose          string               `json:"purpose"`
	Status           CapitalCallStatus    `json:"status"`
	Currency         valueobject.Currency `json:"currency"`
	PaymentMethod    string               `json:"payment_method"`
	DueDate          time.Time            `json:"due_date"`
	Bills            []uuid.UUID          `json:"bills"`
}

// NewCapitalCall creates a validated capital call
func NewCapitalCall(fundEntityID uuid.UUID, details CapitalCallDetails) (*CapitalCall, error) {
	if fundEntityID == uuid.Nil {
		return nil, shared.NewValidationError("fund_entity_id is required")
	}
	c := &CapitalCall{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FundEntityID:      fundEntityID,
		Status:            CapitalCallStatusValidated,
		Bills:             make([]uuid.UUID, 0),
	}
	if details.Date.IsZero() {
		details.Date = c.CreatedAt
	}
	if err := c.apply(details); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the editable attributes, keeping status and bills
func (c *CapitalCall) Update(details CapitalCallDetails) error {
	if details.Date.IsZero() {
		details.Date = c.Date
	}
	if err := c.apply(details); err != nil {
		return err
	}
	c.IncrementVersion()
	return nil
}

func (c *CapitalCall) apply(d CapitalCallDetails) error {
	currency, err := valueobject.ParseCurrency(d.Currency)
	if err != nil {
		return shared.NewValidationError("%s", err.Error())
	}
	date := shared.DateOf(d.Date)
	due := d.DueDate
	if due.IsZero() {
		due = date.AddDate(0, 0, DefaultDueDays)
	}
	due = shared.DateOf(due)
	if due.Before(date) {
		return shared.NewValidationError("due_date cannot be before date")
	}

	investors := make([]uuid.UUID, 0, len(d.InvestorEntities))
	for _, id := range d.InvestorEntities {
		if id == uuid.Nil {
			return shared.NewValidationError("investor_entities contains an empty id")
		}
		if !slices.Contains(investors, id) {
			investors = append(investors, id)
		}
	}

	c.InvestorEntities = investors
	c.Date = date
	c.Purpose = strings.TrimSpace(d.Purpose)
	c.Currency = currency
	c.PaymentMethod = strings.TrimSpace(d.PaymentMethod)
	c.DueDate = due
	return nil
}

// TransitionTo moves the call to a new status
func (c *CapitalCall) TransitionTo(next CapitalCallStatus) error {
	if !next.IsValid() {
		return shared.NewValidationError("invalid capital call status %q", next)
	}
	if !c.Status.CanTransitionTo(next) {
		return shared.NewDomainError(shared.CodeInvalidState,
			"cannot move capital call from "+c.Status.String()+" to "+next.String())
	}
	c.Status = next
	c.IncrementVersion()
	return nil
}

// HasBill reports whether billID is already linked
func (c *CapitalCall) HasBill(billID uuid.UUID) bool {
	return slices.Contains(c.Bills, billID)
}

// AppendBill links billID and reports whether it was newly added
func (c *CapitalCall) AppendBill(billID uuid.UUID) bool {
	if c.HasBill(billID) {
		return false
	}
	c.Bills = append(c.Bills, billID)
	return true
}
