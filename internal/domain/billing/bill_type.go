package billing

// BillType represents the kind of fee being billed
type BillType string

const (
	// BillTypeMembership is the flat yearly membership fee, waived for large investors
	BillTypeMembership BillType = "membership"

	// BillTypeUpfrontFees charges five years of fees on an investment at once
	BillTypeUpfrontFees BillType = "upfront_fees"

	// BillTypeYearlyFees charges one tier of the yearly fee schedule
	BillTypeYearlyFees BillType = "yearly_fees"
)

// IsValid returns true if the bill type is valid
func (t BillType) IsValid() bool {
	switch t {
	case BillTypeMembership, BillTypeUpfrontFees, BillTypeYearlyFees:
		return true
	}
	return false
}

// String returns the string representation of BillType
func (t BillType) String() string {
	return string(t)
}

// RequiresInvestment reports whether bills of this type reference an investment
func (t BillType) RequiresInvestment() bool {
	switch t {
	case BillTypeUpfrontFees, BillTypeYearlyFees:
		return true
	case BillTypeMembership:
		return false
	}
	return false
}

// Opposite returns the type in the other fee family
func (t BillType) Opposite() (BillType, bool) {
	switch t {
	case BillTypeUpfrontFees:
		return BillTypeYearlyFees, true
	case BillTypeYearlyFees:
		return BillTypeUpfrontFees, true
	case BillTypeMembership:
		return "", false
	}
	return "", false
}

// BillStatus represents the payment status of a bill
type BillStatus string

const (
	BillStatusCreated   BillStatus = "created"   // Issued, not yet sent
	BillStatusPending   BillStatus = "pending"   // Awaiting payment
	BillStatusPaid      BillStatus = "paid"      // Settled
	BillStatusOverdue   BillStatus = "overdue"   // Pending past its due date
	BillStatusCancelled BillStatus = "cancelled" // Voided
)

// IsValid returns true if the status is valid
func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusCreated, BillStatusPending, BillStatusPaid, BillStatusOverdue, BillStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of BillStatus
func (s BillStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transition is possible
func (s BillStatus) IsTerminal() bool {
	return s == BillStatusPaid || s == BillStatusCancelled
}

// CanTransitionTo reports whether a bill may move from s to next
func (s BillStatus) CanTransitionTo(next BillStatus) bool {
	switch s {
	case BillStatusCreated:
		return next == BillStatusPending || next == BillStatusCancelled
	case BillStatusPending:
		return next == BillStatusPaid || next == BillStatusOverdue || next == BillStatusCancelled
	case BillStatusOverdue:
		return next == BillStatusPaid || next == BillStatusCancelled
	case BillStatusPaid, BillStatusCancelled:
		return false
	}
	return false
}
