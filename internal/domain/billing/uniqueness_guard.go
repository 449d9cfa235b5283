package billing

import (
	"context"

	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BillLookup answers existence queries over an investor's persisted bills
type BillLookup interface {
	// ExistsForInvestor reports whether the investor has a bill of the type,
	// restricted to a fee year when feesYear is not nil
	ExistsForInvestor(ctx context.Context, investorID uuid.UUID, billType BillType, feesYear *int) (bool, error)
}

// UniquenessGuard enforces the cross-bill rules of an investor:
// one membership bill, a single fee family, one bill per type and fee year.
// Callers serialize Check and the insert per investor; storage backs the
// per-year rule with a unique index on the dedup key.
type UniquenessGuard struct {
	bills BillLookup
}

// NewUniquenessGuard creates a new UniquenessGuard
func NewUniquenessGuard(bills BillLookup) *UniquenessGuard {
	return &UniquenessGuard{bills: bills}
}

// Check returns a DUPLICATE_BILL error when issuing the bill would break a rule
func (g *UniquenessGuard) Check(ctx context.Context, billType BillType, investorID uuid.UUID, feesYear int) error {
	switch billType {
	case BillTypeMembership:
		exists, err := g.exists(ctx, investorID, BillTypeMembership, nil)
		if err != nil {
			return err
		}
		if exists {
			return NewDuplicateBillError(duplicateMembership(investorID))
		}
		return nil

	case BillTypeUpfrontFees, BillTypeYearlyFees:
		opposite, _ := billType.Opposite()
		exists, err := g.exists(ctx, investorID, opposite, nil)
		if err != nil {
			return err
		}
		if exists {
			return NewDuplicateBillError(duplicateFamily(billType, investorID))
		}
		exists, err = g.exists(ctx, investorID, billType, &feesYear)
		if err != nil {
			return err
		}
		if exists {
			return NewDuplicateBillError(duplicateYear(billType, feesYear, investorID))
		}
		return nil
	}
	return shared.NewValidationError("invalid bill type %q", billType)
}

func (g *UniquenessGuard) exists(ctx context.Context, investorID uuid.UUID, billType BillType, feesYear *int) (bool, error) {
	exists, err := g.bills.ExistsForInvestor(ctx, investorID, billType, feesYear)
	if err != nil {
		return false, shared.NewPersistenceError("failed to check existing bills", err)
	}
	return exists, nil
}
