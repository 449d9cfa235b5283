package billing

import (
	"context"
	"errors"

	"github.com/fundbilling/backend/internal/domain/fund"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvestmentReader is the part of the investment ledger the calculator needs
type InvestmentReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*fund.Investment, error)
	FindByInvestor(ctx context.Context, investorID uuid.UUID) ([]fund.Investment, error)
}

// FeeQuote is the USD amount due for a bill before currency conversion
type FeeQuote struct {
	Amount     decimal.Decimal
	OutOfRange bool      // Fee year outside the investment's schedule
	Regime     FeeRegime // Yearly fee table of the investment; empty for membership
}

// FeeCalculator computes bill amounts from an investor's investments
type FeeCalculator struct {
	schedule    FeeSchedule
	investments InvestmentReader
	clock       shared.Clock
}

// NewFeeCalculator creates a new FeeCalculator
func NewFeeCalculator(schedule FeeSchedule, investments InvestmentReader, clock shared.Clock) *FeeCalculator {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &FeeCalculator{schedule: schedule, investments: investments, clock: clock}
}

// Schedule returns the pricing parameters in use
func (c *FeeCalculator) Schedule() FeeSchedule {
	return c.schedule
}

// Compute returns the USD fee of a bill, rounded to cents
func (c *FeeCalculator) Compute(ctx context.Context, billType BillType, investorID uuid.UUID, investmentID *uuid.UUID, feesYear int) (FeeQuote, error) {
	switch billType {
	case BillTypeMembership:
		investments, err := c.investments.FindByInvestor(ctx, investorID)
		if err != nil {
			return FeeQuote{}, shared.NewPersistenceError("failed to load investments", err)
		}
		return FeeQuote{Amount: c.schedule.MembershipFeeFor(investments).Round(2)}, nil

	case BillTypeUpfrontFees:
		inv, err := c.resolveInvestment(ctx, billType, investorID, investmentID)
		if err != nil {
			return FeeQuote{}, err
		}
		return FeeQuote{Amount: c.schedule.UpfrontFee(*inv).Round(2), Regime: c.schedule.Regime(*inv)}, nil

	case BillTypeYearlyFees:
		if feesYear < 1 {
			return FeeQuote{}, shared.NewValidationError("fees_year must be at least 1 for %s bills", billType)
		}
		inv, err := c.resolveInvestment(ctx, billType, investorID, investmentID)
		if err != nil {
			return FeeQuote{}, err
		}
		amount, ok := c.schedule.YearlyFee(*inv, feesYear, shared.Today(c.clock))
		return FeeQuote{Amount: amount.Round(2), OutOfRange: !ok, Regime: c.schedule.Regime(*inv)}, nil
	}
	return FeeQuote{}, shared.NewValidationError("invalid bill type %q", billType)
}

func (c *FeeCalculator) resolveInvestment(ctx context.Context, billType BillType, investorID uuid.UUID, investmentID *uuid.UUID) (*fund.Investment, error) {
	if investmentID == nil || *investmentID == uuid.Nil {
		return nil, NewInvestmentRequiredError(billType)
	}
	inv, err := c.investments.FindByID(ctx, *investmentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Investment", *investmentID)
		}
		return nil, shared.NewPersistenceError("failed to load investment", err)
	}
	if inv.InvestorID != investorID {
		return nil, shared.NewValidationError("investment %s does not belong to investor %s", inv.ID, investorID)
	}
	return inv, nil
}
