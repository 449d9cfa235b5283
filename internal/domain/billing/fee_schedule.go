package billing

import (
	"fmt"
	"time"

	"github.com/fundbilling/backend/internal/domain/fund"
	"github.com/shopspring/decimal"
)

// Tier discounts of the current regime, relative to the base fee rate
var (
	yearThreeDiscount = decimal.RequireFromString("0.002")
	yearFourDiscount  = decimal.RequireFromString("0.004")
	laterYearDiscount = decimal.RequireFromString("0.01")
)

// currentRegimeTiers is the number of explicitly priced years in the current regime
const currentRegimeTiers = 4

// FeeSchedule holds the pricing parameters of every bill type. It is pure:
// callers supply investments and the current day.
type FeeSchedule struct {
	PercentageFee   decimal.Decimal // Base yearly fee rate, e.g. 0.02
	MembershipFee   decimal.Decimal // Flat membership fee in USD
	WaiverThreshold decimal.Decimal // Investments strictly above this waive membership
	UpfrontYears    int64           // Years charged by an upfront bill
	RegimeCutover   time.Time       // Year and month splitting the legacy and current regimes
}

// FeeRegime identifies the yearly fee table an investment is priced under
type FeeRegime string

const (
	FeeRegimeLegacy   FeeRegime = "legacy"
	FeeRegimeCurrent  FeeRegime = "current"
	FeeRegimeUnpriced FeeRegime = "unpriced" // Covered by neither table, bills nothing
)

// DefaultFeeSchedule returns the schedule in force since 1 April 2019
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		PercentageFee:   decimal.RequireFromString("0.02"),
		MembershipFee:   decimal.NewFromInt(3000),
		WaiverThreshold: decimal.NewFromInt(50000),
		UpfrontYears:    5,
		RegimeCutover:   time.Date(2019, time.April, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WaivesMembership reports whether a single commitment waives the membership fee
func (s FeeSchedule) WaivesMembership(amount decimal.Decimal) bool {
	return amount.GreaterThan(s.WaiverThreshold)
}

// MembershipFeeFor returns zero when any investment waives membership,
// otherwise the flat fee
func (s FeeSchedule) MembershipFeeFor(investments []fund.Investment) decimal.Decimal {
	for _, inv := range investments {
		if s.WaivesMembership(inv.Amount) {
			return decimal.Zero
		}
	}
	return s.MembershipFee
}

// UpfrontFee charges UpfrontYears of the base rate at once
func (s FeeSchedule) UpfrontFee(inv fund.Investment) decimal.Decimal {
	return inv.Amount.Mul(s.PercentageFee).Mul(decimal.NewFromInt(s.UpfrontYears))
}

// Regime classifies an investment by its commitment year and month. Legacy
// needs both year and month below the cutover, current needs both at or
// above it. Anything else, such as June 2018 or February 2021, is unpriced.
func (s FeeSchedule) Regime(inv fund.Investment) FeeRegime {
	year, month := inv.Date.Year(), inv.Date.Month()
	cutYear, cutMonth := s.RegimeCutover.Year(), s.RegimeCutover.Month()
	switch {
	case year <= cutYear && month < cutMonth:
		return FeeRegimeLegacy
	case year >= cutYear && month >= cutMonth:
		return FeeRegimeCurrent
	default:
		return FeeRegimeUnpriced
	}
}

// YearlyTiers returns the fee charged for each fee year of an investment,
// index 0 being year 1. Year 1 is prorated by the days left between the
// commitment date and the end of today's year. Unpriced investments have
// no tiers.
func (s FeeSchedule) YearlyTiers(inv fund.Investment, today time.Time) []decimal.Decimal {
	fee := s.PercentageFee
	amount := inv.Amount
	days := decimal.NewFromInt(daysRemaining(inv.Date, today))

	switch s.Regime(inv) {
	case FeeRegimeUnpriced:
		return nil
	case FeeRegimeLegacy:
		tiers := make([]decimal.Decimal, 0, max(inv.Duration, 1))
		tiers = append(tiers, days.Div(decimal.NewFromInt(365)).Mul(fee).Mul(amount))
		for i := 1; i < inv.Duration; i++ {
			tiers = append(tiers, fee.Mul(amount))
		}
		return tiers
	}

	yearLength := decimal.NewFromInt(daysInYear(today.Year()))
	tiers := make([]decimal.Decimal, 0, max(inv.Duration, currentRegimeTiers))
	tiers = append(tiers,
		days.Div(yearLength).Mul(fee).Mul(amount),
		fee.Mul(amount),
		fee.Sub(yearThreeDiscount).Mul(amount),
		fee.Sub(yearFourDiscount).Mul(amount),
	)
	for i := currentRegimeTiers; i < inv.Duration; i++ {
		tiers = append(tiers, fee.Sub(laterYearDiscount).Mul(amount))
	}
	return tiers
}

// YearlyFee selects the tier for a 1-based fee year. The second result is
// false when the year falls outside the schedule, in which case no fee is due.
func (s FeeSchedule) YearlyFee(inv fund.Investment, feesYear int, today time.Time) (decimal.Decimal, bool) {
	tiers := s.YearlyTiers(inv, today)
	if feesYear < 1 || feesYear > len(tiers) {
		return decimal.Zero, false
	}
	return tiers[feesYear-1], true
}

// String describes the schedule for logs
func (s FeeSchedule) String() string {
	return fmt.Sprintf("fee=%s membership=%s waiver>%s upfront_years=%d cutover=%s",
		s.PercentageFee, s.MembershipFee, s.WaiverThreshold, s.UpfrontYears, s.RegimeCutover.Format("2006-01-02"))
}

// daysRemaining counts the days from the commitment date to 31 December of
// today's year, never negative
func daysRemaining(commitment, today time.Time) int64 {
	y, m, d := commitment.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	end := time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		return 0
	}
	return int64(end.Sub(start).Hours() / 24)
}

func daysInYear(year int) int64 {
	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		return 366
	}
	return 365
}
