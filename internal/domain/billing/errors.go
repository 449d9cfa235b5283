package billing

import (
	"fmt"

	"github.com/fundbilling/backend/internal/domain/shared"
)

// Messages returned to API clients. They are part of the public contract.
const (
	MsgInvestorRequired = "to_investor_id is required"
	MsgInvalidInvestor  = "Invalid investor_id"
	MsgNotAnInvestor    = "The entity is not an investor"
	MsgBillTypeRequired = "bill type is required"
	MsgRateUnavailable  = "Exchange rate not available."
)

// NewDuplicateBillError reports a uniqueness rule violation
func NewDuplicateBillError(reason string) *shared.DomainError {
	return shared.NewDomainError(shared.CodeDuplicateBill, reason)
}

// NewInvalidInvestorError reports an unresolvable or non-investor entity
func NewInvalidInvestorError(message string, cause error) *shared.DomainError {
	return shared.WrapDomainError(shared.CodeInvalidInvestor, message, cause)
}

// NewInvestmentRequiredError reports a fee bill without an investment reference
func NewInvestmentRequiredError(billType BillType) *shared.DomainError {
	return shared.NewDomainError(shared.CodeInvestmentRequired,
		fmt.Sprintf("investment_id is required for bill type %s", billType))
}

// NewRateUnavailableError reports a currency with no cached exchange rate
func NewRateUnavailableError(currency string) *shared.DomainError {
	return shared.WrapDomainError(shared.CodeRateUnavailable, MsgRateUnavailable,
		fmt.Errorf("no exchange rate cached for %s", currency))
}

func duplicateMembership(investorID fmt.Stringer) string {
	return fmt.Sprintf("%s bill already exists for investor %s", BillTypeMembership, investorID)
}

func duplicateFamily(requested BillType, investorID fmt.Stringer) string {
	if requested == BillTypeUpfrontFees {
		return fmt.Sprintf("Yearly fees bill already exists for investor %s hence cannot generate an upfront fees bill", investorID)
	}
	return fmt.Sprintf("Upfront fees bill already exists for investor %s hence cannot generate a yearly fees bill", investorID)
}

func duplicateYear(billType BillType, feesYear int, investorID fmt.Stringer) string {
	return fmt.Sprintf("%s bill for year %d already exists for investor %s", billType, feesYear, investorID)
}

// DuplicateReason describes the occupied uniqueness slot of a bill type and fee year
func DuplicateReason(billType BillType, feesYear int, investorID fmt.Stringer) string {
	if billType == BillTypeMembership {
		return duplicateMembership(investorID)
	}
	return duplicateYear(billType, feesYear, investorID)
}
