// Package billing provides the domain model of investor fee billing.
//
// This package implements the fee billing bounded context, which is responsible for:
//   - Issuing membership, upfront and yearly fee bills to investors
//   - Computing fee amounts under a tiered schedule that changed on 1 April 2019
//   - Enforcing per-investor uniqueness rules across bills
//   - Converting USD-denominated fees to the investor's settlement currency
//
// Key Aggregates:
//   - Bill: A single fee obligation owed by one investor for one fee year
//
// Domain Services:
//   - FeeCalculator: Resolves investments and applies the FeeSchedule
//   - UniquenessGuard: Rejects bills that would violate the uniqueness rules
//   - CurrencyConverter: Converts amounts using a RateProvider
//
// The billing domain integrates with:
//   - Fund domain: For investors, investments and capital calls
package billing
