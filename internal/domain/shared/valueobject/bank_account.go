package valueobject

import (
	"fmt"
	"regexp"
	"strings"
)

// BankAccountType identifies the numbering scheme of a bank account
type BankAccountType string

const (
	BankAccountIBAN  BankAccountType = "iban"
	BankAccountSWIFT BankAccountType = "swift"
)

var bankAccountPatterns = map[BankAccountType]*regexp.Regexp{
	BankAccountIBAN:  regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{1,30}$`),
	BankAccountSWIFT: regexp.MustCompile(`^[A-Z]{6}[A-Z0-9]{2}([A-Z0-9]{3})?$`),
}

// IsValid checks if the account type is supported
func (t BankAccountType) IsValid() bool {
	switch t {
	case BankAccountIBAN, BankAccountSWIFT:
		return true
	}
	return false
}

// BankAccount is a value object holding a settlement account
type BankAccount struct {
	number      string
	accountType BankAccountType
	currency    Currency
}

// NewBankAccount validates the number against the pattern of its type
func NewBankAccount(number string, accountType BankAccountType, currency Currency) (BankAccount, error) {
	number = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(number), " ", ""))
	if number == "" {
		return BankAccount{}, fmt.Errorf("bank account number cannot be empty")
	}
	if !accountType.IsValid() {
		return BankAccount{}, fmt.Errorf("invalid bank account type %q", accountType)
	}
	if !bankAccountPatterns[accountType].MatchString(number) {
		return BankAccount{}, fmt.Errorf("Bank account number %s does not match %s format", number, accountType)
	}
	if currency == "" {
		currency = BaseCurrency
	}
	return BankAccount{number: number, accountType: accountType, currency: currency}, nil
}

// Number returns the normalized account number
func (b BankAccount) Number() string {
	return b.number
}

// Type returns the numbering scheme
func (b BankAccount) Type() BankAccountType {
	return b.accountType
}

// Currency returns the settlement currency of the account
func (b BankAccount) Currency() Currency {
	return b.currency
}
