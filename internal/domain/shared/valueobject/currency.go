package valueobject

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"strings"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	USD Currency = "USD" // US Dollar, base currency of every fee computation
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	CHF Currency = "CHF" // Swiss Franc
	JPY Currency = "JPY" // Japanese Yen
)

// BaseCurrency is the currency fees are computed in before conversion
const BaseCurrency = USD

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ParseCurrency normalizes and validates a three-letter currency code.
// An empty code yields the base currency.
func ParseCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return BaseCurrency, nil
	}
	if !currencyPattern.MatchString(code) {
		return "", fmt.Errorf("invalid currency code %q", code)
	}
	return Currency(code), nil
}

// IsBase reports whether c is the base currency
func (c Currency) IsBase() bool {
	return c == BaseCurrency
}

// String returns the code
func (c Currency) String() string {
	return string(c)
}

// Value implements driver.Valuer
func (c Currency) Value() (driver.Value, error) {
	return string(c), nil
}

// Scan implements sql.Scanner
func (c *Currency) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*c = ""
	case string:
		*c = Currency(v)
	case []byte:
		*c = Currency(v)
	default:
		return fmt.Errorf("cannot scan %T into Currency", value)
	}
	return nil
}
