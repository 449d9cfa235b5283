package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	t.Run("normalizes lower case", func(t *testing.T) {
		c, err := ParseCurrency(" eur ")
		require.NoError(t, err)
		assert.Equal(t, EUR, c)
	})

	t.Run("empty defaults to base", func(t *testing.T) {
		c, err := ParseCurrency("")
		require.NoError(t, err)
		assert.True(t, c.IsBase())
	})

	t.Run("rejects malformed code", func(t *testing.T) {
		_, err := ParseCurrency("EURO")
		assert.Error(t, err)
	})
}

func TestNewBankAccount(t *testing.T) {
	t.Run("accepts iban", func(t *testing.T) {
		acc, err := NewBankAccount("GB82 WEST 1234 5698 7654 32", BankAccountIBAN, GBP)
		require.NoError(t, err)
		assert.Equal(t, "GB82WEST12345698765432", acc.Number())
		assert.Equal(t, GBP, acc.Currency())
	})

	t.Run("accepts swift with branch code", func(t *testing.T) {
		_, err := NewBankAccount("DEUTDEFF500", BankAccountSWIFT, "")
		require.NoError(t, err)
	})

	t.Run("rejects mismatched format", func(t *testing.T) {
		_, err := NewBankAccount("DEUTDEFF", BankAccountIBAN, USD)
		require.Error(t, err)
		assert.Equal(t, "Bank account number DEUTDEFF does not match iban format", err.Error())
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewBankAccount("GB82WEST12345698765432", "ach", USD)
		assert.Error(t, err)
	})
}
