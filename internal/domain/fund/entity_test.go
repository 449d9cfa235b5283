package fund

import (
	"testing"

	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDetails() EntityDetails {
	return EntityDetails{
		Name:                "Test Investor",
		Address:             "123 Investor Street",
		BankAccountCurrency: "eur",
		BankAccountNumber:   "GB82WEST12345698765432",
		BankAccountType:     valueobject.BankAccountIBAN,
		ContactPerson:       "Jane Doe",
		ContactPersonEmail:  "jane@example.com",
		ContactPersonPhone:  "+1234567890",
	}
}

func TestNewEntity(t *testing.T) {
	t.Run("creates investor", func(t *testing.T) {
		e, err := NewEntity(EntityTypeInvestor, validDetails())
		require.NoError(t, err)
		assert.True(t, e.IsInvestor())
		assert.False(t, e.IsFund())
		assert.Equal(t, valueobject.EUR, e.SettlementCurrency())
		assert.Equal(t, 1, e.Version)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewEntity("bank", validDetails())
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, shared.CodeValidation, de.Code)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		d := validDetails()
		d.Name = "  "
		_, err := NewEntity(EntityTypeFund, d)
		assert.EqualError(t, err, "name is required")
	})

	t.Run("rejects bank account that does not match its type", func(t *testing.T) {
		d := validDetails()
		d.BankAccountType = valueobject.BankAccountSWIFT
		_, err := NewEntity(EntityTypeInvestor, d)
		assert.EqualError(t, err, "Bank account number GB82WEST12345698765432 does not match swift format")
	})
}

func TestEntityUpdate(t *testing.T) {
	e, err := NewEntity(EntityTypeInvestor, validDetails())
	require.NoError(t, err)

	d := validDetails()
	d.Name = "Renamed"
	d.BankAccountCurrency = ""
	require.NoError(t, e.Update(d))

	assert.Equal(t, "Renamed", e.Name)
	assert.Equal(t, EntityTypeInvestor, e.Type)
	assert.Equal(t, valueobject.USD, e.SettlementCurrency())
	assert.Equal(t, 2, e.Version)
}
