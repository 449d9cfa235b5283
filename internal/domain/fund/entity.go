package fund

import (
	"strings"

	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/domain/shared/valueobject"
)

// EntityType represents the role a party plays in the fund
type EntityType string

const (
	EntityTypeCompany  EntityType = "company"  // Management company
	EntityTypeFund     EntityType = "fund"     // Fund vehicle issuing capital calls
	EntityTypeInvestor EntityType = "investor" // Limited partner receiving bills
)

// IsValid checks if the type is a valid EntityType
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeCompany, EntityTypeFund, EntityTypeInvestor:
		return true
	}
	return false
}

// String returns the string representation of EntityType
func (t EntityType) String() string {
	return string(t)
}

// EntityDetails holds the mutable attributes of an Entity
type EntityDetails struct {
	Name                string
	Address             string
	BankAccountCurrency string
	BankAccountNumber   string
	BankAccountType     valueobject.BankAccountType
	ContactPerson       string
	ContactPersonEmail  string
	ContactPersonPhone  string
}

// Entity is a party known to the fund: a company, a fund or an investor.
// Its type is fixed at creation because it drives billing eligibility.
type Entity struct {
	shared.BaseAggregateRoot
	Type                EntityType                  `json:"type"`
	Name                string                      `json:"name"`
	Address             string                      `json:"address"`
	BankAccountCurrency valueobject.Currency        `json:"bank_account_currency"`
	BankAccountNumber   string                      `json:"bank_account_number"`
	BankAccountType     valueobject.BankAccountType `json:"bank_account_type"`
	ContactPerson       string                      `json:"contact_person"`
	ContactPersonEmail  string                      `json:"contact_person_email"`
	ContactPersonPhone  string                      `json:"contact_person_phone"`
}

// NewEntity creates a new entity of the given type
func NewEntity(entityType EntityType, details EntityDetails) (*Entity, error) {
	if !entityType.IsValid() {
		return nil, shared.NewValidationError("invalid entity type %q", entityType)
	}
	e := &Entity{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              entityType,
	}
	if err := e.apply(details); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces the mutable attributes. The type cannot change.
func (e *Entity) Update(details EntityDetails) error {
	if err := e.apply(details); err != nil {
		return err
	}
	e.IncrementVersion()
	return nil
}

func (e *Entity) apply(d EntityDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewValidationError("name is required")
	}
	if len(name) > 200 {
		return shared.NewValidationError("name cannot exceed 200 characters")
	}
	currency, err := valueobject.ParseCurrency(d.BankAccountCurrency)
	if err != nil {
		return shared.NewValidationError("%s", err.Error())
	}
	account, err := valueobject.NewBankAccount(d.BankAccountNumber, d.BankAccountType, currency)
	if err != nil {
		return shared.NewValidationError("%s", err.Error())
	}

	e.Name = name
	e.Address = strings.TrimSpace(d.Address)
	e.BankAccountCurrency = account.Currency()
	e.BankAccountNumber = account.Number()
	e.BankAccountType = account.Type()
	e.ContactPerson = strings.TrimSpace(d.ContactPerson)
	e.ContactPersonEmail = strings.TrimSpace(d.ContactPersonEmail)
	e.ContactPersonPhone = strings.TrimSpace(d.ContactPersonPhone)
	return nil
}

// IsInvestor reports whether the entity can be billed
func (e *Entity) IsInvestor() bool {
	return e.Type == EntityTypeInvestor
}

// IsFund reports whether the entity can issue capital calls
func (e *Entity) IsFund() bool {
	return e.Type == EntityTypeFund
}

// SettlementCurrency returns the currency bills for this entity are issued in
func (e *Entity) SettlementCurrency() valueobject.Currency {
	if e.BankAccountCurrency == "" {
		return valueobject.BaseCurrency
	}
	return e.BankAccountCurrency
}
