package models

import (
	"time"

	"github.com/fundbilling/backend/internal/domain/fund"
	"github.com/fundbilling/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// EntityModel is the persistence model for fund.Entity
type EntityModel struct {
	AggregateModel
	Type                string `gorm:"type:varchar(20);not null;index"`
	Name                string `gorm:"type:varchar(200);not null"`
	Address             string `gorm:"type:text"`
	BankAccountCurrency string `gorm:"type:varchar(3);not null;default:'USD'"`
	BankAccountNumber   string `gorm:"type:varchar(34);not null"`
	BankAccountType     string `gorm:"type:varchar(10);not null"`
	ContactPerson       string `gorm:"type:varchar(200)"`
	ContactPersonEmail  string `gorm:"type:varchar(200)"`
	ContactPersonPhone  string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (EntityModel) TableName() string {
	return "entities"
}

// ToDomain converts the persistence model to a domain Entity
func (m *EntityModel) ToDomain() *fund.Entity {
	return &fund.Entity{
		BaseAggregateRoot:   m.ToDomainAggregateRoot(),
		Type:                fund.EntityType(m.Type),
		Name:                m.Name,
		Address:             m.Address,
		BankAccountCurrency: valueobject.Currency(m.BankAccountCurrency),
		BankAccountNumber:   m.BankAccountNumber,
		BankAccountType:     valueobject.BankAccountType(m.BankAccountType),
		ContactPerson:       m.ContactPerson,
		ContactPersonEmail:  m.ContactPersonEmail,
		ContactPersonPhone:  m.ContactPersonPhone,
	}
}

// EntityModelFromDomain creates a persistence model from a domain Entity
func EntityModelFromDomain(e *fund.Entity) *EntityModel {
	m := &EntityModel{
		Type:                string(e.Type),
		Name:                e.Name,
		Address:             e.Address,
		BankAccountCurrency: e.BankAccountCurrency.String(),
		BankAccountNumber:   e.BankAccountNumber,
		BankAccountType:     string(e.BankAccountType),
		ContactPerson:       e.ContactPerson,
		ContactPersonEmail:  e.ContactPersonEmail,
		ContactPersonPhone:  e.ContactPersonPhone,
	}
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	return m
}

// InvestmentModel is the persistence model for fund.Investment
type InvestmentModel struct {
	AggregateModel
	InvestorID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Duration   int             `gorm:"not null;default:1"`
	Date       time.Time       `gorm:"type:date;not null"`
}

// TableName returns the table name for GORM
func (InvestmentModel) TableName() string {
	return "investments"
}

// ToDomain converts the persistence model to a domain Investment
func (m *InvestmentModel) ToDomain() *fund.Investment {
	return &fund.Investment{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		InvestorID:        m.InvestorID,
		Amount:            m.Amount,
		Duration:          m.Duration,
		Date:              m.Date.UTC(),
	}
}

// InvestmentModelFromDomain creates a persistence model from a domain Investment
func InvestmentModelFromDomain(i *fund.Investment) *InvestmentModel {
	m := &InvestmentModel{
		InvestorID: i.InvestorID,
		Amount:     i.Amount,
		Duration:   i.Duration,
		Date:       i.Date,
	}
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	return m
}

// CapitalCallModel is the persistence model for fund.CapitalCall.
// Linked bills live in capital_call_bills.
type CapitalCallModel struct {
	AggregateModel
	FundEntityID     uuid.UUID                      `gorm:"type:uuid;not null;index"`
	InvestorEntities datatypes.JSONSlice[uuid.UUID] `gorm:"type:jsonb;not null"`
	Date             time.Time                      `gorm:"type:date;not null"`
	Purpose          string                         `gorm:"type:text"`
	Status           string                         `gorm:"type:varchar(20);not null;index"`
	Currency         string                         `gorm:"type:varchar(3);not null;default:'USD'"`
	PaymentMethod    string                         `gorm:"type:varchar(50)"`
	DueDate          time.Time                      `gorm:"type:date;not null"`
}

// TableName returns the table name for GORM
func (CapitalCallModel) TableName() string {
	return "capital_calls"
}

// ToDomain converts the persistence model to a domain CapitalCall
func (m *CapitalCallModel) ToDomain(bills []uuid.UUID) *fund.CapitalCall {
	if bills == nil {
		bills = make([]uuid.UUID, 0)
	}
	investors := make([]uuid.UUID, len(m.InvestorEntities))
	copy(investors, m.InvestorEntities)
	return &fund.CapitalCall{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		FundEntityID:      m.FundEntityID,
		InvestorEntities:  investors,
		Date:              m.Date.UTC(),
		Purpose:           m.Purpose,
		Status:            fund.CapitalCallStatus(m.Status),
		Currency:          valueobject.Currency(m.Currency),
		PaymentMethod:     m.PaymentMethod,
		DueDate:           m.DueDate.UTC(),
		Bills:             bills,
	}
}

// CapitalCallModelFromDomain creates a persistence model from a domain CapitalCall
func CapitalCallModelFromDomain(c *fund.CapitalCall) *CapitalCallModel {
	m := &CapitalCallModel{
		FundEntityID:     c.FundEntityID,
		InvestorEntities: datatypes.NewJSONSlice(c.InvestorEntities),
		Date:             c.Date,
		Purpose:          c.Purpose,
		Status:           string(c.Status),
		Currency:         c.Currency.String(),
		PaymentMethod:    c.PaymentMethod,
		DueDate:          c.DueDate,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

// CapitalCallBillModel links a bill to a capital call. The composite key
// makes appending the same bill twice a no-op.
type CapitalCallBillModel struct {
	CapitalCallID uuid.UUID `gorm:"type:uuid;primaryKey"`
	BillID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position      int       `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CapitalCallBillModel) TableName() string {
	return "capital_call_bills"
}
