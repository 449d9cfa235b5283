package models

import (
	"time"

	"github.com/fundbilling/backend/internal/domain/billing"
	"github.com/fundbilling/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillModel is the persistence model for billing.Bill.
// DedupKey backs the per-investor uniqueness rules with a unique index.
type BillModel struct {
	AggregateModel
	Type          string          `gorm:"column:type;type:varchar(20);not null;index:idx_bills_investor_type,priority:2"`
	ToInvestorID  uuid.UUID       `gorm:"column:to_investor_id;type:uuid;not null;index:idx_bills_investor_type,priority:1;uniqueIndex:uq_bills_investor_dedup,priority:1"`
	CapitalCallID uuid.UUID       `gorm:"column:capital_call_id;type:uuid;not null;index"`
	InvestmentID  *uuid.UUID      `gorm:"column:investment_id;type:uuid;index"`
	FeesYear      int             `gorm:"column:fees_year;not null;default:0"`
	Currency      string          `gorm:"column:currency;type:varchar(3);not null"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null"`
	Status        string          `gorm:"column:status;type:varchar(20);not null;index"`
	Date          time.Time       `gorm:"column:date;type:date;not null"`
	DueDate       time.Time       `gorm:"column:due_date;type:date;not null;index"`
	DedupKey      string          `gorm:"column:dedup_key;type:varchar(40);not null;uniqueIndex:uq_bills_investor_dedup,priority:2"`
}

// TableName returns the table name for GORM
func (BillModel) TableName() string {
	return "bills"
}

// ToDomain converts the persistence model to a domain Bill
func (m *BillModel) ToDomain() *billing.Bill {
	return &billing.Bill{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Type:              billing.BillType(m.Type),
		ToInvestorID:      m.ToInvestorID,
		CapitalCallID:     m.CapitalCallID,
		InvestmentID:      m.InvestmentID,
		FeesYear:          m.FeesYear,
		Currency:          valueobject.Currency(m.Currency),
		Amount:            m.Amount,
		Status:            billing.BillStatus(m.Status),
		Date:              m.Date.UTC(),
		DueDate:           m.DueDate.UTC(),
	}
}

// BillModelFromDomain creates a persistence model from a domain Bill
func BillModelFromDomain(b *billing.Bill) *BillModel {
	m := &BillModel{
		Type:          string(b.Type),
		ToInvestorID:  b.ToInvestorID,
		CapitalCallID: b.CapitalCallID,
		InvestmentID:  b.InvestmentID,
		FeesYear:      b.FeesYear,
		Currency:      b.Currency.String(),
		Amount:        b.Amount,
		Status:        string(b.Status),
		Date:          b.Date,
		DueDate:       b.DueDate,
		DedupKey:      b.DedupKey(),
	}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return m
}
