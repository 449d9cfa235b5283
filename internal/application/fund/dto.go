package fund

import (
	"time"

	"github.com/fundbilling/backend/internal/domain/fund"
	"github.com/fundbilling/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// CreateEntityRequest represents a request to create an entity
type CreateEntityRequest struct {
	Type                string `json:"type" binding:"required,oneof=company fund investor"`
	Name                string `json:"name" binding:"required,min=1,max=200"`
	Address             string `json:"address" binding:"max=500"`
	BankAccountCurrency string `json:"bank_account_currency" binding:"omitempty,iso4217"`
	BankAccountNumber   string `json:"bank_account_number" binding:"required,max=34"`
	BankAccountType     string `json:"bank_account_type" binding:"required,oneof=iban swift"`
	ContactPerson       string `json:"contact_person" binding:"max=200"`
	ContactPersonEmail  string `json:"contact_person_email" binding:"omitempty,email"`
	ContactPersonPhone  string `json:"contact_person_phone" binding:"max=50"`
}

// UpdateEntityRequest represents a request to update an entity.
// Type may be supplied but must match the stored type.
type UpdateEntityRequest struct {
	Type                string `json:"type"`
	Name                string `json:"name" binding:"required,min=1,max=200"`
	Address             string `json:"address" binding:"max=500"`
	BankAccountCurrency string `json:"bank_account_currency" binding:"omitempty,iso4217"`
	BankAccountNumber   string `json:"bank_account_number" binding:"required,max=34"`
	BankAccountType     string `json:"bank_account_type" binding:"required,oneof=iban swift"`
	ContactPerson       string `json:"contact_person" binding:"max=200"`
	ContactPersonEmail  string `json:"contact_person_email" binding:"omitempty,email"`
	ContactPersonPhone  string `json:"contact_person_phone" binding:"max=50"`
}

// EntityListFilter represents filter options for listing entities
type EntityListFilter struct {
	Type     string `form:"type" binding:"omitempty,oneof=company fund investor"`
	Search   string `form:"search"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// EntityResponse represents an entity in API responses
type EntityResponse struct {
	ID                  uuid.UUID `json:"id"`
	Type                string    `json:"type"`
	Name                string    `json:"name"`
	Address             string    `json:"address"`
	BankAccountCurrency string    `json:"bank_account_currency"`
	BankAccountNumber   string    `json:"bank_account_number"`
	BankAccountType     string    `json:"bank_account_type"`
	ContactPerson       string    `json:"contact_person"`
	ContactPersonEmail  string    `json:"contact_person_email"`
	ContactPersonPhone  string    `json:"contact_person_phone"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	Version             int       `json:"version"`
}

// RecordInvestmentRequest represents a request to record an investment
type RecordInvestmentRequest struct {
	InvestorID uuid.UUID       `json:"investor_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Duration   *int            `json:"duration" binding:"omitempty,min=1,max=100"`
	Date       *time.Time      `json:"date"`
}

// UpdateInvestmentRequest represents a request to update an investment
type UpdateInvestmentRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Duration *int            `json:"duration" binding:"omitempty,min=1,max=100"`
	Date     *time.Time      `json:"date"`
}

// InvestmentListFilter represents filter options for listing investments
type InvestmentListFilter struct {
	InvestorID string `form:"investor_id" binding:"omitempty,uuid"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// InvestmentResponse represents an investment in API responses
type InvestmentResponse struct {
	ID         uuid.UUID       `json:"id"`
	InvestorID uuid.UUID       `json:"investor_id"`
	Amount     decimal.Decimal `json:"amount"`
	Duration   int             `json:"duration"`
	Date       string          `json:"date"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Version    int             `json:"version"`
}

// CreateCapitalCallRequest represents a request to create a capital call
type CreateCapitalCallRequest struct {
	FundEntityID     uuid.UUID   `json:"fund_entity_id" binding:"required"`
	InvestorEntities []uuid.UUID `json:"investor_entities"`
	Date             *time.Time  `json:"date"`
	Purpose          string      `json:"purpose" binding:"max=500"`
	Currency         string      `json:"currency" binding:"omitempty,iso4217"`
	PaymentMethod    string      `json:"payment_method" binding:"max=100"`
	DueDate          *time.Time  `json:"due_date"`
}

// UpdateCapitalCallRequest represents a request to update a capital call.
// A status, when present, must be reachable from the current one.
type UpdateCapitalCallRequest struct {
	InvestorEntities []uuid.UUID `json:"investor_entities"`
	Date             *time.Time  `json:"date"`
	Purpose          string      `json:"purpose" binding:"max=500"`
	Currency         string      `json:"currency" binding:"omitempty,iso4217"`
	PaymentMethod    string      `json:"payment_method" binding:"max=100"`
	DueDate          *time.Time  `json:"due_date"`
	Status           string      `json:"status" binding:"omitempty,oneof=validated sent paid overdue"`
}

// CapitalCallListFilter represents filter options for listing capital calls
type CapitalCallListFilter struct {
	FundEntityID string `form:"fund_entity_id" binding:"omitempty,uuid"`
	Status       string `form:"status" binding:"omitempty,oneof=validated sent paid overdue"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CapitalCallResponse represents a capital call in API responses
type CapitalCallResponse struct {
	ID               uuid.UUID   `json:"id"`
	FundEntityID     uuid.UUID   `json:"fund_entity_id"`
	InvestorEntities []uuid.UUID `json:"investor_entities"`
	Date             string      `json:"date"`
	Purpose          string      `json:"purpose"`
	Status           string      `json:"status"`
	Currency         string      `json:"currency"`
	PaymentMethod    string      `json:"payment_method"`
	DueDate          string      `json:"due_date"`
	Bills            []uuid.UUID `json:"bills"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
	Version          int         `json:"version"`
}

// ReconcileResponse reports the links added by reconciliation
type ReconcileResponse struct {
	CapitalCallID uuid.UUID `json:"capital_call_id"`
	LinksAdded    int       `json:"links_added"`
}

// ToEntityResponse converts a domain Entity to EntityResponse
func ToEntityResponse(e *fund.Entity) EntityResponse {
	return EntityResponse{
		ID:                  e.ID,
		Type:                e.Type.String(),
		Name:                e.Name,
		Address:             e.Address,
		BankAccountCurrency: e.SettlementCurrency().String(),
		BankAccountNumber:   e.BankAccountNumber,
		BankAccountType:     string(e.BankAccountType),
		ContactPerson:       e.ContactPerson,
		ContactPersonEmail:  e.ContactPersonEmail,
		ContactPersonPhone:  e.ContactPersonPhone,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
		Version:             e.Version,
	}
}

// ToInvestmentResponse converts a domain Investment to InvestmentResponse
func ToInvestmentResponse(i *fund.Investment) InvestmentResponse {
	return InvestmentResponse{
		ID:         i.ID,
		InvestorID: i.InvestorID,
		Amount:     i.Amount,
		Duration:   i.Duration,
		Date:       i.Date.Format(dateLayout),
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
		Version:    i.Version,
	}
}

// ToCapitalCallResponse converts a domain CapitalCall to CapitalCallResponse
func ToCapitalCallResponse(c *fund.CapitalCall) CapitalCallResponse {
	investors := c.InvestorEntities
	if investors == nil {
		investors = []uuid.UUID{}
	}
	bills := c.Bills
	if bills == nil {
		bills = []uuid.UUID{}
	}
	return CapitalCallResponse{
		ID:               c.ID,
		FundEntityID:     c.FundEntityID,
		InvestorEntities: investors,
		Date:             c.Date.Format(dateLayout),
		Purpose:          c.Purpose,
		Status:           c.Status.String(),
		Currency:         c.Currency.String(),
		PaymentMethod:    c.PaymentMethod,
		DueDate:          c.DueDate.Format(dateLayout),
		Bills:            bills,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		Version:          c.Version,
	}
}

func (r CreateEntityRequest) details() fund.EntityDetails {
	return fund.EntityDetails{
		Name:                r.Name,
		Address:             r.Address,
		BankAccountCurrency: r.BankAccountCurrency,
		BankAccountNumber:   r.BankAccountNumber,
		BankAccountType:     valueobject.BankAccountType(r.BankAccountType),
		ContactPerson:       r.ContactPerson,
		ContactPersonEmail:  r.ContactPersonEmail,
		ContactPersonPhone:  r.ContactPersonPhone,
	}
}

func (r UpdateEntityRequest) details() fund.EntityDetails {
	return fund.EntityDetails{
		Name:                r.Name,
		Address:             r.Address,
		BankAccountCurrency: r.BankAccountCurrency,
		BankAccountNumber:   r.BankAccountNumber,
		BankAccountType:     valueobject.BankAccountType(r.BankAccountType),
		ContactPerson:       r.ContactPerson,
		ContactPersonEmail:  r.ContactPersonEmail,
		ContactPersonPhone:  r.ContactPersonPhone,
	}
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
