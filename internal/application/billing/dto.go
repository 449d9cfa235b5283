package billing

import (
	"time"

	"github.com/fundbilling/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IssueBillRequest carries the raw fields of a bill issuance request.
// Identifiers stay strings so that malformed values map to the same
// client errors as unknown ones.
type IssueBillRequest struct {
	Type          string     `json:"type"`
	ToInvestorID  string     `json:"to_investor_id"`
	CapitalCallID string     `json:"capital_call_id"`
	InvestmentID  string     `json:"investment_id"`
	FeesYear      int        `json:"fees_year"`
	Currency      string     `json:"currency"` // Informational; the investor's settlement currency wins
	Date          *time.Time `json:"date"`
	DueDate       *time.Time `json:"due_date"`
}

// UpdateBillStatusRequest represents a request to move a bill to a new status
type UpdateBillStatusRequest struct {
	Status string `json:"status" binding:"required,bill_status"`
}

// BillListFilter represents filter options for listing bills
type BillListFilter struct {
	ToInvestorID  string `form:"to_investor_id" binding:"omitempty,uuid"`
	CapitalCallID string `form:"capital_call_id" binding:"omitempty,uuid"`
	Type          string `form:"type" binding:"omitempty,bill_type"`
	Status        string `form:"status" binding:"omitempty,bill_status"`
	OrderBy       string `form:"order_by"`
	OrderDir      string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// BillResponse represents a bill in API responses
type BillResponse struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	ToInvestorID  uuid.UUID       `json:"to_investor_id"`
	CapitalCallID uuid.UUID       `json:"capital_call_id"`
	InvestmentID  *uuid.UUID      `json:"investment_id"`
	FeesYear      int             `json:"fees_year"`
	Currency      string          `json:"currency"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	Date          string          `json:"date"`
	DueDate       string          `json:"due_date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// SweepResult reports the outcome of an overdue sweep
type SweepResult struct {
	Date        string `json:"date"`
	MarkedCount int64  `json:"marked_count"`
}

// dateLayout renders calendar days
const dateLayout = "2006-01-02"

// ToBillResponse converts a domain Bill to BillResponse
func ToBillResponse(b *billing.Bill) BillResponse {
	return BillResponse{
		ID:            b.ID,
		Type:          b.Type.String(),
		ToInvestorID:  b.ToInvestorID,
		CapitalCallID: b.CapitalCallID,
		InvestmentID:  b.InvestmentID,
		FeesYear:      b.FeesYear,
		Currency:      b.Currency.String(),
		Amount:        b.Amount,
		Status:        b.Status.String(),
		Date:          b.Date.Format(dateLayout),
		DueDate:       b.DueDate.Format(dateLayout),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		Version:       b.Version,
	}
}

// ToBillResponses converts a slice of domain Bills to responses
func ToBillResponses(bills []billing.Bill) []BillResponse {
	responses := make([]BillResponse, len(bills))
	for i := range bills {
		responses[i] = ToBillResponse(&bills[i])
	}
	return responses
}
