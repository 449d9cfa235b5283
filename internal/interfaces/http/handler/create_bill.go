package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	billingapp "github.com/fundbilling/backend/internal/application/billing"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/infrastructure/logger"
	"github.com/fundbilling/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BillIssuer issues fee bills
type BillIssuer interface {
	Issue(ctx context.Context, req billingapp.IssueBillRequest) (uuid.UUID, error)
}

// CreateBillHandler serves the bill creation endpoint. Unlike the CRUD
// endpoints it answers with flat {"message","id"} / {"error"} bodies.
type CreateBillHandler struct {
	issuer BillIssuer
}

// NewCreateBillHandler creates a new CreateBillHandler
func NewCreateBillHandler(issuer BillIssuer) *CreateBillHandler {
	return &CreateBillHandler{issuer: issuer}
}

// CreateBillEnvelope wraps the bill fields under bill_data
type CreateBillEnvelope struct {
	BillData *CreateBillRequest `json:"bill_data"`
}

// CreateBillRequest carries the bill fields as sent by clients
type CreateBillRequest struct {
	Type          string    `json:"type"`
	ToInvestorID  string    `json:"to_investor_id"`
	CapitalCallID string    `json:"capital_call_id"`
	InvestmentID  string    `json:"investment_id"`
	FeesYear      FlexInt   `json:"fees_year"`
	Currency      string    `json:"currency"`
	Date          *FlexDate `json:"date"`
	DueDate       *FlexDate `json:"due_date"`
}

// CreateBillErrorResponse is the failure body. ID is set when the bill was
// stored but a later step failed.
type CreateBillErrorResponse struct {
	Error string `json:"error"`
	ID    string `json:"id,omitempty"`
}

// Create handles POST /create_bill
func (h *CreateBillHandler) Create(c *gin.Context) {
	var envelope CreateBillEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, dto.LegacyErrorResponse{Error: "Request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, dto.LegacyErrorResponse{Error: invalidBodyMessage(err)})
		return
	}
	if envelope.BillData == nil {
		c.JSON(http.StatusBadRequest, dto.LegacyErrorResponse{Error: "bill_data is required"})
		return
	}

	billID, err := h.issuer.Issue(c.Request.Context(), envelope.BillData.toIssueRequest())
	if err != nil {
		h.fail(c, billID, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MessageResponse{
		Message: "Bill created successfully",
		ID:      billID.String(),
	})
}

func (h *CreateBillHandler) fail(c *gin.Context, billID uuid.UUID, err error) {
	resp := CreateBillErrorResponse{Error: "An unexpected error occurred"}
	if billID != uuid.Nil {
		resp.ID = billID.String()
	}
	status := http.StatusInternalServerError

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		resp.Error = domainErr.Message
		status = dto.GetIssuanceHTTPStatus(dto.NormalizeErrorCode(domainErr.Code))
	} else {
		logger.GetGinLogger(c).Error("Bill issuance failed", zap.Error(err))
	}
	c.JSON(status, resp)
}

func (r *CreateBillRequest) toIssueRequest() billingapp.IssueBillRequest {
	return billingapp.IssueBillRequest{
		Type:          r.Type,
		ToInvestorID:  r.ToInvestorID,
		CapitalCallID: r.CapitalCallID,
		InvestmentID:  r.InvestmentID,
		FeesYear:      int(r.FeesYear),
		Currency:      r.Currency,
		Date:          r.Date.timePtr(),
		DueDate:       r.DueDate.timePtr(),
	}
}

// invalidBodyMessage names the offending field when a flexible value
// could not be decoded
func invalidBodyMessage(err error) string {
	var fieldErr *fieldDecodeError
	if errors.As(err, &fieldErr) {
		return fieldErr.Error()
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s has an invalid type", strings.TrimPrefix(typeErr.Field, "bill_data."))
	}
	return "Invalid JSON body"
}

type fieldDecodeError struct {
	msg string
}

func (e *fieldDecodeError) Error() string {
	return e.msg
}

// FlexInt decodes a JSON integer, an integral float or a numeric string.
// null and "" decode to 0.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if raw == "null" {
		*f = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
		if raw == "" {
			*f = 0
			return nil
		}
	}
	if n, err := strconv.Atoi(raw); err == nil {
		*f = FlexInt(n)
		return nil
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil && v == math.Trunc(v) && math.Abs(v) <= math.MaxInt32 {
		*f = FlexInt(int(v))
		return nil
	}
	return &fieldDecodeError{msg: fmt.Sprintf("fees_year must be an integer, got %s", raw)}
}

// FlexDate decodes a calendar date ("2006-01-02") or an RFC 3339 timestamp.
// null and "" leave the date unset.
type FlexDate struct {
	time.Time
	set bool
}

// UnmarshalJSON implements json.Unmarshaler
func (d *FlexDate) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if raw == "null" {
		*d = FlexDate{}
		return nil
	}
	s, err := strconv.Unquote(raw)
	if err != nil {
		return &fieldDecodeError{msg: fmt.Sprintf("dates must be strings, got %s", raw)}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*d = FlexDate{}
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			*d = FlexDate{Time: t, set: true}
			return nil
		}
	}
	return &fieldDecodeError{msg: fmt.Sprintf("dates must be YYYY-MM-DD or RFC 3339, got %q", s)}
}

func (d *FlexDate) timePtr() *time.Time {
	if d == nil || !d.set {
		return nil
	}
	t := d.Time
	return &t
}
