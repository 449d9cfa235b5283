package handler

import (
	"context"
	"errors"

	fundapp "github.com/fundbilling/backend/internal/application/fund"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvestmentService records and maintains investor commitments
type InvestmentService interface {
	Record(ctx context.Context, req fundapp.RecordInvestmentRequest) (*fundapp.InvestmentResponse, error)
	GetByID(ctx context.Context, investmentID uuid.UUID) (*fundapp.InvestmentResponse, error)
	List(ctx context.Context, filter fundapp.InvestmentListFilter) ([]fundapp.InvestmentResponse, int64, error)
	Update(ctx context.Context, investmentID uuid.UUID, req fundapp.UpdateInvestmentRequest) (*fundapp.InvestmentResponse, error)
	Delete(ctx context.Context, investmentID uuid.UUID) error
}

// InvestmentHandler handles investment-related API endpoints
type InvestmentHandler struct {
	BaseHandler
	investmentService InvestmentService
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(investmentService InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService}
}

// Create records an investment. When the investment is stored but a
// follow-up handler such as the membership waiver fails, the response
// carries both the investment and the error with the error's status.
func (h *InvestmentHandler) Create(c *gin.Context) {
	var req fundapp.RecordInvestmentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	investment, err := h.investmentService.Record(c.Request.Context(), req)
	if err != nil {
		if investment == nil {
			h.HandleDomainError(c, err)
			return
		}
		code, message := dto.ErrCodeInternal, "Investment recorded but follow-up processing failed"
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			code, message = dto.NormalizeErrorCode(domainErr.Code), domainErr.Message
		}
		resp := dto.NewErrorResponseWithRequestID(code, message, getRequestID(c))
		resp.Data = investment
		c.JSON(dto.GetHTTPStatus(code), resp)
		return
	}

	h.Created(c, investment)
}

// GetByID returns one investment
func (h *InvestmentHandler) GetByID(c *gin.Context) {
	investmentID, ok := h.parseID(c, "investment")
	if !ok {
		return
	}

	investment, err := h.investmentService.GetByID(c.Request.Context(), investmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, investment)
}

// List returns a page of investments, optionally for one investor
func (h *InvestmentHandler) List(c *gin.Context) {
	var filter fundapp.InvestmentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	investments, total, err := h.investmentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, investments, total, filter.Page, filter.PageSize)
}

// Update changes an investment's amount, duration or date
func (h *InvestmentHandler) Update(c *gin.Context) {
	investmentID, ok := h.parseID(c, "investment")
	if !ok {
		return
	}

	var req fundapp.UpdateInvestmentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	investment, err := h.investmentService.Update(c.Request.Context(), investmentID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, investment)
}

// Delete removes an investment
func (h *InvestmentHandler) Delete(c *gin.Context) {
	investmentID, ok := h.parseID(c, "investment")
	if !ok {
		return
	}

	if err := h.investmentService.Delete(c.Request.Context(), investmentID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
