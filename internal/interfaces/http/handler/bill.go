package handler

import (
	"context"

	billingapp "github.com/fundbilling/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BillService reads and maintains issued bills
type BillService interface {
	GetByID(ctx context.Context, billID uuid.UUID) (*billingapp.BillResponse, error)
	List(ctx context.Context, filter billingapp.BillListFilter) ([]billingapp.BillResponse, int64, error)
	UpdateStatus(ctx context.Context, billID uuid.UUID, req billingapp.UpdateBillStatusRequest) (*billingapp.BillResponse, error)
	Delete(ctx context.Context, billID uuid.UUID) error
}

// OverdueSweeper marks past-due pending bills overdue on demand
type OverdueSweeper interface {
	SweepNow(ctx context.Context) (*billingapp.SweepResult, error)
}

// BillHandler handles bill-related API endpoints
type BillHandler struct {
	BaseHandler
	billService BillService
	sweeper     OverdueSweeper
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billService BillService, sweeper OverdueSweeper) *BillHandler {
	return &BillHandler{
		billService: billService,
		sweeper:     sweeper,
	}
}

// List returns a page of bills filtered by investor, capital call, type or status
func (h *BillHandler) List(c *gin.Context) {
	var filter billingapp.BillListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	bills, total, err := h.billService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, bills, total, filter.Page, filter.PageSize)
}

// GetByID returns one bill
func (h *BillHandler) GetByID(c *gin.Context) {
	billID, ok := h.parseID(c, "bill")
	if !ok {
		return
	}

	bill, err := h.billService.GetByID(c.Request.Context(), billID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bill)
}

// UpdateStatus moves a bill to a new status. Amount and fee fields are
// fixed at issuance, so status is the only mutable field.
func (h *BillHandler) UpdateStatus(c *gin.Context) {
	billID, ok := h.parseID(c, "bill")
	if !ok {
		return
	}

	var req billingapp.UpdateBillStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	bill, err := h.billService.UpdateStatus(c.Request.Context(), billID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, bill)
}

// Delete removes a bill
func (h *BillHandler) Delete(c *gin.Context) {
	billID, ok := h.parseID(c, "bill")
	if !ok {
		return
	}

	if err := h.billService.Delete(c.Request.Context(), billID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// SweepOverdue runs the overdue sweep immediately
func (h *BillHandler) SweepOverdue(c *gin.Context) {
	result, err := h.sweeper.SweepNow(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
