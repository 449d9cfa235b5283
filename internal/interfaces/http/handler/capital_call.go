package handler

import (
	"context"

	fundapp "github.com/fundbilling/backend/internal/application/fund"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CapitalCallService manages capital calls and their bill links
type CapitalCallService interface {
	Create(ctx context.Context, req fundapp.CreateCapitalCallRequest) (*fundapp.CapitalCallResponse, error)
	GetByID(ctx context.Context, callID uuid.UUID) (*fundapp.CapitalCallResponse, error)
	List(ctx context.Context, filter fundapp.CapitalCallListFilter) ([]fundapp.CapitalCallResponse, int64, error)
	Update(ctx context.Context, callID uuid.UUID, req fundapp.UpdateCapitalCallRequest) (*fundapp.CapitalCallResponse, error)
	Delete(ctx context.Context, callID uuid.UUID) error
	Reconcile(ctx context.Context, callID uuid.UUID) (*fundapp.ReconcileResponse, error)
}

// CapitalCallHandler handles capital call API endpoints
type CapitalCallHandler struct {
	BaseHandler
	callService CapitalCallService
}

// NewCapitalCallHandler creates a new CapitalCallHandler
func NewCapitalCallHandler(callService CapitalCallService) *CapitalCallHandler {
	return &CapitalCallHandler{callService: callService}
}

// Create creates a capital call
func (h *CapitalCallHandler) Create(c *gin.Context) {
	var req fundapp.CreateCapitalCallRequest
	if !h.bindJSON(c, &req) {
		return
	}

	call, err := h.callService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, call)
}

// GetByID returns one capital call with its linked bills
func (h *CapitalCallHandler) GetByID(c *gin.Context) {
	callID, ok := h.parseID(c, "capital call")
	if !ok {
		return
	}

	call, err := h.callService.GetByID(c.Request.Context(), callID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, call)
}

// List returns a page of capital calls
func (h *CapitalCallHandler) List(c *gin.Context) {
	var filter fundapp.CapitalCallListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	calls, total, err := h.callService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, calls, total, filter.Page, filter.PageSize)
}

// Update changes a capital call. The bills list is not writable here.
func (h *CapitalCallHandler) Update(c *gin.Context) {
	callID, ok := h.parseID(c, "capital call")
	if !ok {
		return
	}

	var req fundapp.UpdateCapitalCallRequest
	if !h.bindJSON(c, &req) {
		return
	}

	call, err := h.callService.Update(c.Request.Context(), callID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, call)
}

// Delete removes a capital call
func (h *CapitalCallHandler) Delete(c *gin.Context) {
	callID, ok := h.parseID(c, "capital call")
	if !ok {
		return
	}

	if err := h.callService.Delete(c.Request.Context(), callID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Reconcile re-derives the bill links of a capital call from the bills
// that reference it
func (h *CapitalCallHandler) Reconcile(c *gin.Context) {
	callID, ok := h.parseID(c, "capital call")
	if !ok {
		return
	}

	result, err := h.callService.Reconcile(c.Request.Context(), callID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
