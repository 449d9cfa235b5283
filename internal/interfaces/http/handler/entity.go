package handler

import (
	"context"

	fundapp "github.com/fundbilling/backend/internal/application/fund"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EntityService manages companies, funds and investors
type EntityService interface {
	Create(ctx context.Context, req fundapp.CreateEntityRequest) (*fundapp.EntityResponse, error)
	GetByID(ctx context.Context, entityID uuid.UUID) (*fundapp.EntityResponse, error)
	List(ctx context.Context, filter fundapp.EntityListFilter) ([]fundapp.EntityResponse, int64, error)
	Update(ctx context.Context, entityID uuid.UUID, req fundapp.UpdateEntityRequest) (*fundapp.EntityResponse, error)
	Delete(ctx context.Context, entityID uuid.UUID) error
}

// EntityHandler handles entity-related API endpoints
type EntityHandler struct {
	BaseHandler
	entityService EntityService
}

// NewEntityHandler creates a new EntityHandler
func NewEntityHandler(entityService EntityService) *EntityHandler {
	return &EntityHandler{entityService: entityService}
}

// Create creates an entity
func (h *EntityHandler) Create(c *gin.Context) {
	var req fundapp.CreateEntityRequest
	if !h.bindJSON(c, &req) {
		return
	}

	entity, err := h.entityService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, entity)
}

// GetByID returns one entity
func (h *EntityHandler) GetByID(c *gin.Context) {
	entityID, ok := h.parseID(c, "entity")
	if !ok {
		return
	}

	entity, err := h.entityService.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entity)
}

// List returns a page of entities
func (h *EntityHandler) List(c *gin.Context) {
	var filter fundapp.EntityListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	entities, total, err := h.entityService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, entities, total, filter.Page, filter.PageSize)
}

// Update replaces an entity's attributes
func (h *EntityHandler) Update(c *gin.Context) {
	entityID, ok := h.parseID(c, "entity")
	if !ok {
		return
	}

	var req fundapp.UpdateEntityRequest
	if !h.bindJSON(c, &req) {
		return
	}

	entity, err := h.entityService.Update(c.Request.Context(), entityID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entity)
}

// Delete removes an entity
func (h *EntityHandler) Delete(c *gin.Context) {
	entityID, ok := h.parseID(c, "entity")
	if !ok {
		return
	}

	if err := h.entityService.Delete(c.Request.Context(), entityID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
