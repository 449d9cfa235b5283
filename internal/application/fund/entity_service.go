package fund

import (
	"context"

	"github.com/fundbilling/backend/internal/domain/fund"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EntityService handles entity directory operations
type EntityService struct {
	entityRepo fund.EntityRepository
}

// NewEntityService creates a new EntityService
func NewEntityService(entityRepo fund.EntityRepository) *EntityService {
	return &EntityService{entityRepo: entityRepo}
}

// Create creates a new entity
func (s *EntityService) Create(ctx context.Context, req CreateEntityRequest) (*EntityResponse, error) {
	entity, err := fund.NewEntity(fund.EntityType(req.Type), req.details())
	if err != nil {
		return nil, err
	}
	if err := s.entityRepo.Save(ctx, entity); err != nil {
		return nil, err
	}
	response := ToEntityResponse(entity)
	return &response, nil
}

// GetByID retrieves an entity by ID
func (s *EntityService) GetByID(ctx context.Context, entityID uuid.UUID) (*EntityResponse, error) {
	entity, err := s.entityRepo.FindByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	response := ToEntityResponse(entity)
	return &response, nil
}

// List retrieves a page of entities with the total number of matches
func (s *EntityService) List(ctx context.Context, filter EntityListFilter) ([]EntityResponse, int64, error) {
	domainFilter := fund.EntityFilter{
		Filter: pageFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
	}
	domainFilter.Search = filter.Search
	if filter.Type != "" {
		entityType := fund.EntityType(filter.Type)
		if !entityType.IsValid() {
			return nil, 0, shared.NewValidationError("invalid entity type %q", filter.Type)
		}
		domainFilter.Type = &entityType
	}

	entities, err := s.entityRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.entityRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EntityResponse, len(entities))
	for i := range entities {
		responses[i] = ToEntityResponse(&entities[i])
	}
	return responses, total, nil
}

// Update replaces the mutable attributes of an entity
func (s *EntityService) Update(ctx context.Context, entityID uuid.UUID, req UpdateEntityRequest) (*EntityResponse, error) {
	entity, err := s.entityRepo.FindByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if req.Type != "" && fund.EntityType(req.Type) != entity.Type {
		return nil, shared.NewValidationError("entity type cannot be changed from %s", entity.Type)
	}
	if err := entity.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.entityRepo.Save(ctx, entity); err != nil {
		return nil, err
	}
	response := ToEntityResponse(entity)
	return &response, nil
}

// Delete deletes an entity
func (s *EntityService) Delete(ctx context.Context, entityID uuid.UUID) error {
	if _, err := s.entityRepo.FindByID(ctx, entityID); err != nil {
		return err
	}
	return s.entityRepo.Delete(ctx, entityID)
}

// pageFilter fills pagination defaults
func pageFilter(page, pageSize int, orderBy, orderDir string) shared.Filter {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	if orderBy != "" {
		filter.OrderBy = orderBy
	}
	if orderDir != "" {
		filter.OrderDir = orderDir
	}
	return filter
}
