package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/fundbilling/backend/internal/domain/fund"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEntityRepository implements fund.EntityRepository using GORM
type GormEntityRepository struct {
	db *gorm.DB
}

// NewGormEntityRepository creates a new GormEntityRepository
func NewGormEntityRepository(db *gorm.DB) *GormEntityRepository {
	return &GormEntityRepository{db: db}
}

// FindByID finds an entity by its ID
func (r *GormEntityRepository) FindByID(ctx context.Context, id uuid.UUID) (*fund.Entity, error) {
	var model models.EntityModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds every entity whose ID is in ids
func (r *GormEntityRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]fund.Entity, error) {
	if len(ids) == 0 {
		return []fund.Entity{}, nil
	}
	var entityModels []models.EntityModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&entityModels).Error; err != nil {
		return nil, err
	}
	entities := make([]fund.Entity, len(entityModels))
	for i, model := range entityModels {
		entities[i] = *model.ToDomain()
	}
	return entities, nil
}

// FindAll finds entities with filtering and pagination
func (r *GormEntityRepository) FindAll(ctx context.Context, filter fund.EntityFilter) ([]fund.Entity, error) {
	var entityModels []models.EntityModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.EntityModel{}), filter)
	query = applyPagination(query, filter.Filter, EntitySortFields)

	if err := query.Find(&entityModels).Error; err != nil {
		return nil, err
	}
	entities := make([]fund.Entity, len(entityModels))
	for i, model := range entityModels {
		entities[i] = *model.ToDomain()
	}
	return entities, nil
}

// Count counts entities matching the filter
func (r *GormEntityRepository) Count(ctx context.Context, filter fund.EntityFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.EntityModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an entity
func (r *GormEntityRepository) Save(ctx context.Context, entity *fund.Entity) error {
	model := models.EntityModelFromDomain(entity)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an entity
func (r *GormEntityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.EntityModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormEntityRepository) applyFilter(query *gorm.DB, filter fund.EntityFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	return query
}

var _ fund.EntityRepository = (*GormEntityRepository)(nil)
