package persistence

import (
	"context"
	"errors"

	"github.com/fundbilling/backend/internal/domain/fund"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvestmentRepository implements fund.InvestmentRepository using GORM
type GormInvestmentRepository struct {
	db *gorm.DB
}

// NewGormInvestmentRepository creates a new GormInvestmentRepository
func NewGormInvestmentRepository(db *gorm.DB) *GormInvestmentRepository {
	return &GormInvestmentRepository{db: db}
}

// FindByID finds an investment by its ID
func (r *GormInvestmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*fund.Investment, error) {
	var model models.InvestmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByInvestor returns every investment recorded for an investor, oldest first
func (r *GormInvestmentRepository) FindByInvestor(ctx context.Context, investorID uuid.UUID) ([]fund.Investment, error) {
	var investmentModels []models.InvestmentModel
	if err := r.db.WithContext(ctx).
		Where("investor_id = ?", investorID).
		Order("date ASC, created_at ASC").
		Find(&investmentModels).Error; err != nil {
		return nil, err
	}
	return toInvestments(investmentModels), nil
}

// FindAll finds investments with filtering and pagination
func (r *GormInvestmentRepository) FindAll(ctx context.Context, filter fund.InvestmentFilter) ([]fund.Investment, error) {
	var investmentModels []models.InvestmentModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvestmentModel{}), filter)
	query = applyPagination(query, filter.Filter, InvestmentSortFields)

	if err := query.Find(&investmentModels).Error; err != nil {
		return nil, err
	}
	return toInvestments(investmentModels), nil
}

// Count counts investments matching the filter
func (r *GormInvestmentRepository) Count(ctx context.Context, filter fund.InvestmentFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvestmentModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an investment
func (r *GormInvestmentRepository) Save(ctx context.Context, investment *fund.Investment) error {
	model := models.InvestmentModelFromDomain(investment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an investment
func (r *GormInvestmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InvestmentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormInvestmentRepository) applyFilter(query *gorm.DB, filter fund.InvestmentFilter) *gorm.DB {
	if filter.InvestorID != nil {
		query = query.Where("investor_id = ?", *filter.InvestorID)
	}
	return query
}

func toInvestments(investmentModels []models.InvestmentModel) []fund.Investment {
	investments := make([]fund.Investment, len(investmentModels))
	for i, model := range investmentModels {
		investments[i] = *model.ToDomain()
	}
	return investments
}

var _ fund.InvestmentRepository = (*GormInvestmentRepository)(nil)
