package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fundbilling/backend/internal/domain/fund"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCapitalCallRepository implements fund.CapitalCallRepository using GORM.
// The ordered bill list is stored in capital_call_bills.
type GormCapitalCallRepository struct {
	db *gorm.DB
}

// NewGormCapitalCallRepository creates a new GormCapitalCallRepository
func NewGormCapitalCallRepository(db *gorm.DB) *GormCapitalCallRepository {
	return &GormCapitalCallRepository{db: db}
}

// FindByID finds a capital call with its linked bills
func (r *GormCapitalCallRepository) FindByID(ctx context.Context, id uuid.UUID) (*fund.CapitalCall, error) {
	var model models.CapitalCallModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	links, err := r.loadLinks(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return model.ToDomain(links[id]), nil
}

// Exists reports whether a capital call with the ID exists
func (r *GormCapitalCallRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CapitalCallModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds capital calls with filtering and pagination
func (r *GormCapitalCallRepository) FindAll(ctx context.Context, filter fund.CapitalCallFilter) ([]fund.CapitalCall, error) {
	var callModels []models.CapitalCallModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CapitalCallModel{}), filter)
	query = applyPagination(query, filter.Filter, CapitalCallSortFields)

	if err := query.Find(&callModels).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(callModels))
	for i, model := range callModels {
		ids[i] = model.ID
	}
	links, err := r.loadLinks(ctx, ids)
	if err != nil {
		return nil, err
	}

	calls := make([]fund.CapitalCall, len(callModels))
	for i, model := range callModels {
		calls[i] = *model.ToDomain(links[model.ID])
	}
	return calls, nil
}

// Count counts capital calls matching the filter
func (r *GormCapitalCallRepository) Count(ctx context.Context, filter fund.CapitalCallFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CapitalCallModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a capital call. Bill links are written only by
// AppendBill and ReconcileBills.
func (r *GormCapitalCallRepository) Save(ctx context.Context, call *fund.CapitalCall) error {
	model := models.CapitalCallModelFromDomain(call)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a capital call and its bill links
func (r *GormCapitalCallRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.CapitalCallBillModel{}, "capital_call_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.CapitalCallModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// AppendBill links a bill at the end of the call's bill list
func (r *GormCapitalCallRepository) AppendBill(ctx context.Context, capitalCallID, billID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.ensureExists(tx, capitalCallID); err != nil {
			return err
		}
		next, err := nextPosition(tx, capitalCallID)
		if err != nil {
			return err
		}
		return insertLinks(tx, capitalCallID, []uuid.UUID{billID}, next)
	})
}

// ReconcileBills links every bill referencing the call that is missing from
// its list, in bill date order, and returns how many links were added
func (r *GormCapitalCallRepository) ReconcileBills(ctx context.Context, capitalCallID uuid.UUID) (int, error) {
	var added int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.ensureExists(tx, capitalCallID); err != nil {
			return err
		}

		var missing []uuid.UUID
		linked := tx.Model(&models.CapitalCallBillModel{}).
			Select("bill_id").
			Where("capital_call_id = ?", capitalCallID)
		if err := tx.Model(&models.BillModel{}).
			Where("capital_call_id = ? AND id NOT IN (?)", capitalCallID, linked).
			Order("date ASC, created_at ASC").
			Pluck("id", &missing).Error; err != nil {
			return err
		}
		if len(missing) == 0 {
			return nil
		}

		next, err := nextPosition(tx, capitalCallID)
		if err != nil {
			return err
		}
		if err := insertLinks(tx, capitalCallID, missing, next); err != nil {
			return err
		}
		added = len(missing)
		return nil
	})
	return added, err
}

func (r *GormCapitalCallRepository) ensureExists(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.CapitalCallModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.NewNotFoundError("Capital call", id)
	}
	return nil
}

func (r *GormCapitalCallRepository) loadLinks(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	result := make(map[uuid.UUID][]uuid.UUID, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var links []models.CapitalCallBillModel
	if err := r.db.WithContext(ctx).
		Where("capital_call_id IN ?", ids).
		Order("position ASC, created_at ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	for _, link := range links {
		result[link.CapitalCallID] = append(result[link.CapitalCallID], link.BillID)
	}
	return result, nil
}

func (r *GormCapitalCallRepository) applyFilter(query *gorm.DB, filter fund.CapitalCallFilter) *gorm.DB {
	if filter.FundEntityID != nil {
		query = query.Where("fund_entity_id = ?", *filter.FundEntityID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

func nextPosition(tx *gorm.DB, capitalCallID uuid.UUID) (int, error) {
	var maxPosition int64
	if err := tx.Model(&models.CapitalCallBillModel{}).
		Select("COALESCE(MAX(position), 0)").
		Where("capital_call_id = ?", capitalCallID).
		Scan(&maxPosition).Error; err != nil {
		return 0, err
	}
	return int(maxPosition) + 1, nil
}

// insertLinks inserts links starting at position; existing links are kept
func insertLinks(tx *gorm.DB, capitalCallID uuid.UUID, billIDs []uuid.UUID, position int) error {
	now := time.Now()
	links := make([]models.CapitalCallBillModel, len(billIDs))
	for i, billID := range billIDs {
		links[i] = models.CapitalCallBillModel{
			CapitalCallID: capitalCallID,
			BillID:        billID,
			Position:      position + i,
			CreatedAt:     now,
		}
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "capital_call_id"}, {Name: "bill_id"}},
		DoNothing: true,
	}).Create(&links).Error
}

var _ fund.CapitalCallRepository = (*GormCapitalCallRepository)(nil)
