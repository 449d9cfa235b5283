package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fundbilling/backend/internal/domain/billing"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBillRepository implements billing.BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// FindByID finds a bill by its ID
func (r *GormBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	var model models.BillModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindMembership finds the investor's membership bill
func (r *GormBillRepository) FindMembership(ctx context.Context, investorID uuid.UUID) (*billing.Bill, error) {
	var model models.BillModel
	if err := r.db.WithContext(ctx).
		Where("to_investor_id = ? AND type = ?", investorID, billing.BillTypeMembership).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsForInvestor reports whether the investor has a bill of the type,
// restricted to a fee year when feesYear is not nil
func (r *GormBillRepository) ExistsForInvestor(ctx context.Context, investorID uuid.UUID, billType billing.BillType, feesYear *int) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.BillModel{}).
		Where("to_investor_id = ? AND type = ?", investorID, billType)
	if feesYear != nil {
		query = query.Where("fees_year = ?", *feesYear)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds bills with filtering and pagination
func (r *GormBillRepository) FindAll(ctx context.Context, filter billing.BillFilter) ([]billing.Bill, error) {
	var billModels []models.BillModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BillModel{}), filter)
	query = applyPagination(query, filter.Filter, BillSortFields)

	if err := query.Find(&billModels).Error; err != nil {
		return nil, err
	}
	bills := make([]billing.Bill, len(billModels))
	for i, model := range billModels {
		bills[i] = *model.ToDomain()
	}
	return bills, nil
}

// Count counts bills matching the filter
func (r *GormBillRepository) Count(ctx context.Context, filter billing.BillFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BillModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new bill. The unique (to_investor_id, dedup_key) index
// turns a concurrent duplicate into DUPLICATE_BILL.
func (r *GormBillRepository) Create(ctx context.Context, bill *billing.Bill) error {
	model := models.BillModelFromDomain(bill)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return billing.NewDuplicateBillError(billing.DuplicateReason(bill.Type, bill.FeesYear, bill.ToInvestorID))
		}
		return err
	}
	return nil
}

// SaveWithLock updates a bill with optimistic locking
func (r *GormBillRepository) SaveWithLock(ctx context.Context, bill *billing.Bill) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.BillModel
		if err := tx.Select("version").Where("id = ?", bill.GetID()).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		// Domain model already incremented version
		expectedVersion := bill.GetVersion() - 1
		if current.Version != expectedVersion {
			return shared.NewDomainError(shared.CodeVersionConflict, "Bill has been modified by another process")
		}

		model := models.BillModelFromDomain(bill)
		result := tx.Model(model).
			Where("id = ? AND version = ?", bill.GetID(), expectedVersion).
			Select("*").
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError(shared.CodeVersionConflict, "Bill has been modified by another process")
		}
		return nil
	})
}

// Delete deletes a bill and its capital call link
func (r *GormBillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.CapitalCallBillModel{}, "bill_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.BillModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// MarkOverdue moves every pending bill due before today to overdue in a
// single statement. Bills in any other status are left untouched.
func (r *GormBillRepository) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.BillModel{}).
		Where("status = ? AND due_date < ?", billing.BillStatusPending, shared.DateOf(today)).
		Updates(map[string]any{
			"status":     billing.BillStatusOverdue,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormBillRepository) applyFilter(query *gorm.DB, filter billing.BillFilter) *gorm.DB {
	if filter.ToInvestorID != nil {
		query = query.Where("to_investor_id = ?", *filter.ToInvestorID)
	}
	if filter.CapitalCallID != nil {
		query = query.Where("capital_call_id = ?", *filter.CapitalCallID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

var _ billing.BillRepository = (*GormBillRepository)(nil)
