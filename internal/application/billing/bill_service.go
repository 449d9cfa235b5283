package billing

import (
	"context"

	"github.com/fundbilling/backend/internal/domain/billing"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BillService handles bill reads and status changes. Bills are created
// only through BillIssuanceOrchestrator.
type BillService struct {
	billRepo billing.BillRepository
}

// NewBillService creates a new BillService
func NewBillService(billRepo billing.BillRepository) *BillService {
	return &BillService{billRepo: billRepo}
}

// GetByID retrieves a bill by ID
func (s *BillService) GetByID(ctx context.Context, billID uuid.UUID) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	response := ToBillResponse(bill)
	return &response, nil
}

// List retrieves a page of bills with the total number of matches
func (s *BillService) List(ctx context.Context, filter BillListFilter) ([]BillResponse, int64, error) {
	domainFilter, err := toDomainBillFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	bills, err := s.billRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.billRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToBillResponses(bills), total, nil
}

// UpdateStatus moves a bill to a new status
func (s *BillService) UpdateStatus(ctx context.Context, billID uuid.UUID, req UpdateBillStatusRequest) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, err
	}

	if err := bill.TransitionTo(billing.BillStatus(req.Status)); err != nil {
		return nil, err
	}

	// Save with optimistic locking
	if err := s.billRepo.SaveWithLock(ctx, bill); err != nil {
		return nil, err
	}

	response := ToBillResponse(bill)
	return &response, nil
}

// Delete deletes a bill and its capital call link
func (s *BillService) Delete(ctx context.Context, billID uuid.UUID) error {
	return s.billRepo.Delete(ctx, billID)
}

func toDomainBillFilter(filter BillListFilter) (billing.BillFilter, error) {
	base := shared.DefaultFilter()
	if filter.Page > 0 {
		base.Page = filter.Page
	}
	if filter.PageSize > 0 {
		base.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		base.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		base.OrderDir = filter.OrderDir
	}

	result := billing.BillFilter{Filter: base}
	if filter.ToInvestorID != "" {
		id, err := uuid.Parse(filter.ToInvestorID)
		if err != nil {
			return result, shared.NewValidationError("invalid to_investor_id %q", filter.ToInvestorID)
		}
		result.ToInvestorID = &id
	}
	if filter.CapitalCallID != "" {
		id, err := uuid.Parse(filter.CapitalCallID)
		if err != nil {
			return result, shared.NewValidationError("invalid capital_call_id %q", filter.CapitalCallID)
		}
		result.CapitalCallID = &id
	}
	if filter.Type != "" {
		billType := billing.BillType(filter.Type)
		if !billType.IsValid() {
			return result, shared.NewValidationError("invalid bill type %q", filter.Type)
		}
		result.Type = &billType
	}
	if filter.Status != "" {
		status := billing.BillStatus(filter.Status)
		if !status.IsValid() {
			return result, shared.NewValidationError("invalid bill status %q", filter.Status)
		}
		result.Status = &status
	}
	return result, nil
}
