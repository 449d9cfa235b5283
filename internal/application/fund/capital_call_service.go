package fund

import (
	"context"
	"errors"

	"github.com/fundbilling/backend/internal/domain/fund"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CapitalCallService handles the capital call registry
type CapitalCallService struct {
	callRepo   fund.CapitalCallRepository
	entityRepo fund.EntityRepository
	logger     *zap.Logger
}

// NewCapitalCallService creates a new CapitalCallService
func NewCapitalCallService(callRepo fund.CapitalCallRepository, entityRepo fund.EntityRepository, log *zap.Logger) *CapitalCallService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CapitalCallService{callRepo: callRepo, entityRepo: entityRepo, logger: log}
}

// Create creates a capital call issued by a fund entity
func (s *CapitalCallService) Create(ctx context.Context, req CreateCapitalCallRequest) (*CapitalCallResponse, error) {
	if err := s.requireFund(ctx, req.FundEntityID); err != nil {
		return nil, err
	}
	if err := s.requireInvestors(ctx, req.InvestorEntities); err != nil {
		return nil, err
	}

	call, err := fund.NewCapitalCall(req.FundEntityID, fund.CapitalCallDetails{
		InvestorEntities: req.InvestorEntities,
		Date:             timeOrZero(req.Date),
		Purpose:          req.Purpose,
		Currency:         req.Currency,
		PaymentMethod:    req.PaymentMethod,
		DueDate:          timeOrZero(req.DueDate),
	})
	if err != nil {
		return nil, err
	}
	if err := s.callRepo.Save(ctx, call); err != nil {
		return nil, err
	}
	response := ToCapitalCallResponse(call)
	return &response, nil
}

// GetByID retrieves a capital call with its linked bills
func (s *CapitalCallService) GetByID(ctx context.Context, callID uuid.UUID) (*CapitalCallResponse, error) {
	call, err := s.callRepo.FindByID(ctx, callID)
	if err != nil {
		return nil, err
	}
	response := ToCapitalCallResponse(call)
	return &response, nil
}

// List retrieves a page of capital calls with the total number of matches
func (s *CapitalCallService) List(ctx context.Context, filter CapitalCallListFilter) ([]CapitalCallResponse, int64, error) {
	domainFilter := fund.CapitalCallFilter{
		Filter: pageFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
	}
	if filter.FundEntityID != "" {
		id, err := uuid.Parse(filter.FundEntityID)
		if err != nil {
			return nil, 0, shared.NewValidationError("invalid fund_entity_id %q", filter.FundEntityID)
		}
		domainFilter.FundEntityID = &id
	}
	if filter.Status != "" {
		status := fund.CapitalCallStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewValidationError("invalid capital call status %q", filter.Status)
		}
		domainFilter.Status = &status
	}

	calls, err := s.callRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.callRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CapitalCallResponse, len(calls))
	for i := range calls {
		responses[i] = ToCapitalCallResponse(&calls[i])
	}
	return responses, total, nil
}

// Update edits a capital call and optionally moves it to a new status
func (s *CapitalCallService) Update(ctx context.Context, callID uuid.UUID, req UpdateCapitalCallRequest) (*CapitalCallResponse, error) {
	call, err := s.callRepo.FindByID(ctx, callID)
	if err != nil {
		return nil, err
	}
	if err := s.requireInvestors(ctx, req.InvestorEntities); err != nil {
		return nil, err
	}

	if err := call.Update(fund.CapitalCallDetails{
		InvestorEntities: req.InvestorEntities,
		Date:             timeOrZero(req.Date),
		Purpose:          req.Purpose,
		Currency:         req.Currency,
		PaymentMethod:    req.PaymentMethod,
		DueDate:          timeOrZero(req.DueDate),
	}); err != nil {
		return nil, err
	}
	if req.Status != "" && fund.CapitalCallStatus(req.Status) != call.Status {
		if err := call.TransitionTo(fund.CapitalCallStatus(req.Status)); err != nil {
			return nil, err
		}
	}

	if err := s.callRepo.Save(ctx, call); err != nil {
		return nil, err
	}
	response := ToCapitalCallResponse(call)
	return &response, nil
}

// Delete deletes a capital call and its bill links
func (s *CapitalCallService) Delete(ctx context.Context, callID uuid.UUID) error {
	return s.callRepo.Delete(ctx, callID)
}

// Reconcile links every bill that references the call but is missing
// from its bill list
func (s *CapitalCallService) Reconcile(ctx context.Context, callID uuid.UUID) (*ReconcileResponse, error) {
	added, err := s.callRepo.ReconcileBills(ctx, callID)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, shared.NewPersistenceError("failed to reconcile capital call bills", err)
	}
	if added > 0 {
		logger.WithLogger(ctx, s.logger).Info("Reconciled capital call bills",
			zap.String("capital_call_id", callID.String()),
			zap.Int("links_added", added),
		)
	}
	return &ReconcileResponse{CapitalCallID: callID, LinksAdded: added}, nil
}

func (s *CapitalCallService) requireFund(ctx context.Context, fundID uuid.UUID) error {
	if fundID == uuid.Nil {
		return shared.NewValidationError("fund_entity_id is required")
	}
	entity, err := s.entityRepo.FindByID(ctx, fundID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("fund entity", fundID)
		}
		return err
	}
	if !entity.IsFund() {
		return shared.NewValidationError("fund_entity_id must reference a fund entity")
	}
	return nil
}

// requireInvestors checks that every id resolves to an investor entity
func (s *CapitalCallService) requireInvestors(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	entities, err := s.entityRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	found := make(map[uuid.UUID]*fund.Entity, len(entities))
	for i := range entities {
		found[entities[i].ID] = &entities[i]
	}
	for _, id := range ids {
		entity, ok := found[id]
		if !ok {
			return shared.NewNotFoundError("investor", id)
		}
		if !entity.IsInvestor() {
			return shared.NewValidationError("investor_entities contains %s, which is not an investor", id)
		}
	}
	return nil
}
