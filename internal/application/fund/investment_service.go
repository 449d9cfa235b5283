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

// InvestmentService handles the investment ledger
type InvestmentService struct {
	investmentRepo fund.InvestmentRepository
	entityRepo     fund.EntityRepository
	publisher      shared.EventPublisher
	clock          shared.Clock
	logger         *zap.Logger
}

// NewInvestmentService creates a new InvestmentService
func NewInvestmentService(
	investmentRepo fund.InvestmentRepository,
	entityRepo fund.EntityRepository,
	publisher shared.EventPublisher,
	clock shared.Clock,
	log *zap.Logger,
) *InvestmentService {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &InvestmentService{
		investmentRepo: investmentRepo,
		entityRepo:     entityRepo,
		publisher:      publisher,
		clock:          clock,
		logger:         log,
	}
}

// Record records a new investment and publishes InvestmentRecorded.
// Handlers run before Record returns; their errors are returned with the
// stored investment.
func (s *InvestmentService) Record(ctx context.Context, req RecordInvestmentRequest) (*InvestmentResponse, error) {
	if err := s.requireInvestor(ctx, req.InvestorID); err != nil {
		return nil, err
	}

	duration := 1
	if req.Duration != nil {
		duration = *req.Duration
	}
	date := shared.Today(s.clock)
	if req.Date != nil && !req.Date.IsZero() {
		date = shared.DateOf(*req.Date)
	}

	investment, err := fund.NewInvestment(req.InvestorID, req.Amount, duration, date)
	if err != nil {
		return nil, err
	}
	if err := s.investmentRepo.Save(ctx, investment); err != nil {
		return nil, err
	}

	response := ToInvestmentResponse(investment)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, investment.GetDomainEvents()...); err != nil {
			logger.WithLogger(ctx, s.logger).Error("InvestmentRecorded handlers failed",
				zap.String("investment_id", investment.ID.String()),
				zap.String("investor_id", investment.InvestorID.String()),
				zap.Error(err),
			)
			investment.ClearDomainEvents()
			return &response, err
		}
	}
	investment.ClearDomainEvents()
	return &response, nil
}

// GetByID retrieves an investment by ID
func (s *InvestmentService) GetByID(ctx context.Context, investmentID uuid.UUID) (*InvestmentResponse, error) {
	investment, err := s.investmentRepo.FindByID(ctx, investmentID)
	if err != nil {
		return nil, err
	}
	response := ToInvestmentResponse(investment)
	return &response, nil
}

// List retrieves a page of investments with the total number of matches
func (s *InvestmentService) List(ctx context.Context, filter InvestmentListFilter) ([]InvestmentResponse, int64, error) {
	domainFilter := fund.InvestmentFilter{
		Filter: pageFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
	}
	if filter.InvestorID != "" {
		id, err := uuid.Parse(filter.InvestorID)
		if err != nil {
			return nil, 0, shared.NewValidationError("invalid investor_id %q", filter.InvestorID)
		}
		domainFilter.InvestorID = &id
	}

	investments, err := s.investmentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.investmentRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return toInvestmentResponses(investments), total, nil
}

// ListByInvestor returns every investment of an investor
func (s *InvestmentService) ListByInvestor(ctx context.Context, investorID uuid.UUID) ([]InvestmentResponse, error) {
	investments, err := s.investmentRepo.FindByInvestor(ctx, investorID)
	if err != nil {
		return nil, err
	}
	return toInvestmentResponses(investments), nil
}

// Update changes the terms of an investment
func (s *InvestmentService) Update(ctx context.Context, investmentID uuid.UUID, req UpdateInvestmentRequest) (*InvestmentResponse, error) {
	investment, err := s.investmentRepo.FindByID(ctx, investmentID)
	if err != nil {
		return nil, err
	}
	duration := investment.Duration
	if req.Duration != nil {
		duration = *req.Duration
	}
	if err := investment.Update(req.Amount, duration, timeOrZero(req.Date)); err != nil {
		return nil, err
	}
	if err := s.investmentRepo.Save(ctx, investment); err != nil {
		return nil, err
	}
	response := ToInvestmentResponse(investment)
	return &response, nil
}

// Delete deletes an investment
func (s *InvestmentService) Delete(ctx context.Context, investmentID uuid.UUID) error {
	if _, err := s.investmentRepo.FindByID(ctx, investmentID); err != nil {
		return err
	}
	return s.investmentRepo.Delete(ctx, investmentID)
}

func (s *InvestmentService) requireInvestor(ctx context.Context, investorID uuid.UUID) error {
	if investorID == uuid.Nil {
		return shared.NewValidationError("investor_id is required")
	}
	entity, err := s.entityRepo.FindByID(ctx, investorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("investor", investorID)
		}
		return err
	}
	if !entity.IsInvestor() {
		return shared.NewValidationError("investor_id must reference an investor entity")
	}
	return nil
}

func toInvestmentResponses(investments []fund.Investment) []InvestmentResponse {
	responses := make([]InvestmentResponse, len(investments))
	for i := range investments {
		responses[i] = ToInvestmentResponse(&investments[i])
	}
	return responses
}
