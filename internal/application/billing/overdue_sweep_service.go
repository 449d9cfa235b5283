package billing

import (
	"context"
	"time"

	"github.com/fundbilling/backend/internal/domain/billing"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/infrastructure/logger"
	"github.com/fundbilling/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// OverdueSweepService marks pending bills past their due date as overdue
type OverdueSweepService struct {
	billRepo billing.BillRepository
	clock    shared.Clock
	logger   *zap.Logger
	metrics  *telemetry.BillingMetrics
}

// NewOverdueSweepService creates a new OverdueSweepService
func NewOverdueSweepService(billRepo billing.BillRepository, clock shared.Clock, log *zap.Logger) *OverdueSweepService {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OverdueSweepService{billRepo: billRepo, clock: clock, logger: log}
}

// SetBillingMetrics sets the billing metrics recorder
func (s *OverdueSweepService) SetBillingMetrics(m *telemetry.BillingMetrics) {
	s.metrics = m
}

// SweepOverdue sweeps as of the current day
func (s *OverdueSweepService) SweepOverdue(ctx context.Context) (int64, error) {
	return s.Sweep(ctx, shared.Today(s.clock))
}

// Sweep moves every pending bill due before today to overdue. Running it
// twice for the same day marks nothing the second time.
func (s *OverdueSweepService) Sweep(ctx context.Context, today time.Time) (int64, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "OverdueSweepService", "Sweep")
	defer span.End()

	count, err := s.billRepo.MarkOverdue(ctx, shared.DateOf(today))
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, shared.NewPersistenceError("failed to mark overdue bills", err)
	}
	telemetry.SetAttribute(span, "bills.marked_overdue", count)
	telemetry.SetOK(span)

	s.metrics.OverdueSwept(ctx, count)
	if count > 0 {
		logger.WithLogger(ctx, s.logger).Info("Marked bills overdue",
			zap.Int64("count", count),
			zap.String("date", shared.DateOf(today).Format(dateLayout)),
		)
	}
	return count, nil
}

// SweepNow sweeps as of the current day and reports the result
func (s *OverdueSweepService) SweepNow(ctx context.Context) (*SweepResult, error) {
	today := shared.Today(s.clock)
	count, err := s.Sweep(ctx, today)
	if err != nil {
		return nil, err
	}
	return &SweepResult{Date: today.Format(dateLayout), MarkedCount: count}, nil
}
