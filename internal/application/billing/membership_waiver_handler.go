package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/fundbilling/backend/internal/domain/billing"
	"github.com/fundbilling/backend/internal/domain/fund"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/infrastructure/logger"
	"github.com/fundbilling/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// waiverAttempts bounds the reload-and-save cycle when a concurrent writer
// bumps the bill version
const waiverAttempts = 2

// MembershipWaiverHandler zeroes an investor's membership bill once they
// record an investment above the waiver threshold. It holds the investor
// lock used by issuance, so a membership bill being priced concurrently is
// either stored before the waiver reads it or priced with the new
// investment in view.
type MembershipWaiverHandler struct {
	billRepo  billing.BillRepository
	schedule  billing.FeeSchedule
	locker    billing.InvestorLocker
	publisher shared.EventPublisher
	logger    *zap.Logger
	metrics   *telemetry.BillingMetrics
}

// NewMembershipWaiverHandler creates a new MembershipWaiverHandler. locker
// must be the one given to the BillIssuanceOrchestrator; nil disables
// serialization.
func NewMembershipWaiverHandler(
	billRepo billing.BillRepository,
	schedule billing.FeeSchedule,
	locker billing.InvestorLocker,
	publisher shared.EventPublisher,
	log *zap.Logger,
) *MembershipWaiverHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MembershipWaiverHandler{
		billRepo:  billRepo,
		schedule:  schedule,
		locker:    locker,
		publisher: publisher,
		logger:    log,
	}
}

// SetBillingMetrics sets the billing metrics recorder
func (h *MembershipWaiverHandler) SetBillingMetrics(m *telemetry.BillingMetrics) {
	h.metrics = m
}

// EventTypes returns the event types this handler is interested in
func (h *MembershipWaiverHandler) EventTypes() []string {
	return []string{fund.EventTypeInvestmentRecorded}
}

// Handle processes an InvestmentRecorded event
func (h *MembershipWaiverHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*fund.InvestmentRecordedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: %T", event)
	}
	if !h.schedule.WaivesMembership(e.Amount) {
		return nil
	}

	log := logger.WithLogger(ctx, h.logger).With(
		zap.String("investor_id", e.InvestorID.String()),
		zap.String("investment_id", e.InvestmentID.String()),
	)

	if h.locker != nil {
		release, err := h.locker.Lock(ctx, e.InvestorID)
		if err != nil {
			return shared.NewPersistenceError("failed to acquire investor lock", err)
		}
		defer release()
	}

	var bill *billing.Bill
	for attempt := 1; ; attempt++ {
		var err error
		bill, err = h.waive(ctx, e.InvestorID)
		if err == nil {
			break
		}
		if errors.Is(err, shared.ErrVersionConflict) && attempt < waiverAttempts {
			log.Warn("Membership bill changed while waiving, reloading", zap.Int("attempt", attempt))
			continue
		}
		log.Error("Failed to waive membership fee", zap.Error(err))
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return err
		}
		return shared.NewPersistenceError("failed to save waived membership bill", err)
	}
	if bill == nil {
		return nil
	}

	h.metrics.MembershipWaived(ctx)
	log.Info("Membership fee waived",
		zap.String("bill_id", bill.ID.String()),
		zap.String("investment_amount", e.Amount.String()),
	)

	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, bill.GetDomainEvents()...); err != nil {
			log.Warn("MembershipFeeWaived handlers failed", zap.Error(err))
		}
	}
	bill.ClearDomainEvents()
	return nil
}

// waive loads and zeroes the membership bill. It returns nil when there is
// nothing to waive.
func (h *MembershipWaiverHandler) waive(ctx context.Context, investorID uuid.UUID) (*billing.Bill, error) {
	bill, err := h.billRepo.FindMembership(ctx, investorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, shared.NewPersistenceError("failed to load membership bill", err)
	}
	if !bill.WaiveMembership() {
		return nil, nil
	}
	if err := h.billRepo.SaveWithLock(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}
