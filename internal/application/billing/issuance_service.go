package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fundbilling/backend/internal/domain/billing"
	"github.com/fundbilling/backend/internal/domain/fund"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/infrastructure/logger"
	"github.com/fundbilling/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IssuanceConfig tunes the orchestrator
type IssuanceConfig struct {
	DueDays           int           // Days between bill date and due date when none is supplied
	LinkRetryAttempts int           // Attempts to link the bill to its capital call
	LinkRetryBackoff  time.Duration // Pause between link attempts, doubled after each failure
}

// DefaultIssuanceConfig returns the default orchestrator configuration
func DefaultIssuanceConfig() IssuanceConfig {
	return IssuanceConfig{
		DueDays:           billing.DefaultDueDays,
		LinkRetryAttempts: 3,
		LinkRetryBackoff:  50 * time.Millisecond,
	}
}

// BillIssuanceOrchestrator is the single path that inserts bills. It
// validates the request, checks the uniqueness rules under the investor
// lock, prices and converts the bill, persists it and links it to its
// capital call.
type BillIssuanceOrchestrator struct {
	entities     fund.EntityRepository
	capitalCalls fund.CapitalCallRepository
	bills        billing.BillRepository
	guard        *billing.UniquenessGuard
	calculator   *billing.FeeCalculator
	converter    *billing.CurrencyConverter
	locker       billing.InvestorLocker
	publisher    shared.EventPublisher
	clock        shared.Clock
	config       IssuanceConfig
	logger       *zap.Logger
	metrics      *telemetry.BillingMetrics
}

// NewBillIssuanceOrchestrator creates a new BillIssuanceOrchestrator
func NewBillIssuanceOrchestrator(
	entities fund.EntityRepository,
	capitalCalls fund.CapitalCallRepository,
	bills billing.BillRepository,
	calculator *billing.FeeCalculator,
	converter *billing.CurrencyConverter,
	locker billing.InvestorLocker,
	publisher shared.EventPublisher,
	clock shared.Clock,
	config IssuanceConfig,
	log *zap.Logger,
) *BillIssuanceOrchestrator {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	defaults := DefaultIssuanceConfig()
	if config.DueDays <= 0 {
		config.DueDays = defaults.DueDays
	}
	if config.LinkRetryAttempts <= 0 {
		config.LinkRetryAttempts = defaults.LinkRetryAttempts
	}
	if config.LinkRetryBackoff < 0 {
		config.LinkRetryBackoff = 0
	}
	return &BillIssuanceOrchestrator{
		entities:     entities,
		capitalCalls: capitalCalls,
		bills:        bills,
		guard:        billing.NewUniquenessGuard(bills),
		calculator:   calculator,
		converter:    converter,
		locker:       locker,
		publisher:    publisher,
		clock:        clock,
		config:       config,
		logger:       log,
	}
}

// SetBillingMetrics sets the billing metrics recorder
func (o *BillIssuanceOrchestrator) SetBillingMetrics(m *telemetry.BillingMetrics) {
	o.metrics = m
}

// issueCommand is a request whose fields have been parsed and checked
type issueCommand struct {
	billType      billing.BillType
	investor      *fund.Entity
	capitalCallID uuid.UUID
	investmentID  *uuid.UUID
	feesYear      int
	date          time.Time
	dueDate       time.Time
}

// Issue validates and issues a bill, returning its ID.
// When the bill is stored but cannot be linked to its capital call the
// bill ID is returned together with a PERSISTENCE_ERROR.
func (o *BillIssuanceOrchestrator) Issue(ctx context.Context, req IssueBillRequest) (billID uuid.UUID, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "BillIssuanceOrchestrator", "Issue",
		telemetry.WithAttribute(telemetry.SpanAttrBillType, req.Type),
		telemetry.WithAttribute(telemetry.SpanAttrInvestorID, req.ToInvestorID),
	)
	defer span.End()

	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("issue_bill", map[string]string{
		telemetry.ProfilingLabelBillType: req.Type,
	}), func(ctx context.Context) {
		billID, err = o.issue(ctx, req)
	})

	if err != nil {
		code := errorCode(err)
		telemetry.SetAttribute(span, telemetry.SpanAttrErrorCode, code)
		telemetry.RecordError(span, err)
		o.metrics.IssuanceFailed(ctx, req.Type, code, time.Since(start))
		return billID, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrBillID, billID.String())
	telemetry.SetOK(span)
	return billID, nil
}

func (o *BillIssuanceOrchestrator) issue(ctx context.Context, req IssueBillRequest) (uuid.UUID, error) {
	start := time.Now()
	cmd, err := o.validate(ctx, req)
	if err != nil {
		return uuid.Nil, err
	}
	log := logger.WithLogger(ctx, o.logger).With(
		zap.String("investor_id", cmd.investor.ID.String()),
		zap.String("bill_type", cmd.billType.String()),
		zap.Int("fees_year", cmd.feesYear),
	)
	if req.Currency != "" && !strings.EqualFold(req.Currency, cmd.investor.SettlementCurrency().String()) {
		log.Debug("Ignoring requested currency in favour of settlement currency",
			zap.String("requested_currency", req.Currency),
			zap.String("settlement_currency", cmd.investor.SettlementCurrency().String()),
		)
	}

	bill, err := o.createLocked(ctx, cmd, log)
	if err != nil {
		return uuid.Nil, err
	}

	if err := o.linkWithRetry(ctx, bill, log); err != nil {
		log.Error("Bill stored without capital call link",
			zap.String("bill_id", bill.ID.String()),
			zap.String("capital_call_id", bill.CapitalCallID.String()),
			zap.Error(err),
		)
		return bill.ID, shared.NewPersistenceError(
			fmt.Sprintf("bill %s was created but could not be linked to capital call %s", bill.ID, bill.CapitalCallID),
			err,
		)
	}

	if o.publisher != nil {
		if err := o.publisher.Publish(ctx, bill.GetDomainEvents()...); err != nil {
			log.Warn("BillIssued handlers failed", zap.String("bill_id", bill.ID.String()), zap.Error(err))
		}
	}
	bill.ClearDomainEvents()

	o.metrics.BillIssued(ctx, bill.Type.String(), bill.Currency.String(), time.Since(start))
	log.Info("Bill issued",
		zap.String("bill_id", bill.ID.String()),
		zap.String("amount", bill.Amount.String()),
		zap.String("currency", bill.Currency.String()),
	)
	return bill.ID, nil
}

// validate resolves the request in a fixed order so that the first
// failing field decides the error returned
func (o *BillIssuanceOrchestrator) validate(ctx context.Context, req IssueBillRequest) (*issueCommand, error) {
	if strings.TrimSpace(req.ToInvestorID) == "" {
		return nil, shared.NewValidationError(billing.MsgInvestorRequired)
	}
	investor, err := o.resolveInvestor(ctx, req.ToInvestorID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Type) == "" {
		return nil, shared.NewValidationError(billing.MsgBillTypeRequired)
	}
	billType := billing.BillType(req.Type)
	if !billType.IsValid() {
		return nil, shared.NewValidationError("invalid bill type %q", req.Type)
	}

	cmd := &issueCommand{
		billType: billType,
		investor: investor,
		feesYear: req.FeesYear,
	}
	if billType == billing.BillTypeMembership {
		cmd.feesYear = 0
	} else if req.InvestmentID != "" {
		id, err := uuid.Parse(req.InvestmentID)
		if err != nil {
			return nil, shared.NewValidationError("invalid investment_id %q", req.InvestmentID)
		}
		cmd.investmentID = &id
	}

	if strings.TrimSpace(req.CapitalCallID) == "" {
		return nil, shared.NewValidationError("capital_call_id is required")
	}
	capitalCallID, err := uuid.Parse(req.CapitalCallID)
	if err != nil {
		return nil, shared.NewValidationError("invalid capital_call_id %q", req.CapitalCallID)
	}
	exists, err := o.capitalCalls.Exists(ctx, capitalCallID)
	if err != nil {
		return nil, shared.NewPersistenceError("failed to load capital call", err)
	}
	if !exists {
		return nil, shared.NewNotFoundError("capital call", capitalCallID)
	}
	cmd.capitalCallID = capitalCallID

	cmd.date = shared.Today(o.clock)
	if req.Date != nil && !req.Date.IsZero() {
		cmd.date = shared.DateOf(*req.Date)
	}
	cmd.dueDate = cmd.date.AddDate(0, 0, o.config.DueDays)
	if req.DueDate != nil && !req.DueDate.IsZero() {
		cmd.dueDate = shared.DateOf(*req.DueDate)
		if cmd.dueDate.Before(cmd.date) {
			return nil, shared.NewValidationError("due_date cannot be before date")
		}
	}
	return cmd, nil
}

func (o *BillIssuanceOrchestrator) resolveInvestor(ctx context.Context, rawID string) (*fund.Entity, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, billing.NewInvalidInvestorError(billing.MsgInvalidInvestor, err)
	}
	investor, err := o.entities.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, billing.NewInvalidInvestorError(billing.MsgInvalidInvestor, err)
		}
		return nil, shared.NewPersistenceError("failed to load investor", err)
	}
	if !investor.IsInvestor() {
		return nil, billing.NewInvalidInvestorError(billing.MsgNotAnInvestor, nil)
	}
	return investor, nil
}

// createLocked runs the uniqueness check, pricing and insert while the
// investor lock is held
func (o *BillIssuanceOrchestrator) createLocked(ctx context.Context, cmd *issueCommand, log *logger.ContextLogger) (*billing.Bill, error) {
	release, err := o.locker.Lock(ctx, cmd.investor.ID)
	if err != nil {
		return nil, shared.NewPersistenceError("failed to acquire investor lock", err)
	}
	defer release()

	if err := o.guard.Check(ctx, cmd.billType, cmd.investor.ID, cmd.feesYear); err != nil {
		return nil, err
	}

	quote, err := o.calculator.Compute(ctx, cmd.billType, cmd.investor.ID, cmd.investmentID, cmd.feesYear)
	if err != nil {
		return nil, err
	}
	switch {
	case quote.Regime == billing.FeeRegimeUnpriced:
		log.Warn("Investment date falls in neither fee regime, billing zero")
	case quote.OutOfRange:
		log.Warn("Fee year outside the investment schedule, billing zero")
	}

	currency := cmd.investor.SettlementCurrency()
	amount, err := o.converter.Convert(ctx, quote.Amount, currency)
	if err != nil {
		return nil, err
	}

	bill, err := billing.NewBill(billing.BillDraft{
		Type:          cmd.billType,
		ToInvestorID:  cmd.investor.ID,
		CapitalCallID: cmd.capitalCallID,
		InvestmentID:  cmd.investmentID,
		FeesYear:      cmd.feesYear,
		Currency:      currency,
		Amount:        amount,
		Date:          cmd.date,
		DueDate:       cmd.dueDate,
	})
	if err != nil {
		return nil, err
	}

	if err := o.bills.Create(ctx, bill); err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, shared.NewPersistenceError("failed to store bill", err)
	}
	return bill, nil
}

// linkWithRetry appends the bill to its capital call. AppendBill is
// idempotent, so a retry after an ambiguous failure is safe.
func (o *BillIssuanceOrchestrator) linkWithRetry(ctx context.Context, bill *billing.Bill, log *logger.ContextLogger) error {
	backoff := o.config.LinkRetryBackoff
	var err error
	for attempt := 1; attempt <= o.config.LinkRetryAttempts; attempt++ {
		err = o.capitalCalls.AppendBill(ctx, bill.CapitalCallID, bill.ID)
		if err == nil {
			return nil
		}
		log.Warn("Failed to link bill to capital call",
			zap.String("bill_id", bill.ID.String()),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", o.config.LinkRetryAttempts),
			zap.Error(err),
		)
		if attempt == o.config.LinkRetryAttempts || errors.Is(err, shared.ErrNotFound) {
			break
		}
		if backoff > 0 {
			select {
			case <-ctx.Done():
				return errors.Join(err, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return err
}

// errorCode returns the domain code of err or PERSISTENCE_ERROR
func errorCode(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return shared.CodePersistence
}
