package telemetry

import (
	"context"
	"time"

	"github.com/fundbilling/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
)

// BillingMetrics records the outcomes of bill issuance and maintenance jobs.
// A nil *BillingMetrics is valid and records nothing.
type BillingMetrics struct {
	meter metric.Meter

	billsIssued      *Counter
	duplicates       *Counter
	issuanceFailures *Counter
	issuanceDuration *Histogram
	overdueSwept     *Counter
	membershipWaived *Counter
	rateCacheAge     metric.Float64ObservableGauge
	ageCallback      metric.Registration
}

// NewBillingMetrics creates the billing instruments on meter
func NewBillingMetrics(meter metric.Meter) (*BillingMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	bm := &BillingMetrics{meter: meter}

	var err error
	if bm.billsIssued, err = NewCounter(meter, "billing_bills_issued_total", "Bills issued", "{bills}"); err != nil {
		return nil, err
	}
	if bm.duplicates, err = NewCounter(meter, "billing_duplicate_bills_total", "Bill requests rejected as duplicates", "{requests}"); err != nil {
		return nil, err
	}
	if bm.issuanceFailures, err = NewCounter(meter, "billing_issuance_failures_total", "Bill requests that failed, by error code", "{requests}"); err != nil {
		return nil, err
	}
	if bm.issuanceDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "billing_issuance_duration_seconds",
		Description: "Time to issue a bill including lock wait",
		Unit:        "s",
		Boundaries:  HTTPDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if bm.overdueSwept, err = NewCounter(meter, "billing_overdue_swept_total", "Bills moved to overdue by the sweep", "{bills}"); err != nil {
		return nil, err
	}
	if bm.membershipWaived, err = NewCounter(meter, "billing_membership_waived_total", "Membership bills waived after a large investment", "{bills}"); err != nil {
		return nil, err
	}
	if bm.rateCacheAge, err = meter.Float64ObservableGauge("billing_rate_cache_age_seconds",
		metric.WithDescription("Age of the exchange rate snapshot, -1 when nothing is loaded"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	return bm, nil
}

// BillIssued counts one issued bill
func (m *BillingMetrics) BillIssued(ctx context.Context, billType, currency string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.billsIssued.Inc(ctx, AttrBillType.String(billType), AttrCurrency.String(currency))
	m.issuanceDuration.RecordDuration(ctx, elapsed, AttrBillType.String(billType), AttrOutcome.String("issued"))
}

// IssuanceFailed counts one rejected or failed request. Duplicates are also
// counted in billing_duplicate_bills_total.
func (m *BillingMetrics) IssuanceFailed(ctx context.Context, billType, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.issuanceFailures.Inc(ctx, AttrBillType.String(billType), AttrErrorCode.String(code))
	m.issuanceDuration.RecordDuration(ctx, elapsed, AttrBillType.String(billType), AttrOutcome.String("failed"))
	if code == shared.CodeDuplicateBill {
		m.duplicates.Inc(ctx, AttrBillType.String(billType))
	}
}

// OverdueSwept adds the number of bills a sweep marked overdue
func (m *BillingMetrics) OverdueSwept(ctx context.Context, count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.overdueSwept.Add(ctx, count)
}

// MembershipWaived counts one waived membership bill
func (m *BillingMetrics) MembershipWaived(ctx context.Context) {
	if m == nil {
		return
	}
	m.membershipWaived.Inc(ctx)
}

// ObserveRateCacheAge reports age on every collection. Calling it again
// replaces the previous callback.
func (m *BillingMetrics) ObserveRateCacheAge(age func() time.Duration) error {
	if m == nil {
		return nil
	}
	if m.ageCallback != nil {
		if err := m.ageCallback.Unregister(); err != nil {
			return err
		}
	}
	reg, err := m.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		d := age()
		if d < 0 {
			o.ObserveFloat64(m.rateCacheAge, -1)
			return nil
		}
		o.ObserveFloat64(m.rateCacheAge, d.Seconds())
		return nil
	}, m.rateCacheAge)
	if err != nil {
		return err
	}
	m.ageCallback = reg
	return nil
}

// Close unregisters observable callbacks
func (m *BillingMetrics) Close() error {
	if m == nil || m.ageCallback == nil {
		return nil
	}
	err := m.ageCallback.Unregister()
	m.ageCallback = nil
	return err
}
