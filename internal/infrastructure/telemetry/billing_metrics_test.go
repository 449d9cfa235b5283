package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newTestBillingMetrics(t *testing.T) (*BillingMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	bm, err := NewBillingMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return bm, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumValue(t *testing.T, m metricdata.Metrics, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	want := attribute.NewSet(attrs...)
	for _, dp := range sum.DataPoints {
		if dp.Attributes.Equals(&want) {
			return dp.Value
		}
	}
	return 0
}

func TestNewBillingMetrics_RequiresMeter(t *testing.T) {
	_, err := NewBillingMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestBillingMetrics_Issuance(t *testing.T) {
	bm, reader := newTestBillingMetrics(t)
	ctx := context.Background()

	bm.BillIssued(ctx, "membership", "EUR", 20*time.Millisecond)
	bm.BillIssued(ctx, "membership", "EUR", 10*time.Millisecond)
	bm.IssuanceFailed(ctx, "yearly_fees", "DUPLICATE_BILL", time.Millisecond)
	bm.IssuanceFailed(ctx, "yearly_fees", "RATE_UNAVAILABLE", time.Millisecond)

	metrics := collect(t, reader)
	assert.Equal(t, int64(2), sumValue(t, metrics["billing_bills_issued_total"],
		AttrBillType.String("membership"), AttrCurrency.String("EUR")))
	assert.Equal(t, int64(1), sumValue(t, metrics["billing_duplicate_bills_total"],
		AttrBillType.String("yearly_fees")))
	assert.Equal(t, int64(1), sumValue(t, metrics["billing_issuance_failures_total"],
		AttrBillType.String("yearly_fees"), AttrErrorCode.String("RATE_UNAVAILABLE")))

	hist, ok := metrics["billing_issuance_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(4), count)
}

func TestBillingMetrics_SweepAndWaiver(t *testing.T) {
	bm, reader := newTestBillingMetrics(t)
	ctx := context.Background()

	bm.OverdueSwept(ctx, 3)
	bm.OverdueSwept(ctx, 0)
	bm.MembershipWaived(ctx)

	metrics := collect(t, reader)
	assert.Equal(t, int64(3), sumValue(t, metrics["billing_overdue_swept_total"]))
	assert.Equal(t, int64(1), sumValue(t, metrics["billing_membership_waived_total"]))
}

func TestBillingMetrics_RateCacheAge(t *testing.T) {
	bm, reader := newTestBillingMetrics(t)

	age := 90 * time.Second
	require.NoError(t, bm.ObserveRateCacheAge(func() time.Duration { return age }))

	gauge, ok := collect(t, reader)["billing_rate_cache_age_seconds"].Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, 90.0, gauge.DataPoints[0].Value)

	age = -1
	gauge = collect(t, reader)["billing_rate_cache_age_seconds"].Data.(metricdata.Gauge[float64])
	assert.Equal(t, -1.0, gauge.DataPoints[0].Value)

	require.NoError(t, bm.Close())
}

func TestBillingMetrics_NilIsNoop(t *testing.T) {
	var bm *BillingMetrics
	assert.NotPanics(t, func() {
		bm.BillIssued(context.Background(), "membership", "USD", 0)
		bm.IssuanceFailed(context.Background(), "membership", "DUPLICATE_BILL", 0)
		bm.OverdueSwept(context.Background(), 1)
		bm.MembershipWaived(context.Background())
		assert.NoError(t, bm.ObserveRateCacheAge(func() time.Duration { return 0 }))
		assert.NoError(t, bm.Close())
	})
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}
