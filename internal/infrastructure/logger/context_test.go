package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func contextWithSpan() context.Context {
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x0a, 0x0b, 0x0c, 0x01},
		SpanID:     trace.SpanID{0x01, 0x02},
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), spanCtx)
}

func fieldMap(entry observer.LoggedEntry) map[string]string {
	fields := make(map[string]string)
	for _, f := range entry.Context {
		fields[f.Key] = f.String
	}
	return fields
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	log := zap.NewExample()
	ctx := WithContext(context.Background(), log)
	assert.Same(t, log, FromContext(ctx))

	ctx = context.WithValue(context.Background(), LoggerKey, "not a logger")
	assert.NotNil(t, FromContext(ctx))
}

func TestWithRequestIDAndInvestorID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx, _ := WithRequestID(context.Background(), zap.New(core), "req-1")
	ctx, enriched := WithInvestorID(ctx, FromContext(ctx), "inv-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "inv-1", GetInvestorID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
	assert.Empty(t, GetInvestorID(context.Background()))

	enriched.Info("hello")
	fields := fieldMap(recorded.All()[0])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "inv-1", fields["investor_id"])
}

func TestGetTraceID(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
	assert.Equal(t, "0a0b0c01000000000000000000000000", GetTraceID(contextWithSpan()))
}

func TestContextLogger(t *testing.T) {
	t.Run("enriches entries with trace and investor fields", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		ctx := WithContext(contextWithSpan(), zap.New(core))
		ctx = context.WithValue(ctx, InvestorIDKey, "inv-9")

		L(ctx).With(zap.String("bill_type", "membership")).Warn("duplicate bill")

		require.Len(t, recorded.All(), 1)
		entry := recorded.All()[0]
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
		fields := fieldMap(entry)
		assert.Equal(t, "0a0b0c01000000000000000000000000", fields["trace_id"])
		assert.Equal(t, "inv-9", fields["investor_id"])
		assert.Equal(t, "membership", fields["bill_type"])
	})

	t.Run("falls back to the provided logger", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		WithLogger(context.Background(), zap.New(core)).Info("fallback")
		assert.Len(t, recorded.All(), 1)
	})

	t.Run("context logger wins over the fallback", func(t *testing.T) {
		ctxCore, ctxRecorded := observer.New(zapcore.InfoLevel)
		fallbackCore, fallbackRecorded := observer.New(zapcore.InfoLevel)
		ctx := WithContext(context.Background(), zap.New(ctxCore))

		WithLogger(ctx, zap.New(fallbackCore)).Error("boom")
		assert.Len(t, ctxRecorded.All(), 1)
		assert.Empty(t, fallbackRecorded.All())
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		cl := &ContextLogger{ctx: context.Background()}
		assert.NotPanics(t, func() {
			cl.Debug("debug")
			cl.With(zap.Int("n", 1)).Info("info")
			_ = cl.Zap()
		})
	})
}
