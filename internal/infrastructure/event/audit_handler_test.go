package event

import (
	"context"
	"testing"

	"github.com/fundbilling/backend/internal/domain/billing"
	"github.com/fundbilling/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuditHandler_LogsPayload(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	encoder := NewPayloadEncoder()
	RegisterAllEvents(encoder)
	handler := NewAuditHandler(encoder, zap.New(core))

	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(handler)

	ctx := context.WithValue(context.Background(), logger.RequestIDKey, "req-42")
	event := billing.NewBillIssuedEvent(newIssuedBill(t))
	require.NoError(t, bus.Publish(ctx, event))

	entries := logs.FilterMessage("Domain event published").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, billing.EventTypeBillIssued, fields["event_type"])
	assert.Equal(t, "Bill", fields["aggregate_type"])
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Contains(t, fields["payload"], `"bill_id":"`+event.BillID.String()+`"`)
}

func TestAuditHandler_UnregisteredEventHasNoPayload(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := NewAuditHandler(NewPayloadEncoder(), zap.New(core))

	require.NoError(t, handler.Handle(context.Background(), newInvestmentRecorded(t, 1)))

	entries := logs.All()
	require.Len(t, entries, 1)
	_, hasPayload := entries[0].ContextMap()["payload"]
	assert.False(t, hasPayload)
}
