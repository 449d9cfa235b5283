package event

import (
	"context"

	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AuditHandler records every published event with its JSON payload
type AuditHandler struct {
	encoder *PayloadEncoder
	logger     *zap.Logger
}

// NewAuditHandler creates an audit handler. It subscribes as a wildcard.
func NewAuditHandler(encoder *PayloadEncoder, log *zap.Logger) *AuditHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditHandler{encoder: encoder, logger: log}
}

// EventTypes returns nil so the handler receives all events
func (h *AuditHandler) EventTypes() []string {
	return nil
}

// Handle logs the event. Types unknown to the encoder are logged without payload.
func (h *AuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
	}
	if h.encoder.Knows(event.EventType()) {
		payload, err := h.encoder.Encode(event)
		if err != nil {
			return err
		}
		fields = append(fields, zap.ByteString("payload", payload))
	}
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	h.logger.Info("Domain event published", fields...)
	return nil
}

var _ shared.EventHandler = (*AuditHandler)(nil)
