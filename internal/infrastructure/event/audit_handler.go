package event

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AuditLogHandler writes every domain event to the log as JSON
type AuditLogHandler struct {
	serializer *EventSerializer
	logger     *zap.Logger
}

// NewAuditLogHandler creates an AuditLogHandler
func NewAuditLogHandler(serializer *EventSerializer, log *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{serializer: serializer, logger: log}
}

// EventTypes returns nil: the handler receives all events
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

// Handle logs the serialized event
func (h *AuditLogHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	payload, err := h.serializer.Serialize(evt)
	if err != nil {
		return err
	}
	logger.For(ctx, h.logger).Info("domain event",
		zap.String("event_type", evt.EventType()),
		zap.String("aggregate_type", evt.AggregateType()),
		zap.String("aggregate_id", evt.AggregateID().String()),
		zap.ByteString("payload", payload),
	)
	return nil
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)
