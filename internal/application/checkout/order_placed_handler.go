package checkout

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// OrderPlacedHandler records placed orders in metrics and the log
type OrderPlacedHandler struct {
	metrics Metrics
	logger  *zap.Logger
}

// NewOrderPlacedHandler creates a new OrderPlacedHandler
func NewOrderPlacedHandler(metrics Metrics, log *zap.Logger) *OrderPlacedHandler {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderPlacedHandler{metrics: metrics, logger: log}
}

// EventTypes implements shared.EventHandler
func (h *OrderPlacedHandler) EventTypes() []string {
	return []string{order.EventTypeOrderPlaced}
}

// Handle implements shared.EventHandler
func (h *OrderPlacedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	placed, ok := event.(*order.OrderPlacedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	h.metrics.RecordOrderPlaced(ctx, placed.Total, placed.ItemCount)
	logger.For(ctx, h.logger).Info("order placed",
		zap.String("order_id", placed.OrderID.String()),
		zap.Int("lines", placed.LineCount),
		zap.Int("items", placed.ItemCount),
		zap.String("total", placed.Total.String()),
		zap.Bool("persisted", placed.Persisted),
	)
	return nil
}

var _ shared.EventHandler = (*OrderPlacedHandler)(nil)
