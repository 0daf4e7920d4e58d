package event

import (
	"github.com/storefront/backend/internal/domain/order"
)

// RegisterAllEvents registers all domain event types with the serializer
func RegisterAllEvents(serializer *EventSerializer) {
	serializer.Register(order.EventTypeOrderPlaced, &order.OrderPlacedEvent{})
}
