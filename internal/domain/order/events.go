package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// AggregateTypeOrder is the aggregate type of order events
const AggregateTypeOrder = "Order"

// EventTypeOrderPlaced is raised when checkout completes
const EventTypeOrderPlaced = "OrderPlaced"

// OrderPlacedEvent is raised when a checkout attempt completes
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	CustomerEmail string          `json:"customer_email"`
	LineCount     int             `json:"line_count"`
	ItemCount     int             `json:"item_count"`
	Total         decimal.Decimal `json:"total"`
	Persisted     bool            `json:"persisted"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		CustomerEmail:   o.CustomerEmail,
		LineCount:       len(o.Items),
		ItemCount:       o.ItemCount(),
		Total:           o.Total,
	}
}

// EventType returns the event type name
func (e *OrderPlacedEvent) EventType() string {
	return EventTypeOrderPlaced
}
