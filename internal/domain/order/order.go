package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Status is the lifecycle status of an order
type Status string

// StatusPending is the status of every order created by checkout
const StatusPending Status = "pending"

// Line is the checkout-time snapshot of a cart line. It does not follow
// later catalog changes.
type Line struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Flavor      *string         `json:"flavor,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// Record is the structured order produced by the formatter, before it
// has an identity.
type Record struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   *string
	ShippingAddress string
	Notes           *string
	Items           []Line
	Subtotal        decimal.Decimal
	Total           decimal.Decimal
}

// Order is a placed order. Totals are fixed at creation.
type Order struct {
	shared.BaseAggregateRoot
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   *string
	ShippingAddress string
	Notes           *string
	Items           []Line
	Subtotal        decimal.Decimal
	Total           decimal.Decimal
	Status          Status
}

// NewOrder creates a pending order from a formatted record
func NewOrder(rec Record) (*Order, error) {
	if len(rec.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}
	sum := decimal.Zero
	for _, it := range rec.Items {
		sum = sum.Add(it.Total)
	}
	if !sum.Equal(rec.Subtotal) || !rec.Total.Equal(rec.Subtotal) {
		return nil, shared.NewDomainError("INVALID_TOTAL", "Order total must equal the sum of its lines")
	}

	items := make([]Line, len(rec.Items))
	copy(items, rec.Items)

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerName:      rec.CustomerName,
		CustomerEmail:     rec.CustomerEmail,
		CustomerPhone:     rec.CustomerPhone,
		ShippingAddress:   rec.ShippingAddress,
		Notes:             rec.Notes,
		Items:             items,
		Subtotal:          rec.Subtotal,
		Total:             rec.Total,
		Status:            StatusPending,
	}
	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

// ItemCount returns the number of units across all lines
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// MarkPersisted flags pending OrderPlaced events as describing a stored order
func (o *Order) MarkPersisted() {
	for _, evt := range o.GetDomainEvents() {
		if placed, ok := evt.(*OrderPlacedEvent); ok {
			placed.Persisted = true
		}
	}
}
