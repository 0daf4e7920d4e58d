package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores placed orders. Orders are insert-only from checkout.
type Repository interface {
	// Create inserts a new order
	Create(ctx context.Context, o *Order) error

	// FindByID finds an order by id
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
}
