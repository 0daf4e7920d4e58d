package cart

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ErrInvalidQuantity is returned when a line would be added with a quantity below one
var ErrInvalidQuantity = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")

// Cart is an insertion-ordered collection of lines, unique by LineKey.
// Totals are computed from the lines on every read.
type Cart struct {
	lines []Line
}

// New creates an empty cart
func New() *Cart {
	return &Cart{lines: make([]Line, 0)}
}

// Restore rebuilds a cart from persisted lines. Lines must be unique by key
// and carry a positive quantity.
func Restore(lines []Line) (*Cart, error) {
	c := New()
	seen := make(map[LineKey]struct{}, len(lines))
	for _, l := range lines {
		if l.Product.ID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_CART_LINE", "Cart line has no product")
		}
		if l.Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_CART_LINE", "Cart line quantity must be at least 1")
		}
		if _, dup := seen[l.Key()]; dup {
			return nil, shared.NewDomainError("INVALID_CART_LINE", "Cart contains duplicate lines")
		}
		seen[l.Key()] = struct{}{}
		c.lines = append(c.lines, l)
	}
	return c, nil
}

func (c *Cart) indexOf(key LineKey) int {
	for i := range c.lines {
		if c.lines[i].Key() == key {
			return i
		}
	}
	return -1
}

// AddToCart increases the quantity of the matching line, or appends a new one
func (c *Cart) AddToCart(product ProductSnapshot, quantity int, flavor *FlavorSnapshot) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	line := Line{Product: product, Flavor: flavor, Quantity: quantity}
	if i := c.indexOf(line.Key()); i >= 0 {
		c.lines[i].Quantity += quantity
		return nil
	}
	c.lines = append(c.lines, line)
	return nil
}

// RemoveFromCart deletes the matching line. Absent keys are ignored.
func (c *Cart) RemoveFromCart(productID uuid.UUID, flavorID *uuid.UUID) {
	i := c.indexOf(NewLineKey(productID, flavorID))
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// UpdateQuantity overwrites the quantity of the matching line.
// A quantity of zero or less removes the line.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int, flavorID *uuid.UUID) {
	if quantity <= 0 {
		c.RemoveFromCart(productID, flavorID)
		return
	}
	if i := c.indexOf(NewLineKey(productID, flavorID)); i >= 0 {
		c.lines[i].Quantity = quantity
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.lines = make([]Line, 0)
}

// Lines returns a copy of the lines in insertion order
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line with the given key
func (c *Cart) Line(key LineKey) (Line, bool) {
	if i := c.indexOf(key); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

// Len returns the number of distinct lines
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// TotalItems is the sum of line quantities
func (c *Cart) TotalItems() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// Subtotal is the sum of quantity times effective unit price over all lines
func (c *Cart) Subtotal() valueobject.Money {
	sum := valueobject.Zero(valueobject.COP)
	for _, l := range c.lines {
		sum = sum.MustAdd(l.Total())
	}
	return sum
}
