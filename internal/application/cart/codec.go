package cart

import (
	"encoding/json"
	"fmt"

	"github.com/storefront/backend/internal/domain/cart"
)

// encodeLines serializes the full line list. An empty cart is stored as [].
func encodeLines(lines []cart.Line) ([]byte, error) {
	if lines == nil {
		lines = []cart.Line{}
	}
	return json.Marshal(lines)
}

// decodeLines parses a stored payload back into a cart
func decodeLines(payload []byte) (*cart.Cart, error) {
	var lines []cart.Line
	if err := json.Unmarshal(payload, &lines); err != nil {
		return nil, fmt.Errorf("malformed cart payload: %w", err)
	}
	c, err := cart.Restore(lines)
	if err != nil {
		return nil, fmt.Errorf("invalid cart payload: %w", err)
	}
	return c, nil
}
