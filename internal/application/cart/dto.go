package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// AddItemRequest adds units of a product, optionally in a flavor
type AddItemRequest struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	FlavorID  *uuid.UUID `json:"flavor_id"`
	Quantity  int        `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest overwrites the quantity of a line. Zero or less removes it.
type UpdateItemRequest struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	FlavorID  *uuid.UUID `json:"flavor_id"`
	Quantity  int        `json:"quantity"`
}

// RemoveItemQuery identifies the line to remove
type RemoveItemQuery struct {
	ProductID string `form:"product_id" binding:"required,uuid"`
	FlavorID  string `form:"flavor_id" binding:"omitempty,uuid"`
}

// LineKey returns the parsed ids. Call it after binding has validated them.
func (q RemoveItemQuery) LineKey() (uuid.UUID, *uuid.UUID) {
	productID, _ := uuid.Parse(q.ProductID)
	if q.FlavorID == "" {
		return productID, nil
	}
	flavorID, _ := uuid.Parse(q.FlavorID)
	return productID, &flavorID
}

// DrawerRequest opens or closes the cart drawer
type DrawerRequest struct {
	Open *bool `json:"open" binding:"required"`
}

// LineResponse represents a cart line in API responses
type LineResponse struct {
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	ProductSlug    string          `json:"product_slug"`
	Brand          string          `json:"brand"`
	ImageURL       *string         `json:"image_url"`
	FlavorID       *uuid.UUID      `json:"flavor_id,omitempty"`
	FlavorName     *string         `json:"flavor_name,omitempty"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Total          decimal.Decimal `json:"total"`
	AvailableStock int             `json:"available_stock"`
}

// CartResponse represents a cart in API responses
type CartResponse struct {
	Items           []LineResponse  `json:"items"`
	TotalItems      int             `json:"total_items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	SubtotalDisplay string          `json:"subtotal_display"`
	IsOpen          bool            `json:"is_open"`
	StorageDegraded bool            `json:"storage_degraded"`
	DegradedReason  string          `json:"degraded_reason,omitempty"`
}

// ToLineResponse converts a domain cart line to LineResponse
func ToLineResponse(l cart.Line) LineResponse {
	resp := LineResponse{
		ProductID:      l.Product.ID,
		ProductName:    l.Product.Name,
		ProductSlug:    l.Product.Slug,
		Brand:          l.Product.Brand,
		ImageURL:       l.Product.ImageURL,
		Quantity:       l.Quantity,
		UnitPrice:      l.UnitPrice().Amount(),
		Total:          l.Total().Amount(),
		AvailableStock: l.AvailableStock(),
	}
	if l.Flavor != nil {
		id, name := l.Flavor.ID, l.Flavor.Name
		resp.FlavorID = &id
		resp.FlavorName = &name
	}
	return resp
}

// ToCartResponse converts a store view to CartResponse
func ToCartResponse(v View, money valueobject.MoneyFormatter) CartResponse {
	items := make([]LineResponse, len(v.Lines))
	subtotal := valueobject.Zero(valueobject.COP)
	for i, l := range v.Lines {
		items[i] = ToLineResponse(l)
		subtotal = subtotal.MustAdd(l.Total())
	}
	return CartResponse{
		Items:           items,
		TotalItems:      v.TotalItems,
		Subtotal:        subtotal.Amount(),
		SubtotalDisplay: money.Format(subtotal),
		IsOpen:          v.IsOpen,
		StorageDegraded: v.Degraded,
		DegradedReason:  string(v.DegradedReason),
	}
}
