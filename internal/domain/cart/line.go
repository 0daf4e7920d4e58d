package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ProductSnapshot is the copy of a product kept inside a cart line.
// It carries what the cart needs to price and render the line.
type ProductSnapshot struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Slug            string           `json:"slug"`
	Brand           string           `json:"brand"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price"`
	ImageURL        *string          `json:"image_url"`
	Stock           int              `json:"stock"`
	HasFlavors      bool             `json:"has_flavors"`
}

// FlavorSnapshot is the copy of a flavor kept inside a cart line
type FlavorSnapshot struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Stock int       `json:"stock"`
}

// SnapshotProduct copies the cart-relevant fields of a catalog product
func SnapshotProduct(p *catalog.Product) ProductSnapshot {
	return ProductSnapshot{
		ID:              p.ID,
		Name:            p.Name,
		Slug:            p.Slug,
		Brand:           p.Brand,
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice,
		ImageURL:        p.ImageURL,
		Stock:           p.Stock,
		HasFlavors:      p.HasFlavors,
	}
}

// SnapshotFlavor copies a catalog flavor; nil stays nil
func SnapshotFlavor(f *catalog.ProductFlavor) *FlavorSnapshot {
	if f == nil {
		return nil
	}
	return &FlavorSnapshot{ID: f.ID, Name: f.Name, Stock: f.Stock}
}

// EffectiveUnitPrice is the discounted price when present, else the base price
func (p ProductSnapshot) EffectiveUnitPrice() decimal.Decimal {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.Price
}

// LineKey identifies a cart line. FlavorID is uuid.Nil for lines without flavor.
type LineKey struct {
	ProductID uuid.UUID
	FlavorID  uuid.UUID
}

// NewLineKey builds a key from a product id and an optional flavor id
func NewLineKey(productID uuid.UUID, flavorID *uuid.UUID) LineKey {
	k := LineKey{ProductID: productID}
	if flavorID != nil {
		k.FlavorID = *flavorID
	}
	return k
}

// Line is one (product, optional flavor, quantity) entry of a cart
type Line struct {
	Product  ProductSnapshot `json:"product"`
	Flavor   *FlavorSnapshot `json:"flavor,omitempty"`
	Quantity int             `json:"quantity"`
}

// Key returns the identity of the line
func (l Line) Key() LineKey {
	k := LineKey{ProductID: l.Product.ID}
	if l.Flavor != nil {
		k.FlavorID = l.Flavor.ID
	}
	return k
}

// UnitPrice returns the effective unit price as money
func (l Line) UnitPrice() valueobject.Money {
	return valueobject.NewMoneyCOP(l.Product.EffectiveUnitPrice())
}

// Total returns quantity times the effective unit price
func (l Line) Total() valueobject.Money {
	return l.UnitPrice().MultiplyByInt(int64(l.Quantity))
}

// FlavorName returns the flavor name, or "" when the line has none
func (l Line) FlavorName() string {
	if l.Flavor == nil {
		return ""
	}
	return l.Flavor.Name
}

// AvailableStock is the stock that gates the line's quantity: the
// flavor's own stock when a flavor is chosen, the product's otherwise.
func (l Line) AvailableStock() int {
	if l.Flavor != nil {
		return l.Flavor.Stock
	}
	return l.Product.Stock
}
