package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// LowStockThreshold is the stock level at or below which a product is
// shown as running out.
const LowStockThreshold = 5

// StockStatus is the display state derived from a stock count
type StockStatus string

const (
	StockStatusOut StockStatus = "out_of_stock"
	StockStatusLow StockStatus = "low_stock"
	StockStatusIn  StockStatus = "in_stock"
)

// StockStatusFor maps a stock count to its display state
func StockStatusFor(stock int) StockStatus {
	switch {
	case stock <= 0:
		return StockStatusOut
	case stock <= LowStockThreshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// Product is a sellable item of the catalog
type Product struct {
	shared.BaseEntity
	CategoryID      uuid.UUID
	Name            string
	Slug            string
	Brand           string
	Description     *string
	Price           decimal.Decimal
	DiscountedPrice *decimal.Decimal
	ImageURL        *string
	Stock           int
	IsFeatured      bool
	IsActive        bool
	HasFlavors      bool
	Category        *Category
}

// NewProduct creates an active product with a base price
func NewProduct(categoryID uuid.UUID, name, slug, brand string, price decimal.Decimal, stock int) (*Product, error) {
	if err := validateName("product", name); err != nil {
		return nil, err
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	if !price.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price must be positive")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		CategoryID: categoryID,
		Name:       strings.TrimSpace(name),
		Slug:       slug,
		Brand:      strings.TrimSpace(brand),
		Price:      price,
		Stock:      stock,
		IsActive:   true,
	}, nil
}

// SetDiscountedPrice sets or clears the discounted price
func (p *Product) SetDiscountedPrice(price *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Discounted price cannot be negative")
	}
	p.DiscountedPrice = price
	return nil
}

// EffectiveUnitPrice is the price charged per unit: the discounted price
// when one is set, the base price otherwise.
func (p *Product) EffectiveUnitPrice() decimal.Decimal {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.Price
}

// EffectiveUnitMoney returns EffectiveUnitPrice as COP money
func (p *Product) EffectiveUnitMoney() valueobject.Money {
	return valueobject.NewMoneyCOP(p.EffectiveUnitPrice())
}

// HasDiscount reports whether the discounted price is strictly below the
// base price. Any other discounted price is shown as no discount.
func (p *Product) HasDiscount() bool {
	return p.DiscountedPrice != nil && p.DiscountedPrice.LessThan(p.Price)
}

// DiscountPercent returns the rounded discount percentage, or 0
func (p *Product) DiscountPercent() int {
	if !p.HasDiscount() {
		return 0
	}
	pct := p.Price.Sub(*p.DiscountedPrice).Div(p.Price).Mul(decimal.NewFromInt(100)).Round(0)
	return int(pct.IntPart())
}

// StockStatus returns the display state of the product's own stock
func (p *Product) StockStatus() StockStatus {
	return StockStatusFor(p.Stock)
}

// RequiresFlavor reports whether a flavor must be chosen before the
// product can go into the cart. A product flagged with flavors but
// without any active flavor does not require one.
func (p *Product) RequiresFlavor(activeFlavors []ProductFlavor) bool {
	return p.HasFlavors && len(activeFlavors) > 0
}
