package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductResponse represents a product card in API responses.
// Display fields are derived from the prices and stock.
type ProductResponse struct {
	ID              uuid.UUID         `json:"id"`
	CategoryID      uuid.UUID         `json:"category_id"`
	Name            string            `json:"name"`
	Slug            string            `json:"slug"`
	Brand           string            `json:"brand"`
	Description     *string           `json:"description"`
	Price           decimal.Decimal   `json:"price"`
	DiscountedPrice *decimal.Decimal  `json:"discounted_price"`
	EffectivePrice  decimal.Decimal   `json:"effective_price"`
	HasDiscount     bool              `json:"has_discount"`
	DiscountPercent int               `json:"discount_percent"`
	ImageURL        *string           `json:"image_url"`
	Stock           int               `json:"stock"`
	StockStatus     string            `json:"stock_status"`
	IsFeatured      bool              `json:"is_featured"`
	HasFlavors      bool              `json:"has_flavors"`
	Category        *CategoryResponse `json:"category,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// FlavorResponse represents a product flavor in API responses
type FlavorResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	Name        string    `json:"name"`
	Stock       int       `json:"stock"`
	StockStatus string    `json:"stock_status"`
}

// ProductDetailResponse is a product page: the product, its active
// flavors and whether one must be picked.
type ProductDetailResponse struct {
	ProductResponse
	Flavors        []FlavorResponse `json:"flavors"`
	RequiresFlavor bool             `json:"requires_flavor"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of domain Categories
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	resp := ProductResponse{
		ID:              p.ID,
		CategoryID:      p.CategoryID,
		Name:            p.Name,
		Slug:            p.Slug,
		Brand:           p.Brand,
		Description:     p.Description,
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice,
		EffectivePrice:  p.EffectiveUnitPrice(),
		HasDiscount:     p.HasDiscount(),
		DiscountPercent: p.DiscountPercent(),
		ImageURL:        p.ImageURL,
		Stock:           p.Stock,
		StockStatus:     string(p.StockStatus()),
		IsFeatured:      p.IsFeatured,
		HasFlavors:      p.HasFlavors,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.Category != nil {
		c := ToCategoryResponse(p.Category)
		resp.Category = &c
	}
	return resp
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToFlavorResponse converts a domain ProductFlavor to FlavorResponse
func ToFlavorResponse(f *catalog.ProductFlavor) FlavorResponse {
	return FlavorResponse{
		ID:          f.ID,
		ProductID:   f.ProductID,
		Name:        f.Name,
		Stock:       f.Stock,
		StockStatus: string(f.StockStatus()),
	}
}

// ToFlavorResponses converts a slice of domain ProductFlavors
func ToFlavorResponses(flavors []catalog.ProductFlavor) []FlavorResponse {
	responses := make([]FlavorResponse, len(flavors))
	for i := range flavors {
		responses[i] = ToFlavorResponse(&flavors[i])
	}
	return responses
}
