package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// CategoryReader reads categories from the product data service
type CategoryReader interface {
	// FindAll returns every category ordered by name
	FindAll(ctx context.Context) ([]Category, error)

	// FindBySlug finds a category by its slug
	FindBySlug(ctx context.Context, slug string) (*Category, error)
}

// ProductReader reads products from the product data service.
// Every query returns active products only.
type ProductReader interface {
	// FindActive returns active products, optionally restricted to a category
	FindActive(ctx context.Context, categoryID *uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindFeatured returns active featured products
	FindFeatured(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindBySlug finds an active product by slug
	FindBySlug(ctx context.Context, slug string) (*Product, error)

	// FindByID finds an active product by id
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
}

// FlavorReader reads product flavors
type FlavorReader interface {
	// FindActiveByProduct returns the active flavors of a product ordered by name
	FindActiveByProduct(ctx context.Context, productID uuid.UUID) ([]ProductFlavor, error)
}
