package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductFlavor is a variant of a product with its own stock
type ProductFlavor struct {
	shared.BaseEntity
	ProductID uuid.UUID
	Name      string
	Stock     int
	IsActive  bool
}

// NewProductFlavor creates an active flavor for a product
func NewProductFlavor(productID uuid.UUID, name string, stock int) (*ProductFlavor, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Flavor must belong to a product")
	}
	if err := validateName("flavor", name); err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	return &ProductFlavor{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Name:       strings.TrimSpace(name),
		Stock:      stock,
		IsActive:   true,
	}, nil
}

// StockStatus returns the display state of the flavor's stock
func (f *ProductFlavor) StockStatus() StockStatus {
	return StockStatusFor(f.Stock)
}

// FindFlavor returns the flavor with the given id, or nil
func FindFlavor(flavors []ProductFlavor, id uuid.UUID) *ProductFlavor {
	for i := range flavors {
		if flavors[i].ID == id {
			return &flavors[i]
		}
	}
	return nil
}
