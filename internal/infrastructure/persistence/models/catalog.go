package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	BaseModel
	Name        string  `gorm:"type:varchar(200);not null"`
	Slug        string  `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description *string `gorm:"type:text"`
	ImageURL    *string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		ImageURL:    m.ImageURL,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Slug = c.Slug
	m.Description = c.Description
	m.ImageURL = c.ImageURL
}

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	CategoryID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	Name            string           `gorm:"type:varchar(200);not null"`
	Slug            string           `gorm:"type:varchar(200);not null;uniqueIndex"`
	Brand           string           `gorm:"type:varchar(100);not null"`
	Description     *string          `gorm:"type:text"`
	Price           decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	DiscountedPrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ImageURL        *string          `gorm:"type:text"`
	Stock           int              `gorm:"not null;default:0"`
	IsFeatured      bool             `gorm:"not null;default:false"`
	IsActive        bool             `gorm:"not null;index"`
	HasFlavors      bool             `gorm:"not null;default:false"`
	Category        *CategoryModel   `gorm:"foreignKey:CategoryID"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		BaseEntity:      m.BaseModel.ToDomain(),
		CategoryID:      m.CategoryID,
		Name:            m.Name,
		Slug:            m.Slug,
		Brand:           m.Brand,
		Description:     m.Description,
		Price:           m.Price,
		DiscountedPrice: m.DiscountedPrice,
		ImageURL:        m.ImageURL,
		Stock:           m.Stock,
		IsFeatured:      m.IsFeatured,
		IsActive:        m.IsActive,
		HasFlavors:      m.HasFlavors,
	}
	if m.Category != nil {
		p.Category = m.Category.ToDomain()
	}
	return p
}

// FromDomain populates the persistence model from a domain Product entity.
// The category association is not written.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.CategoryID = p.CategoryID
	m.Name = p.Name
	m.Slug = p.Slug
	m.Brand = p.Brand
	m.Description = p.Description
	m.Price = p.Price
	m.DiscountedPrice = p.DiscountedPrice
	m.ImageURL = p.ImageURL
	m.Stock = p.Stock
	m.IsFeatured = p.IsFeatured
	m.IsActive = p.IsActive
	m.HasFlavors = p.HasFlavors
}

// ProductFlavorModel is the persistence model for the ProductFlavor entity.
type ProductFlavorModel struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Stock     int       `gorm:"not null;default:0"`
	IsActive  bool      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductFlavorModel) TableName() string {
	return "product_flavors"
}

// ToDomain converts the persistence model to a domain ProductFlavor entity.
func (m *ProductFlavorModel) ToDomain() *catalog.ProductFlavor {
	return &catalog.ProductFlavor{
		BaseEntity: m.BaseModel.ToDomain(),
		ProductID:  m.ProductID,
		Name:       m.Name,
		Stock:      m.Stock,
		IsActive:   m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain ProductFlavor entity.
func (m *ProductFlavorModel) FromDomain(f *catalog.ProductFlavor) {
	m.FromDomainBaseEntity(f.BaseEntity)
	m.ProductID = f.ProductID
	m.Name = f.Name
	m.Stock = f.Stock
	m.IsActive = f.IsActive
}
