package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCategoryRepository implements catalog.CategoryReader using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindAll returns every category ordered by name
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	categories := make([]catalog.Category, len(rows))
	for i := range rows {
		categories[i] = *rows[i].ToDomain()
	}
	return categories, nil
}

// FindBySlug finds a category by its slug
func (r *GormCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	var row models.CategoryModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// GormProductRepository implements catalog.ProductReader using GORM.
// Every query is restricted to active products and preloads the category.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Category").Where("is_active = ?", true)
}

// FindActive returns active products, optionally restricted to a category
func (r *GormProductRepository) FindActive(ctx context.Context, categoryID *uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	query := r.active(ctx)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	return r.find(r.applyFilter(query, filter))
}

// FindFeatured returns active featured products
func (r *GormProductRepository) FindFeatured(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	query := r.active(ctx).Where("is_featured = ?", true)
	return r.find(r.applyFilter(query, filter))
}

// FindBySlug finds an active product by slug
func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	return r.first(r.active(ctx).Where("slug = ?", slug))
}

// FindByID finds an active product by id
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.first(r.active(ctx).Where("id = ?", id))
}

func (r *GormProductRepository) first(query *gorm.DB) (*catalog.Product, error) {
	var row models.ProductModel
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

func (r *GormProductRepository) find(query *gorm.DB) ([]catalog.Product, error) {
	var rows []models.ProductModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// applyFilter applies ordering and limit to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	return query
}

// GormFlavorRepository implements catalog.FlavorReader using GORM
type GormFlavorRepository struct {
	db *gorm.DB
}

// NewGormFlavorRepository creates a new GormFlavorRepository
func NewGormFlavorRepository(db *gorm.DB) *GormFlavorRepository {
	return &GormFlavorRepository{db: db}
}

// FindActiveByProduct returns the active flavors of a product ordered by name
func (r *GormFlavorRepository) FindActiveByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductFlavor, error) {
	var rows []models.ProductFlavorModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND is_active = ?", productID, true).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	flavors := make([]catalog.ProductFlavor, len(rows))
	for i := range rows {
		flavors[i] = *rows[i].ToDomain()
	}
	return flavors, nil
}

// Compile-time interface checks
var (
	_ catalog.CategoryReader = (*GormCategoryRepository)(nil)
	_ catalog.ProductReader  = (*GormProductRepository)(nil)
	_ catalog.FlavorReader   = (*GormFlavorRepository)(nil)
)
