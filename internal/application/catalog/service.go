// Package catalog serves read-only catalog queries to the storefront.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultFeaturedLimit bounds the featured listing when no limit is configured
const DefaultFeaturedLimit = 8

// Config holds catalog service settings
type Config struct {
	FeaturedLimit int
	QueryTimeout  time.Duration
}

// Service answers catalog queries. Failures of the product data service
// surface as DATA_FETCH_ERROR; missing records as NOT_FOUND.
type Service struct {
	categories catalog.CategoryReader
	products   catalog.ProductReader
	flavors    catalog.FlavorReader
	cfg        Config
	logger     *zap.Logger
}

// NewService creates a new catalog Service
func NewService(
	categories catalog.CategoryReader,
	products catalog.ProductReader,
	flavors catalog.FlavorReader,
	cfg Config,
	log *zap.Logger,
) *Service {
	if cfg.FeaturedLimit <= 0 {
		cfg.FeaturedLimit = DefaultFeaturedLimit
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		categories: categories,
		products:   products,
		flavors:    flavors,
		cfg:        cfg,
		logger:     log,
	}
}

// ListCategories returns all categories ordered by name
func (s *Service) ListCategories(ctx context.Context) (categories []CategoryResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "CatalogService", "ListCategories")
	defer func() { telemetry.EndSpan(span, err) }()
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	found, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, s.fetchError(ctx, "categories", err)
	}
	return ToCategoryResponses(found), nil
}

// ListProducts returns active products, newest first. A non-empty slug
// that resolves to a category restricts the listing; an unknown slug
// lists everything.
func (s *Service) ListProducts(ctx context.Context, categorySlug string) (products []ProductResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "CatalogService", "ListProducts",
		attribute.String("category.slug", categorySlug))
	defer func() { telemetry.EndSpan(span, err) }()
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var categoryID *uuid.UUID
	if categorySlug != "" {
		category, err := s.categories.FindBySlug(ctx, categorySlug)
		switch {
		case err == nil:
			categoryID = &category.ID
		case errors.Is(err, shared.ErrNotFound):
			logger.For(ctx, s.logger).Debug("unknown category slug, listing all products",
				zap.String("category_slug", categorySlug))
		default:
			return nil, s.fetchError(ctx, "category", err)
		}
	}

	found, err := s.products.FindActive(ctx, categoryID, shared.DefaultFilter())
	if err != nil {
		return nil, s.fetchError(ctx, "products", err)
	}
	return ToProductResponses(found), nil
}

// ListFeatured returns active featured products, newest first. limit is
// capped at the configured featured limit; zero or less uses it.
func (s *Service) ListFeatured(ctx context.Context, limit int) (products []ProductResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "CatalogService", "ListFeatured")
	defer func() { telemetry.EndSpan(span, err) }()
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if limit <= 0 || limit > s.cfg.FeaturedLimit {
		limit = s.cfg.FeaturedLimit
	}
	found, err := s.products.FindFeatured(ctx, shared.DefaultFilter().WithLimit(limit))
	if err != nil {
		return nil, s.fetchError(ctx, "featured products", err)
	}
	return ToProductResponses(found), nil
}

// GetProductDetail looks up one active product by slug and returns its
// page: the product with category, its active flavors and whether a
// flavor must be chosen.
func (s *Service) GetProductDetail(ctx context.Context, slug string) (detail *ProductDetailResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "CatalogService", "GetProductDetail",
		attribute.String("product.slug", slug))
	defer func() { telemetry.EndSpan(span, err) }()

	p, err := s.productBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	flavors, err := s.ActiveFlavors(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &ProductDetailResponse{
		ProductResponse: ToProductResponse(p),
		Flavors:         ToFlavorResponses(flavors),
		RequiresFlavor:  p.RequiresFlavor(flavors),
	}, nil
}

// ListFlavors returns the active flavors of the product with the given slug
func (s *Service) ListFlavors(ctx context.Context, slug string) ([]FlavorResponse, error) {
	p, err := s.productBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	flavors, err := s.ActiveFlavors(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return ToFlavorResponses(flavors), nil
}

// GetProductByID returns an active product as a domain entity
func (s *Service) GetProductByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, s.fetchError(ctx, "product", err)
	}
	return p, nil
}

// ActiveFlavors returns the active flavors of a product ordered by name
func (s *Service) ActiveFlavors(ctx context.Context, productID uuid.UUID) ([]catalog.ProductFlavor, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	flavors, err := s.flavors.FindActiveByProduct(ctx, productID)
	if err != nil {
		return nil, s.fetchError(ctx, "flavors", err)
	}
	return flavors, nil
}

func (s *Service) productBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, s.fetchError(ctx, "product", err)
	}
	return p, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.QueryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.cfg.QueryTimeout)
}

func (s *Service) fetchError(ctx context.Context, what string, err error) error {
	logger.For(ctx, s.logger).Error("catalog query failed",
		zap.String("resource", what),
		zap.Error(err),
	)
	return shared.WrapDomainError(shared.ErrDataFetch.Code, "Could not load "+what, err)
}
