// Package cart manages the per-session shopping cart.
package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Cart service errors
var (
	ErrFlavorRequired = shared.NewDomainError("FLAVOR_REQUIRED", "Selecciona un sabor")
	ErrFlavorNotFound = shared.NewDomainError("NOT_FOUND", "Flavor not found")
)

// ProductResolver looks up the catalog data an add-to-cart request needs
type ProductResolver interface {
	GetProductByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
	ActiveFlavors(ctx context.Context, productID uuid.UUID) ([]catalog.ProductFlavor, error)
}

// Service applies cart operations to the session's store
type Service struct {
	registry *Registry
	products ProductResolver
	money    valueobject.MoneyFormatter
	logger   *zap.Logger
}

// NewService creates a new cart Service
func NewService(registry *Registry, products ProductResolver, money valueobject.MoneyFormatter, log *zap.Logger) *Service {
	if money == nil {
		money = valueobject.NewCOPFormatter()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{registry: registry, products: products, money: money, logger: log}
}

// Get returns the session's cart
func (s *Service) Get(ctx context.Context, sessionID string) *CartResponse {
	return s.respond(ctx, s.registry.Store(sessionID))
}

// Add puts units of an active product into the cart. The product's
// flavor must be chosen when it has active flavors, and the resulting
// line may not exceed the available stock.
func (s *Service) Add(ctx context.Context, sessionID string, req AddItemRequest) (resp *CartResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "CartService", "Add",
		attribute.String("product.id", req.ProductID.String()),
		attribute.Int("quantity", req.Quantity))
	defer func() { telemetry.EndSpan(span, err) }()

	if req.Quantity < 1 {
		return nil, cart.ErrInvalidQuantity
	}

	product, err := s.products.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	flavors, err := s.products.ActiveFlavors(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	flavor, err := s.resolveFlavor(ctx, product, flavors, req.FlavorID)
	if err != nil {
		return nil, err
	}

	store := s.registry.Store(sessionID)
	snapshot := cart.SnapshotProduct(product)
	flavorSnapshot := cart.SnapshotFlavor(flavor)
	available := product.Stock
	if flavor != nil {
		available = flavor.Stock
	}

	err = store.Add(ctx, snapshot, req.Quantity, flavorSnapshot, available)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, store), nil
}

// UpdateQuantity overwrites a line's quantity; zero or less removes the
// line. Increases are bounded by the stock captured when the line was added.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, req UpdateItemRequest) (*CartResponse, error) {
	store := s.registry.Store(sessionID)
	err := store.Update(ctx, "update_quantity", func(c *cart.Cart) error {
		if line, ok := c.Line(cart.NewLineKey(req.ProductID, req.FlavorID)); ok {
			if req.Quantity > line.Quantity && req.Quantity > line.AvailableStock() {
				return insufficientStock(line.AvailableStock(), line.Quantity)
			}
		}
		c.UpdateQuantity(req.ProductID, req.Quantity, req.FlavorID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, store), nil
}

// Remove deletes a line. Absent lines are ignored.
func (s *Service) Remove(ctx context.Context, sessionID string, productID uuid.UUID, flavorID *uuid.UUID) *CartResponse {
	store := s.registry.Store(sessionID)
	_ = store.Update(ctx, "remove", func(c *cart.Cart) error {
		c.RemoveFromCart(productID, flavorID)
		return nil
	})
	return s.respond(ctx, store)
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, sessionID string) *CartResponse {
	store := s.registry.Store(sessionID)
	_ = store.Clear(ctx)
	return s.respond(ctx, store)
}

// SetDrawer opens or closes the cart drawer
func (s *Service) SetDrawer(ctx context.Context, sessionID string, open bool) *CartResponse {
	store := s.registry.Store(sessionID)
	store.SetOpen(open)
	return s.respond(ctx, store)
}

func (s *Service) resolveFlavor(ctx context.Context, product *catalog.Product, flavors []catalog.ProductFlavor, flavorID *uuid.UUID) (*catalog.ProductFlavor, error) {
	if flavorID != nil {
		flavor := catalog.FindFlavor(flavors, *flavorID)
		if flavor == nil {
			return nil, ErrFlavorNotFound
		}
		return flavor, nil
	}
	if product.RequiresFlavor(flavors) {
		return nil, ErrFlavorRequired
	}
	if product.HasFlavors {
		logger.For(ctx, s.logger).Warn("product has flavors enabled but none active, adding without flavor",
			zap.String("product_id", product.ID.String()),
			zap.String("product_slug", product.Slug),
		)
	}
	return nil, nil
}

func (s *Service) respond(ctx context.Context, store *Store) *CartResponse {
	resp := ToCartResponse(store.View(ctx), s.money)
	return &resp
}

func insufficientStock(available, inCart int) error {
	return shared.NewDomainError(shared.ErrInsufficientStock.Code,
		fmt.Sprintf("Solo hay %d unidades disponibles (%d en el carrito)", available, inCart))
}
