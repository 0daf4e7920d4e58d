package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// CatalogHandler handles the read-only catalog endpoints
type CatalogHandler struct {
	BaseHandler
	catalogService *catalogapp.Service
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *catalogapp.Service) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// ListCategories godoc
// @ID           listCategories
// @Summary      List categories
// @Description  Returns every category ordered by name
// @Tags         catalog
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.CategoryResponse]
// @Failure      500 {object} ErrorResponse
// @Router       /categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// ListProducts godoc
// @ID           listProducts
// @Summary      List products
// @Description  Returns active products, newest first. An unknown category slug lists every product.
// @Tags         catalog
// @Produce      json
// @Param        category query string false "Category slug"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      500 {object} ErrorResponse
// @Router       /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.catalogService.ListProducts(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// ListFeatured godoc
// @ID           listFeaturedProducts
// @Summary      List featured products
// @Description  Returns active featured products, newest first
// @Tags         catalog
// @Produce      json
// @Param        limit query int false "Maximum number of products"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /products/featured [get]
func (h *CatalogHandler) ListFeatured(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}

	products, err := h.catalogService.ListFeatured(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// GetProduct godoc
// @ID           getProduct
// @Summary      Get a product page
// @Description  Returns an active product with its active flavors and whether one must be chosen
// @Tags         catalog
// @Produce      json
// @Param        slug path string true "Product slug"
// @Success      200 {object} APIResponse[catalogapp.ProductDetailResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /products/{slug} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	detail, err := h.catalogService.GetProductDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// ListFlavors godoc
// @ID           listProductFlavors
// @Summary      List product flavors
// @Tags         catalog
// @Produce      json
// @Param        slug path string true "Product slug"
// @Success      200 {object} APIResponse[[]catalogapp.FlavorResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /products/{slug}/flavors [get]
func (h *CatalogHandler) ListFlavors(c *gin.Context) {
	flavors, err := h.catalogService.ListFlavors(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, flavors)
}
