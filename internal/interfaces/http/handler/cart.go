package handler

import (
	"github.com/gin-gonic/gin"
	appcart "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CartHandler handles the session cart endpoints. The session comes from
// the CartSession middleware.
type CartHandler struct {
	BaseHandler
	cartService *appcart.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *appcart.Service) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// GetCart godoc
// @ID           getCart
// @Summary      Get the cart
// @Description  Returns the session's cart with its subtotal and drawer state
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[appcart.CartResponse]
// @Router       /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	h.Success(c, h.cartService.Get(c.Request.Context(), middleware.GetSessionID(c)))
}

// AddItem godoc
// @ID           addCartItem
// @Summary      Add to cart
// @Description  Adds units of a product, merging with an existing line of the same product and flavor
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body appcart.AddItemRequest true "Item to add"
// @Success      200 {object} APIResponse[appcart.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req appcart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.cartService.Add(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateItem godoc
// @ID           updateCartItem
// @Summary      Set line quantity
// @Description  Overwrites a line's quantity. Zero or less removes the line.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body appcart.UpdateItemRequest true "Line and quantity"
// @Success      200 {object} APIResponse[appcart.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /cart/items [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req appcart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.cartService.UpdateQuantity(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveItem godoc
// @ID           removeCartItem
// @Summary      Remove a line
// @Tags         cart
// @Produce      json
// @Param        product_id query string true "Product ID"
// @Param        flavor_id query string false "Flavor ID"
// @Success      200 {object} APIResponse[appcart.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /cart/items [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	var query appcart.RemoveItemQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	productID, flavorID := query.LineKey()
	h.Success(c, h.cartService.Remove(c.Request.Context(), middleware.GetSessionID(c), productID, flavorID))
}

// ClearCart godoc
// @ID           clearCart
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[appcart.CartResponse]
// @Router       /cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	h.Success(c, h.cartService.Clear(c.Request.Context(), middleware.GetSessionID(c)))
}

// SetDrawer godoc
// @ID           setCartDrawer
// @Summary      Open or close the cart drawer
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body appcart.DrawerRequest true "Drawer state"
// @Success      200 {object} APIResponse[appcart.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /cart/drawer [put]
func (h *CartHandler) SetDrawer(c *gin.Context) {
	var req appcart.DrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	h.Success(c, h.cartService.SetDrawer(c.Request.Context(), middleware.GetSessionID(c), *req.Open))
}
