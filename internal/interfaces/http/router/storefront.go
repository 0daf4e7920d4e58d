package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// StorefrontHandlers are the handlers served under the API prefix
type StorefrontHandlers struct {
	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	System   *handler.SystemHandler
}

// StorefrontMiddleware is the route-level middleware of the storefront.
// Session resolves the cart session and runs on cart and checkout routes
// only, so catalog browsing never mints a session. CheckoutLimit may be nil.
type StorefrontMiddleware struct {
	Session       gin.HandlerFunc
	CheckoutLimit gin.HandlerFunc
}

// RegisterStorefront adds the catalog, cart, checkout and system groups
func RegisterStorefront(r *Router, h StorefrontHandlers, mw StorefrontMiddleware) {
	catalogRoutes := NewDomainGroup("catalog", "")
	catalogRoutes.GET("/categories", h.Catalog.ListCategories)
	catalogRoutes.GET("/products", h.Catalog.ListProducts)
	catalogRoutes.GET("/products/featured", h.Catalog.ListFeatured)
	catalogRoutes.GET("/products/:slug", h.Catalog.GetProduct)
	catalogRoutes.GET("/products/:slug/flavors", h.Catalog.ListFlavors)

	cartRoutes := NewDomainGroup("cart", "/cart").
		Use(mw.Session, middleware.TracingAttributeInjector())
	cartRoutes.GET("", h.Cart.GetCart)
	cartRoutes.DELETE("", h.Cart.ClearCart)
	cartRoutes.POST("/items", h.Cart.AddItem)
	cartRoutes.PUT("/items", h.Cart.UpdateItem)
	cartRoutes.DELETE("/items", h.Cart.RemoveItem)
	cartRoutes.PUT("/drawer", h.Cart.SetDrawer)

	submit := []gin.HandlerFunc{h.Checkout.Submit}
	if mw.CheckoutLimit != nil {
		submit = append([]gin.HandlerFunc{mw.CheckoutLimit}, submit...)
	}
	checkoutRoutes := NewDomainGroup("checkout", "/checkout").
		Use(mw.Session, middleware.TracingAttributeInjector())
	checkoutRoutes.POST("", submit...)

	systemRoutes := NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", h.System.GetSystemInfo)
	systemRoutes.GET("/ping", h.System.Ping)

	r.Register(catalogRoutes).
		Register(cartRoutes).
		Register(checkoutRoutes).
		Register(systemRoutes)
}
