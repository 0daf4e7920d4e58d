package router_test

import (
	"net/http"
	"testing"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterStorefront_Routes(t *testing.T) {
	app := testutil.NewTestApp(t, nil)

	registered := make(map[string]bool)
	for _, route := range app.Engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /api/v1/categories",
		"GET /api/v1/products",
		"GET /api/v1/products/featured",
		"GET /api/v1/products/:slug",
		"GET /api/v1/products/:slug/flavors",
		"GET /api/v1/cart",
		"DELETE /api/v1/cart",
		"POST /api/v1/cart/items",
		"PUT /api/v1/cart/items",
		"DELETE /api/v1/cart/items",
		"PUT /api/v1/cart/drawer",
		"POST /api/v1/checkout",
		"GET /api/v1/system/info",
		"GET /api/v1/system/ping",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestRegisterStorefront_SessionScope(t *testing.T) {
	app := testutil.NewTestApp(t, nil)
	client := testutil.NewClient(t, app.Engine)

	w := client.Get("/api/v1/products")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(testutil.SessionHeader))

	w = client.Get("/api/v1/system/ping")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(testutil.SessionHeader))

	w = client.Get("/api/v1/cart")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(testutil.SessionHeader))
}

func TestRegisterStorefront_CheckoutRateLimit(t *testing.T) {
	app := testutil.NewTestApp(t, func(cfg *config.Config) {
		cfg.HTTP.CheckoutRateLimit = 2
	})
	client := testutil.NewClient(t, app.Engine)

	for i := 0; i < 2; i++ {
		testutil.AssertErrorCode(t, client.Post("/api/v1/checkout", map[string]string{}), http.StatusUnprocessableEntity, "EMPTY_CART")
	}
	w := client.Post("/api/v1/checkout", map[string]string{})
	testutil.AssertErrorCode(t, w, http.StatusTooManyRequests, "RATE_LIMITED")
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	// cart routes are not limited
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, client.Get("/api/v1/cart").Code)
	}

	// limits are per client address
	other := testutil.NewClient(t, app.Engine)
	other.RemoteAddr = "198.51.100.7:5000"
	testutil.AssertErrorCode(t, other.Post("/api/v1/checkout", map[string]string{}), http.StatusUnprocessableEntity, "EMPTY_CART")
}
