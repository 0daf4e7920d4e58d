package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func systemRouter(h *SystemHandler) *gin.Engine {
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/info", h.GetSystemInfo)
	r.GET("/ping", h.Ping)
	return r
}

func TestSystemHandler_Health(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("all dependencies healthy", func(t *testing.T) {
		h := NewSystemHandler("Storefront API", "1.0.0", map[string]Pinger{"database": ok, "cart_storage": ok})

		w := httptest.NewRecorder()
		systemRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, map[string]string{"database": "healthy", "cart_storage": "healthy"}, resp.Dependencies)
	})

	t.Run("one dependency down", func(t *testing.T) {
		h := NewSystemHandler("Storefront API", "1.0.0", map[string]Pinger{"database": ok, "cart_storage": down})

		w := httptest.NewRecorder()
		systemRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, "unhealthy", resp.Dependencies["cart_storage"])
		assert.Equal(t, "healthy", resp.Dependencies["database"])
	})

	t.Run("ping is bounded by the timeout", func(t *testing.T) {
		var deadline bool
		probe := PingFunc(func(ctx context.Context) error {
			_, deadline = ctx.Deadline()
			return nil
		})
		h := NewSystemHandler("Storefront API", "1.0.0", map[string]Pinger{"database": probe})

		w := httptest.NewRecorder()
		systemRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, deadline)
	})
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("Storefront API", "1.2.3", nil)

	w := httptest.NewRecorder()
	systemRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/info", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp APIResponse[SystemInfoResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Storefront API", resp.Data.Name)
	assert.Equal(t, "1.2.3", resp.Data.Version)
	assert.NotEmpty(t, resp.Data.GoVersion)
	assert.NotEmpty(t, resp.Data.Uptime)
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler("Storefront API", "1.0.0", nil)

	w := httptest.NewRecorder()
	systemRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp APIResponse[map[string]string]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pong", resp.Data["message"])
}
