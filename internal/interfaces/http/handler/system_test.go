package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("opsboard", "1.2.0")
	engine := gin.New()
	engine.GET("/system/info", h.GetSystemInfo)

	w := performRequest(engine, http.MethodGet, "/system/info", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "opsboard", data["name"])
	assert.Equal(t, "1.2.0", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}

func TestSystemHandler_Health(t *testing.T) {
	tests := []struct {
		name           string
		cacheErr       error
		expectedStatus int
		expectedState  string
	}{
		{"all dependencies up", nil, http.StatusOK, "healthy"},
		{"redis down", errors.New("connection refused"), http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler("opsboard", "dev").
				AddCheck("database", func(context.Context) error { return nil }).
				AddCheck("redis", func(context.Context) error { return tt.cacheErr })
			engine := gin.New()
			engine.GET("/health", h.Health)

			w := performRequest(engine, http.MethodGet, "/health", nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			var resp HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedState, resp.Status)
			assert.Equal(t, "ok", resp.Checks["database"])
			if tt.cacheErr != nil {
				assert.Equal(t, "error", resp.Checks["redis"])
			}
		})
	}

	t.Run("no checks is healthy", func(t *testing.T) {
		engine := gin.New()
		engine.GET("/health", NewSystemHandler("opsboard", "dev").Health)
		assert.Equal(t, http.StatusOK, performRequest(engine, http.MethodGet, "/health", nil).Code)
	})
}
