package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/opsboard/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID(), BodyLimit(64))
	router.POST("/invoices", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge, "read limit %d", tooLarge.Limit)
			return
		}
		c.String(http.StatusOK, "%d", len(body))
	})

	tests := []struct {
		name     string
		body     string
		unsized  bool
		wantCode int
		wantBody string
	}{
		{name: "within limit", body: `{"number":"INV-1"}`, wantCode: http.StatusOK, wantBody: "18"},
		{name: "exactly at limit", body: strings.Repeat("a", 64), wantCode: http.StatusOK, wantBody: "64"},
		{name: "declared length over limit", body: strings.Repeat("a", 65), wantCode: http.StatusRequestEntityTooLarge},
		{name: "unsized body cut off while reading", body: strings.Repeat("a", 200), unsized: true, wantCode: http.StatusRequestEntityTooLarge, wantBody: "read limit 64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(tt.body))
			if tt.unsized {
				req.ContentLength = -1
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}

	t.Run("rejection uses the error envelope", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(strings.Repeat("a", 100)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeRequestTooLarge, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)
	})
}
