package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	projectapp "github.com/opsboard/backend/internal/application/project"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/opsboard/backend/internal/interfaces/http/dto"
	"github.com/opsboard/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name:       "from context",
			setup:      func(c *gin.Context) { c.Set(middleware.RequestIDKey, "ctx-id") },
			expectedID: "ctx-id",
		},
		{
			name:       "from header when context empty",
			setup:      func(c *gin.Context) { c.Request.Header.Set(middleware.RequestIDHeader, "header-id") },
			expectedID: "header-id",
		},
		{
			name: "context takes precedence",
			setup: func(c *gin.Context) {
				c.Set(middleware.RequestIDKey, "ctx-id")
				c.Request.Header.Set(middleware.RequestIDHeader, "header-id")
			},
			expectedID: "ctx-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(c)
			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestGetActor(t *testing.T) {
	t.Run("engineer claims", func(t *testing.T) {
		engineerID := uuid.New()
		claims := engineerClaims(&engineerID)
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(middleware.JWTClaimsKey, claims)

		actor, err := getActor(c)

		require.NoError(t, err)
		assert.Equal(t, claims.UserID, actor.UserID.String())
		assert.False(t, actor.IsAdmin())
		require.NotNil(t, actor.EngineerID)
		assert.Equal(t, engineerID, *actor.EngineerID)
	})

	t.Run("no claims", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		_, err := getActor(c)
		assert.ErrorIs(t, err, errNoUser)
	})
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped not found", errors.Join(errors.New("ctx"), shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"forbidden", projectapp.ErrNotAssigned, http.StatusForbidden, dto.ErrCodeForbidden},
		{"log date", projectapp.ErrLogDateNotOpen, http.StatusUnprocessableEntity, dto.ErrCodeLogDateNotAllowed},
		{"storage", projectapp.ErrStorageUnavailable, http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable},
		{"unmapped invalid", shared.NewDomainError("INVALID_AMOUNT", "bad"), http.StatusBadRequest, dto.ErrCodeValidation},
		{"unmapped rule", shared.NewDomainError("BUDGET_EXCEEDED", "no"), http.StatusUnprocessableEntity, dto.ErrCodeBusinessRule},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set(middleware.RequestIDKey, "req-1")

			h := &BaseHandler{}
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}

	t.Run("internal error hides the cause", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		(&BaseHandler{}).HandleError(c, errors.New("dial tcp 10.0.0.3:5432"))

		assert.NotContains(t, w.Body.String(), "10.0.0.3")
		assert.Len(t, c.Errors, 1)
	})
}

func TestBaseHandler_ParseUUIDParam(t *testing.T) {
	engine := gin.New()
	h := &BaseHandler{}
	engine.GET("/items/:id", func(c *gin.Context) {
		id, ok := h.parseUUIDParam(c, "id")
		if !ok {
			return
		}
		h.Success(c, id)
	})

	w := performRequest(engine, http.MethodGet, "/items/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeBadRequest, decodeResponse(t, w).Error.Code)

	id := uuid.New()
	w = performRequest(engine, http.MethodGet, "/items/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), decodeResponse(t, w).Data)
}

func TestBaseHandler_ParseTodayQuery(t *testing.T) {
	engine := gin.New()
	h := &BaseHandler{}
	engine.GET("/", func(c *gin.Context) {
		today, ok := h.parseTodayQuery(c)
		if !ok {
			return
		}
		if today == nil {
			h.Success(c, "none")
			return
		}
		h.Success(c, today.String())
	})

	assert.Equal(t, "none", decodeResponse(t, performRequest(engine, http.MethodGet, "/", nil)).Data)
	assert.Equal(t, "2024-02-29", decodeResponse(t, performRequest(engine, http.MethodGet, "/?today=2024-02-29", nil)).Data)
	assert.Equal(t, http.StatusBadRequest, performRequest(engine, http.MethodGet, "/?today=2024-02-30", nil).Code)
}
