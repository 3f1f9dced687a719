package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	identityapp "github.com/opsboard/backend/internal/application/identity"
	"github.com/opsboard/backend/internal/domain/identity"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/opsboard/backend/internal/infrastructure/auth"
	"github.com/opsboard/backend/internal/infrastructure/config"
	"github.com/opsboard/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

type authFixture struct {
	users     *MockUserRepository
	blacklist *auth.InMemoryTokenBlacklist
	handler   *AuthHandler
}

func newAuthFixture() *authFixture {
	users := new(MockUserRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret-key-32-bytes-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "opsboard-test",
	})
	service := identityapp.NewAuthService(users, jwtService, blacklist, identityapp.DefaultAuthServiceConfig(), nil)
	return &authFixture{users: users, blacklist: blacklist, handler: NewAuthHandler(service)}
}

func (f *authFixture) engine(claims *auth.Claims) *gin.Engine {
	engine := newTestEngine(claims)
	engine.POST("/auth/login", f.handler.Login)
	engine.POST("/auth/logout", f.handler.Logout)
	engine.GET("/auth/me", f.handler.GetCurrentUser)
	return engine
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newAuthFixture()
		user, err := identity.NewUser("alice", "secret123", identity.RoleAdmin)
		require.NoError(t, err)
		f.users.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
		f.users.On("Save", mock.Anything, user).Return(nil)

		w := performRequest(f.engine(nil), http.MethodPost, "/auth/login", LoginRequest{Username: "alice", Password: "secret123"})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := decodeResponse(t, w).Data.(map[string]any)
		token := data["token"].(map[string]any)
		assert.NotEmpty(t, token["access_token"])
		assert.NotEmpty(t, token["refresh_token"])
		assert.Equal(t, "admin", data["user"].(map[string]any)["role"])
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture()
		user, err := identity.NewUser("alice", "secret123", identity.RoleEngineer)
		require.NoError(t, err)
		f.users.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
		f.users.On("Save", mock.Anything, user).Return(nil)

		w := performRequest(f.engine(nil), http.MethodPost, "/auth/login", LoginRequest{Username: "alice", Password: "nope-nope"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidCredentials, decodeResponse(t, w).Error.Code)
		assert.Equal(t, 1, user.FailedAttempts)
	})

	t.Run("missing password", func(t *testing.T) {
		f := newAuthFixture()

		w := performRequest(f.engine(nil), http.MethodPost, "/auth/login", map[string]string{"username": "alice"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.users.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	f := newAuthFixture()
	claims := adminClaims()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        "access-jti-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(10 * time.Minute)),
	}

	w := performRequest(f.engine(claims), http.MethodPost, "/auth/logout", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	revoked, err := f.blacklist.IsRevoked(context.Background(), "access-jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthHandler_GetCurrentUser_Unauthenticated(t *testing.T) {
	f := newAuthFixture()

	w := performRequest(f.engine(nil), http.MethodGet, "/auth/me", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
