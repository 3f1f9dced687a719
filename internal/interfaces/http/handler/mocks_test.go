package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/notification"
	"github.com/opsboard/backend/internal/domain/project"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/opsboard/backend/internal/infrastructure/auth"
	"github.com/opsboard/backend/internal/interfaces/http/dto"
	"github.com/opsboard/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockProjectRepository is a mock implementation of project.ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindAll(ctx context.Context, filter project.ProjectFilter) ([]project.Project, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]project.Project), args.Get(1).(int64), args.Error(2)
}

func (m *MockProjectRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockProjectRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectRepository) Save(ctx context.Context, p *project.Project) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProjectRepository) Assign(ctx context.Context, a *project.Assignment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockProjectRepository) Unassign(ctx context.Context, projectID, engineerID uuid.UUID) error {
	return m.Called(ctx, projectID, engineerID).Error(0)
}

// MockInvoiceRepository is a mock implementation of project.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter project.InvoiceFilter) ([]project.Invoice, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]project.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]project.Invoice, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]project.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *project.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockDailyLogRepository is a mock implementation of project.DailyLogRepository
type MockDailyLogRepository struct {
	mock.Mock
}

func (m *MockDailyLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.DailyLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.DailyLog), args.Error(1)
}

func (m *MockDailyLogRepository) FindAll(ctx context.Context, filter project.DailyLogFilter) ([]project.DailyLog, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]project.DailyLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockDailyLogRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]project.DailyLog, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]project.DailyLog), args.Error(1)
}

func (m *MockDailyLogRepository) Save(ctx context.Context, log *project.DailyLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockDailyLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockExpenseRepository is a mock implementation of project.ExpenseRepository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindAll(ctx context.Context, filter project.ExpenseFilter) ([]project.Expense, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]project.Expense), args.Get(1).(int64), args.Error(2)
}

func (m *MockExpenseRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]project.Expense, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]project.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Save(ctx context.Context, expense *project.Expense) error {
	return m.Called(ctx, expense).Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockNotificationRepository is a mock implementation of notification.Repository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) ReplaceForProject(ctx context.Context, projectID uuid.UUID, notifications []notification.Notification, computedAt time.Time) error {
	return m.Called(ctx, projectID, notifications, computedAt).Error(0)
}

func (m *MockNotificationRepository) FindAll(ctx context.Context, filter notification.Filter) ([]notification.Notification, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]notification.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]notification.Notification, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) TotalsByProject(ctx context.Context) (map[uuid.UUID]notification.Totals, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[uuid.UUID]notification.Totals), args.Error(1)
}

func (m *MockNotificationRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	return m.Called(ctx, projectID).Error(0)
}

// =============================================================================
// Helpers
// =============================================================================

func mustDate(t *testing.T, s string) shared.Date {
	t.Helper()
	d, err := shared.ParseDate(s)
	require.NoError(t, err)
	return d
}

func newProject(t *testing.T, start, end string) *project.Project {
	t.Helper()
	var startDate, endDate *shared.Date
	if start != "" {
		d := mustDate(t, start)
		startDate = &d
	}
	if end != "" {
		d := mustDate(t, end)
		endDate = &d
	}
	p, err := project.NewProject("P-100", "Bridge Inspection", uuid.New(), startDate, endDate)
	require.NoError(t, err)
	return p
}

func adminClaims() *auth.Claims {
	return &auth.Claims{UserID: uuid.New().String(), Username: "admin", Role: "admin"}
}

func engineerClaims(engineerID *uuid.UUID) *auth.Claims {
	claims := &auth.Claims{UserID: uuid.New().String(), Username: "sam", Role: "engineer"}
	if engineerID != nil {
		claims.EngineerID = engineerID.String()
	}
	return claims
}

// withClaims stands in for the JWT middleware
func withClaims(claims *auth.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.JWTClaimsKey, claims)
			c.Set(middleware.JWTUserIDKey, claims.UserID)
			c.Set(middleware.JWTUsernameKey, claims.Username)
			c.Set(middleware.JWTRoleKey, claims.Role)
		}
		c.Next()
	}
}

func newTestEngine(claims *auth.Claims) *gin.Engine {
	engine := gin.New()
	engine.Use(withClaims(claims))
	return engine
}

func performRequest(engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
