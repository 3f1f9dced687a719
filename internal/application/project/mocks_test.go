package project

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/partner"
	"github.com/opsboard/backend/internal/domain/project"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockProjectRepository is a mock implementation of ProjectRepository
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
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepository) Assign(ctx context.Context, a *project.Assignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockProjectRepository) Unassign(ctx context.Context, projectID, engineerID uuid.UUID) error {
	args := m.Called(ctx, projectID, engineerID)
	return args.Error(0)
}

// MockDailyLogRepository is a mock implementation of DailyLogRepository
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
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockDailyLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockExpenseRepository is a mock implementation of ExpenseRepository
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
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockInvoiceRepository is a mock implementation of InvoiceRepository
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
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCompanyRepository is a mock implementation of CompanyRepository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindAll(ctx context.Context, filter partner.CompanyFilter) ([]partner.Company, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Company), args.Get(1).(int64), args.Error(2)
}

func (m *MockCompanyRepository) Save(ctx context.Context, company *partner.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCompanyRepository) HasProjects(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockEngineerRepository is a mock implementation of EngineerRepository
type MockEngineerRepository struct {
	mock.Mock
}

func (m *MockEngineerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Engineer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Engineer), args.Error(1)
}

func (m *MockEngineerRepository) FindAll(ctx context.Context, filter partner.EngineerFilter) ([]partner.Engineer, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Engineer), args.Get(1).(int64), args.Error(2)
}

func (m *MockEngineerRepository) Save(ctx context.Context, engineer *partner.Engineer) error {
	args := m.Called(ctx, engineer)
	return args.Error(0)
}

func (m *MockEngineerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// recordingQueue captures enqueued project IDs
type recordingQueue struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (q *recordingQueue) Enqueue(_ context.Context, projectID uuid.UUID) {
	q.mu.Lock()
	q.ids = append(q.ids, projectID)
	q.mu.Unlock()
}

func (q *recordingQueue) Enqueued() []uuid.UUID {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]uuid.UUID(nil), q.ids...)
}

// =============================================================================
// Fixtures
// =============================================================================

func date(s string) shared.Date {
	d, err := shared.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func datePtr(s string) *shared.Date {
	d := date(s)
	return &d
}

func fixedClock(s string) clock {
	d := date(s)
	return func() shared.Date { return d }
}

func newTestProject(start, end string) *project.Project {
	var startDate, endDate *shared.Date
	if start != "" {
		startDate = datePtr(start)
	}
	if end != "" {
		endDate = datePtr(end)
	}
	p, err := project.NewProject("P-100", "Bridge Inspection", uuid.New(), startDate, endDate)
	if err != nil {
		panic(err)
	}
	return p
}
