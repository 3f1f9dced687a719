package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/notification"
	"github.com/opsboard/backend/internal/domain/project"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/opsboard/backend/internal/infrastructure/event"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]notification.Totals), args.Error(1)
}

func (m *MockNotificationRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	return m.Called(ctx, projectID).Error(0)
}

// MockSummaryCache is a mock implementation of notification.SummaryCache
type MockSummaryCache struct {
	mock.Mock
}

func (m *MockSummaryCache) Get(ctx context.Context) (*notification.PortfolioSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.PortfolioSummary), args.Error(1)
}

func (m *MockSummaryCache) Set(ctx context.Context, summary *notification.PortfolioSummary) error {
	return m.Called(ctx, summary).Error(0)
}

func (m *MockSummaryCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// recordingPublisher keeps every published envelope
type recordingPublisher struct {
	mu        sync.Mutex
	envelopes []event.Envelope
	keys      []string
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, env event.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	p.envelopes = append(p.envelopes, env)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Published() ([]string, []event.Envelope) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...), append([]event.Envelope(nil), p.envelopes...)
}

// =============================================================================
// Fixtures
// =============================================================================

var fixedNow = time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)

type serviceFixture struct {
	service       *NotificationService
	projects      *MockProjectRepository
	logs          *MockDailyLogRepository
	expenses      *MockExpenseRepository
	invoices      *MockInvoiceRepository
	notifications *MockNotificationRepository
	cache         *MockSummaryCache
	publisher     *recordingPublisher
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		projects:      new(MockProjectRepository),
		logs:          new(MockDailyLogRepository),
		expenses:      new(MockExpenseRepository),
		invoices:      new(MockInvoiceRepository),
		notifications: new(MockNotificationRepository),
		cache:         new(MockSummaryCache),
		publisher:     &recordingPublisher{},
	}
	f.service = NewNotificationService(Repositories{
		Projects:      f.projects,
		Logs:          f.logs,
		Expenses:      f.expenses,
		Invoices:      f.invoices,
		Notifications: f.notifications,
	}, notification.NewDeriver(notification.DefaultPolicy()), f.cache, f.publisher, time.UTC, nil)
	f.service.now = func() time.Time { return fixedNow }
	return f
}

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

// expectSnapshot wires a project with two logged days and one invoice unpaid since April.
// As of 2024-06-10 it yields three missing logs, one overdue payment and the overdue total.
func (f *serviceFixture) expectSnapshot() *project.Project {
	p, err := project.NewProject("P-100", "Bridge Inspection", uuid.New(), datePtr("2024-06-01"), datePtr("2024-06-05"))
	if err != nil {
		panic(err)
	}

	var logs []project.DailyLog
	for _, d := range []string{"2024-06-02", "2024-06-03"} {
		l, _ := project.NewDailyLog(p.ID, date(d), decimal.NewFromInt(8))
		logs = append(logs, *l)
	}
	invoice, _ := project.NewInvoice(p.ID, "INV-7", date("2024-04-15"), decimal.NewFromInt(500))

	f.projects.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	f.logs.On("FindByProject", mock.Anything, p.ID).Return(logs, nil)
	f.expenses.On("FindByProject", mock.Anything, p.ID).Return([]project.Expense{}, nil)
	f.invoices.On("FindByProject", mock.Anything, p.ID).Return([]project.Invoice{*invoice}, nil)
	return p
}
