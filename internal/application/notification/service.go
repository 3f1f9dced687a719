package notification

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/notification"
	"github.com/opsboard/backend/internal/domain/project"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/opsboard/backend/internal/infrastructure/event"
	"github.com/opsboard/backend/internal/infrastructure/export"
	"github.com/opsboard/backend/internal/infrastructure/metrics"
	"github.com/opsboard/backend/internal/infrastructure/scheduler"
	"github.com/opsboard/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// eventSource identifies this service in published envelopes
const eventSource = "opsboard.notifications"

// Repositories groups the stores a refresh reads and writes
type Repositories struct {
	Projects      project.ProjectRepository
	Logs          project.DailyLogRepository
	Expenses      project.ExpenseRepository
	Invoices      project.InvoiceRepository
	Notifications notification.Repository
}

// NotificationService derives, stores and reports project notifications
type NotificationService struct {
	repos     Repositories
	deriver   *notification.Deriver
	cache     notification.SummaryCache
	publisher event.Publisher
	scheduler *scheduler.Scheduler
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time

	// generation counts summary invalidations; a summary built across one is not cached
	generation atomic.Uint64
}

// NewNotificationService creates a new NotificationService.
// A nil cache or publisher disables that side effect.
func NewNotificationService(
	repos Repositories,
	deriver *notification.Deriver,
	cache notification.SummaryCache,
	publisher event.Publisher,
	loc *time.Location,
	logger *zap.Logger,
) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	if publisher == nil {
		publisher = event.NewLogPublisher(logger)
	}
	return &NotificationService{
		repos:     repos,
		deriver:   deriver,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		loc:       loc,
		now:       time.Now,
	}
}

// SetScheduler hands portfolio refreshes to background workers
func (s *NotificationService) SetScheduler(sch *scheduler.Scheduler) {
	s.scheduler = sch
}

func (s *NotificationService) today() shared.Date {
	return shared.DateOf(s.now().In(s.loc))
}

// snapshot loads every row the deriver reads for one project
func (s *NotificationService) snapshot(ctx context.Context, projectID uuid.UUID) (notification.Snapshot, error) {
	p, err := s.repos.Projects.FindByID(ctx, projectID)
	if err != nil {
		return notification.Snapshot{}, err
	}
	logs, err := s.repos.Logs.FindByProject(ctx, projectID)
	if err != nil {
		return notification.Snapshot{}, fmt.Errorf("failed to load daily logs: %w", err)
	}
	expenses, err := s.repos.Expenses.FindByProject(ctx, projectID)
	if err != nil {
		return notification.Snapshot{}, fmt.Errorf("failed to load expenses: %w", err)
	}
	invoices, err := s.repos.Invoices.FindByProject(ctx, projectID)
	if err != nil {
		return notification.Snapshot{}, fmt.Errorf("failed to load invoices: %w", err)
	}
	return notification.Snapshot{
		Project:  *p,
		Logs:     logs,
		Expenses: expenses,
		Invoices: invoices,
	}, nil
}

// RefreshProject recomputes a project's notifications and replaces its cached rows.
// A project that no longer exists has its cached rows dropped and ErrNotFound is returned.
func (s *NotificationService) RefreshProject(ctx context.Context, projectID uuid.UUID) (result *RefreshResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "notification", "refresh_project",
		telemetry.SpanAttrProjectID, projectID.String())
	defer span.End()

	start := time.Now()
	defer func() {
		outcome := metrics.ResultSuccess
		if err != nil {
			outcome = metrics.ResultFailure
			telemetry.RecordError(span, err)
		}
		metrics.RecordRefresh(outcome, time.Since(start))
	}()

	snap, err := s.snapshot(ctx, projectID)
	if errors.Is(err, shared.ErrNotFound) {
		if delErr := s.repos.Notifications.DeleteByProject(ctx, projectID); delErr != nil {
			return nil, delErr
		}
		s.invalidateSummary(ctx)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	computedAt := s.now()
	derived := s.deriver.Derive(snap, shared.DateOf(computedAt.In(s.loc)))
	if err := s.repos.Notifications.ReplaceForProject(ctx, projectID, derived, computedAt); err != nil {
		return nil, fmt.Errorf("failed to store notifications: %w", err)
	}
	s.invalidateSummary(ctx)

	totals := notification.Summarize(derived)
	metrics.RecordDerived(countByKind(derived))
	telemetry.SetAttributes(span,
		telemetry.SpanAttrProjectCode, snap.Project.Code,
		telemetry.SpanAttrCount, len(derived))

	s.publishRefreshed(ctx, RefreshedEvent{
		ProjectID:     projectID,
		Notifications: len(derived),
		Totals:        totals,
		ComputedAt:    computedAt,
	})

	s.logger.Debug("Project notifications refreshed",
		zap.String("project_id", projectID.String()),
		zap.Int("notifications", len(derived)))

	return &RefreshResponse{
		ProjectID:     projectID,
		Notifications: len(derived),
		Totals:        totals,
		ComputedAt:    computedAt,
	}, nil
}

// RefreshAll refreshes every project in the caller's goroutine
func (s *NotificationService) RefreshAll(ctx context.Context) (*RefreshAllResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "notification", "refresh_all")
	defer span.End()

	ids, err := s.repos.Projects.ListIDs(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := &RefreshAllResponse{Projects: len(ids)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := s.RefreshProject(ctx, id); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			s.logger.Warn("Project refresh failed",
				zap.String("project_id", id.String()),
				zap.Error(err))
			resp.Failed = append(resp.Failed, id)
			continue
		}
		resp.Refreshed++
	}

	s.logger.Info("Portfolio notifications refreshed",
		zap.Int("projects", resp.Projects),
		zap.Int("refreshed", resp.Refreshed),
		zap.Int("failed", len(resp.Failed)))
	return resp, nil
}

// TriggerRefreshAll queues every project on the background workers when they
// run, and refreshes synchronously otherwise.
func (s *NotificationService) TriggerRefreshAll(ctx context.Context) (*RefreshAllResponse, error) {
	if s.scheduler == nil || !s.scheduler.IsRunning() {
		return s.RefreshAll(ctx)
	}

	ids, err := s.repos.Projects.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	queued, err := s.scheduler.SubmitAll(ids)
	if err != nil {
		return nil, err
	}
	return &RefreshAllResponse{Projects: len(ids), Queued: queued, Async: true}, nil
}

// Execute implements scheduler.JobExecutor.
// Jobs for deleted projects succeed once their cached rows are gone.
func (s *NotificationService) Execute(ctx context.Context, job *scheduler.Job) error {
	_, err := s.RefreshProject(ctx, job.ProjectID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	return err
}

// Enqueue schedules a refresh after a project's rows change. Without running
// workers, or when the queue is full, the refresh runs inline.
func (s *NotificationService) Enqueue(ctx context.Context, projectID uuid.UUID) {
	if s.scheduler != nil && s.scheduler.IsRunning() {
		_, err := s.scheduler.Submit(projectID)
		if err == nil {
			return
		}
		s.logger.Warn("Refresh queue rejected project, refreshing inline",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
	}
	if _, err := s.RefreshProject(ctx, projectID); err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Warn("Inline project refresh failed",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
	}
}

// List retrieves a page of cached notifications
func (s *NotificationService) List(ctx context.Context, filter ListFilter) ([]NotificationResponse, int64, error) {
	domainFilter := notification.Filter{Filter: shared.DefaultFilter()}
	domainFilter.OrderBy = filter.OrderBy
	domainFilter.OrderDir = filter.OrderDir
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	if filter.ProjectID != "" {
		id, err := uuid.Parse(filter.ProjectID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Invalid project_id")
		}
		domainFilter.ProjectID = &id
	}
	if filter.Kind != "" {
		kind := notification.Kind(filter.Kind)
		if !kind.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Invalid notification kind")
		}
		domainFilter.Kind = &kind
	}

	items, total, err := s.repos.Notifications.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToNotificationResponses(items), total, nil
}

// ForProject returns a project's cached notifications in derivation order
func (s *NotificationService) ForProject(ctx context.Context, projectID uuid.UUID) ([]NotificationResponse, error) {
	if _, err := s.repos.Projects.FindByID(ctx, projectID); err != nil {
		return nil, err
	}
	items, err := s.repos.Notifications.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return ToNotificationResponses(items), nil
}

// Preview derives a project's notifications as of a day without storing them.
// A nil today means the current day.
func (s *NotificationService) Preview(ctx context.Context, projectID uuid.UUID, today *shared.Date) (*PreviewResponse, error) {
	snap, err := s.snapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}

	day := s.today()
	if today != nil {
		day = *today
	}

	derived := s.deriver.Derive(snap, day)
	return &PreviewResponse{
		ProjectID:     projectID,
		Today:         day,
		Bucket:        notification.BucketFor(&snap.Project, day).String(),
		Notifications: ToNotificationResponses(derived),
		Totals:        notification.Summarize(derived).Rows(),
	}, nil
}

// Summary returns the portfolio summary, served from the cache when warm
func (s *NotificationService) Summary(ctx context.Context) (*SummaryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "notification", "summary")
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("Summary cache read failed", zap.Error(err))
		} else if cached != nil {
			resp := ToSummaryResponse(*cached, true)
			return &resp, nil
		}
	}

	gen := s.generation.Load()
	summary, err := s.buildSummary(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if s.cache != nil && s.generation.Load() == gen {
		if err := s.cache.Set(ctx, &summary); err != nil {
			s.logger.Warn("Summary cache write failed", zap.Error(err))
		}
	}

	resp := ToSummaryResponse(summary, false)
	return &resp, nil
}

func (s *NotificationService) buildSummary(ctx context.Context) (notification.PortfolioSummary, error) {
	ids, err := s.repos.Projects.ListIDs(ctx)
	if err != nil {
		return notification.PortfolioSummary{}, err
	}
	perProject, err := s.repos.Notifications.TotalsByProject(ctx)
	if err != nil {
		return notification.PortfolioSummary{}, err
	}

	summary := notification.BuildSummary(len(ids), perProject, s.now())
	active := make(map[string]int, len(summary.Totals))
	for kind, total := range summary.Totals {
		active[kind.String()] = total.Count
	}
	metrics.SetActive(active)
	return summary, nil
}

// Export writes every cached notification and the portfolio summary as an
// Excel workbook and returns the suggested file name
func (s *NotificationService) Export(ctx context.Context, w io.Writer) (string, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "notification", "export")
	defer span.End()

	projects, _, err := s.repos.Projects.FindAll(ctx, project.ProjectFilter{
		Filter: shared.Filter{OrderBy: "code", OrderDir: "asc"},
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return "", err
	}
	byID := make(map[uuid.UUID]*project.Project, len(projects))
	for i := range projects {
		byID[projects[i].ID] = &projects[i]
	}

	items, _, err := s.repos.Notifications.FindAll(ctx, notification.Filter{})
	if err != nil {
		telemetry.RecordError(span, err)
		return "", err
	}

	rows := make([]export.NotificationRow, 0, len(items))
	for _, n := range items {
		row := export.NotificationRow{Notification: n}
		if p, ok := byID[n.ProjectID]; ok {
			row.ProjectCode = p.Code
			row.ProjectName = p.Name
		}
		rows = append(rows, row)
	}

	summary, err := s.buildSummary(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return "", err
	}

	if err := export.WriteWorkbook(w, rows, summary); err != nil {
		telemetry.RecordError(span, err)
		return "", fmt.Errorf("failed to write workbook: %w", err)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrCount, len(rows))
	return export.FileName(summary.GeneratedAt.In(s.loc)), nil
}

func (s *NotificationService) invalidateSummary(ctx context.Context) {
	s.generation.Add(1)
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Summary cache invalidation failed", zap.Error(err))
	}
}

func (s *NotificationService) publishRefreshed(ctx context.Context, payload RefreshedEvent) {
	env, err := event.NewEnvelope(event.RoutingNotificationsRefreshed, eventSource, payload, payload.ComputedAt)
	if err != nil {
		s.logger.Error("Failed to build refresh event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, event.RoutingNotificationsRefreshed, env); err != nil {
		s.logger.Warn("Failed to publish refresh event",
			zap.String("project_id", payload.ProjectID.String()),
			zap.Error(err))
	}
}

func countByKind(notifications []notification.Notification) map[string]int {
	counts := make(map[string]int)
	for _, n := range notifications {
		counts[n.Kind.String()]++
	}
	return counts
}
