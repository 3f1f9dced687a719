package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/notification"
	"github.com/opsboard/backend/internal/domain/project"
	"github.com/opsboard/backend/internal/domain/shared"
)

// Errors returned when an engineer steps outside their own work
var (
	ErrNotAssigned     = shared.NewDomainError("FORBIDDEN", "You are not assigned to this project")
	ErrNotYourLog      = shared.NewDomainError("FORBIDDEN", "You can only change your own daily logs")
	ErrNoEngineer      = shared.NewDomainError("FORBIDDEN", "Your account is not linked to an engineer")
	ErrLogDateNotOpen  = shared.NewDomainError("LOG_DATE_NOT_ALLOWED", "Work cannot be logged on this date")
	ErrProjectMismatch = shared.NewDomainError("INVALID_INPUT", "Daily log belongs to another project")
)

// DailyLogService handles daily work log operations.
// Engineers may only log their own work on the dates the project's bucket offers.
type DailyLogService struct {
	logRepo     project.DailyLogRepository
	projectRepo project.ProjectRepository
	refresh     RefreshQueue
	today       clock
}

// NewDailyLogService creates a new DailyLogService
func NewDailyLogService(logRepo project.DailyLogRepository, projectRepo project.ProjectRepository, loc *time.Location) *DailyLogService {
	return &DailyLogService{
		logRepo:     logRepo,
		projectRepo: projectRepo,
		refresh:     noopRefreshQueue{},
		today:       newClock(loc),
	}
}

// SetRefreshQueue sets where log changes are reported
func (s *DailyLogService) SetRefreshQueue(q RefreshQueue) {
	if q != nil {
		s.refresh = q
	}
}

// Create records a day of work
func (s *DailyLogService) Create(ctx context.Context, actor Actor, req CreateDailyLogRequest) (*DailyLogResponse, error) {
	logDate, err := parseRequiredDate(req.LogDate, "log_date")
	if err != nil {
		return nil, err
	}

	p, err := s.projectRepo.FindByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	engineerID := req.EngineerID
	if !actor.IsAdmin() {
		if err := s.checkEngineerMayLog(actor, p, logDate); err != nil {
			return nil, err
		}
		engineerID = actor.EngineerID
	}

	log, err := project.NewDailyLog(p.ID, logDate, req.Hours)
	if err != nil {
		return nil, err
	}
	log.AssignEngineer(engineerID)
	if req.Notes != "" {
		if err := log.Update(log.LogDate, log.Hours, req.Notes); err != nil {
			return nil, err
		}
	}
	log.SetFlags(req.Submitted, req.Reimbursed)

	if err := s.logRepo.Save(ctx, log); err != nil {
		return nil, err
	}
	s.refresh.Enqueue(ctx, p.ID)

	response := ToDailyLogResponse(log)
	return &response, nil
}

// GetByID retrieves a daily log
func (s *DailyLogService) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*DailyLogResponse, error) {
	log, err := s.logRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(actor, log.EngineerID); err != nil {
		return nil, err
	}
	response := ToDailyLogResponse(log)
	return &response, nil
}

// List retrieves a page of daily logs. Engineers only see their own.
func (s *DailyLogService) List(ctx context.Context, actor Actor, filter DailyLogListFilter) ([]DailyLogResponse, int64, error) {
	domainFilter := project.DailyLogFilter{
		Filter: toSharedFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
	}

	var err error
	if domainFilter.ProjectID, err = parseOptionalID(filter.ProjectID); err != nil {
		return nil, 0, err
	}
	if domainFilter.EngineerID, err = parseOptionalID(filter.EngineerID); err != nil {
		return nil, 0, err
	}
	if domainFilter.From, err = parseFilterDate(filter.From, "from"); err != nil {
		return nil, 0, err
	}
	if domainFilter.To, err = parseFilterDate(filter.To, "to"); err != nil {
		return nil, 0, err
	}

	if !actor.IsAdmin() {
		if actor.EngineerID == nil {
			return nil, 0, ErrNoEngineer
		}
		domainFilter.EngineerID = actor.EngineerID
	}

	logs, total, err := s.logRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToDailyLogResponses(logs), total, nil
}

// Update updates a daily log; nil fields are left unchanged
func (s *DailyLogService) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateDailyLogRequest) (*DailyLogResponse, error) {
	log, err := s.logRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(actor, log.EngineerID); err != nil {
		return nil, err
	}

	logDate, hours, notes := log.LogDate, log.Hours, log.Notes
	if req.LogDate != nil {
		if logDate, err = parseRequiredDate(*req.LogDate, "log_date"); err != nil {
			return nil, err
		}
	}
	if req.Hours != nil {
		hours = *req.Hours
	}
	if req.Notes != nil {
		notes = *req.Notes
	}

	if !actor.IsAdmin() && logDate != log.LogDate {
		p, err := s.projectRepo.FindByID(ctx, log.ProjectID)
		if err != nil {
			return nil, err
		}
		if !notification.CanLogOn(p, logDate, s.today()) {
			return nil, ErrLogDateNotOpen
		}
	}

	if err := log.Update(logDate, hours, notes); err != nil {
		return nil, err
	}

	submitted, reimbursed := log.Submitted, log.Reimbursed
	if req.Submitted != nil {
		submitted = *req.Submitted
	}
	if req.Reimbursed != nil {
		reimbursed = *req.Reimbursed
	}
	log.SetFlags(submitted, reimbursed)

	if err := s.logRepo.Save(ctx, log); err != nil {
		return nil, err
	}
	s.refresh.Enqueue(ctx, log.ProjectID)

	response := ToDailyLogResponse(log)
	return &response, nil
}

// Delete deletes a daily log
func (s *DailyLogService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	log, err := s.logRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwnership(actor, log.EngineerID); err != nil {
		return err
	}
	if err := s.logRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.refresh.Enqueue(ctx, log.ProjectID)
	return nil
}

func (s *DailyLogService) checkEngineerMayLog(actor Actor, p *project.Project, logDate shared.Date) error {
	if actor.EngineerID == nil {
		return ErrNoEngineer
	}
	if !p.IsAssigned(*actor.EngineerID) {
		return ErrNotAssigned
	}
	if !notification.CanLogOn(p, logDate, s.today()) {
		return ErrLogDateNotOpen
	}
	return nil
}

func checkOwnership(actor Actor, owner *uuid.UUID) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.EngineerID == nil {
		return ErrNoEngineer
	}
	if owner == nil || *owner != *actor.EngineerID {
		return ErrNotYourLog
	}
	return nil
}
