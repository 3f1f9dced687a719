package project

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/notification"
	"github.com/opsboard/backend/internal/domain/partner"
	"github.com/opsboard/backend/internal/domain/project"
	"github.com/opsboard/backend/internal/domain/shared"
)

// ProjectService handles project operations
type ProjectService struct {
	projectRepo  project.ProjectRepository
	companyRepo  partner.CompanyRepository
	engineerRepo partner.EngineerRepository
	refresh      RefreshQueue
	today        clock
}

// NewProjectService creates a new ProjectService; loc decides the current day
func NewProjectService(
	projectRepo project.ProjectRepository,
	companyRepo partner.CompanyRepository,
	engineerRepo partner.EngineerRepository,
	loc *time.Location,
) *ProjectService {
	return &ProjectService{
		projectRepo:  projectRepo,
		companyRepo:  companyRepo,
		engineerRepo: engineerRepo,
		refresh:      noopRefreshQueue{},
		today:        newClock(loc),
	}
}

// SetRefreshQueue sets where project changes are reported
func (s *ProjectService) SetRefreshQueue(q RefreshQueue) {
	if q != nil {
		s.refresh = q
	}
}

// Create creates a new ongoing project
func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest) (*ProjectResponse, error) {
	exists, err := s.projectRepo.ExistsByCode(ctx, strings.ToUpper(strings.TrimSpace(req.Code)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Project with this code already exists")
	}

	if _, err := s.companyRepo.FindByID(ctx, req.CompanyID); err != nil {
		return nil, err
	}

	p, err := project.NewProject(req.Code, req.Name, req.CompanyID,
		shared.ParseOptionalDate(req.StartDate), shared.ParseOptionalDate(req.EndDate))
	if err != nil {
		return nil, err
	}

	if req.Description != "" || req.Location != "" {
		if err := p.Update(p.Name, req.Description, req.Location); err != nil {
			return nil, err
		}
	}
	if req.ContractValue != nil {
		if err := p.SetContractValue(*req.ContractValue); err != nil {
			return nil, err
		}
	}

	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.refresh.Enqueue(ctx, p.ID)

	response := ToProjectResponse(p)
	return &response, nil
}

// GetByID retrieves a project with its assigned engineers
func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProjectResponse(p)
	return &response, nil
}

// List retrieves a page of projects
func (s *ProjectService) List(ctx context.Context, filter ProjectListFilter) ([]ProjectResponse, int64, error) {
	domainFilter := project.ProjectFilter{
		Filter: toSharedFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
	}
	domainFilter.Search = filter.Search

	if filter.Status != "" {
		status := project.Status(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Invalid project status")
		}
		domainFilter.Status = &status
	}

	var err error
	if domainFilter.CompanyID, err = parseOptionalID(filter.CompanyID); err != nil {
		return nil, 0, err
	}
	if domainFilter.EngineerID, err = parseOptionalID(filter.EngineerID); err != nil {
		return nil, 0, err
	}

	projects, total, err := s.projectRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProjectResponses(projects), total, nil
}

// Update updates a project; nil fields are left unchanged
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, req UpdateProjectRequest) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil || req.Location != nil {
		name, description, location := p.Name, p.Description, p.Location
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if req.Location != nil {
			location = *req.Location
		}
		if err := p.Update(name, description, location); err != nil {
			return nil, err
		}
	}

	if req.CompanyID != nil && *req.CompanyID != p.CompanyID {
		if _, err := s.companyRepo.FindByID(ctx, *req.CompanyID); err != nil {
			return nil, err
		}
		if err := p.Reassign(*req.CompanyID); err != nil {
			return nil, err
		}
	}

	if req.StartDate != nil || req.EndDate != nil {
		start, end := p.StartDate, p.EndDate
		if req.StartDate != nil {
			start = shared.ParseOptionalDate(*req.StartDate)
		}
		if req.EndDate != nil {
			end = shared.ParseOptionalDate(*req.EndDate)
		}
		p.Reschedule(start, end)
	}

	if req.Status != nil {
		if err := p.ChangeStatus(project.Status(*req.Status)); err != nil {
			return nil, err
		}
	}

	if req.ContractValue != nil {
		if err := p.SetContractValue(*req.ContractValue); err != nil {
			return nil, err
		}
	}

	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.refresh.Enqueue(ctx, p.ID)

	response := ToProjectResponse(p)
	return &response, nil
}

// Delete deletes a project and its dependent rows
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.projectRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.refresh.Enqueue(ctx, id)
	return nil
}

// AssignEngineer links an active engineer to a project
func (s *ProjectService) AssignEngineer(ctx context.Context, projectID uuid.UUID, req AssignEngineerRequest) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	engineer, err := s.engineerRepo.FindByID(ctx, req.EngineerID)
	if err != nil {
		return nil, err
	}
	if !engineer.Active {
		return nil, shared.NewDomainError("ENGINEER_INACTIVE", "Cannot assign an inactive engineer")
	}

	on := s.today()
	if req.AssignedOn != "" {
		if on, err = parseRequiredDate(req.AssignedOn, "assigned_on"); err != nil {
			return nil, err
		}
	}

	assignment, err := project.NewAssignment(p.ID, engineer.ID, req.Role, on)
	if err != nil {
		return nil, err
	}
	if err := s.projectRepo.Assign(ctx, assignment); err != nil {
		return nil, err
	}

	if !p.IsAssigned(engineer.ID) {
		p.EngineerIDs = append(p.EngineerIDs, engineer.ID)
	}
	response := ToProjectResponse(p)
	return &response, nil
}

// UnassignEngineer removes an engineer from a project
func (s *ProjectService) UnassignEngineer(ctx context.Context, projectID, engineerID uuid.UUID) error {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return err
	}
	return s.projectRepo.Unassign(ctx, projectID, engineerID)
}

// Bucket returns the display bucket and loggable dates of a project.
// A nil today means the current day.
func (s *ProjectService) Bucket(ctx context.Context, id uuid.UUID, today *shared.Date) (*BucketResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	day := s.today()
	if today != nil {
		day = *today
	}

	bucket := notification.BucketFor(p, day)
	dates := notification.LogDates(bucket, p.StartDate, p.EndDate, day)
	if dates == nil {
		dates = []shared.Date{}
	}

	return &BucketResponse{
		ProjectID: p.ID,
		Bucket:    bucket.String(),
		LogDates:  dates,
		Today:     day,
	}, nil
}
