package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/partner"
)

// EngineerService handles engineer operations
type EngineerService struct {
	engineerRepo partner.EngineerRepository
}

// NewEngineerService creates a new EngineerService
func NewEngineerService(engineerRepo partner.EngineerRepository) *EngineerService {
	return &EngineerService{
		engineerRepo: engineerRepo,
	}
}

// Create creates a new active engineer
func (s *EngineerService) Create(ctx context.Context, req CreateEngineerRequest) (*EngineerResponse, error) {
	engineer, err := partner.NewEngineer(req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	if req.Phone != "" {
		if err := engineer.Update(engineer.Name, engineer.Email, req.Phone); err != nil {
			return nil, err
		}
	}
	if req.HourlyRate != nil {
		if err := engineer.SetHourlyRate(req.HourlyRate); err != nil {
			return nil, err
		}
	}

	if err := s.engineerRepo.Save(ctx, engineer); err != nil {
		return nil, err
	}

	response := ToEngineerResponse(engineer)
	return &response, nil
}

// GetByID retrieves an engineer by ID
func (s *EngineerService) GetByID(ctx context.Context, id uuid.UUID) (*EngineerResponse, error) {
	engineer, err := s.engineerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToEngineerResponse(engineer)
	return &response, nil
}

// List retrieves a page of engineers
func (s *EngineerService) List(ctx context.Context, filter EngineerListFilter) ([]EngineerResponse, int64, error) {
	domainFilter := partner.EngineerFilter{
		Filter: toSharedFilter(filter.Search, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
		Active: filter.Active,
	}

	engineers, total, err := s.engineerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToEngineerResponses(engineers), total, nil
}

// Update updates an engineer; nil fields are left unchanged
func (s *EngineerService) Update(ctx context.Context, id uuid.UUID, req UpdateEngineerRequest) (*EngineerResponse, error) {
	engineer, err := s.engineerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, email, phone := engineer.Name, engineer.Email, engineer.Phone
	if req.Name != nil {
		name = *req.Name
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if err := engineer.Update(name, email, phone); err != nil {
		return nil, err
	}

	if req.HourlyRate != nil {
		if err := engineer.SetHourlyRate(req.HourlyRate); err != nil {
			return nil, err
		}
	}

	if req.Active != nil {
		if *req.Active {
			engineer.Activate()
		} else {
			engineer.Deactivate()
		}
	}

	if err := s.engineerRepo.Save(ctx, engineer); err != nil {
		return nil, err
	}

	response := ToEngineerResponse(engineer)
	return &response, nil
}

// Delete deletes an engineer
func (s *EngineerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.engineerRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.engineerRepo.Delete(ctx, id)
}
