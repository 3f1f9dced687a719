package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/shared"
)

// CompanyFilter narrows company listings
type CompanyFilter struct {
	shared.Filter
}

// CompanyRepository defines the interface for company persistence
type CompanyRepository interface {
	// FindByID finds a company by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)

	// FindAll finds companies matching the filter and returns the total count
	FindAll(ctx context.Context, filter CompanyFilter) ([]Company, int64, error)

	// Save creates or updates a company
	Save(ctx context.Context, company *Company) error

	// Delete removes a company
	Delete(ctx context.Context, id uuid.UUID) error

	// HasProjects reports whether any project references the company
	HasProjects(ctx context.Context, id uuid.UUID) (bool, error)
}

// EngineerFilter narrows engineer listings
type EngineerFilter struct {
	shared.Filter
	Active *bool
}

// EngineerRepository defines the interface for engineer persistence
type EngineerRepository interface {
	// FindByID finds an engineer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Engineer, error)

	// FindAll finds engineers matching the filter and returns the total count
	FindAll(ctx context.Context, filter EngineerFilter) ([]Engineer, int64, error)

	// Save creates or updates an engineer
	Save(ctx context.Context, engineer *Engineer) error

	// Delete removes an engineer
	Delete(ctx context.Context, id uuid.UUID) error
}
