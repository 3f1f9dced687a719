package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/shared"
)

// Filter narrows cached notification listings
type Filter struct {
	shared.Filter
	ProjectID *uuid.UUID
	Kind      *Kind
}

// Repository stores the notification cache table
type Repository interface {
	// ReplaceForProject atomically swaps a project's cached notifications
	ReplaceForProject(ctx context.Context, projectID uuid.UUID, notifications []Notification, computedAt time.Time) error

	// FindAll lists cached notifications matching the filter and returns the total count
	FindAll(ctx context.Context, filter Filter) ([]Notification, int64, error)

	// FindByProject lists a project's cached notifications in derivation order
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]Notification, error)

	// TotalsByProject aggregates cached notifications per project
	TotalsByProject(ctx context.Context) (map[uuid.UUID]Totals, error)

	// DeleteByProject drops a project's cached notifications
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
}
