package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/identity"
	"github.com/opsboard/backend/internal/domain/shared"
)

// Actor is the authenticated user on whose behalf an operation runs
type Actor struct {
	UserID     uuid.UUID
	Role       identity.Role
	EngineerID *uuid.UUID
}

// SystemActor is used by background jobs and the admin CLI
var SystemActor = Actor{Role: identity.RoleAdmin}

// IsAdmin reports whether the actor bypasses engineer restrictions
func (a Actor) IsAdmin() bool {
	return a.Role == identity.RoleAdmin
}

// RefreshQueue is told when rows feeding a project's notifications change
type RefreshQueue interface {
	Enqueue(ctx context.Context, projectID uuid.UUID)
}

type noopRefreshQueue struct{}

func (noopRefreshQueue) Enqueue(context.Context, uuid.UUID) {}

// clock returns today's date in the configured business timezone
type clock func() shared.Date

func newClock(loc *time.Location) clock {
	return func() shared.Date { return shared.Today(loc) }
}

func parseOptionalID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid ID: "+s)
	}
	return &id, nil
}

func parseRequiredDate(s, field string) (shared.Date, error) {
	d, err := shared.ParseDate(s)
	if err != nil {
		return shared.Date{}, shared.NewDomainError("INVALID_DATE", "Invalid "+field+": "+s)
	}
	return d, nil
}

func parseFilterDate(s, field string) (*shared.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseRequiredDate(s, field)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func toSharedFilter(page, pageSize int, orderBy, orderDir string) shared.Filter {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	if orderBy != "" {
		filter.OrderBy = orderBy
	}
	if orderDir != "" {
		filter.OrderDir = orderDir
	}
	return filter
}
