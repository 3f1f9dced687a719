package project

import (
	"context"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/shared"
)

// ProjectFilter narrows project listings
type ProjectFilter struct {
	shared.Filter
	Status     *Status
	CompanyID  *uuid.UUID
	EngineerID *uuid.UUID
}

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	// FindByID finds a project by ID with its assigned engineers loaded
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)

	// FindAll finds projects matching the filter and returns the total count
	FindAll(ctx context.Context, filter ProjectFilter) ([]Project, int64, error)

	// ListIDs returns the IDs of every project
	ListIDs(ctx context.Context) ([]uuid.UUID, error)

	// ExistsByCode checks if a project code is taken
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Save creates or updates a project
	Save(ctx context.Context, project *Project) error

	// Delete removes a project and its dependent rows
	Delete(ctx context.Context, id uuid.UUID) error

	// Assign adds or replaces an engineer assignment
	Assign(ctx context.Context, assignment *Assignment) error

	// Unassign removes an engineer assignment
	Unassign(ctx context.Context, projectID, engineerID uuid.UUID) error
}

// DailyLogFilter narrows daily log listings
type DailyLogFilter struct {
	shared.Filter
	ProjectID  *uuid.UUID
	EngineerID *uuid.UUID
	From       *shared.Date
	To         *shared.Date
}

// DailyLogRepository defines the interface for daily log persistence
type DailyLogRepository interface {
	// FindByID finds a daily log by ID
	FindByID(ctx context.Context, id uuid.UUID) (*DailyLog, error)

	// FindAll finds daily logs matching the filter and returns the total count
	FindAll(ctx context.Context, filter DailyLogFilter) ([]DailyLog, int64, error)

	// FindByProject returns every daily log of a project ordered by date
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]DailyLog, error)

	// Save creates or updates a daily log
	Save(ctx context.Context, log *DailyLog) error

	// Delete removes a daily log
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExpenseFilter narrows expense listings
type ExpenseFilter struct {
	shared.Filter
	ProjectID   *uuid.UUID
	EngineerID  *uuid.UUID
	Billable    *bool
	CompanyPaid *bool
	From        *shared.Date
	To          *shared.Date
}

// ExpenseRepository defines the interface for expense persistence
type ExpenseRepository interface {
	// FindByID finds an expense by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)

	// FindAll finds expenses matching the filter and returns the total count
	FindAll(ctx context.Context, filter ExpenseFilter) ([]Expense, int64, error)

	// FindByProject returns every expense of a project ordered by date
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]Expense, error)

	// Save creates or updates an expense
	Save(ctx context.Context, expense *Expense) error

	// Delete removes an expense
	Delete(ctx context.Context, id uuid.UUID) error
}

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	shared.Filter
	ProjectID *uuid.UUID
	Paid      *bool
	From      *shared.Date
	To        *shared.Date
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindAll finds invoices matching the filter and returns the total count
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, int64, error)

	// FindByProject returns every invoice of a project ordered by date
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]Invoice, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *Invoice) error

	// Delete removes an invoice
	Delete(ctx context.Context, id uuid.UUID) error
}
