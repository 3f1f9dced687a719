package project

import (
	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var maxDailyHours = decimal.NewFromInt(24)

// DailyLog records a day of work on a project
type DailyLog struct {
	shared.BaseEntity
	ProjectID  uuid.UUID
	EngineerID *uuid.UUID
	LogDate    shared.Date
	Hours      decimal.Decimal
	Submitted  bool
	Reimbursed bool
	Notes      string
}

// NewDailyLog creates a daily log for the given date
func NewDailyLog(projectID uuid.UUID, logDate shared.Date, hours decimal.Decimal) (*DailyLog, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project is required")
	}
	if logDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Log date is required")
	}
	if err := validateHours(hours); err != nil {
		return nil, err
	}

	return &DailyLog{
		BaseEntity: shared.NewBaseEntity(),
		ProjectID:  projectID,
		LogDate:    logDate,
		Hours:      hours,
	}, nil
}

// Update replaces the editable fields
func (l *DailyLog) Update(logDate shared.Date, hours decimal.Decimal, notes string) error {
	if logDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Log date is required")
	}
	if err := validateHours(hours); err != nil {
		return err
	}
	l.LogDate = logDate
	l.Hours = hours
	l.Notes = notes
	l.Touch()
	return nil
}

// AssignEngineer sets or clears the engineer who worked the day
func (l *DailyLog) AssignEngineer(engineerID *uuid.UUID) {
	l.EngineerID = engineerID
	l.Touch()
}

// SetFlags sets the submitted and reimbursed flags
func (l *DailyLog) SetFlags(submitted, reimbursed bool) {
	l.Submitted = submitted
	l.Reimbursed = reimbursed
	l.Touch()
}

func validateHours(hours decimal.Decimal) error {
	if hours.IsNegative() {
		return shared.NewDomainError("INVALID_HOURS", "Hours cannot be negative")
	}
	if hours.GreaterThan(maxDailyHours) {
		return shared.NewDomainError("INVALID_HOURS", "Hours cannot exceed 24 per day")
	}
	return nil
}
