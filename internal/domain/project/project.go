package project

import (
	"strings"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a project
type Status string

const (
	StatusOngoing       Status = "ongoing"
	StatusCompleted     Status = "completed"
	StatusBillSubmitted Status = "bill_submitted"
	StatusToBeSubmitted Status = "to_be_submitted"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusOngoing, StatusCompleted, StatusBillSubmitted, StatusToBeSubmitted:
		return true
	}
	return false
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// AllStatuses returns every project status
func AllStatuses() []Status {
	return []Status{StatusOngoing, StatusCompleted, StatusBillSubmitted, StatusToBeSubmitted}
}

// Project is the aggregate root for a piece of contracted work.
// An end date before the start date is accepted and surfaced as a notification.
type Project struct {
	shared.BaseEntity
	Code          string
	Name          string
	CompanyID     uuid.UUID
	Status        Status
	StartDate     *shared.Date
	EndDate       *shared.Date
	Description   string
	Location      string
	ContractValue decimal.Decimal
	EngineerIDs   []uuid.UUID
}

// NewProject creates an ongoing project
func NewProject(code, name string, companyID uuid.UUID, start, end *shared.Date) (*Project, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company is required")
	}

	return &Project{
		BaseEntity:    shared.NewBaseEntity(),
		Code:          code,
		Name:          name,
		CompanyID:     companyID,
		Status:        StatusOngoing,
		StartDate:     start,
		EndDate:       end,
		ContractValue: decimal.Zero,
	}, nil
}

// Update changes the descriptive fields
func (p *Project) Update(name, description, location string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	p.Name = name
	p.Description = description
	p.Location = location
	p.Touch()
	return nil
}

// Reassign moves the project to another company
func (p *Project) Reassign(companyID uuid.UUID) error {
	if companyID == uuid.Nil {
		return shared.NewDomainError("INVALID_COMPANY", "Company is required")
	}
	p.CompanyID = companyID
	p.Touch()
	return nil
}

// Reschedule replaces the start and end dates. Either may be nil.
func (p *Project) Reschedule(start, end *shared.Date) {
	p.StartDate = start
	p.EndDate = end
	p.Touch()
}

// SetContractValue sets the agreed contract value
func (p *Project) SetContractValue(value decimal.Decimal) error {
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Contract value cannot be negative")
	}
	p.ContractValue = value
	p.Touch()
	return nil
}

// ChangeStatus moves the project to the given status
func (p *Project) ChangeStatus(status Status) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid project status")
	}
	p.Status = status
	p.Touch()
	return nil
}

// IsCompleted returns true if the project is completed
func (p *Project) IsCompleted() bool {
	return p.Status == StatusCompleted
}

// HasValidDateRange reports false only when both dates are set and end precedes start
func (p *Project) HasValidDateRange() bool {
	if p.StartDate == nil || p.EndDate == nil {
		return true
	}
	return !p.EndDate.Before(*p.StartDate)
}

// IsAssigned reports whether the engineer is assigned to the project
func (p *Project) IsAssigned(engineerID uuid.UUID) bool {
	for _, id := range p.EngineerIDs {
		if id == engineerID {
			return true
		}
	}
	return false
}

func validateCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Project code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Project code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Project code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot exceed 200 characters")
	}
	return nil
}
