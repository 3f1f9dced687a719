package partner

import (
	"strings"

	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Engineer is a field engineer who can be assigned to projects
type Engineer struct {
	shared.BaseEntity
	Name       string
	Email      string
	Phone      string
	HourlyRate *decimal.Decimal
	Active     bool
}

// NewEngineer creates an active engineer
func NewEngineer(name, email string) (*Engineer, error) {
	name = strings.TrimSpace(name)
	if err := validateEngineerName(name); err != nil {
		return nil, err
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}

	return &Engineer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      email,
		Active:     true,
	}, nil
}

// Update replaces the engineer's contact details
func (e *Engineer) Update(name, email, phone string) error {
	name = strings.TrimSpace(name)
	if err := validateEngineerName(name); err != nil {
		return err
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}

	e.Name = name
	e.Email = email
	e.Phone = phone
	e.Touch()
	return nil
}

// SetHourlyRate sets or clears the billing rate
func (e *Engineer) SetHourlyRate(rate *decimal.Decimal) error {
	if rate != nil && rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Hourly rate cannot be negative")
	}
	e.HourlyRate = rate
	e.Touch()
	return nil
}

// Deactivate marks the engineer as no longer available for assignment
func (e *Engineer) Deactivate() {
	e.Active = false
	e.Touch()
}

// Activate makes the engineer available again
func (e *Engineer) Activate() {
	e.Active = true
	e.Touch()
}

func validateEngineerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Engineer name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Engineer name cannot exceed 100 characters")
	}
	return nil
}
