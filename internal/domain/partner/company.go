package partner

import (
	"regexp"
	"strings"

	"github.com/opsboard/backend/internal/domain/shared"
)

var (
	phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Company is a client company that commissions projects
type Company struct {
	shared.BaseEntity
	Name        string
	ContactName string
	Email       string
	Phone       string
	Address     string
	Notes       string
}

// NewCompany creates a new company with required fields
func NewCompany(name string) (*Company, error) {
	name = strings.TrimSpace(name)
	if err := validateCompanyName(name); err != nil {
		return nil, err
	}

	return &Company{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}

// Rename changes the company's display name
func (c *Company) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateCompanyName(name); err != nil {
		return err
	}
	c.Name = name
	c.Touch()
	return nil
}

// SetContact sets the company's contact information
func (c *Company) SetContact(contactName, phone, email string) error {
	if len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	c.ContactName = contactName
	c.Phone = phone
	c.Email = email
	c.Touch()
	return nil
}

// SetAddress sets the company's postal address
func (c *Company) SetAddress(address string) error {
	if len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	c.Address = address
	c.Touch()
	return nil
}

func validateCompanyName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Company name cannot exceed 200 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	if !phonePattern.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
