package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Company DTOs
// =============================================================================

// CreateCompanyRequest represents a request to create a client company
type CreateCompanyRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	ContactName string `json:"contact_name" binding:"max=100"`
	Phone       string `json:"phone" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Address     string `json:"address" binding:"max=500"`
	Notes       string `json:"notes"`
}

// UpdateCompanyRequest represents a request to update a company
type UpdateCompanyRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	ContactName *string `json:"contact_name" binding:"omitempty,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Email       *string `json:"email" binding:"omitempty,email,max=200"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	Notes       *string `json:"notes"`
}

// CompanyListFilter represents filter options for the company list
type CompanyListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Address     string    `json:"address"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCompanyResponse converts a domain company to a response DTO
func ToCompanyResponse(c *partner.Company) CompanyResponse {
	return CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		ContactName: c.ContactName,
		Phone:       c.Phone,
		Email:       c.Email,
		Address:     c.Address,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToCompanyResponses converts a slice of domain companies
func ToCompanyResponses(companies []partner.Company) []CompanyResponse {
	responses := make([]CompanyResponse, len(companies))
	for i := range companies {
		responses[i] = ToCompanyResponse(&companies[i])
	}
	return responses
}

// =============================================================================
// Engineer DTOs
// =============================================================================

// CreateEngineerRequest represents a request to create an engineer
type CreateEngineerRequest struct {
	Name       string           `json:"name" binding:"required,min=1,max=200"`
	Email      string           `json:"email" binding:"omitempty,email,max=200"`
	Phone      string           `json:"phone" binding:"max=50"`
	HourlyRate *decimal.Decimal `json:"hourly_rate"`
}

// UpdateEngineerRequest represents a request to update an engineer
type UpdateEngineerRequest struct {
	Name       *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Email      *string          `json:"email" binding:"omitempty,email,max=200"`
	Phone      *string          `json:"phone" binding:"omitempty,max=50"`
	HourlyRate *decimal.Decimal `json:"hourly_rate"`
	Active     *bool            `json:"active"`
}

// EngineerListFilter represents filter options for the engineer list
type EngineerListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// EngineerResponse represents an engineer in API responses
type EngineerResponse struct {
	ID         uuid.UUID        `json:"id"`
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	Phone      string           `json:"phone"`
	HourlyRate *decimal.Decimal `json:"hourly_rate,omitempty"`
	Active     bool             `json:"active"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// ToEngineerResponse converts a domain engineer to a response DTO
func ToEngineerResponse(e *partner.Engineer) EngineerResponse {
	return EngineerResponse{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Phone:      e.Phone,
		HourlyRate: e.HourlyRate,
		Active:     e.Active,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

// ToEngineerResponses converts a slice of domain engineers
func ToEngineerResponses(engineers []partner.Engineer) []EngineerResponse {
	responses := make([]EngineerResponse, len(engineers))
	for i := range engineers {
		responses[i] = ToEngineerResponse(&engineers[i])
	}
	return responses
}
