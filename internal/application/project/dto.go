package project

import (
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/project"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Project DTOs
// =============================================================================

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Code          string           `json:"code" binding:"required,min=1,max=50"`
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	CompanyID     uuid.UUID        `json:"company_id" binding:"required"`
	StartDate     string           `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate       string           `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Description   string           `json:"description"`
	Location      string           `json:"location" binding:"max=200"`
	ContractValue *decimal.Decimal `json:"contract_value"`
}

// UpdateProjectRequest represents a request to update a project.
// An empty date string clears the date.
type UpdateProjectRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	CompanyID     *uuid.UUID       `json:"company_id"`
	Status        *string          `json:"status" binding:"omitempty,oneof=ongoing completed bill_submitted to_be_submitted"`
	StartDate     *string          `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate       *string          `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Description   *string          `json:"description"`
	Location      *string          `json:"location" binding:"omitempty,max=200"`
	ContractValue *decimal.Decimal `json:"contract_value"`
}

// ProjectListFilter represents filter options for the project list
type ProjectListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status" binding:"omitempty,oneof=ongoing completed bill_submitted to_be_submitted"`
	CompanyID  string `form:"company_id" binding:"omitempty,uuid"`
	EngineerID string `form:"engineer_id" binding:"omitempty,uuid"`
	Page       int    `form:"page,default=1" binding:"min=1"`
	PageSize   int    `form:"page_size,default=20" binding:"min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AssignEngineerRequest represents a request to assign an engineer to a project
type AssignEngineerRequest struct {
	EngineerID uuid.UUID `json:"engineer_id" binding:"required"`
	Role       string    `json:"role" binding:"max=50"`
	AssignedOn string    `json:"assigned_on" binding:"omitempty,datetime=2006-01-02"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	CompanyID     uuid.UUID       `json:"company_id"`
	Status        string          `json:"status"`
	StartDate     *shared.Date    `json:"start_date"`
	EndDate       *shared.Date    `json:"end_date"`
	Description   string          `json:"description"`
	Location      string          `json:"location"`
	ContractValue decimal.Decimal `json:"contract_value"`
	EngineerIDs   []uuid.UUID     `json:"engineer_ids"`
	ValidDates    bool            `json:"valid_dates"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BucketResponse describes the date controls to show for a project
type BucketResponse struct {
	ProjectID uuid.UUID     `json:"project_id"`
	Bucket    string        `json:"bucket"`
	LogDates  []shared.Date `json:"log_dates"`
	Today     shared.Date   `json:"today"`
}

// ToProjectResponse converts a domain project to a response DTO
func ToProjectResponse(p *project.Project) ProjectResponse {
	engineerIDs := p.EngineerIDs
	if engineerIDs == nil {
		engineerIDs = []uuid.UUID{}
	}
	return ProjectResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		CompanyID:     p.CompanyID,
		Status:        p.Status.String(),
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		Description:   p.Description,
		Location:      p.Location,
		ContractValue: p.ContractValue,
		EngineerIDs:   engineerIDs,
		ValidDates:    p.HasValidDateRange(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToProjectResponses converts a slice of domain projects
func ToProjectResponses(projects []project.Project) []ProjectResponse {
	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = ToProjectResponse(&projects[i])
	}
	return responses
}

// =============================================================================
// Daily log DTOs
// =============================================================================

// CreateDailyLogRequest represents a request to record a day of work.
// EngineerID is ignored for engineer users, whose own ID is used.
type CreateDailyLogRequest struct {
	ProjectID  uuid.UUID       `json:"project_id" binding:"required"`
	LogDate    string          `json:"log_date" binding:"required,datetime=2006-01-02"`
	Hours      decimal.Decimal `json:"hours"`
	EngineerID *uuid.UUID      `json:"engineer_id"`
	Submitted  bool            `json:"submitted"`
	Reimbursed bool            `json:"reimbursed"`
	Notes      string          `json:"notes" binding:"max=2000"`
}

// UpdateDailyLogRequest represents a request to update a daily log
type UpdateDailyLogRequest struct {
	LogDate    *string          `json:"log_date" binding:"omitempty,datetime=2006-01-02"`
	Hours      *decimal.Decimal `json:"hours"`
	Submitted  *bool            `json:"submitted"`
	Reimbursed *bool            `json:"reimbursed"`
	Notes      *string          `json:"notes" binding:"omitempty,max=2000"`
}

// DailyLogListFilter represents filter options for the daily log list
type DailyLogListFilter struct {
	ProjectID  string `form:"project_id" binding:"omitempty,uuid"`
	EngineerID string `form:"engineer_id" binding:"omitempty,uuid"`
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page,default=1" binding:"min=1"`
	PageSize   int    `form:"page_size,default=20" binding:"min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// DailyLogResponse represents a daily log in API responses
type DailyLogResponse struct {
	ID         uuid.UUID       `json:"id"`
	ProjectID  uuid.UUID       `json:"project_id"`
	EngineerID *uuid.UUID      `json:"engineer_id"`
	LogDate    shared.Date     `json:"log_date"`
	Hours      decimal.Decimal `json:"hours"`
	Submitted  bool            `json:"submitted"`
	Reimbursed bool            `json:"reimbursed"`
	Notes      string          `json:"notes"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ToDailyLogResponse converts a domain daily log to a response DTO
func ToDailyLogResponse(l *project.DailyLog) DailyLogResponse {
	return DailyLogResponse{
		ID:         l.ID,
		ProjectID:  l.ProjectID,
		EngineerID: l.EngineerID,
		LogDate:    l.LogDate,
		Hours:      l.Hours,
		Submitted:  l.Submitted,
		Reimbursed: l.Reimbursed,
		Notes:      l.Notes,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

// ToDailyLogResponses converts a slice of domain daily logs
func ToDailyLogResponses(logs []project.DailyLog) []DailyLogResponse {
	responses := make([]DailyLogResponse, len(logs))
	for i := range logs {
		responses[i] = ToDailyLogResponse(&logs[i])
	}
	return responses
}

// =============================================================================
// Expense DTOs
// =============================================================================

// CreateExpenseRequest represents a request to record an expense
type CreateExpenseRequest struct {
	ProjectID            uuid.UUID       `json:"project_id" binding:"required"`
	ExpenseDate          string          `json:"expense_date" binding:"required,datetime=2006-01-02"`
	Amount               decimal.Decimal `json:"amount"`
	Billable             bool            `json:"billable"`
	Category             string          `json:"category" binding:"max=50"`
	Description          string          `json:"description" binding:"max=1000"`
	DailyLogID           *uuid.UUID      `json:"daily_log_id"`
	EngineerID           *uuid.UUID      `json:"engineer_id"`
	SubmittedToCompany   bool            `json:"submitted_to_company"`
	CompanyPaid          bool            `json:"company_paid"`
	ReimbursedToEngineer bool            `json:"reimbursed_to_engineer"`
}

// UpdateExpenseRequest represents a request to update an expense
type UpdateExpenseRequest struct {
	ExpenseDate          *string          `json:"expense_date" binding:"omitempty,datetime=2006-01-02"`
	Amount               *decimal.Decimal `json:"amount"`
	Billable             *bool            `json:"billable"`
	Category             *string          `json:"category" binding:"omitempty,max=50"`
	Description          *string          `json:"description" binding:"omitempty,max=1000"`
	DailyLogID           *uuid.UUID       `json:"daily_log_id"`
	SubmittedToCompany   *bool            `json:"submitted_to_company"`
	CompanyPaid          *bool            `json:"company_paid"`
	ReimbursedToEngineer *bool            `json:"reimbursed_to_engineer"`
	ReceiptURL           *string          `json:"receipt_url" binding:"omitempty,url"`
}

// ExpenseListFilter represents filter options for the expense list
type ExpenseListFilter struct {
	ProjectID   string `form:"project_id" binding:"omitempty,uuid"`
	EngineerID  string `form:"engineer_id" binding:"omitempty,uuid"`
	Billable    *bool  `form:"billable"`
	CompanyPaid *bool  `form:"company_paid"`
	From        string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To          string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page        int    `form:"page,default=1" binding:"min=1"`
	PageSize    int    `form:"page_size,default=20" binding:"min=1,max=100"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID                   uuid.UUID       `json:"id"`
	ProjectID            uuid.UUID       `json:"project_id"`
	DailyLogID           *uuid.UUID      `json:"daily_log_id"`
	EngineerID           *uuid.UUID      `json:"engineer_id"`
	ExpenseDate          shared.Date     `json:"expense_date"`
	Category             string          `json:"category"`
	Description          string          `json:"description"`
	Amount               decimal.Decimal `json:"amount"`
	Billable             bool            `json:"billable"`
	SubmittedToCompany   bool            `json:"submitted_to_company"`
	CompanyPaid          bool            `json:"company_paid"`
	ReimbursedToEngineer bool            `json:"reimbursed_to_engineer"`
	ReceiptURL           *string         `json:"receipt_url"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ToExpenseResponse converts a domain expense to a response DTO
func ToExpenseResponse(e *project.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:                   e.ID,
		ProjectID:            e.ProjectID,
		DailyLogID:           e.DailyLogID,
		EngineerID:           e.EngineerID,
		ExpenseDate:          e.ExpenseDate,
		Category:             e.Category,
		Description:          e.Description,
		Amount:               e.Amount,
		Billable:             e.Billable,
		SubmittedToCompany:   e.SubmittedToCompany,
		CompanyPaid:          e.CompanyPaid,
		ReimbursedToEngineer: e.ReimbursedToEngineer,
		ReceiptURL:           e.ReceiptURL,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}

// ToExpenseResponses converts a slice of domain expenses
func ToExpenseResponses(expenses []project.Expense) []ExpenseResponse {
	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = ToExpenseResponse(&expenses[i])
	}
	return responses
}

// =============================================================================
// Invoice DTOs
// =============================================================================

// CreateInvoiceRequest represents a request to issue an invoice
type CreateInvoiceRequest struct {
	ProjectID   uuid.UUID       `json:"project_id" binding:"required"`
	Number      string          `json:"number" binding:"max=50"`
	InvoiceDate string          `json:"invoice_date" binding:"required,datetime=2006-01-02"`
	Amount      decimal.Decimal `json:"amount"`
}

// UpdateInvoiceRequest represents a request to update an invoice
type UpdateInvoiceRequest struct {
	Number      *string          `json:"number" binding:"omitempty,max=50"`
	InvoiceDate *string          `json:"invoice_date" binding:"omitempty,datetime=2006-01-02"`
	Amount      *decimal.Decimal `json:"amount"`
}

// MarkInvoicePaidRequest represents a request to record payment; PaidDate defaults to today
type MarkInvoicePaidRequest struct {
	PaidDate string `json:"paid_date" binding:"omitempty,datetime=2006-01-02"`
}

// UploadDocumentRequest carries an invoice document upload
type UploadDocumentRequest struct {
	Filename    string
	ContentType string
	Size        int64
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	ProjectID string `form:"project_id" binding:"omitempty,uuid"`
	Paid      *bool  `form:"paid"`
	From      string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page      int    `form:"page,default=1" binding:"min=1"`
	PageSize  int    `form:"page_size,default=20" binding:"min=1,max=100"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProjectID   uuid.UUID       `json:"project_id"`
	Number      string          `json:"number"`
	InvoiceDate shared.Date     `json:"invoice_date"`
	Amount      decimal.Decimal `json:"amount"`
	Paid        bool            `json:"paid"`
	PaidDate    *shared.Date    `json:"paid_date"`
	DocumentURL *string         `json:"document_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToInvoiceResponse converts a domain invoice to a response DTO
func ToInvoiceResponse(i *project.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:          i.ID,
		ProjectID:   i.ProjectID,
		Number:      i.Number,
		InvoiceDate: i.InvoiceDate,
		Amount:      i.Amount,
		Paid:        i.Paid,
		PaidDate:    i.PaidDate,
		DocumentURL: i.DocumentURL,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// ToInvoiceResponses converts a slice of domain invoices
func ToInvoiceResponses(invoices []project.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses
}
