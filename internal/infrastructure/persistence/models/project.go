package models

import (
	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/project"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProjectModel is the persistence model for project.Project. Assigned
// engineers live in project_engineers.
type ProjectModel struct {
	BaseModel
	Code          string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string                 `gorm:"type:varchar(200);not null"`
	CompanyID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	Status        project.Status         `gorm:"type:varchar(20);not null;index"`
	StartDate     *shared.Date           `gorm:"type:date"`
	EndDate       *shared.Date           `gorm:"type:date"`
	Description   string                 `gorm:"type:text"`
	Location      string                 `gorm:"type:varchar(200)"`
	ContractValue decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	Engineers     []ProjectEngineerModel `gorm:"foreignKey:ProjectID"`
}

func (ProjectModel) TableName() string { return "projects" }

func (m *ProjectModel) ToDomain() *project.Project {
	p := &project.Project{
		BaseEntity:    m.BaseModel.ToDomain(),
		Code:          m.Code,
		Name:          m.Name,
		CompanyID:     m.CompanyID,
		Status:        m.Status,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		Description:   m.Description,
		Location:      m.Location,
		ContractValue: m.ContractValue,
		EngineerIDs:   make([]uuid.UUID, 0, len(m.Engineers)),
	}
	for _, e := range m.Engineers {
		p.EngineerIDs = append(p.EngineerIDs, e.EngineerID)
	}
	return p
}

// ProjectModelFromDomain maps the project row only; assignments are written
// through the repository's Assign and Unassign.
func ProjectModelFromDomain(p *project.Project) *ProjectModel {
	return &ProjectModel{
		BaseModel:     baseFromDomain(p.BaseEntity),
		Code:          p.Code,
		Name:          p.Name,
		CompanyID:     p.CompanyID,
		Status:        p.Status,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		Description:   p.Description,
		Location:      p.Location,
		ContractValue: p.ContractValue,
	}
}

// ProjectEngineerModel links an engineer to a project.
type ProjectEngineerModel struct {
	ProjectID  uuid.UUID   `gorm:"type:uuid;primaryKey"`
	EngineerID uuid.UUID   `gorm:"type:uuid;primaryKey;index"`
	Role       string      `gorm:"type:varchar(50)"`
	AssignedOn shared.Date `gorm:"type:date;not null"`
}

func (ProjectEngineerModel) TableName() string { return "project_engineers" }

func ProjectEngineerModelFromDomain(a *project.Assignment) *ProjectEngineerModel {
	return &ProjectEngineerModel{
		ProjectID:  a.ProjectID,
		EngineerID: a.EngineerID,
		Role:       a.Role,
		AssignedOn: a.AssignedOn,
	}
}

// DailyLogModel is the persistence model for project.DailyLog.
type DailyLogModel struct {
	BaseModel
	ProjectID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_daily_logs_project_date"`
	EngineerID *uuid.UUID      `gorm:"type:uuid;index"`
	LogDate    shared.Date     `gorm:"type:date;not null;index:idx_daily_logs_project_date"`
	Hours      decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Submitted  bool            `gorm:"not null"`
	Reimbursed bool            `gorm:"not null"`
	Notes      string          `gorm:"type:text"`
}

func (DailyLogModel) TableName() string { return "daily_logs" }

func (m *DailyLogModel) ToDomain() *project.DailyLog {
	return &project.DailyLog{
		BaseEntity: m.BaseModel.ToDomain(),
		ProjectID:  m.ProjectID,
		EngineerID: m.EngineerID,
		LogDate:    m.LogDate,
		Hours:      m.Hours,
		Submitted:  m.Submitted,
		Reimbursed: m.Reimbursed,
		Notes:      m.Notes,
	}
}

func DailyLogModelFromDomain(l *project.DailyLog) *DailyLogModel {
	return &DailyLogModel{
		BaseModel:  baseFromDomain(l.BaseEntity),
		ProjectID:  l.ProjectID,
		EngineerID: l.EngineerID,
		LogDate:    l.LogDate,
		Hours:      l.Hours,
		Submitted:  l.Submitted,
		Reimbursed: l.Reimbursed,
		Notes:      l.Notes,
	}
}

// ExpenseModel is the persistence model for project.Expense.
type ExpenseModel struct {
	BaseModel
	ProjectID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	DailyLogID           *uuid.UUID      `gorm:"type:uuid;index"`
	EngineerID           *uuid.UUID      `gorm:"type:uuid;index"`
	ExpenseDate          shared.Date     `gorm:"type:date;not null;index"`
	Category             string          `gorm:"type:varchar(50)"`
	Description          string          `gorm:"type:text"`
	Amount               decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Billable             bool            `gorm:"not null"`
	SubmittedToCompany   bool            `gorm:"not null"`
	CompanyPaid          bool            `gorm:"not null"`
	ReimbursedToEngineer bool            `gorm:"not null"`
	ReceiptURL           *string         `gorm:"type:varchar(500)"`
}

func (ExpenseModel) TableName() string { return "expenses" }

func (m *ExpenseModel) ToDomain() *project.Expense {
	return &project.Expense{
		BaseEntity:           m.BaseModel.ToDomain(),
		ProjectID:            m.ProjectID,
		DailyLogID:           m.DailyLogID,
		EngineerID:           m.EngineerID,
		ExpenseDate:          m.ExpenseDate,
		Category:             m.Category,
		Description:          m.Description,
		Amount:               m.Amount,
		Billable:             m.Billable,
		SubmittedToCompany:   m.SubmittedToCompany,
		CompanyPaid:          m.CompanyPaid,
		ReimbursedToEngineer: m.ReimbursedToEngineer,
		ReceiptURL:           m.ReceiptURL,
	}
}

func ExpenseModelFromDomain(e *project.Expense) *ExpenseModel {
	return &ExpenseModel{
		BaseModel:            baseFromDomain(e.BaseEntity),
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
	}
}

// InvoiceModel is the persistence model for project.Invoice.
type InvoiceModel struct {
	BaseModel
	ProjectID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Number      string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	InvoiceDate shared.Date     `gorm:"type:date;not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Paid        bool            `gorm:"not null"`
	PaidDate    *shared.Date    `gorm:"type:date"`
	DocumentURL *string         `gorm:"type:varchar(500)"`
}

func (InvoiceModel) TableName() string { return "invoices" }

func (m *InvoiceModel) ToDomain() *project.Invoice {
	return &project.Invoice{
		BaseEntity:  m.BaseModel.ToDomain(),
		ProjectID:   m.ProjectID,
		Number:      m.Number,
		InvoiceDate: m.InvoiceDate,
		Amount:      m.Amount,
		Paid:        m.Paid,
		PaidDate:    m.PaidDate,
		DocumentURL: m.DocumentURL,
	}
}

func InvoiceModelFromDomain(i *project.Invoice) *InvoiceModel {
	return &InvoiceModel{
		BaseModel:   baseFromDomain(i.BaseEntity),
		ProjectID:   i.ProjectID,
		Number:      i.Number,
		InvoiceDate: i.InvoiceDate,
		Amount:      i.Amount,
		Paid:        i.Paid,
		PaidDate:    i.PaidDate,
		DocumentURL: i.DocumentURL,
	}
}
