package project

import (
	"strings"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Expense is money spent on a project, optionally tied to a daily log
type Expense struct {
	shared.BaseEntity
	ProjectID            uuid.UUID
	DailyLogID           *uuid.UUID
	EngineerID           *uuid.UUID
	ExpenseDate          shared.Date
	Category             string
	Description          string
	Amount               decimal.Decimal
	Billable             bool
	SubmittedToCompany   bool
	CompanyPaid          bool
	ReimbursedToEngineer bool
	ReceiptURL           *string
}

// NewExpense creates an expense with no status flags set
func NewExpense(projectID uuid.UUID, expenseDate shared.Date, amount decimal.Decimal, billable bool) (*Expense, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project is required")
	}
	if expenseDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Expense date is required")
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	return &Expense{
		BaseEntity:  shared.NewBaseEntity(),
		ProjectID:   projectID,
		ExpenseDate: expenseDate,
		Amount:      amount,
		Billable:    billable,
	}, nil
}

// Update replaces the editable fields
func (e *Expense) Update(expenseDate shared.Date, amount decimal.Decimal, billable bool, category, description string) error {
	if expenseDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Expense date is required")
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	if len(category) > 50 {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot exceed 50 characters")
	}
	e.ExpenseDate = expenseDate
	e.Amount = amount
	e.Billable = billable
	e.Category = strings.TrimSpace(category)
	e.Description = description
	e.Touch()
	return nil
}

// LinkDailyLog ties the expense to a daily log, or unlinks it when nil
func (e *Expense) LinkDailyLog(dailyLogID *uuid.UUID) {
	e.DailyLogID = dailyLogID
	e.Touch()
}

// AssignEngineer sets or clears the engineer who incurred the expense
func (e *Expense) AssignEngineer(engineerID *uuid.UUID) {
	e.EngineerID = engineerID
	e.Touch()
}

// SetReceiptURL sets or clears the receipt location
func (e *Expense) SetReceiptURL(url *string) {
	if url != nil && strings.TrimSpace(*url) == "" {
		url = nil
	}
	e.ReceiptURL = url
	e.Touch()
}

// SetStatus sets the three settlement flags.
// A company cannot pay an expense that was never submitted to it.
func (e *Expense) SetStatus(submitted, companyPaid, reimbursed bool) error {
	if companyPaid && !submitted {
		return shared.NewDomainError("INVALID_STATE", "Expense must be submitted to the company before it can be paid")
	}
	e.SubmittedToCompany = submitted
	e.CompanyPaid = companyPaid
	e.ReimbursedToEngineer = reimbursed
	e.Touch()
	return nil
}

// AwaitingCompanyPayment reports whether the company owes this expense
func (e *Expense) AwaitingCompanyPayment() bool {
	return e.SubmittedToCompany && !e.CompanyPaid
}

func validateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	return nil
}
