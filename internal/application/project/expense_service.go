package project

import (
	"context"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/project"
)

// ExpenseService handles project expense operations
type ExpenseService struct {
	expenseRepo project.ExpenseRepository
	projectRepo project.ProjectRepository
	logRepo     project.DailyLogRepository
	refresh     RefreshQueue
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo project.ExpenseRepository, projectRepo project.ProjectRepository, logRepo project.DailyLogRepository) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		projectRepo: projectRepo,
		logRepo:     logRepo,
		refresh:     noopRefreshQueue{},
	}
}

// SetRefreshQueue sets where expense changes are reported
func (s *ExpenseService) SetRefreshQueue(q RefreshQueue) {
	if q != nil {
		s.refresh = q
	}
}

// Create records an expense against a project
func (s *ExpenseService) Create(ctx context.Context, req CreateExpenseRequest) (*ExpenseResponse, error) {
	expenseDate, err := parseRequiredDate(req.ExpenseDate, "expense_date")
	if err != nil {
		return nil, err
	}
	if _, err := s.projectRepo.FindByID(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	expense, err := project.NewExpense(req.ProjectID, expenseDate, req.Amount, req.Billable)
	if err != nil {
		return nil, err
	}
	if req.Category != "" || req.Description != "" {
		if err := expense.Update(expenseDate, req.Amount, req.Billable, req.Category, req.Description); err != nil {
			return nil, err
		}
	}
	if req.DailyLogID != nil {
		if err := s.checkDailyLog(ctx, req.ProjectID, *req.DailyLogID); err != nil {
			return nil, err
		}
		expense.LinkDailyLog(req.DailyLogID)
	}
	expense.AssignEngineer(req.EngineerID)
	if err := expense.SetStatus(req.SubmittedToCompany, req.CompanyPaid, req.ReimbursedToEngineer); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	s.refresh.Enqueue(ctx, expense.ProjectID)

	response := ToExpenseResponse(expense)
	return &response, nil
}

// GetByID retrieves an expense
func (s *ExpenseService) GetByID(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToExpenseResponse(expense)
	return &response, nil
}

// List retrieves a page of expenses
func (s *ExpenseService) List(ctx context.Context, filter ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	domainFilter := project.ExpenseFilter{
		Filter:      toSharedFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
		Billable:    filter.Billable,
		CompanyPaid: filter.CompanyPaid,
	}

	var err error
	if domainFilter.ProjectID, err = parseOptionalID(filter.ProjectID); err != nil {
		return nil, 0, err
	}
	if domainFilter.EngineerID, err = parseOptionalID(filter.EngineerID); err != nil {
		return nil, 0, err
	}
	if domainFilter.From, err = parseFilterDate(filter.From, "from"); err != nil {
		return nil, 0, err
	}
	if domainFilter.To, err = parseFilterDate(filter.To, "to"); err != nil {
		return nil, 0, err
	}

	expenses, total, err := s.expenseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToExpenseResponses(expenses), total, nil
}

// Update updates an expense; nil fields are left unchanged
func (s *ExpenseService) Update(ctx context.Context, id uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	expenseDate := expense.ExpenseDate
	if req.ExpenseDate != nil {
		if expenseDate, err = parseRequiredDate(*req.ExpenseDate, "expense_date"); err != nil {
			return nil, err
		}
	}
	amount, billable := expense.Amount, expense.Billable
	category, description := expense.Category, expense.Description
	if req.Amount != nil {
		amount = *req.Amount
	}
	if req.Billable != nil {
		billable = *req.Billable
	}
	if req.Category != nil {
		category = *req.Category
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := expense.Update(expenseDate, amount, billable, category, description); err != nil {
		return nil, err
	}

	if req.DailyLogID != nil {
		if err := s.checkDailyLog(ctx, expense.ProjectID, *req.DailyLogID); err != nil {
			return nil, err
		}
		expense.LinkDailyLog(req.DailyLogID)
	}

	if req.SubmittedToCompany != nil || req.CompanyPaid != nil || req.ReimbursedToEngineer != nil {
		submitted, paid, reimbursed := expense.SubmittedToCompany, expense.CompanyPaid, expense.ReimbursedToEngineer
		if req.SubmittedToCompany != nil {
			submitted = *req.SubmittedToCompany
		}
		if req.CompanyPaid != nil {
			paid = *req.CompanyPaid
		}
		if req.ReimbursedToEngineer != nil {
			reimbursed = *req.ReimbursedToEngineer
		}
		if err := expense.SetStatus(submitted, paid, reimbursed); err != nil {
			return nil, err
		}
	}

	if req.ReceiptURL != nil {
		url := *req.ReceiptURL
		if url == "" {
			expense.SetReceiptURL(nil)
		} else {
			expense.SetReceiptURL(&url)
		}
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	s.refresh.Enqueue(ctx, expense.ProjectID)

	response := ToExpenseResponse(expense)
	return &response, nil
}

// Delete deletes an expense
func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID) error {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.refresh.Enqueue(ctx, expense.ProjectID)
	return nil
}

func (s *ExpenseService) checkDailyLog(ctx context.Context, projectID, logID uuid.UUID) error {
	log, err := s.logRepo.FindByID(ctx, logID)
	if err != nil {
		return err
	}
	if log.ProjectID != projectID {
		return ErrProjectMismatch
	}
	return nil
}
