package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/project"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/opsboard/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormExpenseRepository implements project.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Expense, error) {
	var model models.ExpenseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormExpenseRepository) FindAll(ctx context.Context, filter project.ExpenseFilter) ([]project.Expense, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ExpenseModel{})
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.EngineerID != nil {
		query = query.Where("engineer_id = ?", *filter.EngineerID)
	}
	if filter.Billable != nil {
		query = query.Where("billable = ?", *filter.Billable)
	}
	if filter.CompanyPaid != nil {
		query = query.Where("company_paid = ?", *filter.CompanyPaid)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(description) LIKE ? OR LOWER(category) LIKE ?", p, p)
	}
	query = dateRange(query, "expense_date", filter.From, filter.To)

	rows, total, err := listPage[models.ExpenseModel](query, filter.Filter, ExpenseSortFields, "expense_date")
	if err != nil {
		return nil, 0, err
	}

	expenses := make([]project.Expense, len(rows))
	for i := range rows {
		expenses[i] = *rows[i].ToDomain()
	}
	return expenses, total, nil
}

func (r *GormExpenseRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]project.Expense, error) {
	var rows []models.ExpenseModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("expense_date ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	expenses := make([]project.Expense, len(rows))
	for i := range rows {
		expenses[i] = *rows[i].ToDomain()
	}
	return expenses, nil
}

func (r *GormExpenseRepository) Save(ctx context.Context, expense *project.Expense) error {
	return r.db.WithContext(ctx).Save(models.ExpenseModelFromDomain(expense)).Error
}

func (r *GormExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ExpenseModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ project.ExpenseRepository = (*GormExpenseRepository)(nil)
