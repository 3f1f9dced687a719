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

// GormInvoiceRepository implements project.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter project.InvoiceFilter) ([]project.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{})
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Paid != nil {
		query = query.Where("paid = ?", *filter.Paid)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(number) LIKE ?", likePattern(filter.Search))
	}
	query = dateRange(query, "invoice_date", filter.From, filter.To)

	rows, total, err := listPage[models.InvoiceModel](query, filter.Filter, InvoiceSortFields, "invoice_date")
	if err != nil {
		return nil, 0, err
	}

	invoices := make([]project.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, total, nil
}

func (r *GormInvoiceRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]project.Invoice, error) {
	var rows []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("invoice_date ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	invoices := make([]project.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, nil
}

func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *project.Invoice) error {
	return r.db.WithContext(ctx).Save(models.InvoiceModelFromDomain(invoice)).Error
}

func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InvoiceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ project.InvoiceRepository = (*GormInvoiceRepository)(nil)
