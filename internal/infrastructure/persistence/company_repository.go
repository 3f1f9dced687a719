package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/partner"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/opsboard/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCompanyRepository implements partner.CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormCompanyRepository) FindAll(ctx context.Context, filter partner.CompanyFilter) ([]partner.Company, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CompanyModel{})
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(contact_name) LIKE ? OR LOWER(email) LIKE ?", p, p, p)
	}

	rows, total, err := listPage[models.CompanyModel](query, filter.Filter, CompanySortFields, "name")
	if err != nil {
		return nil, 0, err
	}

	companies := make([]partner.Company, len(rows))
	for i := range rows {
		companies[i] = *rows[i].ToDomain()
	}
	return companies, total, nil
}

func (r *GormCompanyRepository) Save(ctx context.Context, company *partner.Company) error {
	return r.db.WithContext(ctx).Save(models.CompanyModelFromDomain(company)).Error
}

func (r *GormCompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CompanyModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormCompanyRepository) HasProjects(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProjectModel{}).Where("company_id = ?", id).Count(&count).Error
	return count > 0, err
}

var _ partner.CompanyRepository = (*GormCompanyRepository)(nil)

// GormEngineerRepository implements partner.EngineerRepository using GORM
type GormEngineerRepository struct {
	db *gorm.DB
}

// NewGormEngineerRepository creates a new GormEngineerRepository
func NewGormEngineerRepository(db *gorm.DB) *GormEngineerRepository {
	return &GormEngineerRepository{db: db}
}

func (r *GormEngineerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Engineer, error) {
	var model models.EngineerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormEngineerRepository) FindAll(ctx context.Context, filter partner.EngineerFilter) ([]partner.Engineer, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.EngineerModel{})
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", p, p)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	rows, total, err := listPage[models.EngineerModel](query, filter.Filter, EngineerSortFields, "name")
	if err != nil {
		return nil, 0, err
	}

	engineers := make([]partner.Engineer, len(rows))
	for i := range rows {
		engineers[i] = *rows[i].ToDomain()
	}
	return engineers, total, nil
}

func (r *GormEngineerRepository) Save(ctx context.Context, engineer *partner.Engineer) error {
	return r.db.WithContext(ctx).Save(models.EngineerModelFromDomain(engineer)).Error
}

// Delete removes the engineer together with its project assignments.
func (r *GormEngineerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("engineer_id = ?", id).Delete(&models.ProjectEngineerModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.EngineerModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

var _ partner.EngineerRepository = (*GormEngineerRepository)(nil)
