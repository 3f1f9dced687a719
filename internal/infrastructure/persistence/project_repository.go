package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/project"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/opsboard/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository implements project.ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

func preloadEngineers(db *gorm.DB) *gorm.DB {
	return db.Preload("Engineers", func(db *gorm.DB) *gorm.DB {
		return db.Order("assigned_on ASC, engineer_id ASC")
	})
}

func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	var model models.ProjectModel
	if err := r.db.WithContext(ctx).Scopes(preloadEngineers).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormProjectRepository) FindAll(ctx context.Context, filter project.ProjectFilter) ([]project.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProjectModel{})
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ? OR LOWER(location) LIKE ?", p, p, p)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CompanyID != nil {
		query = query.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.EngineerID != nil {
		query = query.Where("id IN (?)",
			r.db.Model(&models.ProjectEngineerModel{}).Select("project_id").Where("engineer_id = ?", *filter.EngineerID))
	}

	rows, total, err := listPage[models.ProjectModel](query, filter.Filter, ProjectSortFields, "created_at", preloadEngineers)
	if err != nil {
		return nil, 0, err
	}

	projects := make([]project.Project, len(rows))
	for i := range rows {
		projects[i] = *rows[i].ToDomain()
	}
	return projects, total, nil
}

func (r *GormProjectRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.ProjectModel{}).Order("code ASC").Pluck("id", &ids).Error
	return ids, err
}

func (r *GormProjectRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProjectModel{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error
	return count > 0, err
}

func (r *GormProjectRepository) Save(ctx context.Context, p *project.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(models.ProjectModelFromDomain(p)).Error
}

// Delete removes the project and every row that hangs off it.
func (r *GormProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dependents := []any{
			&models.NotificationModel{},
			&models.ExpenseModel{},
			&models.DailyLogModel{},
			&models.InvoiceModel{},
			&models.ProjectEngineerModel{},
		}
		for _, m := range dependents {
			if err := tx.Where("project_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&models.ProjectModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Assign upserts the assignment so re-assigning updates role and date.
func (r *GormProjectRepository) Assign(ctx context.Context, a *project.Assignment) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "engineer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "assigned_on"}),
	}).Create(models.ProjectEngineerModelFromDomain(a)).Error
}

func (r *GormProjectRepository) Unassign(ctx context.Context, projectID, engineerID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("project_id = ? AND engineer_id = ?", projectID, engineerID).
		Delete(&models.ProjectEngineerModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ project.ProjectRepository = (*GormProjectRepository)(nil)
