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

// GormDailyLogRepository implements project.DailyLogRepository using GORM
type GormDailyLogRepository struct {
	db *gorm.DB
}

// NewGormDailyLogRepository creates a new GormDailyLogRepository
func NewGormDailyLogRepository(db *gorm.DB) *GormDailyLogRepository {
	return &GormDailyLogRepository{db: db}
}

func (r *GormDailyLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.DailyLog, error) {
	var model models.DailyLogModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormDailyLogRepository) FindAll(ctx context.Context, filter project.DailyLogFilter) ([]project.DailyLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DailyLogModel{})
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.EngineerID != nil {
		query = query.Where("engineer_id = ?", *filter.EngineerID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(notes) LIKE ?", likePattern(filter.Search))
	}
	query = dateRange(query, "log_date", filter.From, filter.To)

	rows, total, err := listPage[models.DailyLogModel](query, filter.Filter, DailyLogSortFields, "log_date")
	if err != nil {
		return nil, 0, err
	}

	logs := make([]project.DailyLog, len(rows))
	for i := range rows {
		logs[i] = *rows[i].ToDomain()
	}
	return logs, total, nil
}

func (r *GormDailyLogRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]project.DailyLog, error) {
	var rows []models.DailyLogModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("log_date ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	logs := make([]project.DailyLog, len(rows))
	for i := range rows {
		logs[i] = *rows[i].ToDomain()
	}
	return logs, nil
}

func (r *GormDailyLogRepository) Save(ctx context.Context, log *project.DailyLog) error {
	return r.db.WithContext(ctx).Save(models.DailyLogModelFromDomain(log)).Error
}

// Delete removes the log and detaches any expenses that referenced it.
func (r *GormDailyLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ExpenseModel{}).
			Where("daily_log_id = ?", id).
			Update("daily_log_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.DailyLogModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

var _ project.DailyLogRepository = (*GormDailyLogRepository)(nil)
