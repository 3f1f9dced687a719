package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/notification"
	"github.com/opsboard/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNotificationRepository stores the derived notification cache.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// ReplaceForProject deletes the project's cached rows and inserts the fresh
// set in one transaction, so readers never observe a partial refresh.
// Concurrent replaces of the same project are serialized on the project row.
func (r *GormNotificationRepository) ReplaceForProject(ctx context.Context, projectID uuid.UUID, notifications []notification.Notification, computedAt time.Time) error {
	rows := make([]*models.NotificationModel, len(notifications))
	for i, n := range notifications {
		rows[i] = models.NotificationModelFromDomain(n, i, computedAt)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked []uuid.UUID
		if err := tx.Model(&models.ProjectModel{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", projectID).
			Pluck("id", &locked).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.NotificationModel{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		// IDs are derived from content, so a row can still exist when the project row is gone
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).CreateInBatches(rows, 200).Error
	})
}

func (r *GormNotificationRepository) FindAll(ctx context.Context, filter notification.Filter) ([]notification.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.NotificationModel{})
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(message) LIKE ?", likePattern(filter.Search))
	}

	// Without an explicit sort, rows come back in derivation order.
	f := filter.Filter
	if f.OrderBy == "" {
		query = query.Order("project_id ASC")
		f.OrderBy, f.OrderDir = "position", "asc"
	}

	rows, total, err := listPage[models.NotificationModel](query, f, NotificationSortFields, "computed_at")
	if err != nil {
		return nil, 0, err
	}

	out := make([]notification.Notification, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

func (r *GormNotificationRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]notification.Notification, error) {
	var rows []models.NotificationModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]notification.Notification, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

type kindTotalRow struct {
	ProjectID uuid.UUID
	Kind      notification.Kind
	Count     int
	Amount    decimal.Decimal
}

func (r *GormNotificationRepository) TotalsByProject(ctx context.Context) (map[uuid.UUID]notification.Totals, error) {
	var rows []kindTotalRow
	if err := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Select("project_id, kind, SUM(count) AS count, COALESCE(SUM(amount), 0) AS amount").
		Group("project_id, kind").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]notification.Totals)
	for _, row := range rows {
		t, ok := out[row.ProjectID]
		if !ok {
			t = notification.Totals{}
			out[row.ProjectID] = t
		}
		t[row.Kind] = notification.KindTotal{Count: row.Count, Amount: row.Amount}
	}
	return out, nil
}

func (r *GormNotificationRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&models.NotificationModel{}).Error
}

var _ notification.Repository = (*GormNotificationRepository)(nil)
