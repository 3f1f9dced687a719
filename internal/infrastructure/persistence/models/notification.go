package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/notification"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// NotificationModel is a row of the derived notification cache. Position keeps
// the deriver's order within a project.
type NotificationModel struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	ProjectID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	Kind        notification.Kind `gorm:"type:varchar(30);not null;index"`
	Message     string            `gorm:"type:text;not null"`
	RelatedDate *shared.Date      `gorm:"type:date"`
	Count       int               `gorm:"not null"`
	Amount      decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	RefID       *uuid.UUID        `gorm:"type:uuid"`
	Position    int               `gorm:"not null"`
	ComputedAt  time.Time         `gorm:"not null"`
}

func (NotificationModel) TableName() string { return "notifications" }

func (m *NotificationModel) ToDomain() notification.Notification {
	return notification.Notification{
		ID:          m.ID,
		Kind:        m.Kind,
		ProjectID:   m.ProjectID,
		Message:     m.Message,
		RelatedDate: m.RelatedDate,
		Count:       m.Count,
		Amount:      m.Amount,
		RefID:       m.RefID,
	}
}

func NotificationModelFromDomain(n notification.Notification, position int, computedAt time.Time) *NotificationModel {
	return &NotificationModel{
		ID:          n.ID,
		ProjectID:   n.ProjectID,
		Kind:        n.Kind,
		Message:     n.Message,
		RelatedDate: n.RelatedDate,
		Count:       n.Count,
		Amount:      n.Amount,
		RefID:       n.RefID,
		Position:    position,
		ComputedAt:  computedAt,
	}
}
