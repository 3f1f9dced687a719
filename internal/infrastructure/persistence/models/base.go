package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/shared"
)

// BaseModel carries the columns every entity table shares.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts the base columns to a domain BaseEntity.
func (m BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func baseFromDomain(e shared.BaseEntity) BaseModel {
	return BaseModel{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}

// All lists every model for AutoMigrate in tests. Production schemas come from
// the SQL migrations.
func All() []any {
	return []any{
		&CompanyModel{},
		&EngineerModel{},
		&ProjectModel{},
		&ProjectEngineerModel{},
		&DailyLogModel{},
		&ExpenseModel{},
		&InvoiceModel{},
		&NotificationModel{},
		&UserModel{},
	}
}
