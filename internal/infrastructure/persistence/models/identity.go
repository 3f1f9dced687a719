package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/identity"
)

// UserModel is the persistence model for identity.User.
type UserModel struct {
	BaseModel
	Username       string        `gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHash   string        `gorm:"type:varchar(255);not null"`
	DisplayName    string        `gorm:"type:varchar(200)"`
	Role           identity.Role `gorm:"type:varchar(20);not null"`
	EngineerID     *uuid.UUID    `gorm:"type:uuid;index"`
	Active         bool          `gorm:"not null"`
	LastLoginAt    *time.Time
	FailedAttempts int `gorm:"not null"`
	LockedUntil    *time.Time
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:     m.BaseModel.ToDomain(),
		Username:       m.Username,
		PasswordHash:   m.PasswordHash,
		DisplayName:    m.DisplayName,
		Role:           m.Role,
		EngineerID:     m.EngineerID,
		Active:         m.Active,
		LastLoginAt:    m.LastLoginAt,
		FailedAttempts: m.FailedAttempts,
		LockedUntil:    m.LockedUntil,
	}
}

func UserModelFromDomain(u *identity.User) *UserModel {
	return &UserModel{
		BaseModel:      baseFromDomain(u.BaseEntity),
		Username:       u.Username,
		PasswordHash:   u.PasswordHash,
		DisplayName:    u.DisplayName,
		Role:           u.Role,
		EngineerID:     u.EngineerID,
		Active:         u.Active,
		LastLoginAt:    u.LastLoginAt,
		FailedAttempts: u.FailedAttempts,
		LockedUntil:    u.LockedUntil,
	}
}
