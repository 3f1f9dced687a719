package models

import (
	"github.com/opsboard/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CompanyModel is the persistence model for partner.Company.
type CompanyModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(200);not null;index"`
	ContactName string `gorm:"type:varchar(100)"`
	Email       string `gorm:"type:varchar(200)"`
	Phone       string `gorm:"type:varchar(50)"`
	Address     string `gorm:"type:text"`
	Notes       string `gorm:"type:text"`
}

func (CompanyModel) TableName() string { return "companies" }

func (m *CompanyModel) ToDomain() *partner.Company {
	return &partner.Company{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		ContactName: m.ContactName,
		Email:       m.Email,
		Phone:       m.Phone,
		Address:     m.Address,
		Notes:       m.Notes,
	}
}

func CompanyModelFromDomain(c *partner.Company) *CompanyModel {
	return &CompanyModel{
		BaseModel:   baseFromDomain(c.BaseEntity),
		Name:        c.Name,
		ContactName: c.ContactName,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		Notes:       c.Notes,
	}
}

// EngineerModel is the persistence model for partner.Engineer.
type EngineerModel struct {
	BaseModel
	Name       string              `gorm:"type:varchar(100);not null;index"`
	Email      string              `gorm:"type:varchar(200)"`
	Phone      string              `gorm:"type:varchar(50)"`
	HourlyRate decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	Active     bool                `gorm:"not null"`
}

func (EngineerModel) TableName() string { return "engineers" }

func (m *EngineerModel) ToDomain() *partner.Engineer {
	e := &partner.Engineer{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Email:      m.Email,
		Phone:      m.Phone,
		Active:     m.Active,
	}
	if m.HourlyRate.Valid {
		rate := m.HourlyRate.Decimal
		e.HourlyRate = &rate
	}
	return e
}

func EngineerModelFromDomain(e *partner.Engineer) *EngineerModel {
	m := &EngineerModel{
		BaseModel: baseFromDomain(e.BaseEntity),
		Name:      e.Name,
		Email:     e.Email,
		Phone:     e.Phone,
		Active:    e.Active,
	}
	if e.HourlyRate != nil {
		m.HourlyRate = decimal.NewNullDecimal(*e.HourlyRate)
	}
	return m
}
