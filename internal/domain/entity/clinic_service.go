package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClinicService is a billable procedure from the clinic's price list
type ClinicService struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Code            string          `gorm:"type:varchar(20);uniqueIndex;not null"`
	Description     string          `gorm:"type:text"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DurationMinutes int             `gorm:"not null;default:30"`
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`

	Specializations []Specialization `gorm:"many2many:clinic_service_specializations;"`
}

func (ClinicService) TableName() string {
	return "clinic_services"
}
