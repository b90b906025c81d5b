package repository

import (
	"clinic-management/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClinicServiceRepository interface {
	Create(db *gorm.DB, service *entity.ClinicService) error
	FindAll(db *gorm.DB, limit, offset int) ([]entity.ClinicService, int64, error)
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.ClinicService, error)
	Search(db *gorm.DB, query string, limit int) ([]entity.ClinicService, error)
	Update(db *gorm.DB, service *entity.ClinicService) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
