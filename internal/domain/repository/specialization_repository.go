package repository

import (
	"clinic-management/internal/domain/entity"

	"gorm.io/gorm"
)

type SpecializationRepository interface {
	Create(db *gorm.DB, specialization *entity.Specialization) error
	FindByID(db *gorm.DB, id int) (*entity.Specialization, error)
	FindByIDs(db *gorm.DB, ids []int) ([]entity.Specialization, error)
	FindAll(db *gorm.DB) ([]entity.Specialization, error)
	Update(db *gorm.DB, specialization *entity.Specialization) error
	Delete(db *gorm.DB, id int) (int64, error)
	// CountActiveDoctors ranks specializations by number of active doctors, most first.
	CountActiveDoctors(db *gorm.DB) ([]entity.SpecializationCount, error)
}
