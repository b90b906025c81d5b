package repository

import (
	"errors"

	"clinic-management/internal/domain/entity"
	domainRepo "clinic-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Omit("Specialization", "User").Create(doctor).Error
}

func (r *doctorRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Preload("Specialization").Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

// FindAll supports optional filters: specialization, active only and name.
func (r *doctorRepository) FindAll(db *gorm.DB, filter *entity.DoctorFilter) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	query := db.Preload("Specialization")

	if filter != nil {
		if filter.SpecializationID != 0 {
			query = query.Where("specialization_id = ?", filter.SpecializationID)
		}
		if filter.ActiveOnly {
			query = query.Where("is_active = ?", true)
		}
		if filter.Name != "" {
			like := "%" + filter.Name + "%"
			query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR middle_name ILIKE ?", like, like, like)
		}
	}

	if err := query.Order("last_name ASC, first_name ASC").Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

// Search matches doctor names and specialization names.
func (r *doctorRepository) Search(db *gorm.DB, query string, limit int) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	like := "%" + query + "%"
	err := db.Preload("Specialization").
		Joins("JOIN specializations ON specializations.id = doctors.specialization_id").
		Where("doctors.first_name ILIKE ? OR doctors.last_name ILIKE ? OR specializations.name ILIKE ?", like, like, like).
		Order("doctors.last_name ASC").
		Limit(limit).
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Update(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Omit("Specialization", "User").Save(doctor).Error
}

func (r *doctorRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Doctor{})
	return result.RowsAffected, result.Error
}

func (r *doctorRepository) CountActive(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&entity.Doctor{}).Where("is_active = ?", true).Count(&total).Error
	return total, err
}
