package repository

import (
	"errors"

	"clinic-management/internal/domain/entity"
	domainRepo "clinic-management/internal/domain/repository"

	"gorm.io/gorm"
)

type specializationRepository struct{}

func NewSpecializationRepository() domainRepo.SpecializationRepository {
	return &specializationRepository{}
}

func (r *specializationRepository) Create(db *gorm.DB, specialization *entity.Specialization) error {
	return db.Create(specialization).Error
}

func (r *specializationRepository) FindByID(db *gorm.DB, id int) (*entity.Specialization, error) {
	var specialization entity.Specialization
	err := db.Where("id = ?", id).First(&specialization).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &specialization, nil
}

func (r *specializationRepository) FindByIDs(db *gorm.DB, ids []int) ([]entity.Specialization, error) {
	var specializations []entity.Specialization
	if len(ids) == 0 {
		return specializations, nil
	}
	if err := db.Where("id IN ?", ids).Order("name ASC").Find(&specializations).Error; err != nil {
		return nil, err
	}
	return specializations, nil
}

func (r *specializationRepository) FindAll(db *gorm.DB) ([]entity.Specialization, error) {
	var specializations []entity.Specialization
	if err := db.Order("name ASC").Find(&specializations).Error; err != nil {
		return nil, err
	}
	return specializations, nil
}

func (r *specializationRepository) Update(db *gorm.DB, specialization *entity.Specialization) error {
	return db.Save(specialization).Error
}

func (r *specializationRepository) Delete(db *gorm.DB, id int) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Specialization{})
	return result.RowsAffected, result.Error
}

func (r *specializationRepository) CountActiveDoctors(db *gorm.DB) ([]entity.SpecializationCount, error) {
	var counts []entity.SpecializationCount
	err := db.Model(&entity.Specialization{}).
		Select("specializations.id AS specialization_id, specializations.name, COUNT(doctors.id) AS doctor_count").
		Joins("LEFT JOIN doctors ON doctors.specialization_id = specializations.id AND doctors.is_active = ?", true).
		Group("specializations.id, specializations.name").
		Order("doctor_count DESC, specializations.name ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
