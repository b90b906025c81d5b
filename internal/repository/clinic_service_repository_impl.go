package repository

import (
	"errors"

	"clinic-management/internal/domain/entity"
	domainRepo "clinic-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type clinicServiceRepository struct{}

func NewClinicServiceRepository() domainRepo.ClinicServiceRepository {
	return &clinicServiceRepository{}
}

func (r *clinicServiceRepository) Create(db *gorm.DB, service *entity.ClinicService) error {
	return db.Create(service).Error
}

func (r *clinicServiceRepository) FindAll(db *gorm.DB, limit, offset int) ([]entity.ClinicService, int64, error) {
	var services []entity.ClinicService
	var total int64

	if err := db.Model(&entity.ClinicService{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Specializations").
		Limit(limit).Offset(offset).
		Order("name ASC").
		Find(&services).Error
	if err != nil {
		return nil, 0, err
	}

	return services, total, nil
}

func (r *clinicServiceRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.ClinicService, error) {
	var service entity.ClinicService
	err := db.Preload("Specializations").Where("id = ?", id).First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

// Search matches name, code and description.
func (r *clinicServiceRepository) Search(db *gorm.DB, query string, limit int) ([]entity.ClinicService, error) {
	var services []entity.ClinicService
	like := "%" + query + "%"
	err := db.Preload("Specializations").
		Where("name ILIKE ? OR code ILIKE ? OR description ILIKE ?", like, like, like).
		Order("name ASC").
		Limit(limit).
		Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

// Update saves the service and replaces its specialization links.
func (r *clinicServiceRepository) Update(db *gorm.DB, service *entity.ClinicService) error {
	if err := db.Omit("Specializations").Save(service).Error; err != nil {
		return err
	}
	return db.Model(service).Association("Specializations").Replace(service.Specializations)
}

func (r *clinicServiceRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	// join rows go with the service through ON DELETE CASCADE
	result := db.Where("id = ?", id).Delete(&entity.ClinicService{})
	return result.RowsAffected, result.Error
}
