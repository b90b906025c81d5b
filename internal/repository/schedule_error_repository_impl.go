package repository

import (
	"clinic-management/internal/domain/entity"
	domainRepo "clinic-management/internal/domain/repository"

	"gorm.io/gorm"
)

type scheduleErrorRepository struct{}

func NewScheduleErrorRepository() domainRepo.ScheduleErrorRepository {
	return &scheduleErrorRepository{}
}

func (r *scheduleErrorRepository) Create(db *gorm.DB, scheduleError *entity.ScheduleError) error {
	return db.Omit("Doctor").Create(scheduleError).Error
}

func (r *scheduleErrorRepository) FindRecent(db *gorm.DB, limit int) ([]entity.ScheduleError, error) {
	var scheduleErrors []entity.ScheduleError
	err := db.Preload("Doctor").
		Order("detected_at DESC").
		Limit(limit).
		Find(&scheduleErrors).Error
	if err != nil {
		return nil, err
	}
	return scheduleErrors, nil
}
