package repository

import (
	"clinic-management/internal/domain/entity"

	"gorm.io/gorm"
)

type ScheduleErrorRepository interface {
	Create(db *gorm.DB, scheduleError *entity.ScheduleError) error
	FindRecent(db *gorm.DB, limit int) ([]entity.ScheduleError, error)
}
