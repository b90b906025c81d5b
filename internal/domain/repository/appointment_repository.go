package repository

import (
	"time"

	"clinic-management/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DoctorScheduledCount is the number of upcoming appointments of one doctor in status scheduled.
type DoctorScheduledCount struct {
	DoctorID uuid.UUID
	Count    int64
}

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id int64) (*entity.Appointment, error)
	FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, int64, error)
	Update(db *gorm.DB, appointment *entity.Appointment) error
	// UpdateStatus moves an appointment from one status to another and
	// returns the affected rows, zero when the current status did not match.
	UpdateStatus(db *gorm.DB, id int64, from, to entity.AppointmentStatus, notes string) (int64, error)
	Delete(db *gorm.DB, id int64) (int64, error)

	// FindScheduledOverlapping returns scheduled appointments of the doctor
	// intersecting [start, end), leaving out excludeID when non-zero.
	FindScheduledOverlapping(db *gorm.DB, doctorID uuid.UUID, start, end time.Time, excludeID int64) ([]entity.Appointment, error)
	FindUpcoming(db *gorm.DB, from time.Time, limit int) ([]entity.Appointment, error)
	FindUpcomingByDoctor(db *gorm.DB, doctorID uuid.UUID, from time.Time) ([]entity.Appointment, error)

	CountByDoctorAndStatus(db *gorm.DB, doctorID uuid.UUID, status entity.AppointmentStatus) (int64, error)
	CountScheduledBetween(db *gorm.DB, from, to time.Time) (int64, error)
	CountPerDoctor(db *gorm.DB, limit int) ([]entity.DoctorAppointmentCount, error)
	// CountScheduledPerDoctor and CountScheduledForDoctors only count
	// scheduled appointments starting at or after from.
	CountScheduledPerDoctor(db *gorm.DB, from time.Time, limit, offset int) ([]DoctorScheduledCount, error)
	CountScheduledForDoctors(db *gorm.DB, from time.Time, doctorIDs []uuid.UUID) ([]DoctorScheduledCount, error)
}
