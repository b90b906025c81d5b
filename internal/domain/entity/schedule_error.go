package entity

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleError is a refused appointment write kept for the front desk to review.
type ScheduleError struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID      uuid.UUID  `gorm:"type:uuid;not null" json:"doctor_id"`
	AppointmentID *int64     `json:"appointment_id,omitempty"`
	ConflictID    *int64     `json:"conflict_id,omitempty"`
	Reason        string     `gorm:"type:varchar(50);not null" json:"reason"`
	Description   string     `gorm:"type:text;not null" json:"description"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty"`
	DetectedAt    time.Time  `gorm:"not null;index" json:"detected_at"`

	// Relationships
	Doctor *Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (ScheduleError) TableName() string {
	return "schedule_errors"
}
