package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled          AppointmentStatus = "scheduled"
	AppointmentStatusCompleted          AppointmentStatus = "completed"
	AppointmentStatusCancelledByPatient AppointmentStatus = "cancelled_by_patient"
	AppointmentStatusCancelledByClinic  AppointmentStatus = "cancelled_by_clinic"
	AppointmentStatusNoShow             AppointmentStatus = "no_show"
)

// DefaultAppointmentDuration is used when a draft does not carry a duration.
const DefaultAppointmentDuration = 30

// IsValid reports whether s is one of the known statuses.
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled,
		AppointmentStatusCompleted,
		AppointmentStatusCancelledByPatient,
		AppointmentStatusCancelledByClinic,
		AppointmentStatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from s.
func (s AppointmentStatus) IsTerminal() bool {
	return s != AppointmentStatusScheduled
}

// CanTransitionTo allows moving a scheduled appointment to any other status.
// Terminal statuses are final.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if !next.IsValid() || s == next {
		return false
	}
	return s == AppointmentStatusScheduled
}

// Appointment is a patient visit booked with a doctor
type Appointment struct {
	ID              int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	ScheduledAt     *time.Time        `gorm:"index" json:"scheduled_at,omitempty"`
	EndsAt          *time.Time        `json:"ends_at,omitempty"`
	DurationMinutes int               `gorm:"not null;default:30" json:"duration_minutes"`
	Status          AppointmentStatus `gorm:"type:appointment_status;not null;default:'scheduled';index" json:"status"`
	Reason          string            `gorm:"type:text" json:"reason,omitempty"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	Diagnosis       string            `gorm:"type:text" json:"diagnosis,omitempty"`
	Prescription    string            `gorm:"type:text" json:"prescription,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor        Doctor         `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient       Patient        `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	MedicalRecord *MedicalRecord `gorm:"foreignKey:AppointmentID" json:"medical_record,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// BeforeSave keeps ends_at in step with scheduled_at and duration. The
// no-overlap exclusion constraint is declared over (scheduled_at, ends_at).
func (a *Appointment) BeforeSave(tx *gorm.DB) error {
	a.EndsAt = a.EndTime()
	return nil
}

// EndTime returns the exclusive end of the occupied interval, or nil when unscheduled.
func (a *Appointment) EndTime() *time.Time {
	if a.ScheduledAt == nil {
		return nil
	}
	end := a.ScheduledAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
	return &end
}

// IsScheduled checks if the appointment still occupies the doctor's time
func (a *Appointment) IsScheduled() bool {
	return a.Status == AppointmentStatusScheduled
}

// IsCompleted checks if the visit took place
func (a *Appointment) IsCompleted() bool {
	return a.Status == AppointmentStatusCompleted
}
