package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID        string     `json:"doctor_id" validate:"required,uuid"`
	PatientID       string     `json:"patient_id" validate:"required,uuid"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	DurationMinutes int        `json:"duration_minutes" validate:"omitempty,gt=0,lte=480"`
	Reason          string     `json:"reason" validate:"omitempty"`
	Notes           string     `json:"notes" validate:"omitempty"`
}

// UpdateAppointmentRequest replaces the editable fields of an appointment.
// A null scheduled_at clears the schedule.
type UpdateAppointmentRequest struct {
	DoctorID        string     `json:"doctor_id" validate:"required,uuid"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	DurationMinutes int        `json:"duration_minutes" validate:"omitempty,gt=0,lte=480"`
	Reason          string     `json:"reason" validate:"omitempty"`
	Notes           string     `json:"notes" validate:"omitempty"`
	Diagnosis       string     `json:"diagnosis" validate:"omitempty"`
	Prescription    string     `json:"prescription" validate:"omitempty"`
}

type ChangeAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,appointment_status"`
	Notes  string `json:"notes" validate:"omitempty"`
}

// ValidateAppointmentRequest previews a create (id omitted) or an edit.
type ValidateAppointmentRequest struct {
	ID              int64      `json:"id" validate:"omitempty,gt=0"`
	DoctorID        string     `json:"doctor_id" validate:"required,uuid"`
	PatientID       string     `json:"patient_id" validate:"omitempty,uuid"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	DurationMinutes int        `json:"duration_minutes" validate:"omitempty,gt=0,lte=480"`
	Status          string     `json:"status" validate:"omitempty,appointment_status"`
	Reason          string     `json:"reason" validate:"omitempty"`
	Notes           string     `json:"notes" validate:"omitempty"`
}

// AppointmentListQuery mirrors the list filters taken from the query string.
type AppointmentListQuery struct {
	DoctorID  string `validate:"omitempty,uuid"`
	PatientID string `validate:"omitempty,uuid"`
	Status    string `validate:"omitempty,appointment_status"`
	From      string `validate:"omitempty,datetime=2006-01-02"`
	To        string `validate:"omitempty,datetime=2006-01-02"`
	Diagnosis string `validate:"omitempty"`
	Limit     int    `validate:"omitempty,gt=0,lte=200"`
	Offset    int    `validate:"omitempty,gte=0"`
}

// Response DTOs

type AppointmentDoctorResponse struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	Specialization string    `json:"specialization,omitempty"`
	RoomNumber     string    `json:"room_number,omitempty"`
}

type AppointmentPatientResponse struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Phone    string    `json:"phone"`
}

type AppointmentResponse struct {
	ID               int64                       `json:"id"`
	DoctorID         uuid.UUID                   `json:"doctor_id"`
	PatientID        uuid.UUID                   `json:"patient_id"`
	Doctor           *AppointmentDoctorResponse  `json:"doctor,omitempty"`
	Patient          *AppointmentPatientResponse `json:"patient,omitempty"`
	ScheduledAt      *time.Time                  `json:"scheduled_at"`
	EndsAt           *time.Time                  `json:"ends_at,omitempty"`
	DurationMinutes  int                         `json:"duration_minutes"`
	Status           string                      `json:"status"`
	Reason           string                      `json:"reason,omitempty"`
	Notes            string                      `json:"notes,omitempty"`
	Diagnosis        string                      `json:"diagnosis,omitempty"`
	Prescription     string                      `json:"prescription,omitempty"`
	HasMedicalRecord bool                        `json:"has_medical_record"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

// RejectionResponse is the error payload of a refused schedule.
type RejectionResponse struct {
	Reason     string     `json:"reason"`
	Detail     string     `json:"detail"`
	ConflictID int64      `json:"conflict_id,omitempty"`
	ConflictAt *time.Time `json:"conflict_at,omitempty"`
}

type ValidationResultResponse struct {
	Accepted  bool               `json:"accepted"`
	Rejection *RejectionResponse `json:"rejection,omitempty"`
}
