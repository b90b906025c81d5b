package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentFilter is a domain-level filter for querying appointments.
// Used by repository layer to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Status    AppointmentStatus
	From      *time.Time // scheduled_at >= From
	To        *time.Time // scheduled_at < To
	Diagnosis string     // ILIKE on appointment diagnosis
	Limit     int
	Offset    int
}

// DoctorFilter narrows the doctor registry listing.
type DoctorFilter struct {
	SpecializationID int
	ActiveOnly       bool
	Name             string // ILIKE on first/last/middle name
}

// PatientFilter searches patients by name, phone or email.
type PatientFilter struct {
	Query  string
	Limit  int
	Offset int
}
