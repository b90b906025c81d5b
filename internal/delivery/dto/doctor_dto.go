package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	FirstName        string `json:"first_name" validate:"required,max=100"`
	LastName         string `json:"last_name" validate:"required,max=100"`
	MiddleName       string `json:"middle_name" validate:"omitempty,max=100"`
	SpecializationID int    `json:"specialization_id" validate:"required,gt=0"`
	ExperienceYears  int    `json:"experience_years" validate:"gte=0,lte=80"`
	Phone            string `json:"phone" validate:"omitempty,phone"`
	Email            string `json:"email" validate:"omitempty,email"`
	RoomNumber       string `json:"room_number" validate:"omitempty,max=10"`
	Bio              string `json:"bio" validate:"omitempty"`
	UserID           string `json:"user_id" validate:"omitempty,uuid"`
	IsActive         *bool  `json:"is_active" validate:"omitempty"`
}

type UpdateDoctorRequest struct {
	FirstName        string  `json:"first_name" validate:"omitempty,max=100"`
	LastName         string  `json:"last_name" validate:"omitempty,max=100"`
	MiddleName       *string `json:"middle_name" validate:"omitempty,max=100"`
	SpecializationID int     `json:"specialization_id" validate:"omitempty,gt=0"`
	ExperienceYears  *int    `json:"experience_years" validate:"omitempty,gte=0,lte=80"`
	Phone            *string `json:"phone" validate:"omitempty,phone"`
	Email            *string `json:"email" validate:"omitempty,email"`
	RoomNumber       *string `json:"room_number" validate:"omitempty,max=10"`
	Bio              *string `json:"bio" validate:"omitempty"`
	IsActive         *bool   `json:"is_active" validate:"omitempty"`
}

// Response DTOs

type DoctorResponse struct {
	ID              uuid.UUID               `json:"id"`
	FullName        string                  `json:"full_name"`
	FirstName       string                  `json:"first_name"`
	LastName        string                  `json:"last_name"`
	MiddleName      string                  `json:"middle_name,omitempty"`
	Specialization  *SpecializationResponse `json:"specialization,omitempty"`
	ExperienceYears int                     `json:"experience_years"`
	Phone           string                  `json:"phone,omitempty"`
	Email           string                  `json:"email,omitempty"`
	RoomNumber      string                  `json:"room_number,omitempty"`
	Bio             string                  `json:"bio,omitempty"`
	UserID          *uuid.UUID              `json:"user_id,omitempty"`
	IsActive        bool                    `json:"is_active"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

type DoctorDetailResponse struct {
	DoctorResponse
	UpcomingAppointments []AppointmentResponse `json:"upcoming_appointments"`
	CompletedCount       int64                 `json:"completed_count"`
}

type SlotResponse struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Free       bool      `json:"free"`
	ConflictID int64     `json:"conflict_id,omitempty"`
}

type AvailabilityResponse struct {
	DoctorID uuid.UUID      `json:"doctor_id"`
	Date     string         `json:"date"`
	Slots    []SlotResponse `json:"slots"`
}
