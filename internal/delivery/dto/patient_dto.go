package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePatientRequest struct {
	FirstName             string `json:"first_name" validate:"required,max=100"`
	LastName              string `json:"last_name" validate:"required,max=100"`
	MiddleName            string `json:"middle_name" validate:"omitempty,max=100"`
	DateOfBirth           string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender                string `json:"gender" validate:"omitempty,oneof=M F"`
	Phone                 string `json:"phone" validate:"required,phone"`
	Email                 string `json:"email" validate:"omitempty,email"`
	Address               string `json:"address" validate:"omitempty"`
	InsurancePolicyNumber string `json:"insurance_policy_number" validate:"omitempty,max=50"`
	Notes                 string `json:"notes" validate:"omitempty"`
}

// UpdatePatientRequest replaces the editable patient card.
type UpdatePatientRequest struct {
	FirstName             string `json:"first_name" validate:"required,max=100"`
	LastName              string `json:"last_name" validate:"required,max=100"`
	MiddleName            string `json:"middle_name" validate:"omitempty,max=100"`
	DateOfBirth           string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender                string `json:"gender" validate:"omitempty,oneof=M F"`
	Phone                 string `json:"phone" validate:"required,phone"`
	Email                 string `json:"email" validate:"omitempty,email"`
	Address               string `json:"address" validate:"omitempty"`
	InsurancePolicyNumber string `json:"insurance_policy_number" validate:"omitempty,max=50"`
	Notes                 string `json:"notes" validate:"omitempty"`
}

// Response DTOs

type PatientResponse struct {
	ID                    uuid.UUID `json:"id"`
	FullName              string    `json:"full_name"`
	FirstName             string    `json:"first_name"`
	LastName              string    `json:"last_name"`
	MiddleName            string    `json:"middle_name,omitempty"`
	DateOfBirth           string    `json:"date_of_birth"`
	Age                   int       `json:"age"`
	Gender                string    `json:"gender,omitempty"`
	Phone                 string    `json:"phone"`
	Email                 string    `json:"email,omitempty"`
	Address               string    `json:"address,omitempty"`
	InsurancePolicyNumber string    `json:"insurance_policy_number,omitempty"`
	Notes                 string    `json:"notes,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}
