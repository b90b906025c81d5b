package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateClinicServiceRequest struct {
	Name              string          `json:"name" validate:"required,min=2,max=200"`
	Code              string          `json:"code" validate:"required,max=20"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price" validate:"required"`
	DurationMinutes   int             `json:"duration_minutes" validate:"omitempty,gt=0,lte=480"`
	SpecializationIDs []int           `json:"specialization_ids" validate:"omitempty,dive,gt=0"`
}

type UpdateClinicServiceRequest struct {
	Name              string          `json:"name" validate:"required,min=2,max=200"`
	Code              string          `json:"code" validate:"required,max=20"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price" validate:"required"`
	DurationMinutes   int             `json:"duration_minutes" validate:"omitempty,gt=0,lte=480"`
	SpecializationIDs []int           `json:"specialization_ids" validate:"omitempty,dive,gt=0"`
}

// Response DTOs

type ClinicServiceResponse struct {
	ID              uuid.UUID                `json:"id"`
	Name            string                   `json:"name"`
	Code            string                   `json:"code"`
	Description     string                   `json:"description,omitempty"`
	Price           decimal.Decimal          `json:"price"`
	DurationMinutes int                      `json:"duration_minutes"`
	Specializations []SpecializationResponse `json:"specializations"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}
