package dto

import "time"

// Request DTOs

type CreateMedicalRecordRequest struct {
	Complaints      string `json:"complaints" validate:"omitempty"`
	Diagnosis       string `json:"diagnosis" validate:"required"`
	ExaminationData string `json:"examination_data" validate:"omitempty"`
	TreatmentPlan   string `json:"treatment_plan" validate:"omitempty"`
	Recommendations string `json:"recommendations" validate:"omitempty"`
	Prescription    string `json:"prescription" validate:"omitempty"`
}

type UpdateMedicalRecordRequest struct {
	Complaints      string `json:"complaints" validate:"omitempty"`
	Diagnosis       string `json:"diagnosis" validate:"required"`
	ExaminationData string `json:"examination_data" validate:"omitempty"`
	TreatmentPlan   string `json:"treatment_plan" validate:"omitempty"`
	Recommendations string `json:"recommendations" validate:"omitempty"`
	Prescription    string `json:"prescription" validate:"omitempty"`
}

// Response DTOs

type MedicalRecordResponse struct {
	ID              int64                `json:"id"`
	AppointmentID   int64                `json:"appointment_id"`
	Appointment     *AppointmentResponse `json:"appointment,omitempty"`
	Complaints      string               `json:"complaints,omitempty"`
	Diagnosis       string               `json:"diagnosis"`
	ExaminationData string               `json:"examination_data,omitempty"`
	TreatmentPlan   string               `json:"treatment_plan,omitempty"`
	Recommendations string               `json:"recommendations,omitempty"`
	Prescription    string               `json:"prescription,omitempty"`
	RecordDate      time.Time            `json:"record_date"`
	UpdatedAt       time.Time            `json:"updated_at"`
}
