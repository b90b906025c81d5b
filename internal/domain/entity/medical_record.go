package entity

import "time"

// MedicalRecord documents the outcome of a completed appointment. At most one per appointment.
type MedicalRecord struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AppointmentID   int64     `gorm:"not null;uniqueIndex" json:"appointment_id"`
	Complaints      string    `gorm:"type:text" json:"complaints,omitempty"`
	Diagnosis       string    `gorm:"type:text;not null" json:"diagnosis"`
	ExaminationData string    `gorm:"type:text" json:"examination_data,omitempty"`
	TreatmentPlan   string    `gorm:"type:text" json:"treatment_plan,omitempty"`
	Recommendations string    `gorm:"type:text" json:"recommendations,omitempty"`
	Prescription    string    `gorm:"type:text" json:"prescription,omitempty"`
	RecordDate      time.Time `gorm:"autoCreateTime" json:"record_date"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointment *Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
}

func (MedicalRecord) TableName() string {
	return "medical_records"
}
