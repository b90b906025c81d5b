package entity

import "time"

// Specialization is a medical specialty a doctor practises
type Specialization struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Specialization) TableName() string {
	return "specializations"
}

// SpecializationCount is a specialization with the number of active doctors practising it.
type SpecializationCount struct {
	SpecializationID int
	Name             string
	DoctorCount      int64
}
