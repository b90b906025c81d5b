package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Doctor is a practitioner appointments can be booked with
type Doctor struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID           *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id,omitempty"`
	SpecializationID int        `gorm:"not null;index" json:"specialization_id"`
	FirstName        string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName         string     `gorm:"type:varchar(100);not null" json:"last_name"`
	MiddleName       string     `gorm:"type:varchar(100)" json:"middle_name,omitempty"`
	ExperienceYears  int        `gorm:"not null;default:0" json:"experience_years"`
	Phone            string     `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Email            string     `gorm:"type:varchar(255)" json:"email,omitempty"`
	RoomNumber       string     `gorm:"type:varchar(10)" json:"room_number,omitempty"`
	Bio              string     `gorm:"type:text" json:"bio,omitempty"`
	IsActive         *bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Specialization Specialization `gorm:"foreignKey:SpecializationID" json:"specialization,omitempty"`
	User           *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// FullName joins last, first and middle name the way the clinic prints it on cards.
func (d *Doctor) FullName() string {
	parts := []string{d.LastName, d.FirstName}
	if d.MiddleName != "" {
		parts = append(parts, d.MiddleName)
	}
	return strings.Join(parts, " ")
}

// Active reports whether new appointments may target the doctor.
func (d *Doctor) Active() bool {
	return d.IsActive == nil || *d.IsActive
}

// DoctorAppointmentCount is a doctor with the number of appointments booked with them.
type DoctorAppointmentCount struct {
	DoctorID         uuid.UUID
	FirstName        string
	LastName         string
	MiddleName       string
	AppointmentCount int64
}
