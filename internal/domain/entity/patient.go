package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FirstName             string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName              string    `gorm:"type:varchar(100);not null" json:"last_name"`
	MiddleName            string    `gorm:"type:varchar(100)" json:"middle_name,omitempty"`
	DateOfBirth           time.Time `gorm:"type:date;not null" json:"date_of_birth"`
	Gender                string    `gorm:"type:varchar(10)" json:"gender,omitempty"`
	Phone                 string    `gorm:"type:varchar(20);not null" json:"phone"`
	Email                 *string   `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty"`
	Address               string    `gorm:"type:text" json:"address,omitempty"`
	InsurancePolicyNumber string    `gorm:"type:varchar(50)" json:"insurance_policy_number,omitempty"`
	Notes                 string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) FullName() string {
	parts := []string{p.LastName, p.FirstName}
	if p.MiddleName != "" {
		parts = append(parts, p.MiddleName)
	}
	return strings.Join(parts, " ")
}

// Age returns the patient's age in full years at the given moment.
func (p *Patient) Age(now time.Time) int {
	age := now.Year() - p.DateOfBirth.Year()
	if now.Month() < p.DateOfBirth.Month() ||
		(now.Month() == p.DateOfBirth.Month() && now.Day() < p.DateOfBirth.Day()) {
		age--
	}
	return age
}
