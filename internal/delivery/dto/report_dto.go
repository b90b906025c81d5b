package dto

import (
	"time"

	"github.com/google/uuid"
)

// Response DTOs

type DoctorAppointmentCountResponse struct {
	DoctorID         uuid.UUID `json:"doctor_id"`
	FullName         string    `json:"full_name"`
	AppointmentCount int64     `json:"appointment_count"`
}

type ScheduleErrorResponse struct {
	ID            int64      `json:"id"`
	DoctorID      uuid.UUID  `json:"doctor_id"`
	DoctorName    string     `json:"doctor_name,omitempty"`
	AppointmentID *int64     `json:"appointment_id,omitempty"`
	ConflictID    *int64     `json:"conflict_id,omitempty"`
	Reason        string     `json:"reason"`
	Description   string     `json:"description"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty"`
	DetectedAt    time.Time  `json:"detected_at"`
}

type DashboardResponse struct {
	UpcomingAppointments []AppointmentResponse            `json:"upcoming_appointments"`
	ActiveDoctors        int64                            `json:"active_doctors"`
	Specializations      []SpecializationCountResponse    `json:"specializations"`
	TopDoctors           []DoctorAppointmentCountResponse `json:"top_doctors"`
	TodayScheduled       int64                            `json:"today_scheduled"`
	TomorrowScheduled    int64                            `json:"tomorrow_scheduled"`
	RecentScheduleErrors []ScheduleErrorResponse          `json:"recent_schedule_errors"`
}

type DoctorWorkloadResponse struct {
	DoctorID  uuid.UUID `json:"doctor_id"`
	FullName  string    `json:"full_name"`
	Scheduled int64     `json:"scheduled"`
}

// WorkloadResponse reports where the counts came from: "redis" or "database".
type WorkloadResponse struct {
	Source  string                   `json:"source"`
	Doctors []DoctorWorkloadResponse `json:"doctors"`
}

type SearchResponse struct {
	Query    string                  `json:"query"`
	Doctors  []DoctorResponse        `json:"doctors"`
	Services []ClinicServiceResponse `json:"services"`
	Patients []PatientResponse       `json:"patients"`
}
