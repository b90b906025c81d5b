package converter

import (
	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
	"clinic-management/internal/domain/scheduling"
)

func AppointmentToResponse(a *entity.Appointment) *dto.AppointmentResponse {
	if a == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:               a.ID,
		DoctorID:         a.DoctorID,
		PatientID:        a.PatientID,
		ScheduledAt:      a.ScheduledAt,
		EndsAt:           a.EndTime(),
		DurationMinutes:  a.DurationMinutes,
		Status:           string(a.Status),
		Reason:           a.Reason,
		Notes:            a.Notes,
		Diagnosis:        a.Diagnosis,
		Prescription:     a.Prescription,
		HasMedicalRecord: a.MedicalRecord != nil,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}

	if a.Doctor.ID == a.DoctorID {
		response.Doctor = &dto.AppointmentDoctorResponse{
			ID:             a.Doctor.ID,
			FullName:       a.Doctor.FullName(),
			Specialization: a.Doctor.Specialization.Name,
			RoomNumber:     a.Doctor.RoomNumber,
		}
	}
	if a.Patient.ID == a.PatientID {
		response.Patient = &dto.AppointmentPatientResponse{
			ID:       a.Patient.ID,
			FullName: a.Patient.FullName(),
			Phone:    a.Patient.Phone,
		}
	}

	return response
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

// AppointmentToAuditValue is the snapshot stored in audit log metadata.
func AppointmentToAuditValue(a *entity.Appointment) map[string]interface{} {
	return map[string]interface{}{
		"doctor_id":        a.DoctorID,
		"patient_id":       a.PatientID,
		"scheduled_at":     a.ScheduledAt,
		"duration_minutes": a.DurationMinutes,
		"status":           a.Status,
		"notes":            a.Notes,
	}
}

func RejectionToResponse(r *scheduling.Rejection) *dto.RejectionResponse {
	if r == nil {
		return nil
	}

	return &dto.RejectionResponse{
		Reason:     string(r.Reason),
		Detail:     r.Detail,
		ConflictID: r.ConflictID,
		ConflictAt: r.ConflictAt,
	}
}
