package converter

import (
	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
)

func MedicalRecordToResponse(r *entity.MedicalRecord) *dto.MedicalRecordResponse {
	if r == nil {
		return nil
	}

	return &dto.MedicalRecordResponse{
		ID:              r.ID,
		AppointmentID:   r.AppointmentID,
		Appointment:     AppointmentToResponse(r.Appointment),
		Complaints:      r.Complaints,
		Diagnosis:       r.Diagnosis,
		ExaminationData: r.ExaminationData,
		TreatmentPlan:   r.TreatmentPlan,
		Recommendations: r.Recommendations,
		Prescription:    r.Prescription,
		RecordDate:      r.RecordDate,
		UpdatedAt:       r.UpdatedAt,
	}
}

func MedicalRecordsToResponses(records []entity.MedicalRecord) []dto.MedicalRecordResponse {
	responses := make([]dto.MedicalRecordResponse, len(records))
	for i := range records {
		responses[i] = *MedicalRecordToResponse(&records[i])
	}
	return responses
}
