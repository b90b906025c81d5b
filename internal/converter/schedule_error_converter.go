package converter

import (
	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
)

func ScheduleErrorsToResponses(scheduleErrors []entity.ScheduleError) []dto.ScheduleErrorResponse {
	responses := make([]dto.ScheduleErrorResponse, len(scheduleErrors))
	for i, e := range scheduleErrors {
		responses[i] = dto.ScheduleErrorResponse{
			ID:            e.ID,
			DoctorID:      e.DoctorID,
			AppointmentID: e.AppointmentID,
			ConflictID:    e.ConflictID,
			Reason:        e.Reason,
			Description:   e.Description,
			ScheduledAt:   e.ScheduledAt,
			DetectedAt:    e.DetectedAt,
		}
		if e.Doctor != nil {
			responses[i].DoctorName = e.Doctor.FullName()
		}
	}
	return responses
}
