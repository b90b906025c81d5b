package converter

import (
	"strings"

	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
)

// DoctorToResponse includes the specialization only when it was preloaded.
func DoctorToResponse(d *entity.Doctor) *dto.DoctorResponse {
	if d == nil {
		return nil
	}

	response := &dto.DoctorResponse{
		ID:              d.ID,
		FullName:        d.FullName(),
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		MiddleName:      d.MiddleName,
		ExperienceYears: d.ExperienceYears,
		Phone:           d.Phone,
		Email:           d.Email,
		RoomNumber:      d.RoomNumber,
		Bio:             d.Bio,
		UserID:          d.UserID,
		IsActive:        d.Active(),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}

	if d.Specialization.ID != 0 {
		response.Specialization = SpecializationToResponse(&d.Specialization)
	}

	return response
}

func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}

func DoctorCountsToResponses(counts []entity.DoctorAppointmentCount) []dto.DoctorAppointmentCountResponse {
	responses := make([]dto.DoctorAppointmentCountResponse, len(counts))
	for i, c := range counts {
		name := []string{c.LastName, c.FirstName}
		if c.MiddleName != "" {
			name = append(name, c.MiddleName)
		}
		responses[i] = dto.DoctorAppointmentCountResponse{
			DoctorID:         c.DoctorID,
			FullName:         strings.Join(name, " "),
			AppointmentCount: c.AppointmentCount,
		}
	}
	return responses
}
