package converter

import (
	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
)

func ClinicServiceToResponse(s *entity.ClinicService) *dto.ClinicServiceResponse {
	if s == nil {
		return nil
	}

	return &dto.ClinicServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Code:            s.Code,
		Description:     s.Description,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		Specializations: SpecializationsToResponses(s.Specializations),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func ClinicServicesToResponses(services []entity.ClinicService) []dto.ClinicServiceResponse {
	responses := make([]dto.ClinicServiceResponse, len(services))
	for i := range services {
		responses[i] = *ClinicServiceToResponse(&services[i])
	}
	return responses
}
