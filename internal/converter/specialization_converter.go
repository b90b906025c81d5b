package converter

import (
	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
)

func SpecializationToResponse(s *entity.Specialization) *dto.SpecializationResponse {
	if s == nil {
		return nil
	}

	return &dto.SpecializationResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func SpecializationsToResponses(items []entity.Specialization) []dto.SpecializationResponse {
	responses := make([]dto.SpecializationResponse, len(items))
	for i := range items {
		responses[i] = *SpecializationToResponse(&items[i])
	}
	return responses
}

func SpecializationCountsToResponses(counts []entity.SpecializationCount) []dto.SpecializationCountResponse {
	responses := make([]dto.SpecializationCountResponse, len(counts))
	for i, c := range counts {
		responses[i] = dto.SpecializationCountResponse{
			ID:          c.SpecializationID,
			Name:        c.Name,
			DoctorCount: c.DoctorCount,
		}
	}
	return responses
}
