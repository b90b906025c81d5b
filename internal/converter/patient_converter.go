package converter

import (
	"time"

	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func PatientToResponse(p *entity.Patient) *dto.PatientResponse {
	if p == nil {
		return nil
	}

	response := &dto.PatientResponse{
		ID:                    p.ID,
		FullName:              p.FullName(),
		FirstName:             p.FirstName,
		LastName:              p.LastName,
		MiddleName:            p.MiddleName,
		DateOfBirth:           p.DateOfBirth.Format(dateLayout),
		Age:                   p.Age(time.Now()),
		Gender:                p.Gender,
		Phone:                 p.Phone,
		Address:               p.Address,
		InsurancePolicyNumber: p.InsurancePolicyNumber,
		Notes:                 p.Notes,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
	if p.Email != nil {
		response.Email = *p.Email
	}

	return response
}

func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}
