package usecase

import (
	"context"
	"strings"

	"clinic-management/internal/converter"
	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
	"clinic-management/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const searchLimit = 10

type SearchUsecase interface {
	Search(ctx context.Context, query string) (*dto.SearchResponse, error)
}

type searchUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	doctorRepo  repository.DoctorRepository
	serviceRepo repository.ClinicServiceRepository
	patientRepo repository.PatientRepository
}

func NewSearchUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	serviceRepo repository.ClinicServiceRepository,
	patientRepo repository.PatientRepository,
) SearchUsecase {
	return &searchUsecase{
		db:          db,
		log:         log,
		doctorRepo:  doctorRepo,
		serviceRepo: serviceRepo,
		patientRepo: patientRepo,
	}
}

// Search looks the query up across doctors, services and patients. A blank query yields empty lists.
func (u *searchUsecase) Search(ctx context.Context, query string) (*dto.SearchResponse, error) {
	query = strings.TrimSpace(query)
	result := &dto.SearchResponse{
		Query:    query,
		Doctors:  []dto.DoctorResponse{},
		Services: []dto.ClinicServiceResponse{},
		Patients: []dto.PatientResponse{},
	}
	if query == "" {
		return result, nil
	}

	db := u.db.WithContext(ctx)

	doctors, err := u.doctorRepo.Search(db, query, searchLimit)
	if err != nil {
		u.log.Warnf("Failed to search doctors: %+v", err)
		return nil, err
	}

	services, err := u.serviceRepo.Search(db, query, searchLimit)
	if err != nil {
		u.log.Warnf("Failed to search services: %+v", err)
		return nil, err
	}

	patients, _, err := u.patientRepo.FindAll(db, &entity.PatientFilter{Query: query, Limit: searchLimit})
	if err != nil {
		u.log.Warnf("Failed to search patients: %+v", err)
		return nil, err
	}

	result.Doctors = converter.DoctorsToResponses(doctors)
	result.Services = converter.ClinicServicesToResponses(services)
	result.Patients = converter.PatientsToResponses(patients)
	return result, nil
}
