package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-management/internal/converter"
	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
	"clinic-management/internal/domain/repository"
	"clinic-management/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrClinicServiceNotFound   = errors.New("service not found")
	ErrClinicServiceCodeExists = errors.New("service code already exists")
	ErrInvalidPrice            = errors.New("price must not be negative")
)

const defaultServicePageSize = 20

type ClinicServiceUsecase interface {
	Create(ctx context.Context, req *dto.CreateClinicServiceRequest) (*dto.ClinicServiceResponse, error)
	GetAll(ctx context.Context, page, limit int) ([]dto.ClinicServiceResponse, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ClinicServiceResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateClinicServiceRequest) (*dto.ClinicServiceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type clinicServiceUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	serviceRepo        repository.ClinicServiceRepository
	specializationRepo repository.SpecializationRepository
	auditService       service.AuditService
}

func NewClinicServiceUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	serviceRepo repository.ClinicServiceRepository,
	specializationRepo repository.SpecializationRepository,
	auditService service.AuditService,
) ClinicServiceUsecase {
	return &clinicServiceUsecase{
		db:                 db,
		log:                log,
		serviceRepo:        serviceRepo,
		specializationRepo: specializationRepo,
		auditService:       auditService,
	}
}

func (u *clinicServiceUsecase) Create(ctx context.Context, req *dto.CreateClinicServiceRequest) (*dto.ClinicServiceResponse, error) {
	if req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	specializations, err := u.resolveSpecializations(tx, req.SpecializationIDs)
	if err != nil {
		return nil, err
	}

	clinicService := &entity.ClinicService{
		Name:            strings.TrimSpace(req.Name),
		Code:            strings.ToUpper(strings.TrimSpace(req.Code)),
		Description:     req.Description,
		Price:           req.Price.Round(2),
		DurationMinutes: durationOr(req.DurationMinutes, entity.DefaultAppointmentDuration),
		Specializations: specializations,
	}

	if err := u.serviceRepo.Create(tx, clinicService); err != nil {
		if isDuplicateKeyError(err, "clinic_services_code") {
			return nil, ErrClinicServiceCodeExists
		}
		u.log.Warnf("Failed to create service: %+v", err)
		return nil, err
	}

	response := converter.ClinicServiceToResponse(clinicService)
	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionServiceCreate, "clinic_service", clinicService.ID.String(), response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *clinicServiceUsecase) GetAll(ctx context.Context, page, limit int) ([]dto.ClinicServiceResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultServicePageSize
	}

	offset := (page - 1) * limit

	services, total, err := u.serviceRepo.FindAll(u.db.WithContext(ctx), limit, offset)
	if err != nil {
		u.log.Warnf("Failed to find services: %+v", err)
		return nil, 0, err
	}

	return converter.ClinicServicesToResponses(services), total, nil
}

func (u *clinicServiceUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.ClinicServiceResponse, error) {
	clinicService, err := u.serviceRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find service: %+v", err)
		return nil, err
	}
	if clinicService == nil {
		return nil, ErrClinicServiceNotFound
	}

	return converter.ClinicServiceToResponse(clinicService), nil
}

func (u *clinicServiceUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateClinicServiceRequest) (*dto.ClinicServiceResponse, error) {
	if req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	clinicService, err := u.serviceRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find service: %+v", err)
		return nil, err
	}
	if clinicService == nil {
		return nil, ErrClinicServiceNotFound
	}

	specializations, err := u.resolveSpecializations(tx, req.SpecializationIDs)
	if err != nil {
		return nil, err
	}

	oldValue := converter.ClinicServiceToResponse(clinicService)

	clinicService.Name = strings.TrimSpace(req.Name)
	clinicService.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	clinicService.Description = req.Description
	clinicService.Price = req.Price.Round(2)
	clinicService.DurationMinutes = durationOr(req.DurationMinutes, clinicService.DurationMinutes)
	clinicService.Specializations = specializations

	if err := u.serviceRepo.Update(tx, clinicService); err != nil {
		if isDuplicateKeyError(err, "clinic_services_code") {
			return nil, ErrClinicServiceCodeExists
		}
		u.log.Warnf("Failed to update service: %+v", err)
		return nil, err
	}

	newValue := converter.ClinicServiceToResponse(clinicService)
	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionServiceUpdate, "clinic_service", id.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

func (u *clinicServiceUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	clinicService, err := u.serviceRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find service: %+v", err)
		return err
	}
	if clinicService == nil {
		return ErrClinicServiceNotFound
	}

	if _, err := u.serviceRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete service: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, entity.AuditActionServiceDelete, "clinic_service", id.String(), converter.ClinicServiceToResponse(clinicService)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

// resolveSpecializations fails when any of the IDs is unknown.
func (u *clinicServiceUsecase) resolveSpecializations(tx *gorm.DB, ids []int) ([]entity.Specialization, error) {
	if len(ids) == 0 {
		return []entity.Specialization{}, nil
	}

	unique := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	specializations, err := u.specializationRepo.FindByIDs(tx, ids)
	if err != nil {
		u.log.Warnf("Failed to find specializations: %+v", err)
		return nil, err
	}
	if len(specializations) != len(unique) {
		return nil, ErrSpecializationNotFound
	}
	return specializations, nil
}

func durationOr(minutes, fallback int) int {
	if minutes <= 0 {
		return fallback
	}
	return minutes
}
