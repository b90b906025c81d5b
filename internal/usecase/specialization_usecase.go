package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"clinic-management/internal/converter"
	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
	"clinic-management/internal/domain/repository"
	"clinic-management/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSpecializationNotFound = errors.New("specialization not found")
	ErrSpecializationExists   = errors.New("specialization name already exists")
	ErrSpecializationInUse    = errors.New("specialization is assigned to doctors and cannot be deleted")
)

type SpecializationUsecase interface {
	Create(ctx context.Context, req *dto.CreateSpecializationRequest) (*dto.SpecializationResponse, error)
	GetAll(ctx context.Context) ([]dto.SpecializationResponse, error)
	GetByID(ctx context.Context, id int) (*dto.SpecializationResponse, error)
	Update(ctx context.Context, id int, req *dto.UpdateSpecializationRequest) (*dto.SpecializationResponse, error)
	Delete(ctx context.Context, id int) error
}

type specializationUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	specializationRepo repository.SpecializationRepository
	auditService       service.AuditService
}

func NewSpecializationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	specializationRepo repository.SpecializationRepository,
	auditService service.AuditService,
) SpecializationUsecase {
	return &specializationUsecase{
		db:                 db,
		log:                log,
		specializationRepo: specializationRepo,
		auditService:       auditService,
	}
}

func (u *specializationUsecase) Create(ctx context.Context, req *dto.CreateSpecializationRequest) (*dto.SpecializationResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	specialization := &entity.Specialization{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}

	if err := u.specializationRepo.Create(tx, specialization); err != nil {
		if isDuplicateKeyError(err, "specializations_name") {
			return nil, ErrSpecializationExists
		}
		u.log.Warnf("Failed to create specialization: %+v", err)
		return nil, err
	}

	response := converter.SpecializationToResponse(specialization)
	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionSpecializationCreate, "specialization", strconv.Itoa(specialization.ID), response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *specializationUsecase) GetAll(ctx context.Context) ([]dto.SpecializationResponse, error) {
	specializations, err := u.specializationRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all specializations: %+v", err)
		return nil, err
	}

	return converter.SpecializationsToResponses(specializations), nil
}

func (u *specializationUsecase) GetByID(ctx context.Context, id int) (*dto.SpecializationResponse, error) {
	specialization, err := u.specializationRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find specialization: %+v", err)
		return nil, err
	}
	if specialization == nil {
		return nil, ErrSpecializationNotFound
	}

	return converter.SpecializationToResponse(specialization), nil
}

func (u *specializationUsecase) Update(ctx context.Context, id int, req *dto.UpdateSpecializationRequest) (*dto.SpecializationResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	specialization, err := u.specializationRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find specialization: %+v", err)
		return nil, err
	}
	if specialization == nil {
		return nil, ErrSpecializationNotFound
	}

	oldValue := converter.SpecializationToResponse(specialization)

	specialization.Name = strings.TrimSpace(req.Name)
	specialization.Description = req.Description

	if err := u.specializationRepo.Update(tx, specialization); err != nil {
		if isDuplicateKeyError(err, "specializations_name") {
			return nil, ErrSpecializationExists
		}
		u.log.Warnf("Failed to update specialization: %+v", err)
		return nil, err
	}

	newValue := converter.SpecializationToResponse(specialization)
	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionSpecializationUpdate, "specialization", strconv.Itoa(id), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

func (u *specializationUsecase) Delete(ctx context.Context, id int) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	specialization, err := u.specializationRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find specialization: %+v", err)
		return err
	}
	if specialization == nil {
		return ErrSpecializationNotFound
	}

	rows, err := u.specializationRepo.Delete(tx, id)
	if err != nil {
		if isForeignKeyError(err, "doctors_specialization") {
			return ErrSpecializationInUse
		}
		u.log.Warnf("Failed to delete specialization: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrSpecializationNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, entity.AuditActionSpecializationDelete, "specialization", strconv.Itoa(id), converter.SpecializationToResponse(specialization)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
