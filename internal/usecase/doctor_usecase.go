package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-management/internal/converter"
	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
	"clinic-management/internal/domain/repository"
	"clinic-management/internal/domain/scheduling"
	"clinic-management/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound        = errors.New("doctor not found")
	ErrDoctorEmailExists     = errors.New("doctor email already exists")
	ErrDoctorUserLinked      = errors.New("user account is already linked to another doctor")
	ErrDoctorHasAppointments = errors.New("doctor has appointments and cannot be deleted")
)

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorDetailResponse, error)
	GetAllDoctors(ctx context.Context, filter *entity.DoctorFilter) ([]dto.DoctorResponse, error)
	UpdateDoctor(ctx context.Context, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, id uuid.UUID) error
}

type doctorUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	doctorRepo         repository.DoctorRepository
	specializationRepo repository.SpecializationRepository
	userRepo           repository.UserRepository
	appointmentRepo    repository.AppointmentRepository
	auditService       service.AuditService
	clock              scheduling.Clock
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	specializationRepo repository.SpecializationRepository,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	clock scheduling.Clock,
) DoctorUsecase {
	return &doctorUsecase{
		db:                 db,
		log:                log,
		doctorRepo:         doctorRepo,
		specializationRepo: specializationRepo,
		userRepo:           userRepo,
		appointmentRepo:    appointmentRepo,
		auditService:       auditService,
		clock:              clock,
	}
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	specialization, err := u.specializationRepo.FindByID(tx, req.SpecializationID)
	if err != nil {
		u.log.Warnf("Failed to find specialization: %+v", err)
		return nil, err
	}
	if specialization == nil {
		return nil, ErrSpecializationNotFound
	}

	doctor := &entity.Doctor{
		SpecializationID: req.SpecializationID,
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		MiddleName:       strings.TrimSpace(req.MiddleName),
		ExperienceYears:  req.ExperienceYears,
		Phone:            req.Phone,
		Email:            req.Email,
		RoomNumber:       req.RoomNumber,
		Bio:              req.Bio,
		IsActive:         req.IsActive,
	}

	if req.UserID != "" {
		userID, err := u.linkableUser(tx, req.UserID)
		if err != nil {
			return nil, err
		}
		doctor.UserID = userID
	}

	if err := u.doctorRepo.Create(tx, doctor); err != nil {
		if err := translateDoctorWriteError(err); err != nil {
			return nil, err
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}
	doctor.Specialization = *specialization

	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionDoctorCreate, "doctor", doctor.ID.String(), converter.DoctorToResponse(doctor)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

// GetDoctor returns the doctor card with upcoming scheduled appointments and
// the number of completed visits.
func (u *doctorUsecase) GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorDetailResponse, error) {
	db := u.db.WithContext(ctx)

	doctor, err := u.doctorRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	upcoming, err := u.appointmentRepo.FindUpcomingByDoctor(db, id, u.clock.Now())
	if err != nil {
		u.log.Warnf("Failed to find upcoming appointments: %+v", err)
		return nil, err
	}

	completed, err := u.appointmentRepo.CountByDoctorAndStatus(db, id, entity.AppointmentStatusCompleted)
	if err != nil {
		u.log.Warnf("Failed to count completed appointments: %+v", err)
		return nil, err
	}

	return &dto.DoctorDetailResponse{
		DoctorResponse:       *converter.DoctorToResponse(doctor),
		UpcomingAppointments: converter.AppointmentsToResponses(upcoming),
		CompletedCount:       completed,
	}, nil
}

func (u *doctorUsecase) GetAllDoctors(ctx context.Context, filter *entity.DoctorFilter) ([]dto.DoctorResponse, error) {
	doctors, err := u.doctorRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find all doctors: %+v", err)
		return nil, err
	}

	return converter.DoctorsToResponses(doctors), nil
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	oldValue := converter.DoctorToResponse(doctor)

	if req.SpecializationID != 0 && req.SpecializationID != doctor.SpecializationID {
		specialization, err := u.specializationRepo.FindByID(tx, req.SpecializationID)
		if err != nil {
			u.log.Warnf("Failed to find specialization: %+v", err)
			return nil, err
		}
		if specialization == nil {
			return nil, ErrSpecializationNotFound
		}
		doctor.SpecializationID = specialization.ID
		doctor.Specialization = *specialization
	}
	if req.FirstName != "" {
		doctor.FirstName = strings.TrimSpace(req.FirstName)
	}
	if req.LastName != "" {
		doctor.LastName = strings.TrimSpace(req.LastName)
	}
	if req.MiddleName != nil {
		doctor.MiddleName = strings.TrimSpace(*req.MiddleName)
	}
	if req.ExperienceYears != nil {
		doctor.ExperienceYears = *req.ExperienceYears
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.Email != nil {
		doctor.Email = *req.Email
	}
	if req.RoomNumber != nil {
		doctor.RoomNumber = *req.RoomNumber
	}
	if req.Bio != nil {
		doctor.Bio = *req.Bio
	}
	if req.IsActive != nil {
		doctor.IsActive = req.IsActive
	}

	if err := u.doctorRepo.Update(tx, doctor); err != nil {
		if err := translateDoctorWriteError(err); err != nil {
			return nil, err
		}
		u.log.Warnf("Failed to update doctor: %+v", err)
		return nil, err
	}

	newValue := converter.DoctorToResponse(doctor)
	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionDoctorUpdate, "doctor", id.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

func (u *doctorUsecase) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	rows, err := u.doctorRepo.Delete(tx, id)
	if err != nil {
		if isForeignKeyError(err, "appointments_doctor") {
			return ErrDoctorHasAppointments
		}
		u.log.Warnf("Failed to delete doctor: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrDoctorNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, entity.AuditActionDoctorDelete, "doctor", id.String(), converter.DoctorToResponse(doctor)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

// linkableUser checks that the staff account exists and has the doctor role.
func (u *doctorUsecase) linkableUser(tx *gorm.DB, raw string) (*uuid.UUID, error) {
	userID, err := uuid.Parse(raw)
	if err != nil {
		return nil, ErrUserNotFound
	}
	user, err := u.userRepo.FindByID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user == nil || user.RoleID != entity.RoleIDDoctor {
		return nil, ErrUserNotFound
	}
	return &userID, nil
}

func translateDoctorWriteError(err error) error {
	switch {
	case isDuplicateKeyError(err, "doctors_email"):
		return ErrDoctorEmailExists
	case isDuplicateKeyError(err, "doctors_user_id"):
		return ErrDoctorUserLinked
	case isForeignKeyError(err, "doctors_specialization"):
		return ErrSpecializationNotFound
	}
	return nil
}
