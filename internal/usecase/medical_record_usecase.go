package usecase

import (
	"context"
	"errors"
	"strconv"

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
	ErrMedicalRecordNotFound   = errors.New("medical record not found")
	ErrMedicalRecordExists     = errors.New("appointment already has a medical record")
	ErrAppointmentNotCompleted = errors.New("medical records can only be written for completed appointments")
)

type MedicalRecordUsecase interface {
	Create(ctx context.Context, appointmentID int64, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.MedicalRecordResponse, error)
	GetByPatient(ctx context.Context, patientID uuid.UUID) ([]dto.MedicalRecordResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
}

type medicalRecordUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	medicalRecordRepo repository.MedicalRecordRepository
	appointmentRepo   repository.AppointmentRepository
	patientRepo       repository.PatientRepository
	auditService      service.AuditService
}

func NewMedicalRecordUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	medicalRecordRepo repository.MedicalRecordRepository,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
) MedicalRecordUsecase {
	return &medicalRecordUsecase{
		db:                db,
		log:               log,
		medicalRecordRepo: medicalRecordRepo,
		appointmentRepo:   appointmentRepo,
		patientRepo:       patientRepo,
		auditService:      auditService,
	}
}

func (u *medicalRecordUsecase) Create(ctx context.Context, appointmentID int64, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.IsCompleted() {
		return nil, ErrAppointmentNotCompleted
	}
	if appointment.MedicalRecord != nil {
		return nil, ErrMedicalRecordExists
	}

	record := &entity.MedicalRecord{
		AppointmentID:   appointmentID,
		Complaints:      req.Complaints,
		Diagnosis:       req.Diagnosis,
		ExaminationData: req.ExaminationData,
		TreatmentPlan:   req.TreatmentPlan,
		Recommendations: req.Recommendations,
		Prescription:    req.Prescription,
	}

	if err := u.medicalRecordRepo.Create(tx, record); err != nil {
		if isDuplicateKeyError(err, "medical_records_appointment_id") {
			return nil, ErrMedicalRecordExists
		}
		u.log.Warnf("Failed to create medical record: %+v", err)
		return nil, err
	}

	response := converter.MedicalRecordToResponse(record)
	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionMedicalRecordCreate, "medical_record", strconv.FormatInt(record.ID, 10), response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	record.Appointment = appointment
	return converter.MedicalRecordToResponse(record), nil
}

func (u *medicalRecordUsecase) GetByID(ctx context.Context, id int64) (*dto.MedicalRecordResponse, error) {
	record, err := u.medicalRecordRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find medical record: %+v", err)
		return nil, err
	}
	if record == nil {
		return nil, ErrMedicalRecordNotFound
	}

	return converter.MedicalRecordToResponse(record), nil
}

func (u *medicalRecordUsecase) GetByPatient(ctx context.Context, patientID uuid.UUID) ([]dto.MedicalRecordResponse, error) {
	db := u.db.WithContext(ctx)

	patient, err := u.patientRepo.FindByID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	records, err := u.medicalRecordRepo.FindByPatientID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find medical records: %+v", err)
		return nil, err
	}

	return converter.MedicalRecordsToResponses(records), nil
}

func (u *medicalRecordUsecase) Update(ctx context.Context, id int64, req *dto.UpdateMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	record, err := u.medicalRecordRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find medical record: %+v", err)
		return nil, err
	}
	if record == nil {
		return nil, ErrMedicalRecordNotFound
	}

	oldValue := converter.MedicalRecordToResponse(record)

	record.Complaints = req.Complaints
	record.Diagnosis = req.Diagnosis
	record.ExaminationData = req.ExaminationData
	record.TreatmentPlan = req.TreatmentPlan
	record.Recommendations = req.Recommendations
	record.Prescription = req.Prescription

	if err := u.medicalRecordRepo.Update(tx, record); err != nil {
		u.log.Warnf("Failed to update medical record: %+v", err)
		return nil, err
	}

	newValue := converter.MedicalRecordToResponse(record)
	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionMedicalRecordUpdate, "medical_record", strconv.FormatInt(id, 10), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}
