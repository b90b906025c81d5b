package usecase

import (
	"context"
	"testing"

	"clinic-management/internal/domain/entity"
	"clinic-management/internal/domain/scheduling"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func foreignKeyViolation(constraint string) error {
	return &pgconn.PgError{Code: "23503", ConstraintName: constraint}
}

func TestDoctorUsecase_Delete_BlockedByAppointments(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	doctorRepo := &MockDoctorRepository{}
	audit := &MockAuditService{}
	u := NewDoctorUsecase(db, discardLogger(), doctorRepo, &MockSpecializationRepository{}, nil, &MockAppointmentRepository{}, audit, scheduling.FixedClock{At: testNow})

	doctor := activeDoctor()

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()

	doctorRepo.On("FindByID", mock.Anything, doctor.ID).Return(doctor, nil)
	doctorRepo.On("Delete", mock.Anything, doctor.ID).Return(int64(0), foreignKeyViolation("appointments_doctor_fkey"))

	err := u.DeleteDoctor(context.Background(), doctor.ID)

	assert.ErrorIs(t, err, ErrDoctorHasAppointments)
	audit.AssertNotCalled(t, "LogDelete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	doctorRepo.AssertExpectations(t)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestSpecializationUsecase_Delete_BlockedByDoctors(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	specializationRepo := &MockSpecializationRepository{}
	audit := &MockAuditService{}
	u := NewSpecializationUsecase(db, discardLogger(), specializationRepo, audit)

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()

	specializationRepo.On("FindByID", mock.Anything, 4).Return(&entity.Specialization{ID: 4, Name: "Cardiology"}, nil)
	specializationRepo.On("Delete", mock.Anything, 4).Return(int64(0), foreignKeyViolation("doctors_specialization_fkey"))

	err := u.Delete(context.Background(), 4)

	assert.ErrorIs(t, err, ErrSpecializationInUse)
	audit.AssertNotCalled(t, "LogDelete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	specializationRepo.AssertExpectations(t)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestSpecializationUsecase_Delete_NotFound(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	specializationRepo := &MockSpecializationRepository{}
	u := NewSpecializationUsecase(db, discardLogger(), specializationRepo, &MockAuditService{})

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()

	specializationRepo.On("FindByID", mock.Anything, 99).Return(nil, nil)

	err := u.Delete(context.Background(), 99)

	assert.ErrorIs(t, err, ErrSpecializationNotFound)
	specializationRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestPatientUsecase_Delete(t *testing.T) {
	tests := []struct {
		name      string
		deleteErr error
		rows      int64
		wantErr   error
	}{
		{"has appointments", foreignKeyViolation("appointments_patient_fkey"), 0, ErrPatientHasAppointments},
		{"deleted", nil, 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, sqlMock := setupMockDB(t)
			patientRepo := &MockPatientRepository{}
			audit := &MockAuditService{}
			u := NewPatientUsecase(db, discardLogger(), patientRepo, audit)

			patient := &entity.Patient{ID: uuid.New(), FirstName: "Olga", LastName: "Ivanova"}

			sqlMock.ExpectBegin()
			if tt.wantErr == nil {
				audit.On("LogDelete", mock.Anything, mock.Anything, entity.AuditActionPatientDelete, "patient", patient.ID.String(), mock.Anything).Return(nil)
				sqlMock.ExpectCommit()
			} else {
				sqlMock.ExpectRollback()
			}

			patientRepo.On("FindByID", mock.Anything, patient.ID).Return(patient, nil)
			patientRepo.On("Delete", mock.Anything, patient.ID).Return(tt.rows, tt.deleteErr)

			err := u.DeletePatient(context.Background(), patient.ID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			patientRepo.AssertExpectations(t)
			audit.AssertExpectations(t)
			assert.NoError(t, sqlMock.ExpectationsWereMet())
		})
	}
}
