package usecase

import (
	"context"
	"testing"

	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type medicalRecordFixture struct {
	usecase         MedicalRecordUsecase
	sql             sqlmock.Sqlmock
	recordRepo      *MockMedicalRecordRepository
	appointmentRepo *MockAppointmentRepository
	audit           *MockAuditService
}

func setupMedicalRecordUsecase(t *testing.T) *medicalRecordFixture {
	db, sqlMock := setupMockDB(t)

	f := &medicalRecordFixture{
		sql:             sqlMock,
		recordRepo:      &MockMedicalRecordRepository{},
		appointmentRepo: &MockAppointmentRepository{},
		audit:           &MockAuditService{},
	}
	f.usecase = NewMedicalRecordUsecase(db, discardLogger(), f.recordRepo, f.appointmentRepo, &MockPatientRepository{}, f.audit)
	return f
}

func (f *medicalRecordFixture) assertExpectations(t *testing.T) {
	f.recordRepo.AssertExpectations(t)
	f.appointmentRepo.AssertExpectations(t)
	f.audit.AssertExpectations(t)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

var examination = &dto.CreateMedicalRecordRequest{
	Complaints: "Headache for three days",
	Diagnosis:  "Tension headache",
}

func TestMedicalRecordUsecase_Create_Success(t *testing.T) {
	f := setupMedicalRecordUsecase(t)

	f.sql.ExpectBegin()
	f.sql.ExpectCommit()

	f.appointmentRepo.On("FindByID", mock.Anything, int64(12)).Return(&entity.Appointment{
		ID:     12,
		Status: entity.AppointmentStatusCompleted,
	}, nil)
	f.recordRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *entity.MedicalRecord) bool {
		return r.AppointmentID == 12 && r.Diagnosis == "Tension headache"
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.MedicalRecord).ID = 3
		}).
		Return(nil)
	f.audit.On("LogCreate", mock.Anything, mock.Anything, entity.AuditActionMedicalRecordCreate, "medical_record", "3", mock.Anything).Return(nil)

	record, err := f.usecase.Create(context.Background(), 12, examination)

	require.NoError(t, err)
	assert.Equal(t, int64(3), record.ID)
	require.NotNil(t, record.Appointment)
	assert.Equal(t, int64(12), record.Appointment.ID)
	f.assertExpectations(t)
}

func TestMedicalRecordUsecase_Create_RequiresCompletedAppointment(t *testing.T) {
	statuses := []entity.AppointmentStatus{
		entity.AppointmentStatusScheduled,
		entity.AppointmentStatusCancelledByPatient,
		entity.AppointmentStatusCancelledByClinic,
		entity.AppointmentStatusNoShow,
	}

	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			f := setupMedicalRecordUsecase(t)

			f.sql.ExpectBegin()
			f.sql.ExpectRollback()

			f.appointmentRepo.On("FindByID", mock.Anything, int64(12)).Return(&entity.Appointment{ID: 12, Status: status}, nil)

			_, err := f.usecase.Create(context.Background(), 12, examination)

			assert.ErrorIs(t, err, ErrAppointmentNotCompleted)
			f.recordRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			f.assertExpectations(t)
		})
	}
}

func TestMedicalRecordUsecase_Create_OnePerAppointment(t *testing.T) {
	f := setupMedicalRecordUsecase(t)

	f.sql.ExpectBegin()
	f.sql.ExpectRollback()

	f.appointmentRepo.On("FindByID", mock.Anything, int64(12)).Return(&entity.Appointment{
		ID:            12,
		Status:        entity.AppointmentStatusCompleted,
		MedicalRecord: &entity.MedicalRecord{ID: 3, AppointmentID: 12},
	}, nil)

	_, err := f.usecase.Create(context.Background(), 12, examination)

	assert.ErrorIs(t, err, ErrMedicalRecordExists)
	f.recordRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestMedicalRecordUsecase_Create_ConcurrentRecordHitsUniqueConstraint(t *testing.T) {
	f := setupMedicalRecordUsecase(t)

	f.sql.ExpectBegin()
	f.sql.ExpectRollback()

	f.appointmentRepo.On("FindByID", mock.Anything, int64(12)).Return(&entity.Appointment{
		ID:     12,
		Status: entity.AppointmentStatusCompleted,
	}, nil)
	f.recordRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.MedicalRecord")).
		Return(&pgconn.PgError{Code: "23505", ConstraintName: "medical_records_appointment_id_key"})

	_, err := f.usecase.Create(context.Background(), 12, examination)

	assert.ErrorIs(t, err, ErrMedicalRecordExists)
	f.audit.AssertNotCalled(t, "LogCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestMedicalRecordUsecase_Create_UnknownAppointment(t *testing.T) {
	f := setupMedicalRecordUsecase(t)

	f.sql.ExpectBegin()
	f.sql.ExpectRollback()

	f.appointmentRepo.On("FindByID", mock.Anything, int64(404)).Return(nil, nil)

	_, err := f.usecase.Create(context.Background(), 404, examination)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	f.assertExpectations(t)
}
