package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
	"clinic-management/internal/domain/scheduling"
	"clinic-management/pkg/metrics"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Monday morning, before opening hours
var testNow = time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)

type appointmentFixture struct {
	usecase         AppointmentUsecase
	sql             sqlmock.Sqlmock
	appointmentRepo *MockAppointmentRepository
	doctorRepo      *MockDoctorRepository
	patientRepo     *MockPatientRepository
	recordRepo      *MockMedicalRecordRepository
	errorRepo       *MockScheduleErrorRepository
	audit           *MockAuditService
	counter         *MockAppointmentCounter
	metrics         *metrics.Collector
}

func setupAppointmentUsecase(t *testing.T) *appointmentFixture {
	db, sqlMock := setupMockDB(t)

	f := &appointmentFixture{
		sql:             sqlMock,
		appointmentRepo: &MockAppointmentRepository{},
		doctorRepo:      &MockDoctorRepository{},
		patientRepo:     &MockPatientRepository{},
		recordRepo:      &MockMedicalRecordRepository{},
		errorRepo:       &MockScheduleErrorRepository{},
		audit:           &MockAuditService{},
		counter:         &MockAppointmentCounter{},
		metrics:         metrics.NewCollector(),
	}
	f.usecase = NewAppointmentUsecase(
		db, discardLogger(), f.appointmentRepo, f.doctorRepo, f.patientRepo, f.recordRepo, f.errorRepo,
		f.audit, f.counter, f.metrics, scheduling.FixedClock{At: testNow}, scheduling.DefaultPolicy(), 30,
	)
	return f
}

func (f *appointmentFixture) assertExpectations(t *testing.T) {
	f.appointmentRepo.AssertExpectations(t)
	f.doctorRepo.AssertExpectations(t)
	f.patientRepo.AssertExpectations(t)
	f.recordRepo.AssertExpectations(t)
	f.errorRepo.AssertExpectations(t)
	f.audit.AssertExpectations(t)
	f.counter.AssertExpectations(t)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func activeDoctor() *entity.Doctor {
	return &entity.Doctor{ID: uuid.New(), FirstName: "Anna", LastName: "Petrova"}
}

func at(hour, minute int) *time.Time {
	t := time.Date(2025, 6, 2, hour, minute, 0, 0, time.UTC)
	return &t
}

func TestAppointmentUsecase_Create_Success(t *testing.T) {
	f := setupAppointmentUsecase(t)
	doctor := activeDoctor()
	patientID := uuid.New()
	start := at(10, 0)

	f.sql.ExpectBegin()
	f.sql.ExpectCommit()

	f.patientRepo.On("FindByID", mock.Anything, patientID).Return(&entity.Patient{ID: patientID}, nil)
	f.doctorRepo.On("FindByID", mock.Anything, doctor.ID).Return(doctor, nil)
	f.appointmentRepo.On("FindScheduledOverlapping", mock.Anything, doctor.ID, *start, start.Add(30*time.Minute), int64(0)).
		Return([]entity.Appointment{}, nil)
	f.appointmentRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Appointment")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Appointment).ID = 42
		}).
		Return(nil)
	f.audit.On("LogCreate", mock.Anything, mock.Anything, entity.AuditActionAppointmentCreate, "appointment", "42", mock.Anything).Return(nil)
	f.counter.On("Increment", mock.Anything, doctor.ID).Return()
	f.appointmentRepo.On("FindByID", mock.Anything, int64(42)).Return(&entity.Appointment{
		ID:              42,
		DoctorID:        doctor.ID,
		PatientID:       patientID,
		ScheduledAt:     start,
		DurationMinutes: 30,
		Status:          entity.AppointmentStatusScheduled,
	}, nil)

	result, err := f.usecase.Create(context.Background(), &dto.CreateAppointmentRequest{
		DoctorID:    doctor.ID.String(),
		PatientID:   patientID.String(),
		ScheduledAt: start,
		Reason:      "Annual check-up",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), result.ID)
	assertSeries(t, f.metrics, "appointment_writes_total", 1)
	f.assertExpectations(t)
}

func assertSeries(t *testing.T, collector *metrics.Collector, name string, want int) {
	t.Helper()
	got, err := testutil.GatherAndCount(collector.Registry(), name)
	require.NoError(t, err)
	assert.Equal(t, want, got, name)
}

func TestAppointmentUsecase_Create_RejectedOutsideOperatingDays(t *testing.T) {
	f := setupAppointmentUsecase(t)
	doctorID := uuid.New()
	patientID := uuid.New()
	saturday := time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC)

	f.sql.ExpectBegin()
	f.sql.ExpectRollback()

	f.patientRepo.On("FindByID", mock.Anything, patientID).Return(&entity.Patient{ID: patientID}, nil)
	f.errorRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *entity.ScheduleError) bool {
		return e.DoctorID == doctorID &&
			e.Reason == string(scheduling.ReasonOutsideOperatingDays) &&
			e.AppointmentID == nil &&
			e.ScheduledAt.Equal(saturday) &&
			e.DetectedAt.Equal(testNow)
	})).Return(nil)

	_, err := f.usecase.Create(context.Background(), &dto.CreateAppointmentRequest{
		DoctorID:    doctorID.String(),
		PatientID:   patientID.String(),
		ScheduledAt: &saturday,
	})

	var rejection *scheduling.Rejection
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, scheduling.ReasonOutsideOperatingDays, rejection.Reason)
	f.appointmentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.counter.AssertNotCalled(t, "Increment", mock.Anything, mock.Anything)
	assertSeries(t, f.metrics, "scheduling_rejections_total", 1)
	f.assertExpectations(t)
}

func TestAppointmentUsecase_Create_ConflictWithBookedAppointment(t *testing.T) {
	f := setupAppointmentUsecase(t)
	doctor := activeDoctor()
	patientID := uuid.New()
	start := at(10, 15)

	f.sql.ExpectBegin()
	f.sql.ExpectRollback()

	f.patientRepo.On("FindByID", mock.Anything, patientID).Return(&entity.Patient{ID: patientID}, nil)
	f.doctorRepo.On("FindByID", mock.Anything, doctor.ID).Return(doctor, nil)
	f.appointmentRepo.On("FindScheduledOverlapping", mock.Anything, doctor.ID, *start, start.Add(30*time.Minute), int64(0)).
		Return([]entity.Appointment{{ID: 7, DoctorID: doctor.ID, ScheduledAt: at(10, 0), DurationMinutes: 30, Status: entity.AppointmentStatusScheduled}}, nil)
	f.errorRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *entity.ScheduleError) bool {
		return e.Reason == string(scheduling.ReasonDoctorConflict) && e.ConflictID != nil && *e.ConflictID == 7
	})).Return(nil)

	_, err := f.usecase.Create(context.Background(), &dto.CreateAppointmentRequest{
		DoctorID:    doctor.ID.String(),
		PatientID:   patientID.String(),
		ScheduledAt: start,
	})

	var rejection *scheduling.Rejection
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, scheduling.ReasonDoctorConflict, rejection.Reason)
	assert.Equal(t, int64(7), rejection.ConflictID)
	f.assertExpectations(t)
}

func TestAppointmentUsecase_Create_StorageOverlapBecomesConflict(t *testing.T) {
	f := setupAppointmentUsecase(t)
	doctor := activeDoctor()
	patientID := uuid.New()
	start := at(11, 0)

	f.sql.ExpectBegin()
	f.sql.ExpectRollback()

	f.patientRepo.On("FindByID", mock.Anything, patientID).Return(&entity.Patient{ID: patientID}, nil)
	f.doctorRepo.On("FindByID", mock.Anything, doctor.ID).Return(doctor, nil)
	f.appointmentRepo.On("FindScheduledOverlapping", mock.Anything, doctor.ID, *start, start.Add(30*time.Minute), int64(0)).
		Return([]entity.Appointment{}, nil)
	f.appointmentRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Appointment")).
		Return(&pgconn.PgError{Code: "23P01", ConstraintName: "appointments_no_overlap"})
	f.errorRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *entity.ScheduleError) bool {
		return e.Reason == string(scheduling.ReasonDoctorConflict) && e.ConflictID == nil
	})).Return(nil)

	_, err := f.usecase.Create(context.Background(), &dto.CreateAppointmentRequest{
		DoctorID:    doctor.ID.String(),
		PatientID:   patientID.String(),
		ScheduledAt: start,
	})

	var rejection *scheduling.Rejection
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, scheduling.ReasonDoctorConflict, rejection.Reason)
	assert.Zero(t, rejection.ConflictID)
	assert.Contains(t, rejection.Detail, "Petrova Anna")
	f.audit.AssertNotCalled(t, "LogCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestAppointmentUsecase_Create_UnknownPatient(t *testing.T) {
	f := setupAppointmentUsecase(t)
	patientID := uuid.New()

	f.sql.ExpectBegin()
	f.sql.ExpectRollback()

	f.patientRepo.On("FindByID", mock.Anything, patientID).Return(nil, nil)

	_, err := f.usecase.Create(context.Background(), &dto.CreateAppointmentRequest{
		DoctorID:    uuid.NewString(),
		PatientID:   patientID.String(),
		ScheduledAt: at(10, 0),
	})

	assert.ErrorIs(t, err, ErrPatientNotFound)
	f.assertExpectations(t)
}

func TestAppointmentUsecase_ChangeStatus_FromTerminalStatus(t *testing.T) {
	f := setupAppointmentUsecase(t)

	f.sql.ExpectBegin()
	f.sql.ExpectRollback()

	f.appointmentRepo.On("FindByID", mock.Anything, int64(5)).Return(&entity.Appointment{
		ID:     5,
		Status: entity.AppointmentStatusCompleted,
	}, nil)

	_, err := f.usecase.ChangeStatus(context.Background(), 5, &dto.ChangeAppointmentStatusRequest{
		Status: string(entity.AppointmentStatusCancelledByClinic),
	})

	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	f.appointmentRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestAppointmentUsecase_ChangeStatus_CompletesAndDecrementsCounter(t *testing.T) {
	f := setupAppointmentUsecase(t)
	doctorID := uuid.New()
	appointment := &entity.Appointment{
		ID:              5,
		DoctorID:        doctorID,
		ScheduledAt:     at(15, 0),
		DurationMinutes: 30,
		Status:          entity.AppointmentStatusScheduled,
	}

	f.sql.ExpectBegin()
	f.sql.ExpectCommit()

	f.appointmentRepo.On("FindByID", mock.Anything, int64(5)).Return(appointment, nil)
	f.appointmentRepo.On("UpdateStatus", mock.Anything, int64(5), entity.AppointmentStatusScheduled, entity.AppointmentStatusCompleted, "seen").
		Return(int64(1), nil)
	f.audit.On("LogUpdate", mock.Anything, mock.Anything, entity.AuditActionAppointmentStatus, "appointment", "5", mock.Anything, mock.Anything).Return(nil)
	f.counter.On("Decrement", mock.Anything, doctorID).Return()

	_, err := f.usecase.ChangeStatus(context.Background(), 5, &dto.ChangeAppointmentStatusRequest{
		Status: string(entity.AppointmentStatusCompleted),
		Notes:  "seen",
	})

	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestAppointmentUsecase_Delete_BlockedByMedicalRecord(t *testing.T) {
	f := setupAppointmentUsecase(t)

	f.sql.ExpectBegin()
	f.sql.ExpectRollback()

	f.appointmentRepo.On("FindByID", mock.Anything, int64(9)).Return(&entity.Appointment{
		ID:     9,
		Status: entity.AppointmentStatusCompleted,
	}, nil)
	f.recordRepo.On("FindByAppointmentID", mock.Anything, int64(9)).Return(&entity.MedicalRecord{ID: 3, AppointmentID: 9}, nil)

	err := f.usecase.Delete(context.Background(), 9)

	assert.ErrorIs(t, err, ErrAppointmentHasMedicalRecord)
	f.appointmentRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestAppointmentUsecase_Delete_NotFound(t *testing.T) {
	f := setupAppointmentUsecase(t)

	f.sql.ExpectBegin()
	f.sql.ExpectRollback()

	f.appointmentRepo.On("FindByID", mock.Anything, int64(404)).Return(nil, nil)

	err := f.usecase.Delete(context.Background(), 404)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	f.assertExpectations(t)
}

func TestAppointmentUsecase_Preview_ReportsRejectionWithoutWriting(t *testing.T) {
	f := setupAppointmentUsecase(t)

	result, err := f.usecase.Preview(context.Background(), &dto.ValidateAppointmentRequest{
		DoctorID:    uuid.NewString(),
		PatientID:   uuid.NewString(),
		ScheduledAt: at(19, 0),
	})

	require.NoError(t, err)
	assert.False(t, result.Accepted)
	require.NotNil(t, result.Rejection)
	assert.Equal(t, string(scheduling.ReasonOutsideOperatingHours), result.Rejection.Reason)
	f.errorRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assertSeries(t, f.metrics, "scheduling_rejections_total", 1)
	f.assertExpectations(t)
}

func TestAppointmentUsecase_Create_ScheduleErrorLogFailureKeepsRejection(t *testing.T) {
	f := setupAppointmentUsecase(t)
	patientID := uuid.New()
	evening := at(19, 30)

	f.sql.ExpectBegin()
	f.sql.ExpectRollback()

	f.patientRepo.On("FindByID", mock.Anything, patientID).Return(&entity.Patient{ID: patientID}, nil)
	f.errorRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.ScheduleError")).Return(errors.New("connection reset"))

	_, err := f.usecase.Create(context.Background(), &dto.CreateAppointmentRequest{
		DoctorID:    uuid.NewString(),
		PatientID:   patientID.String(),
		ScheduledAt: evening,
	})

	var rejection *scheduling.Rejection
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, scheduling.ReasonOutsideOperatingHours, rejection.Reason)
	f.assertExpectations(t)
}

func existingAppointment(doctorID uuid.UUID) *entity.Appointment {
	return &entity.Appointment{
		ID:              5,
		DoctorID:        doctorID,
		PatientID:       uuid.New(),
		ScheduledAt:     at(10, 0),
		DurationMinutes: 30,
		Status:          entity.AppointmentStatusScheduled,
	}
}

func TestAppointmentUsecase_Update_RejectsMoveToInactiveDoctor(t *testing.T) {
	f := setupAppointmentUsecase(t)
	current := activeDoctor()
	inactive := false
	retired := &entity.Doctor{ID: uuid.New(), FirstName: "Ivan", LastName: "Sidorov", IsActive: &inactive}

	f.sql.ExpectBegin()
	f.sql.ExpectRollback()

	f.appointmentRepo.On("FindByID", mock.Anything, int64(5)).Return(existingAppointment(current.ID), nil)
	f.doctorRepo.On("FindByID", mock.Anything, retired.ID).Return(retired, nil)
	f.errorRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *entity.ScheduleError) bool {
		return e.DoctorID == retired.ID &&
			e.Reason == string(scheduling.ReasonInactiveDoctor) &&
			e.AppointmentID != nil && *e.AppointmentID == 5
	})).Return(nil)

	_, err := f.usecase.Update(context.Background(), 5, &dto.UpdateAppointmentRequest{
		DoctorID:    retired.ID.String(),
		ScheduledAt: at(10, 0),
	})

	var rejection *scheduling.Rejection
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, scheduling.ReasonInactiveDoctor, rejection.Reason)
	f.appointmentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.counter.AssertNotCalled(t, "Decrement", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestAppointmentUsecase_Update_KeepsInactiveDoctorOnEdit(t *testing.T) {
	f := setupAppointmentUsecase(t)
	inactive := false
	retired := &entity.Doctor{ID: uuid.New(), FirstName: "Ivan", LastName: "Sidorov", IsActive: &inactive}
	appointment := existingAppointment(retired.ID)

	f.sql.ExpectBegin()
	f.sql.ExpectCommit()

	f.appointmentRepo.On("FindByID", mock.Anything, int64(5)).Return(appointment, nil)
	f.doctorRepo.On("FindByID", mock.Anything, retired.ID).Return(retired, nil)
	f.appointmentRepo.On("FindScheduledOverlapping", mock.Anything, retired.ID, *at(11, 0), at(11, 0).Add(30*time.Minute), int64(5)).
		Return([]entity.Appointment{}, nil)
	f.appointmentRepo.On("Update", mock.Anything, appointment).Return(nil)
	f.audit.On("LogUpdate", mock.Anything, mock.Anything, entity.AuditActionAppointmentUpdate, "appointment", "5", mock.Anything, mock.Anything).Return(nil)

	_, err := f.usecase.Update(context.Background(), 5, &dto.UpdateAppointmentRequest{
		DoctorID:    retired.ID.String(),
		ScheduledAt: at(11, 0),
		Notes:       "moved an hour later",
	})

	require.NoError(t, err)
	f.counter.AssertNotCalled(t, "Increment", mock.Anything, mock.Anything)
	f.counter.AssertNotCalled(t, "Decrement", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestAppointmentUsecase_Update_MovesWorkloadBetweenDoctors(t *testing.T) {
	f := setupAppointmentUsecase(t)
	from := activeDoctor()
	to := activeDoctor()
	appointment := existingAppointment(from.ID)

	f.sql.ExpectBegin()
	f.sql.ExpectCommit()

	f.appointmentRepo.On("FindByID", mock.Anything, int64(5)).Return(appointment, nil)
	f.doctorRepo.On("FindByID", mock.Anything, to.ID).Return(to, nil)
	f.appointmentRepo.On("FindScheduledOverlapping", mock.Anything, to.ID, *at(10, 0), at(10, 0).Add(30*time.Minute), int64(5)).
		Return([]entity.Appointment{}, nil)
	f.appointmentRepo.On("Update", mock.Anything, appointment).Return(nil)
	f.audit.On("LogUpdate", mock.Anything, mock.Anything, entity.AuditActionAppointmentUpdate, "appointment", "5", mock.Anything, mock.Anything).Return(nil)
	f.counter.On("Decrement", mock.Anything, from.ID).Return()
	f.counter.On("Increment", mock.Anything, to.ID).Return()

	_, err := f.usecase.Update(context.Background(), 5, &dto.UpdateAppointmentRequest{
		DoctorID:    to.ID.String(),
		ScheduledAt: at(10, 0),
	})

	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestAppointmentUsecase_ChangeStatus_PastAppointmentLeavesCounterAlone(t *testing.T) {
	f := setupAppointmentUsecase(t)
	earlier := time.Date(2025, 5, 30, 10, 0, 0, 0, time.UTC)
	appointment := &entity.Appointment{
		ID:              6,
		DoctorID:        uuid.New(),
		ScheduledAt:     &earlier,
		DurationMinutes: 30,
		Status:          entity.AppointmentStatusScheduled,
	}

	f.sql.ExpectBegin()
	f.sql.ExpectCommit()

	f.appointmentRepo.On("FindByID", mock.Anything, int64(6)).Return(appointment, nil)
	f.appointmentRepo.On("UpdateStatus", mock.Anything, int64(6), entity.AppointmentStatusScheduled, entity.AppointmentStatusNoShow, "").
		Return(int64(1), nil)
	f.audit.On("LogUpdate", mock.Anything, mock.Anything, entity.AuditActionAppointmentStatus, "appointment", "6", mock.Anything, mock.Anything).Return(nil)

	_, err := f.usecase.ChangeStatus(context.Background(), 6, &dto.ChangeAppointmentStatusRequest{
		Status: string(entity.AppointmentStatusNoShow),
	})

	require.NoError(t, err)
	f.counter.AssertNotCalled(t, "Decrement", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}
