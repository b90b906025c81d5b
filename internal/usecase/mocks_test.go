package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"clinic-management/internal/domain/entity"
	"clinic-management/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB opens gorm on top of sqlmock. Repositories are mocked, so only
// transaction boundaries show up as SQL.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, sqlMock
}

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return m.Called(db, appointment).Error(0)
}

func (m *MockAppointmentRepository) FindByID(db *gorm.DB, id int64) (*entity.Appointment, error) {
	args := m.Called(db, id)
	appointment, _ := args.Get(0).(*entity.Appointment)
	return appointment, args.Error(1)
}

func (m *MockAppointmentRepository) FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, int64, error) {
	args := m.Called(db, filter)
	appointments, _ := args.Get(0).([]entity.Appointment)
	return appointments, args.Get(1).(int64), args.Error(2)
}

func (m *MockAppointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return m.Called(db, appointment).Error(0)
}

func (m *MockAppointmentRepository) UpdateStatus(db *gorm.DB, id int64, from, to entity.AppointmentStatus, notes string) (int64, error) {
	args := m.Called(db, id, from, to, notes)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentRepository) Delete(db *gorm.DB, id int64) (int64, error) {
	args := m.Called(db, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentRepository) FindScheduledOverlapping(db *gorm.DB, doctorID uuid.UUID, start, end time.Time, excludeID int64) ([]entity.Appointment, error) {
	args := m.Called(db, doctorID, start, end, excludeID)
	appointments, _ := args.Get(0).([]entity.Appointment)
	return appointments, args.Error(1)
}

func (m *MockAppointmentRepository) FindUpcoming(db *gorm.DB, from time.Time, limit int) ([]entity.Appointment, error) {
	args := m.Called(db, from, limit)
	appointments, _ := args.Get(0).([]entity.Appointment)
	return appointments, args.Error(1)
}

func (m *MockAppointmentRepository) FindUpcomingByDoctor(db *gorm.DB, doctorID uuid.UUID, from time.Time) ([]entity.Appointment, error) {
	args := m.Called(db, doctorID, from)
	appointments, _ := args.Get(0).([]entity.Appointment)
	return appointments, args.Error(1)
}

func (m *MockAppointmentRepository) CountByDoctorAndStatus(db *gorm.DB, doctorID uuid.UUID, status entity.AppointmentStatus) (int64, error) {
	args := m.Called(db, doctorID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentRepository) CountScheduledBetween(db *gorm.DB, from, to time.Time) (int64, error) {
	args := m.Called(db, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentRepository) CountPerDoctor(db *gorm.DB, limit int) ([]entity.DoctorAppointmentCount, error) {
	args := m.Called(db, limit)
	counts, _ := args.Get(0).([]entity.DoctorAppointmentCount)
	return counts, args.Error(1)
}

func (m *MockAppointmentRepository) CountScheduledPerDoctor(db *gorm.DB, from time.Time, limit, offset int) ([]repository.DoctorScheduledCount, error) {
	args := m.Called(db, from, limit, offset)
	counts, _ := args.Get(0).([]repository.DoctorScheduledCount)
	return counts, args.Error(1)
}

func (m *MockAppointmentRepository) CountScheduledForDoctors(db *gorm.DB, from time.Time, doctorIDs []uuid.UUID) ([]repository.DoctorScheduledCount, error) {
	args := m.Called(db, from, doctorIDs)
	counts, _ := args.Get(0).([]repository.DoctorScheduledCount)
	return counts, args.Error(1)
}

type MockDoctorRepository struct {
	mock.Mock
}

func (m *MockDoctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return m.Called(db, doctor).Error(0)
}

func (m *MockDoctorRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	args := m.Called(db, id)
	doctor, _ := args.Get(0).(*entity.Doctor)
	return doctor, args.Error(1)
}

func (m *MockDoctorRepository) FindAll(db *gorm.DB, filter *entity.DoctorFilter) ([]entity.Doctor, error) {
	args := m.Called(db, filter)
	doctors, _ := args.Get(0).([]entity.Doctor)
	return doctors, args.Error(1)
}

func (m *MockDoctorRepository) Search(db *gorm.DB, query string, limit int) ([]entity.Doctor, error) {
	args := m.Called(db, query, limit)
	doctors, _ := args.Get(0).([]entity.Doctor)
	return doctors, args.Error(1)
}

func (m *MockDoctorRepository) Update(db *gorm.DB, doctor *entity.Doctor) error {
	return m.Called(db, doctor).Error(0)
}

func (m *MockDoctorRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	args := m.Called(db, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDoctorRepository) CountActive(db *gorm.DB) (int64, error) {
	args := m.Called(db)
	return args.Get(0).(int64), args.Error(1)
}

type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	return m.Called(db, patient).Error(0)
}

func (m *MockPatientRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	args := m.Called(db, id)
	patient, _ := args.Get(0).(*entity.Patient)
	return patient, args.Error(1)
}

func (m *MockPatientRepository) FindAll(db *gorm.DB, filter *entity.PatientFilter) ([]entity.Patient, int64, error) {
	args := m.Called(db, filter)
	patients, _ := args.Get(0).([]entity.Patient)
	return patients, args.Get(1).(int64), args.Error(2)
}

func (m *MockPatientRepository) Update(db *gorm.DB, patient *entity.Patient) error {
	return m.Called(db, patient).Error(0)
}

func (m *MockPatientRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	args := m.Called(db, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockMedicalRecordRepository struct {
	mock.Mock
}

func (m *MockMedicalRecordRepository) Create(db *gorm.DB, record *entity.MedicalRecord) error {
	return m.Called(db, record).Error(0)
}

func (m *MockMedicalRecordRepository) FindByID(db *gorm.DB, id int64) (*entity.MedicalRecord, error) {
	args := m.Called(db, id)
	record, _ := args.Get(0).(*entity.MedicalRecord)
	return record, args.Error(1)
}

func (m *MockMedicalRecordRepository) FindByAppointmentID(db *gorm.DB, appointmentID int64) (*entity.MedicalRecord, error) {
	args := m.Called(db, appointmentID)
	record, _ := args.Get(0).(*entity.MedicalRecord)
	return record, args.Error(1)
}

func (m *MockMedicalRecordRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.MedicalRecord, error) {
	args := m.Called(db, patientID)
	records, _ := args.Get(0).([]entity.MedicalRecord)
	return records, args.Error(1)
}

func (m *MockMedicalRecordRepository) Update(db *gorm.DB, record *entity.MedicalRecord) error {
	return m.Called(db, record).Error(0)
}

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) LogCreate(ctx context.Context, tx *gorm.DB, action, entityName, entityID string, newValue interface{}) error {
	return m.Called(ctx, tx, action, entityName, entityID, newValue).Error(0)
}

func (m *MockAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, action, entityName, entityID string, oldValue, newValue interface{}) error {
	return m.Called(ctx, tx, action, entityName, entityID, oldValue, newValue).Error(0)
}

func (m *MockAuditService) LogDelete(ctx context.Context, tx *gorm.DB, action, entityName, entityID string, oldValue interface{}) error {
	return m.Called(ctx, tx, action, entityName, entityID, oldValue).Error(0)
}

func (m *MockAuditService) LogEvent(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, details entity.JSON) error {
	return m.Called(ctx, tx, userID, action, details).Error(0)
}

type MockAppointmentCounter struct {
	mock.Mock
}

func (m *MockAppointmentCounter) SyncOnStartup(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockAppointmentCounter) Increment(ctx context.Context, doctorID uuid.UUID) {
	m.Called(ctx, doctorID)
}

func (m *MockAppointmentCounter) Decrement(ctx context.Context, doctorID uuid.UUID) {
	m.Called(ctx, doctorID)
}

func (m *MockAppointmentCounter) Counts(ctx context.Context, doctorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	args := m.Called(ctx, doctorIDs)
	counts, _ := args.Get(0).(map[uuid.UUID]int64)
	return counts, args.Error(1)
}

func (m *MockAppointmentCounter) Stop() {
	m.Called()
}

type MockScheduleErrorRepository struct {
	mock.Mock
}

func (m *MockScheduleErrorRepository) Create(db *gorm.DB, scheduleError *entity.ScheduleError) error {
	return m.Called(db, scheduleError).Error(0)
}

func (m *MockScheduleErrorRepository) FindRecent(db *gorm.DB, limit int) ([]entity.ScheduleError, error) {
	args := m.Called(db, limit)
	scheduleErrors, _ := args.Get(0).([]entity.ScheduleError)
	return scheduleErrors, args.Error(1)
}

type MockSpecializationRepository struct {
	mock.Mock
}

func (m *MockSpecializationRepository) Create(db *gorm.DB, specialization *entity.Specialization) error {
	return m.Called(db, specialization).Error(0)
}

func (m *MockSpecializationRepository) FindByID(db *gorm.DB, id int) (*entity.Specialization, error) {
	args := m.Called(db, id)
	specialization, _ := args.Get(0).(*entity.Specialization)
	return specialization, args.Error(1)
}

func (m *MockSpecializationRepository) FindByIDs(db *gorm.DB, ids []int) ([]entity.Specialization, error) {
	args := m.Called(db, ids)
	specializations, _ := args.Get(0).([]entity.Specialization)
	return specializations, args.Error(1)
}

func (m *MockSpecializationRepository) FindAll(db *gorm.DB) ([]entity.Specialization, error) {
	args := m.Called(db)
	specializations, _ := args.Get(0).([]entity.Specialization)
	return specializations, args.Error(1)
}

func (m *MockSpecializationRepository) Update(db *gorm.DB, specialization *entity.Specialization) error {
	return m.Called(db, specialization).Error(0)
}

func (m *MockSpecializationRepository) Delete(db *gorm.DB, id int) (int64, error) {
	args := m.Called(db, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSpecializationRepository) CountActiveDoctors(db *gorm.DB) ([]entity.SpecializationCount, error) {
	args := m.Called(db)
	counts, _ := args.Get(0).([]entity.SpecializationCount)
	return counts, args.Error(1)
}
