package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"clinic-management/internal/converter"
	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
	"clinic-management/internal/domain/repository"
	"clinic-management/internal/domain/scheduling"
	"clinic-management/internal/service"
	"clinic-management/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound         = errors.New("appointment not found")
	ErrAppointmentHasMedicalRecord = errors.New("appointment has a medical record and cannot be deleted")
	ErrInvalidStatusTransition     = errors.New("appointment status cannot be changed from its current value")
	ErrInvalidDateFormat           = errors.New("invalid date format, use YYYY-MM-DD")
)

type AppointmentUsecase interface {
	Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	Get(ctx context.Context, id int64) (*dto.AppointmentResponse, error)
	List(ctx context.Context, query *dto.AppointmentListQuery) ([]dto.AppointmentResponse, int64, error)
	Update(ctx context.Context, id int64, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	ChangeStatus(ctx context.Context, id int64, req *dto.ChangeAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	Delete(ctx context.Context, id int64) error
	Preview(ctx context.Context, req *dto.ValidateAppointmentRequest) (*dto.ValidationResultResponse, error)
	Availability(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error)
}

type appointmentUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	appointmentRepo   repository.AppointmentRepository
	doctorRepo        repository.DoctorRepository
	patientRepo       repository.PatientRepository
	medicalRecordRepo repository.MedicalRecordRepository
	scheduleErrorRepo repository.ScheduleErrorRepository
	auditService      service.AuditService
	counter           service.AppointmentCounter
	metrics           *metrics.Collector
	clock             scheduling.Clock
	policy            scheduling.Policy
	defaultDuration   int
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	medicalRecordRepo repository.MedicalRecordRepository,
	scheduleErrorRepo repository.ScheduleErrorRepository,
	auditService service.AuditService,
	counter service.AppointmentCounter,
	metrics *metrics.Collector,
	clock scheduling.Clock,
	policy scheduling.Policy,
	defaultDuration int,
) AppointmentUsecase {
	if defaultDuration <= 0 {
		defaultDuration = entity.DefaultAppointmentDuration
	}
	return &appointmentUsecase{
		db:                db,
		log:               log,
		appointmentRepo:   appointmentRepo,
		doctorRepo:        doctorRepo,
		patientRepo:       patientRepo,
		medicalRecordRepo: medicalRecordRepo,
		scheduleErrorRepo: scheduleErrorRepo,
		auditService:      auditService,
		counter:           counter,
		metrics:           metrics,
		clock:             clock,
		policy:            policy,
		defaultDuration:   defaultDuration,
	}
}

func (u *appointmentUsecase) Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, ErrPatientNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	appointment := &entity.Appointment{
		DoctorID:        doctorID,
		PatientID:       patientID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: u.durationOrDefault(req.DurationMinutes),
		Status:          entity.AppointmentStatusScheduled,
		Reason:          req.Reason,
		Notes:           req.Notes,
	}

	if err := u.validate(ctx, tx, draftFromAppointment(appointment), true); err != nil {
		return nil, err
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isOverlapViolation(err) {
			return nil, u.overlapRejection(ctx, appointment)
		}
		if isForeignKeyError(err, "appointments_doctor") {
			return nil, ErrDoctorNotFound
		}
		if isForeignKeyError(err, "appointments_patient") {
			return nil, ErrPatientNotFound
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionAppointmentCreate, "appointment", strconv.FormatInt(appointment.ID, 10), converter.AppointmentToAuditValue(appointment)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if u.countsAsUpcoming(appointment) {
		u.counter.Increment(ctx, appointment.DoctorID)
	}
	u.metrics.RecordAppointmentWrite("create")

	return u.Get(ctx, appointment.ID)
}

func (u *appointmentUsecase) Get(ctx context.Context, id int64) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) List(ctx context.Context, query *dto.AppointmentListQuery) ([]dto.AppointmentResponse, int64, error) {
	filter, err := u.buildFilter(query)
	if err != nil {
		return nil, 0, err
	}

	appointments, total, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, 0, err
	}

	return converter.AppointmentsToResponses(appointments), total, nil
}

func (u *appointmentUsecase) Update(ctx context.Context, id int64, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	oldValue := converter.AppointmentToAuditValue(appointment)
	oldDoctorID := appointment.DoctorID
	wasUpcoming := u.countsAsUpcoming(appointment)

	appointment.DoctorID = doctorID
	appointment.ScheduledAt = req.ScheduledAt
	appointment.DurationMinutes = u.durationOrDefault(req.DurationMinutes)
	appointment.Reason = req.Reason
	appointment.Notes = req.Notes
	appointment.Diagnosis = req.Diagnosis
	appointment.Prescription = req.Prescription

	draft := draftFromAppointment(appointment)
	draft.PreviousDoctorID = oldDoctorID
	if err := u.validate(ctx, tx, draft, true); err != nil {
		return nil, err
	}

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		if isOverlapViolation(err) {
			return nil, u.overlapRejection(ctx, appointment)
		}
		if isForeignKeyError(err, "appointments_doctor") {
			return nil, ErrDoctorNotFound
		}
		u.log.Warnf("Failed to update appointment: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionAppointmentUpdate, "appointment", strconv.FormatInt(id, 10), oldValue, converter.AppointmentToAuditValue(appointment)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	isUpcoming := u.countsAsUpcoming(appointment)
	if wasUpcoming && (!isUpcoming || oldDoctorID != doctorID) {
		u.counter.Decrement(ctx, oldDoctorID)
	}
	if isUpcoming && (!wasUpcoming || oldDoctorID != doctorID) {
		u.counter.Increment(ctx, doctorID)
	}
	u.metrics.RecordAppointmentWrite("update")

	return u.Get(ctx, id)
}

// ChangeStatus moves a scheduled appointment to a final status. Leaving the
// scheduled status frees the doctor's time, so the schedule is not re-validated.
func (u *appointmentUsecase) ChangeStatus(ctx context.Context, id int64, req *dto.ChangeAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	next := entity.AppointmentStatus(req.Status)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if !appointment.Status.CanTransitionTo(next) {
		return nil, ErrInvalidStatusTransition
	}

	rows, err := u.appointmentRepo.UpdateStatus(tx, id, appointment.Status, next, req.Notes)
	if err != nil {
		u.log.Warnf("Failed to update appointment status: %+v", err)
		return nil, err
	}
	if rows == 0 {
		// changed by someone else since we read it
		return nil, ErrInvalidStatusTransition
	}

	oldStatus := appointment.Status
	wasUpcoming := u.countsAsUpcoming(appointment)
	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionAppointmentStatus, "appointment", strconv.FormatInt(id, 10),
		map[string]interface{}{"status": oldStatus},
		map[string]interface{}{"status": next, "notes": req.Notes},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if wasUpcoming {
		u.counter.Decrement(ctx, appointment.DoctorID)
	}
	u.metrics.RecordAppointmentWrite("status")

	return u.Get(ctx, id)
}

func (u *appointmentUsecase) Delete(ctx context.Context, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	record, err := u.medicalRecordRepo.FindByAppointmentID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find medical record: %+v", err)
		return err
	}
	if record != nil {
		return ErrAppointmentHasMedicalRecord
	}

	rows, err := u.appointmentRepo.Delete(tx, id)
	if err != nil {
		if isForeignKeyError(err, "medical_records_appointment") {
			return ErrAppointmentHasMedicalRecord
		}
		u.log.Warnf("Failed to delete appointment: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrAppointmentNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, entity.AuditActionAppointmentDelete, "appointment", strconv.FormatInt(id, 10), converter.AppointmentToAuditValue(appointment)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	if u.countsAsUpcoming(appointment) {
		u.counter.Decrement(ctx, appointment.DoctorID)
	}
	u.metrics.RecordAppointmentWrite("delete")

	return nil
}

// Preview runs the validator without writing anything. When an ID is given
// the missing fields are taken from the stored appointment.
func (u *appointmentUsecase) Preview(ctx context.Context, req *dto.ValidateAppointmentRequest) (*dto.ValidationResultResponse, error) {
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}

	draft := scheduling.Draft{
		ID:              req.ID,
		DoctorID:        doctorID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: u.durationOrDefault(req.DurationMinutes),
		Status:          entity.AppointmentStatus(req.Status),
		Reason:          req.Reason,
		Notes:           req.Notes,
	}
	if req.PatientID != "" {
		if draft.PatientID, err = uuid.Parse(req.PatientID); err != nil {
			return nil, ErrPatientNotFound
		}
	}

	db := u.db.WithContext(ctx)
	if req.ID != 0 {
		existing, err := u.appointmentRepo.FindByID(db, req.ID)
		if err != nil {
			u.log.Warnf("Failed to find appointment: %+v", err)
			return nil, err
		}
		if existing == nil {
			return nil, ErrAppointmentNotFound
		}
		if draft.PatientID == uuid.Nil {
			draft.PatientID = existing.PatientID
		}
		draft.PreviousDoctorID = existing.DoctorID
		if draft.Status == "" {
			draft.Status = existing.Status
		}
	}
	if draft.Status == "" {
		draft.Status = entity.AppointmentStatusScheduled
	}

	if err := u.validate(ctx, db, draft, false); err != nil {
		var rejection *scheduling.Rejection
		if errors.As(err, &rejection) {
			return &dto.ValidationResultResponse{
				Accepted:  false,
				Rejection: converter.RejectionToResponse(rejection),
			}, nil
		}
		return nil, err
	}

	return &dto.ValidationResultResponse{Accepted: true}, nil
}

// Availability lists the day's hourly slots and whether an appointment of the
// default length could start at each of them.
func (u *appointmentUsecase) Availability(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error) {
	day, err := time.ParseInLocation("2006-01-02", date, u.policy.Zone())
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	db := u.db.WithContext(ctx)
	doctor, err := u.doctorRepo.FindByID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	response := &dto.AvailabilityResponse{
		DoctorID: doctorID,
		Date:     date,
		Slots:    []dto.SlotResponse{},
	}

	slots := u.policy.SlotsForDay(day)
	if len(slots) == 0 {
		return response, nil
	}

	slotLength := time.Duration(u.defaultDuration) * time.Minute
	windowEnd := slots[len(slots)-1].Add(slotLength)

	booked, err := u.appointmentRepo.FindScheduledOverlapping(db, doctorID, slots[0], windowEnd, 0)
	if err != nil {
		u.log.Warnf("Failed to find booked appointments: %+v", err)
		return nil, err
	}

	now := u.clock.Now()
	for _, start := range slots {
		end := start.Add(slotLength)
		slot := dto.SlotResponse{Start: start, End: end, Free: doctor.Active() && !start.Before(now)}
		for _, b := range booked {
			if b.ScheduledAt == nil {
				continue
			}
			if scheduling.Overlaps(start, end, *b.ScheduledAt, *b.EndTime()) {
				slot.Free = false
				slot.ConflictID = b.ID
				break
			}
		}
		response.Slots = append(response.Slots, slot)
	}

	return response, nil
}

// validate returns the rejection as an error so callers can bail out with it.
// Rejections of real writes are kept in the schedule error log, previews are not.
func (u *appointmentUsecase) validate(ctx context.Context, db *gorm.DB, draft scheduling.Draft, logError bool) error {
	store := &schedulingStore{db: db, appointmentRepo: u.appointmentRepo, doctorRepo: u.doctorRepo}
	validator := scheduling.NewValidator(store, store, u.clock, u.policy)

	rejection, err := validator.Validate(ctx, draft)
	if err != nil {
		var fault *scheduling.PreconditionFault
		if !errors.As(err, &fault) {
			u.log.Warnf("Failed to validate appointment schedule: %+v", err)
		}
		return err
	}
	if rejection != nil {
		u.recordRejection(ctx, draft, rejection, logError)
		return rejection
	}
	return nil
}

// overlapRejection covers the race where a concurrent booking got in between
// validation and insert and the exclusion constraint refused the row.
func (u *appointmentUsecase) overlapRejection(ctx context.Context, a *entity.Appointment) error {
	name := a.DoctorID.String()
	if doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), a.DoctorID); err == nil && doctor != nil {
		name = doctor.FullName()
	}

	var at time.Time
	if a.ScheduledAt != nil {
		at = a.ScheduledAt.In(u.policy.Zone())
	}

	rejection := scheduling.NewConflictRejection(name, at, 0)
	u.recordRejection(ctx, draftFromAppointment(a), rejection, true)
	return rejection
}

func (u *appointmentUsecase) recordRejection(ctx context.Context, draft scheduling.Draft, rejection *scheduling.Rejection, logError bool) {
	u.metrics.RecordRejection(string(rejection.Reason))
	u.log.WithFields(logrus.Fields{
		"reason":         rejection.Reason,
		"doctor_id":      draft.DoctorID,
		"appointment_id": draft.ID,
		"conflict_id":    rejection.ConflictID,
	}).Info("Appointment schedule rejected")

	if !logError {
		return
	}

	scheduleError := &entity.ScheduleError{
		DoctorID:    draft.DoctorID,
		Reason:      string(rejection.Reason),
		Description: rejection.Detail,
		ScheduledAt: draft.ScheduledAt,
		DetectedAt:  u.clock.Now(),
	}
	if !draft.IsNew() {
		id := draft.ID
		scheduleError.AppointmentID = &id
	}
	if rejection.ConflictID != 0 {
		id := rejection.ConflictID
		scheduleError.ConflictID = &id
	}

	// the write transaction is rolled back after a rejection, so this goes
	// through its own connection
	if err := u.scheduleErrorRepo.Create(u.db.WithContext(ctx), scheduleError); err != nil {
		u.log.Warnf("Failed to save schedule error: %+v", err)
	}
}

// countsAsUpcoming reports whether the appointment belongs in the doctor's
// workload counter.
func (u *appointmentUsecase) countsAsUpcoming(a *entity.Appointment) bool {
	return a.IsScheduled() && a.ScheduledAt != nil && !a.ScheduledAt.Before(u.clock.Now())
}

func (u *appointmentUsecase) buildFilter(query *dto.AppointmentListQuery) (*entity.AppointmentFilter, error) {
	filter := &entity.AppointmentFilter{}
	if query == nil {
		return filter, nil
	}

	if query.DoctorID != "" {
		id, err := uuid.Parse(query.DoctorID)
		if err != nil {
			return nil, ErrDoctorNotFound
		}
		filter.DoctorID = &id
	}
	if query.PatientID != "" {
		id, err := uuid.Parse(query.PatientID)
		if err != nil {
			return nil, ErrPatientNotFound
		}
		filter.PatientID = &id
	}

	loc := u.policy.Zone()
	if query.From != "" {
		from, err := time.ParseInLocation("2006-01-02", query.From, loc)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := time.ParseInLocation("2006-01-02", query.To, loc)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		// the To date is inclusive
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}

	filter.Status = entity.AppointmentStatus(query.Status)
	filter.Diagnosis = query.Diagnosis
	filter.Limit = query.Limit
	filter.Offset = query.Offset

	return filter, nil
}

func (u *appointmentUsecase) durationOrDefault(minutes int) int {
	if minutes <= 0 {
		return u.defaultDuration
	}
	return minutes
}

func draftFromAppointment(a *entity.Appointment) scheduling.Draft {
	return scheduling.Draft{
		ID:              a.ID,
		DoctorID:        a.DoctorID,
		PatientID:       a.PatientID,
		ScheduledAt:     a.ScheduledAt,
		DurationMinutes: a.DurationMinutes,
		Status:          a.Status,
		Reason:          a.Reason,
		Notes:           a.Notes,
	}
}
