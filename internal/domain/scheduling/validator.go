// Package scheduling decides whether an appointment draft may be written.
//
// The Validator is a pure decision function over a read-only view of the
// existing appointments. It never writes, so callers may use it for previews.
package scheduling

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"clinic-management/internal/domain/entity"

	"github.com/google/uuid"
)

// Draft is a proposed appointment, either new (ID == 0) or an edit of an existing one.
type Draft struct {
	ID              int64
	DoctorID        uuid.UUID
	PatientID       uuid.UUID
	ScheduledAt     *time.Time
	DurationMinutes int
	Status          entity.AppointmentStatus
	Reason          string
	Notes           string
	// PreviousDoctorID is the doctor stored on an existing appointment.
	// uuid.Nil means unknown or unchanged.
	PreviousDoctorID uuid.UUID
}

// IsNew reports whether the draft has never been persisted.
func (d Draft) IsNew() bool {
	return d.ID == 0
}

// ChangesDoctor reports whether an edit moves the appointment to another doctor.
func (d Draft) ChangesDoctor() bool {
	return !d.IsNew() && d.PreviousDoctorID != uuid.Nil && d.PreviousDoctorID != d.DoctorID
}

func (d Draft) hasContent() bool {
	if strings.TrimSpace(d.Reason) != "" || strings.TrimSpace(d.Notes) != "" {
		return true
	}
	return d.Status != "" && d.Status != entity.AppointmentStatusScheduled
}

// Booked is an existing scheduled appointment as seen by the validator.
type Booked struct {
	ID              int64
	ScheduledAt     time.Time
	DurationMinutes int
}

func (b Booked) End() time.Time {
	return b.ScheduledAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// Doctor is the slice of a doctor record the validator needs.
type Doctor struct {
	ID       uuid.UUID
	FullName string
	IsActive bool
}

// Store finds scheduled appointments of a doctor whose half-open interval
// intersects [start, end). excludeID, when non-zero, is left out of the result.
type Store interface {
	FindScheduledOverlapping(ctx context.Context, doctorID uuid.UUID, start, end time.Time, excludeID int64) ([]Booked, error)
}

// DoctorDirectory looks a doctor up by ID. It returns nil, nil for an unknown doctor.
type DoctorDirectory interface {
	FindDoctor(ctx context.Context, doctorID uuid.UUID) (*Doctor, error)
}

type Validator struct {
	store   Store
	doctors DoctorDirectory
	clock   Clock
	policy  Policy
}

func NewValidator(store Store, doctors DoctorDirectory, clock Clock, policy Policy) *Validator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Validator{
		store:   store,
		doctors: doctors,
		clock:   clock,
		policy:  policy,
	}
}

// Policy returns the policy the validator was built with.
func (v *Validator) Policy() Policy {
	return v.policy
}

// Validate returns nil, nil when the draft is accepted and a *Rejection when a
// business rule refuses it. Checks run in a fixed order and the first failing
// one wins. A non-nil error is either a *PreconditionFault or a failure of one
// of the capabilities, never a business outcome.
func (v *Validator) Validate(ctx context.Context, d Draft) (*Rejection, error) {
	if err := checkPreconditions(d); err != nil {
		return nil, err
	}

	if d.ScheduledAt == nil {
		if d.hasContent() {
			return &Rejection{
				Reason: ReasonMissingSchedule,
				Detail: "Choose a date and time for the appointment",
			}, nil
		}
		// unscheduled drafts are kept as provisional records
		return nil, nil
	}

	loc := v.policy.location()
	start := *d.ScheduledAt
	local := start.In(loc)

	if (d.IsNew() || !v.policy.AllowPastForEdits) && start.Before(v.clock.Now()) {
		return &Rejection{
			Reason: ReasonPastSchedule,
			Detail: fmt.Sprintf("%s is in the past", local.Format(timeLayout)),
		}, nil
	}

	if !v.policy.isOperatingDay(local.Weekday()) {
		return &Rejection{
			Reason: ReasonOutsideOperatingDays,
			Detail: fmt.Sprintf("The clinic is closed on %s", local.Weekday()),
		}, nil
	}

	if !v.policy.isOperatingHour(local.Hour()) {
		return &Rejection{
			Reason: ReasonOutsideOperatingHours,
			Detail: fmt.Sprintf("Appointments are accepted between %02d:00 and %02d:00", v.policy.OpenHour, v.policy.CloseHour),
		}, nil
	}

	if v.policy.SlotGranularity == SlotFixedHourly &&
		(local.Minute() != 0 || local.Second() != 0 || local.Nanosecond() != 0) {
		return &Rejection{
			Reason: ReasonInvalidSlot,
			Detail: fmt.Sprintf("%s is not an hourly slot, choose a time like %02d:00", local.Format("15:04"), local.Hour()),
		}, nil
	}

	doctor, err := v.doctors.FindDoctor(ctx, d.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("find doctor %s: %w", d.DoctorID, err)
	}
	if doctor == nil {
		return nil, &PreconditionFault{Field: "doctor_id", Message: "refers to an unknown doctor"}
	}

	if (d.IsNew() || d.ChangesDoctor()) && !doctor.IsActive {
		return &Rejection{
			Reason: ReasonInactiveDoctor,
			Detail: fmt.Sprintf("Dr. %s is not accepting new appointments", doctor.FullName),
		}, nil
	}

	end := start.Add(time.Duration(d.DurationMinutes) * time.Minute)
	booked, err := v.store.FindScheduledOverlapping(ctx, d.DoctorID, start, end, d.ID)
	if err != nil {
		return nil, fmt.Errorf("find overlapping appointments: %w", err)
	}

	if conflict, ok := firstConflict(booked, d.ID, start, end); ok {
		return NewConflictRejection(doctor.FullName, conflict.ScheduledAt.In(loc), conflict.ID), nil
	}

	return nil, nil
}

func checkPreconditions(d Draft) error {
	if d.DoctorID == uuid.Nil {
		return &PreconditionFault{Field: "doctor_id", Message: "is required"}
	}
	if d.PatientID == uuid.Nil {
		return &PreconditionFault{Field: "patient_id", Message: "is required"}
	}
	if d.DurationMinutes <= 0 {
		return &PreconditionFault{Field: "duration_minutes", Message: "must be positive"}
	}
	return nil
}

// firstConflict picks the earliest overlapping appointment, ties broken by ID,
// so the reported conflict does not depend on the store's row order.
func firstConflict(booked []Booked, selfID int64, start, end time.Time) (Booked, bool) {
	var conflicts []Booked
	for _, b := range booked {
		if selfID != 0 && b.ID == selfID {
			continue
		}
		if Overlaps(start, end, b.ScheduledAt, b.End()) {
			conflicts = append(conflicts, b)
		}
	}
	if len(conflicts) == 0 {
		return Booked{}, false
	}

	sort.Slice(conflicts, func(i, j int) bool {
		if !conflicts[i].ScheduledAt.Equal(conflicts[j].ScheduledAt) {
			return conflicts[i].ScheduledAt.Before(conflicts[j].ScheduledAt)
		}
		return conflicts[i].ID < conflicts[j].ID
	})
	return conflicts[0], true
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching intervals and empty intervals never overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if !aStart.Before(aEnd) || !bStart.Before(bEnd) {
		return false
	}
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
