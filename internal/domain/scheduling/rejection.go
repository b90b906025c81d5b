package scheduling

import (
	"fmt"
	"time"
)

// Reason is the stable code of a scheduling rejection.
type Reason string

const (
	ReasonMissingSchedule       Reason = "missing_schedule"
	ReasonPastSchedule          Reason = "past_schedule"
	ReasonOutsideOperatingDays  Reason = "outside_operating_days"
	ReasonOutsideOperatingHours Reason = "outside_operating_hours"
	ReasonInvalidSlot           Reason = "invalid_slot"
	ReasonInactiveDoctor        Reason = "inactive_doctor"
	ReasonDoctorConflict        Reason = "doctor_conflict"
)

// Rejection is an expected business-rule outcome. It implements error so the
// write path can hand it up to the delivery layer unchanged.
type Rejection struct {
	Reason Reason
	Detail string

	// Set only for ReasonDoctorConflict. ConflictID is zero when the conflict
	// was reported by the storage constraint rather than found by the query.
	ConflictID int64
	ConflictAt *time.Time
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("appointment rejected (%s): %s", r.Reason, r.Detail)
}

// NewConflictRejection builds the DoctorConflict outcome for a doctor and start time.
func NewConflictRejection(doctorName string, at time.Time, conflictID int64) *Rejection {
	detail := fmt.Sprintf("Dr. %s is already booked at %s", doctorName, at.Format(timeLayout))
	if conflictID != 0 {
		detail = fmt.Sprintf("%s (appointment #%d)", detail, conflictID)
	}
	return &Rejection{
		Reason:     ReasonDoctorConflict,
		Detail:     detail,
		ConflictID: conflictID,
		ConflictAt: &at,
	}
}

// PreconditionFault reports a caller programming error: a draft that should
// never have reached the validator.
type PreconditionFault struct {
	Field   string
	Message string
}

func (f *PreconditionFault) Error() string {
	return fmt.Sprintf("scheduling precondition failed: %s %s", f.Field, f.Message)
}

const timeLayout = "2006-01-02 15:04"
