package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-management/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memStore answers overlap queries from an in-memory slice, per doctor.
type memStore struct {
	byDoctor map[uuid.UUID][]Booked
	calls    int
}

func (s *memStore) FindScheduledOverlapping(ctx context.Context, doctorID uuid.UUID, start, end time.Time, excludeID int64) ([]Booked, error) {
	s.calls++
	var out []Booked
	for _, b := range s.byDoctor[doctorID] {
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if Overlaps(start, end, b.ScheduledAt, b.End()) {
			out = append(out, b)
		}
	}
	return out, nil
}

type memDirectory map[uuid.UUID]*Doctor

func (d memDirectory) FindDoctor(ctx context.Context, doctorID uuid.UUID) (*Doctor, error) {
	return d[doctorID], nil
}

// MockStore records calls so tests can assert the query was skipped.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindScheduledOverlapping(ctx context.Context, doctorID uuid.UUID, start, end time.Time, excludeID int64) ([]Booked, error) {
	args := m.Called(ctx, doctorID, start, end, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booked), args.Error(1)
}

var (
	doctorID   = uuid.MustParse("6f1c1d7e-3f0a-4a55-9d55-0f6f2b6f0a01")
	inactiveID = uuid.MustParse("6f1c1d7e-3f0a-4a55-9d55-0f6f2b6f0a02")
	patientID  = uuid.MustParse("0b7e4d8a-1c1b-4a8e-8d7a-2c9f8b1e0b01")
	// Sunday noon, the day before the Monday used by most scenarios
	fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
)

func at(s string) *time.Time {
	t, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func setupTestValidator(policy Policy, booked ...Booked) (*Validator, *memStore) {
	store := &memStore{byDoctor: map[uuid.UUID][]Booked{doctorID: booked}}
	directory := memDirectory{
		doctorID:   {ID: doctorID, FullName: "Roe Jane", IsActive: true},
		inactiveID: {ID: inactiveID, FullName: "Doe John", IsActive: false},
	}
	return NewValidator(store, directory, FixedClock{At: fixedNow}, policy), store
}

func newDraft(start *time.Time) Draft {
	return Draft{
		DoctorID:        doctorID,
		PatientID:       patientID,
		ScheduledAt:     start,
		DurationMinutes: 30,
		Status:          entity.AppointmentStatusScheduled,
	}
}

func existingAt10() Booked {
	return Booked{ID: 7, ScheduledAt: *at("2025-06-02T10:00"), DurationMinutes: 30}
}

func TestValidate_Scenarios(t *testing.T) {
	fixedHourly := DefaultPolicy()
	fixedHourly.SlotGranularity = SlotFixedHourly

	tests := []struct {
		name   string
		policy Policy
		draft  Draft
		want   Reason // empty means accepted
	}{
		{"overlapping start conflicts", DefaultPolicy(), newDraft(at("2025-06-02T10:15")), ReasonDoctorConflict},
		{"back to back is accepted", DefaultPolicy(), newDraft(at("2025-06-02T10:30")), ""},
		{"saturday is outside operating days", DefaultPolicy(), newDraft(at("2025-06-07T11:00")), ReasonOutsideOperatingDays},
		{"before opening is outside operating hours", DefaultPolicy(), newDraft(at("2025-06-02T08:30")), ReasonOutsideOperatingHours},
		{"quarter past is not an hourly slot", fixedHourly, newDraft(at("2025-06-02T11:15")), ReasonInvalidSlot},
		{"new record yesterday is in the past", DefaultPolicy(), newDraft(at("2025-05-30T10:00")), ReasonPastSchedule},
		{"closing hour is excluded", DefaultPolicy(), newDraft(at("2025-06-02T18:00")), ReasonOutsideOperatingHours},
		{"last hour is included", DefaultPolicy(), newDraft(at("2025-06-02T17:59")), ""},
		{"top of hour passes fixed hourly", fixedHourly, newDraft(at("2025-06-02T11:00")), ""},
		{"ending exactly at existing start is accepted", DefaultPolicy(), newDraft(at("2025-06-02T09:30")), ""},
		{"containing interval conflicts", DefaultPolicy(), Draft{
			DoctorID: doctorID, PatientID: patientID, ScheduledAt: at("2025-06-02T09:45"), DurationMinutes: 60,
		}, ReasonDoctorConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := setupTestValidator(tt.policy, existingAt10())

			rejection, err := v.Validate(context.Background(), tt.draft)
			require.NoError(t, err)

			if tt.want == "" {
				assert.Nil(t, rejection)
				return
			}
			require.NotNil(t, rejection)
			assert.Equal(t, tt.want, rejection.Reason)
			assert.NotEmpty(t, rejection.Detail)
		})
	}
}

func TestValidate_ConflictCarriesIdentityAndTime(t *testing.T) {
	v, _ := setupTestValidator(DefaultPolicy(), existingAt10())

	rejection, err := v.Validate(context.Background(), newDraft(at("2025-06-02T10:15")))
	require.NoError(t, err)
	require.NotNil(t, rejection)

	assert.Equal(t, ReasonDoctorConflict, rejection.Reason)
	assert.Equal(t, int64(7), rejection.ConflictID)
	require.NotNil(t, rejection.ConflictAt)
	assert.True(t, rejection.ConflictAt.Equal(*at("2025-06-02T10:00")))
	assert.Contains(t, rejection.Detail, "Roe Jane")
	assert.Contains(t, rejection.Detail, "2025-06-02 10:00")
	assert.Contains(t, rejection.Detail, "#7")
}

func TestValidate_ReportsEarliestConflict(t *testing.T) {
	v, _ := setupTestValidator(DefaultPolicy(),
		Booked{ID: 9, ScheduledAt: *at("2025-06-02T11:00"), DurationMinutes: 30},
		Booked{ID: 3, ScheduledAt: *at("2025-06-02T10:00"), DurationMinutes: 30},
		Booked{ID: 2, ScheduledAt: *at("2025-06-02T10:00"), DurationMinutes: 15},
	)
	draft := newDraft(at("2025-06-02T10:00"))
	draft.DurationMinutes = 120

	rejection, err := v.Validate(context.Background(), draft)
	require.NoError(t, err)
	require.NotNil(t, rejection)
	assert.Equal(t, int64(2), rejection.ConflictID)
}

func TestValidate_EditDoesNotConflictWithItself(t *testing.T) {
	existing := existingAt10()
	v, _ := setupTestValidator(DefaultPolicy(), existing)

	draft := newDraft(&existing.ScheduledAt)
	draft.ID = existing.ID

	rejection, err := v.Validate(context.Background(), draft)
	require.NoError(t, err)
	assert.Nil(t, rejection)
}

func TestValidate_SelfExclusionWithNaiveStore(t *testing.T) {
	existing := existingAt10()
	store := new(MockStore)
	// store ignores excludeID and returns the record itself
	store.On("FindScheduledOverlapping", mock.Anything, doctorID, mock.Anything, mock.Anything, existing.ID).
		Return([]Booked{existing}, nil)
	directory := memDirectory{doctorID: {ID: doctorID, FullName: "Roe Jane", IsActive: true}}
	v := NewValidator(store, directory, FixedClock{At: fixedNow}, DefaultPolicy())

	draft := newDraft(&existing.ScheduledAt)
	draft.ID = existing.ID

	rejection, err := v.Validate(context.Background(), draft)
	require.NoError(t, err)
	assert.Nil(t, rejection)
	store.AssertExpectations(t)
}

func TestValidate_OverlapIsSymmetric(t *testing.T) {
	intervals := []Booked{
		{ID: 1, ScheduledAt: *at("2025-06-02T10:00"), DurationMinutes: 30},
		{ID: 2, ScheduledAt: *at("2025-06-02T10:15"), DurationMinutes: 30},
		{ID: 3, ScheduledAt: *at("2025-06-02T10:30"), DurationMinutes: 60},
		{ID: 4, ScheduledAt: *at("2025-06-02T09:00"), DurationMinutes: 240},
		{ID: 5, ScheduledAt: *at("2025-06-02T14:00"), DurationMinutes: 15},
	}

	for _, a := range intervals {
		for _, b := range intervals {
			if a.ID == b.ID {
				continue
			}
			v1, _ := setupTestValidator(DefaultPolicy(), b)
			r1, err := v1.Validate(context.Background(), Draft{
				DoctorID: doctorID, PatientID: patientID, ScheduledAt: &a.ScheduledAt, DurationMinutes: a.DurationMinutes,
			})
			require.NoError(t, err)

			v2, _ := setupTestValidator(DefaultPolicy(), a)
			r2, err := v2.Validate(context.Background(), Draft{
				DoctorID: doctorID, PatientID: patientID, ScheduledAt: &b.ScheduledAt, DurationMinutes: b.DurationMinutes,
			})
			require.NoError(t, err)

			assert.Equal(t, r1 == nil, r2 == nil, "intervals %d and %d", a.ID, b.ID)
		}
	}
}

func TestValidate_AdjacencyIsNotConflict(t *testing.T) {
	for _, minutes := range []int{1, 15, 30, 45, 90} {
		existing := Booked{ID: 1, ScheduledAt: *at("2025-06-02T12:00"), DurationMinutes: minutes}
		v, _ := setupTestValidator(DefaultPolicy(), existing)

		after := existing.End()
		rejection, err := v.Validate(context.Background(), Draft{
			DoctorID: doctorID, PatientID: patientID, ScheduledAt: &after, DurationMinutes: minutes,
		})
		require.NoError(t, err)
		assert.Nil(t, rejection, "starting at the end of a %d minute visit", minutes)

		before := existing.ScheduledAt.Add(-time.Duration(minutes) * time.Minute)
		rejection, err = v.Validate(context.Background(), Draft{
			DoctorID: doctorID, PatientID: patientID, ScheduledAt: &before, DurationMinutes: minutes,
		})
		require.NoError(t, err)
		assert.Nil(t, rejection, "ending at the start of a %d minute visit", minutes)
	}
}

func TestValidate_IsIdempotent(t *testing.T) {
	v, _ := setupTestValidator(DefaultPolicy(), existingAt10())
	drafts := []Draft{
		newDraft(at("2025-06-02T10:15")),
		newDraft(at("2025-06-02T10:30")),
		newDraft(at("2025-06-07T11:00")),
	}

	for _, d := range drafts {
		first, err := v.Validate(context.Background(), d)
		require.NoError(t, err)
		second, err := v.Validate(context.Background(), d)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestValidate_HoursCheckPrecedesConflictQuery(t *testing.T) {
	store := new(MockStore)
	directory := memDirectory{doctorID: {ID: doctorID, FullName: "Roe Jane", IsActive: true}}
	v := NewValidator(store, directory, FixedClock{At: fixedNow}, DefaultPolicy())

	// also overlaps an appointment at 18:00 if one were queried
	rejection, err := v.Validate(context.Background(), newDraft(at("2025-06-02T18:15")))
	require.NoError(t, err)
	require.NotNil(t, rejection)
	assert.Equal(t, ReasonOutsideOperatingHours, rejection.Reason)
	store.AssertNotCalled(t, "FindScheduledOverlapping", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestValidate_OrderOfChecks(t *testing.T) {
	fixedHourly := DefaultPolicy()
	fixedHourly.SlotGranularity = SlotFixedHourly

	tests := []struct {
		name   string
		policy Policy
		start  *time.Time
		want   Reason
	}{
		{"past saturday evening reports past first", DefaultPolicy(), at("2025-05-31T20:15"), ReasonPastSchedule},
		{"saturday evening reports day before hours", DefaultPolicy(), at("2025-06-07T20:15"), ReasonOutsideOperatingDays},
		{"monday evening off-slot reports hours before slot", fixedHourly, at("2025-06-02T20:15"), ReasonOutsideOperatingHours},
		{"off-slot overlapping reports slot before conflict", fixedHourly, at("2025-06-02T10:15"), ReasonInvalidSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := setupTestValidator(tt.policy, existingAt10())

			rejection, err := v.Validate(context.Background(), newDraft(tt.start))
			require.NoError(t, err)
			require.NotNil(t, rejection)
			assert.Equal(t, tt.want, rejection.Reason)
		})
	}
}

func TestValidate_MissingSchedule(t *testing.T) {
	v, store := setupTestValidator(DefaultPolicy())

	t.Run("empty draft is provisionally accepted", func(t *testing.T) {
		rejection, err := v.Validate(context.Background(), newDraft(nil))
		require.NoError(t, err)
		assert.Nil(t, rejection)
	})

	t.Run("reason without time is rejected", func(t *testing.T) {
		d := newDraft(nil)
		d.Reason = "follow-up"
		rejection, err := v.Validate(context.Background(), d)
		require.NoError(t, err)
		require.NotNil(t, rejection)
		assert.Equal(t, ReasonMissingSchedule, rejection.Reason)
	})

	t.Run("non-default status without time is rejected", func(t *testing.T) {
		d := newDraft(nil)
		d.Status = entity.AppointmentStatusCompleted
		rejection, err := v.Validate(context.Background(), d)
		require.NoError(t, err)
		require.NotNil(t, rejection)
		assert.Equal(t, ReasonMissingSchedule, rejection.Reason)
	})

	t.Run("edit that clears the time is rejected", func(t *testing.T) {
		d := newDraft(nil)
		d.ID = 12
		d.Reason = "follow-up"
		rejection, err := v.Validate(context.Background(), d)
		require.NoError(t, err)
		require.NotNil(t, rejection)
		assert.Equal(t, ReasonMissingSchedule, rejection.Reason)
	})

	assert.Zero(t, store.calls)
}

func TestValidate_PastRuleForEdits(t *testing.T) {
	past := at("2025-05-30T10:00")

	t.Run("edit in the past allowed by default", func(t *testing.T) {
		v, _ := setupTestValidator(DefaultPolicy())
		d := newDraft(past)
		d.ID = 42
		rejection, err := v.Validate(context.Background(), d)
		require.NoError(t, err)
		assert.Nil(t, rejection)
	})

	t.Run("edit in the past rejected when disallowed", func(t *testing.T) {
		policy := DefaultPolicy()
		policy.AllowPastForEdits = false
		v, _ := setupTestValidator(policy)
		d := newDraft(past)
		d.ID = 42
		rejection, err := v.Validate(context.Background(), d)
		require.NoError(t, err)
		require.NotNil(t, rejection)
		assert.Equal(t, ReasonPastSchedule, rejection.Reason)
	})
}

func TestValidate_InactiveDoctor(t *testing.T) {
	v, _ := setupTestValidator(DefaultPolicy())

	d := newDraft(at("2025-06-02T10:00"))
	d.DoctorID = inactiveID
	rejection, err := v.Validate(context.Background(), d)
	require.NoError(t, err)
	require.NotNil(t, rejection)
	assert.Equal(t, ReasonInactiveDoctor, rejection.Reason)

	// existing appointments of a doctor who left may still be edited
	d.ID = 5
	rejection, err = v.Validate(context.Background(), d)
	require.NoError(t, err)
	assert.Nil(t, rejection)

	d.PreviousDoctorID = inactiveID
	rejection, err = v.Validate(context.Background(), d)
	require.NoError(t, err)
	assert.Nil(t, rejection)
}

func TestValidate_InactiveDoctorOnReassignment(t *testing.T) {
	v, _ := setupTestValidator(DefaultPolicy())

	d := newDraft(at("2025-06-02T10:00"))
	d.ID = 5
	d.DoctorID = inactiveID
	d.PreviousDoctorID = doctorID

	rejection, err := v.Validate(context.Background(), d)
	require.NoError(t, err)
	require.NotNil(t, rejection)
	assert.Equal(t, ReasonInactiveDoctor, rejection.Reason)
	assert.Contains(t, rejection.Detail, "Doe John")

	// moving back to an active doctor is fine
	d.DoctorID = doctorID
	d.PreviousDoctorID = inactiveID
	rejection, err = v.Validate(context.Background(), d)
	require.NoError(t, err)
	assert.Nil(t, rejection)
}

func TestValidate_PreconditionFaults(t *testing.T) {
	v, _ := setupTestValidator(DefaultPolicy())

	tests := []struct {
		name  string
		draft Draft
		field string
	}{
		{"missing doctor", Draft{PatientID: patientID, DurationMinutes: 30}, "doctor_id"},
		{"missing patient", Draft{DoctorID: doctorID, DurationMinutes: 30}, "patient_id"},
		{"zero duration", Draft{DoctorID: doctorID, PatientID: patientID}, "duration_minutes"},
		{"negative duration", Draft{DoctorID: doctorID, PatientID: patientID, DurationMinutes: -5}, "duration_minutes"},
		{"unknown doctor", Draft{DoctorID: uuid.New(), PatientID: patientID, DurationMinutes: 30, ScheduledAt: at("2025-06-02T10:00")}, "doctor_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rejection, err := v.Validate(context.Background(), tt.draft)
			assert.Nil(t, rejection)

			var fault *PreconditionFault
			require.True(t, errors.As(err, &fault))
			assert.Equal(t, tt.field, fault.Field)
		})
	}
}

func TestValidate_StoreErrorIsNotARejection(t *testing.T) {
	store := new(MockStore)
	store.On("FindScheduledOverlapping", mock.Anything, doctorID, mock.Anything, mock.Anything, int64(0)).
		Return(nil, errors.New("connection reset"))
	directory := memDirectory{doctorID: {ID: doctorID, FullName: "Roe Jane", IsActive: true}}
	v := NewValidator(store, directory, FixedClock{At: fixedNow}, DefaultPolicy())

	rejection, err := v.Validate(context.Background(), newDraft(at("2025-06-02T10:00")))
	assert.Nil(t, rejection)
	assert.ErrorContains(t, err, "connection reset")
}

func TestValidate_UsesPolicyLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	policy := DefaultPolicy()
	policy.Location = jakarta
	v, _ := setupTestValidator(policy)

	// 02:00 UTC is 09:00 in Jakarta
	rejection, err := v.Validate(context.Background(), newDraft(at("2025-06-02T02:00")))
	require.NoError(t, err)
	assert.Nil(t, rejection)

	// 10:00 UTC Monday is 17:00 Monday in Jakarta, still open
	rejection, err = v.Validate(context.Background(), newDraft(at("2025-06-02T10:00")))
	require.NoError(t, err)
	assert.Nil(t, rejection)

	// 11:00 UTC is 18:00 in Jakarta, closed
	rejection, err = v.Validate(context.Background(), newDraft(at("2025-06-02T11:00")))
	require.NoError(t, err)
	require.NotNil(t, rejection)
	assert.Equal(t, ReasonOutsideOperatingHours, rejection.Reason)
}

func TestOverlaps(t *testing.T) {
	base := *at("2025-06-02T10:00")
	minute := func(n int) time.Time { return base.Add(time.Duration(n) * time.Minute) }

	assert.True(t, Overlaps(minute(0), minute(30), minute(15), minute(45)))
	assert.True(t, Overlaps(minute(0), minute(60), minute(15), minute(30)))
	assert.False(t, Overlaps(minute(0), minute(30), minute(30), minute(60)))
	assert.False(t, Overlaps(minute(30), minute(60), minute(0), minute(30)))
	assert.False(t, Overlaps(minute(10), minute(10), minute(0), minute(30)), "empty interval")
}
