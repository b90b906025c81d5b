package scheduling

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SlotGranularity selects how start times are constrained inside the operating window.
type SlotGranularity string

const (
	// SlotContinuous accepts any start minute inside operating hours.
	SlotContinuous SlotGranularity = "continuous"
	// SlotFixedHourly accepts only top-of-hour starts (09:00, 10:00, ...).
	SlotFixedHourly SlotGranularity = "fixed_hourly"
)

// DefaultDurationMinutes is the length of a visit when none is given.
const DefaultDurationMinutes = 30

// Policy is the clinic's scheduling configuration.
type Policy struct {
	AllowPastForEdits bool
	SlotGranularity   SlotGranularity
	OperatingDays     []time.Weekday
	OpenHour          int
	CloseHour         int
	// Location is the zone weekday and hour checks are evaluated in. Nil means UTC.
	Location *time.Location
}

// DefaultPolicy is Monday to Friday, 09:00 to 18:00, continuous slots, past edits allowed.
func DefaultPolicy() Policy {
	return Policy{
		AllowPastForEdits: true,
		SlotGranularity:   SlotContinuous,
		OperatingDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		OpenHour:  9,
		CloseHour: 18,
		Location:  time.UTC,
	}
}

// Validate rejects a policy that could never accept an appointment.
func (p Policy) Validate() error {
	if p.SlotGranularity != SlotContinuous && p.SlotGranularity != SlotFixedHourly {
		return fmt.Errorf("unknown slot granularity %q", p.SlotGranularity)
	}
	if p.OpenHour < 0 || p.CloseHour > 24 || p.OpenHour >= p.CloseHour {
		return fmt.Errorf("invalid operating hours [%d, %d)", p.OpenHour, p.CloseHour)
	}
	if len(p.OperatingDays) == 0 {
		return fmt.Errorf("operating days must not be empty")
	}
	return nil
}

// Zone returns the location the wall-clock rules are evaluated in.
func (p Policy) Zone() *time.Location {
	return p.location()
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

func (p Policy) isOperatingDay(day time.Weekday) bool {
	for _, d := range p.OperatingDays {
		if d == day {
			return true
		}
	}
	return false
}

func (p Policy) isOperatingHour(hour int) bool {
	return hour >= p.OpenHour && hour < p.CloseHour
}

// SlotsForDay lists the top-of-hour slots of the operating window on the given
// calendar date, in the policy's location. Non-operating days have no slots.
func (p Policy) SlotsForDay(date time.Time) []time.Time {
	loc := p.location()
	y, m, d := date.In(loc).Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if !p.isOperatingDay(day.Weekday()) {
		return nil
	}

	slots := make([]time.Time, 0, p.CloseHour-p.OpenHour)
	for h := p.OpenHour; h < p.CloseHour; h++ {
		slots = append(slots, time.Date(y, m, d, h, 0, 0, 0, loc))
	}
	return slots
}

// ParseSlotGranularity accepts "continuous" or "fixed_hourly"; empty means continuous.
func ParseSlotGranularity(raw string) (SlotGranularity, error) {
	switch SlotGranularity(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SlotContinuous:
		return SlotContinuous, nil
	case SlotFixedHourly:
		return SlotFixedHourly, nil
	}
	return "", fmt.Errorf("unknown slot granularity %q", raw)
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekdays turns names like "mon" or "Friday" into a sorted, de-duplicated weekday set.
func ParseWeekdays(names []string) ([]time.Weekday, error) {
	seen := make(map[time.Weekday]bool, len(names))
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days, nil
}
