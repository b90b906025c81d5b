package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	assert.True(t, p.AllowPastForEdits)
	assert.Equal(t, SlotContinuous, p.SlotGranularity)
	assert.Equal(t, 9, p.OpenHour)
	assert.Equal(t, 18, p.CloseHour)
	assert.Equal(t, []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}, p.OperatingDays)
	assert.NoError(t, p.Validate())
}

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Policy)
	}{
		{"open after close", func(p *Policy) { p.OpenHour, p.CloseHour = 18, 9 }},
		{"open equals close", func(p *Policy) { p.OpenHour, p.CloseHour = 9, 9 }},
		{"close past midnight", func(p *Policy) { p.CloseHour = 25 }},
		{"no days", func(p *Policy) { p.OperatingDays = nil }},
		{"unknown granularity", func(p *Policy) { p.SlotGranularity = "half_hourly" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			tt.modify(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestParseWeekdays(t *testing.T) {
	days, err := ParseWeekdays([]string{"Fri", "mon", "monday", " wed "})
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, days)

	_, err = ParseWeekdays([]string{"funday"})
	assert.Error(t, err)
}

func TestParseSlotGranularity(t *testing.T) {
	g, err := ParseSlotGranularity("")
	require.NoError(t, err)
	assert.Equal(t, SlotContinuous, g)

	g, err = ParseSlotGranularity("FIXED_HOURLY")
	require.NoError(t, err)
	assert.Equal(t, SlotFixedHourly, g)

	_, err = ParseSlotGranularity("weekly")
	assert.Error(t, err)
}

func TestPolicy_SlotsForDay(t *testing.T) {
	p := DefaultPolicy()

	slots := p.SlotsForDay(time.Date(2025, 6, 2, 15, 30, 0, 0, time.UTC))
	require.Len(t, slots, 9)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), slots[0])
	assert.Equal(t, time.Date(2025, 6, 2, 17, 0, 0, 0, time.UTC), slots[8])

	assert.Empty(t, p.SlotsForDay(time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)), "saturday")
}
