package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylemate_backend/internal/models"
)

func testPattern(rule string) models.RecurringShiftPattern {
	return models.RecurringShiftPattern{
		ID:             7,
		BusinessID:     1,
		StaffID:        42,
		RecurrenceRule: rule,
		StartTime:      "09:00",
		EndTime:        "17:00",
		StartDate:      "2025-01-06",
		ShiftType:      models.ShiftTypeOpening,
		IsActive:       true,
	}
}

func TestExpandDailyCoversEveryDate(t *testing.T) {
	p := testPattern("FREQ=DAILY")
	occurrences := Expand(p, "2025-03-03", "2025-03-09")

	require.Len(t, occurrences, 7)
	for i, occ := range occurrences {
		assert.Equal(t, time.Date(2025, 3, 3+i, 0, 0, 0, 0, time.UTC).Format(models.DateFormat), occ.Date)
		assert.Equal(t, int64(42), occ.StaffID)
		require.NotNil(t, occ.PatternID)
		assert.Equal(t, int64(7), *occ.PatternID)
		assert.Nil(t, occ.ShiftID)
	}
}

func TestExpandClipsToValidityWindow(t *testing.T) {
	p := testPattern("FREQ=DAILY")
	p.StartDate = "2025-03-05"
	end := "2025-03-07"
	p.EndDate = &end

	occurrences := Expand(p, "2025-03-01", "2025-03-31")

	require.Len(t, occurrences, 3)
	assert.Equal(t, "2025-03-05", occurrences[0].Date)
	assert.Equal(t, "2025-03-07", occurrences[2].Date)
}

func TestExpandWeeklyScenario(t *testing.T) {
	// Pattern fires Mon/Wed/Fri 09:00-17:00, valid 2025-01-06..2025-01-31.
	p := testPattern("FREQ=WEEKLY;BYDAY=MO,WE,FR")
	end := "2025-01-31"
	p.EndDate = &end

	occurrences := Expand(p, "2025-01-13", "2025-01-19")

	require.Len(t, occurrences, 3)
	assert.Equal(t, "2025-01-13", occurrences[0].Date) // Monday
	assert.Equal(t, "2025-01-15", occurrences[1].Date) // Wednesday
	assert.Equal(t, "2025-01-17", occurrences[2].Date) // Friday
	for _, occ := range occurrences {
		assert.Equal(t, "09:00", occ.StartTime)
		assert.Equal(t, "17:00", occ.EndTime)
	}
}

func TestExpandWeeklyProducesOnlyListedWeekdays(t *testing.T) {
	p := testPattern("FREQ=WEEKLY;BYDAY=TU,TH")
	occurrences := Expand(p, "2025-01-06", "2025-02-02")

	require.NotEmpty(t, occurrences)
	for _, occ := range occurrences {
		d, err := time.Parse(models.DateFormat, occ.Date)
		require.NoError(t, err)
		assert.Contains(t, []time.Weekday{time.Tuesday, time.Thursday}, d.Weekday())
	}
}

func TestExpandYieldsNothing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.RecurringShiftPattern)
	}{
		{"inactive pattern", func(p *models.RecurringShiftPattern) { p.IsActive = false }},
		{"unsupported frequency", func(p *models.RecurringShiftPattern) { p.RecurrenceRule = "FREQ=MONTHLY" }},
		{"garbage rule", func(p *models.RecurringShiftPattern) { p.RecurrenceRule = "EVERY=FORTNIGHT" }},
		{"weekly without weekdays", func(p *models.RecurringShiftPattern) { p.RecurrenceRule = "FREQ=WEEKLY" }},
		{"validity window after query", func(p *models.RecurringShiftPattern) { p.StartDate = "2025-06-01" }},
		{"unparseable start date", func(p *models.RecurringShiftPattern) { p.StartDate = "06/01/2025" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPattern("FREQ=DAILY")
			tt.mutate(&p)
			assert.Empty(t, Expand(p, "2025-01-06", "2025-01-12"))
		})
	}
}

func TestExpandIsIdempotent(t *testing.T) {
	p := testPattern("FREQ=WEEKLY;BYDAY=MO,SA,SU")
	first := Expand(p, "2025-01-01", "2025-02-28")
	second := Expand(p, "2025-01-01", "2025-02-28")
	assert.Equal(t, first, second)
}
