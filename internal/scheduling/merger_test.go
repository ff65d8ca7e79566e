package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylemate_backend/internal/models"
)

func TestMergeSuppressesOverriddenPatternDay(t *testing.T) {
	p := testPattern("FREQ=DAILY")
	patternID := p.ID
	override := models.Shift{
		ID:         100,
		BusinessID: 1,
		StaffID:    42,
		Date:       "2025-01-08",
		StartTime:  "12:00",
		EndTime:    "20:00",
		ShiftType:  models.ShiftTypeCustom,
		Status:     models.ShiftStatusScheduled,
		PatternID:  &patternID,
		IsOverride: true,
	}

	merged := Merge([]models.Shift{override}, []models.RecurringShiftPattern{p}, "2025-01-06", "2025-01-10")

	require.Len(t, merged, 5)
	var forDay []models.ShiftOccurrence
	for _, occ := range merged {
		if occ.Date == "2025-01-08" {
			forDay = append(forDay, occ)
		}
	}
	require.Len(t, forDay, 1)
	require.NotNil(t, forDay[0].ShiftID)
	assert.Equal(t, int64(100), *forDay[0].ShiftID)
	assert.Equal(t, "12:00", forDay[0].StartTime)
}

func TestMergeKeepsNonOverrideShiftAlongsidePattern(t *testing.T) {
	// A plain one-off shift on a pattern day is not an override and both entries appear.
	p := testPattern("FREQ=DAILY")
	extra := models.Shift{
		ID:        101,
		StaffID:   42,
		Date:      "2025-01-08",
		StartTime: "18:00",
		EndTime:   "21:00",
		Status:    models.ShiftStatusScheduled,
	}

	merged := Merge([]models.Shift{extra}, []models.RecurringShiftPattern{p}, "2025-01-08", "2025-01-08")

	require.Len(t, merged, 2)
	assert.NotNil(t, merged[0].PatternID) // 09:00 virtual occurrence first
	assert.NotNil(t, merged[1].ShiftID)
}

func TestMergeOrdering(t *testing.T) {
	p := testPattern("FREQ=WEEKLY;BYDAY=WE")
	sameSlot := models.Shift{
		ID:        102,
		StaffID:   42,
		Date:      "2025-01-08",
		StartTime: "09:00",
		EndTime:   "13:00",
		Status:    models.ShiftStatusScheduled,
	}
	earlier := models.Shift{
		ID:        103,
		StaffID:   42,
		Date:      "2025-01-07",
		StartTime: "10:00",
		EndTime:   "14:00",
		Status:    models.ShiftStatusScheduled,
	}

	merged := Merge([]models.Shift{sameSlot, earlier}, []models.RecurringShiftPattern{p}, "2025-01-06", "2025-01-12")

	require.Len(t, merged, 3)
	assert.Equal(t, "2025-01-07", merged[0].Date)
	// Tie on date and start time: the persisted shift sorts before the virtual occurrence.
	assert.Equal(t, "2025-01-08", merged[1].Date)
	require.NotNil(t, merged[1].ShiftID)
	assert.Equal(t, int64(102), *merged[1].ShiftID)
	assert.NotNil(t, merged[2].PatternID)
}

func TestMergeEmptyInputs(t *testing.T) {
	assert.Empty(t, Merge(nil, nil, "2025-01-06", "2025-01-12"))
}
