package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylemate_backend/internal/models"
)

func existingShift(id int64, date, start, end string, locationID *int64) models.Shift {
	return models.Shift{
		ID:         id,
		BusinessID: 1,
		StaffID:    42,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		ShiftType:  models.ShiftTypeMid,
		Status:     models.ShiftStatusScheduled,
		LocationID: locationID,
	}
}

func locID(v int64) *int64 { return &v }

func TestOverlapSameLocationIsError(t *testing.T) {
	existing := []models.Shift{existingShift(1, "2025-01-08", "09:00", "17:00", locID(5))}
	c := Candidate{StaffID: 42, Date: "2025-01-08", StartTime: "16:00", EndTime: "20:00", LocationID: locID(5)}

	conflicts := CheckConflicts(c, existing)

	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictOverlap, conflicts[0].Type)
	assert.Equal(t, models.SeverityError, conflicts[0].Severity)
}

func TestOverlapDifferentLocationIsWarning(t *testing.T) {
	existing := []models.Shift{existingShift(1, "2025-01-08", "09:00", "17:00", locID(5))}
	c := Candidate{StaffID: 42, Date: "2025-01-08", StartTime: "16:00", EndTime: "20:00", LocationID: locID(6)}

	conflicts := CheckConflicts(c, existing)

	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictLocation, conflicts[0].Type)
	assert.Equal(t, models.SeverityWarning, conflicts[0].Severity)
}

func TestOverlapLocationlessExistingIsError(t *testing.T) {
	existing := []models.Shift{existingShift(1, "2025-01-08", "09:00", "17:00", nil)}
	c := Candidate{StaffID: 42, Date: "2025-01-08", StartTime: "16:00", EndTime: "20:00", LocationID: locID(6)}

	conflicts := CheckConflicts(c, existing)

	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictOverlap, conflicts[0].Type)
	assert.Equal(t, models.SeverityError, conflicts[0].Severity)
}

func TestOverlapLocationlessSkippedWhenSameLocationFound(t *testing.T) {
	existing := []models.Shift{
		existingShift(1, "2025-01-08", "09:00", "17:00", locID(5)),
		existingShift(2, "2025-01-08", "10:00", "18:00", nil),
	}
	c := Candidate{StaffID: 42, Date: "2025-01-08", StartTime: "16:00", EndTime: "20:00", LocationID: locID(5)}

	conflicts := CheckConflicts(c, existing)

	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictOverlap, conflicts[0].Type)
	assert.Contains(t, conflicts[0].Message, "Double booking")
}

func TestOverlapWithoutCandidateLocationIsSingleError(t *testing.T) {
	existing := []models.Shift{
		existingShift(1, "2025-01-08", "09:00", "17:00", locID(5)),
		existingShift(2, "2025-01-08", "10:00", "18:00", locID(6)),
	}
	c := Candidate{StaffID: 42, Date: "2025-01-08", StartTime: "16:00", EndTime: "20:00"}

	conflicts := CheckConflicts(c, existing)

	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictOverlap, conflicts[0].Type)
	assert.Equal(t, models.SeverityError, conflicts[0].Severity)
}

func TestTouchingShiftsDoNotOverlap(t *testing.T) {
	existing := []models.Shift{existingShift(1, "2025-01-08", "09:00", "12:00", locID(5))}
	c := Candidate{StaffID: 42, Date: "2025-01-08", StartTime: "12:00", EndTime: "17:00", LocationID: locID(5)}

	assert.Empty(t, CheckConflicts(c, existing))
}

func TestOverlapIgnoresCancelledAndOtherStaff(t *testing.T) {
	cancelled := existingShift(1, "2025-01-08", "09:00", "17:00", locID(5))
	cancelled.Status = models.ShiftStatusCancelled
	otherStaff := existingShift(2, "2025-01-08", "09:00", "17:00", locID(5))
	otherStaff.StaffID = 99

	c := Candidate{StaffID: 42, Date: "2025-01-08", StartTime: "10:00", EndTime: "14:00", LocationID: locID(5)}

	assert.Empty(t, CheckConflicts(c, []models.Shift{cancelled, otherStaff}))
}

func TestEditExcludesItself(t *testing.T) {
	existing := []models.Shift{existingShift(1, "2025-01-08", "09:00", "17:00", locID(5))}
	self := int64(1)
	c := Candidate{StaffID: 42, Date: "2025-01-08", StartTime: "09:00", EndTime: "17:00", LocationID: locID(5), ExcludeShiftID: &self}

	assert.Empty(t, CheckConflicts(c, existing))
}

// fiveSevenHourShifts builds Mon-Fri shifts of 7 hours each (35h) for the
// week starting Sunday 2025-01-05.
func fiveSevenHourShifts() []models.Shift {
	dates := []string{"2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09", "2025-01-10"}
	shifts := make([]models.Shift, 0, len(dates))
	for i, d := range dates {
		shifts = append(shifts, existingShift(int64(i+1), d, "09:00", "16:00", locID(5)))
	}
	return shifts
}

func TestWeeklyOvertimeWarning(t *testing.T) {
	// 35 existing hours plus a 6 hour candidate crosses the 40h threshold.
	c := Candidate{StaffID: 42, Date: "2025-01-11", StartTime: "09:00", EndTime: "15:00", LocationID: locID(5)}

	conflicts := CheckConflicts(c, fiveSevenHourShifts())

	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictOvertime, conflicts[0].Type)
	assert.Equal(t, models.SeverityWarning, conflicts[0].Severity)
	assert.Contains(t, conflicts[0].Message, "41.0h")
}

func TestWeeklyTotalUnderThresholdIsClean(t *testing.T) {
	// 35 + 4 = 39 hours, no warning.
	c := Candidate{StaffID: 42, Date: "2025-01-11", StartTime: "09:00", EndTime: "13:00", LocationID: locID(5)}

	assert.Empty(t, CheckConflicts(c, fiveSevenHourShifts()))
}

func TestOvertimeIgnoresShiftsOutsideWeek(t *testing.T) {
	shifts := fiveSevenHourShifts()
	// Sunday 2025-01-12 starts the next week; its hours must not count.
	shifts = append(shifts, existingShift(9, "2025-01-12", "09:00", "17:00", locID(5)))
	c := Candidate{StaffID: 42, Date: "2025-01-11", StartTime: "09:00", EndTime: "13:00", LocationID: locID(5)}

	assert.Empty(t, CheckConflicts(c, shifts))
}

func TestOvertimeFractionalHours(t *testing.T) {
	shifts := []models.Shift{existingShift(1, "2025-01-06", "08:00", "20:30", locID(5))} // 12.5h
	c := Candidate{StaffID: 42, Date: "2025-01-07", StartTime: "08:00", EndTime: "12:00", LocationID: locID(6)}

	assert.Empty(t, CheckConflicts(c, shifts)) // 16.5h total

	long := Candidate{StaffID: 42, Date: "2025-01-07", StartTime: "06:00", EndTime: "23:45", LocationID: locID(6)}
	shifts = append(shifts,
		existingShift(2, "2025-01-08", "08:00", "20:00", locID(6)), // 12h
	)
	conflicts := CheckConflicts(long, shifts)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictOvertime, conflicts[0].Type)
	assert.Contains(t, conflicts[0].Message, "42.2h") // 12.5 + 12 + 17.75
}

func TestBulkDeduplicatesIdenticalConflicts(t *testing.T) {
	existing := []models.Shift{existingShift(1, "2025-01-08", "09:00", "17:00", locID(5))}
	c := Candidate{StaffID: 42, Date: "2025-01-08", StartTime: "16:00", EndTime: "20:00", LocationID: locID(5)}

	conflicts := CheckBulk([]Candidate{c, c}, existing)

	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictOverlap, conflicts[0].Type)
}

func TestBulkAccumulatesDistinctConflicts(t *testing.T) {
	existing := []models.Shift{existingShift(1, "2025-01-08", "09:00", "17:00", locID(5))}
	overlapping := Candidate{StaffID: 42, Date: "2025-01-08", StartTime: "16:00", EndTime: "20:00", LocationID: locID(5)}
	elsewhere := Candidate{StaffID: 42, Date: "2025-01-08", StartTime: "10:00", EndTime: "12:00", LocationID: locID(6)}

	conflicts := CheckBulk([]Candidate{overlapping, elsewhere}, existing)

	require.Len(t, conflicts, 2)
	assert.Equal(t, models.ConflictOverlap, conflicts[0].Type)
	assert.Equal(t, models.ConflictLocation, conflicts[1].Type)
}
