package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylemate_backend/internal/models"
)

func timeOffRequest(status models.TimeOffStatus, startDate, endDate string, allDay bool) models.TimeOffRequest {
	return models.TimeOffRequest{
		ID:         1,
		BusinessID: 1,
		StaffID:    42,
		StartDate:  startDate,
		EndDate:    endDate,
		AllDay:     allDay,
		Status:     status,
	}
}

func TestAvailabilityCombinesShiftsAndApprovedTimeOff(t *testing.T) {
	occ := []models.ShiftOccurrence{
		{StaffID: 42, Date: "2025-01-08", StartTime: "09:00", EndTime: "17:00", ShiftType: models.ShiftTypeMid},
	}
	off := []models.TimeOffRequest{timeOffRequest(models.TimeOffStatusApproved, "2025-01-09", "2025-01-09", true)}

	slots := BuildAvailability(occ, off, "2025-01-06", "2025-01-12")

	require.Len(t, slots, 2)
	assert.Equal(t, models.SlotKindShift, slots[0].Kind)
	assert.Equal(t, "2025-01-08", slots[0].Date)
	require.NotNil(t, slots[0].StartTime)
	assert.Equal(t, "09:00", *slots[0].StartTime)
	assert.False(t, slots[0].AllDay)

	assert.Equal(t, models.SlotKindTimeOff, slots[1].Kind)
	assert.Equal(t, "2025-01-09", slots[1].Date)
	assert.True(t, slots[1].AllDay)
	assert.Nil(t, slots[1].StartTime)
}

func TestAvailabilitySkipsNonApprovedRequests(t *testing.T) {
	off := []models.TimeOffRequest{
		timeOffRequest(models.TimeOffStatusPending, "2025-01-08", "2025-01-08", true),
		timeOffRequest(models.TimeOffStatusDenied, "2025-01-09", "2025-01-09", true),
		timeOffRequest(models.TimeOffStatusCancelled, "2025-01-10", "2025-01-10", true),
	}

	assert.Empty(t, BuildAvailability(nil, off, "2025-01-06", "2025-01-12"))
}

func TestAvailabilityPartialDayTimeOff(t *testing.T) {
	start, end := "13:00", "17:00"
	req := timeOffRequest(models.TimeOffStatusApproved, "2025-01-08", "2025-01-08", false)
	req.StartTime = &start
	req.EndTime = &end

	slots := BuildAvailability(nil, []models.TimeOffRequest{req}, "2025-01-06", "2025-01-12")

	require.Len(t, slots, 1)
	assert.False(t, slots[0].AllDay)
	require.NotNil(t, slots[0].StartTime)
	assert.Equal(t, "13:00", *slots[0].StartTime)
	assert.Equal(t, "17:00", *slots[0].EndTime)
}

func TestAvailabilityClipsMultiDayTimeOffToRange(t *testing.T) {
	req := timeOffRequest(models.TimeOffStatusApproved, "2025-01-01", "2025-01-20", true)

	slots := BuildAvailability(nil, []models.TimeOffRequest{req}, "2025-01-06", "2025-01-08")

	require.Len(t, slots, 3)
	assert.Equal(t, "2025-01-06", slots[0].Date)
	assert.Equal(t, "2025-01-08", slots[2].Date)
}

func TestAvailabilityOrderingWithinDay(t *testing.T) {
	// A shift and an all-day time off on the same day are both surfaced,
	// all-day first; the clash itself is not resolved here.
	occ := []models.ShiftOccurrence{
		{StaffID: 42, Date: "2025-01-08", StartTime: "09:00", EndTime: "17:00"},
	}
	off := []models.TimeOffRequest{timeOffRequest(models.TimeOffStatusApproved, "2025-01-08", "2025-01-08", true)}

	slots := BuildAvailability(occ, off, "2025-01-06", "2025-01-12")

	require.Len(t, slots, 2)
	assert.Equal(t, models.SlotKindTimeOff, slots[0].Kind)
	assert.Equal(t, models.SlotKindShift, slots[1].Kind)
}

func TestAvailabilityOutsideRangeTimeOffIgnored(t *testing.T) {
	req := timeOffRequest(models.TimeOffStatusApproved, "2025-02-01", "2025-02-03", true)
	assert.Empty(t, BuildAvailability(nil, []models.TimeOffRequest{req}, "2025-01-06", "2025-01-12"))
}
