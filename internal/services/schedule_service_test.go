package services

import (
	"testing"

	"stylemate_backend/internal/models"
	"stylemate_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- In-memory fakes over the repository interfaces ---

type fakeScheduleRepo struct {
	shifts   []models.Shift
	patterns []models.RecurringShiftPattern
	nextID   int64
}

func (f *fakeScheduleRepo) allocID() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeScheduleRepo) CreateShift(_ repositories.SQLExecutor, shift *models.Shift) (*models.Shift, error) {
	shift.ID = f.allocID()
	f.shifts = append(f.shifts, *shift)
	return shift, nil
}

func (f *fakeScheduleRepo) GetShiftByID(businessID, id int64) (*models.Shift, error) {
	for _, s := range f.shifts {
		if s.ID == id && s.BusinessID == businessID {
			out := s
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeScheduleRepo) GetShiftsInRange(filters models.OccurrenceFilters) ([]models.Shift, error) {
	var out []models.Shift
	for _, s := range f.shifts {
		if s.BusinessID != filters.BusinessID || s.Status == models.ShiftStatusCancelled {
			continue
		}
		if filters.StaffID != nil && s.StaffID != *filters.StaffID {
			continue
		}
		if s.Date < filters.DateFrom || s.Date > filters.DateTo {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeScheduleRepo) UpdateShift(_ repositories.SQLExecutor, shift *models.Shift) (*models.Shift, error) {
	for i, s := range f.shifts {
		if s.ID == shift.ID && s.BusinessID == shift.BusinessID {
			f.shifts[i] = *shift
			return shift, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeScheduleRepo) DeleteShift(_ repositories.SQLExecutor, businessID, id int64) error {
	for i, s := range f.shifts {
		if s.ID == id && s.BusinessID == businessID {
			f.shifts = append(f.shifts[:i], f.shifts[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeScheduleRepo) CreatePattern(_ repositories.SQLExecutor, pattern *models.RecurringShiftPattern) (*models.RecurringShiftPattern, error) {
	pattern.ID = f.allocID()
	f.patterns = append(f.patterns, *pattern)
	return pattern, nil
}

func (f *fakeScheduleRepo) GetPatternByID(businessID, id int64) (*models.RecurringShiftPattern, error) {
	for _, p := range f.patterns {
		if p.ID == id && p.BusinessID == businessID {
			out := p
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeScheduleRepo) GetPatterns(businessID int64, staffID *int64) ([]models.RecurringShiftPattern, error) {
	var out []models.RecurringShiftPattern
	for _, p := range f.patterns {
		if p.BusinessID != businessID {
			continue
		}
		if staffID != nil && p.StaffID != *staffID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeScheduleRepo) GetActivePatternsInRange(filters models.OccurrenceFilters) ([]models.RecurringShiftPattern, error) {
	var out []models.RecurringShiftPattern
	for _, p := range f.patterns {
		if p.BusinessID != filters.BusinessID || !p.IsActive {
			continue
		}
		if filters.StaffID != nil && p.StaffID != *filters.StaffID {
			continue
		}
		if p.StartDate > filters.DateTo {
			continue
		}
		if p.EndDate != nil && *p.EndDate < filters.DateFrom {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeScheduleRepo) UpdatePattern(_ repositories.SQLExecutor, pattern *models.RecurringShiftPattern) (*models.RecurringShiftPattern, error) {
	for i, p := range f.patterns {
		if p.ID == pattern.ID && p.BusinessID == pattern.BusinessID {
			f.patterns[i] = *pattern
			return pattern, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeScheduleRepo) DeletePattern(_ repositories.SQLExecutor, businessID, id int64) error {
	for i, p := range f.patterns {
		if p.ID == id && p.BusinessID == businessID {
			f.patterns = append(f.patterns[:i], f.patterns[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type fakeStaffRepo struct {
	staff []models.StaffMember
}

func (f *fakeStaffRepo) CreateStaffMember(_ repositories.SQLExecutor, staff *models.StaffMember) (*models.StaffMember, error) {
	f.staff = append(f.staff, *staff)
	return staff, nil
}

func (f *fakeStaffRepo) GetStaffMemberByID(businessID, id int64) (*models.StaffMember, error) {
	for _, sm := range f.staff {
		if sm.ID == id && sm.BusinessID == businessID {
			out := sm
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeStaffRepo) GetStaffMemberByUserID(userID int64) (*models.StaffMember, error) {
	return nil, repositories.ErrNotFound
}

func (f *fakeStaffRepo) GetStaffMembers(businessID int64, page, pageSize int, searchTerm *string, activeOnly bool) ([]models.StaffMember, int, error) {
	return f.staff, len(f.staff), nil
}

func (f *fakeStaffRepo) UpdateStaffMember(_ repositories.SQLExecutor, staff *models.StaffMember) (*models.StaffMember, error) {
	return staff, nil
}

func (f *fakeStaffRepo) DeleteStaffMember(_ repositories.SQLExecutor, businessID, id int64) error {
	return nil
}

type fakeTimeOffRepo struct {
	approved []models.TimeOffRequest
}

func (f *fakeTimeOffRepo) CreateRequest(_ repositories.SQLExecutor, req *models.TimeOffRequest) (*models.TimeOffRequest, error) {
	return req, nil
}

func (f *fakeTimeOffRepo) GetRequestByID(businessID, id int64) (*models.TimeOffRequest, error) {
	return nil, repositories.ErrNotFound
}

func (f *fakeTimeOffRepo) GetRequests(businessID int64, staffID *int64, status *models.TimeOffStatus, page, pageSize int) ([]models.TimeOffRequest, int, error) {
	return nil, 0, nil
}

func (f *fakeTimeOffRepo) GetApprovedInRange(businessID, staffID int64, dateFrom, dateTo string) ([]models.TimeOffRequest, error) {
	return f.approved, nil
}

func (f *fakeTimeOffRepo) UpdateRequest(_ repositories.SQLExecutor, req *models.TimeOffRequest) (*models.TimeOffRequest, error) {
	return req, nil
}

func (f *fakeTimeOffRepo) DeleteRequest(_ repositories.SQLExecutor, businessID, id int64) error {
	return nil
}

// --- Test setup helpers ---

const testBusinessID int64 = 7

func strPtr(s string) *string {
	return &s
}

func newTestScheduleService(existing ...models.Shift) (ScheduleService, *fakeScheduleRepo) {
	scheduleRepo := &fakeScheduleRepo{nextID: 100}
	for _, s := range existing {
		if s.ID == 0 {
			s.ID = scheduleRepo.allocID()
		}
		if s.BusinessID == 0 {
			s.BusinessID = testBusinessID
		}
		if s.Status == "" {
			s.Status = models.ShiftStatusScheduled
		}
		scheduleRepo.shifts = append(scheduleRepo.shifts, s)
	}
	staffRepo := &fakeStaffRepo{staff: []models.StaffMember{
		{ID: 1, BusinessID: testBusinessID, Position: strPtr("Stylist"), IsActive: true},
		{ID: 2, BusinessID: testBusinessID, Position: strPtr("Colorist"), IsActive: true},
	}}
	svc := NewScheduleService(scheduleRepo, &fakeTimeOffRepo{}, staffRepo, nil)
	return svc, scheduleRepo
}

func dayShift(staffID int64, date, start, end string) models.Shift {
	return models.Shift{
		StaffID:   staffID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		ShiftType: models.ShiftTypeMid,
		Status:    models.ShiftStatusScheduled,
	}
}

// --- CreateShift conflict policy ---

func TestCreateShiftOverlapBlocksEvenWithForce(t *testing.T) {
	svc, repo := newTestScheduleService(dayShift(1, "2025-03-10", "09:00", "17:00"))

	shift, conflicts, err := svc.CreateShift(testBusinessID, CreateShiftRequest{
		StaffID:   1,
		Date:      "2025-03-10",
		StartTime: "16:00",
		EndTime:   "20:00",
		ShiftType: string(models.ShiftTypeMid),
		Force:     true,
	})
	require.ErrorIs(t, err, ErrShiftConflict)
	assert.Nil(t, shift)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictOverlap, conflicts[0].Type)
	assert.Equal(t, models.SeverityError, conflicts[0].Severity)
	assert.Len(t, repo.shifts, 1)
}

func TestCreateShiftOvertimeWarningBlocksWithoutForce(t *testing.T) {
	// Four 9h shifts Monday through Thursday put the week at 36h; a 5h
	// Friday shift tips it to 41h.
	svc, repo := newTestScheduleService(
		dayShift(1, "2025-03-10", "09:00", "18:00"),
		dayShift(1, "2025-03-11", "09:00", "18:00"),
		dayShift(1, "2025-03-12", "09:00", "18:00"),
		dayShift(1, "2025-03-13", "09:00", "18:00"),
	)

	req := CreateShiftRequest{
		StaffID:   1,
		Date:      "2025-03-14",
		StartTime: "09:00",
		EndTime:   "14:00",
		ShiftType: string(models.ShiftTypeMid),
	}
	shift, conflicts, err := svc.CreateShift(testBusinessID, req)
	require.ErrorIs(t, err, ErrShiftConflict)
	assert.Nil(t, shift)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictOvertime, conflicts[0].Type)
	assert.Equal(t, models.SeverityWarning, conflicts[0].Severity)
	assert.Contains(t, conflicts[0].Message, "41.0h")
	assert.Len(t, repo.shifts, 4)

	// The same request goes through when forced, and the warning is still
	// reported alongside the created shift.
	req.Force = true
	shift, conflicts, err = svc.CreateShift(testBusinessID, req)
	require.NoError(t, err)
	require.NotNil(t, shift)
	assert.Equal(t, models.ShiftStatusScheduled, shift.Status)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.SeverityWarning, conflicts[0].Severity)
	assert.Len(t, repo.shifts, 5)
}

func TestCreateShiftUnknownStaff(t *testing.T) {
	svc, _ := newTestScheduleService()

	_, _, err := svc.CreateShift(testBusinessID, CreateShiftRequest{
		StaffID:   99,
		Date:      "2025-03-10",
		StartTime: "09:00",
		EndTime:   "17:00",
		ShiftType: string(models.ShiftTypeMid),
	})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestCreateShiftValidation(t *testing.T) {
	svc, _ := newTestScheduleService()

	_, _, err := svc.CreateShift(testBusinessID, CreateShiftRequest{
		StaffID:   1,
		Date:      "10/03/2025",
		StartTime: "09:00",
		EndTime:   "17:00",
		ShiftType: string(models.ShiftTypeMid),
	})
	assert.ErrorIs(t, err, ErrDateFormat)

	_, _, err = svc.CreateShift(testBusinessID, CreateShiftRequest{
		StaffID:   1,
		Date:      "2025-03-10",
		StartTime: "17:00",
		EndTime:   "09:00",
		ShiftType: string(models.ShiftTypeMid),
	})
	assert.ErrorIs(t, err, ErrShiftValidation)
}

// --- UpdateShift and DeleteShift ---

func TestUpdateShiftExcludesItselfFromConflictCheck(t *testing.T) {
	svc, repo := newTestScheduleService(dayShift(1, "2025-03-10", "09:00", "17:00"))
	shiftID := repo.shifts[0].ID

	newEnd := "18:00"
	updated, conflicts, err := svc.UpdateShift(testBusinessID, shiftID, UpdateShiftRequest{EndTime: &newEnd})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
	assert.Equal(t, "18:00", updated.EndTime)
}

func TestUpdateShiftCompletedRejected(t *testing.T) {
	completed := dayShift(1, "2025-03-10", "09:00", "17:00")
	completed.Status = models.ShiftStatusCompleted
	svc, repo := newTestScheduleService(completed)
	shiftID := repo.shifts[0].ID

	newEnd := "18:00"
	_, _, err := svc.UpdateShift(testBusinessID, shiftID, UpdateShiftRequest{EndTime: &newEnd})
	assert.ErrorIs(t, err, ErrShiftCompleted)
}

func TestUpdateShiftCancellingSkipsConflictCheck(t *testing.T) {
	svc, repo := newTestScheduleService(
		dayShift(1, "2025-03-10", "09:00", "17:00"),
		dayShift(1, "2025-03-10", "12:00", "20:00"),
	)
	shiftID := repo.shifts[1].ID

	cancelled := string(models.ShiftStatusCancelled)
	updated, conflicts, err := svc.UpdateShift(testBusinessID, shiftID, UpdateShiftRequest{Status: &cancelled})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
	assert.Equal(t, models.ShiftStatusCancelled, updated.Status)
}

func TestDeleteShift(t *testing.T) {
	completed := dayShift(1, "2025-03-10", "09:00", "17:00")
	completed.Status = models.ShiftStatusCompleted
	svc, repo := newTestScheduleService(completed, dayShift(1, "2025-03-11", "09:00", "17:00"))

	err := svc.DeleteShift(testBusinessID, repo.shifts[0].ID)
	assert.ErrorIs(t, err, ErrShiftCompleted)

	require.NoError(t, svc.DeleteShift(testBusinessID, repo.shifts[1].ID))
	assert.Len(t, repo.shifts, 1)

	assert.ErrorIs(t, svc.DeleteShift(testBusinessID, 9999), ErrShiftNotFound)
}

// --- Bulk creation ---

func TestBulkCreateShiftsBlockedBeforeAnyWrite(t *testing.T) {
	svc, repo := newTestScheduleService(dayShift(1, "2025-03-10", "09:00", "17:00"))

	shifts, conflicts, err := svc.BulkCreateShifts(testBusinessID, BulkCreateShiftsRequest{
		Shifts: []CreateShiftRequest{
			{StaffID: 2, Date: "2025-03-10", StartTime: "09:00", EndTime: "17:00", ShiftType: string(models.ShiftTypeMid)},
			{StaffID: 1, Date: "2025-03-10", StartTime: "10:00", EndTime: "15:00", ShiftType: string(models.ShiftTypeMid)},
		},
	})
	require.ErrorIs(t, err, ErrShiftConflict)
	assert.Nil(t, shifts)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.SeverityError, conflicts[0].Severity)
	// Nothing from the batch was written, including the clean first entry.
	assert.Len(t, repo.shifts, 1)
}

func TestBulkCreateShiftsValidatesEachEntry(t *testing.T) {
	svc, _ := newTestScheduleService()

	_, _, err := svc.BulkCreateShifts(testBusinessID, BulkCreateShiftsRequest{
		Shifts: []CreateShiftRequest{
			{StaffID: 1, Date: "2025-03-10", StartTime: "09:00", EndTime: "17:00", ShiftType: string(models.ShiftTypeMid)},
			{StaffID: 1, Date: "2025-03-11", StartTime: "09:00", EndTime: "17:00", ShiftType: "holiday-party"},
		},
	})
	require.ErrorIs(t, err, ErrShiftValidation)
	assert.Contains(t, err.Error(), "shift 1")
}

// --- Conflict preview ---

func TestCheckShiftConflictsIsReadOnly(t *testing.T) {
	svc, repo := newTestScheduleService(dayShift(1, "2025-03-10", "09:00", "17:00"))

	conflicts, err := svc.CheckShiftConflicts(testBusinessID, CheckConflictsRequest{
		StaffID:   1,
		Date:      "2025-03-10",
		StartTime: "16:00",
		EndTime:   "20:00",
	})
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictOverlap, conflicts[0].Type)
	assert.Len(t, repo.shifts, 1)

	// Excluding the overlapping shift clears the report, the path an edit
	// preview takes.
	excludeID := repo.shifts[0].ID
	conflicts, err = svc.CheckShiftConflicts(testBusinessID, CheckConflictsRequest{
		StaffID:        1,
		Date:           "2025-03-10",
		StartTime:      "16:00",
		EndTime:        "20:00",
		ExcludeShiftID: &excludeID,
	})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

// --- Occurrence queries ---

func TestGetShiftOccurrencesRangeValidation(t *testing.T) {
	svc, _ := newTestScheduleService()

	_, err := svc.GetShiftOccurrences(models.OccurrenceFilters{
		BusinessID: testBusinessID,
		DateFrom:   "2025-03-10",
		DateTo:     "2025-03-01",
	})
	assert.ErrorIs(t, err, ErrDateRangeInverted)

	_, err = svc.GetShiftOccurrences(models.OccurrenceFilters{
		BusinessID: testBusinessID,
		DateFrom:   "2024-01-01",
		DateTo:     "2026-06-01",
	})
	assert.ErrorIs(t, err, ErrDateRangeTooWide)
}

// --- Pattern materialization ---

func TestMaterializePatternDay(t *testing.T) {
	svc, repo := newTestScheduleService()
	pattern, err := svc.CreatePattern(testBusinessID, CreatePatternRequest{
		StaffID:        1,
		RecurrenceRule: "FREQ=WEEKLY;BYDAY=MO,WE",
		StartTime:      "09:00",
		EndTime:        "17:00",
		StartDate:      "2025-03-01",
		ShiftType:      string(models.ShiftTypeMid),
	})
	require.NoError(t, err)

	// 2025-03-11 is a Tuesday, which the rule skips.
	_, _, err = svc.MaterializePatternDay(testBusinessID, pattern.ID, MaterializePatternDayRequest{Date: "2025-03-11"})
	assert.ErrorIs(t, err, ErrPatternValidation)

	// A date before the validity window is rejected even if the weekday fits.
	_, _, err = svc.MaterializePatternDay(testBusinessID, pattern.ID, MaterializePatternDayRequest{Date: "2025-02-24"})
	assert.ErrorIs(t, err, ErrPatternValidation)

	shift, conflicts, err := svc.MaterializePatternDay(testBusinessID, pattern.ID, MaterializePatternDayRequest{Date: "2025-03-10"})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
	require.NotNil(t, shift.PatternID)
	assert.Equal(t, pattern.ID, *shift.PatternID)
	assert.True(t, shift.IsOverride)
	assert.Equal(t, "09:00", shift.StartTime)
	assert.Len(t, repo.shifts, 1)
}

func TestDeactivatePattern(t *testing.T) {
	svc, _ := newTestScheduleService()
	pattern, err := svc.CreatePattern(testBusinessID, CreatePatternRequest{
		StaffID:        1,
		RecurrenceRule: "FREQ=DAILY",
		StartTime:      "09:00",
		EndTime:        "17:00",
		StartDate:      "2025-03-01",
		ShiftType:      string(models.ShiftTypeMid),
	})
	require.NoError(t, err)
	require.True(t, pattern.IsActive)

	deactivated, err := svc.DeactivatePattern(testBusinessID, pattern.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)
}
