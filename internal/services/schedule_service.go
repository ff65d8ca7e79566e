package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"stylemate_backend/internal/models"
	"stylemate_backend/internal/repositories"
	"stylemate_backend/internal/scheduling"
)

// --- Custom Service Errors for Scheduling ---
var (
	ErrShiftNotFound     = errors.New("shift not found")
	ErrShiftValidation   = errors.New("shift validation error")
	ErrShiftCompleted    = errors.New("completed shifts cannot be modified or deleted")
	ErrShiftConflict     = errors.New("shift conflicts with the existing schedule")
	ErrPatternNotFound   = errors.New("recurring shift pattern not found")
	ErrPatternValidation = errors.New("recurring shift pattern validation error")
	ErrDateFormat        = errors.New("invalid date format, please use YYYY-MM-DD")
	ErrTimeOfDayFormat   = errors.New("invalid time format, please use HH:mm")
	ErrDateRangeTooWide  = errors.New("date range is too wide")
	ErrDateRangeInverted = errors.New("date_to must not be before date_from")
)

// maxQueryRangeDays caps occurrence and availability queries so an open-ended
// pattern cannot be expanded over an unbounded window.
const maxQueryRangeDays = 366

// --- Shift DTOs ---

type CreateShiftRequest struct {
	StaffID    int64   `json:"staff_id" binding:"required"`
	Date       string  `json:"date" binding:"required"`
	StartTime  string  `json:"start_time" binding:"required"`
	EndTime    string  `json:"end_time" binding:"required"`
	ShiftType  string  `json:"shift_type" binding:"required"`
	LocationID *int64  `json:"location_id"`
	Notes      *string `json:"notes"`
	// Force pushes the shift through warning-severity conflicts.
	// Error-severity conflicts always block.
	Force bool `json:"force"`
}

type BulkCreateShiftsRequest struct {
	Shifts []CreateShiftRequest `json:"shifts" binding:"required,min=1"`
	Force  bool                 `json:"force"`
}

type UpdateShiftRequest struct {
	Date       *string `json:"date"`
	StartTime  *string `json:"start_time"`
	EndTime    *string `json:"end_time"`
	ShiftType  *string `json:"shift_type"`
	Status     *string `json:"status"`
	LocationID *int64  `json:"location_id"`
	Notes      *string `json:"notes"`
	Force      bool    `json:"force"`
}

type CheckConflictsRequest struct {
	StaffID        int64  `json:"staff_id" binding:"required"`
	Date           string `json:"date" binding:"required"`
	StartTime      string `json:"start_time" binding:"required"`
	EndTime        string `json:"end_time" binding:"required"`
	LocationID     *int64 `json:"location_id"`
	ExcludeShiftID *int64 `json:"exclude_shift_id"`
}

// --- Pattern DTOs ---

type CreatePatternRequest struct {
	StaffID        int64   `json:"staff_id" binding:"required"`
	RecurrenceRule string  `json:"recurrence_rule" binding:"required"`
	StartTime      string  `json:"start_time" binding:"required"`
	EndTime        string  `json:"end_time" binding:"required"`
	StartDate      string  `json:"start_date" binding:"required"`
	EndDate        *string `json:"end_date"`
	ShiftType      string  `json:"shift_type" binding:"required"`
	LocationID     *int64  `json:"location_id"`
	Notes          *string `json:"notes"`
}

type UpdatePatternRequest struct {
	RecurrenceRule *string `json:"recurrence_rule"`
	StartTime      *string `json:"start_time"`
	EndTime        *string `json:"end_time"`
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
	ShiftType      *string `json:"shift_type"`
	LocationID     *int64  `json:"location_id"`
	Notes          *string `json:"notes"`
	IsActive       *bool   `json:"is_active"`
}

type MaterializePatternDayRequest struct {
	Date  string `json:"date" binding:"required"`
	Force bool   `json:"force"`
}

// --- ScheduleService Interface ---
type ScheduleService interface {
	// Shift methods
	CreateShift(businessID int64, req CreateShiftRequest) (*models.Shift, []models.ShiftConflict, error)
	BulkCreateShifts(businessID int64, req BulkCreateShiftsRequest) ([]models.Shift, []models.ShiftConflict, error)
	GetShiftByID(businessID, shiftID int64) (*models.Shift, error)
	UpdateShift(businessID, shiftID int64, req UpdateShiftRequest) (*models.Shift, []models.ShiftConflict, error)
	DeleteShift(businessID, shiftID int64) error
	CheckShiftConflicts(businessID int64, req CheckConflictsRequest) ([]models.ShiftConflict, error)
	GetShiftOccurrences(filters models.OccurrenceFilters) ([]models.ShiftOccurrence, error)
	GetStaffAvailability(businessID, staffID int64, dateFrom, dateTo string) ([]models.AvailabilitySlot, error)

	// Recurring pattern methods
	CreatePattern(businessID int64, req CreatePatternRequest) (*models.RecurringShiftPattern, error)
	GetPatternByID(businessID, patternID int64) (*models.RecurringShiftPattern, error)
	GetPatterns(businessID int64, staffID *int64) ([]models.RecurringShiftPattern, error)
	UpdatePattern(businessID, patternID int64, req UpdatePatternRequest) (*models.RecurringShiftPattern, error)
	DeactivatePattern(businessID, patternID int64) (*models.RecurringShiftPattern, error)
	DeletePattern(businessID, patternID int64) error
	MaterializePatternDay(businessID, patternID int64, req MaterializePatternDayRequest) (*models.Shift, []models.ShiftConflict, error)
}

type scheduleService struct {
	scheduleRepo repositories.ScheduleRepository
	timeOffRepo  repositories.TimeOffRepository
	staffRepo    repositories.StaffRepository
	db           *sql.DB
}

// NewScheduleService creates a new instance of ScheduleService.
func NewScheduleService(
	scheduleRepo repositories.ScheduleRepository,
	timeOffRepo repositories.TimeOffRepository,
	staffRepo repositories.StaffRepository,
	db *sql.DB,
) ScheduleService {
	return &scheduleService{
		scheduleRepo: scheduleRepo,
		timeOffRepo:  timeOffRepo,
		staffRepo:    staffRepo,
		db:           db,
	}
}

// --- Validation helpers ---

func validDate(dateStr string) bool {
	_, err := time.Parse(models.DateFormat, strings.TrimSpace(dateStr))
	return err == nil
}

func validTimeOfDay(hm string) bool {
	_, err := time.Parse(models.TimeFormat, strings.TrimSpace(hm))
	return err == nil
}

func validateShiftFields(date, startTime, endTime, shiftType string) error {
	if !validDate(date) {
		return fmt.Errorf("%w: date %q", ErrDateFormat, date)
	}
	if !validTimeOfDay(startTime) {
		return fmt.Errorf("%w: start_time %q", ErrTimeOfDayFormat, startTime)
	}
	if !validTimeOfDay(endTime) {
		return fmt.Errorf("%w: end_time %q", ErrTimeOfDayFormat, endTime)
	}
	if endTime <= startTime {
		return fmt.Errorf("%w: end time must be after start time", ErrShiftValidation)
	}
	if !models.IsValidShiftType(shiftType) {
		return fmt.Errorf("%w: unknown shift type %q", ErrShiftValidation, shiftType)
	}
	return nil
}

func validateDateRange(dateFrom, dateTo string) error {
	if !validDate(dateFrom) {
		return fmt.Errorf("%w: date_from %q", ErrDateFormat, dateFrom)
	}
	if !validDate(dateTo) {
		return fmt.Errorf("%w: date_to %q", ErrDateFormat, dateTo)
	}
	if dateTo < dateFrom {
		return ErrDateRangeInverted
	}
	from, _ := time.Parse(models.DateFormat, dateFrom)
	to, _ := time.Parse(models.DateFormat, dateTo)
	if to.Sub(from) > maxQueryRangeDays*24*time.Hour {
		return fmt.Errorf("%w: maximum is %d days", ErrDateRangeTooWide, maxQueryRangeDays)
	}
	return nil
}

// conflictWindow widens a single date into a fetch range that is guaranteed
// to cover the containing overtime week on either side.
func conflictWindow(date string) (string, string) {
	d, err := time.Parse(models.DateFormat, date)
	if err != nil {
		return date, date
	}
	return d.AddDate(0, 0, -6).Format(models.DateFormat), d.AddDate(0, 0, 6).Format(models.DateFormat)
}

// blockedBy applies the write policy to a conflict list: error-severity
// conflicts always block, warnings block unless the caller forces.
func blockedBy(conflicts []models.ShiftConflict, force bool) bool {
	if models.HasBlockingConflict(conflicts) {
		return true
	}
	return len(conflicts) > 0 && !force
}

func (s *scheduleService) requireStaffMember(businessID, staffID int64) error {
	if _, err := s.staffRepo.GetStaffMemberByID(businessID, staffID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: staff member with ID %d", ErrStaffNotFound, staffID)
		}
		return fmt.Errorf("failed to validate staff member: %w", err)
	}
	return nil
}

func (s *scheduleService) existingShiftsForConflicts(businessID, staffID int64, dateFrom, dateTo string) ([]models.Shift, error) {
	shifts, err := s.scheduleRepo.GetShiftsInRange(models.OccurrenceFilters{
		BusinessID: businessID,
		StaffID:    &staffID,
		DateFrom:   dateFrom,
		DateTo:     dateTo,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load existing shifts for conflict check: %w", err)
	}
	return shifts, nil
}

// --- Shift Method Implementations ---

func (s *scheduleService) CreateShift(businessID int64, req CreateShiftRequest) (*models.Shift, []models.ShiftConflict, error) {
	if err := validateShiftFields(req.Date, req.StartTime, req.EndTime, req.ShiftType); err != nil {
		return nil, nil, err
	}
	if err := s.requireStaffMember(businessID, req.StaffID); err != nil {
		return nil, nil, err
	}

	windowFrom, windowTo := conflictWindow(req.Date)
	existing, err := s.existingShiftsForConflicts(businessID, req.StaffID, windowFrom, windowTo)
	if err != nil {
		return nil, nil, err
	}

	conflicts := scheduling.CheckConflicts(scheduling.Candidate{
		StaffID:    req.StaffID,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		LocationID: req.LocationID,
	}, existing)
	if blockedBy(conflicts, req.Force) {
		return nil, conflicts, ErrShiftConflict
	}

	shift := &models.Shift{
		BusinessID: businessID,
		StaffID:    req.StaffID,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		ShiftType:  models.ShiftType(req.ShiftType),
		Status:     models.ShiftStatusScheduled,
		LocationID: req.LocationID,
		Notes:      req.Notes,
	}
	created, err := s.scheduleRepo.CreateShift(s.db, shift)
	if err != nil {
		return nil, conflicts, fmt.Errorf("failed to create shift in repository: %w", err)
	}
	full, err := s.scheduleRepo.GetShiftByID(businessID, created.ID)
	if err != nil {
		return created, conflicts, nil
	}
	return full, conflicts, nil
}

func (s *scheduleService) BulkCreateShifts(businessID int64, req BulkCreateShiftsRequest) ([]models.Shift, []models.ShiftConflict, error) {
	if len(req.Shifts) == 0 {
		return nil, nil, fmt.Errorf("%w: no shifts provided", ErrShiftValidation)
	}

	candidates := make([]scheduling.Candidate, 0, len(req.Shifts))
	staffSeen := make(map[int64]bool)
	minDate, maxDate := req.Shifts[0].Date, req.Shifts[0].Date
	for i, item := range req.Shifts {
		if err := validateShiftFields(item.Date, item.StartTime, item.EndTime, item.ShiftType); err != nil {
			return nil, nil, fmt.Errorf("shift %d: %w", i, err)
		}
		if !staffSeen[item.StaffID] {
			if err := s.requireStaffMember(businessID, item.StaffID); err != nil {
				return nil, nil, fmt.Errorf("shift %d: %w", i, err)
			}
			staffSeen[item.StaffID] = true
		}
		if item.Date < minDate {
			minDate = item.Date
		}
		if item.Date > maxDate {
			maxDate = item.Date
		}
		candidates = append(candidates, scheduling.Candidate{
			StaffID:    item.StaffID,
			Date:       item.Date,
			StartTime:  item.StartTime,
			EndTime:    item.EndTime,
			LocationID: item.LocationID,
		})
	}

	windowFrom, _ := conflictWindow(minDate)
	_, windowTo := conflictWindow(maxDate)
	existing, err := s.scheduleRepo.GetShiftsInRange(models.OccurrenceFilters{
		BusinessID: businessID,
		DateFrom:   windowFrom,
		DateTo:     windowTo,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load existing shifts for conflict check: %w", err)
	}

	conflicts := scheduling.CheckBulk(candidates, existing)
	if blockedBy(conflicts, req.Force) {
		return nil, conflicts, ErrShiftConflict
	}

	// All-or-nothing: either every shift is created or none.
	tx, err := s.db.Begin()
	if err != nil {
		return nil, conflicts, fmt.Errorf("failed to begin transaction for bulk create: %w", err)
	}
	defer tx.Rollback()

	created := make([]models.Shift, 0, len(req.Shifts))
	for i, item := range req.Shifts {
		shift := &models.Shift{
			BusinessID: businessID,
			StaffID:    item.StaffID,
			Date:       item.Date,
			StartTime:  item.StartTime,
			EndTime:    item.EndTime,
			ShiftType:  models.ShiftType(item.ShiftType),
			Status:     models.ShiftStatusScheduled,
			LocationID: item.LocationID,
			Notes:      item.Notes,
		}
		if _, err := s.scheduleRepo.CreateShift(tx, shift); err != nil {
			return nil, conflicts, fmt.Errorf("shift %d: failed to create in repository: %w", i, err)
		}
		created = append(created, *shift)
	}
	if err := tx.Commit(); err != nil {
		return nil, conflicts, fmt.Errorf("failed to commit bulk shift creation: %w", err)
	}
	return created, conflicts, nil
}

func (s *scheduleService) GetShiftByID(businessID, shiftID int64) (*models.Shift, error) {
	shift, err := s.scheduleRepo.GetShiftByID(businessID, shiftID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to get shift by ID: %w", err)
	}
	return shift, nil
}

func (s *scheduleService) UpdateShift(businessID, shiftID int64, req UpdateShiftRequest) (*models.Shift, []models.ShiftConflict, error) {
	shift, err := s.scheduleRepo.GetShiftByID(businessID, shiftID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrShiftNotFound
		}
		return nil, nil, fmt.Errorf("failed to find shift for update: %w", err)
	}
	if shift.Status == models.ShiftStatusCompleted {
		return nil, nil, ErrShiftCompleted
	}

	if req.Date != nil {
		shift.Date = *req.Date
	}
	if req.StartTime != nil {
		shift.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		shift.EndTime = *req.EndTime
	}
	if req.ShiftType != nil {
		shift.ShiftType = models.ShiftType(*req.ShiftType)
	}
	if req.Status != nil {
		if !models.IsValidShiftStatus(*req.Status) {
			return nil, nil, fmt.Errorf("%w: unknown shift status %q", ErrShiftValidation, *req.Status)
		}
		shift.Status = models.ShiftStatus(*req.Status)
	}
	if req.LocationID != nil {
		shift.LocationID = req.LocationID
	}
	if req.Notes != nil {
		shift.Notes = req.Notes
	}
	if err := validateShiftFields(shift.Date, shift.StartTime, shift.EndTime, string(shift.ShiftType)); err != nil {
		return nil, nil, err
	}

	var conflicts []models.ShiftConflict
	if shift.Status != models.ShiftStatusCancelled {
		windowFrom, windowTo := conflictWindow(shift.Date)
		existing, err := s.existingShiftsForConflicts(businessID, shift.StaffID, windowFrom, windowTo)
		if err != nil {
			return nil, nil, err
		}
		conflicts = scheduling.CheckConflicts(scheduling.Candidate{
			StaffID:        shift.StaffID,
			Date:           shift.Date,
			StartTime:      shift.StartTime,
			EndTime:        shift.EndTime,
			LocationID:     shift.LocationID,
			ExcludeShiftID: &shift.ID,
		}, existing)
		if blockedBy(conflicts, req.Force) {
			return nil, conflicts, ErrShiftConflict
		}
	}

	updated, err := s.scheduleRepo.UpdateShift(s.db, shift)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, conflicts, ErrShiftNotFound
		}
		return nil, conflicts, fmt.Errorf("failed to update shift in repository: %w", err)
	}
	full, err := s.scheduleRepo.GetShiftByID(businessID, updated.ID)
	if err != nil {
		return updated, conflicts, nil
	}
	return full, conflicts, nil
}

func (s *scheduleService) DeleteShift(businessID, shiftID int64) error {
	shift, err := s.scheduleRepo.GetShiftByID(businessID, shiftID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrShiftNotFound
		}
		return fmt.Errorf("failed to find shift for deletion: %w", err)
	}
	if shift.Status == models.ShiftStatusCompleted {
		return ErrShiftCompleted
	}
	if err := s.scheduleRepo.DeleteShift(s.db, businessID, shiftID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrShiftNotFound
		}
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	return nil
}

func (s *scheduleService) CheckShiftConflicts(businessID int64, req CheckConflictsRequest) ([]models.ShiftConflict, error) {
	if !validDate(req.Date) {
		return nil, fmt.Errorf("%w: date %q", ErrDateFormat, req.Date)
	}
	if !validTimeOfDay(req.StartTime) || !validTimeOfDay(req.EndTime) {
		return nil, fmt.Errorf("%w: start_time/end_time", ErrTimeOfDayFormat)
	}
	if err := s.requireStaffMember(businessID, req.StaffID); err != nil {
		return nil, err
	}

	windowFrom, windowTo := conflictWindow(req.Date)
	existing, err := s.existingShiftsForConflicts(businessID, req.StaffID, windowFrom, windowTo)
	if err != nil {
		return nil, err
	}
	return scheduling.CheckConflicts(scheduling.Candidate{
		StaffID:        req.StaffID,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		LocationID:     req.LocationID,
		ExcludeShiftID: req.ExcludeShiftID,
	}, existing), nil
}

func (s *scheduleService) GetShiftOccurrences(filters models.OccurrenceFilters) ([]models.ShiftOccurrence, error) {
	if err := validateDateRange(filters.DateFrom, filters.DateTo); err != nil {
		return nil, err
	}

	shifts, err := s.scheduleRepo.GetShiftsInRange(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load shifts for occurrence view: %w", err)
	}
	patterns, err := s.scheduleRepo.GetActivePatternsInRange(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load patterns for occurrence view: %w", err)
	}
	return scheduling.Merge(shifts, patterns, filters.DateFrom, filters.DateTo), nil
}

func (s *scheduleService) GetStaffAvailability(businessID, staffID int64, dateFrom, dateTo string) ([]models.AvailabilitySlot, error) {
	if err := validateDateRange(dateFrom, dateTo); err != nil {
		return nil, err
	}
	if err := s.requireStaffMember(businessID, staffID); err != nil {
		return nil, err
	}

	occurrences, err := s.GetShiftOccurrences(models.OccurrenceFilters{
		BusinessID: businessID,
		StaffID:    &staffID,
		DateFrom:   dateFrom,
		DateTo:     dateTo,
	})
	if err != nil {
		return nil, err
	}
	timeOff, err := s.timeOffRepo.GetApprovedInRange(businessID, staffID, dateFrom, dateTo)
	if err != nil {
		return nil, fmt.Errorf("failed to load approved time off: %w", err)
	}
	return scheduling.BuildAvailability(occurrences, timeOff, dateFrom, dateTo), nil
}

// --- Recurring Pattern Method Implementations ---

func validatePatternFields(rule, startTime, endTime, startDate string, endDate *string, shiftType string) error {
	if !scheduling.IsValidRecurrenceRule(rule) {
		return fmt.Errorf("%w: unrecognized recurrence rule %q", ErrPatternValidation, rule)
	}
	if !validTimeOfDay(startTime) {
		return fmt.Errorf("%w: start_time %q", ErrTimeOfDayFormat, startTime)
	}
	if !validTimeOfDay(endTime) {
		return fmt.Errorf("%w: end_time %q", ErrTimeOfDayFormat, endTime)
	}
	if endTime <= startTime {
		return fmt.Errorf("%w: end time must be after start time", ErrPatternValidation)
	}
	if !validDate(startDate) {
		return fmt.Errorf("%w: start_date %q", ErrDateFormat, startDate)
	}
	if endDate != nil {
		if !validDate(*endDate) {
			return fmt.Errorf("%w: end_date %q", ErrDateFormat, *endDate)
		}
		if *endDate < startDate {
			return fmt.Errorf("%w: end_date must not be before start_date", ErrPatternValidation)
		}
	}
	if !models.IsValidShiftType(shiftType) {
		return fmt.Errorf("%w: unknown shift type %q", ErrPatternValidation, shiftType)
	}
	return nil
}

func (s *scheduleService) CreatePattern(businessID int64, req CreatePatternRequest) (*models.RecurringShiftPattern, error) {
	if err := validatePatternFields(req.RecurrenceRule, req.StartTime, req.EndTime, req.StartDate, req.EndDate, req.ShiftType); err != nil {
		return nil, err
	}
	if err := s.requireStaffMember(businessID, req.StaffID); err != nil {
		return nil, err
	}

	pattern := &models.RecurringShiftPattern{
		BusinessID:     businessID,
		StaffID:        req.StaffID,
		LocationID:     req.LocationID,
		RecurrenceRule: req.RecurrenceRule,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		ShiftType:      models.ShiftType(req.ShiftType),
		Notes:          req.Notes,
		IsActive:       true,
	}
	created, err := s.scheduleRepo.CreatePattern(s.db, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create pattern in repository: %w", err)
	}
	full, err := s.scheduleRepo.GetPatternByID(businessID, created.ID)
	if err != nil {
		return created, nil
	}
	return full, nil
}

func (s *scheduleService) GetPatternByID(businessID, patternID int64) (*models.RecurringShiftPattern, error) {
	pattern, err := s.scheduleRepo.GetPatternByID(businessID, patternID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPatternNotFound
		}
		return nil, fmt.Errorf("failed to get pattern by ID: %w", err)
	}
	return pattern, nil
}

func (s *scheduleService) GetPatterns(businessID int64, staffID *int64) ([]models.RecurringShiftPattern, error) {
	patterns, err := s.scheduleRepo.GetPatterns(businessID, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to get patterns: %w", err)
	}
	return patterns, nil
}

func (s *scheduleService) UpdatePattern(businessID, patternID int64, req UpdatePatternRequest) (*models.RecurringShiftPattern, error) {
	pattern, err := s.scheduleRepo.GetPatternByID(businessID, patternID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPatternNotFound
		}
		return nil, fmt.Errorf("failed to find pattern for update: %w", err)
	}

	if req.RecurrenceRule != nil {
		pattern.RecurrenceRule = *req.RecurrenceRule
	}
	if req.StartTime != nil {
		pattern.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		pattern.EndTime = *req.EndTime
	}
	if req.StartDate != nil {
		pattern.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		pattern.EndDate = req.EndDate
	}
	if req.ShiftType != nil {
		pattern.ShiftType = models.ShiftType(*req.ShiftType)
	}
	if req.LocationID != nil {
		pattern.LocationID = req.LocationID
	}
	if req.Notes != nil {
		pattern.Notes = req.Notes
	}
	if req.IsActive != nil {
		pattern.IsActive = *req.IsActive
	}
	if err := validatePatternFields(pattern.RecurrenceRule, pattern.StartTime, pattern.EndTime, pattern.StartDate, pattern.EndDate, string(pattern.ShiftType)); err != nil {
		return nil, err
	}

	updated, err := s.scheduleRepo.UpdatePattern(s.db, pattern)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPatternNotFound
		}
		return nil, fmt.Errorf("failed to update pattern in repository: %w", err)
	}
	return updated, nil
}

func (s *scheduleService) DeactivatePattern(businessID, patternID int64) (*models.RecurringShiftPattern, error) {
	inactive := false
	return s.UpdatePattern(businessID, patternID, UpdatePatternRequest{IsActive: &inactive})
}

// DeletePattern removes the pattern itself. Shifts previously materialized
// from it survive with their pattern reference cleared by the database.
func (s *scheduleService) DeletePattern(businessID, patternID int64) error {
	if _, err := s.scheduleRepo.GetPatternByID(businessID, patternID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPatternNotFound
		}
		return fmt.Errorf("failed to find pattern for deletion: %w", err)
	}
	if err := s.scheduleRepo.DeletePattern(s.db, businessID, patternID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPatternNotFound
		}
		return fmt.Errorf("failed to delete pattern: %w", err)
	}
	return nil
}

// MaterializePatternDay creates an override shift for one day of a pattern.
// The merger will suppress the pattern's virtual occurrence for that date in
// favor of the persisted shift.
func (s *scheduleService) MaterializePatternDay(businessID, patternID int64, req MaterializePatternDayRequest) (*models.Shift, []models.ShiftConflict, error) {
	pattern, err := s.scheduleRepo.GetPatternByID(businessID, patternID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrPatternNotFound
		}
		return nil, nil, fmt.Errorf("failed to find pattern for materialization: %w", err)
	}
	if !validDate(req.Date) {
		return nil, nil, fmt.Errorf("%w: date %q", ErrDateFormat, req.Date)
	}
	if req.Date < pattern.StartDate || (pattern.EndDate != nil && req.Date > *pattern.EndDate) {
		return nil, nil, fmt.Errorf("%w: date %s is outside the pattern's validity window", ErrPatternValidation, req.Date)
	}
	day, _ := time.Parse(models.DateFormat, req.Date)
	if !scheduling.ParseRule(pattern.RecurrenceRule).FiresOn(day) {
		return nil, nil, fmt.Errorf("%w: pattern does not generate a shift on %s", ErrPatternValidation, req.Date)
	}

	windowFrom, windowTo := conflictWindow(req.Date)
	existing, err := s.existingShiftsForConflicts(businessID, pattern.StaffID, windowFrom, windowTo)
	if err != nil {
		return nil, nil, err
	}
	conflicts := scheduling.CheckConflicts(scheduling.Candidate{
		StaffID:    pattern.StaffID,
		Date:       req.Date,
		StartTime:  pattern.StartTime,
		EndTime:    pattern.EndTime,
		LocationID: pattern.LocationID,
	}, existing)
	if blockedBy(conflicts, req.Force) {
		return nil, conflicts, ErrShiftConflict
	}

	shift := &models.Shift{
		BusinessID: businessID,
		StaffID:    pattern.StaffID,
		Date:       req.Date,
		StartTime:  pattern.StartTime,
		EndTime:    pattern.EndTime,
		ShiftType:  pattern.ShiftType,
		Status:     models.ShiftStatusScheduled,
		LocationID: pattern.LocationID,
		Notes:      pattern.Notes,
		PatternID:  &pattern.ID,
		IsOverride: true,
	}
	created, err := s.scheduleRepo.CreateShift(s.db, shift)
	if err != nil {
		return nil, conflicts, fmt.Errorf("failed to materialize pattern day: %w", err)
	}
	full, err := s.scheduleRepo.GetShiftByID(businessID, created.ID)
	if err != nil {
		return created, conflicts, nil
	}
	return full, conflicts, nil
}
