package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"stylemate_backend/internal/models"
	"stylemate_backend/internal/repositories"
)

// --- Custom Service Errors for Time Off ---
var (
	ErrTimeOffNotFound    = errors.New("time-off request not found")
	ErrTimeOffValidation  = errors.New("time-off request validation error")
	ErrTimeOffNotPending  = errors.New("only pending time-off requests can be approved or denied")
	ErrTimeOffTerminal    = errors.New("denied or cancelled time-off requests cannot change status")
	ErrTimeOffNotEditable = errors.New("cancelled time-off requests cannot be edited")
)

// --- TimeOff DTOs ---

type CreateTimeOffRequest struct {
	StaffID   int64   `json:"staff_id" binding:"required"`
	StartDate string  `json:"start_date" binding:"required"`
	EndDate   string  `json:"end_date" binding:"required"`
	AllDay    bool    `json:"all_day"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Reason    *string `json:"reason"`
}

type UpdateTimeOffRequest struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	AllDay    *bool   `json:"all_day"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Reason    *string `json:"reason"`
}

// --- TimeOffService Interface ---
type TimeOffService interface {
	CreateRequest(businessID int64, req CreateTimeOffRequest) (*models.TimeOffRequest, error)
	GetRequestByID(businessID, requestID int64) (*models.TimeOffRequest, error)
	GetRequests(businessID int64, staffID *int64, status *string, page, pageSize int) ([]models.TimeOffRequest, int, error)
	UpdateRequest(businessID, requestID int64, req UpdateTimeOffRequest) (*models.TimeOffRequest, error)
	ApproveRequest(businessID, requestID int64) (*models.TimeOffRequest, error)
	DenyRequest(businessID, requestID int64) (*models.TimeOffRequest, error)
	CancelRequest(businessID, requestID int64) (*models.TimeOffRequest, error)
	DeleteRequest(businessID, requestID int64) error
}

type timeOffService struct {
	timeOffRepo  repositories.TimeOffRepository
	scheduleRepo repositories.ScheduleRepository
	staffRepo    repositories.StaffRepository
	db           *sql.DB
}

// NewTimeOffService creates a new instance of TimeOffService.
func NewTimeOffService(
	timeOffRepo repositories.TimeOffRepository,
	scheduleRepo repositories.ScheduleRepository,
	staffRepo repositories.StaffRepository,
	db *sql.DB,
) TimeOffService {
	return &timeOffService{
		timeOffRepo:  timeOffRepo,
		scheduleRepo: scheduleRepo,
		staffRepo:    staffRepo,
		db:           db,
	}
}

func validateTimeOffWindow(startDate, endDate string, allDay bool, startTime, endTime *string) error {
	if !validDate(startDate) {
		return fmt.Errorf("%w: start_date %q", ErrDateFormat, startDate)
	}
	if !validDate(endDate) {
		return fmt.Errorf("%w: end_date %q", ErrDateFormat, endDate)
	}
	if endDate < startDate {
		return fmt.Errorf("%w: end_date must not be before start_date", ErrTimeOffValidation)
	}
	if allDay {
		return nil
	}
	if startTime == nil || endTime == nil {
		return fmt.Errorf("%w: partial-day requests require start_time and end_time", ErrTimeOffValidation)
	}
	if !validTimeOfDay(*startTime) || !validTimeOfDay(*endTime) {
		return fmt.Errorf("%w: start_time/end_time", ErrTimeOfDayFormat)
	}
	if *endTime <= *startTime {
		return fmt.Errorf("%w: end time must be after start time", ErrTimeOffValidation)
	}
	return nil
}

func (s *timeOffService) CreateRequest(businessID int64, req CreateTimeOffRequest) (*models.TimeOffRequest, error) {
	if err := validateTimeOffWindow(req.StartDate, req.EndDate, req.AllDay, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if _, err := s.staffRepo.GetStaffMemberByID(businessID, req.StaffID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: staff member with ID %d", ErrStaffNotFound, req.StaffID)
		}
		return nil, fmt.Errorf("failed to validate staff member for time off: %w", err)
	}

	request := &models.TimeOffRequest{
		BusinessID: businessID,
		StaffID:    req.StaffID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		AllDay:     req.AllDay,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Status:     models.TimeOffStatusPending,
		Reason:     req.Reason,
	}
	if req.AllDay {
		request.StartTime = nil
		request.EndTime = nil
	}

	created, err := s.timeOffRepo.CreateRequest(s.db, request)
	if err != nil {
		return nil, fmt.Errorf("failed to create time-off request in repository: %w", err)
	}
	full, err := s.timeOffRepo.GetRequestByID(businessID, created.ID)
	if err != nil {
		return created, nil
	}
	return full, nil
}

func (s *timeOffService) GetRequestByID(businessID, requestID int64) (*models.TimeOffRequest, error) {
	request, err := s.timeOffRepo.GetRequestByID(businessID, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTimeOffNotFound
		}
		return nil, fmt.Errorf("failed to get time-off request by ID: %w", err)
	}
	return request, nil
}

func (s *timeOffService) GetRequests(businessID int64, staffID *int64, status *string, page, pageSize int) ([]models.TimeOffRequest, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	var statusFilter *models.TimeOffStatus
	if status != nil && *status != "" {
		if !models.IsValidTimeOffStatus(*status) {
			return nil, 0, fmt.Errorf("%w: unknown status %q", ErrTimeOffValidation, *status)
		}
		st := models.TimeOffStatus(*status)
		statusFilter = &st
	}

	requests, totalCount, err := s.timeOffRepo.GetRequests(businessID, staffID, statusFilter, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get time-off requests: %w", err)
	}
	return requests, totalCount, nil
}

func (s *timeOffService) UpdateRequest(businessID, requestID int64, req UpdateTimeOffRequest) (*models.TimeOffRequest, error) {
	request, err := s.timeOffRepo.GetRequestByID(businessID, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTimeOffNotFound
		}
		return nil, fmt.Errorf("failed to find time-off request for update: %w", err)
	}
	if request.Status == models.TimeOffStatusCancelled {
		return nil, ErrTimeOffNotEditable
	}

	if req.StartDate != nil {
		request.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		request.EndDate = *req.EndDate
	}
	if req.AllDay != nil {
		request.AllDay = *req.AllDay
	}
	if req.StartTime != nil {
		request.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		request.EndTime = req.EndTime
	}
	if req.Reason != nil {
		request.Reason = req.Reason
	}
	if request.AllDay {
		request.StartTime = nil
		request.EndTime = nil
	}
	if err := validateTimeOffWindow(request.StartDate, request.EndDate, request.AllDay, request.StartTime, request.EndTime); err != nil {
		return nil, err
	}

	updated, err := s.timeOffRepo.UpdateRequest(s.db, request)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTimeOffNotFound
		}
		return nil, fmt.Errorf("failed to update time-off request in repository: %w", err)
	}
	return updated, nil
}

// transition moves a request to the target status, enforcing the lifecycle:
// only pending requests may be approved or denied, pending and approved
// requests may be cancelled, denied and cancelled are terminal.
func (s *timeOffService) transition(businessID, requestID int64, target models.TimeOffStatus) (*models.TimeOffRequest, error) {
	request, err := s.timeOffRepo.GetRequestByID(businessID, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTimeOffNotFound
		}
		return nil, fmt.Errorf("failed to find time-off request for status change: %w", err)
	}

	switch target {
	case models.TimeOffStatusApproved, models.TimeOffStatusDenied:
		if request.Status != models.TimeOffStatusPending {
			if request.Status == models.TimeOffStatusDenied || request.Status == models.TimeOffStatusCancelled {
				return nil, ErrTimeOffTerminal
			}
			return nil, ErrTimeOffNotPending
		}
	case models.TimeOffStatusCancelled:
		if request.Status == models.TimeOffStatusDenied || request.Status == models.TimeOffStatusCancelled {
			return nil, ErrTimeOffTerminal
		}
	default:
		return nil, fmt.Errorf("%w: cannot transition to %q", ErrTimeOffValidation, target)
	}

	request.Status = target
	updated, err := s.timeOffRepo.UpdateRequest(s.db, request)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTimeOffNotFound
		}
		return nil, fmt.Errorf("failed to change time-off request status: %w", err)
	}
	return updated, nil
}

func (s *timeOffService) ApproveRequest(businessID, requestID int64) (*models.TimeOffRequest, error) {
	approved, err := s.transition(businessID, requestID, models.TimeOffStatusApproved)
	if err != nil {
		return nil, err
	}
	s.logOverlappingShifts(approved)
	return approved, nil
}

func (s *timeOffService) DenyRequest(businessID, requestID int64) (*models.TimeOffRequest, error) {
	return s.transition(businessID, requestID, models.TimeOffStatusDenied)
}

func (s *timeOffService) CancelRequest(businessID, requestID int64) (*models.TimeOffRequest, error) {
	return s.transition(businessID, requestID, models.TimeOffStatusCancelled)
}

func (s *timeOffService) DeleteRequest(businessID, requestID int64) error {
	if _, err := s.timeOffRepo.GetRequestByID(businessID, requestID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTimeOffNotFound
		}
		return fmt.Errorf("failed to find time-off request for deletion: %w", err)
	}
	if err := s.timeOffRepo.DeleteRequest(s.db, businessID, requestID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTimeOffNotFound
		}
		return fmt.Errorf("failed to delete time-off request: %w", err)
	}
	return nil
}

// logOverlappingShifts warns about shifts already committed inside a freshly
// approved time-off window. Approval is never blocked; the schedule owner
// resolves the clash manually.
func (s *timeOffService) logOverlappingShifts(request *models.TimeOffRequest) {
	shifts, err := s.scheduleRepo.GetShiftsInRange(models.OccurrenceFilters{
		BusinessID: request.BusinessID,
		StaffID:    &request.StaffID,
		DateFrom:   request.StartDate,
		DateTo:     request.EndDate,
	})
	if err != nil {
		log.Warn().Err(err).Int64("request_id", request.ID).Msg("Could not check shifts overlapping approved time off")
		return
	}
	for _, shift := range shifts {
		log.Warn().
			Int64("request_id", request.ID).
			Int64("shift_id", shift.ID).
			Int64("staff_id", shift.StaffID).
			Str("date", shift.Date).
			Msg("Approved time off overlaps an existing shift")
	}
}
