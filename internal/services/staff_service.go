package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"stylemate_backend/internal/models"
	"stylemate_backend/internal/repositories"
)

// --- Custom Service Errors for Staff ---
var (
	ErrStaffNotFound         = errors.New("staff member not found")
	ErrUserForStaffNotFound  = errors.New("user account for staff member not found")
	ErrStaffUserConflict     = errors.New("user ID is already associated with another staff member")
	ErrStaffDataValidation   = errors.New("staff data validation error")
	ErrHireDateFormat        = errors.New("invalid hire date format, please use YYYY-MM-DD")
	ErrStaffInUse            = errors.New("staff member cannot be deleted as they are referenced in other records")
	ErrLocationNotAssigned   = errors.New("staff member is not assigned to this location")
	ErrLocationAlreadyLinked = errors.New("staff member is already assigned to this location")
)

// --- StaffMember DTOs ---
type CreateStaffMemberRequest struct {
	UserID      *int64  `json:"user_id"`
	PhoneNumber *string `json:"phone_number"`
	HireDate    *string `json:"hire_date"` // Format YYYY-MM-DD
	Position    *string `json:"position" binding:"required"`
}

type UpdateStaffMemberRequest struct {
	PhoneNumber *string `json:"phone_number"`
	HireDate    *string `json:"hire_date"`
	Position    *string `json:"position"`
	IsActive    *bool   `json:"is_active"`
}

// --- StaffService Interface ---
type StaffService interface {
	CreateStaffMember(businessID int64, req CreateStaffMemberRequest) (*models.StaffMember, error)
	GetStaffMemberByID(businessID, staffID int64) (*models.StaffMember, error)
	GetStaffMemberByUserID(userID int64) (*models.StaffMember, error)
	GetStaffMembers(businessID int64, page, pageSize int, searchTerm *string, activeOnly bool) ([]models.StaffMember, int, error)
	UpdateStaffMember(businessID, staffID int64, req UpdateStaffMemberRequest) (*models.StaffMember, error)
	DeleteStaffMember(businessID, staffID int64) error

	// Location assignments
	AssignLocation(businessID, staffID, locationID int64) ([]models.StaffLocation, error)
	RemoveLocation(businessID, staffID, locationID int64) ([]models.StaffLocation, error)
	SetPrimaryLocation(businessID, staffID, locationID int64) ([]models.StaffLocation, error)
}

type staffService struct {
	staffRepo    repositories.StaffRepository
	locationRepo repositories.LocationRepository
	userRepo     repositories.AuthRepository
	db           *sql.DB
}

// NewStaffService creates a new instance of StaffService.
func NewStaffService(
	staffRepo repositories.StaffRepository,
	locationRepo repositories.LocationRepository,
	userRepo repositories.AuthRepository,
	db *sql.DB,
) StaffService {
	return &staffService{
		staffRepo:    staffRepo,
		locationRepo: locationRepo,
		userRepo:     userRepo,
		db:           db,
	}
}

func normalizeHireDate(hireDate *string) (*string, error) {
	if hireDate == nil || strings.TrimSpace(*hireDate) == "" {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*hireDate)
	if !validDate(trimmed) {
		return nil, ErrHireDateFormat
	}
	return &trimmed, nil
}

func (s *staffService) CreateStaffMember(businessID int64, req CreateStaffMemberRequest) (*models.StaffMember, error) {
	if req.UserID != nil {
		if _, err := s.userRepo.FindUserByID(*req.UserID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: user ID %d", ErrUserForStaffNotFound, *req.UserID)
			}
			return nil, fmt.Errorf("failed to validate user for staff member: %w", err)
		}
		existingStaff, err := s.staffRepo.GetStaffMemberByUserID(*req.UserID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to check existing staff by user ID: %w", err)
		}
		if existingStaff != nil {
			return nil, fmt.Errorf("%w: user ID %d", ErrStaffUserConflict, *req.UserID)
		}
	}

	hireDate, err := normalizeHireDate(req.HireDate)
	if err != nil {
		return nil, err
	}
	if req.Position == nil || strings.TrimSpace(*req.Position) == "" {
		return nil, fmt.Errorf("%w: position cannot be empty", ErrStaffDataValidation)
	}

	staff := &models.StaffMember{
		BusinessID:  businessID,
		UserID:      req.UserID,
		PhoneNumber: req.PhoneNumber,
		HireDate:    hireDate,
		Position:    req.Position,
		IsActive:    true,
	}
	created, err := s.staffRepo.CreateStaffMember(s.db, staff)
	if err != nil {
		return nil, fmt.Errorf("failed to create staff member in repository: %w", err)
	}
	return s.staffRepo.GetStaffMemberByID(businessID, created.ID) // Fetch with User details
}

func (s *staffService) GetStaffMemberByID(businessID, staffID int64) (*models.StaffMember, error) {
	staff, err := s.staffRepo.GetStaffMemberByID(businessID, staffID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to get staff member by ID: %w", err)
	}
	locations, err := s.locationRepo.GetStaffLocations(staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to load staff member locations: %w", err)
	}
	staff.Locations = locations
	return staff, nil
}

func (s *staffService) GetStaffMemberByUserID(userID int64) (*models.StaffMember, error) {
	staff, err := s.staffRepo.GetStaffMemberByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to get staff member by user ID: %w", err)
	}
	return staff, nil
}

func (s *staffService) GetStaffMembers(businessID int64, page, pageSize int, searchTerm *string, activeOnly bool) ([]models.StaffMember, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	staffMembers, totalCount, err := s.staffRepo.GetStaffMembers(businessID, page, pageSize, searchTerm, activeOnly)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get staff members: %w", err)
	}
	return staffMembers, totalCount, nil
}

func (s *staffService) UpdateStaffMember(businessID, staffID int64, req UpdateStaffMemberRequest) (*models.StaffMember, error) {
	staff, err := s.staffRepo.GetStaffMemberByID(businessID, staffID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to find staff member for update: %w", err)
	}

	if req.PhoneNumber != nil {
		staff.PhoneNumber = req.PhoneNumber
	}
	if req.HireDate != nil {
		hd, parseErr := normalizeHireDate(req.HireDate)
		if parseErr != nil {
			return nil, parseErr
		}
		staff.HireDate = hd
	}
	if req.Position != nil {
		if strings.TrimSpace(*req.Position) == "" {
			return nil, fmt.Errorf("%w: position cannot be empty if provided", ErrStaffDataValidation)
		}
		staff.Position = req.Position
	}
	if req.IsActive != nil {
		staff.IsActive = *req.IsActive
	}

	updated, err := s.staffRepo.UpdateStaffMember(s.db, staff)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to update staff member in repository: %w", err)
	}
	return s.GetStaffMemberByID(businessID, updated.ID)
}

func (s *staffService) DeleteStaffMember(businessID, staffID int64) error {
	if _, err := s.staffRepo.GetStaffMemberByID(businessID, staffID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStaffNotFound
		}
		return fmt.Errorf("failed to find staff member for deletion: %w", err)
	}
	if err := s.staffRepo.DeleteStaffMember(s.db, businessID, staffID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStaffNotFound
		}
		if strings.Contains(err.Error(), "referenced in other records") {
			return ErrStaffInUse
		}
		return fmt.Errorf("failed to delete staff member: %w", err)
	}
	return nil
}

// --- Location Assignment Implementations ---

func (s *staffService) AssignLocation(businessID, staffID, locationID int64) ([]models.StaffLocation, error) {
	if _, err := s.GetStaffMemberByID(businessID, staffID); err != nil {
		return nil, err
	}
	if _, err := s.locationRepo.GetLocationByID(businessID, locationID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to validate location for assignment: %w", err)
	}
	if err := s.locationRepo.AssignStaffToLocation(s.db, staffID, locationID); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrLocationAlreadyLinked
		}
		return nil, fmt.Errorf("failed to assign staff member to location: %w", err)
	}
	return s.locationRepo.GetStaffLocations(staffID)
}

func (s *staffService) RemoveLocation(businessID, staffID, locationID int64) ([]models.StaffLocation, error) {
	if _, err := s.GetStaffMemberByID(businessID, staffID); err != nil {
		return nil, err
	}
	if err := s.locationRepo.RemoveStaffFromLocation(s.db, staffID, locationID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLocationNotAssigned
		}
		return nil, fmt.Errorf("failed to remove staff member from location: %w", err)
	}
	return s.locationRepo.GetStaffLocations(staffID)
}

// SetPrimaryLocation flips the primary flag to the given location. The clear
// and set run in one transaction so the staff member never has zero or two
// primary locations visible to concurrent readers.
func (s *staffService) SetPrimaryLocation(businessID, staffID, locationID int64) ([]models.StaffLocation, error) {
	if _, err := s.GetStaffMemberByID(businessID, staffID); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for primary location change: %w", err)
	}
	defer tx.Rollback()

	if err := s.locationRepo.SetPrimaryLocation(tx, staffID, locationID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLocationNotAssigned
		}
		return nil, fmt.Errorf("failed to set primary location: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit primary location change: %w", err)
	}
	return s.locationRepo.GetStaffLocations(staffID)
}
