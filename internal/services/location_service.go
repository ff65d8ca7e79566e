package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"stylemate_backend/internal/models"
	"stylemate_backend/internal/repositories"
)

// --- Custom Service Errors for Location ---
var (
	ErrLocationNotFound   = errors.New("location not found")
	ErrLocationValidation = errors.New("location data validation error")
	ErrLocationInUse      = errors.New("location cannot be deleted as it is referenced in other records")
)

// --- Location DTOs ---
type CreateLocationRequest struct {
	Name        string  `json:"name" binding:"required"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phone_number"`
}

type UpdateLocationRequest struct {
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phone_number"`
	IsActive    *bool   `json:"is_active"`
}

// --- LocationService Interface ---
type LocationService interface {
	CreateLocation(businessID int64, req CreateLocationRequest) (*models.Location, error)
	GetLocationByID(businessID, locationID int64) (*models.Location, error)
	GetLocations(businessID int64, page, pageSize int, searchTerm *string) ([]models.Location, int, error)
	UpdateLocation(businessID, locationID int64, req UpdateLocationRequest) (*models.Location, error)
	DeleteLocation(businessID, locationID int64) error
}

type locationService struct {
	locationRepo repositories.LocationRepository
	db           *sql.DB
}

// NewLocationService creates a new instance of LocationService.
func NewLocationService(repo repositories.LocationRepository, db *sql.DB) LocationService {
	return &locationService{
		locationRepo: repo,
		db:           db,
	}
}

func (s *locationService) CreateLocation(businessID int64, req CreateLocationRequest) (*models.Location, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrLocationValidation)
	}

	location := &models.Location{
		BusinessID:  businessID,
		Name:        strings.TrimSpace(req.Name),
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		IsActive:    true,
	}
	if _, err := s.locationRepo.CreateLocation(s.db, location); err != nil {
		return nil, fmt.Errorf("failed to create location in repository: %w", err)
	}
	return location, nil
}

func (s *locationService) GetLocationByID(businessID, locationID int64) (*models.Location, error) {
	location, err := s.locationRepo.GetLocationByID(businessID, locationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to get location by ID: %w", err)
	}
	return location, nil
}

func (s *locationService) GetLocations(businessID int64, page, pageSize int, searchTerm *string) ([]models.Location, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	locations, totalCount, err := s.locationRepo.GetLocations(businessID, page, pageSize, searchTerm)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get locations: %w", err)
	}
	return locations, totalCount, nil
}

func (s *locationService) UpdateLocation(businessID, locationID int64, req UpdateLocationRequest) (*models.Location, error) {
	location, err := s.locationRepo.GetLocationByID(businessID, locationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to find location for update: %w", err)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name cannot be empty if provided", ErrLocationValidation)
		}
		location.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		location.Address = req.Address
	}
	if req.PhoneNumber != nil {
		location.PhoneNumber = req.PhoneNumber
	}
	if req.IsActive != nil {
		location.IsActive = *req.IsActive
	}

	if err := s.locationRepo.UpdateLocation(s.db, location); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to update location in repository: %w", err)
	}
	return location, nil
}

func (s *locationService) DeleteLocation(businessID, locationID int64) error {
	if _, err := s.locationRepo.GetLocationByID(businessID, locationID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrLocationNotFound
		}
		return fmt.Errorf("failed to find location for deletion: %w", err)
	}
	if err := s.locationRepo.DeleteLocation(s.db, businessID, locationID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrLocationNotFound
		}
		if strings.Contains(err.Error(), "referenced by other records") {
			return ErrLocationInUse
		}
		return fmt.Errorf("failed to delete location: %w", err)
	}
	return nil
}
