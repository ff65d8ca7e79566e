package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"stylemate_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// LocationRepository defines the interface for location-related database
// operations, including staff-to-location assignments.
type LocationRepository interface {
	CreateLocation(executor SQLExecutor, location *models.Location) (int64, error)
	GetLocationByID(businessID, id int64) (*models.Location, error)
	GetLocations(businessID int64, page, pageSize int, searchTerm *string) ([]models.Location, int, error)
	UpdateLocation(executor SQLExecutor, location *models.Location) error
	DeleteLocation(executor SQLExecutor, businessID, id int64) error

	GetStaffLocations(staffID int64) ([]models.StaffLocation, error)
	AssignStaffToLocation(executor SQLExecutor, staffID, locationID int64) error
	RemoveStaffFromLocation(executor SQLExecutor, staffID, locationID int64) error
	// SetPrimaryLocation flips the primary flag to the given location inside
	// the caller's transaction, so exactly one row per staff member holds the
	// flag at any observable point.
	SetPrimaryLocation(tx *sql.Tx, staffID, locationID int64) error
}

type locationRepository struct {
	db *sql.DB
}

// NewLocationRepository creates a new instance of LocationRepository.
func NewLocationRepository(db *sql.DB) LocationRepository {
	return &locationRepository{db: db}
}

// CreateLocation inserts a new location into the database.
func (r *locationRepository) CreateLocation(executor SQLExecutor, location *models.Location) (int64, error) {
	query := `INSERT INTO locations (business_id, name, address, phone_number, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	currentTime := time.Now()
	location.CreatedAt = currentTime
	location.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		location.BusinessID, location.Name, location.Address, location.PhoneNumber,
		location.IsActive, location.CreatedAt, location.UpdatedAt,
	).Scan(&location.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating location: %v", ErrDatabaseError, err)
	}
	return location.ID, nil
}

// GetLocationByID retrieves a location by its ID within a business.
func (r *locationRepository) GetLocationByID(businessID, id int64) (*models.Location, error) {
	location := &models.Location{}
	query := `SELECT id, business_id, name, address, phone_number, is_active, created_at, updated_at
	          FROM locations WHERE id = $1 AND business_id = $2`

	err := r.db.QueryRow(query, id, businessID).Scan(
		&location.ID, &location.BusinessID, &location.Name, &location.Address,
		&location.PhoneNumber, &location.IsActive, &location.CreatedAt, &location.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting location by ID %d: %v", ErrDatabaseError, id, err)
	}
	return location, nil
}

// GetLocations retrieves a list of locations with pagination and optional search.
func (r *locationRepository) GetLocations(businessID int64, page, pageSize int, searchTerm *string) ([]models.Location, int, error) {
	locations := []models.Location{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, business_id, name, address, phone_number, is_active, created_at, updated_at, COUNT(*) OVER() as total_count
	                          FROM locations`)

	conditions := []string{"business_id = $1"}
	args := []interface{}{businessID}
	argCount := 2

	if searchTerm != nil && *searchTerm != "" {
		searchPattern := "%" + strings.ToLower(*searchTerm) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) ILIKE $%d OR LOWER(address) ILIKE $%d)", argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}

	queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	queryBuilder.WriteString(" ORDER BY name ASC")

	if pageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, pageSize)
		argCount++
		if page > 0 {
			offset := (page - 1) * pageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying locations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var location models.Location
		if err := rows.Scan(
			&location.ID, &location.BusinessID, &location.Name, &location.Address,
			&location.PhoneNumber, &location.IsActive, &location.CreatedAt, &location.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning location: %v", ErrDatabaseError, err)
		}
		locations = append(locations, location)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating location rows: %v", ErrDatabaseError, err)
	}
	return locations, totalCount, nil
}

// UpdateLocation updates an existing location in the database.
func (r *locationRepository) UpdateLocation(executor SQLExecutor, location *models.Location) error {
	query := `UPDATE locations SET
	            name = $1, address = $2, phone_number = $3, is_active = $4, updated_at = $5
	          WHERE id = $6 AND business_id = $7`

	location.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		location.Name, location.Address, location.PhoneNumber, location.IsActive,
		location.UpdatedAt, location.ID, location.BusinessID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating location ID %d: %v", ErrDatabaseError, location.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating location ID %d: %v", ErrDatabaseError, location.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteLocation removes a location from the database.
func (r *locationRepository) DeleteLocation(executor SQLExecutor, businessID, id int64) error {
	query := `DELETE FROM locations WHERE id = $1 AND business_id = $2`
	result, err := executor.Exec(query, id, businessID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("%w: location ID %d cannot be deleted as it is referenced by other records (e.g., shifts) (constraint: %s)", ErrDatabaseError, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting location ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Staff-Location Assignments ---

func (r *locationRepository) GetStaffLocations(staffID int64) ([]models.StaffLocation, error) {
	query := `SELECT sl.staff_id, sl.location_id, sl.is_primary, sl.created_at,
	                 l.id, l.business_id, l.name, l.address, l.phone_number, l.is_active, l.created_at, l.updated_at
	          FROM staff_locations sl
	          JOIN locations l ON sl.location_id = l.id
	          WHERE sl.staff_id = $1
	          ORDER BY sl.is_primary DESC, l.name ASC`

	rows, err := r.db.Query(query, staffID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying staff locations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	links := []models.StaffLocation{}
	for rows.Next() {
		var link models.StaffLocation
		var location models.Location
		if err := rows.Scan(
			&link.StaffID, &link.LocationID, &link.IsPrimary, &link.CreatedAt,
			&location.ID, &location.BusinessID, &location.Name, &location.Address,
			&location.PhoneNumber, &location.IsActive, &location.CreatedAt, &location.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning staff location: %v", ErrDatabaseError, err)
		}
		link.Location = &location
		links = append(links, link)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating staff location rows: %v", ErrDatabaseError, err)
	}
	return links, nil
}

func (r *locationRepository) AssignStaffToLocation(executor SQLExecutor, staffID, locationID int64) error {
	query := `INSERT INTO staff_locations (staff_id, location_id, is_primary, created_at)
	          VALUES ($1, $2, FALSE, $3)`
	_, err := executor.Exec(query, staffID, locationID, time.Now())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("%w: staff member %d is already assigned to location %d", ErrDuplicateKey, staffID, locationID)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return fmt.Errorf("%w: staff member %d or location %d not found", ErrNotFound, staffID, locationID)
			}
		}
		return fmt.Errorf("%w: assigning staff %d to location %d: %v", ErrDatabaseError, staffID, locationID, err)
	}
	return nil
}

func (r *locationRepository) RemoveStaffFromLocation(executor SQLExecutor, staffID, locationID int64) error {
	query := `DELETE FROM staff_locations WHERE staff_id = $1 AND location_id = $2`
	result, err := executor.Exec(query, staffID, locationID)
	if err != nil {
		return fmt.Errorf("%w: removing staff %d from location %d: %v", ErrDatabaseError, staffID, locationID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPrimaryLocation clears the current primary flag and sets it on the given
// assignment. Both statements run on the caller's transaction; committing is
// the caller's responsibility.
func (r *locationRepository) SetPrimaryLocation(tx *sql.Tx, staffID, locationID int64) error {
	if _, err := tx.Exec(`UPDATE staff_locations SET is_primary = FALSE WHERE staff_id = $1 AND is_primary = TRUE`, staffID); err != nil {
		return fmt.Errorf("%w: clearing primary location for staff %d: %v", ErrDatabaseError, staffID, err)
	}
	result, err := tx.Exec(`UPDATE staff_locations SET is_primary = TRUE WHERE staff_id = $1 AND location_id = $2`, staffID, locationID)
	if err != nil {
		return fmt.Errorf("%w: setting primary location %d for staff %d: %v", ErrDatabaseError, locationID, staffID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
