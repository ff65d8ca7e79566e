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

// ScheduleRepository defines the interface for shift and recurring shift
// pattern database operations. All reads are scoped by business ID.
type ScheduleRepository interface {
	// Shift methods
	CreateShift(executor SQLExecutor, shift *models.Shift) (*models.Shift, error)
	GetShiftByID(businessID, id int64) (*models.Shift, error)
	GetShiftsInRange(filters models.OccurrenceFilters) ([]models.Shift, error)
	UpdateShift(executor SQLExecutor, shift *models.Shift) (*models.Shift, error)
	DeleteShift(executor SQLExecutor, businessID, id int64) error

	// Recurring pattern methods
	CreatePattern(executor SQLExecutor, pattern *models.RecurringShiftPattern) (*models.RecurringShiftPattern, error)
	GetPatternByID(businessID, id int64) (*models.RecurringShiftPattern, error)
	GetPatterns(businessID int64, staffID *int64) ([]models.RecurringShiftPattern, error)
	GetActivePatternsInRange(filters models.OccurrenceFilters) ([]models.RecurringShiftPattern, error)
	UpdatePattern(executor SQLExecutor, pattern *models.RecurringShiftPattern) (*models.RecurringShiftPattern, error)
	DeletePattern(executor SQLExecutor, businessID, id int64) error
}

type scheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository creates a new instance of ScheduleRepository.
func NewScheduleRepository(db *sql.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

// --- Shift Methods ---

func (r *scheduleRepository) CreateShift(executor SQLExecutor, shift *models.Shift) (*models.Shift, error) {
	query := `INSERT INTO shifts (business_id, staff_id, shift_date, start_time, end_time, shift_type, status, location_id, notes, pattern_id, is_override, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	shift.CreatedAt = currentTime
	shift.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		shift.BusinessID, shift.StaffID, shift.Date, shift.StartTime, shift.EndTime,
		shift.ShiftType, shift.Status, shift.LocationID, shift.Notes,
		shift.PatternID, shift.IsOverride, shift.CreatedAt, shift.UpdatedAt,
	).Scan(&shift.ID, &shift.CreatedAt, &shift.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: creating shift (staff_id %d likely not found, constraint: %s): %v", ErrNotFound, shift.StaffID, pqErr.Constraint, err)
		}
		return nil, fmt.Errorf("%w: creating shift: %v", ErrDatabaseError, err)
	}
	return shift, nil
}

// scanShiftRow scans a shift row joined with the staff member's user name.
func scanShiftRow(row scanner) (*models.Shift, error) {
	shift := &models.Shift{}
	var shiftDate time.Time
	var staffName sql.NullString

	err := row.Scan(
		&shift.ID, &shift.BusinessID, &shift.StaffID, &shiftDate,
		&shift.StartTime, &shift.EndTime, &shift.ShiftType, &shift.Status,
		&shift.LocationID, &shift.Notes, &shift.PatternID, &shift.IsOverride,
		&shift.CreatedAt, &shift.UpdatedAt, &staffName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning shift: %v", ErrDatabaseError, err)
	}
	shift.Date = shiftDate.Format(models.DateFormat)
	if staffName.Valid {
		shift.StaffName = staffName.String
	}
	return shift, nil
}

const shiftSelectColumns = `s.id, s.business_id, s.staff_id, s.shift_date, s.start_time, s.end_time,
	    s.shift_type, s.status, s.location_id, s.notes, s.pattern_id, s.is_override,
	    s.created_at, s.updated_at,
	    COALESCE(u.full_name, '') as staff_name`

const shiftJoinClause = ` FROM shifts s
	  JOIN staff_members sm ON s.staff_id = sm.id
	  LEFT JOIN users u ON sm.user_id = u.id`

func (r *scheduleRepository) GetShiftByID(businessID, id int64) (*models.Shift, error) {
	query := `SELECT ` + shiftSelectColumns + shiftJoinClause + ` WHERE s.id = $1 AND s.business_id = $2`
	return scanShiftRow(r.db.QueryRow(query, id, businessID))
}

// GetShiftsInRange returns non-cancelled shifts in the closed date range of
// the filters, optionally narrowed to one staff member and/or location,
// ordered by date then start time.
func (r *scheduleRepository) GetShiftsInRange(filters models.OccurrenceFilters) ([]models.Shift, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + shiftSelectColumns + shiftJoinClause)

	conditions := []string{"s.business_id = $1", "s.shift_date >= $2", "s.shift_date <= $3", "s.status <> $4"}
	args := []interface{}{filters.BusinessID, filters.DateFrom, filters.DateTo, models.ShiftStatusCancelled}
	argCount := 5

	if filters.StaffID != nil {
		conditions = append(conditions, fmt.Sprintf("s.staff_id = $%d", argCount))
		args = append(args, *filters.StaffID)
		argCount++
	}
	if filters.LocationID != nil {
		conditions = append(conditions, fmt.Sprintf("s.location_id = $%d", argCount))
		args = append(args, *filters.LocationID)
		argCount++
	}

	queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	queryBuilder.WriteString(" ORDER BY s.shift_date ASC, s.start_time ASC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying shifts in range: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	shifts := []models.Shift{}
	for rows.Next() {
		shift, err := scanShiftRow(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, *shift)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating shift rows: %v", ErrDatabaseError, err)
	}
	return shifts, nil
}

func (r *scheduleRepository) UpdateShift(executor SQLExecutor, shift *models.Shift) (*models.Shift, error) {
	query := `UPDATE shifts SET
	            staff_id = $1, shift_date = $2, start_time = $3, end_time = $4,
	            shift_type = $5, status = $6, location_id = $7, notes = $8, updated_at = $9
	          WHERE id = $10 AND business_id = $11
	          RETURNING updated_at`
	shift.UpdatedAt = time.Now()

	err := executor.QueryRow(query,
		shift.StaffID, shift.Date, shift.StartTime, shift.EndTime,
		shift.ShiftType, shift.Status, shift.LocationID, shift.Notes,
		shift.UpdatedAt, shift.ID, shift.BusinessID,
	).Scan(&shift.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: updating shift (staff_id %d likely not found, constraint: %s): %v", ErrNotFound, shift.StaffID, pqErr.Constraint, err)
		}
		return nil, fmt.Errorf("%w: updating shift ID %d: %v", ErrDatabaseError, shift.ID, err)
	}
	return shift, nil
}

func (r *scheduleRepository) DeleteShift(executor SQLExecutor, businessID, id int64) error {
	query := `DELETE FROM shifts WHERE id = $1 AND business_id = $2`
	result, err := executor.Exec(query, id, businessID)
	if err != nil {
		return fmt.Errorf("%w: deleting shift ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Recurring Pattern Methods ---

func (r *scheduleRepository) CreatePattern(executor SQLExecutor, pattern *models.RecurringShiftPattern) (*models.RecurringShiftPattern, error) {
	query := `INSERT INTO recurring_shift_patterns (business_id, staff_id, location_id, recurrence_rule, start_time, end_time, start_date, end_date, shift_type, notes, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	pattern.CreatedAt = currentTime
	pattern.UpdatedAt = currentTime

	var endDate sql.NullString
	if pattern.EndDate != nil {
		endDate = sql.NullString{String: *pattern.EndDate, Valid: true}
	}

	err := executor.QueryRow(query,
		pattern.BusinessID, pattern.StaffID, pattern.LocationID, pattern.RecurrenceRule,
		pattern.StartTime, pattern.EndTime, pattern.StartDate, endDate,
		pattern.ShiftType, pattern.Notes, pattern.IsActive,
		pattern.CreatedAt, pattern.UpdatedAt,
	).Scan(&pattern.ID, &pattern.CreatedAt, &pattern.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: creating pattern (staff_id %d likely not found, constraint: %s): %v", ErrNotFound, pattern.StaffID, pqErr.Constraint, err)
		}
		return nil, fmt.Errorf("%w: creating recurring shift pattern: %v", ErrDatabaseError, err)
	}
	return pattern, nil
}

// scanPatternRow scans a pattern row joined with the staff member's user name.
func scanPatternRow(row scanner) (*models.RecurringShiftPattern, error) {
	pattern := &models.RecurringShiftPattern{}
	var startDate time.Time
	var endDate sql.NullTime
	var staffName sql.NullString

	err := row.Scan(
		&pattern.ID, &pattern.BusinessID, &pattern.StaffID, &pattern.LocationID,
		&pattern.RecurrenceRule, &pattern.StartTime, &pattern.EndTime,
		&startDate, &endDate, &pattern.ShiftType, &pattern.Notes, &pattern.IsActive,
		&pattern.CreatedAt, &pattern.UpdatedAt, &staffName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning recurring shift pattern: %v", ErrDatabaseError, err)
	}
	pattern.StartDate = startDate.Format(models.DateFormat)
	if endDate.Valid {
		formatted := endDate.Time.Format(models.DateFormat)
		pattern.EndDate = &formatted
	}
	if staffName.Valid {
		pattern.StaffName = staffName.String
	}
	return pattern, nil
}

const patternSelectColumns = `p.id, p.business_id, p.staff_id, p.location_id, p.recurrence_rule,
	    p.start_time, p.end_time, p.start_date, p.end_date, p.shift_type, p.notes, p.is_active,
	    p.created_at, p.updated_at,
	    COALESCE(u.full_name, '') as staff_name`

const patternJoinClause = ` FROM recurring_shift_patterns p
	  JOIN staff_members sm ON p.staff_id = sm.id
	  LEFT JOIN users u ON sm.user_id = u.id`

func (r *scheduleRepository) GetPatternByID(businessID, id int64) (*models.RecurringShiftPattern, error) {
	query := `SELECT ` + patternSelectColumns + patternJoinClause + ` WHERE p.id = $1 AND p.business_id = $2`
	return scanPatternRow(r.db.QueryRow(query, id, businessID))
}

func (r *scheduleRepository) GetPatterns(businessID int64, staffID *int64) ([]models.RecurringShiftPattern, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + patternSelectColumns + patternJoinClause)

	conditions := []string{"p.business_id = $1"}
	args := []interface{}{businessID}
	if staffID != nil {
		conditions = append(conditions, "p.staff_id = $2")
		args = append(args, *staffID)
	}

	queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	queryBuilder.WriteString(" ORDER BY p.staff_id ASC, p.start_date ASC")

	return r.queryPatterns(queryBuilder.String(), args...)
}

// GetActivePatternsInRange returns active patterns whose validity window
// intersects the filters' date range. The expander does the precise clipping;
// this query only excludes patterns that cannot fire in the range at all.
func (r *scheduleRepository) GetActivePatternsInRange(filters models.OccurrenceFilters) ([]models.RecurringShiftPattern, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + patternSelectColumns + patternJoinClause)

	conditions := []string{
		"p.business_id = $1",
		"p.is_active = TRUE",
		"p.start_date <= $2",
		"(p.end_date IS NULL OR p.end_date >= $3)",
	}
	args := []interface{}{filters.BusinessID, filters.DateTo, filters.DateFrom}
	argCount := 4

	if filters.StaffID != nil {
		conditions = append(conditions, fmt.Sprintf("p.staff_id = $%d", argCount))
		args = append(args, *filters.StaffID)
		argCount++
	}
	if filters.LocationID != nil {
		conditions = append(conditions, fmt.Sprintf("p.location_id = $%d", argCount))
		args = append(args, *filters.LocationID)
		argCount++
	}

	queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	queryBuilder.WriteString(" ORDER BY p.id ASC")

	return r.queryPatterns(queryBuilder.String(), args...)
}

func (r *scheduleRepository) queryPatterns(query string, args ...interface{}) ([]models.RecurringShiftPattern, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying recurring shift patterns: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	patterns := []models.RecurringShiftPattern{}
	for rows.Next() {
		pattern, err := scanPatternRow(rows)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, *pattern)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating pattern rows: %v", ErrDatabaseError, err)
	}
	return patterns, nil
}

func (r *scheduleRepository) UpdatePattern(executor SQLExecutor, pattern *models.RecurringShiftPattern) (*models.RecurringShiftPattern, error) {
	query := `UPDATE recurring_shift_patterns SET
	            location_id = $1, recurrence_rule = $2, start_time = $3, end_time = $4,
	            start_date = $5, end_date = $6, shift_type = $7, notes = $8, is_active = $9, updated_at = $10
	          WHERE id = $11 AND business_id = $12
	          RETURNING updated_at`
	pattern.UpdatedAt = time.Now()

	var endDate sql.NullString
	if pattern.EndDate != nil {
		endDate = sql.NullString{String: *pattern.EndDate, Valid: true}
	}

	err := executor.QueryRow(query,
		pattern.LocationID, pattern.RecurrenceRule, pattern.StartTime, pattern.EndTime,
		pattern.StartDate, endDate, pattern.ShiftType, pattern.Notes, pattern.IsActive,
		pattern.UpdatedAt, pattern.ID, pattern.BusinessID,
	).Scan(&pattern.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating pattern ID %d: %v", ErrDatabaseError, pattern.ID, err)
	}
	return pattern, nil
}

// DeletePattern removes the pattern row. Shifts already materialized from the
// pattern keep their pattern_id reference (ON DELETE SET NULL) and are not
// deleted retroactively.
func (r *scheduleRepository) DeletePattern(executor SQLExecutor, businessID, id int64) error {
	query := `DELETE FROM recurring_shift_patterns WHERE id = $1 AND business_id = $2`
	result, err := executor.Exec(query, id, businessID)
	if err != nil {
		return fmt.Errorf("%w: deleting pattern ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
