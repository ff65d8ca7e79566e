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

// TimeOffRepository defines the interface for time-off request database operations.
type TimeOffRepository interface {
	CreateRequest(executor SQLExecutor, req *models.TimeOffRequest) (*models.TimeOffRequest, error)
	GetRequestByID(businessID, id int64) (*models.TimeOffRequest, error)
	GetRequests(businessID int64, staffID *int64, status *models.TimeOffStatus, page, pageSize int) ([]models.TimeOffRequest, int, error)
	GetApprovedInRange(businessID, staffID int64, dateFrom, dateTo string) ([]models.TimeOffRequest, error)
	UpdateRequest(executor SQLExecutor, req *models.TimeOffRequest) (*models.TimeOffRequest, error)
	DeleteRequest(executor SQLExecutor, businessID, id int64) error
}

type timeOffRepository struct {
	db *sql.DB
}

// NewTimeOffRepository creates a new instance of TimeOffRepository.
func NewTimeOffRepository(db *sql.DB) TimeOffRepository {
	return &timeOffRepository{db: db}
}

func (r *timeOffRepository) CreateRequest(executor SQLExecutor, req *models.TimeOffRequest) (*models.TimeOffRequest, error) {
	query := `INSERT INTO time_off_requests (business_id, staff_id, start_date, end_date, all_day, start_time, end_time, status, reason, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	req.CreatedAt = currentTime
	req.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		req.BusinessID, req.StaffID, req.StartDate, req.EndDate, req.AllDay,
		req.StartTime, req.EndTime, req.Status, req.Reason,
		req.CreatedAt, req.UpdatedAt,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: creating time-off request (staff_id %d likely not found, constraint: %s): %v", ErrNotFound, req.StaffID, pqErr.Constraint, err)
		}
		return nil, fmt.Errorf("%w: creating time-off request: %v", ErrDatabaseError, err)
	}
	return req, nil
}

const timeOffSelectColumns = `t.id, t.business_id, t.staff_id, t.start_date, t.end_date, t.all_day,
	    t.start_time, t.end_time, t.status, t.reason, t.created_at, t.updated_at,
	    COALESCE(u.full_name, '') as staff_name`

const timeOffJoinClause = ` FROM time_off_requests t
	  JOIN staff_members sm ON t.staff_id = sm.id
	  LEFT JOIN users u ON sm.user_id = u.id`

// scanTimeOffRow scans a time-off request row joined with the staff member's user name.
func scanTimeOffRow(row scanner, extraDest ...interface{}) (*models.TimeOffRequest, error) {
	req := &models.TimeOffRequest{}
	var startDate, endDate time.Time
	var staffName sql.NullString

	dest := []interface{}{
		&req.ID, &req.BusinessID, &req.StaffID, &startDate, &endDate, &req.AllDay,
		&req.StartTime, &req.EndTime, &req.Status, &req.Reason,
		&req.CreatedAt, &req.UpdatedAt, &staffName,
	}
	dest = append(dest, extraDest...)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning time-off request: %v", ErrDatabaseError, err)
	}
	req.StartDate = startDate.Format(models.DateFormat)
	req.EndDate = endDate.Format(models.DateFormat)
	if staffName.Valid {
		req.StaffName = staffName.String
	}
	return req, nil
}

func (r *timeOffRepository) GetRequestByID(businessID, id int64) (*models.TimeOffRequest, error) {
	query := `SELECT ` + timeOffSelectColumns + timeOffJoinClause + ` WHERE t.id = $1 AND t.business_id = $2`
	return scanTimeOffRow(r.db.QueryRow(query, id, businessID))
}

func (r *timeOffRepository) GetRequests(businessID int64, staffID *int64, status *models.TimeOffStatus, page, pageSize int) ([]models.TimeOffRequest, int, error) {
	requests := []models.TimeOffRequest{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + timeOffSelectColumns + `, COUNT(*) OVER() as total_count` + timeOffJoinClause)

	conditions := []string{"t.business_id = $1"}
	args := []interface{}{businessID}
	argCount := 2

	if staffID != nil {
		conditions = append(conditions, fmt.Sprintf("t.staff_id = $%d", argCount))
		args = append(args, *staffID)
		argCount++
	}
	if status != nil {
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", argCount))
		args = append(args, *status)
		argCount++
	}

	queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	queryBuilder.WriteString(" ORDER BY t.start_date DESC")

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
		return nil, 0, fmt.Errorf("%w: querying time-off requests: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var currentTotalCount int
		req, err := scanTimeOffRow(rows, &currentTotalCount)
		if err != nil {
			return nil, 0, err
		}
		totalCount = currentTotalCount
		requests = append(requests, *req)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating time-off request rows: %v", ErrDatabaseError, err)
	}
	return requests, totalCount, nil
}

// GetApprovedInRange returns approved requests for the staff member whose
// date range intersects [dateFrom, dateTo]. Only approved requests
// participate in availability aggregation.
func (r *timeOffRepository) GetApprovedInRange(businessID, staffID int64, dateFrom, dateTo string) ([]models.TimeOffRequest, error) {
	query := `SELECT ` + timeOffSelectColumns + timeOffJoinClause + `
	          WHERE t.business_id = $1 AND t.staff_id = $2 AND t.status = $3
	            AND t.start_date <= $4 AND t.end_date >= $5
	          ORDER BY t.start_date ASC`

	rows, err := r.db.Query(query, businessID, staffID, models.TimeOffStatusApproved, dateTo, dateFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: querying approved time-off in range: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	requests := []models.TimeOffRequest{}
	for rows.Next() {
		req, err := scanTimeOffRow(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating approved time-off rows: %v", ErrDatabaseError, err)
	}
	return requests, nil
}

func (r *timeOffRepository) UpdateRequest(executor SQLExecutor, req *models.TimeOffRequest) (*models.TimeOffRequest, error) {
	query := `UPDATE time_off_requests SET
	            start_date = $1, end_date = $2, all_day = $3, start_time = $4, end_time = $5,
	            status = $6, reason = $7, updated_at = $8
	          WHERE id = $9 AND business_id = $10
	          RETURNING updated_at`
	req.UpdatedAt = time.Now()

	err := executor.QueryRow(query,
		req.StartDate, req.EndDate, req.AllDay, req.StartTime, req.EndTime,
		req.Status, req.Reason, req.UpdatedAt, req.ID, req.BusinessID,
	).Scan(&req.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating time-off request ID %d: %v", ErrDatabaseError, req.ID, err)
	}
	return req, nil
}

func (r *timeOffRepository) DeleteRequest(executor SQLExecutor, businessID, id int64) error {
	query := `DELETE FROM time_off_requests WHERE id = $1 AND business_id = $2`
	result, err := executor.Exec(query, id, businessID)
	if err != nil {
		return fmt.Errorf("%w: deleting time-off request ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
