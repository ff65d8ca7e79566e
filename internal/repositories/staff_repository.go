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

// StaffRepository defines the interface for staff member database operations.
// Shift persistence lives in ScheduleRepository.
type StaffRepository interface {
	CreateStaffMember(executor SQLExecutor, staff *models.StaffMember) (*models.StaffMember, error)
	GetStaffMemberByID(businessID, id int64) (*models.StaffMember, error)
	GetStaffMemberByUserID(userID int64) (*models.StaffMember, error)
	GetStaffMembers(businessID int64, page, pageSize int, searchTerm *string, activeOnly bool) ([]models.StaffMember, int, error)
	UpdateStaffMember(executor SQLExecutor, staff *models.StaffMember) (*models.StaffMember, error)
	DeleteStaffMember(executor SQLExecutor, businessID, id int64) error
}

type staffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates a new instance of StaffRepository.
func NewStaffRepository(db *sql.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) CreateStaffMember(executor SQLExecutor, staff *models.StaffMember) (*models.StaffMember, error) {
	query := `INSERT INTO staff_members (business_id, user_id, phone_number, hire_date, position, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	staff.CreatedAt = currentTime
	staff.UpdatedAt = currentTime

	var hireDate sql.NullString
	if staff.HireDate != nil {
		hireDate = sql.NullString{String: *staff.HireDate, Valid: true}
	}

	err := executor.QueryRow(query,
		staff.BusinessID, staff.UserID, staff.PhoneNumber, hireDate,
		staff.Position, staff.IsActive, staff.CreatedAt, staff.UpdatedAt,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == "staff_members_user_id_key" {
				return nil, fmt.Errorf("%w: user_id %d is already associated with another staff member", ErrDuplicateKey, *staff.UserID)
			}
			if pqErr.Code.Name() == "foreign_key_violation" && pqErr.Constraint == "staff_members_user_id_fkey" {
				return nil, fmt.Errorf("%w: user with ID %d not found", ErrNotFound, *staff.UserID)
			}
		}
		return nil, fmt.Errorf("%w: creating staff member: %v", ErrDatabaseError, err)
	}
	return staff, nil
}

// scanStaffMemberRow scans a single row into a StaffMember.
// It expects the query to join the users and roles tables.
func scanStaffMemberRow(row scanner, extraDest ...interface{}) (*models.StaffMember, error) {
	var staff models.StaffMember
	var user models.User
	var role models.Role
	var hireDate sql.NullString
	var userEmail, userFullName, roleName sql.NullString
	var userID, userRoleID sql.NullInt64
	var userIsActive sql.NullBool
	var userCreatedAt, userUpdatedAt sql.NullTime

	dest := []interface{}{
		&staff.ID, &staff.BusinessID, &staff.UserID, &staff.PhoneNumber, &hireDate,
		&staff.Position, &staff.IsActive, &staff.CreatedAt, &staff.UpdatedAt,
		&userID, &user.Username, &userEmail, &userFullName, &userRoleID, &userIsActive,
		&userCreatedAt, &userUpdatedAt, &roleName,
	}
	dest = append(dest, extraDest...)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning staff member with user details: %v", ErrDatabaseError, err)
	}

	if hireDate.Valid {
		staff.HireDate = &hireDate.String
	}
	if userID.Valid {
		user.ID = userID.Int64
		if userEmail.Valid {
			user.Email = &userEmail.String
		}
		if userFullName.Valid {
			user.FullName = &userFullName.String
		}
		if userIsActive.Valid {
			user.IsActive = userIsActive.Bool
		}
		if userCreatedAt.Valid {
			user.CreatedAt = userCreatedAt.Time
		}
		if userUpdatedAt.Valid {
			user.UpdatedAt = userUpdatedAt.Time
		}
		if userRoleID.Valid {
			user.RoleID = &userRoleID.Int64
			if roleName.Valid && roleName.String != "" {
				role.ID = *user.RoleID
				role.Name = roleName.String
				user.Role = &role
			}
		}
		staff.User = &user
	}
	return &staff, nil
}

const staffSelectColumns = `sm.id, sm.business_id, sm.user_id, sm.phone_number, sm.hire_date,
	    sm.position, sm.is_active, sm.created_at, sm.updated_at,
	    u.id as user_id_fk, u.username, u.email, u.full_name, u.role_id, u.is_active,
	    u.created_at as user_created_at, u.updated_at as user_updated_at,
	    COALESCE(r.name, '') as role_name`

const staffJoinClause = ` FROM staff_members sm
	  LEFT JOIN users u ON sm.user_id = u.id
	  LEFT JOIN roles r ON u.role_id = r.id`

func (r *staffRepository) GetStaffMemberByID(businessID, id int64) (*models.StaffMember, error) {
	query := `SELECT ` + staffSelectColumns + staffJoinClause + ` WHERE sm.id = $1 AND sm.business_id = $2`
	return scanStaffMemberRow(r.db.QueryRow(query, id, businessID))
}

func (r *staffRepository) GetStaffMemberByUserID(userID int64) (*models.StaffMember, error) {
	query := `SELECT ` + staffSelectColumns + staffJoinClause + ` WHERE sm.user_id = $1`
	return scanStaffMemberRow(r.db.QueryRow(query, userID))
}

func (r *staffRepository) GetStaffMembers(businessID int64, page, pageSize int, searchTerm *string, activeOnly bool) ([]models.StaffMember, int, error) {
	staffMembers := []models.StaffMember{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + staffSelectColumns + `, COUNT(*) OVER() as total_count` + staffJoinClause)

	conditions := []string{"sm.business_id = $1"}
	args := []interface{}{businessID}
	argCount := 2

	if searchTerm != nil && *searchTerm != "" {
		searchPattern := "%" + strings.ToLower(*searchTerm) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(u.full_name) ILIKE $%d OR LOWER(u.email) ILIKE $%d OR LOWER(sm.phone_number) ILIKE $%d OR LOWER(sm.position) ILIKE $%d)", argCount, argCount, argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}
	if activeOnly {
		conditions = append(conditions, "sm.is_active = TRUE")
	}

	queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	queryBuilder.WriteString(" ORDER BY u.full_name ASC NULLS LAST, sm.id ASC")

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
		return nil, 0, fmt.Errorf("%w: querying staff members: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var currentTotalCount int
		staff, err := scanStaffMemberRow(rows, &currentTotalCount)
		if err != nil {
			return nil, 0, err
		}
		totalCount = currentTotalCount
		staffMembers = append(staffMembers, *staff)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating staff member rows: %v", ErrDatabaseError, err)
	}
	return staffMembers, totalCount, nil
}

func (r *staffRepository) UpdateStaffMember(executor SQLExecutor, staff *models.StaffMember) (*models.StaffMember, error) {
	query := `UPDATE staff_members SET
	            phone_number = $1, hire_date = $2, position = $3, is_active = $4, updated_at = $5
	          WHERE id = $6 AND business_id = $7
	          RETURNING updated_at`

	staff.UpdatedAt = time.Now()
	var hireDate sql.NullString
	if staff.HireDate != nil {
		hireDate = sql.NullString{String: *staff.HireDate, Valid: true}
	}

	err := executor.QueryRow(query,
		staff.PhoneNumber, hireDate, staff.Position, staff.IsActive,
		staff.UpdatedAt, staff.ID, staff.BusinessID,
	).Scan(&staff.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating staff member ID %d: %v", ErrDatabaseError, staff.ID, err)
	}
	return staff, nil
}

func (r *staffRepository) DeleteStaffMember(executor SQLExecutor, businessID, id int64) error {
	query := `DELETE FROM staff_members WHERE id = $1 AND business_id = $2`
	result, err := executor.Exec(query, id, businessID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: staff member ID %d cannot be deleted as they are referenced in other records (constraint: %s)", ErrDatabaseError, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting staff member ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
