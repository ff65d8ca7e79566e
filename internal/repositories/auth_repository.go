package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stylemate_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// AuthRepository defines the interface for authentication-related database operations.
type AuthRepository interface {
	CreateUser(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error)
	FindUserByUsername(username string) (*models.User, string, error) // Returns User, HashedPassword, Error
	FindUserByID(userID int64) (*models.User, error)
	FindRoleByName(name string) (*models.Role, error)
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

// CreateUser inserts a new user into the database.
// It expects an SQLExecutor which can be a *sql.DB or *sql.Tx.
// IsActive is set to true by default. CreatedAt and UpdatedAt are set to the current time.
func (r *authRepository) CreateUser(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	query := `INSERT INTO users (business_id, username, password_hash, email, full_name, role_id, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	currentTime := time.Now()
	isActive := true

	var roleID sql.NullInt64
	if user.RoleID != nil {
		roleID = sql.NullInt64{Int64: *user.RoleID, Valid: true}
	}

	var userID int64
	err := executor.QueryRow(
		query,
		user.BusinessID,
		user.Username,
		hashedPassword,
		user.Email,    // Can be nil
		user.FullName, // Can be nil
		roleID,
		isActive,
		currentTime,
		currentTime,
	).Scan(&userID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return userID, nil
}

const userSelectQuery = `
	SELECT u.id, u.business_id, u.username, u.password_hash, u.email, u.full_name, u.role_id, u.is_active, u.created_at, u.updated_at,
	       COALESCE(ro.name, '') as role_name
	FROM users u
	LEFT JOIN roles ro ON u.role_id = ro.id`

// FindUserByUsername retrieves a user by their username.
// It returns the user model, their hashed password, and an error if any.
func (r *authRepository) FindUserByUsername(username string) (*models.User, string, error) {
	user := &models.User{}
	var hashedPassword string
	var roleName sql.NullString
	var roleID sql.NullInt64

	err := r.db.QueryRow(userSelectQuery+` WHERE u.username = $1`, username).Scan(
		&user.ID, &user.BusinessID, &user.Username, &hashedPassword, &user.Email, &user.FullName,
		&roleID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
		&roleName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: finding user by username %s: %v", ErrDatabaseError, username, err)
	}

	if roleID.Valid {
		user.RoleID = &roleID.Int64
		if roleName.Valid && roleName.String != "" {
			user.Role = &models.Role{ID: *user.RoleID, Name: roleName.String}
		}
	}
	return user, hashedPassword, nil
}

// FindUserByID retrieves a user by their ID.
func (r *authRepository) FindUserByID(userID int64) (*models.User, error) {
	user := &models.User{}
	var roleName sql.NullString
	var roleID sql.NullInt64
	var passwordHash string // Scanned but not exposed; this method serves profile lookups.

	err := r.db.QueryRow(userSelectQuery+` WHERE u.id = $1`, userID).Scan(
		&user.ID, &user.BusinessID, &user.Username, &passwordHash, &user.Email, &user.FullName,
		&roleID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
		&roleName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding user by ID %d: %v", ErrDatabaseError, userID, err)
	}

	if roleID.Valid {
		user.RoleID = &roleID.Int64
		if roleName.Valid && roleName.String != "" {
			user.Role = &models.Role{ID: *user.RoleID, Name: roleName.String}
		}
	}
	return user, nil
}

// FindRoleByName retrieves a role by its unique name.
func (r *authRepository) FindRoleByName(name string) (*models.Role, error) {
	role := &models.Role{}
	query := `SELECT id, name, description, created_at, updated_at FROM roles WHERE name = $1`

	err := r.db.QueryRow(query, name).Scan(
		&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding role %q: %v", ErrDatabaseError, name, err)
	}
	return role, nil
}
