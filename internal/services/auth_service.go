package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"stylemate_backend/internal/models"
	"stylemate_backend/internal/repositories"
	"stylemate_backend/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrRoleNotFound       = errors.New("specified role not found")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// --- Data Transfer Objects (DTOs) ---

// LoginRequest DTO
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterUserRequest DTO
type RegisterUserRequest struct {
	BusinessID int64  `json:"business_id" binding:"required"`
	Username   string `json:"username" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	FullName   string `json:"full_name" binding:"required"`
	RoleName   string `json:"role_name"` // e.g., "Admin", "Manager", "Staff". Default if empty.
}

// AuthResponse DTO
type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
}

// --- AuthService Interface ---
type AuthService interface {
	RegisterUser(req RegisterUserRequest) (*models.User, error)
	LoginUser(req LoginRequest) (*AuthResponse, error)
	GetUserProfile(userID int64) (*models.User, error)
}

// defaultRoleName is assigned when registration does not name a role.
const defaultRoleName = "staff"

type authService struct {
	authRepo      repositories.AuthRepository
	db            *sql.DB // Used as SQLExecutor for single repo calls, or for managing transactions
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(authRepo repositories.AuthRepository, db *sql.DB, jwtSecret string, jwtExp time.Duration) AuthService {
	return &authService{
		authRepo:      authRepo,
		db:            db,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExp,
	}
}

// generateJWT creates a new JWT token for a given user. The business claim
// scopes every subsequent request to the user's business.
func (s *authService) generateJWT(user *models.User) (string, error) {
	roleName := "default"
	if user.Role != nil && user.Role.Name != "" {
		roleName = user.Role.Name
	}

	claims := jwt.MapClaims{
		"user_id":     user.ID,
		"business_id": user.BusinessID,
		"username":    user.Username,
		"role":        roleName,
		"exp":         time.Now().Add(s.jwtExpiration).Unix(),
		"iat":         time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return signedToken, nil
}

// RegisterUser handles the business logic for user registration.
func (s *authService) RegisterUser(req RegisterUserRequest) (*models.User, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hashedPassword := string(hashedPasswordBytes)

	roleName := strings.ToLower(strings.TrimSpace(req.RoleName))
	if roleName == "" {
		roleName = defaultRoleName
	}
	role, err := s.authRepo.FindRoleByName(roleName)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrRoleNotFound, req.RoleName)
		}
		return nil, fmt.Errorf("failed to resolve role for registration: %w", err)
	}

	user := models.User{
		BusinessID: req.BusinessID,
		Username:   req.Username,
		Email:      &req.Email,
		FullName:   &req.FullName,
		RoleID:     &role.ID,
	}

	createdUserID, err := s.authRepo.CreateUser(s.db, &user, hashedPassword)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			// The repository error carries the constraint name.
			if strings.Contains(err.Error(), "users_username_key") {
				return nil, ErrUsernameExists
			} else if strings.Contains(err.Error(), "users_email_key") {
				return nil, ErrEmailExists
			}
			return nil, fmt.Errorf("%w: %s", ErrUsernameExists, "username or email already taken")
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	// Fetch the user again to get DB-set fields (timestamps) and the role name.
	registeredUser, fetchErr := s.authRepo.FindUserByID(createdUserID)
	if fetchErr != nil {
		user.ID = createdUserID
		user.PasswordHash = ""
		return &user, fmt.Errorf("user registered but failed to retrieve full details: %w", fetchErr)
	}
	registeredUser.PasswordHash = ""
	return registeredUser, nil
}

// LoginUser handles user login and token generation.
func (s *authService) LoginUser(req LoginRequest) (*AuthResponse, error) {
	user, storedHashedPassword, err := s.authRepo.FindUserByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHashedPassword), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	user.PasswordHash = ""
	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GetUserProfile retrieves a user's profile by their ID.
func (s *authService) GetUserProfile(userID int64) (*models.User, error) {
	user, err := s.authRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user profile: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}
