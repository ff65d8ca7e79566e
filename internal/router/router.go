package router

import (
	"database/sql"
	"time" // For JWT expiration

	"stylemate_backend/internal/handlers"
	"stylemate_backend/internal/middleware"
	"stylemate_backend/internal/repositories"
	"stylemate_backend/internal/services"
	"stylemate_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	staffRepo := repositories.NewStaffRepository(db)
	locationRepo := repositories.NewLocationRepository(db)
	scheduleRepo := repositories.NewScheduleRepository(db)
	timeOffRepo := repositories.NewTimeOffRepository(db)

	// Initialize Services
	jwtSecret := utils.Getenv("JWT_SECRET_KEY", "stylemate-dev-only-jwt-secret")
	jwtExpiration := time.Hour * 72

	authService := services.NewAuthService(authRepo, db, jwtSecret, jwtExpiration)
	staffService := services.NewStaffService(staffRepo, locationRepo, authRepo, db)
	locationService := services.NewLocationService(locationRepo, db)
	scheduleService := services.NewScheduleService(scheduleRepo, timeOffRepo, staffRepo, db)
	timeOffService := services.NewTimeOffService(timeOffRepo, scheduleRepo, staffRepo, db)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	staffHandler := handlers.NewStaffHandler(staffService)
	locationHandler := handlers.NewLocationHandler(locationService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	timeOffHandler := handlers.NewTimeOffHandler(timeOffService)

	apiV1 := engine.Group("/api/v1")

	// Public authentication routes
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	// Authenticated routes
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)

		SetupStaffRoutes(authenticated, staffHandler, scheduleHandler)
		SetupLocationRoutes(authenticated, locationHandler)
		SetupShiftRoutes(authenticated, scheduleHandler)
		SetupShiftPatternRoutes(authenticated, scheduleHandler)
		SetupTimeOffRoutes(authenticated, timeOffHandler)
	}
}

// SetupPublicAuthRoutes registers auth endpoints that do not require a token.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/register", authHandler.RegisterUser)
	group.POST("/login", authHandler.LoginUser)
	group.POST("/refresh-token", authHandler.RefreshToken)
}

// SetupAuthenticatedAuthRoutes registers auth endpoints behind the JWT middleware.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/logout", authHandler.LogoutUser)
	group.GET("/me", authHandler.GetCurrentUser)
}
