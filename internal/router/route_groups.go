package router

import (
	"stylemate_backend/internal/handlers"
	"stylemate_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupStaffRoutes sets up the staff routes.
// Note: RoleAuthMiddleware is applied specifically for write and read operations.
func SetupStaffRoutes(authenticatedGroup *gin.RouterGroup, staffHandler *handlers.StaffHandler, scheduleHandler *handlers.ScheduleHandler) {
	staffWriteRoutes := authenticatedGroup.Group("/staff")
	staffWriteRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager")) // Managers run the roster
	{
		staffWriteRoutes.POST("", staffHandler.CreateStaffMember)
		staffWriteRoutes.PUT("/:id", staffHandler.UpdateStaffMember)
		staffWriteRoutes.DELETE("/:id", staffHandler.DeleteStaffMember)

		staffWriteRoutes.POST("/:id/locations", staffHandler.AssignLocation)
		staffWriteRoutes.DELETE("/:id/locations/:locationId", staffHandler.RemoveLocation)
		staffWriteRoutes.PUT("/:id/primary-location", staffHandler.SetPrimaryLocation)
	}

	// GET routes are open to all staff roles
	authenticatedGroup.GET("/staff", middleware.RoleAuthMiddleware("Admin", "Manager", "Staff"), staffHandler.GetStaffMembers)
	authenticatedGroup.GET("/staff/:id", middleware.RoleAuthMiddleware("Admin", "Manager", "Staff"), staffHandler.GetStaffMemberByID)
	authenticatedGroup.GET("/staff/:id/availability", middleware.RoleAuthMiddleware("Admin", "Manager", "Staff"), scheduleHandler.GetStaffAvailability)
}

// SetupLocationRoutes sets up the location routes.
func SetupLocationRoutes(authenticatedGroup *gin.RouterGroup, locationHandler *handlers.LocationHandler) {
	locationWriteRoutes := authenticatedGroup.Group("/locations")
	locationWriteRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager"))
	{
		locationWriteRoutes.POST("", locationHandler.CreateLocation)
		locationWriteRoutes.PUT("/:id", locationHandler.UpdateLocation)
		locationWriteRoutes.DELETE("/:id", locationHandler.DeleteLocation)
	}

	authenticatedGroup.GET("/locations", middleware.RoleAuthMiddleware("Admin", "Manager", "Staff"), locationHandler.GetLocations)
	authenticatedGroup.GET("/locations/:id", middleware.RoleAuthMiddleware("Admin", "Manager", "Staff"), locationHandler.GetLocationByID)
}

// SetupShiftRoutes sets up the shift routes, including bulk creation, the
// conflict preview, and the merged occurrence view.
func SetupShiftRoutes(authenticatedGroup *gin.RouterGroup, scheduleHandler *handlers.ScheduleHandler) {
	shiftReadRoutes := authenticatedGroup.Group("/shifts")
	shiftReadRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager", "Staff"))
	{
		shiftReadRoutes.GET("/occurrences", scheduleHandler.GetShiftOccurrences)
		shiftReadRoutes.GET("/:id", scheduleHandler.GetShiftByID)
	}

	shiftWriteRoutes := authenticatedGroup.Group("/shifts")
	shiftWriteRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager"))
	{
		shiftWriteRoutes.POST("", scheduleHandler.CreateShift)
		shiftWriteRoutes.POST("/bulk", scheduleHandler.BulkCreateShifts)
		shiftWriteRoutes.POST("/conflicts", scheduleHandler.CheckShiftConflicts)
		shiftWriteRoutes.PUT("/:id", scheduleHandler.UpdateShift)
		shiftWriteRoutes.DELETE("/:id", scheduleHandler.DeleteShift)
	}
}

// SetupShiftPatternRoutes sets up the recurring shift pattern routes.
func SetupShiftPatternRoutes(authenticatedGroup *gin.RouterGroup, scheduleHandler *handlers.ScheduleHandler) {
	patternRoutes := authenticatedGroup.Group("/shift-patterns")
	patternRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager"))
	{
		patternRoutes.POST("", scheduleHandler.CreatePattern)
		patternRoutes.GET("", scheduleHandler.GetPatterns)
		patternRoutes.GET("/:id", scheduleHandler.GetPatternByID)
		patternRoutes.PUT("/:id", scheduleHandler.UpdatePattern)
		patternRoutes.PATCH("/:id/deactivate", scheduleHandler.DeactivatePattern)
		patternRoutes.DELETE("/:id", scheduleHandler.DeletePattern)
		patternRoutes.POST("/:id/materialize", scheduleHandler.MaterializePatternDay)
	}
}

// SetupTimeOffRoutes sets up the time-off request routes.
// Creation and cancellation are open to staff; approval and denial are not.
func SetupTimeOffRoutes(authenticatedGroup *gin.RouterGroup, timeOffHandler *handlers.TimeOffHandler) {
	timeOffRoutes := authenticatedGroup.Group("/time-off")
	timeOffRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager", "Staff"))
	{
		timeOffRoutes.POST("", timeOffHandler.CreateRequest)
		timeOffRoutes.GET("", timeOffHandler.GetRequests)
		timeOffRoutes.GET("/:id", timeOffHandler.GetRequestByID)
		timeOffRoutes.PUT("/:id", timeOffHandler.UpdateRequest)
		timeOffRoutes.PATCH("/:id/cancel", timeOffHandler.CancelRequest)
	}

	timeOffDecisionRoutes := authenticatedGroup.Group("/time-off")
	timeOffDecisionRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager"))
	{
		timeOffDecisionRoutes.PATCH("/:id/approve", timeOffHandler.ApproveRequest)
		timeOffDecisionRoutes.PATCH("/:id/deny", timeOffHandler.DenyRequest)
		timeOffDecisionRoutes.DELETE("/:id", timeOffHandler.DeleteRequest)
	}
}
