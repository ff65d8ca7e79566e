package handlers

import (
	"errors"
	"net/http"

	"stylemate_backend/internal/models"
	"stylemate_backend/internal/services"
	"stylemate_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler holds the schedule service.
type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(ss services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: ss}
}

// respondScheduleError maps scheduling service errors onto API responses.
// Conflict blocks carry the conflict list so the client can render it.
func respondScheduleError(c *gin.Context, err error, conflicts []models.ShiftConflict, action string) {
	utils.LogError(err, action)
	switch {
	case errors.Is(err, services.ErrShiftConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":     gin.H{"code": utils.ErrCodeConflict, "message": "Shift conflicts with the existing schedule."},
			"conflicts": conflicts,
		})
	case errors.Is(err, services.ErrShiftNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Shift not found.", err.Error()))
	case errors.Is(err, services.ErrPatternNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Recurring shift pattern not found.", err.Error()))
	case errors.Is(err, services.ErrShiftCompleted):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Completed shifts cannot be modified or deleted.", err.Error()))
	case errors.Is(err, services.ErrStaffNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Staff member not found.", err.Error()))
	case errors.Is(err, services.ErrShiftValidation),
		errors.Is(err, services.ErrPatternValidation),
		errors.Is(err, services.ErrDateFormat),
		errors.Is(err, services.ErrTimeOfDayFormat),
		errors.Is(err, services.ErrDateRangeInverted),
		errors.Is(err, services.ErrDateRangeTooWide):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Scheduling operation failed.", "Internal error"))
	}
}

// --- Shift Handler Methods ---

// CreateShift handles the creation of a new shift.
func (h *ScheduleHandler) CreateShift(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	var req services.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateShift: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	shift, conflicts, err := h.scheduleService.CreateShift(businessID, req)
	if err != nil {
		respondScheduleError(c, err, conflicts, "CreateShift: Error from scheduleService.CreateShift")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"shift": shift, "conflicts": conflicts})
}

// BulkCreateShifts handles creating several shifts in one request.
func (h *ScheduleHandler) BulkCreateShifts(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	var req services.BulkCreateShiftsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "BulkCreateShifts: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	shifts, conflicts, err := h.scheduleService.BulkCreateShifts(businessID, req)
	if err != nil {
		respondScheduleError(c, err, conflicts, "BulkCreateShifts: Error from scheduleService.BulkCreateShifts")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"shifts": shifts, "conflicts": conflicts})
}

// GetShiftByID handles fetching a single shift by ID.
func (h *ScheduleHandler) GetShiftByID(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	shiftID, ok := idParam(c, "id")
	if !ok {
		return
	}

	shift, err := h.scheduleService.GetShiftByID(businessID, shiftID)
	if err != nil {
		respondScheduleError(c, err, nil, "GetShiftByID: Error from scheduleService.GetShiftByID")
		return
	}
	c.JSON(http.StatusOK, shift)
}

// UpdateShift handles updating a shift.
func (h *ScheduleHandler) UpdateShift(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	shiftID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateShift: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	shift, conflicts, err := h.scheduleService.UpdateShift(businessID, shiftID, req)
	if err != nil {
		respondScheduleError(c, err, conflicts, "UpdateShift: Error from scheduleService.UpdateShift")
		return
	}
	c.JSON(http.StatusOK, gin.H{"shift": shift, "conflicts": conflicts})
}

// DeleteShift handles deleting a shift.
func (h *ScheduleHandler) DeleteShift(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	shiftID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.scheduleService.DeleteShift(businessID, shiftID); err != nil {
		respondScheduleError(c, err, nil, "DeleteShift: Error from scheduleService.DeleteShift")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shift deleted successfully"})
}

// CheckShiftConflicts handles the read-only conflict preview.
func (h *ScheduleHandler) CheckShiftConflicts(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	var req services.CheckConflictsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CheckShiftConflicts: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	conflicts, err := h.scheduleService.CheckShiftConflicts(businessID, req)
	if err != nil {
		respondScheduleError(c, err, nil, "CheckShiftConflicts: Error from scheduleService.CheckShiftConflicts")
		return
	}
	if conflicts == nil {
		conflicts = []models.ShiftConflict{}
	}
	c.JSON(http.StatusOK, gin.H{"conflicts": conflicts})
}

// GetShiftOccurrences handles the merged calendar view of persisted shifts
// and recurring pattern instances.
func (h *ScheduleHandler) GetShiftOccurrences(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	staffID, ok := optionalInt64Query(c, "staff_id")
	if !ok {
		return
	}
	locationID, ok := optionalInt64Query(c, "location_id")
	if !ok {
		return
	}

	occurrences, err := h.scheduleService.GetShiftOccurrences(models.OccurrenceFilters{
		BusinessID: businessID,
		StaffID:    staffID,
		LocationID: locationID,
		DateFrom:   c.Query("date_from"),
		DateTo:     c.Query("date_to"),
	})
	if err != nil {
		respondScheduleError(c, err, nil, "GetShiftOccurrences: Error from scheduleService.GetShiftOccurrences")
		return
	}
	if occurrences == nil {
		occurrences = []models.ShiftOccurrence{}
	}
	c.JSON(http.StatusOK, gin.H{"data": occurrences})
}

// GetStaffAvailability handles the per-staff availability feed.
func (h *ScheduleHandler) GetStaffAvailability(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	staffID, ok := idParam(c, "id")
	if !ok {
		return
	}

	slots, err := h.scheduleService.GetStaffAvailability(businessID, staffID, c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		respondScheduleError(c, err, nil, "GetStaffAvailability: Error from scheduleService.GetStaffAvailability")
		return
	}
	if slots == nil {
		slots = []models.AvailabilitySlot{}
	}
	c.JSON(http.StatusOK, gin.H{"data": slots})
}

// --- Recurring Pattern Handler Methods ---

// CreatePattern handles the creation of a recurring shift pattern.
func (h *ScheduleHandler) CreatePattern(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	var req services.CreatePatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreatePattern: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	pattern, err := h.scheduleService.CreatePattern(businessID, req)
	if err != nil {
		respondScheduleError(c, err, nil, "CreatePattern: Error from scheduleService.CreatePattern")
		return
	}
	c.JSON(http.StatusCreated, pattern)
}

// GetPatterns handles listing recurring shift patterns.
func (h *ScheduleHandler) GetPatterns(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	staffID, ok := optionalInt64Query(c, "staff_id")
	if !ok {
		return
	}

	patterns, err := h.scheduleService.GetPatterns(businessID, staffID)
	if err != nil {
		respondScheduleError(c, err, nil, "GetPatterns: Error from scheduleService.GetPatterns")
		return
	}
	if patterns == nil {
		patterns = []models.RecurringShiftPattern{}
	}
	c.JSON(http.StatusOK, gin.H{"data": patterns})
}

// GetPatternByID handles fetching a single pattern by ID.
func (h *ScheduleHandler) GetPatternByID(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	patternID, ok := idParam(c, "id")
	if !ok {
		return
	}

	pattern, err := h.scheduleService.GetPatternByID(businessID, patternID)
	if err != nil {
		respondScheduleError(c, err, nil, "GetPatternByID: Error from scheduleService.GetPatternByID")
		return
	}
	c.JSON(http.StatusOK, pattern)
}

// UpdatePattern handles updating a recurring shift pattern.
func (h *ScheduleHandler) UpdatePattern(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	patternID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdatePatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdatePattern: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	pattern, err := h.scheduleService.UpdatePattern(businessID, patternID, req)
	if err != nil {
		respondScheduleError(c, err, nil, "UpdatePattern: Error from scheduleService.UpdatePattern")
		return
	}
	c.JSON(http.StatusOK, pattern)
}

// DeactivatePattern handles switching a pattern off without deleting it.
func (h *ScheduleHandler) DeactivatePattern(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	patternID, ok := idParam(c, "id")
	if !ok {
		return
	}

	pattern, err := h.scheduleService.DeactivatePattern(businessID, patternID)
	if err != nil {
		respondScheduleError(c, err, nil, "DeactivatePattern: Error from scheduleService.DeactivatePattern")
		return
	}
	c.JSON(http.StatusOK, pattern)
}

// DeletePattern handles deleting a recurring shift pattern.
func (h *ScheduleHandler) DeletePattern(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	patternID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.scheduleService.DeletePattern(businessID, patternID); err != nil {
		respondScheduleError(c, err, nil, "DeletePattern: Error from scheduleService.DeletePattern")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recurring shift pattern deleted successfully"})
}

// MaterializePatternDay handles creating an override shift for one pattern day.
func (h *ScheduleHandler) MaterializePatternDay(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	patternID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.MaterializePatternDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "MaterializePatternDay: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	shift, conflicts, err := h.scheduleService.MaterializePatternDay(businessID, patternID, req)
	if err != nil {
		respondScheduleError(c, err, conflicts, "MaterializePatternDay: Error from scheduleService.MaterializePatternDay")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"shift": shift, "conflicts": conflicts})
}
