package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"stylemate_backend/internal/models"
	"stylemate_backend/internal/services"
	"stylemate_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TimeOffHandler holds the time-off service.
type TimeOffHandler struct {
	timeOffService services.TimeOffService
}

// NewTimeOffHandler creates a new TimeOffHandler.
func NewTimeOffHandler(ts services.TimeOffService) *TimeOffHandler {
	return &TimeOffHandler{timeOffService: ts}
}

func respondTimeOffError(c *gin.Context, err error, action string) {
	utils.LogError(err, action)
	switch {
	case errors.Is(err, services.ErrTimeOffNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Time-off request not found.", err.Error()))
	case errors.Is(err, services.ErrStaffNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Staff member not found.", err.Error()))
	case errors.Is(err, services.ErrTimeOffNotPending),
		errors.Is(err, services.ErrTimeOffTerminal),
		errors.Is(err, services.ErrTimeOffNotEditable):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Time-off request is not in a state that allows this change: "+err.Error(), err.Error()))
	case errors.Is(err, services.ErrTimeOffValidation),
		errors.Is(err, services.ErrDateFormat),
		errors.Is(err, services.ErrTimeOfDayFormat):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Time-off operation failed.", "Internal error"))
	}
}

// CreateRequest handles submitting a new time-off request.
func (h *TimeOffHandler) CreateRequest(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	var req services.CreateTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateTimeOffRequest: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	request, err := h.timeOffService.CreateRequest(businessID, req)
	if err != nil {
		respondTimeOffError(c, err, "CreateTimeOffRequest: Error from timeOffService.CreateRequest")
		return
	}
	c.JSON(http.StatusCreated, request)
}

// GetRequests handles listing time-off requests with filters and pagination.
func (h *TimeOffHandler) GetRequests(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	staffID, ok := optionalInt64Query(c, "staff_id")
	if !ok {
		return
	}
	var status *string
	if statusStr := c.Query("status"); statusStr != "" {
		status = &statusStr
	}

	requests, totalCount, err := h.timeOffService.GetRequests(businessID, staffID, status, page, pageSize)
	if err != nil {
		respondTimeOffError(c, err, "GetTimeOffRequests: Error from timeOffService.GetRequests")
		return
	}
	if requests == nil {
		requests = []models.TimeOffRequest{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      requests,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetRequestByID handles fetching a single time-off request.
func (h *TimeOffHandler) GetRequestByID(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}

	request, err := h.timeOffService.GetRequestByID(businessID, requestID)
	if err != nil {
		respondTimeOffError(c, err, "GetTimeOffRequestByID: Error from timeOffService.GetRequestByID")
		return
	}
	c.JSON(http.StatusOK, request)
}

// UpdateRequest handles editing a time-off request.
func (h *TimeOffHandler) UpdateRequest(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateTimeOffRequest: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	request, err := h.timeOffService.UpdateRequest(businessID, requestID, req)
	if err != nil {
		respondTimeOffError(c, err, "UpdateTimeOffRequest: Error from timeOffService.UpdateRequest")
		return
	}
	c.JSON(http.StatusOK, request)
}

// ApproveRequest handles approving a pending time-off request.
func (h *TimeOffHandler) ApproveRequest(c *gin.Context) {
	h.transition(c, "approve")
}

// DenyRequest handles denying a pending time-off request.
func (h *TimeOffHandler) DenyRequest(c *gin.Context) {
	h.transition(c, "deny")
}

// CancelRequest handles cancelling a pending or approved time-off request.
func (h *TimeOffHandler) CancelRequest(c *gin.Context) {
	h.transition(c, "cancel")
}

func (h *TimeOffHandler) transition(c *gin.Context, action string) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var request *models.TimeOffRequest
	var err error
	switch action {
	case "approve":
		request, err = h.timeOffService.ApproveRequest(businessID, requestID)
	case "deny":
		request, err = h.timeOffService.DenyRequest(businessID, requestID)
	default:
		request, err = h.timeOffService.CancelRequest(businessID, requestID)
	}
	if err != nil {
		respondTimeOffError(c, err, "TimeOff "+action+": Error from timeOffService")
		return
	}
	c.JSON(http.StatusOK, request)
}

// DeleteRequest handles deleting a time-off request.
func (h *TimeOffHandler) DeleteRequest(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.timeOffService.DeleteRequest(businessID, requestID); err != nil {
		respondTimeOffError(c, err, "DeleteTimeOffRequest: Error from timeOffService.DeleteRequest")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Time-off request deleted successfully"})
}
