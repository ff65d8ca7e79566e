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

// StaffHandler holds the staff service.
type StaffHandler struct {
	staffService services.StaffService
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(ss services.StaffService) *StaffHandler {
	return &StaffHandler{staffService: ss}
}

func respondStaffError(c *gin.Context, err error, action string) {
	utils.LogError(err, action)
	switch {
	case errors.Is(err, services.ErrStaffNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member not found.", err.Error()))
	case errors.Is(err, services.ErrUserForStaffNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "User specified for staff member not found.", err.Error()))
	case errors.Is(err, services.ErrStaffUserConflict):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "User ID is already linked to another staff member.", err.Error()))
	case errors.Is(err, services.ErrStaffInUse):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Staff member cannot be deleted as they are referenced in other records.", err.Error()))
	case errors.Is(err, services.ErrLocationNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Location not found.", err.Error()))
	case errors.Is(err, services.ErrLocationNotAssigned):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member is not assigned to this location.", err.Error()))
	case errors.Is(err, services.ErrLocationAlreadyLinked):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Staff member is already assigned to this location.", err.Error()))
	case errors.Is(err, services.ErrHireDateFormat), errors.Is(err, services.ErrStaffDataValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Staff operation failed.", "Internal error"))
	}
}

// CreateStaffMember handles the creation of a new staff member.
func (h *StaffHandler) CreateStaffMember(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	var req services.CreateStaffMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateStaffMember: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	staffMember, err := h.staffService.CreateStaffMember(businessID, req)
	if err != nil {
		respondStaffError(c, err, "CreateStaffMember: Error from staffService.CreateStaffMember")
		return
	}
	c.JSON(http.StatusCreated, staffMember)
}

// GetStaffMembers handles fetching all staff members with pagination and search.
func (h *StaffHandler) GetStaffMembers(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	activeOnly := c.DefaultQuery("active_only", "false") == "true"

	var searchTerm *string
	if search := c.Query("search"); search != "" {
		searchTerm = &search
	}

	staffMembers, totalCount, err := h.staffService.GetStaffMembers(businessID, page, pageSize, searchTerm, activeOnly)
	if err != nil {
		respondStaffError(c, err, "GetStaffMembers: Error from staffService.GetStaffMembers")
		return
	}
	if staffMembers == nil {
		staffMembers = []models.StaffMember{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      staffMembers,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetStaffMemberByID handles fetching a single staff member by ID.
func (h *StaffHandler) GetStaffMemberByID(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	staffID, ok := idParam(c, "id")
	if !ok {
		return
	}

	staffMember, err := h.staffService.GetStaffMemberByID(businessID, staffID)
	if err != nil {
		respondStaffError(c, err, "GetStaffMemberByID: Error from staffService.GetStaffMemberByID")
		return
	}
	c.JSON(http.StatusOK, staffMember)
}

// UpdateStaffMember handles updating a staff member.
func (h *StaffHandler) UpdateStaffMember(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	staffID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateStaffMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateStaffMember: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	staffMember, err := h.staffService.UpdateStaffMember(businessID, staffID, req)
	if err != nil {
		respondStaffError(c, err, "UpdateStaffMember: Error from staffService.UpdateStaffMember")
		return
	}
	c.JSON(http.StatusOK, staffMember)
}

// DeleteStaffMember handles deleting a staff member.
func (h *StaffHandler) DeleteStaffMember(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	staffID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.staffService.DeleteStaffMember(businessID, staffID); err != nil {
		respondStaffError(c, err, "DeleteStaffMember: Error from staffService.DeleteStaffMember")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff member deleted successfully"})
}

// --- Location Assignment Handler Methods ---

type locationLinkRequest struct {
	LocationID int64 `json:"location_id" binding:"required"`
}

// AssignLocation handles linking a staff member to a location.
func (h *StaffHandler) AssignLocation(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	staffID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req locationLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "AssignLocation: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	locations, err := h.staffService.AssignLocation(businessID, staffID, req.LocationID)
	if err != nil {
		respondStaffError(c, err, "AssignLocation: Error from staffService.AssignLocation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// RemoveLocation handles unlinking a staff member from a location.
func (h *StaffHandler) RemoveLocation(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	staffID, ok := idParam(c, "id")
	if !ok {
		return
	}
	locationID, ok := idParam(c, "locationId")
	if !ok {
		return
	}

	locations, err := h.staffService.RemoveLocation(businessID, staffID, locationID)
	if err != nil {
		respondStaffError(c, err, "RemoveLocation: Error from staffService.RemoveLocation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// SetPrimaryLocation handles flipping the primary flag to one of the staff
// member's assigned locations.
func (h *StaffHandler) SetPrimaryLocation(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	staffID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req locationLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "SetPrimaryLocation: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	locations, err := h.staffService.SetPrimaryLocation(businessID, staffID, req.LocationID)
	if err != nil {
		respondStaffError(c, err, "SetPrimaryLocation: Error from staffService.SetPrimaryLocation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}
