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

// LocationHandler holds the location service.
type LocationHandler struct {
	locationService services.LocationService
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(ls services.LocationService) *LocationHandler {
	return &LocationHandler{locationService: ls}
}

func respondLocationError(c *gin.Context, err error, action string) {
	utils.LogError(err, action)
	switch {
	case errors.Is(err, services.ErrLocationNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Location not found.", err.Error()))
	case errors.Is(err, services.ErrLocationInUse):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Location cannot be deleted as it is referenced in other records.", err.Error()))
	case errors.Is(err, services.ErrLocationValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Location operation failed.", "Internal error"))
	}
}

// CreateLocation handles the creation of a new location.
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	var req services.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateLocation: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	location, err := h.locationService.CreateLocation(businessID, req)
	if err != nil {
		respondLocationError(c, err, "CreateLocation: Error from locationService.CreateLocation")
		return
	}
	c.JSON(http.StatusCreated, location)
}

// GetLocations handles listing locations with pagination and search.
func (h *LocationHandler) GetLocations(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	var searchTerm *string
	if search := c.Query("search"); search != "" {
		searchTerm = &search
	}

	locations, totalCount, err := h.locationService.GetLocations(businessID, page, pageSize, searchTerm)
	if err != nil {
		respondLocationError(c, err, "GetLocations: Error from locationService.GetLocations")
		return
	}
	if locations == nil {
		locations = []models.Location{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      locations,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetLocationByID handles fetching a single location.
func (h *LocationHandler) GetLocationByID(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	locationID, ok := idParam(c, "id")
	if !ok {
		return
	}

	location, err := h.locationService.GetLocationByID(businessID, locationID)
	if err != nil {
		respondLocationError(c, err, "GetLocationByID: Error from locationService.GetLocationByID")
		return
	}
	c.JSON(http.StatusOK, location)
}

// UpdateLocation handles updating a location.
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	locationID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateLocation: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	location, err := h.locationService.UpdateLocation(businessID, locationID, req)
	if err != nil {
		respondLocationError(c, err, "UpdateLocation: Error from locationService.UpdateLocation")
		return
	}
	c.JSON(http.StatusOK, location)
}

// DeleteLocation handles deleting a location.
func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	businessID, ok := businessIDFromContext(c)
	if !ok {
		return
	}
	locationID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.locationService.DeleteLocation(businessID, locationID); err != nil {
		respondLocationError(c, err, "DeleteLocation: Error from locationService.DeleteLocation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Location deleted successfully"})
}
