package handlers

import (
	"errors"
	"net/http"

	"stylemate_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// businessIDFromContext pulls the tenant scope the auth middleware stored from
// the JWT claims. Responds with 401 and returns false when it is missing.
func businessIDFromContext(c *gin.Context) (int64, bool) {
	raw, exists := c.Get("businessID")
	if !exists {
		utils.LogError(errors.New("businessID not found in context"), "businessIDFromContext: missing claim")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing business ID in context"))
		return 0, false
	}
	businessID, ok := raw.(int64)
	if !ok {
		utils.LogError(errors.New("businessID is not of type int64"), "businessIDFromContext: type assertion failed")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Business ID format incorrect.", "Invalid business ID format in context"))
		return 0, false
	}
	return businessID, true
}

// idParam parses a path parameter as an int64 ID. Responds with 400 and
// returns false on malformed input.
func idParam(c *gin.Context, name string) (int64, bool) {
	idStr := c.Param(name)
	id, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+name+" format.", err.Error()))
		return 0, false
	}
	return id, true
}

// optionalInt64Query parses an optional int64 query parameter. Responds with
// 400 and returns false on malformed input; a missing parameter yields nil.
func optionalInt64Query(c *gin.Context, name string) (*int64, bool) {
	valueStr := c.Query(name)
	if valueStr == "" {
		return nil, true
	}
	value, err := utils.StrToInt64(valueStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+name+" format.", err.Error()))
		return nil, false
	}
	return &value, true
}
