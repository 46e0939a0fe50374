package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

// conflictCodes are storage failures answered as a 400 domain error.
var conflictCodes = map[string]bool{
	apperrors.TagExists:              true,
	apperrors.IngredientExists:       true,
	apperrors.IngredientInUse:        true,
	apperrors.AuthEmailAlreadyExists: true,
	apperrors.AuthUsernameExists:     true,
	apperrors.RecipeAlreadyInList:    true,
	apperrors.SubscriptionExists:     true,
	apperrors.ResourceAlreadyExists:  true,
	apperrors.ResourceConflict:       true,
	apperrors.ValidationInvalidInput: true,
	apperrors.ValidationRequired:     true,
}

// respondStorageError answers an error that came out of the database untranslated.
func respondStorageError(c *gin.Context, err error, context string) {
	info := apperrors.ParseError(err, context)
	switch {
	case conflictCodes[info.Code]:
		apperrors.DomainError(c, info.Message)
	case info.Code == apperrors.ResourceNotFound || strings.HasSuffix(info.Code, "_NOT_FOUND"):
		apperrors.NotFound(c, info.Code, info.Message)
	default:
		middleware.GetLoggerFromContext(c).Error("Request failed", err, map[string]interface{}{
			"context": context,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
	}
}

// respondBindingError answers a ShouldBindJSON failure with field errors.
func respondBindingError(c *gin.Context, err error) {
	middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
		"error": err.Error(),
	})
	apperrors.RespondWithFieldErrors(c, apperrors.FieldErrorsFromBinding(err))
}

// respondValidationError writes service field errors and reports whether err was one.
func respondValidationError(c *gin.Context, err error) bool {
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	apperrors.RespondWithFieldErrors(c, verr.Fields)
	return true
}

// parseIDParam reads a positive integer path parameter, answering 404 otherwise.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apperrors.NotFound(c, apperrors.ValidationInvalidID, "Not found.")
		return 0, false
	}
	return uint(id), true
}

// requireUserID returns the authenticated user id, answering 401 when there is none.
func requireUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return 0, false
	}
	return userID, true
}

// queryFlag reads boolean query flags the way clients send them ("1", "true").
func queryFlag(c *gin.Context, name string) bool {
	v := strings.ToLower(c.Query(name))
	return v == "1" || v == "true"
}
