package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body for auth, permission, lookup and server failures.
type ErrorResponse struct {
	Error   string `json:"error"`   // code from codes.go
	Message string `json:"message"` // human readable
}

// DomainErrorResponse is the body of a rejected domain operation
// (already in favorites, not subscribed, ...). Always sent with 400.
type DomainErrorResponse struct {
	Errors string `json:"errors"`
}

// RespondWithError writes {"error": code, "message": message} with statusCode.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication credentials were not provided."
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "You do not have permission to perform this action."
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error. Please try again later."
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// DomainError answers a conflicting domain operation with 400 {"errors": message}.
// Conflicts are reported as 400, not 409.
func DomainError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, DomainErrorResponse{Errors: message})
}

// RespondWithFieldErrors answers with 400 {"<field>": ["<message>", ...]}.
func RespondWithFieldErrors(c *gin.Context, fields map[string][]string) {
	c.JSON(http.StatusBadRequest, fields)
}
