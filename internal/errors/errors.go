package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "AUTH_REQUIRED"
	ErrCodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"

	// Authorization errors
	ErrCodeInsufficientPermissions = "AUTH_INSUFFICIENT_PERMISSIONS"

	// Validation errors
	ErrCodeValidation = "VALIDATION_ERROR"

	// Resource errors
	ErrCodeTaskNotFound       = "TASK_NOT_FOUND"
	ErrCodeSubmissionNotFound = "SUBMISSION_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeDepartmentNotFound = "DEPARTMENT_NOT_FOUND"
	ErrCodeTemplateNotFound   = "TEMPLATE_NOT_FOUND"
	ErrCodeAlreadyExists      = "ALREADY_EXISTS"
	ErrCodeOptimisticLock     = "OPTIMISTIC_LOCK_FAILED"

	// Business logic errors
	ErrCodeTaskArchived        = "TASK_ARCHIVED"
	ErrCodeTaskAlreadyArchived = "TASK_ALREADY_ARCHIVED"
	ErrCodeSelfAction          = "CANNOT_MODIFY_SELF"

	// Service errors
	ErrCodeServerError = "SERVER_ERROR"
)

// APIError represents a standardized API error
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// ErrorResponse is the envelope of every error body. Current is only set on
// version conflicts and carries the stored row.
type ErrorResponse struct {
	Error   *APIError `json:"error"`
	Current any       `json:"current,omitempty"`
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, ErrorResponse{Error: err})
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// InvalidCredentials sends a 401 response for a failed login
func InvalidCredentials(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid email or password"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeInvalidCredentials, message))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Insufficient permissions"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeInsufficientPermissions, message))
}

// NotFound sends a 404 response with a resource specific code
func NotFound(c *gin.Context, code, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(code, message))
}

// BadRequest sends a 400 validation response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeValidation, message))
}

// BadRequestWithCode sends a 400 response with a business rule code
func BadRequestWithCode(c *gin.Context, code, message string) {
	RespondWithError(c, http.StatusBadRequest, NewAPIError(code, message))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeAlreadyExists, message))
}

// VersionConflict sends a 409 response carrying the current stored row
func VersionConflict(c *gin.Context, message string, current any) {
	if message == "" {
		message = "Resource has been modified by another user"
	}
	c.JSON(http.StatusConflict, ErrorResponse{
		Error:   NewAPIError(ErrCodeOptimisticLock, message),
		Current: current,
	})
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeServerError, message))
}
