package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mantonx/moviecatalog/internal/logger"
)

// APIError represents a structured error with HTTP context
type APIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Context    map[string]interface{} `json:"context,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// ToGinResponse sends the error as a standardized JSON response
func (e *APIError) ToGinResponse(c *gin.Context) {
	statusCode := e.HTTPStatus
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}

	response := gin.H{
		"error": e.Message,
		"code":  e.Code,
	}

	if len(e.Context) > 0 {
		response["details"] = e.Context
	}

	fields := []logger.Field{
		logger.Int("status", statusCode),
		logger.String("code", e.Code),
		logger.String("path", c.Request.URL.Path),
		logger.String("method", c.Request.Method),
	}
	if e.Cause != nil {
		fields = append(fields, logger.Err("cause", e.Cause))
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("HTTP error response: %s", e.Message, fields)
	} else {
		logger.Debug("HTTP error response: %s", e.Message, fields)
	}

	c.JSON(statusCode, response)
}

// Common error constructors
func NewValidationError(message string, fields map[string]string) *APIError {
	err := &APIError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
	if len(fields) > 0 {
		err.Context = map[string]interface{}{"fields": fields}
	}
	return err
}

func NewBadRequestError(message string, field string) *APIError {
	return &APIError{
		Code:       "BAD_REQUEST",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Context:    map[string]interface{}{"field": field},
	}
}

func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
		Context:    map[string]interface{}{"resource": resource, "id": id},
	}
}

func NewConflictError(message string, field string) *APIError {
	return &APIError{
		Code:       "CONFLICT",
		Message:    message,
		HTTPStatus: http.StatusConflict,
		Context:    map[string]interface{}{"field": field},
	}
}

// NewReferenceError reports a foreign key that points at a missing or
// mismatched record.
func NewReferenceError(message string, field string) *APIError {
	return &APIError{
		Code:       "INVALID_REFERENCE",
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Context:    map[string]interface{}{"field": field},
	}
}

func NewInternalError(message string, cause error) *APIError {
	return &APIError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewDatabaseError(operation string, cause error) *APIError {
	return &APIError{
		Code:       "DATABASE_ERROR",
		Message:    "Database operation failed",
		HTTPStatus: http.StatusInternalServerError,
		Context:    map[string]interface{}{"operation": operation},
		Cause:      cause,
	}
}

// HTTP helpers to eliminate duplicate error handling

// HandleBadRequest sends a bad request response for a single field
func HandleBadRequest(c *gin.Context, message string, field string) {
	NewBadRequestError(message, field).ToGinResponse(c)
}

// HandleNotFound sends a not found error response
func HandleNotFound(c *gin.Context, resource string, id string) {
	NewNotFoundError(resource, id).ToGinResponse(c)
}

// HandleInternalError sends an internal server error response
func HandleInternalError(c *gin.Context, message string, err error) {
	NewInternalError(message, err).ToGinResponse(c)
}
