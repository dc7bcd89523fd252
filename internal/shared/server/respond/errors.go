package respond

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"hirewise-backend/internal/shared/telemetry"
)

var exposeDetails atomic.Bool

func init() {
	exposeDetails.Store(true)
}

// SetExposeDetails controls whether Internal includes the underlying error text.
func SetExposeDetails(v bool) {
	exposeDetails.Store(v)
}

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// FieldError names one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error  ErrorBody    `json:"error"`
	Errors []FieldError `json:"errors,omitempty"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	write(c, status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Validation sends a 400 with the per-field error list.
func Validation(c *gin.Context, message string, fields []FieldError) {
	if message == "" {
		message = "Validation failed"
	}
	write(c, http.StatusBadRequest, ErrorResponse{
		Error: ErrorBody{
			Code:    "validation_error",
			Message: message,
		},
		Errors: fields,
	})
}

// Internal sends a 500. The cause is only echoed outside production.
func Internal(c *gin.Context, message string, err error) {
	var details interface{}
	if err != nil && exposeDetails.Load() {
		details = err.Error()
	}
	if err != nil {
		_ = c.Error(err)
	}
	Error(c, http.StatusInternalServerError, "internal_error", message, details)
}

func write(c *gin.Context, status int, body ErrorResponse) {
	fields := map[string]any{
		"status":     status,
		"code":       body.Error.Code,
		"message":    body.Error.Message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if companyID := c.GetString("companyId"); companyID != "" {
		fields["company_id"] = companyID
	}
	if len(c.Errors) > 0 {
		fields["cause"] = c.Errors.String()
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Info("http.error", fields)
	}

	c.AbortWithStatusJSON(status, body)
}
