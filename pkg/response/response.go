package response

import (
	"log"
	"net/http"

	"backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// Response is the standard API envelope.
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success wraps data in a success envelope.
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Message wraps a human-readable confirmation in a success envelope.
func Message(statusCode int, message string) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Message:    message,
	}
}

// Error wraps an error detail in an error envelope.
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// FromError writes err to the client with the status mapped from its category.
// Internal errors are logged; the client only sees the detail message.
func FromError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)
	if code == http.StatusInternalServerError {
		log.Printf("[internal error] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(code, Error(code, err.Error()))
}

// AbortFromError behaves like FromError but also aborts the handler chain.
func AbortFromError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)
	c.AbortWithStatusJSON(code, Error(code, err.Error()))
}
