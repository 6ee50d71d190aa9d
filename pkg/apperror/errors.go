package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrInternal     = errors.New("internal server error")
)

// AppError pairs an error category with a caller-facing detail message.
type AppError struct {
	Kind    error
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Kind
}

// New wraps kind with a detail message.
func New(kind error, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Newf wraps kind with a formatted detail message.
func Newf(kind error, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a not-found error with the given detail.
func NotFound(message string) *AppError { return New(ErrNotFound, message) }

// Unauthorized returns an unauthorized error with the given detail.
func Unauthorized(message string) *AppError { return New(ErrUnauthorized, message) }

// Forbidden returns a forbidden error with the given detail.
func Forbidden(message string) *AppError { return New(ErrForbidden, message) }

// BadRequest returns a bad-request error with the given detail.
func BadRequest(message string) *AppError { return New(ErrBadRequest, message) }

// Internal returns an internal error with the given detail.
func Internal(message string) *AppError { return New(ErrInternal, message) }

// MapErrorToStatus maps an error to its HTTP status code. Unrecognized errors
// default to 500.
func MapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
