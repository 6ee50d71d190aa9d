package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("x"), http.StatusNotFound},
		{"unauthorized", Unauthorized("x"), http.StatusUnauthorized},
		{"forbidden", Forbidden("x"), http.StatusForbidden},
		{"bad request", BadRequest("x"), http.StatusBadRequest},
		{"internal", Internal("x"), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("context: %w", NotFound("x")), http.StatusNotFound},
		{"newf", Newf(ErrBadRequest, "bad %s", "input"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapErrorToStatus(tt.err); got != tt.want {
				t.Errorf("MapErrorToStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := NotFound("User not found")
	if err.Error() != "User not found" {
		t.Errorf("Error() = %q, want the detail message only", err.Error())
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("errors.Is should match the kind")
	}
}
