package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := NewValidationError("No files uploaded", "field files is empty")
	if err.Error() != "validation: No files uploaded (field files is empty)" {
		t.Fatalf("unexpected message: %s", err.Error())
	}

	plain := NewValidationError("No files uploaded")
	if plain.Error() != "validation: No files uploaded" {
		t.Fatalf("unexpected message: %s", plain.Error())
	}
}

func TestStatusCodes(t *testing.T) {
	cause := errors.New("http: request body too large")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad"), http.StatusBadRequest},
		{"too large", NewTooLargeError("big", cause), http.StatusRequestEntityTooLarge},
		{"internal", NewInternalError("oops", cause), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("handler: %w", NewValidationError("bad")), http.StatusBadRequest},
		{"plain error", cause, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetStatusCode(tt.err); got != tt.want {
				t.Fatalf("GetStatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsTypeAndUnwrap(t *testing.T) {
	cause := errors.New("multipart: NextPart: EOF")
	err := fmt.Errorf("parse: %w", NewTooLargeError("Upload too large", cause))

	if !IsType(err, ErrorTypeTooLarge) {
		t.Fatalf("expected too_large type")
	}
	if IsType(err, ErrorTypeValidation) {
		t.Fatalf("did not expect validation type")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(NewValidationError("Please choose at least one file.")); got != "Please choose at least one file." {
		t.Fatalf("unexpected message: %s", got)
	}
	if got := UserMessage(errors.New("internal detail")); got == "internal detail" {
		t.Fatalf("plain errors must not leak their text")
	}
}
