package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainErrorMessages(t *testing.T) {
	plain := NewInvalidRequestError("code and fileName are required")
	if plain.Error() != "INVALID_REQUEST: code and fileName are required" {
		t.Errorf("unexpected message: %s", plain.Error())
	}

	cause := errors.New("boom")
	wrapped := NewInternalError("analysis failed", cause)
	if wrapped.Error() != "INTERNAL_ERROR: analysis failed: boom" {
		t.Errorf("unexpected message: %s", wrapped.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid request", NewInvalidRequestError("bad"), ErrCodeInvalidRequest},
		{"internal", NewInternalError("oops", nil), ErrCodeInternalError},
		{"config", NewConfigError("bad file", errors.New("io")), ErrCodeConfig},
		{"wrapped domain error", fmt.Errorf("outer: %w", NewConfigError("inner", nil)), ErrCodeConfig},
		{"plain error", errors.New("anything"), ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.want {
				t.Errorf("ErrorCode() = %s, want %s", got, tt.want)
			}
		})
	}
}
