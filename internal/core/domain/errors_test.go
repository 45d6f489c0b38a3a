package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name:     "error without details",
			err:      NewDomainError("CS-TEST-1000", "test message"),
			expected: "[CS-TEST-1000] test message",
		},
		{
			name:     "error with details",
			err:      NewDomainError("CS-TEST-1001", "test message").WithDetails("offset 12"),
			expected: "[CS-TEST-1001] test message: offset 12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDomainError_Is(t *testing.T) {
	withDetails := ErrTruncatedInput.WithDetails("offset 4096")

	if !errors.Is(withDetails, ErrTruncatedInput) {
		t.Error("errors.Is should match on code regardless of details")
	}
	if errors.Is(withDetails, ErrUnknownChunkType) {
		t.Error("errors.Is should not match a different code")
	}
	if errors.Is(ErrNotASaveFile, fmt.Errorf("not a civ7 save file")) {
		t.Error("errors.Is should not match a plain error")
	}

	wrapped := fmt.Errorf("service: decode: %w", withDetails)
	if !errors.Is(wrapped, ErrTruncatedInput) {
		t.Error("errors.Is should see through fmt wrapping")
	}
}

func TestDomainError_CopiesDoNotMutate(t *testing.T) {
	cause := errors.New("io")
	derived := ErrInternal.WithDetails("x").WithCause(cause)

	if ErrInternal.Details != "" || ErrInternal.Cause != nil {
		t.Fatal("sentinel was mutated")
	}
	if errors.Unwrap(derived) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(derived), cause)
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := GetErrorCode(fmt.Errorf("wrap: %w", ErrSaveNotFound)); got != "CS-INDX-4040" {
		t.Errorf("GetErrorCode() = %q, want %q", got, "CS-INDX-4040")
	}
	if got := GetErrorCode(errors.New("plain")); got != "" {
		t.Errorf("GetErrorCode(plain) = %q, want empty", got)
	}
	if !IsDomainError(ErrInvalidView, "") {
		t.Error("IsDomainError with empty code should match any DomainError")
	}
	if IsDomainError(ErrInvalidView, "CS-SYS-5000") {
		t.Error("IsDomainError should not match a different code")
	}
}
