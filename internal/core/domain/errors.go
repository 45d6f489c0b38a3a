// Package domain defines the core domain models for civ7save.
package domain

import (
	"errors"
	"fmt"
)

// DomainError is an error with a stable, machine-readable code.
//
// Codes have the form CS-<AREA>-<NNNN>; the numeric part mirrors the
// HTTP status the server answers with (4220 -> 422, 4040 -> 404, ...).
type DomainError struct {
	Code    string // e.g. CS-CHNK-4220
	Message string
	Details string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches on Code alone, so errors.Is(err, ErrTruncatedInput) holds for
// any copy made with WithDetails or WithCause.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy carrying details; the sentinel is untouched.
func (e *DomainError) WithDetails(details string) *DomainError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithCause returns a copy wrapping cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// IsDomainError reports whether err's chain holds a DomainError with code,
// or any DomainError when code is empty.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return code == "" || de.Code == code
	}
	return false
}

// GetErrorCode returns the code of the first DomainError in err's chain.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Decode errors. All of them are fatal for the whole buffer: once one offset
// is wrong every later offset in the chain is wrong too.
var (
	// ErrNotASaveFile indicates the buffer does not start with the CIV7 magic.
	ErrNotASaveFile = NewDomainError("CS-SAVE-4220", "not a civ7 save file")

	// ErrUnknownChunkType indicates a record type tag outside the known set.
	ErrUnknownChunkType = NewDomainError("CS-CHNK-4220", "unknown chunk type")

	// ErrTruncatedInput indicates a read past the end of the buffer.
	ErrTruncatedInput = NewDomainError("CS-CHNK-4221", "truncated input")
)

// Request and storage errors.
var (
	// ErrSaveTooLarge indicates an upload exceeded the configured size limit.
	ErrSaveTooLarge = NewDomainError("CS-SAVE-4130", "save file too large")

	// ErrInvalidView indicates an unknown decode view was requested.
	ErrInvalidView = NewDomainError("CS-REQ-4000", "invalid view")

	// ErrSaveNotFound indicates the indexed save does not exist.
	ErrSaveNotFound = NewDomainError("CS-INDX-4040", "save not found")

	// ErrRateLimited indicates too many requests from one client.
	ErrRateLimited = NewDomainError("CS-SYS-4290", "too many requests")

	// ErrInternal indicates an unexpected failure.
	ErrInternal = NewDomainError("CS-SYS-5000", "internal error")
)
