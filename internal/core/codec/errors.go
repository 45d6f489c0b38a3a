package codec

import (
	"fmt"

	"github.com/yndnr/civ7save-go/internal/core/domain"
)

// DecodeError reports where a decode failed. It unwraps to one of
// domain.ErrNotASaveFile, domain.ErrUnknownChunkType or
// domain.ErrTruncatedInput.
type DecodeError struct {
	// Offset is the absolute offset of the record (or field) being read.
	Offset int
	// Type is the offending type tag for ErrUnknownChunkType, else 0.
	Type uint32
	Err  *domain.DomainError
}

func (e *DecodeError) Error() string {
	if e.Type != 0 {
		return fmt.Sprintf("codec: offset %d: %s %d", e.Offset, e.Err.Message, e.Type)
	}
	return fmt.Sprintf("codec: offset %d: %s", e.Offset, e.Err.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func truncated(offset int) error {
	return &DecodeError{Offset: offset, Err: domain.ErrTruncatedInput}
}

func unknownType(offset int, typ uint32) error {
	return &DecodeError{Offset: offset, Type: typ, Err: domain.ErrUnknownChunkType}
}
