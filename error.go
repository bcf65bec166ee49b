package buddy

import (
	"fmt"

	"github.com/calibandmem/buddy/internal/engine"
)

// ErrOutOfMemory is returned by Allocate when no free block is large
// enough to satisfy a request once alignment padding is accounted for.
var ErrOutOfMemory = engine.ErrOutOfMemory

// ErrInvalidArgument is returned when an alignment is not a power of two,
// or a region is smaller than the minimum block size it was asked to
// manage.
var ErrInvalidArgument = engine.ErrInvalidArgument

// ValidationError reports a caller precondition violation, with enough
// context to diagnose it without re-deriving the failing values.
type ValidationError struct {
	Op      string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("buddy: %s: %s", e.Op, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidArgument }

// NewValidationError builds a ValidationError for operation op.
func NewValidationError(op, message string) *ValidationError {
	return &ValidationError{Op: op, Message: message}
}

// NewValidationErrorf builds a ValidationError with a formatted message.
func NewValidationErrorf(op, format string, args ...any) *ValidationError {
	return &ValidationError{Op: op, Message: fmt.Sprintf(format, args...)}
}

var _ error = (*ValidationError)(nil)
