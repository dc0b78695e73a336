package appointment

import (
	"errors"
	"fmt"
)

// ConflictError reports that the requested slot is no longer available at
// submission time, e.g. because another customer booked it between fetch and
// submit. It is surfaced to the user and never retried automatically.
type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewSlotConflictError(msg string) error {
	return &ConflictError{
		Code:    "slotTaken",
		Message: msg,
	}
}

// IsSlotConflict reports whether err is a slot conflict.
func IsSlotConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
