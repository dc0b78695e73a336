package booking

import (
	"errors"
	"fmt"
)

// TransitionError reports an attempted workflow transition whose guard is not
// satisfied. The session is left unchanged.
type TransitionError struct {
	Code    string
	Message string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newTransitionError(msg string) error {
	return &TransitionError{
		Code:    "invalidTransition",
		Message: msg,
	}
}

// IsInvalidTransition reports whether err is a rejected workflow transition.
func IsInvalidTransition(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}
