package session

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvalidTransitionError is returned when an action is invoked outside the phase (or screen, or role)
// it is valid in. The session is left unchanged.
type InvalidTransitionError struct {
	Action string
	Phase  Phase
	Screen Screen // set when the screen was the problem
	Reason string
}

func (err *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("%s is not allowed while %s", err.Action, err.Phase)
	if err.Screen != "" {
		msg += fmt.Sprintf(" on the %s screen", err.Screen)
	}
	if err.Reason != "" {
		msg += ": " + err.Reason
	}
	return msg
}

func IsInvalidTransition(err error) bool {
	_, ok := errors.Cause(err).(*InvalidTransitionError)
	return ok
}
