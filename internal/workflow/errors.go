package workflow

import (
	"errors"
	"fmt"
)

// ValidationError reports input rejected before any side effect: missing
// required fields, unknown slots, malformed requests. The state is
// unchanged.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// InvalidStateError reports an input that is not valid for the current
// state. The workflow fails closed: no collaborator is called.
type InvalidStateError struct {
	State State
	Input string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("input %q is not valid in state %s", e.Input, e.State)
}

// CollaboratorError wraps a failed call to an external collaborator. The
// workflow state did not advance (unless Terminal is set, in which case only
// the notification is outstanding) and the same operation may be retried.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a collaborator failure that may be
// retried without losing workflow progress.
func IsRetryable(err error) bool {
	var ce *CollaboratorError
	return errors.As(err, &ce)
}

// ErrRescheduleLimit is returned when the candidate has exhausted their
// slot re-picks.
var ErrRescheduleLimit = errors.New("reschedule limit reached")
