// File: internal/operator/errors.go
package operator

import (
	"fmt"

	"github.com/hackparv/operate/api/schemas"
)

// UnknownOperationError means the backend emitted an action kind outside the
// protocol. That is a backend/protocol mismatch, not a transient condition:
// it is fatal for the session and never retried.
type UnknownOperationError struct {
	Kind schemas.ActionKind
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation kind %q: backend does not speak the action protocol", e.Kind)
}

// ValidationError means the safety gate (or a structural invariant) blocked
// a single action. In a multi-action batch it is logged and skipped; as the
// sole action of a batch it surfaces and ends the session.
type ValidationError struct {
	Action schemas.Action
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("action %s blocked: %s", e.Action, e.Reason)
}

// ObjectiveNotCompletedError means the iteration cap was reached without a
// done action. Distinct from backend failures so the operator-facing message
// names the right fault category.
type ObjectiveNotCompletedError struct {
	Turns int
}

func (e *ObjectiveNotCompletedError) Error() string {
	return fmt.Sprintf("objective not completed after %d turns", e.Turns)
}
