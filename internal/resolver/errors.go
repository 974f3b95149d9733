// File: internal/resolver/errors.go
package resolver

import (
	"fmt"
	"strings"

	"github.com/hackparv/operate/api/schemas"
)

// InvalidSpecError means the user-supplied model spec could not be parsed
// into any recognized grammar. User-input fault; never retried.
type InvalidSpecError struct {
	Spec   string
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid model specification %q: %s. Use '<model>', '<family>:<model>[:<tag>]', or a bare family name", e.Spec, e.Reason)
}

// ModelNotFoundError means the resolved model name is not present on the
// backend. It carries a similarity-ranked suggestion list for the operator.
type ModelNotFoundError struct {
	Model       string
	Family      schemas.Family
	Suggestions []string
}

func (e *ModelNotFoundError) Error() string {
	msg := fmt.Sprintf("model %q not found on %s backend", e.Model, e.Family)
	if len(e.Suggestions) > 0 {
		msg += "; did you mean: " + strings.Join(e.Suggestions, ", ")
	}
	return msg
}
