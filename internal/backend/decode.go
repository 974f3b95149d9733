// File: internal/backend/decode.go
package backend

import (
	"fmt"
	"strings"

	json "github.com/json-iterator/go"

	"github.com/hackparv/operate/api/schemas"
)

// DecodeActions parses a backend's raw reply into the canonical action
// sequence. Models habitually wrap JSON in markdown fences, so those are
// stripped first. A reply that is not a JSON array (or single object) of
// operations fails with a ResponseParseError rather than silently dropping
// actions.
func DecodeActions(raw string) ([]schemas.Action, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return nil, &ResponseParseError{Raw: raw, Err: fmt.Errorf("empty response content")}
	}

	var actions []schemas.Action
	if err := json.UnmarshalFromString(cleaned, &actions); err != nil {
		// Tolerate a bare object for a single operation.
		var single schemas.Action
		if objErr := json.UnmarshalFromString(cleaned, &single); objErr != nil {
			return nil, &ResponseParseError{Raw: raw, Err: err}
		}
		actions = []schemas.Action{single}
	}

	if len(actions) == 0 {
		return nil, &ResponseParseError{Raw: raw, Err: fmt.Errorf("response contained no operations")}
	}
	for i, a := range actions {
		if a.Kind == "" {
			return nil, &ResponseParseError{Raw: raw, Err: fmt.Errorf("operation %d is missing its kind", i)}
		}
	}
	return actions, nil
}

// stripFences removes a surrounding ```json / ``` markdown wrapper, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
