// File: api/schemas/actions.go
package schemas

import (
	"fmt"
	"strings"
)

// ActionKind identifies one of the structured operations a vision backend may
// emit. The set is closed; anything else is a protocol mismatch.
type ActionKind string

const (
	ActionClick ActionKind = "click"
	ActionPress ActionKind = "press"
	ActionWrite ActionKind = "write"
	ActionDone  ActionKind = "done"
)

// Action is one structured instruction decoded from a backend response.
// Exactly one kind is meaningful per instance; the remaining fields are left
// at their zero values. Thought is free text for logging only and is never
// executed.
type Action struct {
	Kind    ActionKind `json:"operation"`
	X       int        `json:"x,omitempty"`
	Y       int        `json:"y,omitempty"`
	Keys    []string   `json:"keys,omitempty"`
	Content string     `json:"content,omitempty"`
	Summary string     `json:"summary,omitempty"`
	Thought string     `json:"thought,omitempty"`
}

// Validate checks the structural invariants for the action's kind. Screen
// bounds are checked separately by the executor against the last capture.
func (a Action) Validate() error {
	switch a.Kind {
	case ActionClick:
		if a.X < 0 || a.Y < 0 {
			return fmt.Errorf("click coordinates must be non-negative, got (%d, %d)", a.X, a.Y)
		}
	case ActionPress:
		if len(a.Keys) == 0 {
			return fmt.Errorf("press action requires at least one key")
		}
	case ActionWrite:
		if a.Content == "" {
			return fmt.Errorf("write action requires non-empty content")
		}
	case ActionDone:
		// A done without a summary is legal, just unhelpful.
	default:
		return fmt.Errorf("unrecognized operation kind %q", a.Kind)
	}
	return nil
}

// String renders a compact one-line description for logs.
func (a Action) String() string {
	switch a.Kind {
	case ActionClick:
		return fmt.Sprintf("click(%d, %d)", a.X, a.Y)
	case ActionPress:
		return fmt.Sprintf("press(%s)", strings.Join(a.Keys, "+"))
	case ActionWrite:
		return fmt.Sprintf("write(%d chars)", len(a.Content))
	case ActionDone:
		return fmt.Sprintf("done(%q)", a.Summary)
	}
	return fmt.Sprintf("unknown(%q)", string(a.Kind))
}
