// File: internal/session/session.go
package session

import (
	"github.com/google/uuid"

	"github.com/hackparv/operate/api/schemas"
)

// State carries everything mutable about one operator session. Created at
// control loop start, mutated each turn, and discarded at loop exit; nothing
// in it is shared between sessions.
type State struct {
	// ID is a locally generated identifier used for log correlation.
	ID string
	// BackendSessionID is the backend-assigned session identifier, empty for
	// backends that do not track sessions server-side.
	BackendSessionID string
	// LoopCount is the number of completed turns.
	LoopCount int
	// Model is the specification fixed at resolution time.
	Model schemas.ModelSpecification
	// History is the session's conversation record.
	History *History
}

// NewState builds the state for a fresh session.
func NewState(model schemas.ModelSpecification, systemPrompt string) *State {
	return &State{
		ID:      uuid.NewString(),
		Model:   model,
		History: NewHistory(systemPrompt),
	}
}
