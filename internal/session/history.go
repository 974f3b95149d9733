// File: internal/session/history.go
package session

import (
	"fmt"

	"github.com/hackparv/operate/api/schemas"
)

// History is the ordered multimodal conversation record for one session. It
// is append-only: exactly one system turn, always first; image parts may
// only appear inside user turns. A History is owned by a single control loop
// for one session lifetime and is never persisted.
type History struct {
	turns []schemas.Turn
}

// NewHistory creates a history seeded with its single system turn.
func NewHistory(systemPrompt string) *History {
	return &History{
		turns: []schemas.Turn{
			{Role: schemas.RoleSystem, Parts: []schemas.Part{schemas.TextPart(systemPrompt)}},
		},
	}
}

// Append adds a turn to the record, enforcing the structural invariants.
func (h *History) Append(turn schemas.Turn) error {
	switch turn.Role {
	case schemas.RoleSystem:
		return fmt.Errorf("history already holds its system turn; cannot append another")
	case schemas.RoleUser:
		// Images are allowed here.
	case schemas.RoleAssistant:
		if turn.HasImage() {
			return fmt.Errorf("image parts may only appear inside user turns")
		}
	default:
		return fmt.Errorf("unknown turn role %q", turn.Role)
	}
	if len(turn.Parts) == 0 {
		return fmt.Errorf("cannot append a turn with no content parts")
	}
	h.turns = append(h.turns, turn)
	return nil
}

// AppendUser records a user turn carrying the objective text and the encoded
// screenshot for this turn.
func (h *History) AppendUser(objective string, image []byte) error {
	return h.Append(schemas.Turn{
		Role: schemas.RoleUser,
		Parts: []schemas.Part{
			schemas.TextPart(objective),
			schemas.ImagePart(image),
		},
	})
}

// AppendAssistant records the backend's raw reply text.
func (h *History) AppendAssistant(reply string) error {
	return h.Append(schemas.Turn{
		Role:  schemas.RoleAssistant,
		Parts: []schemas.Part{schemas.TextPart(reply)},
	})
}

// Turns returns the transcript in order. The returned slice is a copy; the
// history itself stays append-only.
func (h *History) Turns() []schemas.Turn {
	out := make([]schemas.Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len reports the number of turns including the system turn.
func (h *History) Len() int { return len(h.turns) }
