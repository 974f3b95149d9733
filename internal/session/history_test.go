// File: internal/session/history_test.go
package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackparv/operate/api/schemas"
)

func TestNewHistory_SystemTurnIsFirst(t *testing.T) {
	h := NewHistory("you are an operator")

	turns := h.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, schemas.RoleSystem, turns[0].Role)
	assert.Equal(t, "you are an operator", turns[0].Parts[0].Text)
}

func TestHistory_AppendUserAndAssistantOrdering(t *testing.T) {
	h := NewHistory("system")

	require.NoError(t, h.AppendUser("Objective: open a browser", []byte{0x01}))
	require.NoError(t, h.AppendAssistant(`[{"operation":"click","x":1,"y":1}]`))
	require.NoError(t, h.AppendUser("Objective: open a browser", []byte{0x02}))

	turns := h.Turns()
	require.Len(t, turns, 4)
	assert.Equal(t, schemas.RoleSystem, turns[0].Role)
	assert.Equal(t, schemas.RoleUser, turns[1].Role)
	assert.Equal(t, schemas.RoleAssistant, turns[2].Role)
	assert.Equal(t, schemas.RoleUser, turns[3].Role)
}

// Exactly one system turn: a second one is rejected.
func TestHistory_RejectsSecondSystemTurn(t *testing.T) {
	h := NewHistory("system")

	err := h.Append(schemas.Turn{
		Role:  schemas.RoleSystem,
		Parts: []schemas.Part{schemas.TextPart("another system prompt")},
	})
	require.Error(t, err)
}

// Image parts only ever appear inside user turns.
func TestHistory_RejectsAssistantImage(t *testing.T) {
	h := NewHistory("system")

	err := h.Append(schemas.Turn{
		Role: schemas.RoleAssistant,
		Parts: []schemas.Part{
			schemas.TextPart("reply"),
			schemas.ImagePart([]byte{0x01}),
		},
	})
	require.Error(t, err)
}

func TestHistory_RejectsEmptyTurn(t *testing.T) {
	h := NewHistory("system")
	require.Error(t, h.Append(schemas.Turn{Role: schemas.RoleUser}))
}

// Turns returns a copy: mutating it must not corrupt the record.
func TestHistory_TurnsReturnsCopy(t *testing.T) {
	h := NewHistory("system")
	require.NoError(t, h.AppendUser("objective", []byte{0x01}))

	turns := h.Turns()
	turns[0] = schemas.Turn{Role: schemas.RoleUser, Parts: []schemas.Part{schemas.TextPart("tampered")}}

	assert.Equal(t, schemas.RoleSystem, h.Turns()[0].Role)
	assert.Equal(t, 2, h.Len())
}

func TestNewState(t *testing.T) {
	spec := schemas.ModelSpecification{
		Raw: "ollama", Family: schemas.FamilyOllama, ModelName: "llava", Source: schemas.SourceFallback,
	}
	st := NewState(spec, "system prompt")

	assert.NotEmpty(t, st.ID)
	assert.Empty(t, st.BackendSessionID)
	assert.Zero(t, st.LoopCount)
	assert.Equal(t, spec, st.Model)
	require.NotNil(t, st.History)
	assert.Equal(t, 1, st.History.Len())

	// Session identifiers are unique per session.
	assert.NotEqual(t, st.ID, NewState(spec, "system prompt").ID)
}
