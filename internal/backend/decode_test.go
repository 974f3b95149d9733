// File: internal/backend/decode_test.go
package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackparv/operate/api/schemas"
)

func TestDecodeActions_PlainArray(t *testing.T) {
	raw := `[{"operation": "click", "x": 150, "y": 300, "thought": "open the browser"}]`

	actions, err := DecodeActions(raw)
	require.NoError(t, err)
	require.Len(t, actions, 1)

	assert.Equal(t, schemas.ActionClick, actions[0].Kind)
	assert.Equal(t, 150, actions[0].X)
	assert.Equal(t, 300, actions[0].Y)
	assert.Equal(t, "open the browser", actions[0].Thought)
}

func TestDecodeActions_MarkdownFencedJSON(t *testing.T) {
	raw := "```json\n[{\"operation\": \"write\", \"content\": \"hello\"}]\n```"

	actions, err := DecodeActions(raw)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, schemas.ActionWrite, actions[0].Kind)
	assert.Equal(t, "hello", actions[0].Content)
}

func TestDecodeActions_BareFence(t *testing.T) {
	raw := "```\n[{\"operation\": \"press\", \"keys\": [\"cmd\", \"space\"]}]\n```"

	actions, err := DecodeActions(raw)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, []string{"cmd", "space"}, actions[0].Keys)
}

// A single bare object is tolerated and wrapped into a one-element batch.
func TestDecodeActions_SingleObject(t *testing.T) {
	raw := `{"operation": "done", "summary": "finished"}`

	actions, err := DecodeActions(raw)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, schemas.ActionDone, actions[0].Kind)
	assert.Equal(t, "finished", actions[0].Summary)
}

func TestDecodeActions_MultipleOperationsPreserveOrder(t *testing.T) {
	raw := `[
		{"operation": "click", "x": 10, "y": 10},
		{"operation": "write", "content": "report.txt"},
		{"operation": "done", "summary": "saved"}
	]`

	actions, err := DecodeActions(raw)
	require.NoError(t, err)
	require.Len(t, actions, 3)
	assert.Equal(t, schemas.ActionClick, actions[0].Kind)
	assert.Equal(t, schemas.ActionWrite, actions[1].Kind)
	assert.Equal(t, schemas.ActionDone, actions[2].Kind)
}

func TestDecodeActions_MalformedRepliesFail(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{"empty string", ""},
		{"prose instead of JSON", "I think you should click the button."},
		{"truncated JSON", `[{"operation": "click", "x": 10`},
		{"empty array", `[]`},
		{"operation missing kind", `[{"x": 10, "y": 20}]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeActions(tc.raw)
			var parseErr *ResponseParseError
			require.ErrorAs(t, err, &parseErr)
		})
	}
}
