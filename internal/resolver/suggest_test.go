// File: internal/resolver/suggest_test.go
package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackparv/operate/api/schemas"
)

func infos(names ...string) []schemas.ModelInfo {
	out := make([]schemas.ModelInfo, len(names))
	for i, n := range names {
		out[i] = schemas.ModelInfo{Name: n}
	}
	return out
}

func TestSuggest_PrefixMatchesRankFirst(t *testing.T) {
	got := Suggest("llava", infos("llama2", "llava:7b", "codellama"))

	require.NotEmpty(t, got)
	assert.Equal(t, "llava:7b", got[0])
}

func TestSuggest_EditDistanceOrdering(t *testing.T) {
	// "lava" is distance 1 from "llava" and distance 3 from "llama2".
	got := Suggest("lava", infos("llama2", "llava"))

	require.NotEmpty(t, got)
	assert.Equal(t, "llava", got[0])
}

func TestSuggest_TiesBreakLexicographically(t *testing.T) {
	// Both share the requested prefix, so they tie at rank zero.
	got := Suggest("llava", infos("llava:latest", "llava:7b"))

	require.Len(t, got, 2)
	assert.Equal(t, []string{"llava:7b", "llava:latest"}, got)
}

func TestSuggest_CapsAtFive(t *testing.T) {
	got := Suggest("llava", infos(
		"llava:7b", "llava:13b", "llava:34b", "llava:latest", "llava-phi3", "llava-llama3",
	))
	assert.Len(t, got, maxSuggestions)
}

func TestSuggest_DistantNamesExcluded(t *testing.T) {
	got := Suggest("llava", infos("mistral-nemo-instruct"))
	assert.Empty(t, got)
}

func TestSuggest_EmptyAvailableSet(t *testing.T) {
	assert.Empty(t, Suggest("llava", nil))
}
