// File: internal/resolver/suggest.go
package resolver

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/hackparv/operate/api/schemas"
)

// maxSuggestions caps how many alternatives a ModelNotFoundError carries.
const maxSuggestions = 5

// Suggest returns the subset of available model names that share a prefix
// with the requested name or sit within a small edit distance of it, ordered
// most similar first with ties broken lexicographically.
func Suggest(requested string, available []schemas.ModelInfo) []string {
	type candidate struct {
		name     string
		distance int
	}

	req := strings.ToLower(requested)
	candidates := make([]candidate, 0, len(available))
	for _, m := range available {
		name := strings.ToLower(m.Name)
		dist := levenshtein.ComputeDistance(req, name)
		prefixed := strings.HasPrefix(name, req) || strings.HasPrefix(req, name)
		if !prefixed && dist > len(req) {
			continue
		}
		if prefixed {
			// A shared prefix is a stronger signal than raw distance; rank
			// these ahead of pure edit-distance matches of equal cost.
			dist = 0
		}
		candidates = append(candidates, candidate{name: m.Name, distance: dist})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})

	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}
