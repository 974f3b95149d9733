// File: api/schemas/models.go
package schemas

import (
	"fmt"
	"time"
)

// Family identifies a vision-model service provider.
type Family string

const (
	FamilyOpenAI Family = "openai"
	FamilyOllama Family = "ollama"
)

// ModelSource records which precedence rule produced a resolved model name.
type ModelSource string

const (
	// SourceExplicit means the caller named the model directly
	// ("ollama:llava:7b").
	SourceExplicit ModelSource = "explicit"
	// SourceLegacy means a bare model name with no family prefix was given
	// and kept as-is for compatibility.
	SourceLegacy ModelSource = "legacy-default"
	// SourceConfigured means the persisted default model was used.
	SourceConfigured ModelSource = "configured-default"
	// SourceFallback means the hard-coded fallback model was used.
	SourceFallback ModelSource = "fallback"
)

// ModelSpecification is the immutable result of resolving a user-supplied
// model spec string. ModelName is never empty on a successful resolution.
type ModelSpecification struct {
	Raw       string
	Family    Family
	ModelName string
	Source    ModelSource
}

// ModelInfo describes one locally available model on a self-hosted backend.
// Produced only by listing; never mutated.
type ModelInfo struct {
	Name         string
	SizeBytes    int64
	LastModified time.Time
	Family       string
	Format       string
}

// HumanSize renders SizeBytes in the usual binary-stepped units for display.
func (m ModelInfo) HumanSize() string {
	if m.SizeBytes <= 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(m.SizeBytes)
	idx := 0
	for size >= 1024 && idx < len(units)-1 {
		size /= 1024
		idx++
	}
	if idx == 0 {
		return fmt.Sprintf("%d %s", m.SizeBytes, units[idx])
	}
	return fmt.Sprintf("%.1f %s", size, units[idx])
}
