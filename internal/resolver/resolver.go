// File: internal/resolver/resolver.go
package resolver

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/hackparv/operate/api/schemas"
)

// Hard-coded fallback models used when neither a CLI override nor a
// configured default exists for a bare family spec.
const (
	FallbackOllamaModel = "llava"
	FallbackOpenAIModel = "gpt-4o"
)

// Options carries the precedence inputs for an auto-resolve spec. The CLI
// override always beats the configured persisted default.
type Options struct {
	CLIOverride string
	// ConfiguredDefault is the persisted default model. It was saved for one
	// family (ConfiguredFamily) and never applies to any other, so an ollama
	// default cannot leak into an openai auto-resolve.
	ConfiguredDefault string
	ConfiguredFamily  schemas.Family
}

// Resolver parses model specification strings and fixes the active
// backend/model for a session. Resolution is pure: the same spec with
// identical options always yields the same ModelSpecification.
type Resolver struct {
	defaultFamily schemas.Family
	logger        *zap.Logger
}

// New creates a resolver. defaultFamily governs bare legacy model names.
func New(defaultFamily schemas.Family, logger *zap.Logger) *Resolver {
	return &Resolver{
		defaultFamily: defaultFamily,
		logger:        logger.Named("resolver"),
	}
}

// Resolve parses spec against the supported grammars, in precedence order:
//
//  1. Explicit: "<family>:<model>[:<tag>]" — the named model, unmodified.
//  2. Auto-resolve: a bare family name — CLI override, then configured
//     default, then the hard-coded fallback.
//  3. Legacy: a bare model name — kept as-is under the default family.
func (r *Resolver) Resolve(spec string, opts Options) (schemas.ModelSpecification, error) {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return schemas.ModelSpecification{}, &InvalidSpecError{Spec: spec, Reason: "empty specification"}
	}

	// Explicit: a recognized family prefix followed by a model name.
	if head, rest, ok := strings.Cut(trimmed, ":"); ok {
		if family, known := knownFamily(head); known {
			if rest == "" {
				return schemas.ModelSpecification{}, &InvalidSpecError{
					Spec:   spec,
					Reason: "model name cannot be empty after the family prefix",
				}
			}
			r.logger.Debug("Resolved explicit model spec",
				zap.String("spec", trimmed),
				zap.String("family", string(family)),
				zap.String("model", rest),
			)
			return schemas.ModelSpecification{
				Raw:       trimmed,
				Family:    family,
				ModelName: rest,
				Source:    schemas.SourceExplicit,
			}, nil
		}
		// Unrecognized prefix: the colon belongs to a model tag
		// ("llava:7b"); fall through to the legacy grammar.
	}

	// Auto-resolve: the bare family name with no model part.
	if family, known := knownFamily(trimmed); known {
		return r.autoResolve(trimmed, family, opts), nil
	}

	// Legacy: a bare model name, preserved for compatibility.
	r.logger.Debug("Resolved legacy model spec", zap.String("model", trimmed))
	return schemas.ModelSpecification{
		Raw:       trimmed,
		Family:    r.defaultFamily,
		ModelName: trimmed,
		Source:    schemas.SourceLegacy,
	}, nil
}

func (r *Resolver) autoResolve(raw string, family schemas.Family, opts Options) schemas.ModelSpecification {
	result := schemas.ModelSpecification{Raw: raw, Family: family}

	switch {
	case opts.CLIOverride != "":
		result.ModelName = opts.CLIOverride
		result.Source = schemas.SourceExplicit
	case opts.ConfiguredDefault != "" && opts.ConfiguredFamily == family:
		result.ModelName = opts.ConfiguredDefault
		result.Source = schemas.SourceConfigured
	default:
		result.ModelName = fallbackModel(family)
		result.Source = schemas.SourceFallback
	}

	r.logger.Debug("Auto-resolved model spec",
		zap.String("family", string(family)),
		zap.String("model", result.ModelName),
		zap.String("source", string(result.Source)),
	)
	return result
}

// EnsureAvailable validates the resolved model against the backend: listing
// membership for self-hosted backends, a lightweight probe for remote ones.
// A missing model yields a ModelNotFoundError carrying suggestions drawn
// from the available set.
func (r *Resolver) EnsureAvailable(ctx context.Context, b schemas.VisionBackend, spec schemas.ModelSpecification) error {
	ok, err := b.Validate(ctx, spec.ModelName)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	var suggestions []string
	if available, listErr := b.ListModels(ctx); listErr == nil {
		suggestions = Suggest(spec.ModelName, available)
	}
	return &ModelNotFoundError{
		Model:       spec.ModelName,
		Family:      spec.Family,
		Suggestions: suggestions,
	}
}

func knownFamily(s string) (schemas.Family, bool) {
	switch schemas.Family(s) {
	case schemas.FamilyOpenAI:
		return schemas.FamilyOpenAI, true
	case schemas.FamilyOllama:
		return schemas.FamilyOllama, true
	}
	return "", false
}

func fallbackModel(family schemas.Family) string {
	if family == schemas.FamilyOpenAI {
		return FallbackOpenAIModel
	}
	return FallbackOllamaModel
}
