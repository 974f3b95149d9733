// File: internal/backend/factory.go
package backend

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hackparv/operate/api/schemas"
	"github.com/hackparv/operate/internal/config"
)

// New is a factory that creates the backend variant for a resolved model
// specification. The backend set is closed; adding a family means adding one
// variant here, not branching logic at call sites.
func New(cfg config.BackendConfig, spec schemas.ModelSpecification, creds schemas.CredentialProvider, logger *zap.Logger) (schemas.VisionBackend, error) {
	switch spec.Family {
	case schemas.FamilyOpenAI:
		apiKey, err := creds.GetOrAcquire(schemas.FamilyOpenAI)
		if err != nil {
			return nil, err
		}
		return NewOpenAIBackend(cfg, spec.ModelName, apiKey, logger)
	case schemas.FamilyOllama:
		return NewOllamaBackend(cfg, spec.ModelName, logger), nil
	default:
		return nil, fmt.Errorf("unknown or unsupported backend family: %q. Supported: [%s, %s]",
			spec.Family, schemas.FamilyOpenAI, schemas.FamilyOllama)
	}
}
