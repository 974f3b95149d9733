// File: internal/config/credentials.go
package config

import (
	"fmt"

	"github.com/hackparv/operate/api/schemas"
)

// StoreCredentials resolves backend credentials from the configuration
// (where OPERATE_OPENAI_API_KEY is env-bound) first, then the settings file.
// It implements schemas.CredentialProvider. There is no interactive
// acquisition flow here; a missing key is surfaced as an error naming where
// to put it.
type StoreCredentials struct {
	store *SettingsStore
	// openAIKey is the config-sourced key; it wins over the settings file.
	openAIKey string
}

// NewStoreCredentials wraps a settings store as a credential provider.
// openAIKey comes from BackendConfig.OpenAI.APIKey and may be empty.
func NewStoreCredentials(store *SettingsStore, openAIKey string) *StoreCredentials {
	return &StoreCredentials{store: store, openAIKey: openAIKey}
}

var _ schemas.CredentialProvider = (*StoreCredentials)(nil)

// GetOrAcquire returns the credential for family. The self-hosted backend
// needs no credential and always gets "".
func (c *StoreCredentials) GetOrAcquire(family schemas.Family) (string, error) {
	switch family {
	case schemas.FamilyOllama:
		return "", nil
	case schemas.FamilyOpenAI:
		if c.openAIKey != "" {
			return c.openAIKey, nil
		}
		key, err := c.store.Get(KeyOpenAIAPIKey)
		if err != nil {
			return "", err
		}
		if key == "" {
			return "", fmt.Errorf("no OpenAI API key found: set OPERATE_OPENAI_API_KEY or add %s to %s", KeyOpenAIAPIKey, c.store.Path())
		}
		return key, nil
	default:
		return "", fmt.Errorf("unknown backend family %q", family)
	}
}
