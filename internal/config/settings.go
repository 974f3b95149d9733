// File: internal/config/settings.go
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
)

// Settings keys persisted in the settings file.
const (
	KeyDefaultOllamaModel = "DEFAULT_OLLAMA_MODEL"
	KeyOpenAIAPIKey       = "OPENAI_API_KEY"
)

// SettingsStore persists small KEY=VALUE entries (the configured default
// model, API keys) in a local settings file. Writes replace the whole file;
// last writer wins. Concurrent writers are not expected in normal use.
type SettingsStore struct {
	path string
}

// NewSettingsStore opens the store at an explicit path. An empty path
// resolves to ~/.operate/settings.
func NewSettingsStore(path string) (*SettingsStore, error) {
	if path == "" {
		home, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".operate", "settings")
	}
	return &SettingsStore{path: path}, nil
}

// Path returns the backing file location.
func (s *SettingsStore) Path() string { return s.path }

// Get returns the value for key, or "" when the key (or the whole file) is
// absent. A missing settings file is not an error.
func (s *SettingsStore) Get(key string) (string, error) {
	entries, err := s.load()
	if err != nil {
		return "", err
	}
	return entries[key], nil
}

// Set writes key=value, preserving all other entries.
func (s *SettingsStore) Set(key, value string) error {
	entries, err := s.load()
	if err != nil {
		return err
	}
	entries[key] = value
	return s.save(entries)
}

// DefaultModel returns the persisted default model name, or "".
func (s *SettingsStore) DefaultModel() (string, error) {
	return s.Get(KeyDefaultOllamaModel)
}

// SetDefaultModel persists name as the configured default model.
func (s *SettingsStore) SetDefaultModel(name string) error {
	return s.Set(KeyDefaultOllamaModel, name)
}

func (s *SettingsStore) load() (map[string]string, error) {
	entries := make(map[string]string)

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return nil, fmt.Errorf("failed to open settings file %s: %w", s.path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			// Tolerate junk lines rather than failing the whole session.
			continue
		}
		entries[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", s.path, err)
	}
	return entries, nil
}

func (s *SettingsStore) save(entries map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, entries[k])
	}

	// 0600: the file may hold API keys.
	if err := os.WriteFile(s.path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write settings file %s: %w", s.path, err)
	}
	return nil
}
