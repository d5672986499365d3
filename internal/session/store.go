// Package session holds the process-wide authentication state: a single
// writer (the auth flow) mutates it, every grid component reads it.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/hubdeck/hubdeck/internal/log"
)

// credential is the persisted bearer token.
type credential struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"savedAt"`
}

// Store persists the bearer credential across runs.
type Store struct {
	path string
}

// NewStore creates a credential store under the user config directory.
func NewStore() (*Store, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(configDir, "hubdeck")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	return NewStoreWithPath(filepath.Join(dir, "credential.json")), nil
}

// NewStoreWithPath creates a store at an explicit path (used in tests).
func NewStoreWithPath(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted token, returning "" when none is saved.
func (s *Store) Load() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Debug("could not read credential", "error", err)
		}
		return ""
	}

	var cred credential
	if err := json.Unmarshal(data, &cred); err != nil {
		log.Warn("credential file unreadable, ignoring", "error", err)
		return ""
	}
	return cred.Token
}

// Save persists the token.
func (s *Store) Save(token string) error {
	data, err := json.MarshalIndent(credential{Token: token, SavedAt: time.Now()}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Clear removes the persisted token. A missing file is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
