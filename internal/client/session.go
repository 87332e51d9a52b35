// Package client implements the task tracker's client side: an explicit
// session, a thin HTTP API client, and an optimistic in-memory task cache.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/uuid"
)

// Session is the authenticated session state. It is an explicit object
// injected into the API client and the task cache, never ambient state.
type Session struct {
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`

	path string
}

// DefaultSessionPath returns the session file location under the user's
// config directory.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(dir, "taskboard", "session.json"), nil
}

// LoadSession reads a persisted session. A missing file yields an empty,
// unauthenticated session bound to the same path.
func LoadSession(path string) (*Session, error) {
	s := &Session{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return s, nil
}

// Authenticated reports whether the session holds a credential.
func (s *Session) Authenticated() bool {
	return s.AccessToken != ""
}

// Save persists the session to its file with owner-only permissions.
func (s *Session) Save() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear tears the session down: credentials are dropped and the file is
// removed. Used on logout.
func (s *Session) Clear() error {
	s.UserID = uuid.Nil
	s.Email = ""
	s.AccessToken = ""
	s.RefreshToken = ""

	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
