// Package session holds the credentials used to talk to the backend.
//
// A [Session] is an explicit value passed to the gateway; nothing in areactl
// reads credentials from a global. [Store] persists the session between
// invocations as a small YAML file readable only by the current user.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PathEnv overrides the session file location.
const PathEnv = "AREACTL_SESSION_PATH"

// FileName is the session file name inside the config directory.
const FileName = "session.yaml"

// Session is an authenticated identity on the backend.
type Session struct {
	// Token is the bearer token returned by sign-in. Empty means anonymous.
	Token string `yaml:"token"`

	// Email is the account the token was issued for, kept for display.
	Email string `yaml:"email,omitempty"`
}

// Authenticated reports whether the session carries a token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// ResolvePath returns the session file location.
//
// Resolution order:
//  1. AREACTL_SESSION_PATH environment variable
//  2. explicit path (usually from config)
//  3. <user config dir>/areactl/session.yaml
func ResolvePath(explicit string) (string, error) {
	if envPath := os.Getenv(PathEnv); envPath != "" {
		return envPath, nil
	}
	if explicit != "" {
		return explicit, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "areactl", FileName), nil
}

// Store reads and writes a session file.
type Store struct {
	path string
}

// NewStore creates a [Store] for the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the session file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the stored session. A missing file yields an anonymous session.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	return &sess, nil
}

// Save writes the session atomically (temp file, then rename) with 0600 permissions.
func (s *Store) Save(sess *Session) error {
	data, err := yaml.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
