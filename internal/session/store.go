package session

import (
	"encoding/json"                // JSON encoding/decoding
	"errors"                       // Error inspection
	"fmt"                          // Error wrapping
	"mobil_market/internal/domain" // Importing domain models
	"os"                           // Files
	"path/filepath"                // Paths
)

// ErrCorrupt is returned when persisted session data cannot be used
var ErrCorrupt = errors.New("corrupt session data")

// Persisted is what survives an application restart
type Persisted struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// Store persists the logged-in user between runs
type Store interface {
	// Load returns nil, nil when nothing is stored
	Load() (*Persisted, error)
	Save(Persisted) error
	Clear() error
}

// FileStore keeps the session as a JSON file
type FileStore struct {
	path string
}

// NewFileStore stores the session at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath is the per-user session file location
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mobil_market", "session.json"), nil
}

// Load reads the stored session
func (s *FileStore) Load() (*Persisted, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var p Persisted
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if p.User.ID == "" || p.User.Username == "" {
		return nil, fmt.Errorf("%w: missing user", ErrCorrupt)
	}
	return &p, nil
}

// Save writes the session, replacing any previous one
func (s *FileStore) Save(p Persisted) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Clear removes the stored session
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// MemoryStore keeps the session in memory
type MemoryStore struct {
	data *Persisted
}

// Load returns the stored session
func (m *MemoryStore) Load() (*Persisted, error) {
	if m.data == nil {
		return nil, nil
	}
	p := *m.data
	return &p, nil
}

// Save stores the session
func (m *MemoryStore) Save(p Persisted) error {
	m.data = &p
	return nil
}

// Clear drops the session
func (m *MemoryStore) Clear() error {
	m.data = nil
	return nil
}
