package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"vibeboxing/internal/model"
)

// Cache keys of the persisted credentials.
const (
	tokenKey = "vibeboxing.auth_token"
	userKey  = "vibeboxing.auth_user"
)

// Credentials are what a client remembers between runs.
type Credentials struct {
	Token string
	User  *model.User
}

// CredentialStore persists credentials. Load returns nil, nil when nothing
// is cached.
type CredentialStore interface {
	Load() (*Credentials, error)
	Save(*Credentials) error
	Clear() error
}

// DefaultCredentialsPath is the credentials file under the user config dir.
func DefaultCredentialsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "vibeboxing", "credentials.json"), nil
}

// FileCredentialStore keeps credentials in a JSON file readable only by the owner.
type FileCredentialStore struct {
	path string
	mu   sync.Mutex
}

// NewFileCredentialStore stores credentials at path.
func NewFileCredentialStore(path string) *FileCredentialStore {
	return &FileCredentialStore{path: path}
}

type credentialsFile struct {
	Token string      `json:"vibeboxing.auth_token,omitempty"`
	User  *model.User `json:"vibeboxing.auth_user,omitempty"`
}

func (s *FileCredentialStore) Load() (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var f credentialsFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	if f.Token == "" && f.User == nil {
		return nil, nil
	}
	return &Credentials{Token: f.Token, User: f.User}, nil
}

func (s *FileCredentialStore) Save(c *Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(credentialsFile{Token: c.Token, User: c.User}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *FileCredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

// MemoryCredentialStore keeps credentials in process.
type MemoryCredentialStore struct {
	mu    sync.Mutex
	creds *Credentials
}

func NewMemoryCredentialStore(initial *Credentials) *MemoryCredentialStore {
	return &MemoryCredentialStore{creds: initial}
}

func (s *MemoryCredentialStore) Load() (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return nil, nil
	}
	c := *s.creds
	return &c, nil
}

func (s *MemoryCredentialStore) Save(c *Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.creds = &cp
	return nil
}

func (s *MemoryCredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = nil
	return nil
}
