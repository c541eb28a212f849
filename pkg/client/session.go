package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Session is the persisted sign-in state of a client.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// SessionStore persists the session between runs. Load returns a nil
// session when none is stored.
type SessionStore interface {
	Load() (*Session, error)
	Save(session *Session) error
	Clear() error
}

// MemoryStore keeps the session in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	session *Session
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, nil
	}
	copied := *s.session
	return &copied, nil
}

func (s *MemoryStore) Save(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session == nil {
		s.session = nil
		return nil
	}
	copied := *session
	s.session = &copied
	return nil
}

func (s *MemoryStore) Clear() error {
	return s.Save(nil)
}

// FileStore keeps the session as JSON in a file readable only by its owner.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore stores the session at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *FileStore) Save(session *Session) error {
	if session == nil {
		return s.Clear()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
