package sessionstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"orchid-storefront/internal/domain"
)

var (
	ErrNoSession = errors.New("no persisted session")
)

// Record is the persisted session state. The three values travel together:
// a save or clear replaces the whole record, never a single field on disk.
type Record struct {
	User         *domain.User `json:"orchid_user"`
	AccessToken  string       `json:"orchid_access_token"`
	RefreshToken string       `json:"orchid_refresh_token"`
}

// Store is the persisted session store. It survives process restarts and
// is written only by the session manager and the expiry listener.
type Store interface {
	// Save replaces the whole persisted record.
	Save(rec Record) error
	// SaveTokens persists the token pair without an identity. Used between
	// the two phases of login, when the profile fetch must already be
	// authenticated.
	SaveTokens(accessToken, refreshToken string) error
	// Load returns the persisted record, or ErrNoSession when nothing is
	// stored. A corrupted record is cleared and reported as ErrNoSession.
	Load() (Record, error)
	// Clear removes all persisted session state. Idempotent.
	Clear() error
}

type fileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a session store backed by a single JSON file at
// path. Writes go through a temp file and rename so a crash never leaves a
// partially written record.
func NewFileStore(path string) Store {
	return &fileStore{path: path}
}

func (s *fileStore) Save(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(rec)
}

func (s *fileStore) SaveTokens(accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(Record{AccessToken: accessToken, RefreshToken: refreshToken})
}

func (s *fileStore) Load() (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, ErrNoSession
		}
		return Record{}, fmt.Errorf("failed to read session file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		// Corrupted record: clear rather than surface half a session
		_ = os.Remove(s.path)
		return Record{}, ErrNoSession
	}

	if rec.AccessToken == "" {
		return Record{}, ErrNoSession
	}

	return rec, nil
}

func (s *fileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session file: %w", err)
	}
	return nil
}

func (s *fileStore) write(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session record: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write session record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp session file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

type memoryStore struct {
	mu  sync.Mutex
	rec *Record
}

// NewMemoryStore creates an in-memory session store. Intended for tests
// and short-lived tools that should not touch the filesystem.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (s *memoryStore) Save(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = &rec
	return nil
}

func (s *memoryStore) SaveTokens(accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = &Record{AccessToken: accessToken, RefreshToken: refreshToken}
	return nil
}

func (s *memoryStore) Load() (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil || s.rec.AccessToken == "" {
		return Record{}, ErrNoSession
	}
	return *s.rec, nil
}

func (s *memoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = nil
	return nil
}
