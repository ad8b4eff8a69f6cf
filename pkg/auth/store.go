package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var (
	// ErrNoSession is returned by Store.Load when no session record exists.
	ErrNoSession = errors.New("no stored session")

	// ErrCorruptRecord is returned when a stored record fails to parse or
	// validate. The store removes the record before returning it.
	ErrCorruptRecord = errors.New("corrupt session record")
)

// Store is the durable session record: a single keyed slot holding the last
// successfully logged-in principal. Absence means logged out.
type Store interface {
	Load() (*Principal, error)
	Save(p *Principal) error
	Clear() error
}

// FileStore persists the session record as a JSON file. Writes go through a
// temp file plus rename so a crash never leaves a half-written record.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed store at path. The parent directory must
// exist.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and validates the stored principal. Malformed content is treated
// as absent: the file is removed and ErrCorruptRecord returned.
func (s *FileStore) Load() (*Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("read session record: %w", err)
	}

	var p Principal
	if err := json.Unmarshal(data, &p); err != nil {
		os.Remove(s.path)
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if err := p.Validate(); err != nil {
		os.Remove(s.path)
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return &p, nil
}

// Save atomically replaces the stored record with p.
func (s *FileStore) Save(p *Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write session record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace session record: %w", err)
	}
	return nil
}

// Clear removes the stored record. Clearing an absent record is a no-op.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session record: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory Store for tests. It round-trips through JSON so
// corruption handling can be exercised the same way as with FileStore.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SetRaw replaces the stored payload with arbitrary bytes. Tests use it to
// plant corrupt records.
func (s *MemoryStore) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
}

// Load implements Store.
func (s *MemoryStore) Load() (*Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return nil, ErrNoSession
	}
	var p Principal
	if err := json.Unmarshal(s.data, &p); err != nil {
		s.data = nil
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if err := p.Validate(); err != nil {
		s.data = nil
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return &p, nil
}

// Save implements Store.
func (s *MemoryStore) Save(p *Principal) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}
