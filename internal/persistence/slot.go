package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultKey is the key of the slot holding the contact collection.
const DefaultKey = "nexus_contacts_v1"

// Slot is a key-value store of text values. A missing key is reported with found == false and no
// error.
type Slot interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string) error
}

// FileSlot keeps every key in its own file inside a directory.
type FileSlot struct {
	dir string
}

var _ Slot = (*FileSlot)(nil)

// NewFileSlot returns a slot that stores its values in dir. The directory is created when needed.
func NewFileSlot(dir string) (*FileSlot, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create slot directory: %w", err)
	}
	return &FileSlot{dir: dir}, nil
}

func (s *FileSlot) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads the file for key.
func (s *FileSlot) Get(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key)) // nosemgrep
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// Set replaces the file for key. The value is written to a temporary file first and then renamed,
// so a reader never sees a partially written value.
func (s *FileSlot) Set(_ context.Context, key string, value string) error {
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(key))
}

// MemorySlot keeps its values in memory. It is used in tests and when the service runs without
// persistence.
type MemorySlot struct {
	mu     sync.Mutex
	values map[string]string
}

var _ Slot = (*MemorySlot)(nil)

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string]string)}
}

func (s *MemorySlot) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, found := s.values[key]
	return value, found, nil
}

func (s *MemorySlot) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
