package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/okian/kickout/internal/domain/model"
)

// File permission constants.
const (
	dirPermission  = 0o750
	filePermission = 0o600
)

// FileStore keeps the log in <dir>/<key>.json.
type FileStore struct {
	mu     sync.Mutex
	dir    string
	path   string
	closed bool
}

// NewFileStore creates the directory if needed and returns a FileStore.
func NewFileStore(dir, key string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if key == "" {
		key = DefaultKey
	}
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return nil, fmt.Errorf("file store: create dir: %w", err)
	}
	return &FileStore{dir: dir, path: filepath.Join(dir, key+".json")}, nil
}

// Path returns the file holding the entry.
func (s *FileStore) Path() string { return s.path }

// Load reads the entry file.
func (s *FileStore) Load(_ context.Context) ([]model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file store: read: %w", err)
	}
	return decode(b)
}

// Save writes the entry through a temp file and rename.
func (s *FileStore) Save(_ context.Context, log []model.Record) error {
	b, err := encode(log)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	tmp, err := os.CreateTemp(s.dir, ".kickout-*.tmp")
	if err != nil {
		return fmt.Errorf("file store: temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file store: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file store: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file store: close: %w", err)
	}
	if err := os.Chmod(tmpName, filePermission); err != nil {
		return fmt.Errorf("file store: chmod: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("file store: rename: %w", err)
	}
	return nil
}

// Remove deletes the entry file.
func (s *FileStore) Remove(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file store: remove: %w", err)
	}
	return nil
}

// Close marks the store closed.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
