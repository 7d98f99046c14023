package repository

import (
	"context"
	"sync"

	"github.com/okian/kickout/internal/domain/model"
)

// MemoryStore keeps the encoded entry in memory. Used for ephemeral boards
// and tests.
type MemoryStore struct {
	mu    sync.Mutex
	entry []byte
	ok    bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load decodes the held entry.
func (s *MemoryStore) Load(_ context.Context) ([]model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ok {
		return nil, nil
	}
	return decode(s.entry)
}

// Save replaces the held entry.
func (s *MemoryStore) Save(_ context.Context, log []model.Record) error {
	b, err := encode(log)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry, s.ok = b, true
	return nil
}

// Remove drops the held entry.
func (s *MemoryStore) Remove(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry, s.ok = nil, false
	return nil
}

// Exists reports whether an entry is held.
func (s *MemoryStore) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ok
}

// SetRaw stores raw bytes as the entry, bypassing the codec.
func (s *MemoryStore) SetRaw(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry, s.ok = append([]byte(nil), b...), true
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
