// Package repository persists the kickout log as a single named entry that
// is loaded once and overwritten wholesale on every mutation.
package repository

import (
	"context"

	"github.com/okian/kickout/internal/domain/model"
)

// DefaultKey names the storage entry holding the log.
const DefaultKey = "kickoutData"

// Store reads and writes the whole kickout log.
type Store interface {
	// Load returns the persisted log in insertion order. A missing entry is
	// an empty log; undecodable content returns ErrCorrupt.
	Load(ctx context.Context) ([]model.Record, error)

	// Save overwrites the entry with log.
	Save(ctx context.Context, log []model.Record) error

	// Remove deletes the entry. Removing a missing entry is not an error.
	Remove(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
