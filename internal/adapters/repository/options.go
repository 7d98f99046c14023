package repository

import (
	"context"
	"fmt"
	"strings"
)

// Storage drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Options selects and configures a storage backend.
type Options struct {
	Driver string // file, sqlite, redis or memory
	Path   string // directory for the file driver
	DSN    string // sqlite data source name
	URL    string // redis URL
	Key    string // entry name, DefaultKey when empty
}

// Drivers lists the supported storage drivers.
func Drivers() []string {
	return []string{DriverFile, DriverSQLite, DriverRedis, DriverMemory}
}

// Open builds the store selected by opts.Driver, instrumented with metrics.
func Open(ctx context.Context, opts Options) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	var (
		s   Store
		err error
	)
	switch driver {
	case "", DriverFile:
		driver = DriverFile
		s, err = NewFileStore(opts.Path, opts.Key)
	case DriverSQLite:
		s, err = NewSQLiteStore(ctx, opts.DSN, opts.Key)
	case DriverRedis:
		s, err = NewRedisStore(ctx, opts.URL, opts.Key)
	case DriverMemory:
		s = NewMemoryStore()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, driver), nil
}
