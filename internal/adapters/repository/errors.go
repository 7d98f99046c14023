package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrCorrupt       = errors.New("stored log is corrupt")
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrClosed        = errors.New("store closed")
)
