package replay

import "errors"

// Error constants.
var (
	ErrInvalidConfig = errors.New("invalid replay config")
	ErrUnhealthy     = errors.New("board health check failed")
	ErrRequest       = errors.New("board request failed")
	ErrMismatch      = errors.New("board prediction mismatch")
)
