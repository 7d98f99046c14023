package session

import (
	"errors"

	"github.com/okian/kickout/internal/domain/zone"
)

// Validation errors. Each rejects an operation without touching state.
var (
	ErrMissingCall   = errors.New("enter a call")
	ErrMissingSetup  = errors.New("select a setup")
	ErrUnknownSetup  = errors.New("unknown setup")
	ErrMissingPlayer = errors.New("select the winning player")
	ErrInvalidPlayer = errors.New("player out of range")
	ErrUnknownZone   = zone.ErrUnknownZone
)

// IsValidation reports whether err is a user-facing validation rejection.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrMissingCall, ErrMissingSetup, ErrUnknownSetup,
		ErrMissingPlayer, ErrInvalidPlayer, ErrUnknownZone,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
