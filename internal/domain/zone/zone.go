// Package zone maps on-screen zones to the canonical first-half orientation.
package zone

import (
	"fmt"

	"github.com/okian/kickout/internal/domain/model"
)

// mirror is the fixed left/right flip of the six-zone layout.
var mirror = map[model.Zone]model.Zone{
	"1": "6", "2": "5", "3": "4",
	"4": "3", "5": "2", "6": "1",
}

// all lists the zones in display order.
var all = []model.Zone{"1", "2", "3", "4", "5", "6"}

// All returns the known zones in display order.
func All() []model.Zone {
	out := make([]model.Zone, len(all))
	copy(out, all)
	return out
}

// Valid reports whether z is a known zone.
func Valid(z model.Zone) bool {
	_, ok := mirror[z]
	return ok
}

// Mirror returns the zone on the opposite side of the field.
func Mirror(z model.Zone) (model.Zone, error) {
	m, ok := mirror[z]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownZone, string(z))
	}
	return m, nil
}

// Normalize converts a zone clicked during half h to first-half orientation.
func Normalize(raw model.Zone, h model.Half) (model.Zone, error) {
	if !Valid(raw) {
		return "", fmt.Errorf("%w: %q", ErrUnknownZone, string(raw))
	}
	if h == model.SecondHalf {
		return mirror[raw], nil
	}
	return raw, nil
}
