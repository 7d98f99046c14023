package zone

import "errors"

// ErrUnknownZone is returned for zones outside the fixed layout.
var ErrUnknownZone = errors.New("unknown zone")
