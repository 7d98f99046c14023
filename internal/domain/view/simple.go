// Package view holds the simple view display mode and its automatic
// switching on confidence threshold crossings.
package view

// Toggle texts.
const (
	EnterText = "Simple View"
	ExitText  = "Exit Simple View"
)

// Change describes what a confidence observation did to the mode.
type Change int

// Possible changes.
const (
	Unchanged Change = iota
	ForcedOn
	ForcedOff
)

// String returns a label for logs and notifications.
func (c Change) String() string {
	switch c {
	case ForcedOn:
		return "forced_on"
	case ForcedOff:
		return "forced_off"
	default:
		return "unchanged"
	}
}

// Simple is the simple view mode. The zero value is off, below threshold.
type Simple struct {
	On    bool `json:"on"`
	Above bool `json:"above"` // last observed confidence was at or above threshold
}

// Toggle flips the mode manually.
func (s Simple) Toggle() Simple {
	s.On = !s.On
	return s
}

// Observe applies a new confidence value. The mode is only forced when the
// confidence crosses threshold; manual choices survive otherwise.
func (s Simple) Observe(confidence, threshold int) (Simple, Change) {
	above := confidence >= threshold
	crossed := above != s.Above
	s.Above = above
	if !crossed {
		return s, Unchanged
	}
	switch {
	case above && !s.On:
		s.On = true
		return s, ForcedOn
	case !above && s.On:
		s.On = false
		return s, ForcedOff
	}
	return s, Unchanged
}

// ToggleText is the label for the manual toggle control.
func (s Simple) ToggleText() string {
	if s.On {
		return ExitText
	}
	return EnterText
}
