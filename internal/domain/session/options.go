package session

import (
	"strings"

	"github.com/okian/kickout/internal/domain/prediction"
)

// Option applies a configuration option to the Machine.
type Option func(*Machine)

// WithPlayerCount sets the size of the player grid.
func WithPlayerCount(n int) Option {
	return func(m *Machine) {
		if n > 0 {
			m.playerCount = n
		}
	}
}

// WithSetups restricts setups to a fixed category list. An empty list
// accepts any non-empty setup.
func WithSetups(setups []string) Option {
	return func(m *Machine) {
		m.setups = nil
		for _, s := range setups {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			if m.setups == nil {
				m.setups = make(map[string]struct{}, len(setups))
			}
			m.setups[s] = struct{}{}
		}
	}
}

// WithPredictor sets the predictor used after each recorded kickout.
func WithPredictor(p *prediction.Predictor) Option {
	return func(m *Machine) {
		if p != nil {
			m.predictor = p
		}
	}
}

// WithThreshold sets the confidence used for contradictions and simple view.
func WithThreshold(pct int) Option {
	return func(m *Machine) {
		if pct > 0 && pct <= 100 {
			m.threshold = pct
		}
	}
}
