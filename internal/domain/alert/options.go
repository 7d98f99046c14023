package alert

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Option applies a configuration option to the Latch.
type Option func(*Latch)

// WithClock sets the clock driving the cooldown timer.
func WithClock(c clockwork.Clock) Option {
	return func(l *Latch) {
		if c != nil {
			l.clock = c
		}
	}
}

// WithCooldown sets the suppression interval after a fired alert.
func WithCooldown(d time.Duration) Option {
	return func(l *Latch) {
		if d > 0 {
			l.cooldown = d
		}
	}
}
