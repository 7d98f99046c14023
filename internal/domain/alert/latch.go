// Package alert implements the pattern-broken signal: a one-shot latch that
// suppresses re-triggers until a fixed cooldown elapses.
package alert

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultCooldown is how long a fired alert suppresses further alerts.
const DefaultCooldown = 4 * time.Second

// Status is a point-in-time view of the latch.
type Status struct {
	Active  bool      `json:"active"`  // cooldown running
	Visible bool      `json:"visible"` // banner shown
	FiredAt time.Time `json:"fired_at,omitzero"`
	Until   time.Time `json:"until,omitzero"`
}

// Latch is a timed one-shot latch. The zero value is not usable; use New.
type Latch struct {
	mu       sync.Mutex
	clock    clockwork.Clock
	cooldown time.Duration

	held    bool
	visible bool
	firedAt time.Time
	fired   uint64
	dropped uint64
}

// New creates a latch using the real clock and DefaultCooldown.
func New(opts ...Option) *Latch {
	l := &Latch{
		clock:    clockwork.NewRealClock(),
		cooldown: DefaultCooldown,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Trigger fires the alert unless a cooldown is running. It returns true when
// the alert fired. Triggers during the cooldown are ignored and do not
// extend it.
func (l *Latch) Trigger() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held {
		l.dropped++
		return false
	}
	l.held = true
	l.visible = true
	l.firedAt = l.clock.Now()
	l.fired++
	l.clock.AfterFunc(l.cooldown, l.release)
	return true
}

func (l *Latch) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
	l.visible = false
}

// Dismiss hides the banner. The cooldown keeps running.
func (l *Latch) Dismiss() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visible = false
}

// Held reports whether the cooldown is running.
func (l *Latch) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}

// Status returns the current latch state.
func (l *Latch) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := Status{Active: l.held, Visible: l.visible}
	if l.held {
		s.FiredAt = l.firedAt
		s.Until = l.firedAt.Add(l.cooldown)
	}
	return s
}

// Counts returns how many triggers fired and how many were suppressed.
func (l *Latch) Counts() (fired, suppressed uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fired, l.dropped
}
