// Package notify delivers board signals (pattern broken, new prediction,
// cleared) to external observers.
package notify

import (
	"context"
	"time"

	"github.com/okian/kickout/internal/domain/model"
)

// Kind names a signal.
type Kind string

// Signal kinds.
const (
	KindPatternBroken Kind = "pattern_broken"
	KindPrediction    Kind = "prediction"
	KindCleared       Kind = "cleared"
)

// Signal is one board event for observers.
type Signal struct {
	Kind          Kind          `json:"kind"`
	Call          string        `json:"call,omitempty"`
	Setup         string        `json:"setup,omitempty"`
	Zone          model.Zone    `json:"zone,omitempty"`
	Confidence    int           `json:"confidence,omitempty"`
	Samples       int           `json:"samples,omitempty"`
	Text          string        `json:"text,omitempty"`
	Record        *model.Record `json:"record,omitempty"`
	At            time.Time     `json:"at"`
	CorrelationID string        `json:"correlation_id,omitempty"`
}

// Notifier delivers a signal.
type Notifier interface {
	Notify(ctx context.Context, s Signal) error
	Close() error
}
