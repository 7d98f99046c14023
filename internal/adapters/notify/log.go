package notify

import (
	"context"
	"errors"

	"github.com/okian/kickout/pkg/logger"
)

// Log writes every signal to a logger. It is the default notifier.
type Log struct {
	log logger.Logger
}

// NewLog returns a notifier logging through l, or the global logger when l is nil.
func NewLog(l logger.Logger) *Log {
	if l == nil {
		l = logger.Get().Named("notify")
	}
	return &Log{log: l}
}

// Notify writes s to the log.
func (n *Log) Notify(ctx context.Context, s Signal) error {
	n.log.Info(ctx, "board signal",
		logger.String("kind", string(s.Kind)),
		logger.String("call", s.Call),
		logger.String("setup", s.Setup),
		logger.String("zone", string(s.Zone)),
		logger.Int("confidence", s.Confidence),
		logger.String("text", s.Text),
	)
	return nil
}

// Close is a no-op.
func (n *Log) Close() error { return nil }

// Multi fans a signal out to several notifiers and joins their errors.
type Multi []Notifier

// Notify delivers s to every notifier and joins their errors.
func (m Multi) Notify(ctx context.Context, s Signal) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every notifier and joins their errors.
func (m Multi) Close() error {
	var errs []error
	for _, n := range m {
		if err := n.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
