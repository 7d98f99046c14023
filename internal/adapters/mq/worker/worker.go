// Package worker drains the signal queue into a notifier.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/kickout/internal/adapters/notify"
	"github.com/okian/kickout/pkg/logger"
	"github.com/okian/kickout/pkg/metrics"
)

const defaultDeliveryTimeout = 5 * time.Second

// Queue defines how the worker receives signals.
type Queue interface {
	Dequeue(ctx context.Context) <-chan notify.Signal
}

// Worker delivers queued signals.
type Worker interface {
	// Run delivers signals until the queue is closed and drained or ctx is canceled.
	Run(ctx context.Context)

	// Shutdown waits for Run to return.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker delivers signals one at a time, preserving queue order.
type InMemoryWorker struct {
	queue    Queue
	notifier notify.Notifier
	name     string
	timeout  time.Duration

	done chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, n notify.Notifier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		notifier: n,
		name:     "notify-worker",
		timeout:  defaultDeliveryTimeout,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	signals := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-signals:
			if !ok {
				return
			}
			if err := w.deliver(ctx, s); err != nil {
				w.logger.Error(ctx, "signal delivery failed", logger.Error(err))
			}
		}
	}
}

// Shutdown waits for the loop to finish. Close the queue first so Run can drain it.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) deliver(ctx context.Context, s notify.Signal) error { //nolint:gocritic // hugeParam: Signal is passed by value off the channel
	start := time.Now()
	if s.CorrelationID != "" {
		ctx = logger.WithCorrelationID(ctx, s.CorrelationID)
	}
	dctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if err := w.notifier.Notify(dctx, s); err != nil {
		metrics.RecordNotifyError()
		metrics.RecordErrorLatency("notify", string(s.Kind), float64(time.Since(start).Milliseconds()))
		return fmt.Errorf("deliver %s: %w", s.Kind, err)
	}
	metrics.RecordNotifyPublished(string(s.Kind))
	return nil
}
