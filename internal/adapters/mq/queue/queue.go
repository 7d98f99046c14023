// Package queue buffers board signals between the service and the notifier.
package queue

import (
	"context"
	"sync"

	"github.com/okian/kickout/internal/adapters/notify"
	"github.com/okian/kickout/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Signal is the queued item.
type Signal = notify.Signal

// Queue is a bounded FIFO of signals.
type Queue interface {
	// Enqueue adds s without blocking. It returns ErrFull or ErrClosed when s is dropped.
	Enqueue(ctx context.Context, s Signal) error

	// Dequeue returns the receive side. It is closed after Close once drained.
	Dequeue(ctx context.Context) <-chan Signal

	Len(ctx context.Context) int

	Close() error

	IsClosed() bool
}

// InMemoryQueue is a channel-backed Queue.
type InMemoryQueue struct {
	signals  chan Signal
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue with the given options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.signals = make(chan Signal, q.capacity)

	metrics.UpdateNotifyQueueCapacity(q.capacity)
	metrics.UpdateNotifyQueueSize(0)

	return q
}

// Enqueue adds s without blocking. A full or closed queue drops it.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s Signal) error { //nolint:gocritic // hugeParam: Signal must be passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordNotifyDropped()
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordNotifyDropped()
		return err
	}

	select {
	case q.signals <- s:
		metrics.RecordNotifyEnqueued()
		metrics.UpdateNotifyQueueSize(len(q.signals))
		return nil
	default:
		metrics.RecordNotifyDropped()
		metrics.RecordErrorByType("queue_full", "low")
		return ErrFull
	}
}

// Dequeue returns the channel the worker reads signals from.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Signal {
	return q.signals
}

// Len returns the number of queued signals.
func (q *InMemoryQueue) Len(_ context.Context) int {
	n := len(q.signals)
	metrics.UpdateNotifyQueueSize(n)
	return n
}

// Close stops accepting signals. Queued signals remain readable.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.signals)
	q.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
