package service

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/okian/kickout/internal/adapters/notify"
	"github.com/okian/kickout/internal/adapters/repository"
	"github.com/okian/kickout/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the log store. Defaults to an in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithNotifier sets where board signals are delivered. Defaults to the log.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithClock sets the clock for kickout timestamps and the alert cooldown.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithAlertCooldown sets how long a pattern-broken alert stays latched.
func WithAlertCooldown(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.cooldown = d
		}
	}
}

// WithPersistTimeout bounds each store write.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.persistTimeout = d
		}
	}
}

// WithPlayerCount sets the size of the player grid.
func WithPlayerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.playerCount = n
		}
	}
}

// WithSetups restricts the accepted setup categories.
func WithSetups(setups []string) Option {
	return func(s *Service) {
		s.setups = append([]string(nil), setups...)
	}
}

// WithQueueSize sets the capacity of the signal queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many idempotency keys are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
