package repository

import (
	"context"
	"time"

	"github.com/okian/kickout/internal/domain/model"
	"github.com/okian/kickout/pkg/metrics"
)

// instrumented records latency and errors for every store operation.
type instrumented struct {
	next   Store
	driver string
}

// Instrument wraps s so its operations are observed under driver.
func Instrument(s Store, driver string) Store {
	return &instrumented{next: s, driver: driver}
}

// Unwrap returns the wrapped store.
func (s *instrumented) Unwrap() Store { return s.next }

func (s *instrumented) observe(op string, start time.Time, err error) {
	metrics.RecordStoreLatency(s.driver, op, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		metrics.RecordStoreError(s.driver, op)
	}
}

func (s *instrumented) Load(ctx context.Context) ([]model.Record, error) {
	start := time.Now()
	log, err := s.next.Load(ctx)
	s.observe("load", start, err)
	return log, err
}

func (s *instrumented) Save(ctx context.Context, log []model.Record) error {
	start := time.Now()
	err := s.next.Save(ctx, log)
	s.observe("save", start, err)
	return err
}

func (s *instrumented) Remove(ctx context.Context) error {
	start := time.Now()
	err := s.next.Remove(ctx)
	s.observe("remove", start, err)
	return err
}

func (s *instrumented) Close() error {
	return s.next.Close()
}
