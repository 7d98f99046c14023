// Package service provides the kickout board: it owns the session state,
// persists the log and publishes board signals.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	eventqueue "github.com/okian/kickout/internal/adapters/mq/queue"
	"github.com/okian/kickout/internal/adapters/mq/worker"
	"github.com/okian/kickout/internal/adapters/notify"
	"github.com/okian/kickout/internal/adapters/repository"
	"github.com/okian/kickout/internal/domain/alert"
	"github.com/okian/kickout/internal/domain/dedupe"
	"github.com/okian/kickout/internal/domain/model"
	"github.com/okian/kickout/internal/domain/prediction"
	"github.com/okian/kickout/internal/domain/session"
	"github.com/okian/kickout/internal/domain/view"
	"github.com/okian/kickout/pkg/logger"
	"github.com/okian/kickout/pkg/metrics"
)

const (
	defaultQueueSize  = 1024
	defaultDedupeSize = dedupe.DefaultMaxSize
	stopTimeout       = 5 * time.Second

	defaultPersistTimeout = 5 * time.Second
)

// Snapshot is the read model of the board.
type Snapshot struct {
	Half           string            `json:"half"`
	SecondHalf     bool              `json:"second_half"`
	Player         int               `json:"player"`
	Won            bool              `json:"won"`
	OutcomeText    string            `json:"outcome_text"`
	SimpleView     bool              `json:"simple_view"`
	SimpleViewText string            `json:"simple_view_text"`
	Alert          alert.Status      `json:"alert"`
	Prediction     prediction.Result `json:"prediction"`
	LogSize        int               `json:"log_size"`
	PlayerCount    int               `json:"player_count"`
}

// RecordResult reports what a record request did.
type RecordResult struct {
	Duplicate     bool          `json:"duplicate"`
	Record        *model.Record `json:"record,omitempty"`
	Contradicted  bool          `json:"contradicted"`
	PatternBroken bool          `json:"pattern_broken"`
	ViewChange    string        `json:"view_change"`
	State         Snapshot      `json:"state"`
}

// Service implements the API dependencies for the kickout board.
type Service struct {
	mu sync.Mutex

	machine  *session.Machine
	state    session.State
	store    repository.Store
	deduper  dedupe.Deduper
	latch    *alert.Latch
	queue    eventqueue.Queue
	worker   *worker.InMemoryWorker
	notifier notify.Notifier
	clock    clockwork.Clock

	// Configuration
	cooldown    time.Duration
	playerCount int
	setups      []string
	queueSize   int
	dedupeSize  int

	persistTimeout time.Duration

	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		clock:       clockwork.NewRealClock(),
		cooldown:    alert.DefaultCooldown,
		playerCount: session.DefaultPlayerCount,
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupeSize,
		state:       session.New(),

		persistTimeout: defaultPersistTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the persisted log and starts signal delivery. An undecodable
// log is replaced by an empty one.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.Instrument(repository.NewMemoryStore(), repository.DriverMemory)
	}
	if s.notifier == nil {
		s.notifier = notify.NewLog(s.logger.Named("notify"))
	}

	s.logger.Info(ctx, "starting kickout board...")

	log, err := s.store.Load(ctx)
	switch {
	case errors.Is(err, repository.ErrCorrupt):
		s.logger.Warn(ctx, "persisted kickout log is corrupt, starting empty", logger.Error(err))
		log = nil
	case err != nil:
		return fmt.Errorf("load kickout log: %w", err)
	}

	s.machine = session.NewMachine(
		session.WithPlayerCount(s.playerCount),
		session.WithSetups(s.setups),
	)
	s.state = session.Restore(log)
	s.latch = alert.New(alert.WithClock(s.clock), alert.WithCooldown(s.cooldown))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.worker = worker.NewInMemoryWorker(s.queue, s.notifier, worker.WithLogger(s.logger.Named("worker")))

	// Delivery outlives the start request.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go s.worker.Run(runCtx)

	metrics.UpdateLogSize(len(s.state.Log))

	s.started = true
	s.logger.Info(ctx, "kickout board started",
		logger.Int("kickouts", len(s.state.Log)),
		logger.Int("players", s.playerCount),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop drains pending signals and closes the store and notifier.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping kickout board...")

	_ = s.queue.Close()
	shutdownCtx, cancel := context.WithTimeout(ctx, stopTimeout)
	if err := s.worker.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "signal worker did not drain", logger.Error(err))
	}
	cancel()
	s.cancel()

	if err := s.notifier.Close(); err != nil {
		s.logger.Error(ctx, "close notifier", logger.Error(err))
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error(ctx, "close store", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "kickout board stopped")
}

// Record validates and appends one kickout. A non-empty key that was already
// used returns the current state with Duplicate set and appends nothing.
func (s *Service) Record(ctx context.Context, in session.Input, key string) (RecordResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return RecordResult{}, ErrNotStarted
	}

	if key != "" && s.deduper.SeenAndRecord(ctx, key) {
		metrics.RecordDuplicate()
		s.logger.Debug(ctx, "duplicate kickout submission", logger.String("key", key))
		return RecordResult{Duplicate: true, ViewChange: view.Unchanged.String(), State: s.snapshotLocked()}, nil
	}

	next, out, err := s.machine.Record(s.state, in, s.clock.Now())
	if err != nil {
		s.forget(ctx, key)
		metrics.RecordRejection(rejectionReason(err))
		return RecordResult{}, fmt.Errorf("record kickout: %w", err)
	}

	if err := s.persist(ctx, func(pctx context.Context) error { return s.store.Save(pctx, next.Log) }); err != nil {
		s.forget(ctx, key)
		s.logger.Error(ctx, "persist kickout log", logger.Error(err))
		return RecordResult{}, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.state = next

	fired := false
	if out.Contradicted {
		fired = s.latch.Trigger()
		metrics.RecordPatternBroken(fired)
	}

	metrics.RecordKickout(out.Record.Won)
	metrics.RecordPrediction(out.Prediction.Building, out.Prediction.Confidence)
	metrics.UpdateLogSize(len(s.state.Log))
	if out.ViewChange != view.Unchanged {
		metrics.RecordSimpleViewSwitch(out.ViewChange.String())
	}

	rec := out.Record
	s.logger.Info(ctx, "kickout recorded",
		logger.String("call", rec.Call),
		logger.String("setup", rec.Setup),
		logger.String("zone", string(rec.Zone)),
		logger.Bool("won", rec.Won),
		logger.String("prediction", out.Prediction.Text),
	)

	if fired {
		s.publish(ctx, notify.Signal{
			Kind:       notify.KindPatternBroken,
			Call:       rec.Call,
			Setup:      rec.Setup,
			Zone:       out.Previous.Zone,
			Confidence: out.Previous.Confidence,
			Record:     &rec,
		})
	}
	if !out.Prediction.Building {
		s.publish(ctx, notify.Signal{
			Kind:       notify.KindPrediction,
			Call:       out.Prediction.Call,
			Setup:      out.Prediction.Setup,
			Zone:       out.Prediction.Zone,
			Confidence: out.Prediction.Confidence,
			Samples:    out.Prediction.Samples,
			Text:       out.Prediction.Text,
		})
	}

	return RecordResult{
		Record:        &rec,
		Contradicted:  out.Contradicted,
		PatternBroken: fired,
		ViewChange:    out.ViewChange.String(),
		State:         s.snapshotLocked(),
	}, nil
}

// Predict computes the prediction for call and setup without changing state.
func (s *Service) Predict(_ context.Context, call, setup string) (prediction.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return prediction.Result{}, ErrNotStarted
	}
	return s.machine.Predict(s.state, call, setup), nil
}

// Snapshot returns the current board.
func (s *Service) Snapshot(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return Snapshot{}, ErrNotStarted
	}
	return s.snapshotLocked(), nil
}

// Log returns a copy of the kickout log in insertion order.
func (s *Service) Log(_ context.Context) ([]model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return slices.Clone(s.state.Log), nil
}

// ToggleHalf flips the half used to orient clicked zones.
func (s *Service) ToggleHalf(ctx context.Context) (Snapshot, error) {
	return s.transition(ctx, "half toggled", session.ToggleHalf)
}

// ToggleOutcome flips the outcome applied to the next kickout.
func (s *Service) ToggleOutcome(ctx context.Context) (Snapshot, error) {
	return s.transition(ctx, "outcome toggled", session.ToggleOutcome)
}

// ToggleSimpleView flips simple view manually.
func (s *Service) ToggleSimpleView(ctx context.Context) (Snapshot, error) {
	return s.transition(ctx, "simple view toggled", session.ToggleSimpleView)
}

// SelectPlayer selects the winning player for the next kickout.
func (s *Service) SelectPlayer(ctx context.Context, n int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return Snapshot{}, ErrNotStarted
	}
	next, err := s.machine.SelectPlayer(s.state, n)
	if err != nil {
		metrics.RecordRejection(rejectionReason(err))
		return Snapshot{}, fmt.Errorf("select player: %w", err)
	}
	s.state = next
	s.logger.Debug(ctx, "player selected", logger.Int("player", n))
	return s.snapshotLocked(), nil
}

// DismissAlert hides the pattern-broken banner. The cooldown keeps running.
func (s *Service) DismissAlert(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return Snapshot{}, ErrNotStarted
	}
	s.latch.Dismiss()
	return s.snapshotLocked(), nil
}

// Clear empties the log and removes the persisted entry. It refuses to run
// unless confirm is true.
func (s *Service) Clear(ctx context.Context, confirm bool) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return Snapshot{}, ErrNotStarted
	}
	if !confirm {
		return Snapshot{}, ErrConfirmationRequired
	}
	if err := s.persist(ctx, s.store.Remove); err != nil {
		s.logger.Error(ctx, "remove kickout log", logger.Error(err))
		return Snapshot{}, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	removed := len(s.state.Log)
	s.state = session.Clear(s.state)
	s.deduper.Reset(ctx)

	metrics.RecordClear()
	metrics.UpdateLogSize(0)
	s.logger.Info(ctx, "match data cleared", logger.Int("kickouts", removed))
	s.publish(ctx, notify.Signal{Kind: notify.KindCleared, Text: prediction.ClearedText})

	return s.snapshotLocked(), nil
}

// Setups returns the configured setup categories and player count.
func (s *Service) Setups() ([]string, int) {
	return slices.Clone(s.setups), s.playerCount
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"playerCount": s.playerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"cooldownMs":  s.cooldown.Milliseconds(),
	}
	if s.started {
		fired, suppressed := s.latch.Counts()
		stats["kickouts"] = len(s.state.Log)
		stats["queueLength"] = s.queue.Len(context.Background())
		stats["idempotencyKeys"] = s.deduper.Size()
		stats["alertsFired"] = fired
		stats["alertsSuppressed"] = suppressed
		metrics.UpdateLogSize(len(s.state.Log))
	}
	return stats
}

func (s *Service) transition(ctx context.Context, msg string, fn func(session.State) session.State) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return Snapshot{}, ErrNotStarted
	}
	s.state = fn(s.state)
	s.logger.Debug(ctx, msg)
	return s.snapshotLocked(), nil
}

func (s *Service) snapshotLocked() Snapshot {
	st := s.state
	return Snapshot{
		Half:           st.Half.String(),
		SecondHalf:     st.Half == model.SecondHalf,
		Player:         st.Player,
		Won:            st.Won,
		OutcomeText:    st.OutcomeText(),
		SimpleView:     st.View.On,
		SimpleViewText: st.View.ToggleText(),
		Alert:          s.latch.Status(),
		Prediction:     st.Prediction,
		LogSize:        len(st.Log),
		PlayerCount:    s.machine.PlayerCount(),
	}
}

func (s *Service) forget(ctx context.Context, key string) {
	if key != "" {
		s.deduper.Unrecord(ctx, key)
	}
}

// persist runs a store write that ignores the caller's cancellation and is
// bounded by persistTimeout.
func (s *Service) persist(ctx context.Context, write func(context.Context) error) error {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
	defer cancel()
	return write(pctx)
}

// publish hands a signal to the queue. A full queue drops it.
func (s *Service) publish(ctx context.Context, sig notify.Signal) {
	sig.At = s.clock.Now()
	if id, ok := logger.CorrelationID(ctx); ok {
		sig.CorrelationID = id
	}
	if err := s.queue.Enqueue(context.WithoutCancel(ctx), sig); err != nil {
		s.logger.Warn(ctx, "board signal dropped",
			logger.String("kind", string(sig.Kind)),
			logger.Error(err),
		)
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, session.ErrMissingCall):
		return "missing_call"
	case errors.Is(err, session.ErrMissingSetup):
		return "missing_setup"
	case errors.Is(err, session.ErrUnknownSetup):
		return "unknown_setup"
	case errors.Is(err, session.ErrMissingPlayer):
		return "missing_player"
	case errors.Is(err, session.ErrInvalidPlayer):
		return "invalid_player"
	case errors.Is(err, session.ErrUnknownZone):
		return "unknown_zone"
	default:
		return "other"
	}
}
