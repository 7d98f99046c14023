// Package session holds the board state and the pure transitions applied to
// it: recording a kickout, toggles, player selection and clearing.
package session

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/okian/kickout/internal/domain/model"
	"github.com/okian/kickout/internal/domain/prediction"
	"github.com/okian/kickout/internal/domain/view"
	"github.com/okian/kickout/internal/domain/zone"
)

// Defaults.
const (
	DefaultPlayerCount = 30
	NoPlayer           = 0
)

// Outcome toggle texts.
const (
	WonText  = "Kickout WON"
	LostText = "Kickout LOST"

	ClearPrompt = "Clear all match data?"
)

// State is the whole board. Transitions never mutate a State in place.
type State struct {
	Log        []model.Record    // append-only kickout log
	Half       model.Half        // half used to normalize clicked zones
	Player     int               // selected player, NoPlayer when none
	Won        bool              // outcome applied to the next kickout
	View       view.Simple       // simple view mode
	Memory     prediction.Memory // last non-building prediction
	Prediction prediction.Result // last displayed prediction
}

// New returns an empty board in the first half with the outcome set to won.
func New() State {
	return State{
		Won: true,
		Prediction: prediction.Result{
			Building: true,
			Text:     prediction.BuildingText,
			Heat:     prediction.Baseline(),
		},
	}
}

// Restore returns a fresh board holding a previously persisted log.
func Restore(log []model.Record) State {
	s := New()
	s.Log = slices.Clip(log)
	return s
}

// OutcomeText is the label of the outcome toggle.
func (s State) OutcomeText() string {
	if s.Won {
		return WonText
	}
	return LostText
}

// Input is one kickout as entered on the board.
type Input struct {
	Call  string
	Setup string
	Zone  model.Zone // zone as clicked, in the current half's orientation

	// Optional per-request overrides of the board selection.
	Player *int
	Won    *bool
}

// Outcome reports what recording a kickout did.
type Outcome struct {
	Record       model.Record
	Previous     prediction.Memory // memory the observation was compared with
	Contradicted bool              // observation broke a confident prediction
	Prediction   prediction.Result
	ViewChange   view.Change
}

// Machine applies board transitions under fixed rules.
type Machine struct {
	predictor   *prediction.Predictor
	playerCount int
	setups      map[string]struct{}
	threshold   int
}

// NewMachine creates a Machine with the default rules.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		predictor:   prediction.New(),
		playerCount: DefaultPlayerCount,
		threshold:   prediction.Threshold,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// PlayerCount returns the size of the player grid.
func (m *Machine) PlayerCount() int { return m.playerCount }

// Threshold returns the confidence threshold in percent.
func (m *Machine) Threshold() int { return m.threshold }

// NormalizeCall trims and upper-cases a call token.
func NormalizeCall(call string) string {
	return strings.ToUpper(strings.TrimSpace(call))
}

// NormalizeSetup trims a setup category.
func NormalizeSetup(setup string) string {
	return strings.TrimSpace(setup)
}

func (m *Machine) checkPlayer(n int) error {
	if n < 1 || n > m.playerCount {
		return fmt.Errorf("%w: %d not in 1..%d", ErrInvalidPlayer, n, m.playerCount)
	}
	return nil
}

func (m *Machine) checkCallSetup(call, setup string) error {
	if call == "" {
		return ErrMissingCall
	}
	if setup == "" {
		return ErrMissingSetup
	}
	if m.setups != nil {
		if _, ok := m.setups[setup]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownSetup, setup)
		}
	}
	return nil
}

// Record validates in, checks it against the previous prediction, appends
// it to the log and recomputes the prediction for its call and setup.
// On error s is returned unchanged.
func (m *Machine) Record(s State, in Input, now time.Time) (State, Outcome, error) {
	call := NormalizeCall(in.Call)
	setup := NormalizeSetup(in.Setup)
	if err := m.checkCallSetup(call, setup); err != nil {
		return s, Outcome{}, err
	}

	won := s.Won
	if in.Won != nil {
		won = *in.Won
	}
	player := s.Player
	if in.Player != nil {
		player = *in.Player
	}
	if won {
		if player == NoPlayer {
			return s, Outcome{}, ErrMissingPlayer
		}
		if err := m.checkPlayer(player); err != nil {
			return s, Outcome{}, err
		}
	}

	z, err := zone.Normalize(in.Zone, s.Half)
	if err != nil {
		return s, Outcome{}, err
	}

	// Compare against the memory held before this kickout is logged.
	out := Outcome{
		Previous:     s.Memory,
		Contradicted: s.Memory.Contradicts(z, m.threshold),
	}

	rec := model.Record{Call: call, Setup: setup, Zone: z, Won: won, Time: now.UnixMilli()}
	if won {
		p := player
		rec.Player = &p
	}
	if n := len(s.Log); n > 0 && rec.Time < s.Log[n-1].Time {
		rec.Time = s.Log[n-1].Time
	}
	out.Record = rec

	next := s
	next.Log = append(slices.Clip(s.Log), rec)
	next.Player = NoPlayer
	next.Won = true

	next, out.Prediction, out.ViewChange = m.apply(next, call, setup)
	return next, out, nil
}

// apply computes the prediction for call/setup and updates memory and view.
func (m *Machine) apply(s State, call, setup string) (State, prediction.Result, view.Change) {
	res := m.predictor.Predict(s.Log, call, setup)
	s.Prediction = res
	mem, ok := res.Memory()
	if !ok {
		return s, res, view.Unchanged
	}
	s.Memory = mem
	var change view.Change
	s.View, change = s.View.Observe(res.Confidence, m.threshold)
	return s, res, change
}

// Predict computes the prediction for call/setup without changing state.
func (m *Machine) Predict(s State, call, setup string) prediction.Result {
	return m.predictor.Predict(s.Log, NormalizeCall(call), NormalizeSetup(setup))
}

// SelectPlayer selects the receiving player for the next won kickout.
func (m *Machine) SelectPlayer(s State, n int) (State, error) {
	if err := m.checkPlayer(n); err != nil {
		return s, err
	}
	s.Player = n
	return s, nil
}

// ToggleHalf switches between first and second half.
func ToggleHalf(s State) State {
	s.Half = s.Half.Flip()
	return s
}

// ToggleOutcome switches the next kickout between won and lost.
func ToggleOutcome(s State) State {
	s.Won = !s.Won
	return s
}

// ToggleSimpleView flips simple view manually.
func ToggleSimpleView(s State) State {
	s.View = s.View.Toggle()
	return s
}

// Clear empties the log and resets the prediction display. Half, selection
// and the simple view mode are kept.
func Clear(s State) State {
	s.Log = nil
	s.Memory = prediction.Memory{}
	s.View.Above = false
	s.Prediction = prediction.Result{
		Building: true,
		Text:     prediction.ClearedText,
		Heat:     prediction.Baseline(),
	}
	return s
}
