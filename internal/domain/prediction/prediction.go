// Package prediction computes the frequency-based next-zone guess for a
// call/setup pair and the heat intensities derived from the same counts.
package prediction

import (
	"fmt"
	"math"

	"github.com/okian/kickout/internal/domain/model"
	"github.com/okian/kickout/internal/domain/zone"
)

// Default prediction constants.
const (
	DefaultWindow     = 10 // most recent matching won kickouts considered
	DefaultMinSamples = 3  // below this the pattern is still building
	Threshold         = 60 // confidence (percent) for alerts and simple view

	heatFloor = 0.2
	heatSpan  = 0.8
)

// Display texts.
const (
	BuildingText = "Building pattern…"
	ClearedText  = "Data cleared. Ready."
)

// Option applies a configuration option to the Predictor.
type Option func(*Predictor)

// WithWindow sets how many recent matching records are tallied.
func WithWindow(n int) Option {
	return func(p *Predictor) {
		if n > 0 {
			p.window = n
		}
	}
}

// WithMinSamples sets the number of matching records needed for a prediction.
func WithMinSamples(n int) Option {
	return func(p *Predictor) {
		if n > 0 {
			p.minSamples = n
		}
	}
}

// Predictor predicts the next zone from a kickout log.
type Predictor struct {
	window     int
	minSamples int
}

// New creates a Predictor with the default window and sample floor.
func New(opts ...Option) *Predictor {
	p := &Predictor{
		window:     DefaultWindow,
		minSamples: DefaultMinSamples,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultPredictor = New()

// Predict runs the default predictor.
func Predict(log []model.Record, call, setup string) Result {
	return defaultPredictor.Predict(log, call, setup)
}

// Heat maps each zone to a display intensity in [0.2, 1.0].
type Heat map[model.Zone]float64

// Baseline returns the neutral heat used when no pattern is available.
func Baseline() Heat {
	h := make(Heat, len(zone.All()))
	for _, z := range zone.All() {
		h[z] = heatFloor
	}
	return h
}

// Result is the outcome of one prediction.
type Result struct {
	Call       string     `json:"call"`
	Setup      string     `json:"setup"`
	Building   bool       `json:"building"`
	Zone       model.Zone `json:"zone,omitempty"`
	Confidence int        `json:"confidence"`
	Samples    int        `json:"samples"`
	Text       string     `json:"text"`
	Heat       Heat       `json:"heat"`
}

// Memory returns the prediction state to compare the next observation with.
// Building results carry no memory.
func (r Result) Memory() (Memory, bool) {
	if r.Building {
		return Memory{}, false
	}
	return Memory{Zone: r.Zone, Confidence: r.Confidence, Set: true}, true
}

// Predict tallies the last window won kickouts matching call and setup
// exactly. Ties go to the zone that first appears in the window.
func (p *Predictor) Predict(log []model.Record, call, setup string) Result {
	recent := Recent(log, call, setup, p.window)
	res := Result{Call: call, Setup: setup, Samples: len(recent)}
	if len(recent) < p.minSamples {
		res.Building = true
		res.Text = BuildingText
		res.Heat = Baseline()
		return res
	}

	t := NewTally(recent)
	best, count := t.Best()
	res.Zone = best
	res.Confidence = confidence(count, len(recent))
	res.Text = fmt.Sprintf("%s → Zone %s (%d%%)", call, best, res.Confidence)
	res.Heat = t.Heat()
	return res
}

// Recent returns, in insertion order, the last n won records for call/setup.
func Recent(log []model.Record, call, setup string, n int) []model.Record {
	var matched []model.Record
	for _, r := range log {
		if r.Won && r.Call == call && r.Setup == setup {
			matched = append(matched, r)
		}
	}
	if len(matched) > n {
		matched = matched[len(matched)-n:]
	}
	return matched
}

func confidence(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// Tally counts zones keeping the order in which each zone first appeared.
type Tally struct {
	order  []model.Zone
	counts map[model.Zone]int
	total  int
}

// NewTally counts the zones of records.
func NewTally(records []model.Record) Tally {
	t := Tally{counts: make(map[model.Zone]int)}
	for _, r := range records {
		if _, ok := t.counts[r.Zone]; !ok {
			t.order = append(t.order, r.Zone)
		}
		t.counts[r.Zone]++
		t.total++
	}
	return t
}

// Count returns how often z was seen.
func (t Tally) Count(z model.Zone) int { return t.counts[z] }

// Total returns the number of records tallied.
func (t Tally) Total() int { return t.total }

// Zones returns the tallied zones in first-appearance order.
func (t Tally) Zones() []model.Zone {
	out := make([]model.Zone, len(t.order))
	copy(out, t.order)
	return out
}

// Best returns the most frequent zone; on a tie the earlier key wins.
func (t Tally) Best() (model.Zone, int) {
	var best model.Zone
	top := 0
	for _, z := range t.order {
		if c := t.counts[z]; c > top {
			best, top = z, c
		}
	}
	return best, top
}

// Heat scales every zone linearly against the most frequent one.
func (t Tally) Heat() Heat {
	_, top := t.Best()
	if top == 0 {
		return Baseline()
	}
	h := make(Heat, len(zone.All()))
	for _, z := range zone.All() {
		h[z] = heatFloor + float64(t.counts[z])/float64(top)*heatSpan
	}
	return h
}

// Memory is the last non-building prediction.
type Memory struct {
	Zone       model.Zone `json:"zone"`
	Confidence int        `json:"confidence"`
	Set        bool       `json:"set"`
}

// Contradicts reports whether an observed zone breaks a prediction held with
// at least threshold confidence.
func (m Memory) Contradicts(observed model.Zone, threshold int) bool {
	return m.Set && m.Confidence >= threshold && observed != m.Zone
}
