// Package replay drives a running board with a synthetic match and checks
// its predictions against a local computation over the same log.
package replay

import "time"

// Defaults for a replay run.
const (
	DefaultBaseURL  = "http://localhost:9080"
	DefaultKickouts = 60
	DefaultSeed     = 1
	DefaultRate     = 20.0 // submissions per second
	DefaultTimeout  = 10 * time.Second
	DefaultBias     = 0.7
)

// DefaultCalls are the play calls the generator picks from.
var DefaultCalls = []string{"RIGHT", "LEFT", "LONG", "BLUE"} //nolint:gochecknoglobals // fixed default list

// DefaultSetups are the setups the generator picks from.
var DefaultSetups = []string{"short", "long", "press"} //nolint:gochecknoglobals // fixed default list

// Config holds the replay parameters.
type Config struct {
	BaseURL  string        // board base URL
	Kickouts int           // kickouts to generate
	Seed     uint64        // generator seed
	Rate     float64       // submissions per second, <= 0 means unlimited
	Bias     float64       // probability of the preferred zone for a call/setup
	Timeout  time.Duration // per-request HTTP timeout
	Calls    []string
	Setups   []string
	Clear    bool // clear the board before submitting
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Kickouts: DefaultKickouts,
		Seed:     DefaultSeed,
		Rate:     DefaultRate,
		Bias:     DefaultBias,
		Timeout:  DefaultTimeout,
		Calls:    DefaultCalls,
		Setups:   DefaultSetups,
		Clear:    true,
	}
}

// Stats holds replay statistics.
type Stats struct {
	Generated  int
	Submitted  int
	Duplicate  int
	Rejected   int
	Checked    int
	Mismatches []Mismatch
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}
