package replay

import (
	"math/rand/v2"

	"github.com/okian/kickout/internal/domain/model"
	"github.com/okian/kickout/internal/domain/zone"
)

// wonRate is the share of generated kickouts that are won.
const wonRate = 0.75

// Kickout is one generated submission.
type Kickout struct {
	Call   string     `json:"call"`
	Setup  string     `json:"setup"`
	Zone   model.Zone `json:"zone"`
	Player *int       `json:"player,omitempty"`
	Won    bool       `json:"won"`
}

// Generator produces a deterministic synthetic match. Each call/setup pair
// has a preferred zone that is chosen with probability bias.
type Generator struct {
	rng         *rand.Rand
	calls       []string
	setups      []string
	bias        float64
	playerCount int
	preferred   map[[2]string]model.Zone
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64, calls, setups []string, bias float64, playerCount int) *Generator {
	if playerCount < 1 {
		playerCount = 1
	}
	return &Generator{
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		calls:       calls,
		setups:      setups,
		bias:        bias,
		playerCount: playerCount,
		preferred:   make(map[[2]string]model.Zone),
	}
}

// Preferred returns the zone the generator favors for call and setup.
func (g *Generator) Preferred(call, setup string) model.Zone {
	key := [2]string{call, setup}
	z, ok := g.preferred[key]
	if !ok {
		z = g.randomZone()
		g.preferred[key] = z
	}
	return z
}

// Next generates one kickout.
func (g *Generator) Next() Kickout {
	k := Kickout{
		Call:  g.calls[g.rng.IntN(len(g.calls))],
		Setup: g.setups[g.rng.IntN(len(g.setups))],
	}
	k.Zone = g.Preferred(k.Call, k.Setup)
	if g.rng.Float64() >= g.bias {
		k.Zone = g.randomZone()
	}
	k.Won = g.rng.Float64() < wonRate
	if k.Won {
		p := g.rng.IntN(g.playerCount) + 1
		k.Player = &p
	}
	return k
}

// Generate returns n kickouts.
func (g *Generator) Generate(n int) []Kickout {
	out := make([]Kickout, 0, n)
	for range n {
		out = append(out, g.Next())
	}
	return out
}

func (g *Generator) randomZone() model.Zone {
	zones := zone.All()
	return zones[g.rng.IntN(len(zones))]
}
