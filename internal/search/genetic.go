package search

import (
	"math"
	"math/rand"

	"github.com/MaxHalford/eaopt"

	"github.com/rbscholtus/layoutgen/internal/eval"
	"github.com/rbscholtus/layoutgen/internal/layout"
)

// GenomeLayout adapts a layout.Layout to eaopt.Genome: Mutate applies one
// randomly chosen lock×key move via the move generator (rather than a raw
// slot swap, since assignments may cascade), Crossover is a no-op (kept only
// to satisfy the interface), and Evaluate returns the full corpus cost as
// fitness to minimize.
type GenomeLayout struct {
	L    *layout.Layout
	Eval *eval.NGramEval
}

// NewGenomeLayout builds a genome over a fresh clone of l so the caller's
// own layout is never mutated by the GA.
func NewGenomeLayout(l *layout.Layout, e *eval.NGramEval) *GenomeLayout {
	return &GenomeLayout{L: l.Clone(), Eval: e}
}

// Evaluate returns the full evaluated cost of the current layout.
func (g *GenomeLayout) Evaluate() (float64, error) {
	return g.Eval.EvalFull(g.L), nil
}

// Mutate applies one randomly chosen lock×key move, picked uniformly from
// every currently available move (skipping no-ops, as layout.Moves already
// does).
func (g *GenomeLayout) Mutate(rng *rand.Rand) {
	moves := layout.All(g.L)
	if len(moves) == 0 {
		return
	}
	chosen := moves[rng.Intn(len(moves))]
	for _, a := range chosen {
		g.L.Apply(a)
	}
}

// Crossover does nothing. Defined only so *GenomeLayout implements
// eaopt.Genome.
func (g *GenomeLayout) Crossover(_ eaopt.Genome, _ *rand.Rand) {}

// Clone returns an independent deep copy.
func (g *GenomeLayout) Clone() eaopt.Genome {
	return &GenomeLayout{L: g.L.Clone(), Eval: g.Eval}
}

// GeneticParams configures the eaopt-driven genetic/simulated-annealing
// search.
type GeneticParams struct {
	Generations uint
	AcceptWorse string // "always", "never", "drop-slow", "linear", "drop-fast"
}

// acceptFunc returns the simulated-annealing acceptance function named by
// policy.
func acceptFunc(policy string) func(g, ng uint, e0, e1 float64) float64 {
	switch policy {
	case "always":
		return func(g, ng uint, e0, e1 float64) float64 { return 1.0 }
	case "never":
		return func(g, ng uint, e0, e1 float64) float64 { return 0.0 }
	case "drop-slow":
		return func(g, ng uint, e0, e1 float64) float64 {
			t := float64(g) / float64(ng)
			return (math.Cos(t*math.Pi) + 1.0) / 2.0
		}
	case "linear":
		return func(g, ng uint, e0, e1 float64) float64 {
			return 1.0 - float64(g)/float64(ng)
		}
	case "drop-fast":
		return func(g, ng uint, e0, e1 float64) float64 {
			t := 1.0 - float64(g)/float64(ng)
			return math.Exp(-3.0 * (1 - t))
		}
	default:
		return func(g, ng uint, e0, e1 float64) float64 { return 0.0 }
	}
}

// RunGenetic runs eaopt's simulated-annealing GA model starting from seed,
// returning the best layout found.
func RunGenetic(params GeneticParams, seed *layout.Layout, e *eval.NGramEval) (*layout.Layout, error) {
	cfg := eaopt.NewDefaultGAConfig()
	cfg.NGenerations = params.Generations
	cfg.Model = eaopt.ModSimulatedAnnealing{Accept: acceptFunc(params.AcceptWorse)}

	ga, err := cfg.NewGA()
	if err != nil {
		return nil, err
	}

	genome := NewGenomeLayout(seed, e)
	newGenome := func(rng *rand.Rand) eaopt.Genome { return genome.Clone() }
	if err := ga.Minimize(newGenome); err != nil {
		return nil, err
	}

	best := ga.HallOfFame[0].Genome.(*GenomeLayout)
	return best.L, nil
}
