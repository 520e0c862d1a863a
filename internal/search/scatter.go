package search

import (
	"context"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/rbscholtus/layoutgen/internal/eval"
	"github.com/rbscholtus/layoutgen/internal/layout"
)

// ScatterParams configures a scatter search: Workers independent tabu
// runs started from perturbed copies of the same seed layout, the best of
// which is returned.
type ScatterParams struct {
	Workers    int
	PerturbLen int // number of random moves applied to diversify each worker's start
	Tabu       TabuParams
	Seed       int64
}

// Run fans Workers independent tabu searches out over errgroup.Group,
// each with its own Layout/Walker/Traverser/*rand.Rand, and returns the best
// layout found across all of them.
func Run(ctx context.Context, params ScatterParams, seed *layout.Layout, e *eval.NGramEval) (*layout.Layout, float64, error) {
	workers := params.Workers
	if workers <= 0 {
		workers = 1
	}

	results := make([]*layout.Layout, workers)
	costs := make([]float64, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			rng := rand.New(rand.NewSource(params.Seed + int64(w)))
			l := seed.Clone()
			diversify(l, rng, params.PerturbLen)

			walker := eval.NewWalker(l, e)
			tr := eval.NewTraverser(walker)

			p := params.Tabu
			p.Seed = params.Seed + int64(w)
			tabu := NewTabu(p, l, tr)
			best := tabu.Run(gctx, nil)

			results[w] = best
			costs[w] = e.EvalFull(best)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	bestIdx := 0
	for i := 1; i < workers; i++ {
		if costs[i] < costs[bestIdx] {
			bestIdx = i
		}
	}
	return results[bestIdx], costs[bestIdx], nil
}

// diversify applies n random available moves to l, used to scatter each
// worker's starting point before its own local search begins.
func diversify(l *layout.Layout, rng *rand.Rand, n int) {
	for i := 0; i < n; i++ {
		moves := layout.All(l)
		if len(moves) == 0 {
			return
		}
		for _, a := range moves[rng.Intn(len(moves))] {
			l.Apply(a)
		}
	}
}
