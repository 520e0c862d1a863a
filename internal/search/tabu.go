// Package search implements the outer metaheuristic collaborators that sit
// on top of the core evaluator/resolver primitives: a Breakout Local
// Search-flavoured tabu search, a parallel scatter search
// (golang.org/x/sync/errgroup fan-out, one Layout/Traverser per worker), and
// a genetic algorithm driver (github.com/MaxHalford/eaopt).
package search

import (
	"context"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/rbscholtus/layoutgen/internal/eval"
	"github.com/rbscholtus/layoutgen/internal/layout"
	"github.com/rbscholtus/layoutgen/internal/model"
)

// TabuParams holds the tuning knobs for the tabu/BLS-style local search over
// lock×key moves.
type TabuParams struct {
	L0      int     // initial jump magnitude (number of perturbation moves)
	LMax    int     // maximum jump magnitude for strong diversification
	T       int     // stagnation threshold before strong perturbation
	TabuMin int     // minimum tabu tenure
	TabuMax int     // maximum tabu tenure
	P0      float64 // minimum probability of a directed (best-improving) perturbation

	MaxIterations  int
	MaxTime        time.Duration
	Seed           int64
	ReportInterval int
}

// DefaultTabuParams scales tenure and jump magnitude to the number of
// movable locks.
func DefaultTabuParams(numLocks int) TabuParams {
	return TabuParams{
		L0:      max(1, int(0.1*float64(numLocks))),
		LMax:    max(1, int(0.5*float64(numLocks))),
		T:       200,
		TabuMin: max(1, int(0.9*float64(numLocks))),
		TabuMax: max(2, int(1.1*float64(numLocks))),
		P0:      0.75,

		MaxIterations:  2000,
		MaxTime:        5 * time.Minute,
		ReportInterval: 100,
	}
}

type move struct {
	lock, key int
	alt       []model.Assignment
}

// Tabu runs Breakout Local Search over the lock×key move space, scoring
// candidate moves via a Traverser so no move is ever fully re-evaluated from
// scratch.
type Tabu struct {
	Params TabuParams

	l  *layout.Layout
	tr *eval.Traverser
	rng *rand.Rand

	tabuMatrix map[[2]int]int // [lock,key] -> iteration last performed
	iteration  int
	omega      int
	jump       int
	bestCost   float64
	bestLayout *layout.Layout
}

// NewTabu builds a tabu search over l, scored by tr (which must already be
// wired to the same layout's Walker).
func NewTabu(params TabuParams, l *layout.Layout, tr *eval.Traverser) *Tabu {
	return &Tabu{
		Params:     params,
		l:          l,
		tr:         tr,
		rng:        rand.New(rand.NewSource(params.Seed)),
		tabuMatrix: make(map[[2]int]int),
		jump:       params.L0,
	}
}

// Run executes the search until MaxIterations, MaxTime, or ctx cancellation,
// writing progress to w (nil disables reporting), and returns the best
// layout found.
func (s *Tabu) Run(ctx context.Context, w io.Writer) *layout.Layout {
	start := time.Now()
	s.bestCost = s.tr.W.EvalFull()
	s.bestLayout = s.l.Clone()
	lastOptCost := s.bestCost

	if w != nil {
		model.MustFprintf(w, "starting tabu search, initial cost %.4f\n", s.bestCost)
	}

	for s.iteration < s.Params.MaxIterations {
		select {
		case <-ctx.Done():
			return s.bestLayout
		default:
		}
		if time.Since(start) >= s.Params.MaxTime {
			break
		}

		s.steepestDescent()
		currentCost := s.tr.W.EvalFull()
		s.iteration++

		if currentCost < s.bestCost {
			s.bestCost = currentCost
			s.bestLayout = s.l.Clone()
			s.omega = 0
			if w != nil {
				model.MustFprintf(w, "iter %d: new best cost %.4f\n", s.iteration, s.bestCost)
			}
		} else if math.Abs(currentCost-lastOptCost) > 1e-9 {
			s.omega++
		}

		if s.omega > s.Params.T {
			s.jump = s.Params.LMax
			s.omega = 0
		} else if math.Abs(currentCost-lastOptCost) < 1e-9 {
			s.jump++
		} else {
			s.jump = s.Params.L0
		}

		lastOptCost = currentCost
		s.perturb(s.jump)

		if w != nil && s.Params.ReportInterval > 0 && s.iteration%s.Params.ReportInterval == 0 {
			model.MustFprintf(w, "iter %d: current %.4f, best %.4f, jump=%d\n", s.iteration, currentCost, s.bestCost, s.jump)
		}
	}

	if w != nil {
		model.MustFprintf(w, "tabu search complete after %d iterations, best cost %.4f\n", s.iteration, s.bestCost)
	}
	return s.bestLayout
}

// enumerateMoves lists every candidate alteration from the current layout
// state, annotated with the triggering lock×key pair for tabu bookkeeping.
func (s *Tabu) enumerateMoves() []move {
	it := layout.NewMoves(s.l)
	var out []move
	for {
		alt, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, move{lock: int(alt[0].Lock), key: int(alt[0].Key), alt: alt})
	}
	return out
}

// steepestDescent repeatedly applies the best-scoring move until no move
// improves cost.
func (s *Tabu) steepestDescent() {
	for {
		moves := s.enumerateMoves()
		bestDelta := 0.0
		var best *move
		for i := range moves {
			delta := s.tr.Score(moves[i].alt)
			if delta < bestDelta {
				bestDelta = delta
				best = &moves[i]
			}
		}
		if best == nil {
			return
		}
		s.apply(*best)
	}
}

// perturb applies jump non-improving (or directed) moves to escape the
// current local optimum.
func (s *Tabu) perturb(jump int) {
	for i := 0; i < jump; i++ {
		moves := s.enumerateMoves()
		if len(moves) == 0 {
			return
		}

		tenure := s.Params.TabuMin
		if s.Params.TabuMax > s.Params.TabuMin {
			tenure += s.rng.Intn(s.Params.TabuMax - s.Params.TabuMin + 1)
		}

		p := math.Exp(-float64(s.omega) / math.Max(1, float64(s.Params.T)))
		if p < s.Params.P0 {
			p = s.Params.P0
		}

		var chosen move
		if s.rng.Float64() < p {
			chosen = s.selectDirected(moves, tenure)
		} else {
			chosen = moves[s.rng.Intn(len(moves))]
		}
		s.apply(chosen)

		if cost := s.tr.W.EvalFull(); cost < s.bestCost {
			s.bestCost = cost
			s.bestLayout = s.l.Clone()
			s.omega = 0
		}
	}
}

// selectDirected picks the least-degrading non-tabu move, with aspiration
// (accept a tabu move anyway if it would beat the best cost seen so far).
func (s *Tabu) selectDirected(moves []move, tenure int) move {
	bestDelta := math.Inf(1)
	best := moves[s.rng.Intn(len(moves))]
	found := false
	for _, m := range moves {
		isTabu := s.iteration-s.tabuMatrix[[2]int{m.lock, m.key}] < tenure
		delta := s.tr.Score(m.alt)
		aspiration := s.tr.W.EvalFull()+delta < s.bestCost
		if (!isTabu || aspiration) && delta < bestDelta {
			bestDelta = delta
			best = m
			found = true
		}
	}
	if !found {
		return moves[s.rng.Intn(len(moves))]
	}
	return best
}

func (s *Tabu) apply(m move) {
	s.tr.Apply(m.alt)
	s.tabuMatrix[[2]int{m.lock, m.key}] = s.iteration
}
