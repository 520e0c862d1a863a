package search

import (
	"context"
	"testing"
	"time"

	"github.com/rbscholtus/layoutgen/internal/eval"
	"github.com/rbscholtus/layoutgen/internal/layout"
	"github.com/rbscholtus/layoutgen/internal/model"
)

func fixtureKbDef(t *testing.T) *model.KbDef {
	t.Helper()
	locks := []model.Lock{
		{Layers: []model.TokenID{0}, AllowedKeys: []model.KeyID{0, 1, 2, 3}},
		{Layers: []model.TokenID{1}, AllowedKeys: []model.KeyID{0, 1, 2, 3}},
	}
	frees := []model.Free{
		{Token: 2, AllowedLocs: []model.LocID{0, 1, 2, 3}},
		{Token: 3, AllowedLocs: []model.LocID{0, 1, 2, 3}},
	}
	kb, err := model.NewKbDef(4, 1, 4,
		[]string{"k0", "k1", "k2", "k3"}, []string{"l0"}, []string{"t0", "t1", "t2", "t3"},
		locks, frees)
	if err != nil {
		t.Fatalf("NewKbDef: %v", err)
	}
	return kb
}

func fixtureEvalAndLayout(t *testing.T, kb *model.KbDef) (*layout.Layout, *eval.NGramEval) {
	t.Helper()
	l := layout.FromTokenMap(kb, []model.LocID{
		kb.Loc(0, 0), kb.Loc(1, 0), kb.Loc(2, 0), kb.Loc(3, 0),
	})
	cost := eval.NewPathCost(kb.NumKeys, 2)
	for i := 0; i < kb.NumKeys; i++ {
		for j := 0; j < kb.NumKeys; j++ {
			// Cost increases with key distance, so optimal layout keeps
			// frequently paired tokens on adjacent keys.
			d := i - j
			if d < 0 {
				d = -d
			}
			cost.Set([]model.KeyID{model.KeyID(i), model.KeyID(j)}, float64(d))
		}
	}
	ngrams := []eval.NGram{
		{Tokens: []model.TokenID{0, 1}, Freq: 10}, // should end up adjacent
		{Tokens: []model.TokenID{2, 3}, Freq: 1},
	}
	e := eval.NewNGramEval(kb, []*eval.Table{{N: 2, NGrams: ngrams, Cost: cost}})
	return l, e
}

func TestTabuRunNeverWorsensFromInitial(t *testing.T) {
	kb := fixtureKbDef(t)
	l, e := fixtureEvalAndLayout(t, kb)
	initialCost := e.EvalFull(l)

	w := eval.NewWalker(l, e)
	tr := eval.NewTraverser(w)

	params := DefaultTabuParams(len(kb.Locks))
	params.MaxIterations = 20
	params.MaxTime = 2 * time.Second
	params.Seed = 1

	s := NewTabu(params, l, tr)
	best := s.Run(context.Background(), nil)

	if got := e.EvalFull(best); got > initialCost {
		t.Fatalf("tabu search worsened cost: got %v, initial %v", got, initialCost)
	}
}

func TestScatterRunReturnsBestAcrossWorkers(t *testing.T) {
	kb := fixtureKbDef(t)
	l, e := fixtureEvalAndLayout(t, kb)
	initialCost := e.EvalFull(l)

	params := ScatterParams{
		Workers:    3,
		PerturbLen: 2,
		Seed:       7,
		Tabu:       DefaultTabuParams(len(kb.Locks)),
	}
	params.Tabu.MaxIterations = 10
	params.Tabu.MaxTime = time.Second

	best, cost, err := Run(context.Background(), params, l, e)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if cost > initialCost {
		t.Fatalf("scatter search worsened cost: got %v, initial %v", cost, initialCost)
	}
	if e.EvalFull(best) != cost {
		t.Fatalf("returned cost %v disagrees with EvalFull(best) %v", cost, e.EvalFull(best))
	}
}
