package eval

import (
	"math"
	"testing"

	"github.com/rbscholtus/layoutgen/internal/layout"
	"github.com/rbscholtus/layoutgen/internal/model"
)

// fixtureKbDef builds a 3-key, 1-layer board: two single-token locks (on
// tokens 0 and 1) each allowed on any key, and one free token (2) allowed on
// any key.
func fixtureKbDef(t *testing.T) *model.KbDef {
	t.Helper()
	locks := []model.Lock{
		{Layers: []model.TokenID{0}, AllowedKeys: []model.KeyID{0, 1, 2}},
		{Layers: []model.TokenID{1}, AllowedKeys: []model.KeyID{0, 1, 2}},
	}
	frees := []model.Free{
		{Token: 2, AllowedLocs: []model.LocID{0, 1, 2}},
	}
	kb, err := model.NewKbDef(3, 1, 3, []string{"k0", "k1", "k2"}, []string{"l0"}, []string{"t0", "t1", "t2"}, locks, frees)
	if err != nil {
		t.Fatalf("NewKbDef: %v", err)
	}
	return kb
}

func fixtureLayout(kb *model.KbDef) *layout.Layout {
	return layout.FromTokenMap(kb, []model.LocID{
		kb.Loc(0, 0), // token 0 at key 0
		kb.Loc(1, 0), // token 1 at key 1
		kb.Loc(2, 0), // token 2 at key 2
	})
}

// fixtureEval builds a cost table where every key pair (i,j) costs i+j+1,
// over every bigram of the three tokens with uniform frequency, so costs are
// easy to hand-verify.
func fixtureEval(kb *model.KbDef) *NGramEval {
	cost := NewPathCost(kb.NumKeys, 2)
	for i := 0; i < kb.NumKeys; i++ {
		for j := 0; j < kb.NumKeys; j++ {
			cost.Set([]model.KeyID{model.KeyID(i), model.KeyID(j)}, float64(i+j+1))
		}
	}
	ngrams := []NGram{
		{Tokens: []model.TokenID{0, 1}, Freq: 1},
		{Tokens: []model.TokenID{1, 2}, Freq: 2},
		{Tokens: []model.TokenID{2, 0}, Freq: 3},
	}
	return NewNGramEval(kb, []*Table{{N: 2, NGrams: ngrams, Cost: cost}})
}

func TestEvalFullMatchesHandComputation(t *testing.T) {
	kb := fixtureKbDef(t)
	l := fixtureLayout(kb)
	e := fixtureEval(kb)

	// keys: t0@0, t1@1, t2@2
	// (0,1): cost(0,1)=2, freq 1 -> 2
	// (1,2): cost(1,2)=4, freq 2 -> 8
	// (2,0): cost(2,0)=3, freq 3 -> 9
	want := 2.0 + 8.0 + 9.0
	if got := e.EvalFull(l); got != want {
		t.Fatalf("EvalFull: got %v want %v", got, want)
	}
}

func TestScoreAgreesWithFullRecompute(t *testing.T) {
	kb := fixtureKbDef(t)
	l := fixtureLayout(kb)
	e := fixtureEval(kb)
	w := NewWalker(l, e)
	tr := NewTraverser(w)
	tr.DebugAssertDelta = true

	before := e.EvalFull(l)
	alteration := layout.Resolve(l, model.NewLockAssignment(0, 1)) // swap lock0 into lock1's key

	got := tr.Score(alteration)

	// Score must not have mutated the layout.
	if after := e.EvalFull(l); after != before {
		t.Fatalf("Score mutated layout: before=%v after=%v", before, after)
	}

	for _, a := range alteration {
		l.Apply(a)
	}
	want := e.EvalFull(l) - before
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Score disagreement: got %v want %v", got, want)
	}
}

func TestApplyKeepsDeltaCacheConsistent(t *testing.T) {
	kb := fixtureKbDef(t)
	l := fixtureLayout(kb)
	e := fixtureEval(kb)
	w := NewWalker(l, e)
	tr := NewTraverser(w)

	alteration := layout.Resolve(l, model.NewLockAssignment(0, 1))
	tr.Apply(alteration)

	// After commit, rebuilding a fresh traverser from this state must agree
	// with the incrementally updated one for every assignment's delta.
	fresh := NewTraverser(NewWalker(l, e))
	for g := 0; g < kb.NumGroups(); g++ {
		for _, a := range kb.Assignments(model.GroupID(g)) {
			got, want := tr.Delta[a], fresh.Delta[a]
			if math.Abs(got-want) > 1e-9 {
				t.Fatalf("delta mismatch for %+v: got %v want %v", a, got, want)
			}
		}
	}
}
