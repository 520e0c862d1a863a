package eval

import (
	"math"

	"github.com/rbscholtus/layoutgen/internal/model"
)

// deltaTolerance bounds the allowed disagreement between the cached delta
// score and a from-scratch full evaluation when DebugAssertDelta is set.
const deltaTolerance = 1e-12

// Traverser maintains, for every possible primitive assignment, the cost
// delta that assignment would cause if applied to the walker's current
// layout (Delta[a] = EvalGroup(group(a)) after - before). Score and Apply
// keep this cache current without ever re-scanning the whole corpus.
type Traverser struct {
	W     *Walker
	Delta map[model.Assignment]float64

	// DebugAssertDelta, when set, makes Score cross-check its incremental
	// result against a full re-evaluation and panic with
	// *model.NumericTolerance on disagreement beyond deltaTolerance.
	DebugAssertDelta bool
}

// NewTraverser builds a traverser over w, computing the initial delta for
// every assignment of every group from scratch.
func NewTraverser(w *Walker) *Traverser {
	t := &Traverser{W: w, Delta: make(map[model.Assignment]float64)}
	kb := w.L.KB
	for g := 0; g < kb.NumGroups(); g++ {
		for _, a := range kb.Assignments(model.GroupID(g)) {
			t.recalcDelta(a)
		}
	}
	return t
}

// recalcDelta recomputes Delta[a] from scratch against the traverser's
// current committed layout state.
func (t *Traverser) recalcDelta(a model.Assignment) {
	g := t.W.L.KB.Group(a)
	before := t.W.EvalGroup(g)
	var after float64
	t.W.Excursion(func() {
		t.W.Assign(a)
		after = t.W.EvalGroup(g)
	})
	t.Delta[a] = after - before
}

// Score computes the total cost change an alteration (an ordered list of
// assignments, such as one produced by layout.Resolve) would cause if
// applied, without mutating the walker's committed state.
//
// Score sums each assignment's cached Delta, then adds the pairwise
// intersection correction for every earlier-later pair (i<j): the change in
// the {group(aᵢ), group(aⱼ)} intersection term caused by applying aᵢ on top
// of a state where the real prefix A[0..i) and aⱼ are already applied, minus
// the change caused by applying aᵢ on top of the prefix alone (the part
// already counted in Delta[aᵢ]).
func (t *Traverser) Score(alteration []model.Assignment) float64 {
	kb := t.W.L.KB
	sum := 0.0
	for _, a := range alteration {
		sum += t.Delta[a]
	}

	outerMark := t.W.SaveLoc()
	for i := 0; i < len(alteration); i++ {
		ai := alteration[i]
		gi := kb.Group(ai)
		for j := i + 1; j < len(alteration); j++ {
			aj := alteration[j]
			gj := kb.Group(aj)

			innerMark := t.W.SaveLoc()
			base := t.W.EvalIntersection(gi, gj)
			t.W.Assign(ai)
			alone := t.W.EvalIntersection(gi, gj) - base
			t.W.RestoreLoc(innerMark)
			t.W.Assign(aj)
			before := t.W.EvalIntersection(gi, gj)
			t.W.Assign(ai)
			after := t.W.EvalIntersection(gi, gj)
			sum += (after - before) - alone
			t.W.RestoreLoc(innerMark)
		}
		t.W.Assign(ai) // joins the running prefix for subsequent i
	}
	t.W.RestoreLoc(outerMark)

	if t.DebugAssertDelta {
		before := t.W.EvalFull()
		mark := t.W.SaveLoc()
		for _, a := range alteration {
			t.W.Assign(a)
		}
		want := t.W.EvalFull() - before
		t.W.RestoreLoc(mark)
		if math.Abs(want-sum) > deltaTolerance {
			panic(&model.NumericTolerance{Got: sum, Want: want, Tolerance: deltaTolerance})
		}
	}
	return sum
}

// Apply permanently commits the alteration to the walker's layout and
// updates the delta cache: groups touched by the alteration get their
// deltas recomputed from scratch against the new state; every other group's
// deltas are corrected incrementally, one primitive change at a time: for
// each assignment a of that group, the intersection term's change under a is
// measured before and after the primitive change, and the difference is
// added to Delta[a].
func (t *Traverser) Apply(alteration []model.Assignment) {
	kb := t.W.L.KB
	changed := make(map[model.GroupID]bool, len(alteration))
	for _, a := range alteration {
		changed[kb.Group(a)] = true
	}
	unaffected := make([]model.GroupID, 0, kb.NumGroups())
	for g := 0; g < kb.NumGroups(); g++ {
		if !changed[model.GroupID(g)] {
			unaffected = append(unaffected, model.GroupID(g))
		}
	}

	// termChange is the change in the {g, cg} intersection term caused by
	// applying a (an assignment of g) to the current state.
	termChange := func(a model.Assignment, g, cg model.GroupID) float64 {
		before := t.W.EvalIntersection(g, cg)
		var after float64
		t.W.Excursion(func() {
			t.W.Assign(a)
			after = t.W.EvalIntersection(g, cg)
		})
		return after - before
	}

	for _, c := range alteration {
		cg := kb.Group(c)
		for _, g := range unaffected {
			for _, a := range kb.Assignments(g) {
				t.Delta[a] -= termChange(a, g, cg)
			}
		}
		t.W.Assign(c)
		for _, g := range unaffected {
			for _, a := range kb.Assignments(g) {
				t.Delta[a] += termChange(a, g, cg)
			}
		}
	}

	for g := range changed {
		for _, a := range kb.Assignments(g) {
			t.recalcDelta(a)
		}
	}
}
