package eval

import (
	"github.com/rbscholtus/layoutgen/internal/layout"
	"github.com/rbscholtus/layoutgen/internal/model"
)

// Walker wraps a live Layout with a breadcrumb trail of inverse assignments,
// letting callers take a hypothetical excursion (apply some assignments,
// read whatever cost terms they need, then walk back to exactly where they
// started) without cloning the layout.
type Walker struct {
	L    *layout.Layout
	Eval *NGramEval

	breadcrumbs []model.Assignment
}

// NewWalker builds a walker over l, scored against e.
func NewWalker(l *layout.Layout, e *NGramEval) *Walker {
	return &Walker{L: l, Eval: e}
}

// inverse builds the assignment that, applied after a, restores a's group to
// the key/location it held immediately before a was applied.
func (w *Walker) inverse(a model.Assignment) model.Assignment {
	kb := w.L.KB
	g := kb.Group(a)
	group := kb.Groups[g]
	if group.Kind == model.GroupLockKind {
		return model.NewLockAssignment(group.Lock, w.L.GroupMap[g])
	}
	tok := kb.Frees[group.Free].Token
	return model.NewFreeAssignment(group.Free, w.L.TokenMap[tok])
}

// Assign applies a to the underlying layout and records its inverse on the
// breadcrumb trail.
func (w *Walker) Assign(a model.Assignment) {
	inv := w.inverse(a)
	w.breadcrumbs = append(w.breadcrumbs, inv)
	w.L.Apply(a)
}

// SaveLoc marks the current position on the breadcrumb trail.
func (w *Walker) SaveLoc() int {
	return len(w.breadcrumbs)
}

// RestoreLoc walks the layout back to the state it was in when mark was
// taken, undoing every assignment made since in reverse order.
func (w *Walker) RestoreLoc(mark int) {
	for len(w.breadcrumbs) > mark {
		n := len(w.breadcrumbs) - 1
		inv := w.breadcrumbs[n]
		w.breadcrumbs = w.breadcrumbs[:n]
		w.L.Apply(inv)
	}
}

// Excursion runs f against the layout, then restores the layout to its
// pre-call state regardless of what f did.
func (w *Walker) Excursion(f func()) {
	mark := w.SaveLoc()
	f()
	w.RestoreLoc(mark)
}

// EvalGroup reads the current per-group cost term.
func (w *Walker) EvalGroup(g model.GroupID) float64 { return w.Eval.EvalGroup(w.L, g) }

// EvalIntersection reads the current per-pair cost term.
func (w *Walker) EvalIntersection(g1, g2 model.GroupID) float64 {
	return w.Eval.EvalIntersection(w.L, g1, g2)
}

// EvalFull reads the current full corpus cost.
func (w *Walker) EvalFull() float64 { return w.Eval.EvalFull(w.L) }
