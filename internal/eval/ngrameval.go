package eval

import (
	"github.com/rbscholtus/layoutgen/internal/layout"
	"github.com/rbscholtus/layoutgen/internal/model"
)

// entry is one n-gram flattened across all length tables, so that per-group
// and per-pair membership can be indexed uniformly regardless of n.
type entry struct {
	tableIdx int
	ngramIdx int
}

// pairKey canonicalises an unordered pair of groups for map lookups.
type pairKey struct{ a, b model.GroupID }

func newPairKey(g1, g2 model.GroupID) pairKey {
	if g1 <= g2 {
		return pairKey{g1, g2}
	}
	return pairKey{g2, g1}
}

// NGramEval holds the corpus tables plus the precomputed per-group subsets
// G[g] and per-pair subsets P[{g1,g2}] used by Walker/Traverser to evaluate
// and incrementally update cost without a full corpus scan.
type NGramEval struct {
	KB     *model.KbDef
	Tables []*Table

	groupNGrams  [][]entry
	intersection map[pairKey][]entry
}

// NewNGramEval precomputes group and pair membership over the given tables.
// Membership in G[g] and P[{g1,g2}] is set membership: an n-gram is listed
// at most once even if a group occurs in it more than once.
func NewNGramEval(kb *model.KbDef, tables []*Table) *NGramEval {
	e := &NGramEval{
		KB:           kb,
		Tables:       tables,
		groupNGrams:  make([][]entry, kb.NumGroups()),
		intersection: make(map[pairKey][]entry),
	}

	for ti, tbl := range tables {
		for ni, ng := range tbl.NGrams {
			touched := make(map[model.GroupID]bool)
			for _, tok := range ng.Tokens {
				touched[kb.TokenGroup[tok]] = true
			}
			groups := make([]model.GroupID, 0, len(touched))
			for g := range touched {
				groups = append(groups, g)
			}
			ent := entry{tableIdx: ti, ngramIdx: ni}
			for _, g := range groups {
				e.groupNGrams[g] = append(e.groupNGrams[g], ent)
			}
			for i := 0; i < len(groups); i++ {
				for j := i + 1; j < len(groups); j++ {
					k := newPairKey(groups[i], groups[j])
					e.intersection[k] = append(e.intersection[k], ent)
				}
			}
		}
	}
	return e
}

func (e *NGramEval) evalEntries(l *layout.Layout, entries []entry) float64 {
	total := 0.0
	for _, en := range entries {
		tbl := e.Tables[en.tableIdx]
		ng := tbl.NGrams[en.ngramIdx]
		total += ng.Freq * tbl.Cost.Get(keySeq(e.KB, l, ng.Tokens))
	}
	return total
}

// EvalGroup sums freq*cost over every n-gram touching group g.
func (e *NGramEval) EvalGroup(l *layout.Layout, g model.GroupID) float64 {
	return e.evalEntries(l, e.groupNGrams[g])
}

// EvalIntersection sums freq*cost over every n-gram touching both g1 and g2.
func (e *NGramEval) EvalIntersection(l *layout.Layout, g1, g2 model.GroupID) float64 {
	if g1 == g2 {
		return e.EvalGroup(l, g1)
	}
	return e.evalEntries(l, e.intersection[newPairKey(g1, g2)])
}

// EvalFull sums freq*cost over every n-gram in every table: the full layout
// cost under current assignments.
func (e *NGramEval) EvalFull(l *layout.Layout) float64 {
	total := 0.0
	for i := range e.Tables {
		total += e.EvalTable(l, i)
	}
	return total
}

// EvalTable sums freq*cost over a single table's n-grams, used to break the
// full cost down per n-gram length for reporting.
func (e *NGramEval) EvalTable(l *layout.Layout, tableIdx int) float64 {
	tbl := e.Tables[tableIdx]
	total := 0.0
	for _, ng := range tbl.NGrams {
		total += ng.Freq * tbl.Cost.Get(keySeq(e.KB, l, ng.Tokens))
	}
	return total
}
