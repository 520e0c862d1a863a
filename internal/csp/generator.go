package csp

import (
	"math/rand"

	"github.com/rbscholtus/layoutgen/internal/model"
)

type frame struct {
	key        int
	candidates []int
	pos        int
}

// Generator backtracks over a DomainWalker's keys, assigning each a value
// consistent with every already-assigned key, to produce a feasible
// complete mapping. The stack holds exactly one frame per depth; a frame is
// created once when first descending into its key and reused on every
// subsequent backtrack into that depth.
type Generator struct {
	walker   *DomainWalker
	policy   KeyPolicy
	assigned []bool
	count    int
	stack    []frame
}

// NewGenerator builds a Generator over walker using policy to pick the next
// key to descend into. A nil policy defaults to LowestIndexPolicy.
func NewGenerator(walker *DomainWalker, policy KeyPolicy) *Generator {
	if policy == nil {
		policy = LowestIndexPolicy{}
	}
	return &Generator{
		walker:   walker,
		policy:   policy,
		assigned: make([]bool, walker.domain.NumKeys),
	}
}

func (g *Generator) unassignedKeys() []int {
	out := make([]int, 0, len(g.assigned)-g.count)
	for k, a := range g.assigned {
		if !a {
			out = append(out, k)
		}
	}
	return out
}

// pushFrame descends into a new depth, picking the next key via the policy
// and snapshotting (and shuffling) its currently accepted candidates.
// Returns false if there is no unassigned key left to descend into.
func (g *Generator) pushFrame(rng *rand.Rand) bool {
	unassigned := g.unassignedKeys()
	if len(unassigned) == 0 {
		return false
	}
	key := g.policy.NextKey(g.walker, unassigned)
	candidates := append([]int(nil), g.walker.Range(key).Accepted()...)
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	g.stack = append(g.stack, frame{key: key, candidates: candidates})
	return true
}

// Generate runs the backtracking search to completion, returning the
// per-key value mapping. rng controls candidate ordering so that the same
// seed reproduces the same layout. Fails with a *model.InfeasibleLayout
// error if the search space is exhausted before every key is placed.
func (g *Generator) Generate(rng *rand.Rand) ([]int, error) {
	n := g.walker.domain.NumKeys
	if n == 0 {
		return nil, nil
	}

	for {
		if g.count == n {
			return append([]int(nil), g.walker.mapping...), nil
		}

		if len(g.stack) == 0 {
			if !g.pushFrame(rng) {
				return nil, &model.InfeasibleLayout{Placed: g.count, Total: n}
			}
			continue
		}

		top := &g.stack[len(g.stack)-1]

		if g.assigned[top.key] {
			// This depth holds a committed assignment; descend further.
			if !g.pushFrame(rng) {
				return nil, &model.InfeasibleLayout{Placed: g.count, Total: n}
			}
			continue
		}

		if top.pos >= len(top.candidates) {
			// Exhausted at this depth: pop it and backtrack into the parent.
			g.stack = g.stack[:len(g.stack)-1]
			if len(g.stack) == 0 {
				return nil, &model.InfeasibleLayout{Placed: g.count, Total: n}
			}
			parent := &g.stack[len(g.stack)-1]
			g.walker.Unassign(parent.key)
			g.assigned[parent.key] = false
			g.count--
			continue
		}

		val := top.candidates[top.pos]
		top.pos++

		g.walker.Assign(top.key, val)
		g.assigned[top.key] = true
		g.count++

		if g.anyRangeEmpty() {
			g.walker.Unassign(top.key)
			g.assigned[top.key] = false
			g.count--
		}
	}
}

func (g *Generator) anyRangeEmpty() bool {
	for k, a := range g.assigned {
		if a {
			continue
		}
		if len(g.walker.Range(k).Accepted()) == 0 {
			return true
		}
	}
	return false
}
