// Package eval implements n-gram cost evaluation: the precomputed per-group
// and per-pair n-gram subsets (NGramEval), the breadcrumb-based excursion
// walker, and the traverser that maintains the per-assignment delta cache
// used to score and apply moves without a full re-evaluation.
package eval

import "github.com/rbscholtus/layoutgen/internal/model"

// PathCost is a cost table for key-sequences of a fixed length n, indexed
// by a base-|keys| encoding of the sequence.
type PathCost struct {
	NumKeys int
	N       int
	Costs   []float64
}

// NewPathCost allocates a zero-initialized path-cost table for sequences of
// length n over numKeys keys.
func NewPathCost(numKeys, n int) *PathCost {
	size := 1
	for i := 0; i < n; i++ {
		size *= numKeys
	}
	return &PathCost{NumKeys: numKeys, N: n, Costs: make([]float64, size)}
}

func (c *PathCost) encode(seq []model.KeyID) int {
	enc := 0
	for _, k := range seq {
		enc = enc*c.NumKeys + int(k)
	}
	return enc
}

// Get returns the cost of a key sequence.
func (c *PathCost) Get(seq []model.KeyID) float64 { return c.Costs[c.encode(seq)] }

// Set stores the cost of a key sequence.
func (c *PathCost) Set(seq []model.KeyID, cost float64) { c.Costs[c.encode(seq)] = cost }
