package eval

import (
	"github.com/rbscholtus/layoutgen/internal/layout"
	"github.com/rbscholtus/layoutgen/internal/model"
)

// NGram is one weighted token sequence drawn from a corpus table.
type NGram struct {
	Tokens []model.TokenID
	Freq   float64
}

// Table is a set of n-grams of a fixed length, together with the path-cost
// table used to price them.
type Table struct {
	N      int
	NGrams []NGram
	Cost   *PathCost
}

// keySeq converts a token sequence into the key sequence it currently
// occupies, by way of each token's group (a token's current key always
// equals its group's GroupMap entry, for both lock and free groups).
func keySeq(kb *model.KbDef, l *layout.Layout, tokens []model.TokenID) []model.KeyID {
	seq := make([]model.KeyID, len(tokens))
	for i, tok := range tokens {
		seq[i] = l.GroupMap[kb.TokenGroup[tok]]
	}
	return seq
}
