package main

import (
	"math/rand"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rbscholtus/layoutgen/internal/config"
	"github.com/rbscholtus/layoutgen/internal/corpus"
	"github.com/rbscholtus/layoutgen/internal/eval"
	"github.com/rbscholtus/layoutgen/internal/model"
)

// loadEval loads the keyboard configuration, n-gram corpus and path-cost
// table named by the config/corpus/pathcost flags, and builds the
// NGramEval that every command scores layouts against.
func loadEval(c *cli.Context) (*model.KbDef, *eval.NGramEval, error) {
	kb, err := config.LoadKbDefFromFile(c.String("config"))
	if err != nil {
		return nil, nil, err
	}

	pathCostOf := func(n int) (*eval.PathCost, error) {
		return corpus.LoadPathCostFromFile(c.String("pathcost"), kb, n)
	}
	tables, err := corpus.LoadTablesFromFile(c.String("corpus"), kb, pathCostOf)
	if err != nil {
		return nil, nil, err
	}

	return kb, eval.NewNGramEval(kb, tables), nil
}

// seedOrTime returns the seed flag's value, or the current time if it was
// left at its zero default.
func seedOrTime(c *cli.Context) int64 {
	if s := c.Int64("seed"); s != 0 {
		return s
	}
	return time.Now().UnixNano()
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
