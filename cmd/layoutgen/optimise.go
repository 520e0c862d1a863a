package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/rbscholtus/layoutgen/internal/config"
	"github.com/rbscholtus/layoutgen/internal/eval"
	"github.com/rbscholtus/layoutgen/internal/search"
)

var validAlgos = []string{"tabu", "scatter", "genetic"}

var optimiseCommand = &cli.Command{
	Name:   "optimise",
	Usage:  "run a metaheuristic search starting from an existing layout",
	Flags:  flagsSlice("config", "corpus", "pathcost", "layout", "algo", "iterations", "time", "seed", "workers", "out"),
	Action: optimiseAction,
}

func optimiseAction(c *cli.Context) error {
	kb, e, err := loadEval(c)
	if err != nil {
		return err
	}

	l, err := config.LoadLayoutFromFile(c.String("layout"), kb)
	if err != nil {
		return err
	}

	algo := c.String("algo")
	seed := seedOrTime(c)
	initialCost := e.EvalFull(l)

	tabuParams := search.DefaultTabuParams(len(kb.Locks))
	tabuParams.MaxIterations = c.Int("iterations")
	tabuParams.MaxTime = c.Duration("time")
	tabuParams.Seed = seed

	outLayout := l

	switch algo {
	case "tabu":
		walker := eval.NewWalker(l, e)
		tr := eval.NewTraverser(walker)
		s := search.NewTabu(tabuParams, l, tr)
		outLayout = s.Run(context.Background(), os.Stdout)

	case "scatter":
		params := search.ScatterParams{
			Workers:    c.Int("workers"),
			PerturbLen: tabuParams.L0,
			Tabu:       tabuParams,
			Seed:       seed,
		}
		best, cost, err := search.Run(context.Background(), params, l, e)
		if err != nil {
			return err
		}
		fmt.Printf("scatter search complete, best cost %.4f\n", cost)
		outLayout = best

	case "genetic":
		params := search.GeneticParams{
			Generations: uint(c.Int("iterations")),
			AcceptWorse: "drop-slow",
		}
		best, err := search.RunGenetic(params, l, e)
		if err != nil {
			return err
		}
		outLayout = best

	default:
		return fmt.Errorf("unknown algorithm %q, must be one of %v", algo, validAlgos)
	}

	finalCost := e.EvalFull(outLayout)
	fmt.Printf("initial cost %.4f, final cost %.4f\n", initialCost, finalCost)

	return config.SaveLayoutToFile(c.String("out"), kb, outLayout)
}
