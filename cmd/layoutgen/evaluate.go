package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/rbscholtus/layoutgen/internal/config"
)

var evaluateCommand = &cli.Command{
	Name:   "evaluate",
	Usage:  "print the full evaluated cost and a per-component breakdown for a layout",
	Flags:  flagsSlice("config", "corpus", "pathcost", "layout"),
	Action: evaluateAction,
}

func evaluateAction(c *cli.Context) error {
	kb, e, err := loadEval(c)
	if err != nil {
		return err
	}

	l, err := config.LoadLayoutFromFile(c.String("layout"), kb)
	if err != nil {
		return err
	}

	componentNames := make([]string, len(e.Tables))
	componentCosts := make([]float64, len(e.Tables))
	for i, tbl := range e.Tables {
		componentNames[i] = fmt.Sprintf("%d-gram", tbl.N)
		componentCosts[i] = e.EvalTable(l, i)
	}
	total := e.EvalFull(l)

	fmt.Println(config.KeymapTable(kb, l).Render())
	fmt.Println()
	fmt.Println(config.CostBreakdownTable(componentNames, componentCosts, total).Render())
	return nil
}
