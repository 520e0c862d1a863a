// Package main provides the layoutgen CLI entrypoint.
//
// generate.go implements the "generate" command, running the CSP walker to
// produce a feasible starting layout.
//
// optimise.go implements the "optimise" command, running the requested
// metaheuristic (tabu, scatter, genetic) starting from an existing layout.
//
// evaluate.go implements the "evaluate" command, printing the full cost and
// a per-component breakdown table for a layout.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

// appFlagsMap centralises CLI flag definitions so commands can pick only
// the flags they need, the way cmd/main/main.go's appFlagsMap does.
var appFlagsMap = map[string]cli.Flag{
	"config": &cli.StringFlag{
		Name:     "config",
		Usage:    "keyboard configuration file (keys, layers, tokens, locks, frees)",
		Required: true,
	},
	"corpus": &cli.StringFlag{
		Name:     "corpus",
		Usage:    "n-gram corpus JSON file",
		Required: true,
	},
	"pathcost": &cli.StringFlag{
		Name:     "pathcost",
		Usage:    "path-cost JSON file",
		Required: true,
	},
	"layout": &cli.StringFlag{
		Name:     "layout",
		Usage:    "layout JSON file",
		Required: true,
	},
	"seed": &cli.Int64Flag{
		Name:  "seed",
		Usage: "random seed (0 = time-based)",
	},
	"out": &cli.StringFlag{
		Name:  "out",
		Usage: "output layout file",
		Value: "layout.json",
	},
	"algo": &cli.StringFlag{
		Name:  "algo",
		Usage: "search algorithm: tabu, scatter, genetic",
		Value: "tabu",
	},
	"iterations": &cli.IntFlag{
		Name:  "iterations",
		Usage: "maximum number of search iterations",
		Value: 2000,
	},
	"time": &cli.DurationFlag{
		Name:  "time",
		Usage: "maximum wall-clock time for the search",
		Value: 5 * time.Minute,
	},
	"workers": &cli.IntFlag{
		Name:  "workers",
		Usage: "number of parallel scatter-search workers",
		Value: 4,
	},
}

func flagsSlice(keys ...string) []cli.Flag {
	flags := make([]cli.Flag, 0, len(keys))
	for _, k := range keys {
		if f, ok := appFlagsMap[k]; ok {
			flags = append(flags, f)
		}
	}
	return flags
}

func main() {
	app := &cli.App{
		Name:  "layoutgen",
		Usage: "generate and optimise keyboard layouts",
		Commands: []*cli.Command{
			generateCommand,
			optimiseCommand,
			evaluateCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
