package config

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rbscholtus/layoutgen/internal/layout"
	"github.com/rbscholtus/layoutgen/internal/model"
)

// KeymapTable renders a resolved layout as {key: {layer: token}} using a
// rounded go-pretty table, one row per key and one column per layer
// (StyleRounded, centered headers, no side padding).
func KeymapTable(kb *model.KbDef, l *layout.Layout) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = true
	tw.Style().Box.PaddingLeft = ""
	tw.Style().Box.PaddingRight = ""

	header := table.Row{"key"}
	for _, layerName := range kb.LayerNames {
		header = append(header, layerName)
	}
	tw.AppendHeader(header, table.RowConfig{AutoMerge: false})

	colConfigs := make([]table.ColumnConfig, len(kb.LayerNames)+1)
	for i := range colConfigs {
		colConfigs[i] = table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignCenter, Align: text.AlignCenter}
	}
	tw.SetColumnConfigs(colConfigs)

	for key := 0; key < kb.NumKeys; key++ {
		row := table.Row{kb.KeyNames[key]}
		for layerIdx := range kb.LayerNames {
			loc := kb.Loc(model.KeyID(key), model.LayerID(layerIdx))
			tok := l.Keymap[loc]
			if tok == model.NoToken {
				row = append(row, "")
			} else {
				row = append(row, kb.TokenNames[tok])
			}
		}
		tw.AppendRow(row)
	}
	return tw
}

// CostBreakdownTable renders a per-component cost breakdown: one row per
// n-gram length table plus a total.
func CostBreakdownTable(componentNames []string, componentCosts []float64, total float64) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = true
	tw.AppendHeader(table.Row{"component", "cost"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "cost", Align: text.AlignRight, Transformer: costCell},
	})
	for i, name := range componentNames {
		tw.AppendRow(table.Row{name, componentCosts[i]})
	}
	tw.AppendFooter(table.Row{"total", total})
	return tw
}

func costCell(val any) string {
	if f, ok := val.(float64); ok {
		return fmt.Sprintf("%.4f", f)
	}
	return fmt.Sprintf("%v", val)
}
