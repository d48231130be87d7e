package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rivo/uniseg"
	"github.com/spf13/cobra"

	"github.com/dshills/gridstorm/internal/engine/model"
	"github.com/dshills/gridstorm/internal/table"
	"github.com/dshills/gridstorm/internal/table/tablemap"
)

// Markers for grid slots covered by a cell that starts to the left or above.
const (
	colspanMarker = "<"
	rowspanMarker = "^"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	var tableIndex int

	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print the tables of a document as text grids",
		Long: `Print every table of FILE as an aligned text grid.

Slots covered by a cell spanning from the left show "<", slots covered
by a cell spanning from above show "^".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, doc, err := opts.openDocument(args[0])
			if err != nil {
				return err
			}
			defer opts.finish(cmd, a)

			tables := table.Tables(doc.Engine.Doc())
			if tableIndex >= 0 {
				if tableIndex >= len(tables) {
					return fmt.Errorf("%s has %d tables, no table %d", doc.Name, len(tables), tableIndex)
				}
				tables = tables[tableIndex : tableIndex+1]
			}
			for i, t := range tables {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				if err := printTable(cmd.OutOrStdout(), t); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&tableIndex, "table", "t", -1, "only print the table with this index")
	return cmd
}

// printTable writes the header line and the rows of t.
func printTable(w io.Writer, t table.Located) error {
	m, err := t.Map()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "table at %d: %d rows x %d columns\n", t.Pos, m.Height, m.Width)
	for _, p := range m.Problems {
		fmt.Fprintf(w, "  problem: %s\n", p)
	}

	cells := gridText(t.Node, m)
	widths := make([]int, m.Width)
	for _, row := range cells {
		for col, text := range row {
			widths[col] = max(widths[col], uniseg.StringWidth(text))
		}
	}

	var b strings.Builder
	for _, row := range cells {
		b.Reset()
		b.WriteString("|")
		for col, text := range row {
			b.WriteString(" ")
			b.WriteString(text)
			b.WriteString(strings.Repeat(" ", widths[col]-uniseg.StringWidth(text)))
			b.WriteString(" |")
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// gridText returns the display text of every grid slot.
func gridText(tableNode *model.Node, m *tablemap.TableMap) [][]string {
	cells := make([][]string, m.Height)
	for row := 0; row < m.Height; row++ {
		cells[row] = make([]string, m.Width)
		for col := 0; col < m.Width; col++ {
			i := row*m.Width + col
			pos := m.Map[i]
			switch {
			case col > 0 && m.Map[i-1] == pos:
				cells[row][col] = colspanMarker
			case row > 0 && m.Map[i-m.Width] == pos:
				cells[row][col] = rowspanMarker
			default:
				if cell := tableNode.NodeAt(pos); cell != nil {
					cells[row][col] = strings.Join(strings.Fields(cell.TextContent()), " ")
				}
			}
		}
	}
	return cells
}
