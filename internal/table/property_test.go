package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/gridstorm/internal/engine/model"
	"github.com/dshills/gridstorm/internal/engine/state"
	"github.com/dshills/gridstorm/internal/table/tablemap"
	. "github.com/dshills/gridstorm/internal/table/tabletest"
)

var structuralCommands = []Command{
	AddColumnBefore,
	AddColumnAfter,
	DeleteColumn,
	AddRowBefore,
	AddRowAfter,
	DeleteRow,
	MergeCells,
	SplitCell,
	ToggleHeaderRow,
	ToggleHeaderColumn,
	ToggleHeaderCell,
	ClearCells,
	SetCellAttr("background", "red"),
	GoToNextCell(1),
	GoToNextCell(-1),
}

func randomGrid(t *rapid.T) *model.Node {
	w := rapid.IntRange(1, 4).Draw(t, "width")
	h := rapid.IntRange(1, 4).Draw(t, "height")
	rows := make([][]string, h)
	for r := range rows {
		rows[r] = make([]string, w)
		for c := range rows[r] {
			rows[r][c] = rapid.SampledFrom([]string{"", "x", "yz"}).Draw(t, "text")
		}
	}
	return Grid(rows...)
}

func randomSelection(t *rapid.T, doc *model.Node) *state.State {
	table, _ := FirstTable(t, doc)
	m, err := tablemap.Get(table)
	require.NoError(t, err)
	r1 := rapid.IntRange(0, m.Height-1).Draw(t, "r1")
	c1 := rapid.IntRange(0, m.Width-1).Draw(t, "c1")
	if rapid.Bool().Draw(t, "cursor") {
		return CursorIn(t, doc, r1, c1)
	}
	r2 := rapid.IntRange(0, m.Height-1).Draw(t, "r2")
	c2 := rapid.IntRange(0, m.Width-1).Draw(t, "c2")
	return SelectCells(t, doc, r1, c1, r2, c2)
}

// requireGrid checks that the table's cells tile its rectangle exactly and
// every slot resolves to a cell.
func requireGrid(t *rapid.T, doc *model.Node) {
	require.NoError(t, doc.Check())
	table, _ := FirstTable(t, doc)
	m, err := tablemap.Compute(table)
	require.NoError(t, err)
	require.Empty(t, m.Problems, "table %s", table)
	require.Len(t, m.Map, m.Width*m.Height)
	for _, pos := range m.Map {
		cell := table.NodeAt(pos)
		require.NotNil(t, cell)
		require.True(t, cell.Type().Role().IsCell(), "slot resolves to %s", cell.Type().Name)
	}
}

func TestGridInvariantProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		doc := randomGrid(t)
		steps := rapid.IntRange(1, 12).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			s := randomSelection(t, doc)
			cmd := rapid.SampledFrom(structuralCommands).Draw(t, "command")

			applies := cmd.Check(s)
			tr, err := cmd.Build(s)
			if !applies {
				require.True(t, errors.Is(err, ErrNotApplicable), "%s: check false but build returned %v", cmd.Name(), err)
				continue
			}
			require.NoError(t, err, "%s: check true but build failed", cmd.Name())

			next, err := s.Apply(tr)
			require.NoError(t, err)
			requireGrid(t, next.Doc())
			doc = next.Doc()
		}
	})
}

func TestSetCellAttrIdempotentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		doc := randomGrid(t)
		s := randomSelection(t, doc)
		color := rapid.SampledFrom([]string{"red", "blue"}).Draw(t, "color")
		cmd := SetCellAttr("background", color)

		once := mustApply(t, cmd, s)
		require.False(t, cmd.Check(once))
		requireGrid(t, once.Doc())
	})
}

func TestMergeSplitSpanProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		doc := randomGrid(t)
		table, _ := FirstTable(t, doc)
		m, err := tablemap.Get(table)
		require.NoError(t, err)
		if m.Width*m.Height < 2 {
			t.Skip("single cell")
		}
		r1 := rapid.IntRange(0, m.Height-1).Draw(t, "r1")
		c1 := rapid.IntRange(0, m.Width-1).Draw(t, "c1")
		r2 := rapid.IntRange(0, m.Height-1).Draw(t, "r2")
		c2 := rapid.IntRange(0, m.Width-1).Draw(t, "c2")
		if r1 == r2 && c1 == c2 {
			t.Skip("single cell")
		}

		merged := mustApply(t, MergeCells, SelectCells(t, doc, r1, c1, r2, c2))
		split := mustApply(t, SplitCell, merged)
		requireGrid(t, split.Doc())

		after, _ := FirstTable(t, split.Doc())
		am, err := tablemap.Compute(after)
		require.NoError(t, err)
		require.Equal(t, m.Width, am.Width)
		require.Equal(t, m.Height, am.Height)
		require.Len(t, am.CellsInRect(tablemap.Rect{Right: am.Width, Bottom: am.Height}), m.Width*m.Height)
	})
}
