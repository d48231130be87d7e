package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/gridstorm/internal/engine/model"
	"github.com/dshills/gridstorm/internal/engine/state"
	"github.com/dshills/gridstorm/internal/table/tablemap"
	. "github.com/dshills/gridstorm/internal/table/tabletest"
)

func mergedCell(colspan, rowspan int, paras ...*model.Node) *model.Node {
	return Schema.Type("table_cell").Create(model.Attrs{"colspan": colspan, "rowspan": rowspan}, paras...)
}

func TestMergeCells(t *testing.T) {
	tests := []struct {
		name           string
		doc            *model.Node
		r1, c1, r2, c2 int
		want           *model.Node
	}{
		{
			name: "row of two",
			doc:  Grid([]string{"a", "b"}, []string{"c", "d"}),
			r1:   0, c1: 0, r2: 0, c2: 1,
			want: Doc(Table(
				Row(mergedCell(2, 1, P("a"), P("b"))),
				Row(Cell("c"), Cell("d")),
			)),
		},
		{
			name: "whole 2x2 grid",
			doc:  Grid([]string{"a", "b"}, []string{"c", "d"}),
			r1:   0, c1: 0, r2: 1, c2: 1,
			want: Doc(Table(
				Row(mergedCell(2, 2, P("a"), P("b"), P("c"), P("d"))),
				Row(),
			)),
		},
		{
			name: "empty target takes the content",
			doc:  Grid([]string{"", "b"}, []string{"c", "d"}),
			r1:   0, c1: 0, r2: 1, c2: 0,
			want: Doc(Table(
				Row(mergedCell(1, 2, P("c")), Cell("b")),
				Row(Cell("d")),
			)),
		},
		{
			name: "empty cells add nothing",
			doc:  Grid([]string{"", "b", ""}),
			r1:   0, c1: 0, r2: 0, c2: 2,
			want: Doc(Table(
				Row(mergedCell(3, 1, P("b"))),
			)),
		},
		{
			name: "rectangle matching existing spans",
			doc: Doc(Table(
				Row(Span("a", 2, 1)),
				Row(Cell("c"), Cell("d")),
			)),
			r1: 0, c1: 0, r2: 1, c2: 1,
			want: Doc(Table(
				Row(mergedCell(2, 2, P("a"), P("c"), P("d"))),
				Row(),
			)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustApply(t, MergeCells, SelectCells(t, tt.doc, tt.r1, tt.c1, tt.r2, tt.c2))
			EqualDoc(t, tt.want, got.Doc())
			RequireValid(t, got.Doc())

			sel, ok := got.Selection().(state.CellSelection)
			require.True(t, ok, "selection is %s", got.Selection())
			assert.Equal(t, sel.AnchorCell(), sel.HeadCell())
			assert.Equal(t, CellPos(t, got.Doc(), tt.r1, tt.c1), sel.AnchorCell())
		})
	}
}

func TestMergeCellsPadsColwidth(t *testing.T) {
	doc := Doc(Table(Row(
		CellAttrs("table_cell", "a", model.Attrs{"colspan": 1, "rowspan": 1, "colwidth": []int{80}}),
		Cell("b"),
	)))
	got := mustApply(t, MergeCells, SelectCells(t, doc, 0, 0, 0, 1))
	cell := got.Doc().NodeAt(CellPos(t, got.Doc(), 0, 0))
	assert.Equal(t, []int{80, 0}, cell.Attrs().Ints("colwidth"))
	assert.Equal(t, 2, cell.Attrs().Int("colspan", 0))
}

func TestMergeCellsRejected(t *testing.T) {
	grid := Grid([]string{"a", "b"}, []string{"c", "d"})
	requireNotApplicable(t, MergeCells, CursorIn(t, grid, 0, 0))
	requireNotApplicable(t, MergeCells, SelectCells(t, grid, 1, 1, 1, 1))

	// The rectangle from b to e cuts through d, which spans columns 0-1.
	straddle := Doc(Table(
		Row(Cell("a"), Cell("b"), Cell("c")),
		Row(Span("d", 2, 1), Cell("e")),
	))
	requireNotApplicable(t, MergeCells, SelectCells(t, straddle, 0, 1, 1, 2))

	// Covering only part of a spanning cell's footprint is not clean.
	// RectBetween grows every cell selection to whole cells, so no
	// selection yields a 1-wide rect over the colspan=2 cell; the check
	// goes to CellsOverlapRectangle directly.
	spanning := Doc(Table(
		Row(Span("a", 2, 1)),
		Row(Cell("c"), Cell("d")),
	))
	table, _ := FirstTable(t, spanning)
	m, err := tablemap.Compute(table)
	require.NoError(t, err)
	assert.True(t, CellsOverlapRectangle(m, tablemap.Rect{Left: 0, Top: 0, Right: 1, Bottom: 2}))
	assert.False(t, CellsOverlapRectangle(m, tablemap.Rect{Left: 0, Top: 0, Right: 2, Bottom: 2}))
}

func TestSplitCell(t *testing.T) {
	tests := []struct {
		name string
		doc  *model.Node
		want *model.Node
	}{
		{
			name: "colspan",
			doc: Doc(Table(
				Row(Span("a", 2, 1)),
				Row(Cell("c"), Cell("d")),
			)),
			want: Grid([]string{"a", ""}, []string{"c", "d"}),
		},
		{
			name: "rowspan",
			doc: Doc(Table(
				Row(Span("a", 1, 2), Cell("b")),
				Row(Cell("d")),
			)),
			want: Grid([]string{"a", "b"}, []string{"", "d"}),
		},
		{
			name: "both",
			doc: Doc(Table(
				Row(Span("a", 2, 2), Cell("b")),
				Row(Cell("e")),
			)),
			want: Grid([]string{"a", "", "b"}, []string{"", "", "e"}),
		},
		{
			name: "header cell keeps its type",
			doc: Doc(Table(
				Row(HeaderSpan("a", 2, 1)),
				Row(Cell("c"), Cell("d")),
			)),
			want: Doc(Table(
				Row(Header("a"), Header("")),
				Row(Cell("c"), Cell("d")),
			)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustApply(t, SplitCell, CursorIn(t, tt.doc, 0, 0))
			EqualDoc(t, tt.want, got.Doc())
			RequireValid(t, got.Doc())
			_, isCells := got.Selection().(state.CellSelection)
			assert.False(t, isCells)
		})
	}
}

func TestSplitCellSelection(t *testing.T) {
	doc := Doc(Table(
		Row(Span("a", 2, 2), Cell("b")),
		Row(Cell("e")),
	))
	got := mustApply(t, SplitCell, SelectCells(t, doc, 0, 0, 0, 0))

	sel, ok := got.Selection().(state.CellSelection)
	require.True(t, ok)
	assert.Equal(t, CellPos(t, got.Doc(), 0, 0), sel.AnchorCell())
	assert.Equal(t, CellPos(t, got.Doc(), 1, 1), sel.HeadCell())
}

func TestSplitCellDistributesColwidth(t *testing.T) {
	doc := Doc(Table(
		Row(CellAttrs("table_cell", "a", model.Attrs{"colspan": 2, "rowspan": 1, "colwidth": []int{100, 0}})),
		Row(Cell("c"), Cell("d")),
	))
	got := mustApply(t, SplitCell, CursorIn(t, doc, 0, 0))
	want := Doc(Table(
		Row(
			CellAttrs("table_cell", "a", model.Attrs{"colwidth": []int{100}}),
			CellAttrs("table_cell", "", model.Attrs{"colwidth": nil}),
		),
		Row(Cell("c"), Cell("d")),
	))
	EqualDoc(t, want, got.Doc())
}

func TestSplitCellRejected(t *testing.T) {
	doc := Doc(Table(
		Row(Span("a", 2, 1)),
		Row(Cell("c"), Cell("d")),
	))
	requireNotApplicable(t, SplitCell, CursorIn(t, doc, 1, 0))
	requireNotApplicable(t, SplitCell, SelectCells(t, doc, 0, 0, 1, 1))
	requireNotApplicable(t, SplitCell, textState(Doc(P("x")), 1))
}

func TestMergeSplitRoundTrip(t *testing.T) {
	doc := Grid(
		[]string{"a", "b", "c"},
		[]string{"d", "e", "f"},
		[]string{"g", "h", "i"},
	)
	merged := mustApply(t, MergeCells, SelectCells(t, doc, 0, 1, 1, 2))
	split := mustApply(t, SplitCell, merged)

	table, _ := FirstTable(t, split.Doc())
	m, err := tablemap.Compute(table)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Width)
	assert.Equal(t, 3, m.Height)
	assert.Empty(t, m.Problems)
	for _, pos := range m.Map {
		colspan, rowspan := tablemap.Spans(table.NodeAt(pos))
		assert.Equal(t, 1, colspan)
		assert.Equal(t, 1, rowspan)
	}
	assert.Len(t, m.CellsInRect(tablemap.Rect{Right: 3, Bottom: 3}), 9)
	assert.Equal(t, "abcefdghi", split.Doc().TextContent())
}
