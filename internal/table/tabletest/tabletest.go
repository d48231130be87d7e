// Package tabletest provides builders and assertions for table tests.
package tabletest

import (
	"github.com/stretchr/testify/require"

	"github.com/dshills/gridstorm/internal/engine/model"
	"github.com/dshills/gridstorm/internal/engine/state"
	"github.com/dshills/gridstorm/internal/table/tablemap"
)

// T is the subset of testing.TB the helpers need. Both *testing.T and
// *rapid.T satisfy it.
type T interface {
	require.TestingT
	Helper()
}

// Schema is the schema used by every builder.
var Schema = model.DefaultSchema()

// P builds a paragraph. An empty string builds an empty paragraph.
func P(text string) *model.Node {
	if text == "" {
		return Schema.Type("paragraph").Create(nil)
	}
	return Schema.Type("paragraph").Create(nil, Schema.Text(text))
}

// Cell builds a 1x1 data cell holding one paragraph.
func Cell(text string) *model.Node { return Span(text, 1, 1) }

// Header builds a 1x1 header cell holding one paragraph.
func Header(text string) *model.Node { return HeaderSpan(text, 1, 1) }

// Span builds a data cell with the given spans.
func Span(text string, colspan, rowspan int) *model.Node {
	return CellAttrs("table_cell", text, model.Attrs{"colspan": colspan, "rowspan": rowspan})
}

// HeaderSpan builds a header cell with the given spans.
func HeaderSpan(text string, colspan, rowspan int) *model.Node {
	return CellAttrs("table_header", text, model.Attrs{"colspan": colspan, "rowspan": rowspan})
}

// CellAttrs builds a cell of the named type with explicit attributes.
func CellAttrs(typ, text string, attrs model.Attrs) *model.Node {
	return Schema.Type(typ).Create(attrs, P(text))
}

// Row builds a table row.
func Row(cells ...*model.Node) *model.Node {
	return Schema.Type("table_row").Create(nil, cells...)
}

// Table builds a table.
func Table(rows ...*model.Node) *model.Node {
	return Schema.Type("table").Create(nil, rows...)
}

// Doc builds a document.
func Doc(nodes ...*model.Node) *model.Node {
	return Schema.Type("doc").Create(nil, nodes...)
}

// Grid builds a document holding one table of 1x1 data cells, one row per
// argument.
func Grid(rows ...[]string) *model.Node {
	built := make([]*model.Node, len(rows))
	for i, r := range rows {
		cells := make([]*model.Node, len(r))
		for j, text := range r {
			cells[j] = Cell(text)
		}
		built[i] = Row(cells...)
	}
	return Doc(Table(built...))
}

// FirstTable returns the first table in doc and the position where its
// content starts.
func FirstTable(t T, doc *model.Node) (*model.Node, int) {
	t.Helper()
	var table *model.Node
	start := -1
	doc.Descendants(func(n *model.Node, pos int, _ *model.Node, _ int) bool {
		if table != nil {
			return false
		}
		if n.Type().Role() == model.RoleTable {
			table, start = n, pos+1
			return false
		}
		return true
	})
	require.NotNil(t, table, "document has no table")
	return table, start
}

// CellPos returns the absolute position before the cell covering
// (row, col) of the first table in doc.
func CellPos(t T, doc *model.Node, row, col int) int {
	t.Helper()
	table, start := FirstTable(t, doc)
	m, err := tablemap.Get(table)
	require.NoError(t, err)
	require.Less(t, row, m.Height)
	require.Less(t, col, m.Width)
	return start + m.Map[row*m.Width+col]
}

// CursorIn returns a state with the cursor inside the first paragraph of
// the cell covering (row, col).
func CursorIn(t T, doc *model.Node, row, col int) *state.State {
	t.Helper()
	return state.New(doc, state.Cursor(CellPos(t, doc, row, col)+2))
}

// SelectCells returns a state with a cell selection from the cell at
// (r1, c1) to the cell at (r2, c2).
func SelectCells(t T, doc *model.Node, r1, c1, r2, c2 int) *state.State {
	t.Helper()
	sel, err := state.CellSelectionIn(doc, CellPos(t, doc, r1, c1), CellPos(t, doc, r2, c2))
	require.NoError(t, err)
	return state.New(doc, sel)
}

// EqualDoc fails the test when got is not structurally equal to want.
func EqualDoc(t T, want, got *model.Node) {
	t.Helper()
	require.True(t, want.Eq(got), "documents differ\nwant: %s\n got: %s", want, got)
}

// RequireValid fails the test when the first table in doc has layout
// problems or the document violates the schema.
func RequireValid(t T, doc *model.Node) {
	t.Helper()
	require.NoError(t, doc.Check())
	table, _ := FirstTable(t, doc)
	m, err := tablemap.Compute(table)
	require.NoError(t, err)
	require.Empty(t, m.Problems, "table %s", table)
}
