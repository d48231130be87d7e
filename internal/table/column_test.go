package table

import (
	"testing"

	"github.com/dshills/gridstorm/internal/engine/model"
	. "github.com/dshills/gridstorm/internal/table/tabletest"
)

func TestAddColumn(t *testing.T) {
	tests := []struct {
		name     string
		doc      *model.Node
		row, col int
		cmd      Command
		want     *model.Node
	}{
		{
			name: "after first column",
			doc:  Grid([]string{"a", "b"}, []string{"c", "d"}),
			cmd:  AddColumnAfter,
			want: Grid([]string{"a", "", "b"}, []string{"c", "", "d"}),
		},
		{
			name: "before first column",
			doc:  Grid([]string{"a", "b"}, []string{"c", "d"}),
			cmd:  AddColumnBefore,
			want: Grid([]string{"", "a", "b"}, []string{"", "c", "d"}),
		},
		{
			name: "after last column",
			doc:  Grid([]string{"a", "b"}, []string{"c", "d"}),
			col:  1,
			cmd:  AddColumnAfter,
			want: Grid([]string{"a", "b", ""}, []string{"c", "d", ""}),
		},
		{
			name: "grows a cell spanning the new column",
			doc: Doc(Table(
				Row(Span("a", 2, 1)),
				Row(Cell("c"), Cell("d")),
			)),
			row: 1,
			cmd: AddColumnAfter,
			want: Doc(Table(
				Row(Span("a", 3, 1)),
				Row(Cell("c"), Cell(""), Cell("d")),
			)),
		},
		{
			name: "skips rows covered by a grown cell",
			doc: Doc(Table(
				Row(Span("a", 2, 2), Cell("b")),
				Row(Cell("e")),
				Row(Cell("f"), Cell("g"), Cell("h")),
			)),
			row: 2,
			cmd: AddColumnAfter,
			want: Doc(Table(
				Row(Span("a", 3, 2), Cell("b")),
				Row(Cell("e")),
				Row(Cell("f"), Cell(""), Cell("g"), Cell("h")),
			)),
		},
		{
			name: "copies cell types from the reference column",
			doc: Doc(Table(
				Row(Cell("a"), Header("b")),
				Row(Cell("c"), Cell("d")),
			)),
			col: 1,
			cmd: AddColumnAfter,
			want: Doc(Table(
				Row(Cell("a"), Header("b"), Header("")),
				Row(Cell("c"), Cell("d"), Cell("")),
			)),
		},
		{
			name: "header column at the left edge gives plain cells",
			doc: Doc(Table(
				Row(Header("a"), Cell("b")),
				Row(Header("c"), Cell("d")),
			)),
			cmd: AddColumnBefore,
			want: Doc(Table(
				Row(Cell(""), Header("a"), Cell("b")),
				Row(Cell(""), Header("c"), Cell("d")),
			)),
		},
		{
			name: "header column at the right edge gives plain cells",
			doc: Doc(Table(
				Row(Cell("a"), Header("b")),
				Row(Cell("c"), Header("d")),
			)),
			col: 1,
			cmd: AddColumnAfter,
			want: Doc(Table(
				Row(Cell("a"), Header("b"), Cell("")),
				Row(Cell("c"), Header("d"), Cell("")),
			)),
		},
		{
			name: "interior insertion after a header column copies the next column",
			doc: Doc(Table(
				Row(Header("a"), Header("b")),
				Row(Header("c"), Cell("d")),
			)),
			cmd: AddColumnAfter,
			want: Doc(Table(
				Row(Header("a"), Header(""), Header("b")),
				Row(Header("c"), Cell(""), Cell("d")),
			)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustApply(t, tt.cmd, CursorIn(t, tt.doc, tt.row, tt.col))
			EqualDoc(t, tt.want, got.Doc())
			RequireValid(t, got.Doc())
		})
	}
}

func TestAddColumnKeepsColwidth(t *testing.T) {
	wide := model.Attrs{"colspan": 2, "rowspan": 1, "colwidth": []int{100, 200}}
	doc := Doc(Table(
		Row(CellAttrs("table_cell", "a", wide)),
		Row(Cell("c"), Cell("d")),
	))
	got := mustApply(t, AddColumnAfter, CursorIn(t, doc, 1, 0))

	want := Doc(Table(
		Row(CellAttrs("table_cell", "a", model.Attrs{"colspan": 3, "rowspan": 1, "colwidth": []int{100, 0, 200}})),
		Row(Cell("c"), Cell(""), Cell("d")),
	))
	EqualDoc(t, want, got.Doc())
}

func TestDeleteColumn(t *testing.T) {
	tests := []struct {
		name           string
		doc            *model.Node
		r1, c1, r2, c2 int
		want           *model.Node
	}{
		{
			name: "single column",
			doc:  Grid([]string{"a", "b"}, []string{"c", "d"}),
			r1:   0, c1: 1, r2: 0, c2: 1,
			want: Grid([]string{"a"}, []string{"c"}),
		},
		{
			name: "two columns",
			doc:  Grid([]string{"a", "b", "c"}, []string{"d", "e", "f"}),
			r1:   0, c1: 0, r2: 1, c2: 1,
			want: Grid([]string{"c"}, []string{"f"}),
		},
		{
			name: "shrinks a spanning cell",
			doc: Doc(Table(
				Row(Span("a", 2, 1), Cell("b")),
				Row(Cell("c"), Cell("d"), Cell("e")),
			)),
			r1: 1, c1: 1, r2: 1, c2: 1,
			want: Doc(Table(
				Row(Cell("a"), Cell("b")),
				Row(Cell("c"), Cell("e")),
			)),
		},
		{
			name: "steps over rowspans",
			doc: Doc(Table(
				Row(Cell("a"), Span("b", 1, 2)),
				Row(Cell("c")),
				Row(Cell("d"), Cell("e")),
			)),
			r1: 0, c1: 1, r2: 2, c2: 1,
			want: Grid([]string{"a"}, []string{"c"}, []string{"d"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustApply(t, DeleteColumn, SelectCells(t, tt.doc, tt.r1, tt.c1, tt.r2, tt.c2))
			EqualDoc(t, tt.want, got.Doc())
			RequireValid(t, got.Doc())
		})
	}
}

func TestDeleteColumnDropsColwidth(t *testing.T) {
	doc := Doc(Table(
		Row(CellAttrs("table_cell", "a", model.Attrs{"colspan": 2, "rowspan": 1, "colwidth": []int{100, 200}})),
		Row(Cell("c"), Cell("d")),
	))
	got := mustApply(t, DeleteColumn, CursorIn(t, doc, 1, 1))
	want := Doc(Table(
		Row(CellAttrs("table_cell", "a", model.Attrs{"colspan": 1, "rowspan": 1, "colwidth": []int{100}})),
		Row(Cell("c")),
	))
	EqualDoc(t, want, got.Doc())

	got = mustApply(t, DeleteColumn, CursorIn(t, doc, 1, 0))
	want = Doc(Table(
		Row(CellAttrs("table_cell", "a", model.Attrs{"colspan": 1, "rowspan": 1, "colwidth": []int{200}})),
		Row(Cell("d")),
	))
	EqualDoc(t, want, got.Doc())
}

func TestDeleteColumnRejectsFullWidth(t *testing.T) {
	doc := Grid([]string{"a", "b"}, []string{"c", "d"})
	requireNotApplicable(t, DeleteColumn, SelectCells(t, doc, 0, 0, 1, 1))
	requireNotApplicable(t, DeleteColumn, SelectCells(t, doc, 1, 0, 1, 1))

	single := Grid([]string{"a"}, []string{"b"})
	requireNotApplicable(t, DeleteColumn, CursorIn(t, single, 0, 0))
}

func TestColumnCommandsOutsideTable(t *testing.T) {
	doc := Doc(P("x"), Table(Row(Cell("a"))))
	for _, cmd := range []Command{AddColumnBefore, AddColumnAfter, DeleteColumn} {
		requireNotApplicable(t, cmd, textState(doc, 1))
	}
}
