package table

import (
	"testing"

	"github.com/dshills/gridstorm/internal/engine/model"
	. "github.com/dshills/gridstorm/internal/table/tabletest"
)

func TestAddRow(t *testing.T) {
	tests := []struct {
		name     string
		doc      *model.Node
		row, col int
		cmd      Command
		want     *model.Node
	}{
		{
			name: "after first row",
			doc:  Grid([]string{"a", "b"}, []string{"c", "d"}),
			cmd:  AddRowAfter,
			want: Grid([]string{"a", "b"}, []string{"", ""}, []string{"c", "d"}),
		},
		{
			name: "before first row",
			doc:  Grid([]string{"a", "b"}, []string{"c", "d"}),
			cmd:  AddRowBefore,
			want: Grid([]string{"", ""}, []string{"a", "b"}, []string{"c", "d"}),
		},
		{
			name: "after last row",
			doc:  Grid([]string{"a", "b"}, []string{"c", "d"}),
			row:  1,
			cmd:  AddRowAfter,
			want: Grid([]string{"a", "b"}, []string{"c", "d"}, []string{"", ""}),
		},
		{
			name: "grows a cell spanning the new row",
			doc: Doc(Table(
				Row(Span("a", 1, 2), Cell("b")),
				Row(Cell("c")),
			)),
			col: 1,
			cmd: AddRowAfter,
			want: Doc(Table(
				Row(Span("a", 1, 3), Cell("b")),
				Row(Cell("")),
				Row(Cell("c")),
			)),
		},
		{
			name: "skips columns covered by a grown cell",
			doc: Doc(Table(
				Row(Span("a", 2, 2), Cell("b")),
				Row(Cell("c")),
			)),
			col: 2,
			cmd: AddRowAfter,
			want: Doc(Table(
				Row(Span("a", 2, 3), Cell("b")),
				Row(Cell("")),
				Row(Cell("c")),
			)),
		},
		{
			name: "copies cell types from the reference row",
			doc: Doc(Table(
				Row(Header("a"), Cell("b")),
				Row(Cell("c"), Cell("d")),
			)),
			cmd: AddRowAfter,
			want: Doc(Table(
				Row(Header("a"), Cell("b")),
				Row(Header(""), Cell("")),
				Row(Cell("c"), Cell("d")),
			)),
		},
		{
			name: "header row at the top edge gives plain cells",
			doc: Doc(Table(
				Row(Header("a"), Header("b")),
				Row(Cell("c"), Cell("d")),
			)),
			cmd: AddRowBefore,
			want: Doc(Table(
				Row(Cell(""), Cell("")),
				Row(Header("a"), Header("b")),
				Row(Cell("c"), Cell("d")),
			)),
		},
		{
			name: "interior insertion after a header row copies the next row",
			doc: Doc(Table(
				Row(Header("a"), Header("b")),
				Row(Cell("c"), Header("d")),
			)),
			cmd: AddRowAfter,
			want: Doc(Table(
				Row(Header("a"), Header("b")),
				Row(Cell(""), Header("")),
				Row(Cell("c"), Header("d")),
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

func TestDeleteRow(t *testing.T) {
	tests := []struct {
		name           string
		doc            *model.Node
		r1, c1, r2, c2 int
		want           *model.Node
	}{
		{
			name: "middle row",
			doc:  Grid([]string{"a"}, []string{"b"}, []string{"c"}),
			r1:   1, c1: 0, r2: 1, c2: 0,
			want: Grid([]string{"a"}, []string{"c"}),
		},
		{
			name: "two rows",
			doc:  Grid([]string{"a"}, []string{"b"}, []string{"c"}, []string{"d"}),
			r1:   1, c1: 0, r2: 2, c2: 0,
			want: Grid([]string{"a"}, []string{"d"}),
		},
		{
			name: "moves a cell continuing below",
			doc: Doc(Table(
				Row(Span("a", 1, 2), Cell("b")),
				Row(Cell("c")),
			)),
			r1: 0, c1: 1, r2: 0, c2: 1,
			want: Grid([]string{"a", "c"}),
		},
		{
			name: "shrinks a cell starting above",
			doc: Doc(Table(
				Row(Span("a", 1, 2), Cell("b")),
				Row(Cell("c")),
			)),
			r1: 1, c1: 1, r2: 1, c2: 1,
			want: Grid([]string{"a", "b"}),
		},
		{
			name: "shrinks a tall cell from the middle",
			doc: Doc(Table(
				Row(Span("a", 1, 3), Cell("b")),
				Row(Cell("c")),
				Row(Cell("d")),
			)),
			r1: 1, c1: 1, r2: 1, c2: 1,
			want: Doc(Table(
				Row(Span("a", 1, 2), Cell("b")),
				Row(Cell("d")),
			)),
		},
		{
			name: "moves a wide cell continuing below",
			doc: Doc(Table(
				Row(Span("a", 2, 2), Cell("b")),
				Row(Cell("c")),
				Row(Cell("d"), Cell("e"), Cell("f")),
			)),
			r1: 0, c1: 2, r2: 0, c2: 2,
			want: Doc(Table(
				Row(Span("a", 2, 1), Cell("c")),
				Row(Cell("d"), Cell("e"), Cell("f")),
			)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustApply(t, DeleteRow, SelectCells(t, tt.doc, tt.r1, tt.c1, tt.r2, tt.c2))
			EqualDoc(t, tt.want, got.Doc())
			RequireValid(t, got.Doc())
		})
	}
}

func TestDeleteRowRejectsFullHeight(t *testing.T) {
	doc := Grid([]string{"a", "b"}, []string{"c", "d"})
	requireNotApplicable(t, DeleteRow, SelectCells(t, doc, 0, 0, 1, 0))
	requireNotApplicable(t, DeleteRow, SelectCells(t, doc, 0, 1, 1, 1))

	single := Grid([]string{"a", "b"})
	requireNotApplicable(t, DeleteRow, CursorIn(t, single, 0, 1))
}

func TestRowCommandsOutsideTable(t *testing.T) {
	doc := Doc(P("x"), Table(Row(Cell("a"))))
	for _, cmd := range []Command{AddRowBefore, AddRowAfter, DeleteRow} {
		requireNotApplicable(t, cmd, textState(doc, 1))
	}
}
