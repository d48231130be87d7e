package model

import (
	"errors"
	"testing"
)

func p(text string) *Node {
	s := DefaultSchema()
	if text == "" {
		return s.Type("paragraph").Create(nil)
	}
	return s.Type("paragraph").Create(nil, s.Text(text))
}

func cell(text string) *Node {
	return DefaultSchema().Type("table_cell").Create(nil, p(text))
}

// doc(table(row(cell(p("ab")), cell(p("c")))), p("x"))
func testDoc() *Node {
	s := DefaultSchema()
	row := s.Type("table_row").Create(nil, cell("ab"), cell("c"))
	table := s.Type("table").Create(nil, row)
	return s.Type("doc").Create(nil, table, p("x"))
}

func TestNodeSize(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want int
	}{
		{"text", DefaultSchema().Text("héllo"), 5},
		{"empty paragraph", p(""), 2},
		{"paragraph", p("ab"), 4},
		{"cell", cell("ab"), 6},
		{"doc", testDoc(), 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.NodeSize(); got != tt.want {
				t.Errorf("NodeSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNodeAt(t *testing.T) {
	doc := testDoc()
	tests := []struct {
		pos  int
		want string
	}{
		{0, "table"},
		{1, "table_row"},
		{2, "table_cell"},
		{3, "paragraph"},
		{8, "table_cell"},
		{15, "paragraph"},
	}
	for _, tt := range tests {
		n := doc.NodeAt(tt.pos)
		if n == nil {
			t.Fatalf("NodeAt(%d) = nil", tt.pos)
		}
		if n.Type().Name != tt.want {
			t.Errorf("NodeAt(%d) = %s, want %s", tt.pos, n.Type().Name, tt.want)
		}
	}
	if n := doc.NodeAt(5); n == nil || !n.IsText() || n.Text() != "ab" {
		t.Errorf("NodeAt(5) = %v, want text node \"ab\"", n)
	}
	if n := doc.NodeAt(20); n != nil {
		t.Errorf("NodeAt(20) = %v, want nil", n)
	}
}

func TestResolve(t *testing.T) {
	doc := testDoc()

	r, err := doc.Resolve(8)
	if err != nil {
		t.Fatal(err)
	}
	if r.Depth != 2 {
		t.Fatalf("Depth = %d, want 2", r.Depth)
	}
	if r.Parent().Type().Role() != RoleRow {
		t.Errorf("parent role = %v, want row", r.Parent().Type().Role())
	}
	if r.Index(r.Depth) != 1 {
		t.Errorf("Index = %d, want 1", r.Index(r.Depth))
	}
	if r.Start(r.Depth-1) != 1 {
		t.Errorf("table start = %d, want 1", r.Start(r.Depth-1))
	}
	if r.Before(r.Depth) != 1 || r.After(r.Depth) != 14 {
		t.Errorf("row before/after = %d/%d, want 1/14", r.Before(r.Depth), r.After(r.Depth))
	}
	if after := r.NodeAfter(); after == nil || after.TextContent() != "c" {
		t.Errorf("NodeAfter = %v", after)
	}
	if before := r.NodeBefore(); before == nil || before.TextContent() != "ab" {
		t.Errorf("NodeBefore = %v", before)
	}

	r, err = doc.Resolve(5)
	if err != nil {
		t.Fatal(err)
	}
	if r.Depth != 4 || r.TextOffset() != 1 {
		t.Errorf("inside text: depth %d offset %d", r.Depth, r.TextOffset())
	}
	if r.NodeAfter().Text() != "b" || r.NodeBefore().Text() != "a" {
		t.Errorf("text split: before %q after %q", r.NodeBefore().Text(), r.NodeAfter().Text())
	}

	if _, err := doc.Resolve(21); !errors.Is(err, ErrPositionOutOfRange) {
		t.Errorf("Resolve(21) error = %v, want ErrPositionOutOfRange", err)
	}
}

func TestReplace(t *testing.T) {
	doc := testDoc()

	// Insert a cell between the two existing ones.
	out, err := doc.Replace(8, 8, NewFragment(cell("new")))
	if err != nil {
		t.Fatal(err)
	}
	row := out.Child(0).Child(0)
	if row.ChildCount() != 3 || row.Child(1).TextContent() != "new" {
		t.Errorf("unexpected row after insert: %s", row)
	}
	if doc.Child(0).Child(0).ChildCount() != 2 {
		t.Error("original document was modified")
	}

	// Delete the first cell.
	out, err = doc.Replace(2, 8, EmptyFragment)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Child(0).Child(0).ChildCount(); got != 1 {
		t.Errorf("row has %d cells after delete, want 1", got)
	}

	if _, err := doc.Replace(3, 9, EmptyFragment); !errors.Is(err, ErrInvalidReplace) {
		t.Errorf("cross-parent replace error = %v, want ErrInvalidReplace", err)
	}
	if _, err := doc.Replace(2, 2, NewFragment(p("x"))); !errors.Is(err, ErrInvalidReplace) {
		t.Errorf("paragraph in row error = %v, want ErrInvalidReplace", err)
	}
}

func TestSlice(t *testing.T) {
	doc := testDoc()
	// The row holds cell("ab") (size 6) and cell("c") (size 5).
	f, err := doc.Slice(2, 13)
	if err != nil {
		t.Fatal(err)
	}
	if f.ChildCount() != 2 || f.Size() != 11 {
		t.Errorf("Slice = %s (size %d)", f, f.Size())
	}

	if _, err := doc.Slice(2, 14); !errors.Is(err, ErrInvalidReplace) {
		t.Errorf("slice past the row end error = %v, want ErrInvalidReplace", err)
	}
}

func TestCreateAndFill(t *testing.T) {
	s := DefaultSchema()
	c := s.Type("table_header").CreateAndFill(Attrs{"colspan": 2})
	if c.ChildCount() != 1 || c.Child(0).Type().Name != "paragraph" {
		t.Errorf("CreateAndFill content = %s", c)
	}
	if c.Attrs().Int("colspan", 0) != 2 || c.Attrs().Int("rowspan", 0) != 1 {
		t.Errorf("attrs = %v", c.Attrs())
	}
	if err := c.Check(); err != nil {
		t.Errorf("Check() = %v", err)
	}
}

func TestCheck(t *testing.T) {
	s := DefaultSchema()
	if err := testDoc().Check(); err != nil {
		t.Errorf("valid doc: %v", err)
	}
	bad := s.Type("table_row").Create(nil, p("x"))
	if err := bad.Check(); !errors.Is(err, ErrInvalidContent) {
		t.Errorf("paragraph in row: %v, want ErrInvalidContent", err)
	}
	empty := s.Type("table_cell").Create(nil)
	if err := empty.Check(); !errors.Is(err, ErrInvalidContent) {
		t.Errorf("empty cell: %v, want ErrInvalidContent", err)
	}
}

func TestSchemaByRole(t *testing.T) {
	s := DefaultSchema()
	for role, name := range map[Role]string{
		RoleTable:      "table",
		RoleRow:        "table_row",
		RoleCell:       "table_cell",
		RoleHeaderCell: "table_header",
	} {
		if got := s.ByRole(role); got == nil || got.Name != name {
			t.Errorf("ByRole(%v) = %v, want %s", role, got, name)
		}
		if parsed, ok := ParseRole(role.String()); !ok || parsed != role {
			t.Errorf("ParseRole(%q) = %v, %v", role.String(), parsed, ok)
		}
	}
	if !s.Type("paragraph").IsTextblock() || s.Type("table_cell").IsTextblock() {
		t.Error("textblock detection is wrong")
	}
}

func TestNewSchemaErrors(t *testing.T) {
	_, err := NewSchema(NodeSpec{Name: "doc"}, NodeSpec{Name: "doc"})
	if !errors.Is(err, ErrDuplicateType) {
		t.Errorf("duplicate: %v", err)
	}
	_, err = NewSchema(NodeSpec{Name: "doc", Content: ContentRule{Allow: []string{"nope"}}})
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("unknown: %v", err)
	}
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		a, b any
		want bool
	}{
		{2, int64(2), true},
		{2, 2.0, true},
		{2, 3, false},
		{nil, nil, true},
		{nil, []int(nil), true},
		{"red", "red", true},
		{"red", nil, false},
		{[]int{1, 2}, []int{1, 2}, true},
		{[]int{1, 2}, []int{2, 1}, false},
	}
	for _, tt := range tests {
		if got := ValueEqual(tt.a, tt.b); got != tt.want {
			t.Errorf("ValueEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNodeString(t *testing.T) {
	s := DefaultSchema()
	c := s.Type("table_cell").Create(Attrs{"colspan": 2}, p("a"))
	if got, want := c.String(), `table_cell[colspan=2](paragraph("a"))`; got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
