package transform

import (
	"errors"
	"testing"

	"github.com/dshills/gridstorm/internal/engine/model"
)

func para(text string) *model.Node {
	s := model.DefaultSchema()
	if text == "" {
		return s.Type("paragraph").Create(nil)
	}
	return s.Type("paragraph").Create(nil, s.Text(text))
}

func testDoc(texts ...string) *model.Node {
	nodes := make([]*model.Node, len(texts))
	for i, t := range texts {
		nodes[i] = para(t)
	}
	return model.DefaultSchema().Type("doc").Create(nil, nodes...)
}

func TestStepMapMap(t *testing.T) {
	// Insertion of 3 tokens at 5.
	ins := NewStepMap(5, 0, 3)
	// Deletion of 4 tokens at 10.
	del := NewStepMap(10, 4, 0)

	tests := []struct {
		name  string
		m     *StepMap
		pos   int
		assoc int
		want  int
	}{
		{"before insert", ins, 2, 1, 2},
		{"at insert right", ins, 5, 1, 8},
		{"at insert left", ins, 5, -1, 5},
		{"after insert", ins, 7, 1, 10},
		{"before delete", del, 9, 1, 9},
		{"inside delete", del, 12, 1, 10},
		{"delete start", del, 10, 1, 10},
		{"delete end", del, 14, -1, 10},
		{"after delete", del, 20, 1, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Map(tt.pos, tt.assoc); got != tt.want {
				t.Errorf("Map(%d, %d) = %d, want %d", tt.pos, tt.assoc, got, tt.want)
			}
		})
	}
	if !del.MapResult(12, 1).Deleted {
		t.Error("position inside deletion should be reported deleted")
	}
}

func TestStepMapInvert(t *testing.T) {
	m := NewStepMap(5, 0, 3)
	inv := m.Invert()
	for _, pos := range []int{0, 4, 5, 9, 20} {
		if got := inv.Map(m.Map(pos, 1), 1); got != pos {
			t.Errorf("round trip of %d = %d", pos, got)
		}
	}
}

func TestMappingSlice(t *testing.T) {
	m := NewMapping()
	m.AppendMap(NewStepMap(0, 0, 2))
	m.AppendMap(NewStepMap(10, 0, 5))

	if got := m.Map(12, 1); got != 19 {
		t.Errorf("full mapping = %d, want 19", got)
	}
	s := m.Slice(1)
	if s.Len() != 1 {
		t.Errorf("slice Len = %d, want 1", s.Len())
	}
	if got := s.Map(12, 1); got != 17 {
		t.Errorf("slice mapping = %d, want 17", got)
	}
	m.AppendMap(NewStepMap(0, 0, 100))
	if s.Len() != 1 {
		t.Error("slice grew after append to parent")
	}
}

func TestTransformInsertDelete(t *testing.T) {
	doc := testDoc("a", "b")
	tr := New(doc)

	if err := tr.Insert(3, para("new")); err != nil {
		t.Fatal(err)
	}
	if err := tr.Delete(tr.Mapping().Map(3, 1), tr.Mapping().Map(6, 1)); err != nil {
		t.Fatal(err)
	}
	if got := tr.Doc().TextContent(); got != "anew" {
		t.Errorf("TextContent = %q, want anew", got)
	}
	if len(tr.Steps()) != 2 || tr.Before() != doc {
		t.Errorf("steps %d, before changed", len(tr.Steps()))
	}
}

func TestTransformInvert(t *testing.T) {
	doc := testDoc("a", "b")
	tr := New(doc)
	if err := tr.Delete(0, 3); err != nil {
		t.Fatal(err)
	}
	if err := tr.SetNodeMarkup(0, model.DefaultSchema().Type("heading"), model.Attrs{"level": 2}); err != nil {
		t.Fatal(err)
	}

	undo := New(tr.Doc())
	for i := len(tr.Steps()) - 1; i >= 0; i-- {
		if err := undo.Step(tr.Steps()[i].Invert(tr.Docs()[i])); err != nil {
			t.Fatal(err)
		}
	}
	if !undo.Doc().Eq(doc) {
		t.Errorf("inverted doc = %s, want %s", undo.Doc(), doc)
	}
}

func TestTransformStepFailure(t *testing.T) {
	tr := New(testDoc("ab"))
	err := tr.Delete(2, 4)
	if !errors.Is(err, ErrStepFailed) {
		t.Errorf("error = %v, want ErrStepFailed", err)
	}
	if tr.DocChanged() {
		t.Error("failed step must not be recorded")
	}
	if err := tr.SetNodeMarkup(100, nil, nil); !errors.Is(err, ErrStepFailed) {
		t.Errorf("markup error = %v, want ErrStepFailed", err)
	}
}
