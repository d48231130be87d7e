package transform

import (
	"fmt"

	"github.com/dshills/gridstorm/internal/engine/model"
)

// Transform accumulates steps applied to a document.
type Transform struct {
	doc     *model.Node
	steps   []Step
	docs    []*model.Node
	mapping *Mapping
}

// New starts a transform on doc.
func New(doc *model.Node) *Transform {
	return &Transform{doc: doc, mapping: NewMapping()}
}

// Doc returns the current document.
func (t *Transform) Doc() *model.Node { return t.doc }

// Before returns the document the transform started from.
func (t *Transform) Before() *model.Node {
	if len(t.docs) > 0 {
		return t.docs[0]
	}
	return t.doc
}

// Steps returns the applied steps.
func (t *Transform) Steps() []Step { return t.steps }

// Docs returns the document before each step.
func (t *Transform) Docs() []*model.Node { return t.docs }

// Mapping returns the mapping of all applied steps.
func (t *Transform) Mapping() *Mapping { return t.mapping }

// DocChanged reports whether any step was applied.
func (t *Transform) DocChanged() bool { return len(t.steps) > 0 }

// Step applies step and records it.
func (t *Transform) Step(step Step) error {
	res := t.MaybeStep(step)
	if res.Failed != "" {
		return fmt.Errorf("%w: %s: %s", ErrStepFailed, step, res.Failed)
	}
	return nil
}

// MaybeStep applies step when it succeeds and returns the result either way.
func (t *Transform) MaybeStep(step Step) StepResult {
	res := step.Apply(t.doc)
	if res.Failed == "" {
		t.docs = append(t.docs, t.doc)
		t.steps = append(t.steps, step)
		t.mapping.AppendMap(step.GetMap())
		t.doc = res.Doc
	}
	return res
}

// Replace replaces [from, to) with content.
func (t *Transform) Replace(from, to int, content model.Fragment) error {
	if from == to && content.Size() == 0 {
		return nil
	}
	return t.Step(&ReplaceStep{From: from, To: to, Content: content})
}

// ReplaceWith replaces [from, to) with nodes.
func (t *Transform) ReplaceWith(from, to int, nodes ...*model.Node) error {
	return t.Replace(from, to, model.NewFragment(nodes...))
}

// Insert inserts nodes at pos.
func (t *Transform) Insert(pos int, nodes ...*model.Node) error {
	return t.ReplaceWith(pos, pos, nodes...)
}

// Delete removes [from, to).
func (t *Transform) Delete(from, to int) error {
	return t.Replace(from, to, model.EmptyFragment)
}

// SetNodeMarkup changes the type and attributes of the node at pos. A nil
// typ keeps the node's type.
func (t *Transform) SetNodeMarkup(pos int, typ *model.NodeType, attrs model.Attrs) error {
	return t.Step(&SetMarkupStep{Pos: pos, Type: typ, Attrs: attrs})
}
