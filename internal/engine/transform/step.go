package transform

import (
	"fmt"

	"github.com/dshills/gridstorm/internal/engine/model"
)

// Step is an atomic, invertible document change.
type Step interface {
	// Apply applies the step to doc.
	Apply(doc *model.Node) StepResult

	// GetMap returns the position map of the step.
	GetMap() *StepMap

	// Invert returns the step that undoes this one. doc is the document
	// the step was applied to.
	Invert(doc *model.Node) Step

	// String describes the step for logs.
	String() string
}

// StepResult is the outcome of applying a step.
type StepResult struct {
	Doc    *model.Node
	Failed string
}

// OK returns a successful result.
func OK(doc *model.Node) StepResult { return StepResult{Doc: doc} }

// Fail returns a failed result.
func Fail(msg string) StepResult { return StepResult{Failed: msg} }

// FromReplace applies a replacement and converts any error to a failure.
func FromReplace(doc *model.Node, from, to int, content model.Fragment) StepResult {
	out, err := doc.Replace(from, to, content)
	if err != nil {
		return Fail(err.Error())
	}
	return OK(out)
}

// ReplaceStep replaces the range [From, To) with Content.
type ReplaceStep struct {
	From, To int
	Content  model.Fragment
}

// Apply implements Step.
func (s *ReplaceStep) Apply(doc *model.Node) StepResult {
	return FromReplace(doc, s.From, s.To, s.Content)
}

// GetMap implements Step.
func (s *ReplaceStep) GetMap() *StepMap {
	return NewStepMap(s.From, s.To-s.From, s.Content.Size())
}

// Invert implements Step.
func (s *ReplaceStep) Invert(doc *model.Node) Step {
	removed, err := doc.Slice(s.From, s.To)
	if err != nil {
		removed = model.EmptyFragment
	}
	return &ReplaceStep{From: s.From, To: s.From + s.Content.Size(), Content: removed}
}

func (s *ReplaceStep) String() string {
	return fmt.Sprintf("replace %d-%d with %d nodes", s.From, s.To, s.Content.ChildCount())
}

// SetMarkupStep changes the type and attributes of the node at Pos.
type SetMarkupStep struct {
	Pos   int
	Type  *model.NodeType
	Attrs model.Attrs
}

// Apply implements Step.
func (s *SetMarkupStep) Apply(doc *model.Node) StepResult {
	node := doc.NodeAt(s.Pos)
	if node == nil {
		return Fail(fmt.Sprintf("no node at position %d", s.Pos))
	}
	if node.IsText() {
		return Fail(fmt.Sprintf("cannot set markup of text at position %d", s.Pos))
	}
	out, err := doc.ReplaceNodeAt(s.Pos, node.WithMarkup(s.Type, s.Attrs))
	if err != nil {
		return Fail(err.Error())
	}
	return OK(out)
}

// GetMap implements Step.
func (s *SetMarkupStep) GetMap() *StepMap { return EmptyStepMap }

// Invert implements Step.
func (s *SetMarkupStep) Invert(doc *model.Node) Step {
	node := doc.NodeAt(s.Pos)
	if node == nil {
		return &SetMarkupStep{Pos: s.Pos, Type: s.Type, Attrs: s.Attrs}
	}
	return &SetMarkupStep{Pos: s.Pos, Type: node.Type(), Attrs: node.Attrs()}
}

func (s *SetMarkupStep) String() string {
	name := "(same)"
	if s.Type != nil {
		name = s.Type.Name
	}
	return fmt.Sprintf("setMarkup %d %s [%s]", s.Pos, name, s.Attrs.Format())
}
