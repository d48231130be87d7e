package state

import (
	"github.com/dshills/gridstorm/internal/engine/model"
)

// State is an immutable editor state.
type State struct {
	doc       *model.Node
	selection Selection
}

// New creates a state. A nil selection places a cursor at the first text
// position.
func New(doc *model.Node, sel Selection) *State {
	if sel == nil {
		sel = AtStart(doc)
	}
	return &State{doc: doc, selection: sel}
}

// Doc returns the document.
func (s *State) Doc() *model.Node { return s.doc }

// Selection returns the selection.
func (s *State) Selection() Selection { return s.selection }

// Schema returns the document's schema.
func (s *State) Schema() *model.Schema { return s.doc.Type().Schema() }

// Tr starts a transaction on the state.
func (s *State) Tr() *Transaction { return newTransaction(s) }

// WithSelection returns a state with the same document and a new
// selection.
func (s *State) WithSelection(sel Selection) *State {
	return &State{doc: s.doc, selection: sel}
}

// Apply returns the state produced by tr.
func (s *State) Apply(tr *Transaction) (*State, error) {
	if tr.Before() != s.doc {
		return nil, ErrStaleTransaction
	}
	return &State{doc: tr.Doc(), selection: tr.Selection()}, nil
}
