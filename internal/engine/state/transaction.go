package state

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/gridstorm/internal/engine/transform"
)

// Transaction is a transform that also tracks the selection and a few
// flags for the host.
type Transaction struct {
	*transform.Transform

	id           uuid.UUID
	time         time.Time
	selection    Selection
	selectionFor int
	selectionSet bool
	scroll       bool
	meta         map[string]any
}

func newTransaction(s *State) *Transaction {
	return &Transaction{
		Transform: transform.New(s.doc),
		id:        uuid.New(),
		time:      time.Now(),
		selection: s.selection,
	}
}

// ID returns the transaction's unique identifier.
func (tr *Transaction) ID() uuid.UUID { return tr.id }

// Time returns when the transaction was created.
func (tr *Transaction) Time() time.Time { return tr.time }

// Selection returns the transaction's selection, mapped through any steps
// added since it was last set.
func (tr *Transaction) Selection() Selection {
	if n := len(tr.Steps()); tr.selectionFor < n {
		tr.selection = tr.selection.Map(tr.Doc(), tr.Mapping().Slice(tr.selectionFor))
		tr.selectionFor = n
	}
	return tr.selection
}

// SetSelection replaces the selection.
func (tr *Transaction) SetSelection(sel Selection) *Transaction {
	tr.selection = sel
	tr.selectionFor = len(tr.Steps())
	tr.selectionSet = true
	return tr
}

// SelectionSet reports whether SetSelection was called.
func (tr *Transaction) SelectionSet() bool { return tr.selectionSet }

// ScrollIntoView asks the host to scroll the selection into view.
func (tr *Transaction) ScrollIntoView() *Transaction {
	tr.scroll = true
	return tr
}

// ScrolledIntoView reports whether ScrollIntoView was called.
func (tr *Transaction) ScrolledIntoView() bool { return tr.scroll }

// SetMeta stores a metadata value on the transaction.
func (tr *Transaction) SetMeta(key string, value any) *Transaction {
	if tr.meta == nil {
		tr.meta = make(map[string]any)
	}
	tr.meta[key] = value
	return tr
}

// Meta returns a metadata value.
func (tr *Transaction) Meta(key string) any { return tr.meta[key] }
