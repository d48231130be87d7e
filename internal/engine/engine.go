package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang/glog"

	"github.com/dshills/gridstorm/internal/engine/history"
	"github.com/dshills/gridstorm/internal/engine/model"
	"github.com/dshills/gridstorm/internal/engine/state"
	"github.com/dshills/gridstorm/internal/table"
)

// Engine owns the editor state of one document. It runs table commands
// against the state, records every document change in its history and
// counts revisions. An Engine is safe for concurrent use.
type Engine struct {
	mu        sync.RWMutex
	state     *state.State
	history   *history.History
	revision  uint64
	snapshots map[string]snapshot

	maxUndoEntries int
	readOnly       bool
	initSelection  state.Selection
}

type snapshot struct {
	doc      *model.Node
	revision uint64
}

// New creates an engine editing doc.
func New(doc *model.Node, opts ...Option) *Engine {
	e := &Engine{
		maxUndoEntries: DefaultMaxUndoEntries,
		snapshots:      make(map[string]snapshot),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = state.New(doc, e.initSelection)
	e.history = history.NewHistory(e.maxUndoEntries)
	return e
}

// State returns the current editor state. States are immutable, so the
// result stays valid after later edits.
func (e *Engine) State() *state.State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Doc returns the current document.
func (e *Engine) Doc() *model.Node { return e.State().Doc() }

// Selection returns the current selection.
func (e *Engine) Selection() state.Selection { return e.State().Selection() }

// Revision counts the document changes applied so far, undo and redo
// included.
func (e *Engine) Revision() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.revision
}

// IsReadOnly reports whether edits are refused.
func (e *Engine) IsReadOnly() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.readOnly
}

// SetSelection replaces the selection. Selection changes are not recorded
// in history.
func (e *Engine) SetSelection(sel state.Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = e.state.WithSelection(sel)
}

// SelectCells selects the cells from (r1, c1) to (r2, c2) of the
// tableIndex'th table.
func (e *Engine) SelectCells(tableIndex, r1, c1, r2, c2 int) error {
	return e.selectWith(func(doc *model.Node) (state.Selection, error) {
		return table.SelectCellRange(doc, tableIndex, r1, c1, r2, c2)
	})
}

// CursorIn places the cursor in the cell covering (row, col) of the
// tableIndex'th table.
func (e *Engine) CursorIn(tableIndex, row, col int) error {
	return e.selectWith(func(doc *model.Node) (state.Selection, error) {
		return table.CursorInCell(doc, tableIndex, row, col)
	})
}

func (e *Engine) selectWith(resolve func(*model.Node) (state.Selection, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	sel, err := resolve(e.state.Doc())
	if err != nil {
		return err
	}
	e.state = e.state.WithSelection(sel)
	return nil
}

// Can reports whether cmd applies to the current state.
func (e *Engine) Can(cmd table.Command) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return !e.readOnly && cmd.Check(e.state)
}

// Run builds cmd against the current state and commits the result. It
// returns false without error when the command does not apply.
func (e *Engine) Run(cmd table.Command) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return false, ErrReadOnly
	}

	tr, err := cmd.Build(e.state)
	switch {
	case errors.Is(err, table.ErrNotApplicable):
		return false, nil
	case err != nil:
		return false, err
	}
	if err := e.commitLocked(cmd.Name(), tr); err != nil {
		return false, fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	return true, nil
}

// Apply commits a transaction built from the current state. name labels
// the history entry.
func (e *Engine) Apply(name string, tr *state.Transaction) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return ErrReadOnly
	}
	return e.commitLocked(name, tr)
}

// commitLocked applies tr and records it. e.mu must be held.
func (e *Engine) commitLocked(name string, tr *state.Transaction) error {
	before := e.state
	next, err := before.Apply(tr)
	if err != nil {
		return err
	}
	e.state = next
	if tr.DocChanged() {
		e.history.Push(history.NewEntry(name, tr, before.Selection()))
		e.revision++
	}
	if glog.V(2) {
		glog.Infof("engine: %s committed %s (%d steps, revision %d)", name, tr.ID(), len(tr.Steps()), e.revision)
	}
	return nil
}

// Undo reverts the newest history entry.
func (e *Engine) Undo() error { return e.travel(e.history.Undo) }

// Redo reapplies the newest undone entry.
func (e *Engine) Redo() error { return e.travel(e.history.Redo) }

func (e *Engine) travel(move func(*state.State) (*state.State, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return ErrReadOnly
	}
	next, err := move(e.state)
	if err != nil {
		return err
	}
	e.state = next
	e.revision++
	return nil
}

// CanUndo reports whether there is a change to undo.
func (e *Engine) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether there is an undone change to redo.
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// UndoCount returns the number of undo entries.
func (e *Engine) UndoCount() int { return e.history.UndoCount() }

// RedoCount returns the number of redo entries.
func (e *Engine) RedoCount() int { return e.history.RedoCount() }

// UndoInfo describes the undo entries, oldest first.
func (e *Engine) UndoInfo() []history.OperationInfo { return e.history.UndoInfo() }

// BeginUndoGroup folds every change until the matching EndUndoGroup into
// one history entry.
func (e *Engine) BeginUndoGroup(name string) { e.history.BeginGroup(name) }

// EndUndoGroup closes the group BeginUndoGroup opened.
func (e *Engine) EndUndoGroup() { e.history.EndGroup() }

// CancelUndoGroup closes the open groups without recording them.
func (e *Engine) CancelUndoGroup() { e.history.CancelGroup() }

// ClearHistory drops the undo and redo stacks. The document is unchanged.
func (e *Engine) ClearHistory() { e.history.Clear() }

// CreateSnapshot stores the current document under name, replacing any
// snapshot with the same name. A snapshot shares structure with the live
// document.
func (e *Engine) CreateSnapshot(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snapshots[name] = snapshot{doc: e.state.Doc(), revision: e.revision}
}

// Snapshot returns the document stored under name and the revision it was
// taken at.
func (e *Engine) Snapshot(name string) (*model.Node, uint64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	snap, ok := e.snapshots[name]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrSnapshotNotFound, name)
	}
	return snap.doc, snap.revision, nil
}

// DeleteSnapshot forgets the snapshot stored under name.
func (e *Engine) DeleteSnapshot(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.snapshots, name)
}

// RestoreSnapshot replaces the document with the snapshot stored under
// name. The restore is an ordinary undoable change.
func (e *Engine) RestoreSnapshot(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return ErrReadOnly
	}
	snap, ok := e.snapshots[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrSnapshotNotFound, name)
	}

	tr := e.state.Tr()
	if err := tr.Replace(0, e.state.Doc().ContentSize(), snap.doc.Content()); err != nil {
		return err
	}
	tr.SetSelection(state.AtStart(tr.Doc()))
	return e.commitLocked("restore "+name, tr)
}
