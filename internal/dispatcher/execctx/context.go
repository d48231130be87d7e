// Package execctx holds the per-dispatch state handed to action handlers.
package execctx

import (
	"context"

	"github.com/dshills/gridstorm/internal/engine/model"
	"github.com/dshills/gridstorm/internal/engine/state"
	"github.com/dshills/gridstorm/internal/table"
)

// EngineInterface is the part of the document engine handlers drive.
// *engine.Engine implements it.
type EngineInterface interface {
	Can(cmd table.Command) bool
	Run(cmd table.Command) (bool, error)

	State() *state.State
	Revision() uint64
	IsReadOnly() bool

	SetSelection(sel state.Selection)
	SelectCells(tableIndex, r1, c1, r2, c2 int) error
	CursorIn(tableIndex, row, col int) error
}

// HistoryInterface is the undo surface handlers drive.
type HistoryInterface interface {
	Undo() error
	Redo() error
	CanUndo() bool
	CanRedo() bool
	UndoCount() int
	RedoCount() int

	// BeginUndoGroup and EndUndoGroup fold the commits between them into
	// one undo entry. Groups nest.
	BeginUndoGroup(name string)
	EndUndoGroup()
	CancelUndoGroup()
	ClearHistory()

	// Snapshots are named copies of the document. Restoring one is an
	// undoable change.
	CreateSnapshot(name string)
	Snapshot(name string) (*model.Node, uint64, error)
	RestoreSnapshot(name string) error
	DeleteSnapshot(name string)
}

// ExecutionContext is built fresh for every dispatch.
type ExecutionContext struct {
	// Context is cancelled when the dispatch times out. It carries the
	// dispatch span.
	Context context.Context

	Engine  EngineInterface
	History HistoryInterface

	// Count is how many times the action repeats. Hooks may lower it.
	Count int

	// DryRun asks handlers to report applicability and commit nothing.
	DryRun bool

	values map[string]any
}

// New returns a context with a background Go context and a count of one.
func New() *ExecutionContext {
	return &ExecutionContext{Context: context.Background(), Count: 1}
}

// WithContext sets the Go context. A nil c is ignored.
func (ctx *ExecutionContext) WithContext(c context.Context) *ExecutionContext {
	if c != nil {
		ctx.Context = c
	}
	return ctx
}

// WithEngine sets the engine.
func (ctx *ExecutionContext) WithEngine(e EngineInterface) *ExecutionContext {
	ctx.Engine = e
	return ctx
}

// WithHistory sets the undo history.
func (ctx *ExecutionContext) WithHistory(h HistoryInterface) *ExecutionContext {
	ctx.History = h
	return ctx
}

// WithCount sets the repeat count. Values below one are ignored.
func (ctx *ExecutionContext) WithCount(n int) *ExecutionContext {
	if n > 0 {
		ctx.Count = n
	}
	return ctx
}

// WithDryRun sets dry-run mode.
func (ctx *ExecutionContext) WithDryRun(dryRun bool) *ExecutionContext {
	ctx.DryRun = dryRun
	return ctx
}

// GetCount returns Count, treating anything below one as one.
func (ctx *ExecutionContext) GetCount() int {
	return max(ctx.Count, 1)
}

// HasCellSelection reports whether the engine's selection is a cell
// selection rather than a text cursor.
func (ctx *ExecutionContext) HasCellSelection() bool {
	if ctx.Engine == nil {
		return false
	}
	_, ok := ctx.Engine.State().Selection().(state.CellSelection)
	return ok
}

// IsReadOnly reports whether the engine refuses edits.
func (ctx *ExecutionContext) IsReadOnly() bool {
	return ctx.Engine != nil && ctx.Engine.IsReadOnly()
}

// Set stores a value for the rest of the dispatch. Hooks use it to pass
// state from their pre to their post stage.
func (ctx *ExecutionContext) Set(key string, v any) {
	if ctx.values == nil {
		ctx.values = make(map[string]any)
	}
	ctx.values[key] = v
}

// Value returns a value stored with Set.
func (ctx *ExecutionContext) Value(key string) (any, bool) {
	v, ok := ctx.values[key]
	return v, ok
}

// Validate fails when no engine is attached.
func (ctx *ExecutionContext) Validate() error {
	if ctx.Engine == nil {
		return ErrMissingEngine
	}
	return nil
}

// ValidateForHistory fails when undo cannot run: no history is attached
// or the engine is read-only.
func (ctx *ExecutionContext) ValidateForHistory() error {
	switch {
	case ctx.History == nil:
		return ErrMissingHistory
	case ctx.IsReadOnly():
		return ErrReadOnly
	}
	return nil
}
