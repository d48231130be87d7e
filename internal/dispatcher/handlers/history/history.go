package history

import (
	"slices"

	"github.com/dshills/gridstorm/internal/dispatcher/execctx"
	"github.com/dshills/gridstorm/internal/dispatcher/handler"
	"github.com/dshills/gridstorm/internal/input"
)

// Namespace is the action namespace served by Handler.
const Namespace = "history"

// Action names for history operations.
const (
	ActionUndo    = "history.undo"
	ActionRedo    = "history.redo"
	ActionCanUndo = "history.canUndo"
	ActionCanRedo = "history.canRedo"
	ActionInfo    = "history.info"
	ActionClear   = "history.clear"

	// Snapshot actions take the snapshot name in the "name" argument.
	ActionSnapshot     = "history.snapshot"
	ActionRestore      = "history.restore"
	ActionDropSnapshot = "history.dropSnapshot"
)

// Result data keys.
const (
	DataAvailable = "available"
	DataSteps     = "steps"
	DataUndoCount = "undoCount"
	DataRedoCount = "redoCount"
	DataRevision  = "revision"
)

// revisioner is implemented by engines that count document changes.
type revisioner interface {
	Revision() uint64
}

// Handler implements namespace-based undo/redo handling.
type Handler struct{}

// NewHandler creates a new history handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Namespace returns the history namespace.
func (h *Handler) Namespace() string {
	return Namespace
}

// Actions returns every action name the handler serves.
func (h *Handler) Actions() []string {
	return []string{
		ActionUndo, ActionRedo, ActionCanUndo, ActionCanRedo, ActionInfo, ActionClear,
		ActionSnapshot, ActionRestore, ActionDropSnapshot,
	}
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	return slices.Contains(h.Actions(), actionName)
}

// HandleAction processes a history action.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if ctx.History == nil {
		return handler.Error(execctx.ErrMissingHistory)
	}

	switch action.Name {
	case ActionUndo:
		return h.step(ctx, "undo", ctx.History.CanUndo, ctx.History.Undo)
	case ActionRedo:
		return h.step(ctx, "redo", ctx.History.CanRedo, ctx.History.Redo)
	case ActionCanUndo:
		return handler.SuccessWithData(DataAvailable, ctx.History.CanUndo())
	case ActionCanRedo:
		return handler.SuccessWithData(DataAvailable, ctx.History.CanRedo())
	case ActionInfo:
		return handler.Success().
			WithData(DataUndoCount, ctx.History.UndoCount()).
			WithData(DataRedoCount, ctx.History.RedoCount())
	case ActionClear:
		if err := ctx.ValidateForHistory(); err != nil {
			return handler.Error(err)
		}
		if !ctx.DryRun {
			ctx.History.ClearHistory()
		}
		return handler.Success()
	case ActionSnapshot, ActionRestore, ActionDropSnapshot:
		return h.snapshot(action, ctx)
	default:
		return handler.Errorf("unknown history action: %s", action.Name)
	}
}

// step runs fn up to ctx.Count times, stopping when can reports false.
func (h *Handler) step(ctx *execctx.ExecutionContext, name string, can func() bool, fn func() error) handler.Result {
	if ctx.DryRun {
		if can() {
			return handler.SuccessWithData(DataAvailable, true)
		}
		return handler.NoOp().WithData(DataAvailable, false)
	}
	if err := ctx.ValidateForHistory(); err != nil {
		return handler.Error(err)
	}

	result := handler.Success()
	done := 0
	for i := 0; i < ctx.GetCount() && can(); i++ {
		if err := fn(); err != nil {
			if done == 0 {
				return handler.Error(err)
			}
			return result.WithData(DataSteps, done).WithMessage(err.Error())
		}
		done++
		if r, ok := ctx.History.(revisioner); ok {
			result = result.WithChange(handler.Change{Command: name, Revision: r.Revision()})
		}
	}

	if done == 0 {
		return handler.NoOpWithMessage("nothing to " + name)
	}
	return result.WithData(DataSteps, done).WithRedraw()
}

func (h *Handler) snapshot(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	name := action.Args.GetString("name")
	if name == "" {
		return handler.Errorf("%s: missing snapshot name", action.Name)
	}

	switch action.Name {
	case ActionSnapshot:
		if !ctx.DryRun {
			ctx.History.CreateSnapshot(name)
		}
		return handler.Success()
	case ActionDropSnapshot:
		if !ctx.DryRun {
			ctx.History.DeleteSnapshot(name)
		}
		return handler.Success()
	}

	_, taken, err := ctx.History.Snapshot(name)
	if err != nil {
		return handler.Error(err)
	}
	if ctx.DryRun {
		return handler.SuccessWithData(DataRevision, taken)
	}
	if err := ctx.ValidateForHistory(); err != nil {
		return handler.Error(err)
	}
	if err := ctx.History.RestoreSnapshot(name); err != nil {
		return handler.Error(err)
	}
	result := handler.SuccessWithData(DataRevision, taken).WithRedraw()
	if r, ok := ctx.History.(revisioner); ok {
		result = result.WithChange(handler.Change{Command: "restore " + name, Revision: r.Revision()})
	}
	return result
}
