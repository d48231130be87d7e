package table

import (
	"fmt"
	"strings"

	"github.com/dshills/gridstorm/internal/dispatcher/execctx"
	"github.com/dshills/gridstorm/internal/dispatcher/handler"
	"github.com/dshills/gridstorm/internal/input"
	tablecmd "github.com/dshills/gridstorm/internal/table"
)

// Namespace is the action namespace served by Handler.
const Namespace = "table"

// Action names for selection and query actions.
const (
	ActionSelect   = "table.select"
	ActionCursor   = "table.cursor"
	ActionCan      = "table.can"
	ActionSize     = "table.size"
	ActionCellText = "table.cellText"
)

// Result data keys.
const (
	DataApplicable = "applicable"
	DataApplied    = "applied"
	DataWidth      = "width"
	DataHeight     = "height"
	DataText       = "text"
)

// Handler implements namespace-based table command handling.
type Handler struct {
	commands map[string]bool
}

// NewHandler creates a new table handler.
func NewHandler() *Handler {
	h := &Handler{commands: make(map[string]bool)}
	for _, name := range tablecmd.Names() {
		h.commands[name] = true
	}
	return h
}

// Namespace returns the table namespace.
func (h *Handler) Namespace() string {
	return Namespace
}

// CommandAction returns the action name for a registry command.
func CommandAction(command string) string {
	return Namespace + "." + command
}

// Actions returns every action name the handler serves.
func (h *Handler) Actions() []string {
	names := tablecmd.Names()
	actions := make([]string, 0, len(names)+5)
	for _, name := range names {
		actions = append(actions, CommandAction(name))
	}
	return append(actions, ActionSelect, ActionCursor, ActionCan, ActionSize, ActionCellText)
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	switch actionName {
	case ActionSelect, ActionCursor, ActionCan, ActionSize, ActionCellText:
		return true
	}
	name, ok := strings.CutPrefix(actionName, Namespace+".")
	return ok && h.commands[name]
}

// HandleAction processes a table action.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}

	args := tablecmd.Args(action.Args.Extra)

	switch action.Name {
	case ActionSelect:
		return h.selectCells(ctx, args)
	case ActionCursor:
		return h.cursor(ctx, args)
	case ActionCan:
		return h.can(ctx, args)
	case ActionSize:
		return h.size(ctx, args)
	case ActionCellText:
		return h.cellText(ctx, args)
	}

	name, _ := strings.CutPrefix(action.Name, Namespace+".")
	if !h.commands[name] {
		return handler.Errorf("unknown table action: %s", action.Name)
	}
	cmd, err := tablecmd.Lookup(name, args)
	if err != nil {
		return handler.Error(err)
	}
	if ctx.DryRun {
		return canResult(ctx.Engine.Can(cmd))
	}
	return h.run(ctx, cmd)
}

// run executes cmd up to ctx.Count times. Repeats share one undo group.
func (h *Handler) run(ctx *execctx.ExecutionContext, cmd tablecmd.Command) handler.Result {
	count := ctx.GetCount()
	grouped := count > 1 && ctx.History != nil
	if grouped {
		ctx.History.BeginUndoGroup(cmd.Name())
		defer ctx.History.EndUndoGroup()
	}

	result := handler.Success()
	applied := 0
	for i := 0; i < count; i++ {
		if err := ctx.Context.Err(); err != nil {
			return handler.Error(err)
		}
		before := ctx.Engine.Revision()
		ok, err := ctx.Engine.Run(cmd)
		if err != nil {
			if applied == 0 {
				return handler.Error(err)
			}
			return result.WithData(DataApplied, applied).WithMessage(err.Error())
		}
		if !ok {
			break
		}
		applied++
		if rev := ctx.Engine.Revision(); rev != before {
			result = result.WithChange(handler.Change{Command: cmd.Name(), Revision: rev})
		}
	}

	if applied == 0 {
		return handler.NoOpWithMessage(fmt.Sprintf("%s: %v", cmd.Name(), tablecmd.ErrNotApplicable))
	}
	result = result.WithData(DataApplied, applied)
	if len(result.Changes) == 0 {
		// Selection-only commands such as goToNextCell.
		return result.WithSelectionChanged().WithScrollIntoView()
	}
	return result.WithRedraw().WithScrollIntoView()
}

func (h *Handler) selectCells(ctx *execctx.ExecutionContext, args tablecmd.Args) handler.Result {
	index, err := args.Int("table", 0)
	if err != nil {
		return handler.Error(err)
	}
	coords := make([]int, 4)
	for i, name := range []string{"fromRow", "fromCol", "toRow", "toCol"} {
		def := 0
		if i >= 2 {
			def = coords[i-2]
		}
		if coords[i], err = args.Int(name, def); err != nil {
			return handler.Error(err)
		}
	}
	if ctx.DryRun {
		return canResult(true)
	}
	if err := ctx.Engine.SelectCells(index, coords[0], coords[1], coords[2], coords[3]); err != nil {
		return handler.Error(err)
	}
	return handler.Success().WithSelectionChanged()
}

func (h *Handler) cursor(ctx *execctx.ExecutionContext, args tablecmd.Args) handler.Result {
	index, row, col, err := cellArgs(args)
	if err != nil {
		return handler.Error(err)
	}
	if ctx.DryRun {
		return canResult(true)
	}
	if err := ctx.Engine.CursorIn(index, row, col); err != nil {
		return handler.Error(err)
	}
	return handler.Success().WithSelectionChanged()
}

func (h *Handler) can(ctx *execctx.ExecutionContext, args tablecmd.Args) handler.Result {
	name, ok := args.String("command")
	if !ok || name == "" {
		return handler.Errorf("%w: table.can needs a command", tablecmd.ErrInvalidArgs)
	}
	cmd, err := tablecmd.Lookup(name, args)
	if err != nil {
		return handler.Error(err)
	}
	applicable := ctx.Engine.Can(cmd)
	return handler.Success().WithData(DataApplicable, applicable)
}

func (h *Handler) size(ctx *execctx.ExecutionContext, args tablecmd.Args) handler.Result {
	index, err := args.Int("table", 0)
	if err != nil {
		return handler.Error(err)
	}
	loc, err := tablecmd.TableAt(ctx.Engine.State().Doc(), index)
	if err != nil {
		return handler.Error(err)
	}
	m, err := loc.Map()
	if err != nil {
		return handler.Error(err)
	}
	return handler.Success().
		WithData(DataWidth, m.Width).
		WithData(DataHeight, m.Height)
}

func (h *Handler) cellText(ctx *execctx.ExecutionContext, args tablecmd.Args) handler.Result {
	index, row, col, err := cellArgs(args)
	if err != nil {
		return handler.Error(err)
	}
	text, err := tablecmd.CellText(ctx.Engine.State().Doc(), index, row, col)
	if err != nil {
		return handler.Error(err)
	}
	return handler.SuccessWithData(DataText, text)
}

func cellArgs(args tablecmd.Args) (index, row, col int, err error) {
	if index, err = args.Int("table", 0); err != nil {
		return
	}
	if row, err = args.Int("row", 0); err != nil {
		return
	}
	col, err = args.Int("col", 0)
	return
}

func canResult(applicable bool) handler.Result {
	if applicable {
		return handler.SuccessWithData(DataApplicable, true)
	}
	return handler.NoOp().WithData(DataApplicable, false)
}

// IsNotApplicable reports whether a result is the no-op produced by a
// command that did not apply.
func IsNotApplicable(r handler.Result) bool {
	return r.Status == handler.StatusNoOp && strings.HasSuffix(r.Message, tablecmd.ErrNotApplicable.Error())
}
