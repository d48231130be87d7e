package hook

import (
	"github.com/dshills/gridstorm/internal/dispatcher/execctx"
	"github.com/dshills/gridstorm/internal/input"
)

// queryActions never change the document.
var queryActions = map[string]bool{
	"table.select":    true,
	"table.cursor":    true,
	"table.can":       true,
	"table.size":      true,
	"table.cellText":  true,
	"history.canUndo": true,
	"history.canRedo": true,
	"history.info":    true,

	"history.snapshot":     true,
	"history.dropSnapshot": true,
}

// IsQuery reports whether the named action only reads the document or
// moves the selection.
func IsQuery(actionName string) bool {
	return queryActions[actionName]
}

// CountLimitHook clamps repeat counts to a maximum.
type CountLimitHook struct {
	max int
}

// NewCountLimitHook returns a hook clamping counts to max. A max of zero
// or less disables the clamp.
func NewCountLimitHook(max int) *CountLimitHook {
	return &CountLimitHook{max: max}
}

func (h *CountLimitHook) Name() string  { return "count-limit" }
func (h *CountLimitHook) Priority() int { return PriorityCountLimit }

func (h *CountLimitHook) PreDispatch(_ *input.Action, ctx *execctx.ExecutionContext) bool {
	if h.max > 0 {
		ctx.Count = min(ctx.Count, h.max)
	}
	return true
}

// ReadOnlyHook cancels editing actions when the engine is read-only.
// Queries and dry runs pass.
type ReadOnlyHook struct{}

func NewReadOnlyHook() *ReadOnlyHook { return &ReadOnlyHook{} }

func (h *ReadOnlyHook) Name() string  { return "read-only" }
func (h *ReadOnlyHook) Priority() int { return PriorityReadOnly }

func (h *ReadOnlyHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	return !ctx.IsReadOnly() || ctx.DryRun || IsQuery(action.Name)
}
