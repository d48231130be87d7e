package hook

import (
	"github.com/dshills/gridstorm/internal/dispatcher/execctx"
	"github.com/dshills/gridstorm/internal/dispatcher/handler"
	"github.com/dshills/gridstorm/internal/input"
)

// Hook identifies a dispatch hook. A hook takes part in dispatch by also
// implementing PreDispatchHook, PostDispatchHook or both.
type Hook interface {
	// Name is unique within a Manager. Registering a second hook with the
	// same name replaces the first.
	Name() string

	// Priority orders hooks: pre-dispatch hooks run from the highest
	// priority down, post-dispatch hooks from the lowest up.
	Priority() int
}

// PreDispatchHook runs before the handler. It may rewrite the action or the
// context. Returning false cancels the dispatch.
type PreDispatchHook interface {
	Hook
	PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool
}

// PostDispatchHook runs after the handler and may rewrite the result.
type PostDispatchHook interface {
	Hook
	PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)
}

// Funcs builds a hook out of plain functions. A nil Pre lets every action
// through; a nil Post does nothing.
type Funcs struct {
	HookName     string
	HookPriority int
	Pre          func(action *input.Action, ctx *execctx.ExecutionContext) bool
	Post         func(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)
}

func (f Funcs) Name() string  { return f.HookName }
func (f Funcs) Priority() int { return f.HookPriority }

func (f Funcs) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	return f.Pre == nil || f.Pre(action, ctx)
}

func (f Funcs) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	if f.Post != nil {
		f.Post(action, ctx, result)
	}
}
