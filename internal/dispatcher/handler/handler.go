// Package handler defines what the dispatcher calls to run an action and
// the Result it gets back.
package handler

import (
	"github.com/dshills/gridstorm/internal/dispatcher/execctx"
	"github.com/dshills/gridstorm/internal/input"
)

// Handler runs actions registered under an exact name.
type Handler interface {
	Handle(action input.Action, ctx *execctx.ExecutionContext) Result
}

// Func adapts an ordinary function to Handler.
type Func func(action input.Action, ctx *execctx.ExecutionContext) Result

// Handle calls f. A nil Func fails instead of panicking.
func (f Func) Handle(action input.Action, ctx *execctx.ExecutionContext) Result {
	if f == nil {
		return Errorf("handler for %s is nil", action.Name)
	}
	return f(action, ctx)
}

// NamespaceHandler serves the actions under one name prefix, such as
// "table" for "table.mergeCells".
type NamespaceHandler interface {
	Namespace() string

	// CanHandle reports whether actionName is one of the handler's
	// actions. The dispatcher only routes names that pass.
	CanHandle(actionName string) bool

	HandleAction(action input.Action, ctx *execctx.ExecutionContext) Result

	// Actions lists every full action name the handler serves.
	Actions() []string
}

// Namespaced exposes a NamespaceHandler as a Handler.
func Namespaced(h NamespaceHandler) Handler {
	return Func(h.HandleAction)
}
