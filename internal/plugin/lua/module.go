package lua

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang/glog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gridstorm/internal/dispatcher/handler"
	"github.com/dshills/gridstorm/internal/input"
	"github.com/dshills/gridstorm/internal/table"
)

// ModuleName is the name scripts pass to require.
const ModuleName = "gridstorm"

// Dispatcher executes actions on behalf of scripts.
// *dispatcher.System and *dispatcher.Dispatcher satisfy it.
type Dispatcher interface {
	DispatchContext(ctx context.Context, action input.Action) handler.Result
	Check(action input.Action) handler.Result
}

// Module exposes table commands to Lua through a Dispatcher.
type Module struct {
	d       Dispatcher
	sandbox *Sandbox
}

// NewModule binds a module to the dispatcher and installs it in state.
func NewModule(d Dispatcher, state *State) *Module {
	m := &Module{
		d:       d,
		sandbox: state.Sandbox(),
	}
	state.PreloadModule(ModuleName, m.funcs())
	return m
}

func (m *Module) funcs() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"run":          m.run,
		"can":          m.can,
		"select_cells": m.selectCells,
		"cursor_in":    m.cursorIn,
		"size":         m.size,
		"cell_text":    m.cellText,
		"undo":         m.history("undo"),
		"redo":         m.history("redo"),
		"repeat_last":  m.history("repeat"),
		"commands":     m.commands,
		"log":          m.log,

		"snapshot":      m.named("snapshot"),
		"restore":       m.named("restore"),
		"drop_snapshot": m.named("dropSnapshot"),
	}
}

// actionName qualifies bare command names with the table namespace.
func actionName(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return input.DefaultNamespace + "." + name
}

// dispatch runs an action and raises a Lua error when it fails.
func (m *Module) dispatch(L *lua.LState, name string, args table.Args) handler.Result {
	if m.sandbox.CountCall() {
		raise(L, ErrCallLimit)
	}

	ctx := L.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	action := input.NewAction(name, args).WithSource(input.SourceScript)
	result := m.d.DispatchContext(ctx, action)
	if result.Status == handler.StatusError {
		raise(L, fmt.Errorf("%w: %s: %w", ErrActionFailed, name, result.Error))
	}
	if glog.V(2) {
		glog.Infof("lua: %s -> %s", name, result.Status)
	}
	return result
}

func (m *Module) optArgs(L *lua.LState, n int) table.Args {
	args, err := toArgs(L.Get(n))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return args
}

// run(name [, args]) -> applied
func (m *Module) run(L *lua.LState) int {
	name := actionName(L.CheckString(1))
	result := m.dispatch(L, name, m.optArgs(L, 2))
	L.Push(lua.LBool(result.IsOK()))
	return 1
}

// can(name [, args]) -> applicable
func (m *Module) can(L *lua.LState) int {
	if m.sandbox.CountCall() {
		raise(L, ErrCallLimit)
	}

	name := actionName(L.CheckString(1))
	result := m.d.Check(input.NewAction(name, m.optArgs(L, 2)).WithSource(input.SourceScript))
	if result.Status == handler.StatusError {
		raise(L, fmt.Errorf("%w: %s: %w", ErrActionFailed, name, result.Error))
	}
	L.Push(lua.LBool(result.IsOK()))
	return 1
}

// select_cells(r1, c1, r2, c2 [, table])
func (m *Module) selectCells(L *lua.LState) int {
	m.dispatch(L, "table.select", table.Args{
		"fromRow": L.CheckInt(1),
		"fromCol": L.CheckInt(2),
		"toRow":   L.CheckInt(3),
		"toCol":   L.CheckInt(4),
		"table":   L.OptInt(5, 0),
	})
	return 0
}

// cursor_in(r, c [, table])
func (m *Module) cursorIn(L *lua.LState) int {
	m.dispatch(L, "table.cursor", table.Args{
		"row":   L.CheckInt(1),
		"col":   L.CheckInt(2),
		"table": L.OptInt(3, 0),
	})
	return 0
}

// size([table]) -> width, height
func (m *Module) size(L *lua.LState) int {
	result := m.dispatch(L, "table.size", table.Args{"table": L.OptInt(1, 0)})
	L.Push(lua.LNumber(result.GetDataInt("width")))
	L.Push(lua.LNumber(result.GetDataInt("height")))
	return 2
}

// cell_text(r, c [, table]) -> text
func (m *Module) cellText(L *lua.LState) int {
	result := m.dispatch(L, "table.cellText", table.Args{
		"row":   L.CheckInt(1),
		"col":   L.CheckInt(2),
		"table": L.OptInt(3, 0),
	})
	L.Push(lua.LString(result.GetDataString("text")))
	return 1
}

// undo() / redo() / repeat_last() -> done
func (m *Module) history(op string) lua.LGFunction {
	return func(L *lua.LState) int {
		result := m.dispatch(L, "history."+op, nil)
		L.Push(lua.LBool(result.IsOK()))
		return 1
	}
}

// snapshot(name) / restore(name) / drop_snapshot(name) -> done
// Restoring an unknown snapshot raises an error.
func (m *Module) named(op string) lua.LGFunction {
	return func(L *lua.LState) int {
		result := m.dispatch(L, "history."+op, table.Args{"name": L.CheckString(1)})
		L.Push(lua.LBool(result.IsOK()))
		return 1
	}
}

// commands() -> {name, ...}
func (m *Module) commands(L *lua.LState) int {
	L.Push(luaValue(L, table.Names()))
	return 1
}

// log(msg)
func (m *Module) log(L *lua.LState) int {
	glog.Infof("lua: %s", L.CheckString(1))
	return 0
}

// raise aborts the running script with err. The error survives PCall so
// callers can match it with errors.Is; scripts see its message through
// tostring.
func raise(L *lua.LState, err error) {
	ud := L.NewUserData()
	ud.Value = err
	mt := L.NewTable()
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(err.Error()))
		return 1
	}))
	L.SetMetatable(ud, mt)
	L.Error(ud, 1)
}

// hostError returns the Go error carried by a script failure raised with
// raise, or nil.
func hostError(err error) error {
	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) {
		return nil
	}
	if ud, ok := apiErr.Object.(*lua.LUserData); ok {
		if goErr, ok := ud.Value.(error); ok {
			return goErr
		}
	}
	return nil
}

// Runner executes scripts against a dispatcher.
type Runner struct {
	state  *State
	module *Module
}

// NewRunner creates a sandboxed state with the gridstorm module installed.
func NewRunner(d Dispatcher, opts ...StateOption) *Runner {
	state := NewState(opts...)
	return &Runner{
		state:  state,
		module: NewModule(d, state),
	}
}

// RunFile executes a script file.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	return r.state.DoFile(ctx, path)
}

// RunString executes script source.
func (r *Runner) RunString(ctx context.Context, code string) error {
	return r.state.DoString(ctx, code)
}

// State returns the underlying state.
func (r *Runner) State() *State {
	return r.state
}

// Close releases the Lua state.
func (r *Runner) Close() error {
	return r.state.Close()
}
