package lua_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/gridstorm/internal/dispatcher"
	"github.com/dshills/gridstorm/internal/engine"
	"github.com/dshills/gridstorm/internal/plugin/lua"
	"github.com/dshills/gridstorm/internal/table"
	. "github.com/dshills/gridstorm/internal/table/tabletest"
)

func newRunner(t *testing.T, opts ...lua.StateOption) (*lua.Runner, *engine.Engine) {
	t.Helper()
	e := engine.New(Grid([]string{"a", "b"}, []string{"c", "d"}))
	sys := dispatcher.NewSystemWithDefaults()
	sys.SetEngine(e)

	r := lua.NewRunner(sys, opts...)
	t.Cleanup(func() { r.Close() })
	return r, e
}

func TestModuleRunCommands(t *testing.T) {
	r, e := newRunner(t)

	err := r.RunString(context.Background(), `
		local g = require("gridstorm")
		g.cursor_in(0, 0)
		assert(g.run("addRowAfter"))
		assert(g.run("table.addColumnAfter"))
		width, height = g.size()
	`)
	require.NoError(t, err)

	state := r.State()
	assert.Equal(t, glua.LNumber(3), state.GetGlobal("width"))
	assert.Equal(t, glua.LNumber(3), state.GetGlobal("height"))
	assert.Equal(t, uint64(2), e.Revision())
}

func TestModuleSelectMergeAndCan(t *testing.T) {
	r, _ := newRunner(t)

	err := r.RunString(context.Background(), `
		local g = require("gridstorm")
		g.select_cells(0, 0, 1, 1)
		before = g.can("mergeCells")
		merged = g.run("mergeCells")
		after = g.can("mergeCells")
		split = g.can("splitCell")
	`)
	require.NoError(t, err)

	state := r.State()
	assert.Equal(t, glua.LTrue, state.GetGlobal("before"))
	assert.Equal(t, glua.LTrue, state.GetGlobal("merged"))
	assert.Equal(t, glua.LFalse, state.GetGlobal("after"))
	assert.Equal(t, glua.LTrue, state.GetGlobal("split"))
}

func TestModuleRunNotApplicable(t *testing.T) {
	r, e := newRunner(t)

	// A single cell cannot be merged.
	err := r.RunString(context.Background(), `
		local g = require("gridstorm")
		g.cursor_in(0, 0)
		applied = g.run("mergeCells")
	`)
	require.NoError(t, err)
	assert.Equal(t, glua.LFalse, r.State().GetGlobal("applied"))
	assert.Equal(t, uint64(0), e.Revision())
}

func TestModuleArgsAndCellText(t *testing.T) {
	r, _ := newRunner(t)

	err := r.RunString(context.Background(), `
		local g = require("gridstorm")
		g.cursor_in(1, 1)
		assert(g.run("setCellAttr", {name = "background", value = "#eee"}))
		text = g.cell_text(1, 0)
	`)
	require.NoError(t, err)
	assert.Equal(t, glua.LString("c"), r.State().GetGlobal("text"))
}

func TestModuleUndoRedo(t *testing.T) {
	r, e := newRunner(t)

	err := r.RunString(context.Background(), `
		local g = require("gridstorm")
		g.cursor_in(0, 0)
		g.run("deleteRow")
		_, rows_after_delete = g.size()
		undone = g.undo()
		_, rows_after_undo = g.size()
		redone = g.redo()
		nothing = g.redo()
	`)
	require.NoError(t, err)

	state := r.State()
	assert.Equal(t, glua.LNumber(1), state.GetGlobal("rows_after_delete"))
	assert.Equal(t, glua.LNumber(2), state.GetGlobal("rows_after_undo"))
	assert.Equal(t, glua.LTrue, state.GetGlobal("undone"))
	assert.Equal(t, glua.LTrue, state.GetGlobal("redone"))
	assert.Equal(t, glua.LFalse, state.GetGlobal("nothing"))
	assert.False(t, e.CanRedo())
}

func TestModuleRepeatLast(t *testing.T) {
	r, e := newRunner(t)

	err := r.RunString(context.Background(), `
		local g = require("gridstorm")
		g.cursor_in(0, 0)
		early = g.repeat_last()
		g.run("addColumnAfter")
		again = g.repeat_last()
		width = g.size()
	`)
	require.NoError(t, err)

	state := r.State()
	assert.Equal(t, glua.LFalse, state.GetGlobal("early"))
	assert.Equal(t, glua.LTrue, state.GetGlobal("again"))
	assert.Equal(t, glua.LNumber(4), state.GetGlobal("width"))
	assert.Equal(t, uint64(2), e.Revision())
}

func TestModuleSnapshots(t *testing.T) {
	r, e := newRunner(t)

	err := r.RunString(context.Background(), `
		local g = require("gridstorm")
		g.cursor_in(0, 0)
		g.snapshot("start")
		g.run("addRowAfter")
		g.run("addColumnAfter")
		restored = g.restore("start")
		width, height = g.size()
		g.drop_snapshot("start")
		ok, msg = pcall(g.restore, "start")
		msg = tostring(msg)
	`)
	require.NoError(t, err)

	state := r.State()
	assert.Equal(t, glua.LTrue, state.GetGlobal("restored"))
	assert.Equal(t, glua.LNumber(2), state.GetGlobal("width"))
	assert.Equal(t, glua.LNumber(2), state.GetGlobal("height"))
	assert.Equal(t, glua.LFalse, state.GetGlobal("ok"))
	assert.Contains(t, state.GetGlobal("msg").String(), "snapshot not found")
	assert.Equal(t, uint64(3), e.Revision())
}

func TestModuleCommands(t *testing.T) {
	r, _ := newRunner(t)

	err := r.RunString(context.Background(), `
		local g = require("gridstorm")
		count = #g.commands()
		g.log("listed " .. count .. " commands")
	`)
	require.NoError(t, err)
	assert.Equal(t, glua.LNumber(len(table.Names())), r.State().GetGlobal("count"))
}

func TestModuleActionErrors(t *testing.T) {
	r, _ := newRunner(t)
	ctx := context.Background()

	err := r.RunString(ctx, `require("gridstorm").cell_text(9, 9)`)
	require.Error(t, err)
	assert.ErrorIs(t, err, lua.ErrActionFailed)
	assert.ErrorIs(t, err, table.ErrOutsideGrid)

	err = r.RunString(ctx, `require("gridstorm").run("noSuchCommand")`)
	assert.ErrorIs(t, err, dispatcher.ErrNoHandler)

	// Scripts can trap failures with pcall and read the message.
	err = r.RunString(ctx, `
		local g = require("gridstorm")
		ok, msg = pcall(g.cell_text, 9, 9)
		msg = tostring(msg)
	`)
	require.NoError(t, err)
	assert.Equal(t, glua.LFalse, r.State().GetGlobal("ok"))
	assert.Contains(t, r.State().GetGlobal("msg").String(), "lua action failed")
}

func TestModuleCallLimit(t *testing.T) {
	r, _ := newRunner(t, lua.WithCallLimit(5))

	err := r.RunString(context.Background(), `
		local g = require("gridstorm")
		for i = 1, 10 do g.size() end
	`)
	assert.ErrorIs(t, err, lua.ErrCallLimit)

	// The counter resets for each execution.
	err = r.RunString(context.Background(), `require("gridstorm").size()`)
	assert.NoError(t, err)
}

func TestModuleRunFile(t *testing.T) {
	r, e := newRunner(t)

	path := t.TempDir() + "/grow.lua"
	require.NoError(t, os.WriteFile(path, []byte(`
		local g = require("gridstorm")
		g.cursor_in(1, 1)
		for i = 1, 3 do g.run("addRowAfter") end
	`), 0o644))

	require.NoError(t, r.RunFile(context.Background(), path))
	assert.Equal(t, uint64(3), e.Revision())
}
