package lua

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/gridstorm/internal/table"
)

func eval(t *testing.T, L *glua.LState, expr string) glua.LValue {
	t.Helper()
	require.NoError(t, L.DoString("v = "+expr))
	return L.GetGlobal("v")
}

func TestGoValue(t *testing.T) {
	L := glua.NewState()
	defer L.Close()

	tests := []struct {
		expr string
		want any
	}{
		{"nil", nil},
		{"true", true},
		{"42", 42},
		{"-1", -1},
		{"1.5", 1.5},
		{`"cell"`, "cell"},
		{`{"a", "b"}`, []any{"a", "b"}},
		{`{row = 1, name = "x"}`, map[string]any{"row": 1, "name": "x"}},
		{`{[1] = "a", [3] = "c"}`, map[string]any{"1": "a", "3": "c"}},
		{`function() end`, nil},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, goValue(eval(t, L, tc.expr)), tc.expr)
	}
}

func TestGoValueCycle(t *testing.T) {
	L := glua.NewState()
	defer L.Close()
	require.NoError(t, L.DoString(`loop = {name = "x"}; loop.self = loop`))

	assert.Equal(t, map[string]any{"name": "x", "self": nil}, goValue(L.GetGlobal("loop")))
}

func TestToArgs(t *testing.T) {
	L := glua.NewState()
	defer L.Close()

	args, err := toArgs(glua.LNil)
	require.NoError(t, err)
	assert.Empty(t, args)

	args, err = toArgs(eval(t, L, `{name = "background", value = "red", direction = -1}`))
	require.NoError(t, err)
	name, _ := args.String("name")
	assert.Equal(t, "background", name)
	dir, err := args.Int("direction", 0)
	require.NoError(t, err)
	assert.Equal(t, -1, dir)

	_, err = toArgs(eval(t, L, `{1, 2}`))
	assert.ErrorIs(t, err, table.ErrInvalidArgs)
	_, err = toArgs(glua.LString("x"))
	assert.ErrorIs(t, err, table.ErrInvalidArgs)
}

func TestLuaValue(t *testing.T) {
	L := glua.NewState()
	defer L.Close()

	assert.Equal(t, glua.LNil, luaValue(L, nil))
	assert.Equal(t, glua.LNumber(7), luaValue(L, uint64(7)))
	assert.Equal(t, glua.LString("x"), luaValue(L, "x"))
	assert.Equal(t, glua.LTrue, luaValue(L, true))

	names, ok := luaValue(L, []string{"a", "b"}).(*glua.LTable)
	require.True(t, ok)
	assert.Equal(t, 2, names.Len())
	assert.Equal(t, glua.LString("b"), names.RawGetInt(2))

	ud, ok := luaValue(L, struct{ n int }{3}).(*glua.LUserData)
	require.True(t, ok)
	assert.Equal(t, struct{ n int }{3}, goValue(ud))
}

func TestValueRoundTrip(t *testing.T) {
	L := glua.NewState()
	defer L.Close()

	in := map[string]any{"row": 2, "cells": []any{"a", 1.5}, "ok": true}
	assert.Equal(t, in, goValue(luaValue(L, in)))
}
