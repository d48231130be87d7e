package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gridstorm/internal/table"
)

// goValue converts a Lua value for use as a command argument. Integral
// numbers become int. A table with keys 1..n becomes []any, any other
// table map[string]any. A table already being converted becomes nil.
func goValue(lv lua.LValue) any {
	return goValueSeen(lv, map[*lua.LTable]bool{})
}

func goValueSeen(lv lua.LValue, seen map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		if f := float64(v); f == float64(int(f)) {
			return int(f)
		}
		return float64(v)
	case lua.LString:
		return string(v)
	case *lua.LUserData:
		return v.Value
	case *lua.LTable:
		if seen[v] {
			return nil
		}
		seen[v] = true
		return tableValue(v, seen)
	}
	return nil
}

func tableValue(t *lua.LTable, seen map[*lua.LTable]bool) any {
	size := 0
	t.ForEach(func(_, _ lua.LValue) { size++ })

	if n := t.Len(); n > 0 && n == size {
		list := make([]any, n)
		for i := range list {
			list[i] = goValueSeen(t.RawGetInt(i+1), seen)
		}
		return list
	}
	fields := make(map[string]any, size)
	t.ForEach(func(k, v lua.LValue) {
		fields[k.String()] = goValueSeen(v, seen)
	})
	return fields
}

// toArgs converts the optional argument table of run and can. Nil gives
// empty arguments; keys must be strings.
func toArgs(lv lua.LValue) (table.Args, error) {
	args := table.Args{}
	switch v := lv.(type) {
	case *lua.LNilType:
		return args, nil
	case *lua.LTable:
		var bad lua.LValue
		v.ForEach(func(k, val lua.LValue) {
			key, ok := k.(lua.LString)
			if !ok {
				bad = k
				return
			}
			args[string(key)] = goValue(val)
		})
		if bad != nil {
			return nil, fmt.Errorf("%w: argument keys must be strings, got %s", table.ErrInvalidArgs, bad.Type())
		}
		return args, nil
	}
	return nil, fmt.Errorf("%w: arguments must be a table, got %s", table.ErrInvalidArgs, lv.Type())
}

// luaValue converts a Go value returned to a script. Values with no Lua
// form travel as userdata.
func luaValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case uint64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []string:
		t := L.CreateTable(len(val), 0)
		for _, s := range val {
			t.Append(lua.LString(s))
		}
		return t
	case []any:
		t := L.CreateTable(len(val), 0)
		for i, item := range val {
			t.RawSetInt(i+1, luaValue(L, item))
		}
		return t
	case map[string]any:
		t := L.CreateTable(0, len(val))
		for k, item := range val {
			t.RawSetString(k, luaValue(L, item))
		}
		return t
	case fmt.Stringer:
		return lua.LString(val.String())
	}
	ud := L.NewUserData()
	ud.Value = v
	return ud
}
