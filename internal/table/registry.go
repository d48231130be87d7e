package table

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Args carries command arguments from hosts such as the dispatcher, Lua
// scripts and the command line.
type Args map[string]any

// Int returns the named argument as an int, or def when it is absent.
func (a Args) Int(name string, def int) (int, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrInvalidArgs, name, v)
}

// String returns the named argument as a string.
func (a Args) String(name string) (string, bool) {
	s, ok := a[name].(string)
	return s, ok
}

// Factory creates a command from arguments.
type Factory func(args Args) (Command, error)

func fixed(cmd Command) Factory {
	return func(Args) (Command, error) { return cmd, nil }
}

var registry = map[string]Factory{
	"addColumnBefore":    fixed(AddColumnBefore),
	"addColumnAfter":     fixed(AddColumnAfter),
	"deleteColumn":       fixed(DeleteColumn),
	"addRowBefore":       fixed(AddRowBefore),
	"addRowAfter":        fixed(AddRowAfter),
	"deleteRow":          fixed(DeleteRow),
	"mergeCells":         fixed(MergeCells),
	"splitCell":          fixed(SplitCell),
	"toggleHeaderRow":    fixed(ToggleHeaderRow),
	"toggleHeaderColumn": fixed(ToggleHeaderColumn),
	"toggleHeaderCell":   fixed(ToggleHeaderCell),
	"deleteTable":        fixed(DeleteTable),
	"clearCells":         fixed(ClearCells),
	"goToNextCell": func(args Args) (Command, error) {
		dir, err := args.Int("direction", 1)
		if err != nil {
			return nil, err
		}
		return GoToNextCell(dir), nil
	},
	"setCellAttr": func(args Args) (Command, error) {
		name, ok := args.String("name")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: setCellAttr needs a name", ErrInvalidArgs)
		}
		return SetCellAttr(name, normalizeValue(args["value"])), nil
	},
}

// normalizeValue converts whole floats, as produced by JSON and Lua, to
// ints so they compare equal to attributes stored as ints.
func normalizeValue(v any) any {
	if f, ok := v.(float64); ok && f == float64(int(f)) {
		return int(f)
	}
	return v
}

// Lookup returns the command registered under name.
func Lookup(name string, args Args) (Command, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return f(args)
}

// Names returns the registered command names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
