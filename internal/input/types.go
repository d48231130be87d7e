package input

import "maps"

// ActionSource records which front end produced an action.
type ActionSource uint8

const (
	SourceAPI ActionSource = iota
	SourceCLI
	SourceBatch
	SourceScript
)

var sourceNames = [...]string{"api", "cli", "batch", "script"}

func (s ActionSource) String() string {
	if int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return "unknown"
}

// ActionArgs holds the named arguments of an action.
type ActionArgs struct {
	Extra map[string]any
}

func (a ActionArgs) Get(key string) (any, bool) {
	v, ok := a.Extra[key]
	return v, ok
}

func (a ActionArgs) GetString(key string) string {
	s, _ := a.Extra[key].(string)
	return s
}

// GetInt accepts the integer and float types the CLI, YAML and Lua
// decoders produce. Other values read as 0.
func (a ActionArgs) GetInt(key string) int {
	switch n := a.Extra[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func (a ActionArgs) GetBool(key string) bool {
	b, _ := a.Extra[key].(bool)
	return b
}

// Clone returns a copy with its own Extra map.
func (a ActionArgs) Clone() ActionArgs {
	return ActionArgs{Extra: maps.Clone(a.Extra)}
}

// Action is a request to the dispatcher: a namespaced name such as
// "table.mergeCells" or "history.undo" plus its arguments.
type Action struct {
	Name   string
	Args   ActionArgs
	Source ActionSource

	// Count repeats the action. Zero and one both run it once.
	Count int
}

func NewAction(name string, args map[string]any) Action {
	return Action{Name: name, Args: ActionArgs{Extra: args}}
}

// The With methods return modified copies; WithArg never writes to the
// receiver's Extra map.

func (a Action) WithCount(count int) Action {
	a.Count = count
	return a
}

func (a Action) WithSource(source ActionSource) Action {
	a.Source = source
	return a
}

func (a Action) WithArg(key string, value any) Action {
	a.Args = a.Args.Clone()
	if a.Args.Extra == nil {
		a.Args.Extra = make(map[string]any, 1)
	}
	a.Args.Extra[key] = value
	return a
}
