package hook_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/gridstorm/internal/dispatcher/execctx"
	"github.com/dshills/gridstorm/internal/dispatcher/handler"
	"github.com/dshills/gridstorm/internal/dispatcher/hook"
	"github.com/dshills/gridstorm/internal/input"
)

// tracer returns a hook that appends its name to log at both stages.
func tracer(name string, priority int, log *[]string) hook.Funcs {
	return hook.Funcs{
		HookName:     name,
		HookPriority: priority,
		Pre: func(*input.Action, *execctx.ExecutionContext) bool {
			*log = append(*log, "pre:"+name)
			return true
		},
		Post: func(*input.Action, *execctx.ExecutionContext, *handler.Result) {
			*log = append(*log, "post:"+name)
		},
	}
}

func TestManagerOrder(t *testing.T) {
	var log []string
	m := hook.NewManager()
	m.Register(tracer("low", 10, &log))
	m.Register(tracer("high", 100, &log))
	m.Register(tracer("mid", 50, &log))

	assert.Equal(t, []string{"high", "mid", "low"}, m.Names())

	action := &input.Action{Name: "table.addRowAfter"}
	ctx := execctx.New()
	result := handler.Success()

	_, ok := m.RunPre(action, ctx)
	require.True(t, ok)
	m.RunPost(action, ctx, &result)

	assert.Equal(t, []string{
		"pre:high", "pre:mid", "pre:low",
		"post:low", "post:mid", "post:high",
	}, log)
}

func TestManagerCancel(t *testing.T) {
	var log []string
	m := hook.NewManager()
	m.Register(tracer("first", 100, &log))
	m.Register(hook.Funcs{
		HookName:     "veto",
		HookPriority: 50,
		Pre:          func(*input.Action, *execctx.ExecutionContext) bool { return false },
	})
	m.Register(tracer("never", 10, &log))

	name, ok := m.RunPre(&input.Action{Name: "table.deleteTable"}, execctx.New())
	assert.False(t, ok)
	assert.Equal(t, "veto", name)
	assert.Equal(t, []string{"pre:first"}, log)
}

func TestManagerReplaceAndUnregister(t *testing.T) {
	var log []string
	m := hook.NewManager()
	m.Register(tracer("a", 10, &log))
	m.Register(tracer("b", 20, &log))
	m.Register(tracer("a", 30, &log))

	assert.Equal(t, []string{"a", "b"}, m.Names())
	assert.Equal(t, 2, m.Len())

	assert.True(t, m.Unregister("a"))
	assert.False(t, m.Unregister("a"))
	assert.Equal(t, []string{"b"}, m.Names())

	m.Clear()
	assert.Zero(t, m.Len())
}

func TestManagerPostOnlyHook(t *testing.T) {
	m := hook.NewManager()
	changes := hook.NewChangeLogHook(0)
	m.Register(changes)

	_, ok := m.RunPre(&input.Action{Name: "table.mergeCells"}, execctx.New())
	assert.True(t, ok, "a post-only hook never cancels")

	result := handler.Success().WithChange(handler.Change{Command: "mergeCells", Revision: 1})
	m.RunPost(&input.Action{Name: "table.mergeCells"}, execctx.New(), &result)
	assert.Equal(t, 1, changes.Len())
}

func TestFuncsNil(t *testing.T) {
	f := hook.Funcs{HookName: "empty"}
	assert.True(t, f.PreDispatch(&input.Action{}, execctx.New()))

	result := handler.NoOp()
	f.PostDispatch(&input.Action{}, execctx.New(), &result)
	assert.Equal(t, handler.StatusNoOp, result.Status)
}
