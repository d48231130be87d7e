package dispatcher_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/gridstorm/internal/dispatcher"
	"github.com/dshills/gridstorm/internal/dispatcher/handler"
	"github.com/dshills/gridstorm/internal/engine"
	"github.com/dshills/gridstorm/internal/input"
	. "github.com/dshills/gridstorm/internal/table/tabletest"
)

func newSystem(t *testing.T, config dispatcher.SystemConfig, opts ...engine.Option) (*dispatcher.System, *engine.Engine) {
	t.Helper()
	e := engine.New(Grid([]string{"a", "b"}, []string{"c", "d"}), opts...)
	sys := dispatcher.NewSystem(config)
	sys.SetEngine(e)
	require.NoError(t, e.CursorIn(0, 0, 0))
	return sys, e
}

func TestSystemNamespaces(t *testing.T) {
	sys := dispatcher.NewSystemWithDefaults()

	assert.ElementsMatch(t, []string{"table", "history"}, sys.ListNamespaces())

	actions := sys.ListActions()
	assert.Contains(t, actions, "table.addRowAfter")
	assert.Contains(t, actions, "table.mergeCells")
	assert.Contains(t, actions, "history.info")
	assert.Contains(t, actions, "history.restore")
	assert.NotContains(t, actions, "editor.save")
	assert.IsIncreasing(t, actions)
}

func TestSystemDispatchAndUndo(t *testing.T) {
	sys, e := newSystem(t, dispatcher.DefaultSystemConfig())

	result := sys.Dispatch(input.NewAction("table.addRowAfter", nil))
	require.True(t, result.IsOK(), "unexpected result %+v", result)
	assert.Equal(t, uint64(1), e.Revision())

	result = sys.Dispatch(input.NewAction("history.undo", nil))
	require.True(t, result.IsOK())
	assert.False(t, e.CanUndo())
	assert.True(t, e.CanRedo())
}

func TestSystemCheck(t *testing.T) {
	sys, e := newSystem(t, dispatcher.DefaultSystemConfig())

	result := sys.Check(input.NewAction("table.deleteColumn", nil))
	assert.True(t, result.IsOK())
	assert.Equal(t, uint64(0), e.Revision())

	result = sys.Check(input.NewAction("table.splitCell", nil))
	assert.Equal(t, handler.StatusNoOp, result.Status)
}

func TestSystemDispatchBatch(t *testing.T) {
	sys, e := newSystem(t, dispatcher.DefaultSystemConfig())

	actions := []input.Action{
		input.NewAction("table.addColumnAfter", nil),
		input.NewAction("table.nope", nil),
		input.NewAction("table.addRowAfter", nil),
	}

	results := sys.DispatchBatchContext(context.Background(), actions, true)
	require.Len(t, results, 2)
	assert.True(t, results[0].IsOK())
	assert.Equal(t, handler.StatusError, results[1].Status)
	assert.ErrorIs(t, results[1].Error, dispatcher.ErrNoHandler)
	assert.Equal(t, uint64(1), e.Revision())

	results = sys.DispatchBatchContext(context.Background(), actions, false)
	require.Len(t, results, 3)
	assert.True(t, results[2].IsOK())
	assert.Equal(t, uint64(3), e.Revision())
}

func TestSystemDispatchBatchCancelled(t *testing.T) {
	sys, e := newSystem(t, dispatcher.DefaultSystemConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := sys.DispatchBatchContext(ctx, []input.Action{
		input.NewAction("table.addRowAfter", nil),
	}, false)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Error, context.Canceled)
	assert.Equal(t, uint64(0), e.Revision())
}

func TestSystemRepeat(t *testing.T) {
	sys, e := newSystem(t, dispatcher.DefaultSystemConfig())
	repeat := input.NewAction(dispatcher.ActionRepeat, nil)

	result := sys.Dispatch(repeat)
	assert.Equal(t, handler.StatusNoOp, result.Status)
	assert.Equal(t, "nothing to repeat", result.Message)

	require.True(t, sys.Dispatch(input.NewAction("table.addRowAfter", nil)).IsOK())
	// Selection changes are not repeatable.
	require.True(t, sys.Dispatch(input.NewAction("table.cursor", map[string]any{"row": 0, "col": 1})).IsOK())

	result = sys.Dispatch(repeat)
	require.True(t, result.IsOK(), "unexpected result %+v", result)
	assert.Equal(t, uint64(2), e.Revision())

	result = sys.Dispatch(repeat.WithCount(2))
	require.True(t, result.IsOK())
	assert.Len(t, result.Changes, 2)
	assert.Equal(t, uint64(4), e.Revision())

	changes := sys.RecentChanges(-1)
	require.Len(t, changes, 4)
	assert.Equal(t, "table.addRowAfter", changes[0].Action)
	assert.Equal(t, dispatcher.ActionRepeat, changes[3].Action)
	assert.Equal(t, "addRowAfter", changes[3].Command)

	assert.Contains(t, sys.ListActions(), dispatcher.ActionRepeat)
}

func TestSystemChangeLog(t *testing.T) {
	sys, _ := newSystem(t, dispatcher.DefaultSystemConfig())

	sys.Dispatch(input.NewAction("table.addRowBefore", nil))
	sys.Dispatch(input.NewAction("table.cursor", map[string]any{"row": 1, "col": 1}))
	sys.Dispatch(input.NewAction("table.addColumnAfter", nil))

	changes := sys.RecentChanges(10)
	require.Len(t, changes, 2)
	assert.Equal(t, "addRowBefore", changes[0].Command)
	assert.Equal(t, uint64(2), changes[1].Revision)

	stats := sys.Stats()
	assert.Equal(t, 2, stats.Changes)
	assert.Equal(t, 2, stats.Namespaces)
	assert.Positive(t, stats.Hooks)
	require.NotNil(t, stats.Totals)
	assert.Equal(t, uint64(3), stats.Totals.DispatchCount)
	assert.Equal(t, uint64(3), stats.Totals.StatusCount(handler.StatusOK))

	sys.SetEngine(engine.New(Grid([]string{"x"})))
	assert.Empty(t, sys.RecentChanges(10))
	assert.Equal(t, uint64(3), sys.Stats().Totals.DispatchCount)
}

func TestSystemSetEngineForgetsRepeat(t *testing.T) {
	sys, _ := newSystem(t, dispatcher.DefaultSystemConfig())
	require.True(t, sys.Dispatch(input.NewAction("table.addRowAfter", nil)).IsOK())

	other := engine.New(Grid([]string{"x"}))
	sys.SetEngine(other)
	require.NoError(t, other.CursorIn(0, 0, 0))

	result := sys.Dispatch(input.NewAction(dispatcher.ActionRepeat, nil))
	assert.Equal(t, handler.StatusNoOp, result.Status)
	assert.Equal(t, uint64(0), other.Revision())
}

func TestSystemReadOnlyGuard(t *testing.T) {
	sys, e := newSystem(t, dispatcher.DefaultSystemConfig(), engine.WithReadOnly())

	result := sys.Dispatch(input.NewAction("table.deleteRow", nil))
	assert.Equal(t, handler.StatusCancelled, result.Status)
	assert.ErrorIs(t, result.Error, dispatcher.ErrActionCancelled)

	result = sys.Dispatch(input.NewAction("table.size", nil))
	assert.True(t, result.IsOK())

	result = sys.Check(input.NewAction("table.deleteRow", nil))
	assert.NotEqual(t, handler.StatusCancelled, result.Status)
	assert.Equal(t, uint64(0), e.Revision())
}

func TestSystemCountLimit(t *testing.T) {
	config := dispatcher.DefaultSystemConfig()
	config.DispatcherConfig = config.DispatcherConfig.WithMaxRepeatCount(2)
	sys, e := newSystem(t, config)

	result := sys.Dispatch(input.NewAction("table.addRowAfter", nil).WithCount(5))
	require.True(t, result.IsOK())
	assert.Len(t, result.Changes, 2)
	assert.Equal(t, 1, e.UndoCount())
}

func TestSystemPerformanceMonitor(t *testing.T) {
	config := dispatcher.DefaultSystemConfig()
	config.EnablePerformanceMonitor = true
	sys, _ := newSystem(t, config)

	require.NotNil(t, sys.PerformanceMonitor())
	sys.Dispatch(input.NewAction("table.addRowAfter", nil))
	sys.Dispatch(input.NewAction("table.size", nil))

	stats, ok := sys.PerformanceMonitor().ActionStats("table.addRowAfter")
	require.True(t, ok)
	assert.Equal(t, uint64(1), stats.Count)
	assert.Equal(t, uint64(2), sys.PerformanceMonitor().GlobalStats().Count)
}

func TestSystemDisabledHooks(t *testing.T) {
	sys, _ := newSystem(t, dispatcher.SystemConfig{DispatcherConfig: dispatcher.DefaultConfig()})

	assert.Nil(t, sys.PerformanceMonitor())
	assert.Nil(t, sys.RecentChanges(5))
	assert.NotContains(t, sys.ListActions(), dispatcher.ActionRepeat)
	assert.Nil(t, sys.Stats().Totals)
}

func TestSystemStopStart(t *testing.T) {
	sys, e := newSystem(t, dispatcher.DefaultSystemConfig())
	sys.Start()
	assert.True(t, sys.IsStarted())

	sys.Stop()
	assert.False(t, sys.IsStarted())
	result := sys.Dispatch(input.NewAction("table.addRowAfter", nil))
	assert.ErrorIs(t, result.Error, dispatcher.ErrDispatcherStopped)
	assert.Equal(t, uint64(0), e.Revision())

	sys.Start()
	assert.True(t, sys.Dispatch(input.NewAction("table.addRowAfter", nil)).IsOK())
}
