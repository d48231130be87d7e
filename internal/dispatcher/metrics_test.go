package dispatcher_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/gridstorm/internal/dispatcher"
	"github.com/dshills/gridstorm/internal/dispatcher/handler"
)

func TestMetricsTotals(t *testing.T) {
	m := dispatcher.NewMetrics()
	m.RecordDispatch("table.addRowAfter", 2*time.Millisecond, handler.StatusOK)
	m.RecordDispatch("table.addRowAfter", 4*time.Millisecond, handler.StatusError)
	m.RecordDispatch("table.mergeCells", 6*time.Millisecond, handler.StatusNoOp)
	m.RecordPanic("table.addRowAfter")

	totals := m.Totals()
	assert.Equal(t, uint64(3), totals.DispatchCount)
	assert.Equal(t, uint64(1), totals.PanicCount)
	assert.Equal(t, 12*time.Millisecond, totals.TotalDuration)
	assert.Equal(t, 2*time.Millisecond, totals.MinDuration)
	assert.Equal(t, 6*time.Millisecond, totals.MaxDuration)
	assert.Equal(t, 4*time.Millisecond, totals.AverageActionDuration())
	assert.Equal(t, uint64(1), totals.StatusCount(handler.StatusOK))
	assert.Equal(t, uint64(1), totals.StatusCount(handler.StatusNoOp))
	assert.Equal(t, uint64(0), totals.StatusCount(handler.StatusCancelled))
	assert.Equal(t, uint64(0), totals.StatusCount(handler.ResultStatus(42)))
	assert.False(t, totals.LastDispatch.IsZero())

	rows, ok := m.ActionStats("table.addRowAfter")
	require.True(t, ok)
	assert.Equal(t, "table.addRowAfter", rows.Name)
	assert.Equal(t, uint64(1), rows.ErrorCount())
	assert.InDelta(t, 50.0, rows.ErrorRate(), 1e-9)
	assert.Equal(t, uint64(1), rows.PanicCount)

	_, ok = m.ActionStats("table.deleteRow")
	assert.False(t, ok)
}

func TestMetricsRankings(t *testing.T) {
	m := dispatcher.NewMetrics()
	m.RecordDispatch("b", time.Millisecond, handler.StatusOK)
	m.RecordDispatch("a", time.Millisecond, handler.StatusOK)
	m.RecordDispatch("c", 9*time.Millisecond, handler.StatusOK)
	m.RecordDispatch("c", time.Millisecond, handler.StatusOK)

	names := func(list []dispatcher.ActionMetrics) []string {
		var out []string
		for _, am := range list {
			out = append(out, am.Name)
		}
		return out
	}
	assert.Equal(t, []string{"c", "a", "b"}, names(m.TopActions(10)))
	assert.Equal(t, []string{"c", "a"}, names(m.TopActions(2)))
	assert.Equal(t, []string{"c", "a", "b"}, names(m.SlowestActions(3)))
	assert.Empty(t, m.TopActions(0))
	assert.Empty(t, m.TopActions(-1))

	m.Reset()
	assert.Zero(t, m.Totals().DispatchCount)
	assert.Empty(t, m.TopActions(10))
}

func TestEmptyActionMetrics(t *testing.T) {
	var am dispatcher.ActionMetrics
	assert.Zero(t, am.AverageActionDuration())
	assert.Zero(t, am.ErrorRate())
}
