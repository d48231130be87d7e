package dispatcher

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/dshills/gridstorm/internal/dispatcher/handler"
)

const statusKinds = int(handler.StatusCancelled) + 1

// ActionMetrics are the counters of one action, or of all actions for
// Metrics.Totals.
type ActionMetrics struct {
	Name          string
	DispatchCount uint64
	PanicCount    uint64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	LastDispatch  time.Time

	statuses [statusKinds]uint64
}

// StatusCount returns how many dispatches ended with s.
func (am ActionMetrics) StatusCount(s handler.ResultStatus) uint64 {
	if int(s) >= statusKinds {
		return 0
	}
	return am.statuses[s]
}

func (am ActionMetrics) ErrorCount() uint64 {
	return am.statuses[handler.StatusError]
}

func (am ActionMetrics) AverageActionDuration() time.Duration {
	if am.DispatchCount == 0 {
		return 0
	}
	return am.TotalDuration / time.Duration(am.DispatchCount)
}

// ErrorRate is the percentage of dispatches that failed.
func (am ActionMetrics) ErrorRate() float64 {
	if am.DispatchCount == 0 {
		return 0
	}
	return 100 * float64(am.ErrorCount()) / float64(am.DispatchCount)
}

func (am *ActionMetrics) record(d time.Duration, status handler.ResultStatus, at time.Time) {
	if am.DispatchCount == 0 || d < am.MinDuration {
		am.MinDuration = d
	}
	am.MaxDuration = max(am.MaxDuration, d)
	am.DispatchCount++
	am.TotalDuration += d
	am.LastDispatch = at
	if int(status) < statusKinds {
		am.statuses[status]++
	}
}

// Metrics counts dispatches per action and per result status.
type Metrics struct {
	mu      sync.Mutex
	totals  ActionMetrics
	actions map[string]*ActionMetrics
}

func NewMetrics() *Metrics {
	return &Metrics{actions: make(map[string]*ActionMetrics)}
}

// RecordDispatch counts one finished dispatch.
func (m *Metrics) RecordDispatch(action string, d time.Duration, status handler.ResultStatus) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals.record(d, status, now)
	m.action(action).record(d, status, now)
}

// RecordPanic counts a recovered handler panic. The dispatch itself is
// still recorded by RecordDispatch as an error.
func (m *Metrics) RecordPanic(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals.PanicCount++
	m.action(action).PanicCount++
}

func (m *Metrics) action(name string) *ActionMetrics {
	am, ok := m.actions[name]
	if !ok {
		am = &ActionMetrics{Name: name}
		m.actions[name] = am
	}
	return am
}

// Totals returns the counters summed over every action.
func (m *Metrics) Totals() ActionMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals
}

// ActionStats returns the counters of one action.
func (m *Metrics) ActionStats(name string) (ActionMetrics, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	am, ok := m.actions[name]
	if !ok {
		return ActionMetrics{}, false
	}
	return *am, true
}

// TopActions returns the n most dispatched actions. Ties sort by name.
func (m *Metrics) TopActions(n int) []ActionMetrics {
	return m.top(n, func(a, b ActionMetrics) int {
		return cmp.Compare(b.DispatchCount, a.DispatchCount)
	})
}

// SlowestActions returns the n actions with the highest average duration.
func (m *Metrics) SlowestActions(n int) []ActionMetrics {
	return m.top(n, func(a, b ActionMetrics) int {
		return cmp.Compare(b.AverageActionDuration(), a.AverageActionDuration())
	})
}

func (m *Metrics) top(n int, order func(a, b ActionMetrics) int) []ActionMetrics {
	m.mu.Lock()
	all := make([]ActionMetrics, 0, len(m.actions))
	for _, am := range m.actions {
		all = append(all, *am)
	}
	m.mu.Unlock()

	slices.SortFunc(all, func(a, b ActionMetrics) int {
		if c := order(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return all[:min(max(n, 0), len(all))]
}

// Reset zeroes every counter.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals = ActionMetrics{}
	m.actions = make(map[string]*ActionMetrics)
}
