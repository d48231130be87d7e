package hook

import (
	"strings"
	"sync"
	"time"

	"github.com/dshills/gridstorm/internal/dispatcher/execctx"
	"github.com/dshills/gridstorm/internal/dispatcher/handler"
	"github.com/dshills/gridstorm/internal/input"
)

// RepeatHook remembers the last table edit that succeeded so it can be
// dispatched again.
type RepeatHook struct {
	mu    sync.Mutex
	last  *input.Action
	count int
}

func NewRepeatHook() *RepeatHook { return &RepeatHook{} }

func (h *RepeatHook) Name() string  { return "repeat" }
func (h *RepeatHook) Priority() int { return PriorityRepeat }

func (h *RepeatHook) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	if !result.IsOK() || ctx.DryRun || !repeatable(action.Name) {
		return
	}
	a := *action
	a.Args = action.Args.Clone()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last, h.count = &a, ctx.Count
}

// LastAction returns a copy of the remembered action and the count it ran
// with, or nil.
func (h *RepeatHook) LastAction() (*input.Action, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last == nil {
		return nil, 0
	}
	a := *h.last
	a.Args = h.last.Args.Clone()
	return &a, h.count
}

// Clear forgets the remembered action.
func (h *RepeatHook) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last, h.count = nil, 0
}

func repeatable(name string) bool {
	return strings.HasPrefix(name, "table.") && !IsQuery(name)
}

// ChangeRecord is one commit seen by ChangeLogHook.
type ChangeRecord struct {
	Time     time.Time
	Action   string
	Command  string
	Revision uint64
}

// ChangeLogHook keeps the most recent commits reported in results.
type ChangeLogHook struct {
	mu      sync.RWMutex
	limit   int
	records []ChangeRecord
	notify  func(ChangeRecord)
}

// NewChangeLogHook keeps at most limit records; zero keeps all of them.
func NewChangeLogHook(limit int) *ChangeLogHook {
	return &ChangeLogHook{limit: limit}
}

func (h *ChangeLogHook) Name() string  { return "change-log" }
func (h *ChangeLogHook) Priority() int { return PriorityChangeLog }

func (h *ChangeLogHook) PostDispatch(action *input.Action, _ *execctx.ExecutionContext, result *handler.Result) {
	if len(result.Changes) == 0 {
		return
	}
	now := time.Now()

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range result.Changes {
		rec := ChangeRecord{Time: now, Action: action.Name, Command: c.Command, Revision: c.Revision}
		h.records = append(h.records, rec)
		if h.notify != nil {
			h.notify(rec)
		}
	}
	if h.limit > 0 && len(h.records) > h.limit {
		h.records = append([]ChangeRecord(nil), h.records[len(h.records)-h.limit:]...)
	}
}

// Recent returns up to n of the newest records, oldest first. A negative
// n returns all of them.
func (h *ChangeLogHook) Recent(n int) []ChangeRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n < 0 || n > len(h.records) {
		n = len(h.records)
	}
	return append([]ChangeRecord(nil), h.records[len(h.records)-n:]...)
}

// Len returns the number of records kept.
func (h *ChangeLogHook) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// OnChange sets a function called with every new record.
func (h *ChangeLogHook) OnChange(fn func(ChangeRecord)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notify = fn
}

func (h *ChangeLogHook) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
}

// TimingHook reports how long each dispatch spent between its pre and post
// hooks. The start time travels on the execution context.
type TimingHook struct {
	report func(action string, d time.Duration)
}

const timingKey = "hook.timing.start"

func NewTimingHook(report func(action string, d time.Duration)) *TimingHook {
	return &TimingHook{report: report}
}

func (h *TimingHook) Name() string { return "timing" }

// Priority puts the timer outermost: first in, last out.
func (h *TimingHook) Priority() int { return PriorityAudit + 1 }

func (h *TimingHook) PreDispatch(_ *input.Action, ctx *execctx.ExecutionContext) bool {
	ctx.Set(timingKey, time.Now())
	return true
}

func (h *TimingHook) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, _ *handler.Result) {
	v, ok := ctx.Value(timingKey)
	start, isTime := v.(time.Time)
	if ok && isTime && h.report != nil {
		h.report(action.Name, time.Since(start))
	}
}
