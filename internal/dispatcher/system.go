package dispatcher

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/dshills/gridstorm/internal/dispatcher/execctx"
	"github.com/dshills/gridstorm/internal/dispatcher/handler"
	historyhandler "github.com/dshills/gridstorm/internal/dispatcher/handlers/history"
	tablehandler "github.com/dshills/gridstorm/internal/dispatcher/handlers/table"
	"github.com/dshills/gridstorm/internal/dispatcher/hook"
	"github.com/dshills/gridstorm/internal/input"
)

// ActionRepeat dispatches the last successful table edit again. It is
// served when SystemConfig.EnableRepeatHook is set.
const ActionRepeat = "history.repeat"

// SystemConfig selects the hooks and monitors a System installs.
type SystemConfig struct {
	DispatcherConfig Config

	// EnableAudit logs every dispatch through glog.
	EnableAudit bool

	// EnableRepeatHook remembers the last table edit and serves
	// ActionRepeat.
	EnableRepeatHook bool

	// EnableChangeLog keeps the last ChangeLogMaxChanges commits.
	EnableChangeLog     bool
	ChangeLogMaxChanges int

	// EnableReadOnlyGuard cancels edits on a read-only engine before they
	// reach a handler.
	EnableReadOnlyGuard bool

	// EnablePerformanceMonitor records per-action latency. Dispatches
	// slower than SlowActionThreshold are logged as warnings, and
	// PerformanceSampleRate of all dispatches are sampled.
	EnablePerformanceMonitor bool
	SlowActionThreshold      time.Duration
	PerformanceSampleRate    float64
}

// DefaultSystemConfig enables every hook and metrics, but not the latency
// monitor.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		DispatcherConfig:      DefaultConfig().WithMetrics(),
		EnableAudit:           true,
		EnableRepeatHook:      true,
		EnableChangeLog:       true,
		ChangeLogMaxChanges:   1000,
		EnableReadOnlyGuard:   true,
		SlowActionThreshold:   50 * time.Millisecond,
		PerformanceSampleRate: 1,
	}
}

// System is a Dispatcher with the table and history namespaces mounted
// and the standard hooks installed. Hosts only supply an engine.
type System struct {
	dispatcher *Dispatcher
	config     SystemConfig

	repeat  *hook.RepeatHook
	changes *hook.ChangeLogHook
	perf    *PerformanceMonitor

	mu      sync.RWMutex
	started bool
}

// Engine is what a System drives. *engine.Engine implements it.
type Engine interface {
	execctx.EngineInterface
	execctx.HistoryInterface
}

// NewSystem builds a system from config.
func NewSystem(config SystemConfig, opts ...Option) *System {
	s := &System{
		dispatcher: New(config.DispatcherConfig, opts...),
		config:     config,
	}
	s.dispatcher.Mount(tablehandler.NewHandler())
	s.dispatcher.Mount(historyhandler.NewHandler())

	hooks := s.dispatcher.Hooks()
	if config.EnableAudit {
		hooks.Register(hook.NewAuditHook(hook.GlogLogger{}))
	}
	if config.EnableReadOnlyGuard {
		hooks.Register(hook.NewReadOnlyHook())
	}
	if config.EnableRepeatHook {
		s.repeat = hook.NewRepeatHook()
		hooks.Register(s.repeat)
		s.dispatcher.HandleFunc(ActionRepeat, s.handleRepeat)
	}
	if config.EnableChangeLog {
		s.changes = hook.NewChangeLogHook(config.ChangeLogMaxChanges)
		hooks.Register(s.changes)
	}
	if config.EnablePerformanceMonitor {
		s.perf = NewPerformanceMonitor()
		if config.PerformanceSampleRate > 0 {
			s.perf.SetSampleRate(config.PerformanceSampleRate)
		}
		s.perf.SetSlowThreshold(config.SlowActionThreshold)
		s.perf.SetAlertCallback(func(action string, d time.Duration) {
			glog.Warningf("dispatch %s took %v", action, d)
		})
		hooks.Register(hook.NewTimingHook(s.perf.Record))
	}
	return s
}

// NewSystemWithDefaults is NewSystem(DefaultSystemConfig(), opts...).
func NewSystemWithDefaults(opts ...Option) *System {
	return NewSystem(DefaultSystemConfig(), opts...)
}

// SetEngine points commands and undo at e. The repeat memory and the
// change log describe the previous engine's edits and are cleared.
func (s *System) SetEngine(e Engine) {
	s.dispatcher.SetEngine(e)
	s.dispatcher.SetHistory(e)
	if s.repeat != nil {
		s.repeat.Clear()
	}
	if s.changes != nil {
		s.changes.Clear()
	}
}

func (s *System) Dispatch(action input.Action) handler.Result {
	return s.dispatcher.Dispatch(action)
}

func (s *System) DispatchContext(ctx context.Context, action input.Action) handler.Result {
	return s.dispatcher.DispatchContext(ctx, action)
}

// Check reports whether action would apply without committing it.
func (s *System) Check(action input.Action) handler.Result {
	return s.dispatcher.Check(action)
}

// DispatchBatchContext runs actions in order. With stopOnError the first
// error result ends the batch. Once ctx is done the batch ends with an
// error result carrying ctx.Err().
func (s *System) DispatchBatchContext(ctx context.Context, actions []input.Action, stopOnError bool) []handler.Result {
	results := make([]handler.Result, 0, len(actions))
	for _, action := range actions {
		if err := ctx.Err(); err != nil {
			return append(results, handler.Error(err))
		}
		r := s.dispatcher.DispatchContext(ctx, action)
		results = append(results, r)
		if stopOnError && r.IsError() {
			break
		}
	}
	return results
}

// Start lets the system dispatch. A new system is already able to; Start
// undoes Stop.
func (s *System) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatcher.Start()
	s.started = true
}

// Stop makes later dispatches fail with ErrDispatcherStopped.
func (s *System) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatcher.Stop()
	s.started = false
}

func (s *System) IsStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Metrics returns the dispatch counters, or nil when disabled.
func (s *System) Metrics() *Metrics { return s.dispatcher.Metrics() }

// PerformanceMonitor returns the latency monitor, or nil when disabled.
func (s *System) PerformanceMonitor() *PerformanceMonitor { return s.perf }

// RecentChanges returns up to n of the newest committed changes.
func (s *System) RecentChanges(n int) []hook.ChangeRecord {
	if s.changes == nil {
		return nil
	}
	return s.changes.Recent(n)
}

// handleRepeat runs the remembered edit's handler under the repeat
// action's hooks, so the edit is logged once, as history.repeat. A count on
// the repeat action overrides the remembered count.
func (s *System) handleRepeat(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	last, count := s.repeat.LastAction()
	if last == nil {
		return handler.NoOpWithMessage("nothing to repeat")
	}
	h := s.dispatcher.routes.resolve(last.Name)
	if h == nil {
		return handler.Errorf("%w: %s", ErrNoHandler, last.Name)
	}
	if action.Count > 0 {
		count = ctx.Count
	}
	last.Count = count
	last.Source = action.Source
	ctx.Count = max(count, 1)
	return h.Handle(*last, ctx)
}

// ListNamespaces returns the mounted namespace names.
func (s *System) ListNamespaces() []string { return s.dispatcher.Namespaces() }

// ListActions returns every dispatchable action name, sorted.
func (s *System) ListActions() []string { return s.dispatcher.Actions() }

// SystemStats summarizes a System.
type SystemStats struct {
	Namespaces int
	Actions    int
	Hooks      int
	Changes    int
	Running    bool
	// Totals is nil when metrics are disabled.
	Totals *ActionMetrics
}

// Stats reports the system's size and totals.
func (s *System) Stats() SystemStats {
	stats := SystemStats{
		Namespaces: len(s.dispatcher.Namespaces()),
		Actions:    len(s.dispatcher.Actions()),
		Hooks:      s.dispatcher.Hooks().Len(),
		Running:    s.IsStarted(),
	}
	if s.changes != nil {
		stats.Changes = s.changes.Len()
	}
	if m := s.Metrics(); m != nil {
		t := m.Totals()
		stats.Totals = &t
	}
	return stats
}
