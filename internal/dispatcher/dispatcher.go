package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/golang/glog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dshills/gridstorm/internal/dispatcher/execctx"
	"github.com/dshills/gridstorm/internal/dispatcher/handler"
	"github.com/dshills/gridstorm/internal/dispatcher/hook"
	"github.com/dshills/gridstorm/internal/input"
)

// TracerName is the instrumentation scope of dispatch spans.
const TracerName = "github.com/dshills/gridstorm/internal/dispatcher"

// Span attributes.
const (
	AttrActionName   = "action.name"
	AttrActionSource = "action.source"
	AttrActionCount  = "action.count"
	AttrDryRun       = "action.dry_run"
	AttrResultStatus = "result.status"
	AttrRevision     = "result.revision"
	AttrCancelledBy  = "result.cancelled_by"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTracerProvider creates dispatch spans from tp instead of the global
// provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(d *Dispatcher) {
		if tp != nil {
			d.tracer = tp.Tracer(TracerName)
		}
	}
}

// WithHooks runs the hooks of m around every dispatch.
func WithHooks(m *hook.Manager) Option {
	return func(d *Dispatcher) {
		if m != nil {
			d.hooks = m
		}
	}
}

// Dispatcher runs actions synchronously against one engine. It is safe for
// concurrent use; the engine serializes the edits themselves.
type Dispatcher struct {
	config  Config
	routes  *routes
	hooks   *hook.Manager
	metrics *Metrics
	tracer  trace.Tracer

	mu      sync.RWMutex
	engine  execctx.EngineInterface
	history execctx.HistoryInterface
	stopped bool
}

// New returns a dispatcher with no handlers. A positive
// config.MaxRepeatCount registers a hook.CountLimitHook.
func New(config Config, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		config: config,
		routes: newRoutes(),
		hooks:  hook.NewManager(),
		tracer: otel.GetTracerProvider().Tracer(TracerName),
	}
	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	for _, opt := range opts {
		opt(d)
	}
	if config.MaxRepeatCount > 0 {
		d.hooks.Register(hook.NewCountLimitHook(config.MaxRepeatCount))
	}
	return d
}

// NewWithDefaults is New(DefaultConfig(), opts...).
func NewWithDefaults(opts ...Option) *Dispatcher {
	return New(DefaultConfig(), opts...)
}

func (d *Dispatcher) SetEngine(e execctx.EngineInterface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.engine = e
}

func (d *Dispatcher) SetHistory(h execctx.HistoryInterface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.history = h
}

func (d *Dispatcher) Engine() execctx.EngineInterface {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.engine
}

// Handle registers h for the exact action name.
func (d *Dispatcher) Handle(name string, h handler.Handler) {
	d.routes.handle(name, h)
}

// HandleFunc registers fn for the exact action name.
func (d *Dispatcher) HandleFunc(name string, fn func(input.Action, *execctx.ExecutionContext) handler.Result) {
	d.routes.handle(name, handler.Func(fn))
}

// Unhandle removes the exact registration for name.
func (d *Dispatcher) Unhandle(name string) {
	d.routes.remove(name)
}

// Mount routes the actions of ns.Namespace() to ns. Mounting a second
// handler for a namespace replaces the first.
func (d *Dispatcher) Mount(ns handler.NamespaceHandler) {
	d.routes.mount(ns)
}

// CanDispatch reports whether some handler accepts name.
func (d *Dispatcher) CanDispatch(name string) bool {
	return d.routes.resolve(name) != nil
}

// Namespaces returns the mounted namespaces, sorted.
func (d *Dispatcher) Namespaces() []string {
	return d.routes.namespaceNames()
}

// Actions returns every action name the dispatcher routes, sorted.
func (d *Dispatcher) Actions() []string {
	return d.routes.actions()
}

// Hooks returns the hook manager the dispatcher runs.
func (d *Dispatcher) Hooks() *hook.Manager { return d.hooks }

// Metrics returns the dispatch counters, or nil when disabled.
func (d *Dispatcher) Metrics() *Metrics { return d.metrics }

func (d *Dispatcher) Config() Config { return d.config }

// Start lets a stopped dispatcher run actions again.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = false
}

// Stop makes every later dispatch fail with ErrDispatcherStopped.
// Dispatches already running finish normally.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
}

// Dispatch runs action with a background context.
func (d *Dispatcher) Dispatch(action input.Action) handler.Result {
	return d.run(context.Background(), action, false)
}

// DispatchContext runs action. The dispatch span is a child of any span
// in ctx, and handlers see ctx's cancellation.
func (d *Dispatcher) DispatchContext(ctx context.Context, action input.Action) handler.Result {
	return d.run(ctx, action, false)
}

// Check runs action in dry-run mode: handlers report whether it would
// apply and commit nothing.
func (d *Dispatcher) Check(action input.Action) handler.Result {
	return d.run(context.Background(), action, true)
}

func (d *Dispatcher) run(parent context.Context, action input.Action, dryRun bool) (result handler.Result) {
	start := time.Now()
	c, span := d.tracer.Start(parent, "dispatch "+action.Name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(AttrActionName, action.Name),
			attribute.String(AttrActionSource, action.Source.String()),
			attribute.Bool(AttrDryRun, dryRun),
		))
	defer func() {
		if d.metrics != nil && action.Name != "" {
			d.metrics.RecordDispatch(action.Name, time.Since(start), result.Status)
		}
		endSpan(span, result)
	}()

	if action.Name == "" {
		return handler.Error(ErrInvalidAction)
	}

	d.mu.RLock()
	stopped := d.stopped
	ctx := execctx.New().WithEngine(d.engine).WithHistory(d.history).WithDryRun(dryRun).WithCount(action.Count)
	d.mu.RUnlock()
	if stopped {
		return handler.Error(ErrDispatcherStopped)
	}

	if d.config.DefaultTimeout > 0 {
		var cancel context.CancelFunc
		c, cancel = context.WithTimeout(c, d.config.DefaultTimeout)
		defer cancel()
	}
	ctx.WithContext(c)

	if by, ok := d.hooks.RunPre(&action, ctx); !ok {
		span.SetAttributes(attribute.String(AttrCancelledBy, by))
		result = handler.CancelledWithMessage("cancelled by " + by)
		result.Error = fmt.Errorf("%w by %s hook", ErrActionCancelled, by)
		return result
	}
	span.SetAttributes(attribute.Int(AttrActionCount, ctx.Count))

	h := d.routes.resolve(action.Name)
	if h == nil {
		result = handler.Errorf("%w: %s", ErrNoHandler, action.Name)
	} else {
		result = d.call(h, action, ctx)
	}
	if result.IsError() && errors.Is(result.Error, context.DeadlineExceeded) {
		result.Error = fmt.Errorf("%w: %s: %w", ErrTimeout, action.Name, result.Error)
	}
	if result.IsError() {
		glog.V(1).Infof("dispatch %s: %v", action.Name, result.Error)
	}

	d.hooks.RunPost(&action, ctx, &result)
	return result
}

// call runs h, converting a panic into an error result when recovery is on.
func (d *Dispatcher) call(h handler.Handler, action input.Action, ctx *execctx.ExecutionContext) (result handler.Result) {
	if !d.config.RecoverFromPanic {
		return h.Handle(action, ctx)
	}
	defer func() {
		if r := recover(); r != nil {
			glog.Errorf("dispatch %s: handler panic: %v\n%s", action.Name, r, debug.Stack())
			if d.metrics != nil {
				d.metrics.RecordPanic(action.Name)
			}
			result = handler.Errorf("%w: %s: %v", ErrPanic, action.Name, r)
		}
	}()
	return h.Handle(action, ctx)
}

func endSpan(span trace.Span, result handler.Result) {
	span.SetAttributes(attribute.String(AttrResultStatus, result.Status.String()))
	if rev := result.Revision(); rev > 0 {
		span.SetAttributes(attribute.Int64(AttrRevision, int64(rev)))
	}
	if result.IsError() {
		msg := "dispatch failed"
		if result.Error != nil {
			span.RecordError(result.Error)
			msg = result.Error.Error()
		}
		span.SetStatus(codes.Error, msg)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
