package hook

import (
	"fmt"
	"strings"

	"github.com/golang/glog"

	"github.com/dshills/gridstorm/internal/dispatcher/execctx"
	"github.com/dshills/gridstorm/internal/dispatcher/handler"
	"github.com/dshills/gridstorm/internal/input"
)

// Priorities of the built-in hooks.
const (
	PriorityAudit      = 1000
	PriorityCountLimit = 900
	PriorityReadOnly   = 800
	PriorityRepeat     = 500
	PriorityChangeLog  = 100
)

// Logger receives audit lines as a message plus key/value pairs.
type Logger interface {
	Debug(msg string, kv ...any)
	Error(msg string, kv ...any)
}

// GlogLogger writes audit lines through glog. Debug lines need -v=2.
type GlogLogger struct{}

func (GlogLogger) Debug(msg string, kv ...any) {
	if glog.V(2) {
		glog.InfoDepth(1, formatKV(msg, kv))
	}
}

func (GlogLogger) Error(msg string, kv ...any) {
	glog.ErrorDepth(1, formatKV(msg, kv))
}

func formatKV(msg string, kv []any) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(kv); i += 2 {
		if i+1 == len(kv) {
			fmt.Fprintf(&b, " %v=?", kv[i])
			break
		}
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	return b.String()
}

// AuditHook logs each dispatch when it starts and when it ends. Failures
// are logged as errors.
type AuditHook struct {
	log Logger
}

// NewAuditHook returns an audit hook writing to log, or to glog when log
// is nil.
func NewAuditHook(log Logger) *AuditHook {
	if log == nil {
		log = GlogLogger{}
	}
	return &AuditHook{log: log}
}

func (h *AuditHook) Name() string  { return "audit" }
func (h *AuditHook) Priority() int { return PriorityAudit }

func (h *AuditHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	h.log.Debug("dispatch", "action", action.Name, "source", action.Source, "count", ctx.Count, "dry_run", ctx.DryRun)
	return true
}

func (h *AuditHook) PostDispatch(action *input.Action, _ *execctx.ExecutionContext, result *handler.Result) {
	if result.IsError() {
		h.log.Error("dispatch failed", "action", action.Name, "error", result.Error)
		return
	}
	h.log.Debug("dispatched", "action", action.Name, "status", result.Status, "revision", result.Revision())
}
