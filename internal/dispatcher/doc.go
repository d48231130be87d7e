// Package dispatcher runs input actions against a table engine.
//
// Callers (the CLI, batch files, Lua scripts) describe what they want as
// an input.Action such as "table.mergeCells" or "history.undo". The
// Dispatcher resolves the name to a handler, either one registered for
// the exact name with Handle or the NamespaceHandler mounted for the
// prefix before the first dot, and runs it:
//
//  1. a "dispatch <action>" span starts on the configured tracer
//  2. an execctx.ExecutionContext is built around the engine
//  3. pre-dispatch hooks run and may cancel the action
//  4. the handler runs, with panic recovery and a timeout if configured
//  5. post-dispatch hooks run and may rewrite the result
//  6. metrics are recorded and the span ends with the result status
//
// Check runs the same steps in dry-run mode; handlers then report whether
// the action applies and commit nothing.
//
// System wires a Dispatcher to the table and history handlers and the
// built-in hooks:
//
//	sys := dispatcher.NewSystemWithDefaults()
//	sys.SetEngine(engine.New(doc))
//	result := sys.Dispatch(input.NewAction("table.addRowAfter", nil))
//
// With the repeat hook enabled, ActionRepeat ("history.repeat") runs the
// last successful table edit again.
//
// Spans carry the action name, source, count and dry-run flag plus the
// result status and the revision of the last commit. Use
// WithTracerProvider to send them somewhere other than the global
// provider.
package dispatcher
