// Package hook runs code before and after every dispatch.
//
// A hook has a name and a priority and implements PreDispatchHook,
// PostDispatchHook or both. Pre-dispatch hooks run from the highest
// priority down and may rewrite the action or cancel it; post-dispatch
// hooks run in the opposite order and may rewrite the result.
//
// The built-in hooks:
//
//   - TimingHook (1001): reports the time spent inside the other hooks and the handler
//   - AuditHook (1000): logs every dispatch through glog, failures as errors
//   - CountLimitHook (900): clamps repeat counts
//   - ReadOnlyHook (800): cancels edits while the engine is read-only
//   - RepeatHook (500): remembers the last successful table edit
//   - ChangeLogHook (100): keeps the most recent commits
//
// Ad hoc hooks are easiest to write with Funcs:
//
//	m := hook.NewManager()
//	m.Register(hook.Funcs{
//		HookName:     "no-deletes",
//		HookPriority: 850,
//		Pre: func(a *input.Action, _ *execctx.ExecutionContext) bool {
//			return a.Name != "table.deleteTable"
//		},
//	})
package hook
