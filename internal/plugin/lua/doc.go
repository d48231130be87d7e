// Package lua runs sandboxed Lua scripts against the table engine.
//
// A Runner dispatches script calls through a Dispatcher, so hooks,
// metrics and tracing apply to scripted edits exactly as they do to
// edits from the command line:
//
//	r := lua.NewRunner(sys, lua.WithExecutionTimeout(2*time.Second))
//	defer r.Close()
//
//	err := r.RunString(ctx, `
//	    local g = require("gridstorm")
//	    g.select_cells(0, 0, 1, 1)
//	    if g.can("mergeCells") then g.run("mergeCells") end
//	`)
//
// The gridstorm module provides run, can, select_cells, cursor_in, size,
// cell_text, undo, redo, repeat_last, commands and log. Row and column
// indexes are zero-based. Command names without a namespace are table
// commands. Failed actions raise a Lua error; run returns false when a
// command does not apply.
//
// # Sandbox
//
// States open only the base, package, string, table and math libraries.
// The loaders (dofile, loadfile, load, loadstring) are removed, require
// resolves only those libraries and host modules, and every host call
// counts against a per-run limit. Capabilities widen this:
// CapabilityFileRead adds io.lines and io.read_all, CapabilityUnsafe opens
// the io, os and debug libraries.
//
//	r := lua.NewRunner(sys, lua.WithCapabilities(lua.CapabilityFileRead))
package lua
