// Package extension runs Lua scripts that contribute extension-tier key
// bindings.
//
// Scripts run in a sandboxed gopher-lua state: only the base, table,
// string and math libraries are available, and file loading functions are
// removed. Each script gets a global "keys" module:
//
//	keys.bind("ctrl+alt+t", "terminal.toggle")
//	keys.bind("f5", "debug.start", { when = "debuggersAvailable", args = { mode = "run" } })
//	keys.unbind("ctrl+shift+s", "file.saveAs")
//	keys.unbind("", "workbench.action.quickOpen")  -- every binding for the command
//
//	local chord, err = keys.normalize("Ctrl+K   ctrl+S")
//	if keys.platform == "mac" then ... end
//
// A script's bindings are kept only if it runs to completion. Scripts that
// fail, or exceed the execution timeout, are reported and skipped.
package extension
