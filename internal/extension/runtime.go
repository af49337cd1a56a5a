package extension

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
)

// DefaultTimeout bounds the run time of a single script.
const DefaultTimeout = 2 * time.Second

// Runtime owns a sandboxed Lua state and the declarations its scripts
// produce.
//
// gopher-lua's LState is not goroutine-safe; Runtime serialises access
// with a mutex.
type Runtime struct {
	L *lua.LState

	mu       sync.Mutex
	timeout  time.Duration
	platform key.Platform
	logger   *slog.Logger

	decls   []keymap.Declaration
	pending []keymap.Declaration
	script  string
	closed  bool
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithTimeout sets the per-script execution timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		if d >= 0 {
			r.timeout = d
		}
	}
}

// WithPlatform sets the value scripts see as keys.platform.
func WithPlatform(p key.Platform) Option {
	return func(r *Runtime) {
		r.platform = p
	}
}

// WithLogger sets the logger. Script print output goes here at info level.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRuntime creates a sandboxed runtime.
func NewRuntime(opts ...Option) *Runtime {
	r := &Runtime{
		timeout:  DefaultTimeout,
		platform: key.CurrentPlatform(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(r.L)
	r.installSandbox()
	r.installKeysModule()
	return r
}

// openSafeLibraries opens only the Lua standard libraries scripts need.
// io, os, debug and package stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// installSandbox removes the base functions that load code from disk or
// strings, and routes print to the logger.
func (r *Runtime) installSandbox() {
	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring", "require", "module",
		"getfenv", "setfenv", "collectgarbage",
	} {
		r.L.SetGlobal(name, lua.LNil)
	}

	r.L.SetGlobal("print", r.L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		r.logger.Info("extension print", "script", r.script, "msg", strings.Join(parts, "\t"))
		return 0
	}))
}

func (r *Runtime) installKeysModule() {
	mod := r.L.SetFuncs(r.L.NewTable(), map[string]lua.LGFunction{
		"bind":      r.bind,
		"unbind":    r.unbind,
		"normalize": normalize,
	})
	r.L.SetField(mod, "platform", lua.LString(r.platform.String()))
	r.L.SetGlobal("keys", mod)
}

// bind(key, command, opts?) adds a binding. opts may hold "when" (string)
// and "args" (table).
func (r *Runtime) bind(L *lua.LState) int {
	keys := L.CheckString(1)
	command := L.CheckString(2)
	if strings.TrimSpace(keys) == "" {
		L.ArgError(1, "key cannot be empty")
		return 0
	}
	if command == "" || strings.HasPrefix(command, "-") {
		L.ArgError(2, "command must be a non-empty name; use keys.unbind to remove")
		return 0
	}

	decl := keymap.Declaration{Keys: keys, Command: command}
	if L.GetTop() >= 3 && L.Get(3) != lua.LNil {
		opts := L.CheckTable(3)
		decl.When = getTableString(L, opts, "when")
		switch args := L.GetField(opts, "args").(type) {
		case *lua.LNilType:
		case *lua.LTable:
			if m, ok := toGoValue(args, make(map[*lua.LTable]bool)).(map[string]any); ok {
				decl.Args = m
			} else {
				decl.Args = map[string]any{"value": toGoValue(args, make(map[*lua.LTable]bool))}
			}
		default:
			decl.Args = map[string]any{"value": toGoValue(args, nil)}
		}
	}

	r.pending = append(r.pending, decl)
	return 0
}

// unbind(key, command) removes a lower-priority binding. An empty key
// removes every binding for the command.
func (r *Runtime) unbind(L *lua.LState) int {
	keys := L.CheckString(1)
	command := strings.TrimPrefix(L.CheckString(2), "-")
	if command == "" {
		L.ArgError(2, "command cannot be empty")
		return 0
	}
	r.pending = append(r.pending, keymap.Declaration{Keys: keys, Command: "-" + command})
	return 0
}

// normalize(chord) returns the canonical chord string, or nil and an
// error message.
func normalize(L *lua.LState) int {
	s, err := key.NormalizeChord(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LString(s))
	return 1
}

// LoadString runs a chunk of Lua under the given name.
func (r *Runtime) LoadString(ctx context.Context, name, code string) error {
	return r.run(ctx, name, func(L *lua.LState) error { return L.DoString(code) })
}

// LoadFile runs a Lua file.
func (r *Runtime) LoadFile(ctx context.Context, path string) error {
	return r.run(ctx, path, func(L *lua.LState) error { return L.DoFile(path) })
}

// LoadDir runs every *.lua file in dir in lexical order. A missing
// directory is not an error. Failing scripts are skipped; their errors are
// joined into the result.
func (r *Runtime) LoadDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading extension dir: %w", err)
	}

	var errs []error
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".lua" {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := r.LoadFile(ctx, filepath.Join(dir, e.Name())); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Runtime) run(ctx context.Context, name string, fn func(L *lua.LState) error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRuntimeClosed
	}

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	r.L.SetContext(runCtx)
	defer r.L.RemoveContext()

	r.script = name
	r.pending = r.pending[:0]
	defer func() {
		r.script = ""
		if rec := recover(); rec != nil {
			err = &ScriptError{Script: name, Err: fmt.Errorf("lua panic: %v", rec)}
		}
		if err != nil {
			r.logger.Warn("skipping extension script", "script", name, "error", err)
			return
		}
		r.decls = append(r.decls, r.pending...)
		r.logger.Debug("extension script loaded", "script", name, "bindings", len(r.pending))
	}()

	if err := fn(r.L); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("%w: %v", ErrScriptTimeout, err)
		}
		return &ScriptError{Script: name, Err: err}
	}
	return nil
}

// Declarations returns the extension-tier declarations accumulated so far,
// in script order.
func (r *Runtime) Declarations() []keymap.Declaration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]keymap.Declaration, len(r.decls))
	copy(out, r.decls)
	return out
}

// Reset forgets accumulated declarations so scripts can be reloaded. Lua
// globals set by earlier scripts are kept.
func (r *Runtime) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decls = nil
}

// Close releases the Lua state.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.L.Close()
	r.closed = true
	return nil
}

// Load runs the scripts in dir in a fresh runtime and returns their
// declarations along with any script errors.
func Load(ctx context.Context, dir string, opts ...Option) ([]keymap.Declaration, error) {
	if dir == "" {
		return nil, nil
	}
	r := NewRuntime(opts...)
	defer r.Close()
	err := r.LoadDir(ctx, dir)
	return r.Declarations(), err
}

// getTableString gets a string field from a Lua table.
func getTableString(L *lua.LState, tbl *lua.LTable, field string) string {
	if str, ok := L.GetField(tbl, field).(lua.LString); ok {
		return string(str)
	}
	return ""
}

// toGoValue converts a Lua value to a Go value. Tables with keys 1..n
// become slices, other tables maps. Cycles convert to nil.
func toGoValue(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited == nil {
			visited = make(map[*lua.LTable]bool)
		}
		if visited[v] {
			return nil
		}
		visited[v] = true
		defer delete(visited, v)
		return tableToGo(v, visited)
	default:
		return nil
	}
}

func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })

	if n > 0 && n == count {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = toGoValue(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		m[k.String()] = toGoValue(v, visited)
	})
	return m
}
