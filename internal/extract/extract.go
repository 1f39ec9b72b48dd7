package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/nvim-keymap-migrator/internal/keymap"
)

// DefaultTimeout bounds the whole evaluation and each callback probe.
const DefaultTimeout = 5 * time.Second

// Option configures extraction.
type Option func(*options)

type options struct {
	timeout time.Duration
	probe   bool
}

// WithTimeout sets the evaluation timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithoutProbe disables calling callback closures to observe their calls.
func WithoutProbe() Option {
	return func(o *options) {
		o.probe = false
	}
}

// extractor is the state of one evaluation.
type extractor struct {
	L    *lua.LState
	root string

	bindings []keymap.RawBinding
	pending  []pendingCallback
	warnings []string
	leader   string

	vimG      *lua.LTable
	proxyMeta *lua.LTable
	loaded    map[string]lua.LValue
	loading   map[string]bool

	// probe collects proxy calls while a callback is being probed.
	probe *[]string
}

// pendingCallback is a closure rhs awaiting a probe; indexes point into
// bindings, one per mode the mapping was set for.
type pendingCallback struct {
	fn      *lua.LFunction
	indexes []int
}

// Config extracts bindings from the Neovim configuration rooted at root.
func Config(ctx context.Context, root string, opts ...Option) (*keymap.Dump, error) {
	entry := filepath.Join(root, "init.lua")
	if _, err := os.Stat(entry); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoEntry, root)
		}
		return nil, err
	}
	return run(ctx, root, entry, opts)
}

// File extracts bindings from a single Lua file. Modules are resolved
// relative to the file's directory.
func File(ctx context.Context, path string, opts ...Option) (*keymap.Dump, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return run(ctx, filepath.Dir(path), path, opts)
}

func run(ctx context.Context, root, entry string, opts []Option) (*keymap.Dump, error) {
	o := options{timeout: DefaultTimeout, probe: true}
	for _, opt := range opts {
		opt(&o)
	}

	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if abs, err := filepath.Abs(entry); err == nil {
		entry = abs
	}

	e := newExtractor(root)
	defer e.L.Close()

	evalCtx, cancel := context.WithTimeout(ctx, o.timeout)
	e.L.SetContext(evalCtx)
	loadErr := e.doFile(entry)
	cancel()
	e.leaderFromG()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if loadErr != nil {
		if len(e.bindings) == 0 {
			return nil, fmt.Errorf("%w: %v", ErrNothingCaptured, loadErr)
		}
		e.warn("%s: %v", entry, loadErr)
	}

	if o.probe {
		e.probeCallbacks(ctx, o.timeout)
	}

	return &keymap.Dump{
		Bindings: e.bindings,
		Descriptor: keymap.Descriptor{
			Leader:     e.leader,
			ConfigPath: root,
			Warnings:   e.warnings,
		},
		HasMeta: true,
	}, nil
}

func newExtractor(root string) *extractor {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	e := &extractor{
		L:       L,
		root:    root,
		loaded:  make(map[string]lua.LValue),
		loading: make(map[string]bool),
	}

	openSafeLibraries(L)
	e.installProxyMeta()
	e.installVim()

	L.SetGlobal("require", L.NewFunction(e.require))
	L.SetGlobal("os", e.rootProxy("os"))
	L.SetGlobal("io", e.rootProxy("io"))

	return e
}

// openSafeLibraries opens only the side-effect free standard libraries.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func (e *extractor) warn(format string, args ...any) {
	e.warnings = append(e.warnings, fmt.Sprintf(format, args...))
}

// doFile runs path with panic recovery.
func (e *extractor) doFile(path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return e.L.DoFile(path)
}

// loadModule runs path and returns its first result.
func (e *extractor) loadModule(path string) (lua.LValue, error) {
	fn, err := e.L.LoadFile(path)
	if err != nil {
		return lua.LNil, err
	}
	if err := e.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}); err != nil {
		return lua.LNil, err
	}
	ret := e.L.Get(-1)
	e.L.Pop(1)
	return ret, nil
}

// modulePath resolves a module name against the configuration's lua/ dir.
func (e *extractor) modulePath(name string) (string, bool) {
	base := filepath.Join(append([]string{e.root, "lua"}, strings.Split(name, ".")...)...)
	for _, candidate := range []string{base + ".lua", filepath.Join(base, "init.lua")} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// require loads user modules from disk and proxies everything else.
// A failing user module is reported and replaced by a proxy.
func (e *extractor) require(L *lua.LState) int {
	name := L.CheckString(1)

	if v, ok := e.loaded[name]; ok {
		L.Push(v)
		return 1
	}

	path, ok := e.modulePath(name)
	if !ok || e.loading[name] {
		v := e.rootProxy(name)
		e.loaded[name] = v
		L.Push(v)
		return 1
	}

	e.loading[name] = true
	v, err := e.loadModule(path)
	delete(e.loading, name)

	if err != nil {
		e.warn("module %s: %v", name, err)
		v = e.rootProxy(name)
	}
	if v == lua.LNil {
		v = lua.LTrue
	}
	e.loaded[name] = v
	L.Push(v)
	return 1
}

// probeCallbacks calls each recorded closure once and stores the proxy
// calls it made as the binding's rhs_name.
func (e *extractor) probeCallbacks(ctx context.Context, timeout time.Duration) {
	for _, cb := range e.pending {
		calls := e.probeOne(ctx, timeout, cb.fn)
		if len(calls) == 0 {
			continue
		}
		name := strings.Join(calls, "; ")
		for _, i := range cb.indexes {
			e.bindings[i].RHSName = name
		}
	}
}

func (e *extractor) probeOne(ctx context.Context, timeout time.Duration, fn *lua.LFunction) []string {
	var calls []string
	e.probe = &calls
	defer func() { e.probe = nil }()

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	e.L.SetContext(probeCtx)

	func() {
		defer func() {
			_ = recover()
		}()
		// Errors are expected: callbacks run without a real editor behind them.
		_ = e.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	}()
	e.L.SetTop(0)

	return calls
}
