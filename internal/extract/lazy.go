package extract

import (
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// maxSpecDepth bounds recursion through nested lazy.nvim spec lists.
const maxSpecDepth = 8

// collectLazy walks a lazy.nvim spec: a plugin spec, a list of specs, an
// import, or a module name to import.
func (e *extractor) collectLazy(v lua.LValue, depth int) {
	if depth > maxSpecDepth {
		return
	}

	switch spec := v.(type) {
	case lua.LString:
		e.importSpecs(string(spec), depth)
	case *lua.LTable:
		if imp, ok := spec.RawGetString("import").(lua.LString); ok {
			e.importSpecs(string(imp), depth)
			return
		}
		if nested := spec.RawGetString("spec"); nested != lua.LNil {
			e.collectLazy(nested, depth+1)
		}
		if name, ok := spec.RawGetInt(1).(lua.LString); ok {
			e.pluginSpec(string(name), spec, depth)
			return
		}
		for i := 1; i <= spec.Len(); i++ {
			e.collectLazy(spec.RawGetInt(i), depth+1)
		}
	}
}

// importSpecs loads every spec module under lua/<module>.
func (e *extractor) importSpecs(module string, depth int) {
	var paths []string
	if path, ok := e.modulePath(module); ok {
		paths = append(paths, path)
	}

	dir := filepath.Join(append([]string{e.root, "lua"}, strings.Split(module, ".")...)...)
	matches, _ := filepath.Glob(filepath.Join(dir, "*.lua"))
	sort.Strings(matches)
	for _, m := range matches {
		if filepath.Base(m) != "init.lua" {
			paths = append(paths, m)
		}
	}

	for _, path := range paths {
		v, err := e.loadModule(path)
		if err != nil {
			e.warn("plugin spec %s: %v", path, err)
			continue
		}
		e.collectLazy(v, depth+1)
	}
}

// pluginSpec captures a plugin's keys and runs its init and config hooks.
func (e *extractor) pluginSpec(name string, spec *lua.LTable, depth int) {
	plugin := e.rootProxy(name)

	keys := spec.RawGetString("keys")
	if fn, ok := keys.(*lua.LFunction); ok {
		keys = e.callHook(name, "keys", fn, plugin)
	}
	if list, ok := keys.(*lua.LTable); ok {
		for i := 1; i <= list.Len(); i++ {
			if key, ok := list.RawGetInt(i).(*lua.LTable); ok {
				e.lazyKey(key)
			}
		}
	}

	if deps := spec.RawGetString("dependencies"); deps != lua.LNil {
		e.collectLazy(deps, depth+1)
	}

	opts := spec.RawGetString("opts")
	for _, hook := range []string{"init", "config"} {
		if fn, ok := spec.RawGetString(hook).(*lua.LFunction); ok {
			e.callHook(name, hook, fn, plugin, opts)
		}
	}
}

// lazyKey records one entry of a spec's keys list. Entries without an rhs
// only trigger lazy loading and are skipped.
func (e *extractor) lazyKey(key *lua.LTable) {
	lhs := key.RawGetInt(1)
	rhs := key.RawGetInt(2)
	if rhs == lua.LNil {
		return
	}

	mode := key.RawGetString("mode")
	if mode == lua.LNil {
		mode = lua.LString("n")
	}
	e.record(mode, lhs, rhs, key, mapOptions{noremap: true})
}

// callHook calls a spec hook in protected mode and returns its first
// result. Failures become warnings.
func (e *extractor) callHook(plugin, hook string, fn *lua.LFunction, args ...lua.LValue) lua.LValue {
	if err := e.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		e.warn("plugin %s %s: %v", plugin, hook, err)
		return lua.LNil
	}
	ret := e.L.Get(-1)
	e.L.Pop(1)
	return ret
}
