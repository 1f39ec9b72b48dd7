package extract

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// proxy stands in for any module or value the sandbox does not provide.
// Indexing a proxy yields a child proxy; calling it records the call.
type proxy struct {
	// name is the expression the proxy was reached by.
	name   string
	parent *proxy
	key    string
	// module is the require()d module the proxy descends from.
	module string
}

func (p *proxy) child(key string) *proxy {
	return &proxy{name: p.name + "." + key, parent: p, key: key, module: p.module}
}

// source returns a runtime-style rhs_source for a proxy passed directly as
// a mapping rhs: vim.lsp.buf.definition lives in vim/lsp/buf.lua, a
// required plugin module in <module>/init.lua.
func (p *proxy) source() string {
	if p.parent == nil {
		return ""
	}
	if strings.HasPrefix(p.name, "vim.") {
		return "@$VIMRUNTIME/lua/" + strings.ReplaceAll(p.parent.name, ".", "/") + ".lua"
	}
	if p.module != "" {
		return "@lua/" + strings.ReplaceAll(p.module, ".", "/") + "/init.lua"
	}
	return ""
}

// newProxy wraps p in userdata carrying the shared proxy metatable.
func (e *extractor) newProxy(p *proxy) *lua.LUserData {
	ud := e.L.NewUserData()
	ud.Value = p
	e.L.SetMetatable(ud, e.proxyMeta)
	return ud
}

// rootProxy returns a proxy for a module that is not loaded from disk.
func (e *extractor) rootProxy(name string) *lua.LUserData {
	return e.newProxy(&proxy{name: name, module: name})
}

func toProxy(v lua.LValue) (*proxy, bool) {
	ud, ok := v.(*lua.LUserData)
	if !ok {
		return nil, false
	}
	p, ok := ud.Value.(*proxy)
	return p, ok
}

// installProxyMeta builds the metatable shared by all proxies.
func (e *extractor) installProxyMeta() {
	L := e.L
	mt := L.NewTable()

	L.SetField(mt, "__index", L.NewFunction(func(L *lua.LState) int {
		p, _ := toProxy(L.Get(1))
		key := L.Get(2)
		name := lua.LVAsString(key)
		if name == "" {
			name = "[" + key.String() + "]"
		}
		L.Push(e.newProxy(p.child(name)))
		return 1
	}))

	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		return 0
	}))

	L.SetField(mt, "__call", L.NewFunction(func(L *lua.LState) int {
		p, _ := toProxy(L.Get(1))
		args := make([]lua.LValue, 0, L.GetTop()-1)
		for i := 2; i <= L.GetTop(); i++ {
			args = append(args, L.Get(i))
		}
		L.Push(e.callProxy(p, args))
		return 1
	}))

	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		p, _ := toProxy(L.Get(1))
		L.Push(lua.LString(p.name))
		return 1
	}))

	L.SetField(mt, "__concat", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(display(L.Get(1)) + display(L.Get(2))))
		return 1
	}))

	L.SetField(mt, "__len", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(0))
		return 1
	}))

	e.proxyMeta = mt
}

// callProxy records a proxy call and returns a proxy for its result.
func (e *extractor) callProxy(p *proxy, args []lua.LValue) *lua.LUserData {
	var sig string
	method := false
	if p.parent != nil && len(args) > 0 {
		if recv, ok := toProxy(args[0]); ok && recv == p.parent {
			method = true
		}
	}
	if method {
		sig = fmt.Sprintf("%s:%s(%s)", p.parent.name, p.key, renderArgs(args[1:]))
	} else {
		sig = fmt.Sprintf("%s(%s)", p.name, renderArgs(args))
	}

	e.observe(sig, p, method)
	e.intercept(p, args)

	return e.newProxy(&proxy{name: sig, module: p.module})
}

// observe appends sig to the active probe. A chained call replaces the
// call it was made on, so harpoon:list():select(1) is kept whole.
func (e *extractor) observe(sig string, p *proxy, method bool) {
	if e.probe == nil {
		return
	}
	calls := *e.probe
	if method && len(calls) > 0 && calls[len(calls)-1] == p.parent.name {
		calls = calls[:len(calls)-1]
	}
	*e.probe = append(calls, sig)
}

// intercept gives selected proxy calls real behavior.
func (e *extractor) intercept(p *proxy, args []lua.LValue) {
	switch p.name {
	case "lazy.setup":
		for _, arg := range args {
			e.collectLazy(arg, 0)
		}
	case "vim.cmd", "vim.api.nvim_command", "vim.api.nvim_exec", "vim.api.nvim_exec2":
		if len(args) > 0 {
			if text, ok := args[0].(lua.LString); ok {
				e.parseVimscript(string(text))
			}
		}
	}
}

func renderArgs(args []lua.LValue) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = renderValue(a)
	}
	return strings.Join(parts, ", ")
}

func renderValue(v lua.LValue) string {
	switch v := v.(type) {
	case lua.LString:
		return fmt.Sprintf("%q", string(v))
	case *lua.LTable:
		return "{...}"
	case *lua.LFunction:
		return "function"
	case *lua.LUserData:
		if p, ok := v.Value.(*proxy); ok {
			return p.name
		}
	}
	return v.String()
}

// display converts a value for string concatenation.
func display(v lua.LValue) string {
	if p, ok := toProxy(v); ok {
		return p.name
	}
	return lua.LVAsString(v)
}
