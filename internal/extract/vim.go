package extract

import (
	"regexp"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/nvim-keymap-migrator/internal/keymap"
)

// installVim sets up the stub vim global. Real tables back the parts whose
// effects are captured; every other field falls back to a proxy.
func (e *extractor) installVim() {
	L := e.L
	vimRoot := &proxy{name: "vim"}

	vim := L.NewTable()
	e.fallback(vim, vimRoot)

	e.vimG = L.NewTable()
	L.SetField(vim, "g", e.vimG)

	km := L.NewTable()
	L.SetField(km, "set", L.NewFunction(e.keymapSet))
	L.SetField(km, "del", L.NewFunction(func(*lua.LState) int { return 0 }))
	L.SetField(vim, "keymap", km)

	api := L.NewTable()
	e.fallback(api, vimRoot.child("api"))
	L.SetField(api, "nvim_set_keymap", L.NewFunction(e.nvimSetKeymap))
	L.SetField(api, "nvim_buf_set_keymap", L.NewFunction(e.nvimBufSetKeymap))
	L.SetField(vim, "api", api)

	L.SetField(vim, "tbl_extend", L.NewFunction(tblExtend))
	L.SetField(vim, "tbl_deep_extend", L.NewFunction(tblExtend))
	L.SetField(vim, "inspect", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(display(L.Get(1))))
		return 1
	}))
	noop := L.NewFunction(func(*lua.LState) int { return 0 })
	L.SetField(vim, "notify", noop)
	L.SetField(vim, "print", noop)

	L.SetGlobal("vim", vim)
}

// fallback makes missing fields of tbl resolve to children of p.
func (e *extractor) fallback(tbl *lua.LTable, p *proxy) {
	L := e.L
	mt := L.NewTable()
	L.SetField(mt, "__index", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(2)
		L.Push(e.newProxy(p.child(key)))
		return 1
	}))
	L.SetMetatable(tbl, mt)
}

// tblExtend merges the tables after the behavior argument, later wins.
func tblExtend(L *lua.LState) int {
	out := L.NewTable()
	for i := 2; i <= L.GetTop(); i++ {
		if t, ok := L.Get(i).(*lua.LTable); ok {
			t.ForEach(func(k, v lua.LValue) {
				out.RawSet(k, v)
			})
		}
	}
	L.Push(out)
	return 1
}

// keymapSet implements vim.keymap.set(mode, lhs, rhs, opts).
func (e *extractor) keymapSet(L *lua.LState) int {
	opts, _ := L.Get(4).(*lua.LTable)
	e.record(L.Get(1), L.Get(2), L.Get(3), opts, mapOptions{noremap: true})
	return 0
}

// nvimSetKeymap implements vim.api.nvim_set_keymap(mode, lhs, rhs, opts).
func (e *extractor) nvimSetKeymap(L *lua.LState) int {
	opts, _ := L.Get(4).(*lua.LTable)
	e.record(L.Get(1), L.Get(2), L.Get(3), opts, mapOptions{})
	return 0
}

// nvimBufSetKeymap implements vim.api.nvim_buf_set_keymap(buf, mode, lhs, rhs, opts).
func (e *extractor) nvimBufSetKeymap(L *lua.LState) int {
	opts, _ := L.Get(5).(*lua.LTable)
	e.record(L.Get(2), L.Get(3), L.Get(4), opts, mapOptions{buffer: true})
	return 0
}

// mapOptions are the per-API defaults before opts are applied.
type mapOptions struct {
	noremap bool
	buffer  bool
}

// record appends one binding per mode.
func (e *extractor) record(modeArg, lhsArg, rhs lua.LValue, opts *lua.LTable, defaults mapOptions) {
	if e.probe != nil {
		return
	}
	e.leaderFromG()

	lhs, ok := lhsArg.(lua.LString)
	if !ok || lhs == "" {
		e.warn("keymap with invalid lhs %s ignored", lhsArg.String())
		return
	}

	base := keymap.RawBinding{
		LHS:     string(lhs),
		Noremap: defaults.noremap,
		Buffer:  defaults.buffer,
	}
	if opts != nil {
		base.Desc = lua.LVAsString(opts.RawGetString("desc"))
		base.Silent = lua.LVAsBool(opts.RawGetString("silent"))
		base.Nowait = lua.LVAsBool(opts.RawGetString("nowait"))
		base.Expr = lua.LVAsBool(opts.RawGetString("expr"))
		if v := opts.RawGetString("buffer"); v != lua.LNil && v != lua.LFalse {
			base.Buffer = true
		}
		if v := opts.RawGetString("noremap"); v != lua.LNil {
			base.Noremap = lua.LVAsBool(v)
		}
		if v := opts.RawGetString("remap"); v != lua.LNil {
			base.Noremap = !lua.LVAsBool(v)
		}
		if cb := opts.RawGetString("callback"); cb != lua.LNil && isEmptyRHS(rhs) {
			rhs = cb
		}
	}

	var fn *lua.LFunction
	switch v := rhs.(type) {
	case lua.LString:
		base.RHS = string(v)
	case *lua.LFunction:
		base.RHS = keymap.LuaCallback
		if v.Proto != nil {
			base.RHSSource = "@" + v.Proto.SourceName
		}
		fn = v
	case *lua.LUserData:
		p, ok := v.Value.(*proxy)
		if !ok {
			e.warn("keymap %s: unsupported rhs", base.LHS)
			return
		}
		base.RHS = keymap.LuaCallback
		base.RHSName = p.name
		base.RHSSource = p.source()
	default:
		e.warn("keymap %s: unsupported rhs type %s", base.LHS, rhs.Type())
		return
	}

	modes := modeList(modeArg)
	indexes := make([]int, 0, len(modes))
	for _, mode := range modes {
		b := base
		b.Mode = mode
		indexes = append(indexes, len(e.bindings))
		e.bindings = append(e.bindings, b)
	}
	if fn != nil && len(indexes) > 0 {
		e.pending = append(e.pending, pendingCallback{fn: fn, indexes: indexes})
	}
}

func isEmptyRHS(v lua.LValue) bool {
	s, ok := v.(lua.LString)
	return v == lua.LNil || (ok && s == "")
}

// modeList expands a mode argument: a string, a list of strings, or nil.
func modeList(v lua.LValue) []string {
	var raw []string
	switch v := v.(type) {
	case lua.LString:
		raw = []string{string(v)}
	case *lua.LTable:
		v.ForEach(func(_, m lua.LValue) {
			if s, ok := m.(lua.LString); ok {
				raw = append(raw, string(s))
			}
		})
	default:
		raw = []string{keymap.DefaultMode}
	}

	var modes []string
	for _, m := range raw {
		modes = append(modes, expandMode(m)...)
	}
	return modes
}

// expandMode maps the multi-mode shorthands to their single modes.
func expandMode(m string) []string {
	switch m {
	case "":
		return []string{"n", "v", "o"}
	case "!":
		return []string{"i", "c"}
	case "l":
		return []string{"i", "c"}
	}
	return []string{m}
}

// leaderFromG reads vim.g.mapleader. Called on every mapping so the leader
// in effect when the first mapping is set is the one reported.
func (e *extractor) leaderFromG() {
	if e.leader != "" {
		return
	}
	if s, ok := e.vimG.RawGetString("mapleader").(lua.LString); ok {
		e.leader = string(s)
	}
}

var (
	mapCommand = regexp.MustCompile(`^([nvxsoilct]?)(nore)?map(!?)$`)
	mapArg     = regexp.MustCompile(`(?i)^<(silent|buffer|nowait|expr|unique|script|special)>`)
)

// parseVimscript records map commands found in Vim script text.
func (e *extractor) parseVimscript(text string) {
	if e.probe != nil {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		if b, modes, ok := parseMapLine(line); ok {
			for _, mode := range modes {
				b.Mode = mode
				e.bindings = append(e.bindings, b)
			}
		}
	}
}

// parseMapLine parses "nnoremap <silent> lhs rhs".
func parseMapLine(line string) (keymap.RawBinding, []string, bool) {
	line = strings.TrimSpace(line)
	cmd, rest, ok := strings.Cut(line, " ")
	if !ok {
		return keymap.RawBinding{}, nil, false
	}
	m := mapCommand.FindStringSubmatch(cmd)
	if m == nil {
		return keymap.RawBinding{}, nil, false
	}

	b := keymap.RawBinding{Noremap: m[2] != ""}
	rest = strings.TrimSpace(rest)
	for {
		arg := mapArg.FindStringSubmatch(rest)
		if arg == nil {
			break
		}
		switch strings.ToLower(arg[1]) {
		case "silent":
			b.Silent = true
		case "buffer":
			b.Buffer = true
		case "nowait":
			b.Nowait = true
		case "expr":
			b.Expr = true
		}
		rest = strings.TrimSpace(rest[len(arg[0]):])
	}

	lhs, rhs, ok := strings.Cut(rest, " ")
	if !ok || lhs == "" {
		return keymap.RawBinding{}, nil, false
	}
	b.LHS = lhs
	b.RHS = strings.TrimSpace(rhs)

	mode := m[1]
	if m[3] == "!" {
		mode = "!"
	}
	return b, expandMode(mode), true
}
