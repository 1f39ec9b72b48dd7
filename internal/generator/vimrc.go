package generator

import (
	"fmt"
	"strings"

	"github.com/dshills/nvim-keymap-migrator/internal/keymap"
	"github.com/dshills/nvim-keymap-migrator/internal/leader"
	"github.com/dshills/nvim-keymap-migrator/internal/pipeline"
)

// mapCommands holds the recursive and non-recursive map command per mode.
var mapCommands = map[string][2]string{
	"n": {"nmap", "nnoremap"},
	"i": {"imap", "inoremap"},
	"v": {"vmap", "vnoremap"},
	"x": {"xmap", "xnoremap"},
	"s": {"smap", "snoremap"},
	"o": {"omap", "onoremap"},
	"c": {"cmap", "cnoremap"},
	"t": {"tmap", "tnoremap"},
}

// VimrcOptions configures the shared script.
type VimrcOptions struct {
	// Leader is written as a let mapleader line when non-empty.
	Leader string
}

// Vimrc renders all bindings into a shared Vim script, one line per binding.
func Vimrc(bindings []keymap.ClassifiedBinding, opts VimrcOptions) string {
	var b strings.Builder

	b.WriteString("\" Shared Vim mappings generated by nvim-keymap-migrator.\n")
	b.WriteString("\" Regenerate instead of editing by hand.\n\n")

	if opts.Leader != "" {
		b.WriteString(leader.LetStatement(opts.Leader))
		b.WriteString("\n\n")
	}

	for _, binding := range bindings {
		b.WriteString(vimrcLine(binding.RawBinding))
		b.WriteByte('\n')
	}

	return b.String()
}

// vimrcLine renders one binding as a map directive, or as a comment when
// the binding cannot run in plain Vim.
func vimrcLine(raw keymap.RawBinding) string {
	directive, ok := mapDirective(raw)
	if !ok {
		return fmt.Sprintf("\" [%s] %s -> %s%s", raw.Mode, raw.LHS, raw.RHS, describe(raw.Desc))
	}
	if !pipeline.IsPureVim(raw) {
		return fmt.Sprintf("\" %s%s", directive, describe(raw.Desc))
	}
	return directive
}

// mapDirective renders raw as "nnoremap <silent> lhs rhs".
func mapDirective(raw keymap.RawBinding) (string, bool) {
	cmds, ok := mapCommands[raw.Mode]
	if !ok || raw.LHS == "" || raw.IsCallback() || raw.RHS == "" {
		return "", false
	}

	cmd := cmds[0]
	if raw.Noremap {
		cmd = cmds[1]
	}

	var args []string
	if raw.Buffer {
		args = append(args, "<buffer>")
	}
	if raw.Nowait {
		args = append(args, "<nowait>")
	}
	if raw.Silent {
		args = append(args, "<silent>")
	}
	if raw.Expr {
		args = append(args, "<expr>")
	}

	parts := append([]string{cmd}, args...)
	parts = append(parts, escapeLHS(raw.LHS), escapeRHS(raw.RHS))
	return strings.Join(parts, " "), true
}

func describe(desc string) string {
	if desc == "" {
		return ""
	}
	return " (" + desc + ")"
}

var (
	lhsEscaper = strings.NewReplacer(" ", "<Space>", "|", "<Bar>")
	rhsEscaper = strings.NewReplacer("|", "<Bar>", "\n", "<CR>")
)

func escapeLHS(lhs string) string {
	return lhsEscaper.Replace(lhs)
}

func escapeRHS(rhs string) string {
	return rhsEscaper.Replace(rhs)
}
