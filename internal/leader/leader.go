// Package leader converts an abstract mapleader value into the literal
// syntax of each target dialect.
package leader

import (
	"fmt"
	"strings"
)

// VSCode formats leader for the "vim.leader" setting.
func VSCode(leader string) string {
	var b strings.Builder
	for _, r := range leader {
		switch r {
		case ' ':
			b.WriteString("<space>")
		case '\t':
			b.WriteString("<tab>")
		case '\n', '\r':
			b.WriteString("<cr>")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// VimScript formats leader for use inside a double-quoted Vim string,
// as in: let mapleader = "<result>".
func VimScript(leader string) string {
	var b strings.Builder
	for _, r := range leader {
		switch r {
		case ' ':
			b.WriteString(`\<space>`)
		case '\t':
			b.WriteString(`\<tab>`)
		case '\n', '\r':
			b.WriteString(`\<cr>`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '<':
			b.WriteString(`\<`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LetStatement renders the Vim script line that sets mapleader.
func LetStatement(leader string) string {
	return `let mapleader = "` + VimScript(leader) + `"`
}

// Display renders leader for humans; "" is shown as <none>.
func Display(leader string) string {
	if leader == "" {
		return "<none>"
	}

	var b strings.Builder
	for _, r := range leader {
		switch {
		case r == ' ':
			b.WriteString("<space>")
		case r == '\t':
			b.WriteString("<Tab>")
		case r == '\n':
			b.WriteString("<NL>")
		case r == '\r':
			b.WriteString("<CR>")
		case r == 0x1b:
			b.WriteString("<Esc>")
		case r < 0x20:
			fmt.Fprintf(&b, "<0x%02x>", r)
		case r == '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
