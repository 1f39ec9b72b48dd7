// Package pipeline routes classified bindings for one target into
// translated, manual-review and unsupported buckets.
package pipeline

import (
	"math"
	"regexp"
	"strings"

	"github.com/dshills/nvim-keymap-migrator/internal/keymap"
	"github.com/dshills/nvim-keymap-migrator/internal/registry"
)

// Translation is a binding with its resolved target command.
type Translation struct {
	keymap.ClassifiedBinding
	Command string `json:"command" yaml:"command"`
}

// Result holds the bucketed bindings for one target.
//
// Pure-Vim bindings are listed separately and never counted as manual
// or unsupported; they are still eligible for Translated.
type Result struct {
	Target registry.Target

	All          []keymap.ClassifiedBinding
	Translated   []Translation
	Manual       []keymap.ClassifiedBinding
	ManualPlugin []keymap.ClassifiedBinding
	ManualOther  []keymap.ClassifiedBinding
	Unsupported  []keymap.ClassifiedBinding
	PureVim      []keymap.ClassifiedBinding
}

// Counts summarizes a Result.
type Counts struct {
	Total       int `json:"total" yaml:"total"`
	Translated  int `json:"translated" yaml:"translated"`
	PureVim     int `json:"pure_vim" yaml:"pure_vim"`
	Manual      int `json:"manual" yaml:"manual"`
	Unsupported int `json:"unsupported" yaml:"unsupported"`
}

// Lookup resolves commands; *registry.Registry implements it.
type Lookup interface {
	Lookup(intent string, target registry.Target) (string, bool)
}

// Run buckets bindings for target.
func Run(bindings []keymap.ClassifiedBinding, reg Lookup, target registry.Target) *Result {
	res := &Result{
		Target: target,
		All:    bindings,
	}

	for _, b := range bindings {
		pure := IsPureVim(b.RawBinding)
		if pure {
			res.PureVim = append(res.PureVim, b)
		}

		if !b.HasIntent() {
			if !pure {
				res.Unsupported = append(res.Unsupported, b)
			}
			continue
		}

		cmd, ok := reg.Lookup(b.Intent, target)
		if !ok {
			if !pure {
				res.Manual = append(res.Manual, b)
				if b.Category == keymap.CategoryPlugin {
					res.ManualPlugin = append(res.ManualPlugin, b)
				} else {
					res.ManualOther = append(res.ManualOther, b)
				}
			}
			continue
		}

		res.Translated = append(res.Translated, Translation{ClassifiedBinding: b, Command: cmd})
	}

	return res
}

// Counts returns the bucket sizes.
func (r *Result) Counts() Counts {
	return Counts{
		Total:       len(r.All),
		Translated:  len(r.Translated),
		PureVim:     len(r.PureVim),
		Manual:      len(r.Manual),
		Unsupported: len(r.Unsupported),
	}
}

// Coverage is the translated share of all bindings, as a rounded percent.
func (r *Result) Coverage() int {
	if len(r.All) == 0 {
		return 0
	}
	return int(math.Round(float64(len(r.Translated)) / float64(len(r.All)) * 100))
}

var (
	luaReference = regexp.MustCompile(`(?i)\blua\b|v:lua|luaeval`)
	// Vim requires user-defined commands to start with an upper-case letter.
	userCommand = regexp.MustCompile(`(?i:<cmd>|:)\s*[A-Z]`)
)

// IsPureVim reports whether a binding can be expressed in plain Vim script
// without any Neovim plugin, Lua runtime or IDE involvement.
func IsPureVim(b keymap.RawBinding) bool {
	if b.IsCallback() || b.Expr || b.Buffer {
		return false
	}
	rhs := strings.TrimSpace(b.RHS)
	if rhs == "" {
		return false
	}
	if strings.Contains(strings.ToLower(rhs), "<plug>") {
		return false
	}
	if luaReference.MatchString(rhs) {
		return false
	}
	return !userCommand.MatchString(rhs)
}
