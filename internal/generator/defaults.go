package generator

import "github.com/dshills/nvim-keymap-migrator/internal/keymap"

// Default is a built-in binding offered to IDE targets.
type Default struct {
	Mode        string
	LHS         string
	Intent      string
	Description string
}

// Defaults returns Neovim's default LSP and comment bindings.
func Defaults() []Default {
	return []Default{
		{Mode: "n", LHS: "K", Intent: "lsp.hover", Description: "Hover documentation"},
		{Mode: "n", LHS: "grn", Intent: "lsp.rename", Description: "Rename symbol"},
		{Mode: "n", LHS: "gra", Intent: "lsp.code_action", Description: "Code action"},
		{Mode: "x", LHS: "gra", Intent: "lsp.code_action", Description: "Code action"},
		{Mode: "n", LHS: "grr", Intent: "lsp.references", Description: "References"},
		{Mode: "n", LHS: "gri", Intent: "lsp.implementation", Description: "Implementation"},
		{Mode: "n", LHS: "gO", Intent: "lsp.document_symbol", Description: "Document symbols"},
		{Mode: "i", LHS: "<C-s>", Intent: "lsp.signature_help", Description: "Signature help"},
		{Mode: "n", LHS: "]d", Intent: "lsp.diagnostic_next", Description: "Next diagnostic"},
		{Mode: "n", LHS: "[d", Intent: "lsp.diagnostic_prev", Description: "Previous diagnostic"},
		{Mode: "n", LHS: "gcc", Intent: "editing.comment_line", Description: "Toggle comment"},
	}
}

// Option configures the IDE generators.
type Option func(*options)

type options struct {
	defaults bool
}

// WithoutDefaults disables default binding injection.
func WithoutDefaults() Option {
	return func(o *options) {
		o.defaults = false
	}
}

func applyOptions(opts []Option) options {
	o := options{defaults: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// injectDefaults offers each default the user does not already bind to add
// and returns how many were accepted.
func injectDefaults(bindings []keymap.ClassifiedBinding, o options, add func(keymap.ClassifiedBinding, bool) bool) int {
	if !o.defaults {
		return 0
	}
	user := userKeys(bindings)
	n := 0
	for _, d := range Defaults() {
		def := d.binding()
		if _, taken := user[def.Key()]; taken {
			continue
		}
		if add(def, true) {
			n++
		}
	}
	return n
}

// userKeys indexes the (mode, lhs) pairs the user already binds.
func userKeys(bindings []keymap.ClassifiedBinding) map[string]struct{} {
	keys := make(map[string]struct{}, len(bindings))
	for _, b := range bindings {
		keys[b.Key()] = struct{}{}
	}
	return keys
}

// binding converts a default into a classified binding.
func (d Default) binding() keymap.ClassifiedBinding {
	return keymap.ClassifiedBinding{
		RawBinding: keymap.RawBinding{
			Mode:    d.Mode,
			LHS:     d.LHS,
			Desc:    d.Description,
			Noremap: true,
		},
		Intent:       d.Intent,
		Confidence:   keymap.ConfidenceHigh,
		Translatable: true,
	}
}
