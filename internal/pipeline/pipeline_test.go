package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/nvim-keymap-migrator/internal/intent"
	"github.com/dshills/nvim-keymap-migrator/internal/keymap"
	"github.com/dshills/nvim-keymap-migrator/internal/registry"
)

func sampleBindings() []keymap.RawBinding {
	return []keymap.RawBinding{
		{Mode: "n", LHS: "<leader>ff", RHS: "<cmd>Telescope find_files<CR>", Noremap: true},
		{Mode: "n", LHS: "gd", RHS: keymap.LuaCallback, RHSName: "vim.lsp.buf.definition"},
		{Mode: "n", LHS: "<C-h>", RHS: keymap.LuaCallback, RHSName: "harpoon:list():select(1)"},
		{Mode: "n", LHS: "<leader>gb", RHS: "<cmd>Git blame<CR>"},
		{Mode: "n", LHS: "<leader>x", RHS: keymap.LuaCallback, RHSSource: "@/cfg/lua/custom.lua"},
		{Mode: "n", LHS: "Y", RHS: "y$", Noremap: true},
		{Mode: "i", LHS: "jk", RHS: "<Esc>", Noremap: true},
		{Mode: "n", LHS: "<leader>w", RHS: ":w<CR>", Noremap: true},
	}
}

func TestRunBuckets(t *testing.T) {
	reg, err := registry.Load()
	require.NoError(t, err)

	classified := intent.New(intent.WithAliases(reg)).ClassifyAll(sampleBindings())
	res := Run(classified, reg, registry.TargetVSCode)

	lhs := func(list []keymap.ClassifiedBinding) []string {
		out := make([]string, 0, len(list))
		for _, b := range list {
			out = append(out, b.LHS)
		}
		return out
	}

	translated := make([]string, 0, len(res.Translated))
	for _, tr := range res.Translated {
		translated = append(translated, tr.LHS)
	}

	assert.Equal(t, []string{"<leader>ff", "gd", "<leader>w"}, translated)
	assert.Equal(t, "workbench.action.quickOpen", res.Translated[0].Command)
	assert.Equal(t, []string{"<C-h>", "<leader>gb"}, lhs(res.Manual))
	assert.Equal(t, []string{"<C-h>"}, lhs(res.ManualPlugin))
	assert.Equal(t, []string{"<leader>gb"}, lhs(res.ManualOther))
	assert.Equal(t, []string{"<leader>x"}, lhs(res.Unsupported))
	assert.Equal(t, []string{"Y", "jk", "<leader>w"}, lhs(res.PureVim))

	counts := res.Counts()
	assert.Equal(t, Counts{Total: 8, Translated: 3, PureVim: 3, Manual: 2, Unsupported: 1}, counts)
	assert.Equal(t, 38, res.Coverage())
}

func TestRunIntelliJHasBlame(t *testing.T) {
	reg, err := registry.Load()
	require.NoError(t, err)

	classified := intent.New().ClassifyAll(sampleBindings())
	res := Run(classified, reg, registry.TargetIntelliJ)

	var found bool
	for _, tr := range res.Translated {
		if tr.LHS == "<leader>gb" {
			found = true
			assert.Equal(t, "Annotate", tr.Command)
		}
	}
	assert.True(t, found, "git blame should translate for intellij")
}

func TestRunEmpty(t *testing.T) {
	reg, err := registry.Load()
	require.NoError(t, err)

	res := Run(nil, reg, registry.TargetVSCode)
	assert.Equal(t, Counts{}, res.Counts())
	assert.Equal(t, 0, res.Coverage())
}

func TestIsPureVim(t *testing.T) {
	tests := []struct {
		name string
		b    keymap.RawBinding
		want bool
	}{
		{"literal keys", keymap.RawBinding{RHS: "y$"}, true},
		{"builtin ex command", keymap.RawBinding{RHS: ":nohlsearch<CR>"}, true},
		{"cmd builtin", keymap.RawBinding{RHS: "<cmd>bnext<CR>"}, true},
		{"user command", keymap.RawBinding{RHS: "<cmd>Telescope find_files<CR>"}, false},
		{"colon user command", keymap.RawBinding{RHS: ":Git<CR>"}, false},
		{"lua callback", keymap.RawBinding{RHS: keymap.LuaCallback}, false},
		{"lua command", keymap.RawBinding{RHS: "<cmd>lua vim.lsp.buf.hover()<CR>"}, false},
		{"v:lua", keymap.RawBinding{RHS: "v:lua.foo()"}, false},
		{"plug", keymap.RawBinding{RHS: "<Plug>(comment_toggle)"}, false},
		{"expr", keymap.RawBinding{RHS: "pumvisible() ? '<C-n>' : '<Tab>'", Expr: true}, false},
		{"buffer local", keymap.RawBinding{RHS: "dd", Buffer: true}, false},
		{"empty", keymap.RawBinding{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPureVim(tt.b))
		})
	}
}
