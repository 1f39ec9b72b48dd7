package intent

import (
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/dshills/nvim-keymap-migrator/internal/keymap"
	"github.com/dshills/nvim-keymap-migrator/internal/registry"
)

func TestCommandTier(t *testing.T) {
	tests := []struct {
		rhs  string
		want string
	}{
		{"<cmd>Ex<CR>", "navigation.file_explorer"},
		{":Ex<CR>", "navigation.file_explorer"},
		{"<Cmd>Explore<CR>", "navigation.file_explorer"},
		{"<cmd>Git<CR>", "git.fugitive"},
		{"<cmd>G<CR>", "git.fugitive"},
		{"<cmd>Git push<CR>", "git.push"},
		{":Git pull --rebase<CR>", "git.pull"},
		{"<cmd>G blame<CR>", "git.blame"},
		{"<cmd>Git log<CR>", "git.fugitive"},
		{"<cmd>NvimTreeToggle<CR>", "plugin.nvim_tree"},
		{"<cmd>Telescope find_files<CR>", "navigation.find_files"},
		{"<cmd>Telescope live_grep theme=ivy<CR>", "navigation.live_grep"},
		{"<cmd>w<CR>", "editing.save"},
		{"<cmd>Telescope<CR>", ""},
		{"<cmd>Telescope nonsense<CR>", ""},
		{"<cmd>lua print(1)<CR>", ""},
		{"dd", ""},
		{keymap.LuaCallback, ""},
	}

	tier := commandTier{}
	for _, tt := range tests {
		t.Run(tt.rhs, func(t *testing.T) {
			got := tier.Match(keymap.RawBinding{Mode: "n", LHS: "x", RHS: tt.rhs})
			if got != tt.want {
				t.Errorf("Match(%q) = %q, want %q", tt.rhs, got, tt.want)
			}
		})
	}
}

func TestSourceTier(t *testing.T) {
	tier := sourceTier{describe: &descriptionTier{}}
	tests := []struct {
		name    string
		binding keymap.RawBinding
		want    string
	}{
		{
			name:    "harpoon lhs",
			binding: keymap.RawBinding{LHS: "<C-j>", RHS: keymap.LuaCallback, RHSSource: "@/home/me/.config/nvim/lua/core/plugins/harpoon.lua"},
			want:    "harpoon.select_2",
		},
		{
			name:    "harpoon unknown lhs",
			binding: keymap.RawBinding{LHS: "<C-x>", RHS: keymap.LuaCallback, RHSSource: "@/cfg/lua/core/plugins/harpoon.lua", Desc: "Find files"},
			want:    "",
		},
		{
			name:    "core keymaps lhs",
			binding: keymap.RawBinding{LHS: "<leader>gp", RHS: keymap.LuaCallback, RHSSource: "@/cfg/lua/core/keymaps.lua"},
			want:    "git.push",
		},
		{
			name:    "core keymaps falls back to desc",
			binding: keymap.RawBinding{LHS: "<leader>zz", RHS: keymap.LuaCallback, RHSSource: "@/cfg/lua/CORE/keymaps.lua", Desc: "Recent files"},
			want:    "navigation.recent_files",
		},
		{
			name:    "lsp buf by name",
			binding: keymap.RawBinding{LHS: "gd", RHS: keymap.LuaCallback, RHSSource: "@/usr/share/nvim/runtime/lua/vim/lsp/buf.lua", RHSName: "definition"},
			want:    "lsp.definition",
		},
		{
			name:    "lsp buf format lhs",
			binding: keymap.RawBinding{LHS: "<leader>f", RHS: keymap.LuaCallback, RHSSource: "@/runtime/lua/vim/lsp/buf.lua"},
			want:    "lsp.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tier.Match(tt.binding); got != tt.want {
				t.Errorf("Match() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPatternTier(t *testing.T) {
	tests := []struct {
		name    string
		binding keymap.RawBinding
		want    string
	}{
		{"lsp in rhs", keymap.RawBinding{RHS: "<cmd>lua vim.lsp.buf.hover()<CR>"}, "lsp.hover"},
		{"type definition not definition", keymap.RawBinding{RHSName: "vim.lsp.buf.type_definition"}, "lsp.type_definition"},
		{"diagnostic", keymap.RawBinding{RHSName: "vim.diagnostic.goto_next"}, "lsp.diagnostic_next"},
		{"git bare", keymap.RawBinding{RHSName: "vim.cmd.Git"}, "git.fugitive"},
		{"git push", keymap.RawBinding{RHSName: `vim.cmd.Git("push")`}, "git.push"},
		{"git status upper", keymap.RawBinding{RHSName: `vim.cmd.Git("STATUS")`}, "git.status"},
		{"telescope", keymap.RawBinding{RHSName: "telescope.builtin.find_files"}, "navigation.find_files"},
		{"telescope fuzzy", keymap.RawBinding{RHSName: "telescope.builtin.current_buffer_fuzzy_find"}, "navigation.buffer_search"},
		{"harpoon select", keymap.RawBinding{RHSName: "harpoon:list():select(3)"}, "harpoon.select_3"},
		{"harpoon menu", keymap.RawBinding{RHSName: "harpoon.ui:toggle_quick_menu(harpoon:list())"}, "harpoon.menu"},
		{"todo", keymap.RawBinding{RHSName: "todo-comments.jump_next()"}, "todo.next"},
		{"pattern in desc", keymap.RawBinding{Desc: "wraps telescope.builtin.oldfiles"}, "navigation.recent_files"},
		{"nothing", keymap.RawBinding{RHS: "ggVG"}, ""},
	}

	tier := patternTier{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tier.Match(tt.binding); got != tt.want {
				t.Errorf("Match() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSourceTierConfidence(t *testing.T) {
	b := keymap.RawBinding{LHS: "<leader>zz", RHS: keymap.LuaCallback, RHSSource: "@/cfg/lua/core/keymaps.lua", Desc: "Recent files"}
	res := New().Classify(b)
	if res.Tier != TierSource || res.Confidence != keymap.ConfidenceHigh {
		t.Errorf("Classify() = %s, want source tier with high confidence", spew.Sdump(res))
	}

	// A harpoon callback with an unknown lhs falls through to later tiers.
	b = keymap.RawBinding{LHS: "<C-x>", RHS: keymap.LuaCallback, RHSSource: "@/cfg/lua/core/plugins/harpoon.lua", Desc: "Find files"}
	res = New().Classify(b)
	if res.Tier != TierDescription || res.Intent != "navigation.find_files" {
		t.Errorf("Classify() = %s, want description-tier find_files", spew.Sdump(res))
	}
}

func TestDescriptionTier(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"Find Files", "navigation.find_files"},
		{"  go   to definition ", "lsp.definition"},
		{"Quick fix", "lsp.code_action"},
		{"[F]ind [F]iles", ""},
		{"Telescope: find file", "navigation.find_files"},
		{"Search buffer", "navigation.buffer_search"},
		{"Grep (root dir)", "navigation.live_grep"},
		{"Next todo comment", "todo.next"},
		{"Show hover", "lsp.hover"},
		{"hover docs please", ""},
		{"Format document", "editing.format"},
		{"", ""},
	}

	tier := &descriptionTier{}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := tier.Match(keymap.RawBinding{Desc: tt.desc}); got != tt.want {
				t.Errorf("Match(%q) = %q, want %q", tt.desc, got, tt.want)
			}
		})
	}
}

func TestDescriptionTierRegistryAliases(t *testing.T) {
	reg, err := registry.Load()
	if err != nil {
		t.Fatalf("registry.Load failed: %v", err)
	}

	c := New(WithAliases(reg))
	res := c.Classify(keymap.RawBinding{Desc: "Toggle Comment"})
	if res.Intent != "editing.comment_line" || res.Confidence != keymap.ConfidenceMedium {
		t.Errorf("Classify() = %s", spew.Sdump(res))
	}

	if New().Classify(keymap.RawBinding{Desc: "Toggle Comment"}).Intent != "" {
		t.Error("classifier without registry aliases should not resolve registry-only labels")
	}
}

func TestClassifyPrecedence(t *testing.T) {
	c := New()

	// Command wrapper beats a conflicting description.
	b := keymap.RawBinding{Mode: "n", LHS: "<leader>gp", RHS: "<cmd>Git push<CR>", Desc: "Find files"}
	res := c.Classify(b)
	if res.Intent != "git.push" || res.Tier != TierCommand {
		t.Errorf("Classify() = %s, want git.push from command tier", spew.Sdump(res))
	}

	// Pattern beats description.
	b = keymap.RawBinding{RHS: keymap.LuaCallback, RHSName: "telescope.builtin.live_grep", Desc: "Recent files"}
	res = c.Classify(b)
	if res.Intent != "navigation.live_grep" || res.Tier != TierPattern {
		t.Errorf("Classify() = %s, want live_grep from pattern tier", spew.Sdump(res))
	}
}

func TestClassifyNoMatch(t *testing.T) {
	res := New().Classify(keymap.RawBinding{Mode: "n", LHS: "Y", RHS: "y$"})
	if res.Intent != "" || res.Confidence != keymap.ConfidenceLow || res.Category != keymap.CategoryUnknown || res.Translatable() {
		t.Errorf("Classify() = %s, want empty low/unknown", spew.Sdump(res))
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		intent  string
		binding keymap.RawBinding
		want    keymap.Category
	}{
		{"harpoon.add", keymap.RawBinding{}, keymap.CategoryPlugin},
		{"todo.next", keymap.RawBinding{}, keymap.CategoryPlugin},
		{"plugin.nvim_tree", keymap.RawBinding{}, keymap.CategoryPlugin},
		{"lsp.hover", keymap.RawBinding{}, keymap.CategoryLSP},
		{"git.push", keymap.RawBinding{}, keymap.CategoryGit},
		{"navigation.find_files", keymap.RawBinding{}, keymap.CategoryNavigation},
		{"navigation.diagnostics", keymap.RawBinding{Desc: "Search TODO"}, keymap.CategoryPlugin},
		{"navigation.diagnostics", keymap.RawBinding{RHSSource: "@/lazy/todo-comments.nvim/lua/x.lua"}, keymap.CategoryPlugin},
		{"editing.format", keymap.RawBinding{}, keymap.CategoryEditing},
		{"weird.thing", keymap.RawBinding{}, keymap.CategoryUnknown},
		{"", keymap.RawBinding{}, keymap.CategoryUnknown},
	}

	for _, tt := range tests {
		if got := Categorize(tt.intent, tt.binding); got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.intent, got, tt.want)
		}
	}
}

func TestPatternTierIsCategorized(t *testing.T) {
	res := New().Classify(keymap.RawBinding{RHSName: "vim.lsp.buf.rename"})
	if res.Category != keymap.CategoryLSP {
		t.Errorf("Category = %q, want lsp", res.Category)
	}
}

func TestClassifyAllPreservesOrderAndInvariants(t *testing.T) {
	input := []keymap.RawBinding{
		{Mode: "n", LHS: "<leader>ff", RHS: "<cmd>Telescope find_files<CR>"},
		{Mode: "n", LHS: "Y", RHS: "y$"},
		{Mode: "v", LHS: "<leader>y", RHS: `"+y`},
		{Mode: "n", LHS: "gd", RHS: keymap.LuaCallback, RHSName: "vim.lsp.buf.definition"},
		{Mode: "n", LHS: "<leader>?", RHS: keymap.LuaCallback, Desc: "Keymaps"},
		{Mode: "n", LHS: "Y", RHS: "y$"},
	}

	out := New().ClassifyAll(input)
	if len(out) != len(input) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(input))
	}

	for i, c := range out {
		if c.RawBinding != input[i] {
			t.Errorf("out[%d] raw = %+v, want %+v", i, c.RawBinding, input[i])
		}
		if c.Translatable != c.HasIntent() {
			t.Errorf("out[%d] translatable=%v but intent=%q", i, c.Translatable, c.Intent)
		}
		if (c.Confidence == keymap.ConfidenceLow) != (c.Intent == "") {
			t.Errorf("out[%d] confidence=%q intent=%q", i, c.Confidence, c.Intent)
		}
	}
}

func TestCatalogueIsClosed(t *testing.T) {
	catalogue := Catalogue()
	known := make(map[string]bool, len(catalogue))
	for _, intent := range catalogue {
		if !strings.Contains(intent, ".") {
			t.Errorf("catalogue intent %q is not namespaced", intent)
		}
		known[intent] = true
	}

	samples := []keymap.RawBinding{
		{RHS: "<cmd>Git commit<CR>"},
		{RHSName: "harpoon:list():prev()"},
		{Desc: "Command history"},
		{LHS: "]t", RHS: keymap.LuaCallback, RHSSource: "@/x/core/keymaps.lua"},
	}
	c := New()
	for _, b := range samples {
		res := c.Classify(b)
		if res.Intent == "" || !known[res.Intent] {
			t.Errorf("Classify(%+v) = %q, not in catalogue", b, res.Intent)
		}
	}
}
