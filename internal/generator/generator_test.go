package generator

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dshills/nvim-keymap-migrator/internal/keymap"
	"github.com/dshills/nvim-keymap-migrator/internal/registry"
)

// fakeLookup resolves intents from a fixed table.
type fakeLookup map[string]map[registry.Target]string

func (f fakeLookup) Lookup(intent string, target registry.Target) (string, bool) {
	cmd, ok := f[intent][target]
	return cmd, ok
}

var testLookup = fakeLookup{
	"navigation.find_files": {registry.TargetVSCode: "workbench.action.quickOpen", registry.TargetIntelliJ: "GotoFile"},
	"lsp.definition":        {registry.TargetVSCode: "editor.action.revealDefinition", registry.TargetIntelliJ: "GotoDeclaration"},
	"lsp.hover":             {registry.TargetVSCode: "editor.action.showHover", registry.TargetIntelliJ: "QuickJavaDoc"},
	"lsp.rename":            {registry.TargetVSCode: "editor.action.rename", registry.TargetIntelliJ: "RenameElement"},
	"git.blame":             {registry.TargetIntelliJ: "Annotate"},
}

func classified(mode, lhs, rhs, intent string) keymap.ClassifiedBinding {
	b := keymap.ClassifiedBinding{
		RawBinding: keymap.RawBinding{Mode: mode, LHS: lhs, RHS: rhs, Noremap: true},
		Intent:     intent,
		Confidence: keymap.ConfidenceLow,
		Category:   keymap.CategoryUnknown,
	}
	if intent != "" {
		b.Confidence = keymap.ConfidenceHigh
		b.Translatable = true
	}
	return b
}

func TestVimrc(t *testing.T) {
	bindings := []keymap.ClassifiedBinding{
		classified("n", "Y", "y$", ""),
		classified("i", "jk", "<Esc>", ""),
		classified("n", "<leader>ff", "<cmd>Telescope find_files<CR>", "navigation.find_files"),
		classified("n", "gd", keymap.LuaCallback, "lsp.definition"),
		classified("q", "x", "y", ""),
	}
	bindings[0].Silent = true
	bindings[1].Noremap = false

	got := Vimrc(bindings, VimrcOptions{Leader: " "})

	wantLines := []string{
		`let mapleader = "\<space>"`,
		"nnoremap <silent> Y y$",
		"imap jk <Esc>",
		`" nnoremap <leader>ff <cmd>Telescope find_files<CR>`,
		`" [n] gd -> <Lua function>`,
		`" [q] x -> y`,
	}
	for _, want := range wantLines {
		if !strings.Contains(got, want+"\n") {
			t.Errorf("Vimrc missing line %q\n%s", want, got)
		}
	}
}

func TestVimrcNoLeader(t *testing.T) {
	got := Vimrc(nil, VimrcOptions{})
	if strings.Contains(got, "mapleader") {
		t.Errorf("Vimrc without leader = %q, want no mapleader line", got)
	}
	if !strings.HasPrefix(got, "\"") {
		t.Errorf("Vimrc should start with a comment header, got %q", got)
	}
}

func TestVimrcEscaping(t *testing.T) {
	tests := []struct {
		name string
		raw  keymap.RawBinding
		want string
	}{
		{
			name: "bar in rhs",
			raw:  keymap.RawBinding{Mode: "n", LHS: "<leader>n", RHS: ":nohl|redraw<CR>", Noremap: true},
			want: "nnoremap <leader>n :nohl<Bar>redraw<CR>",
		},
		{
			name: "space in lhs",
			raw:  keymap.RawBinding{Mode: "n", LHS: " w", RHS: ":w<CR>", Noremap: true, Nowait: true},
			want: "nnoremap <nowait> <Space>w :w<CR>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vimrcLine(tt.raw); got != tt.want {
				t.Errorf("vimrcLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIdeaVim(t *testing.T) {
	bindings := []keymap.ClassifiedBinding{
		classified("n", "<leader>ff", "<cmd>Telescope find_files<CR>", "navigation.find_files"),
		classified("n", "<leader>ff", "<cmd>Telescope find_files<CR>", "navigation.find_files"),
		classified("n", "K", keymap.LuaCallback, "lsp.definition"),
		classified("c", "<C-g>", keymap.LuaCallback, "lsp.definition"),
		classified("n", "<leader>cs", keymap.LuaCallback, "lsp.document_symbol"),
		classified("n", "Y", "y$", ""),
	}

	art := IdeaVim(bindings, testLookup)

	var lines []string
	for _, m := range art.Mappings {
		lines = append(lines, m.String())
	}
	want := []string{
		"nmap <leader>ff <Action>(GotoFile)",
		"nmap K <Action>(GotoDeclaration)",
		"nmap grn <Action>(RenameElement)",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("IdeaVim mappings = %q, want %q", lines, want)
	}

	if art.DefaultsInjected != 1 {
		t.Errorf("DefaultsInjected = %d, want 1", art.DefaultsInjected)
	}

	if len(art.Manual) != 2 {
		t.Fatalf("len(Manual) = %d, want 2", len(art.Manual))
	}
	if art.Manual[0].Mode != "c" || art.Manual[1].Intent != "lsp.document_symbol" {
		t.Errorf("Manual = %+v", art.Manual)
	}

	script := art.Script()
	if !strings.Contains(script, "\" Editor defaults\nnmap grn <Action>(RenameElement)\n") {
		t.Errorf("Script() missing defaults section:\n%s", script)
	}
}

func TestVSCode(t *testing.T) {
	bindings := []keymap.ClassifiedBinding{
		classified("n", "<leader>ff", "<cmd>Telescope find_files<CR>", "navigation.find_files"),
		classified("n", "<leader>ff", "<cmd>Telescope find_files<CR>", "navigation.find_files"),
		classified("v", "gd", keymap.LuaCallback, "lsp.definition"),
		classified("o", "gd", keymap.LuaCallback, "lsp.definition"),
		classified("n", "<F5>", keymap.LuaCallback, "lsp.definition"),
		classified("n", "<leader>gb", "<cmd>Git blame<CR>", "git.blame"),
		classified("n", "K", keymap.LuaCallback, "lsp.hover"),
		classified("n", "Y", "y$", ""),
	}

	art := VSCode(bindings, testLookup)

	normal := art.Bindings[SectionNormal]
	wantNormal := []VSCodeBinding{
		{Before: []string{"<leader>", "f", "f"}, Commands: []string{"workbench.action.quickOpen"}, ManagedBy: ManagedByMarker},
		{Before: []string{"K"}, Commands: []string{"editor.action.showHover"}, ManagedBy: ManagedByMarker},
		{Before: []string{"g", "r", "n"}, Commands: []string{"editor.action.rename"}, ManagedBy: ManagedByMarker},
	}
	if !reflect.DeepEqual(normal, wantNormal) {
		t.Errorf("normal section = %+v, want %+v", normal, wantNormal)
	}

	visual := art.Bindings[SectionVisual]
	if len(visual) != 1 || visual[0].Commands[0] != "editor.action.revealDefinition" {
		t.Errorf("visual section = %+v", visual)
	}

	if art.DefaultsInjected != 1 {
		t.Errorf("DefaultsInjected = %d, want 1", art.DefaultsInjected)
	}

	reasons := make([]SkipReason, 0, len(art.Manual))
	for _, s := range art.Manual {
		reasons = append(reasons, s.Reason)
	}
	wantReasons := []SkipReason{SkipNoSection, SkipNotation, SkipNoCommand}
	if !reflect.DeepEqual(reasons, wantReasons) {
		t.Errorf("manual reasons = %v, want %v", reasons, wantReasons)
	}

	if art.Len() != 4 {
		t.Errorf("Len() = %d, want 4", art.Len())
	}
}

func TestVSCodeEveryEntryIsMarked(t *testing.T) {
	reg, err := registry.Load()
	if err != nil {
		t.Fatalf("registry.Load() error = %v", err)
	}

	art := VSCode(nil, reg)
	if art.DefaultsInjected == 0 {
		t.Fatal("expected defaults to be injected into an empty set")
	}
	for section, entries := range art.Bindings {
		for _, e := range entries {
			if e.ManagedBy != ManagedByMarker {
				t.Errorf("%s entry %v has ManagedBy %q", section, e.Before, e.ManagedBy)
			}
		}
	}
}

func TestDefaultsNeverOverrideUser(t *testing.T) {
	user := classified("n", "K", "<cmd>Man<CR>", "")

	art := VSCode([]keymap.ClassifiedBinding{user}, testLookup)
	for _, e := range art.Bindings[SectionNormal] {
		if reflect.DeepEqual(e.Before, []string{"K"}) {
			t.Errorf("default K was injected over a user binding: %+v", e)
		}
	}
}

func TestWithoutDefaults(t *testing.T) {
	bindings := []keymap.ClassifiedBinding{
		classified("n", "<leader>ff", "<cmd>Telescope find_files<CR>", "navigation.find_files"),
	}

	idea := IdeaVim(bindings, testLookup, WithoutDefaults())
	if idea.DefaultsInjected != 0 || len(idea.Mappings) != 1 {
		t.Errorf("IdeaVim without defaults = %+v", idea.Mappings)
	}

	vs := VSCode(bindings, testLookup, WithoutDefaults())
	if vs.DefaultsInjected != 0 || vs.Len() != 1 {
		t.Errorf("VSCode without defaults = %+v", vs.Bindings)
	}
}

func TestSectionForMode(t *testing.T) {
	tests := []struct {
		mode string
		want string
		ok   bool
	}{
		{"n", SectionNormal, true},
		{"v", SectionVisual, true},
		{"x", SectionVisual, true},
		{"s", SectionVisual, true},
		{"i", SectionInsert, true},
		{"o", "", false},
		{"t", "", false},
	}

	for _, tt := range tests {
		got, ok := SectionForMode(tt.mode)
		if got != tt.want || ok != tt.ok {
			t.Errorf("SectionForMode(%q) = %q, %v, want %q, %v", tt.mode, got, ok, tt.want, tt.ok)
		}
	}
}
