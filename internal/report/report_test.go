package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/dshills/nvim-keymap-migrator/internal/keymap"
	"github.com/dshills/nvim-keymap-migrator/internal/pipeline"
	"github.com/dshills/nvim-keymap-migrator/internal/registry"
)

func binding(lhs, rhs, intent string, category keymap.Category) keymap.ClassifiedBinding {
	return keymap.ClassifiedBinding{
		RawBinding: keymap.RawBinding{Mode: "n", LHS: lhs, RHS: rhs},
		Intent:     intent,
		Category:   category,
	}
}

func testResult() *pipeline.Result {
	ff := binding("<leader>ff", "<cmd>Telescope find_files<CR>", "navigation.find_files", keymap.CategoryNavigation)
	gd := binding("gd", keymap.LuaCallback, "lsp.definition", keymap.CategoryLSP)
	ha := binding("<leader>ha", keymap.LuaCallback, "harpoon.add", keymap.CategoryPlugin)
	bl := binding("<leader>gb", "<cmd>Git blame<CR>", "git.blame", keymap.CategoryGit)
	x := binding("<leader>x", keymap.LuaCallback, "", keymap.CategoryUnknown)
	x.RHSName = "require('trouble').toggle"
	y := binding("Y", "y$", "", keymap.CategoryUnknown)

	return &pipeline.Result{
		Target: registry.TargetVSCode,
		All:    []keymap.ClassifiedBinding{ff, gd, ha, bl, x, y},
		Translated: []pipeline.Translation{
			{ClassifiedBinding: ff, Command: "workbench.action.quickOpen"},
			{ClassifiedBinding: gd, Command: "editor.action.revealDefinition"},
		},
		Manual:       []keymap.ClassifiedBinding{ha, bl},
		ManualPlugin: []keymap.ClassifiedBinding{ha},
		ManualOther:  []keymap.ClassifiedBinding{bl},
		Unsupported:  []keymap.ClassifiedBinding{x},
		PureVim:      []keymap.ClassifiedBinding{y},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"", FormatText, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestText(t *testing.T) {
	r := New(testResult(), keymap.Descriptor{Leader: " ", ConfigPath: "/home/u/.config/nvim", Warnings: []string{"module broken: syntax error"}})
	r.Outputs = []string{"/home/u/.config/nvim-keymap-migrator/.vimrc"}
	r.DefaultsInjected = 3

	got := r.Text()

	wantLines := []string{
		"=== nvim-keymap-migrator ===",
		"Target: vscode",
		"Config: /home/u/.config/nvim",
		"Leader: <space>",
		"Translated: 2",
		"  <leader>ff -> workbench.action.quickOpen",
		"  gd         -> editor.action.revealDefinition",
		"  (+3 editor defaults)",
		"Manual intervention: 2",
		"  Plugin: 1",
		"    <leader>ha -> harpoon.add",
		"  Other: 1",
		"    <leader>gb -> git.blame",
		"Pure Vim: 1",
		"Unsupported: 1",
		"  <leader>x -> require('trouble').toggle",
		"Output files:",
		"Warnings:",
		"  module broken: syntax error",
		"Coverage: 33% (2/6)",
	}
	for _, want := range wantLines {
		if !strings.Contains(got, want+"\n") {
			t.Errorf("Text() missing %q\n%s", want, got)
		}
	}
}

func TestTextListLimit(t *testing.T) {
	res := &pipeline.Result{Target: registry.TargetIntelliJ}
	for i := 0; i < ListLimit+5; i++ {
		b := binding(fmt.Sprintf("<leader>%d", i), "x", "", keymap.CategoryUnknown)
		res.All = append(res.All, b)
		res.Unsupported = append(res.Unsupported, b)
	}

	got := New(res, keymap.Descriptor{}).Text()
	if !strings.Contains(got, "  ... and 5 more\n") {
		t.Errorf("Text() missing overflow line\n%s", got)
	}
	if strings.Contains(got, fmt.Sprintf("<leader>%d ", ListLimit)) {
		t.Errorf("Text() shows more than %d items", ListLimit)
	}
	if !strings.Contains(got, "Leader: <none>\n") {
		t.Errorf("Text() should show an unset leader as <none>\n%s", got)
	}
	if !strings.Contains(got, "Coverage: 0% (0/25)\n") {
		t.Errorf("Text() coverage line wrong\n%s", got)
	}
}

func TestDemote(t *testing.T) {
	r := New(testResult(), keymap.Descriptor{})
	r.Demote("n", "gd", "key notation not translatable")
	r.Demote("n", "missing", "ignored")

	if len(r.Translated) != 1 || r.Translated[0].LHS != "<leader>ff" {
		t.Errorf("Translated = %+v", r.Translated)
	}
	last := r.ManualOther[len(r.ManualOther)-1]
	if last.LHS != "gd" || last.Detail != "editor.action.revealDefinition (key notation not translatable)" {
		t.Errorf("demoted item = %+v", last)
	}
	if r.Coverage() != 17 {
		t.Errorf("Coverage() = %d, want 17", r.Coverage())
	}
}

func TestWriteJSON(t *testing.T) {
	r := New(testResult(), keymap.Descriptor{Leader: "\\"})

	var buf bytes.Buffer
	if err := Write(&buf, r, FormatJSON); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if decoded["coverage"] != float64(33) {
		t.Errorf("coverage = %v, want 33", decoded["coverage"])
	}
	if decoded["leader"] != `\\` {
		t.Errorf("leader = %v", decoded["leader"])
	}
	if !strings.Contains(buf.String(), `"<leader>ff"`) {
		t.Errorf("JSON output should not HTML-escape keys:\n%s", buf.String())
	}
}

func TestWriteYAML(t *testing.T) {
	r := New(testResult(), keymap.Descriptor{})

	var buf bytes.Buffer
	if err := Write(&buf, r, FormatYAML); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var decoded struct {
		Target     string `yaml:"target"`
		Coverage   int    `yaml:"coverage"`
		Translated []Item `yaml:"translated"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if decoded.Target != "vscode" || decoded.Coverage != 33 || len(decoded.Translated) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, &Report{}, "xml"); err == nil {
		t.Error("Write() with unknown format should fail")
	}
}
