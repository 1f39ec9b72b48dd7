// Package report renders the outcome of a migration run.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/rivo/uniseg"
	"gopkg.in/yaml.v3"

	"github.com/dshills/nvim-keymap-migrator/internal/keymap"
	"github.com/dshills/nvim-keymap-migrator/internal/leader"
	"github.com/dshills/nvim-keymap-migrator/internal/pipeline"
)

// ListLimit caps each list in the text report.
const ListLimit = 20

// maxKeyWidth caps the lhs column so one long sequence does not push every
// arrow to the right.
const maxKeyWidth = 24

// ErrUnknownFormat indicates an unsupported report format.
var ErrUnknownFormat = errors.New("unknown report format")

// Format is a report encoding.
type Format string

// Report formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Item is one binding line in a report list.
type Item struct {
	Mode   string `json:"mode" yaml:"mode"`
	LHS    string `json:"lhs" yaml:"lhs"`
	Detail string `json:"detail" yaml:"detail"`
}

// Report is the summary of one run for one target.
type Report struct {
	Target     string `json:"target" yaml:"target"`
	ConfigPath string `json:"config_path" yaml:"config_path"`
	Leader     string `json:"leader" yaml:"leader"`

	Translated   []Item `json:"translated" yaml:"translated"`
	ManualPlugin []Item `json:"manual_plugin" yaml:"manual_plugin"`
	ManualOther  []Item `json:"manual_other" yaml:"manual_other"`
	Unsupported  []Item `json:"unsupported" yaml:"unsupported"`

	PureVim          int `json:"pure_vim" yaml:"pure_vim"`
	DefaultsInjected int `json:"defaults_injected" yaml:"defaults_injected"`
	Total            int `json:"total" yaml:"total"`

	Outputs  []string `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Actions  []string `json:"actions,omitempty" yaml:"actions,omitempty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// New builds a report from a pipeline result and the config descriptor.
func New(res *pipeline.Result, desc keymap.Descriptor) *Report {
	r := &Report{
		Target:     string(res.Target),
		ConfigPath: desc.ConfigPath,
		Leader:     leader.Display(desc.Leader),
		PureVim:    len(res.PureVim),
		Total:      len(res.All),
		Warnings:   append([]string(nil), desc.Warnings...),
	}

	for _, t := range res.Translated {
		r.Translated = append(r.Translated, Item{Mode: t.Mode, LHS: t.LHS, Detail: t.Command})
	}
	for _, b := range res.ManualPlugin {
		r.ManualPlugin = append(r.ManualPlugin, Item{Mode: b.Mode, LHS: b.LHS, Detail: b.Intent})
	}
	for _, b := range res.ManualOther {
		r.ManualOther = append(r.ManualOther, Item{Mode: b.Mode, LHS: b.LHS, Detail: b.Intent})
	}
	for _, b := range res.Unsupported {
		r.Unsupported = append(r.Unsupported, Item{Mode: b.Mode, LHS: b.LHS, Detail: rhsText(b.RawBinding)})
	}

	return r
}

func rhsText(b keymap.RawBinding) string {
	if b.IsCallback() && b.RHSName != "" {
		return b.RHSName
	}
	return b.RHS
}

// Demote moves a translated binding to manual review with a reason, for
// bindings a generator could not render.
func (r *Report) Demote(mode, lhs, reason string) {
	for i, it := range r.Translated {
		if it.Mode != mode || it.LHS != lhs {
			continue
		}
		r.Translated = append(r.Translated[:i], r.Translated[i+1:]...)
		r.ManualOther = append(r.ManualOther, Item{Mode: mode, LHS: lhs, Detail: it.Detail + " (" + reason + ")"})
		return
	}
}

// Manual returns the number of bindings needing manual review.
func (r *Report) Manual() int {
	return len(r.ManualPlugin) + len(r.ManualOther)
}

// Coverage is the translated share of all bindings, as a rounded percent.
func (r *Report) Coverage() int {
	if r.Total == 0 {
		return 0
	}
	return int(math.Round(float64(len(r.Translated)) / float64(r.Total) * 100))
}

// Write renders r to w in format.
func Write(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatText, "":
		_, err := io.WriteString(w, r.Text())
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(r.withCoverage())
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r.withCoverage()); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// encoded adds the derived coverage field to the structured formats.
type encoded struct {
	Report   `yaml:",inline"`
	Coverage int `json:"coverage" yaml:"coverage"`
}

func (r *Report) withCoverage() encoded {
	return encoded{Report: *r, Coverage: r.Coverage()}
}

// Text renders the human-readable report.
func (r *Report) Text() string {
	var b strings.Builder

	b.WriteString("=== nvim-keymap-migrator ===\n")
	fmt.Fprintf(&b, "Target: %s\n", orUnknown(r.Target))
	fmt.Fprintf(&b, "Config: %s\n", orUnknown(r.ConfigPath))
	fmt.Fprintf(&b, "Leader: %s\n", r.Leader)
	b.WriteByte('\n')

	fmt.Fprintf(&b, "Translated: %d\n", len(r.Translated))
	writeItems(&b, r.Translated, "  ")
	if r.DefaultsInjected > 0 {
		fmt.Fprintf(&b, "  (+%d editor defaults)\n", r.DefaultsInjected)
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "Manual intervention: %d\n", r.Manual())
	if len(r.ManualPlugin) > 0 {
		fmt.Fprintf(&b, "  Plugin: %d\n", len(r.ManualPlugin))
		writeItems(&b, r.ManualPlugin, "    ")
	}
	if len(r.ManualOther) > 0 {
		fmt.Fprintf(&b, "  Other: %d\n", len(r.ManualOther))
		writeItems(&b, r.ManualOther, "    ")
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "Pure Vim: %d\n", r.PureVim)
	b.WriteByte('\n')

	fmt.Fprintf(&b, "Unsupported: %d\n", len(r.Unsupported))
	writeItems(&b, r.Unsupported, "  ")
	b.WriteByte('\n')

	writeList(&b, "Output files:", r.Outputs)
	writeList(&b, "Changes:", r.Actions)
	writeList(&b, "Warnings:", r.Warnings)

	fmt.Fprintf(&b, "Coverage: %d%% (%d/%d)\n", r.Coverage(), len(r.Translated), r.Total)
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// writeItems writes up to ListLimit items with the arrows aligned by
// display width.
func writeItems(b *strings.Builder, items []Item, indent string) {
	shown := items
	if len(shown) > ListLimit {
		shown = shown[:ListLimit]
	}

	width := 0
	for _, it := range shown {
		if w := uniseg.StringWidth(it.LHS); w > width {
			width = w
		}
	}
	width = min(width, maxKeyWidth)

	for _, it := range shown {
		pad := max(width-uniseg.StringWidth(it.LHS), 0)
		fmt.Fprintf(b, "%s%s%s -> %s\n", indent, it.LHS, strings.Repeat(" ", pad), it.Detail)
	}
	if n := len(items) - ListLimit; n > 0 {
		fmt.Fprintf(b, "%s... and %d more\n", indent, n)
	}
}

func writeList(b *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	b.WriteString(title)
	b.WriteByte('\n')
	for _, l := range lines {
		fmt.Fprintf(b, "  %s\n", l)
	}
	b.WriteByte('\n')
}
