package generator

import (
	"fmt"

	"github.com/dshills/nvim-keymap-migrator/internal/keymap"
	"github.com/dshills/nvim-keymap-migrator/internal/notation"
	"github.com/dshills/nvim-keymap-migrator/internal/pipeline"
	"github.com/dshills/nvim-keymap-migrator/internal/registry"
)

// ManagedByMarker is the ownership value stamped on every generated entry.
const ManagedByMarker = "nvim-keymap-migrator"

// ManagedByField is the JSON field that carries ManagedByMarker.
const ManagedByField = "_managedBy"

// VSCodeVim keybinding sections.
const (
	SectionNormal = "vim.normalModeKeyBindings"
	SectionVisual = "vim.visualModeKeyBindings"
	SectionInsert = "vim.insertModeKeyBindings"
)

// Sections lists the keybinding sections in write order.
func Sections() []string {
	return []string{SectionNormal, SectionVisual, SectionInsert}
}

// modeSections maps Vim modes to VSCodeVim sections.
var modeSections = map[string]string{
	"n": SectionNormal,
	"v": SectionVisual,
	"x": SectionVisual,
	"s": SectionVisual,
	"i": SectionInsert,
}

// SectionForMode returns the section for a Vim mode.
func SectionForMode(mode string) (string, bool) {
	s, ok := modeSections[mode]
	return s, ok
}

// VSCodeBinding is one VSCodeVim keybinding entry.
type VSCodeBinding struct {
	Before    []string `json:"before"`
	Commands  []string `json:"commands"`
	ManagedBy string   `json:"_managedBy"`
}

// SkipReason explains why a binding went to manual review.
type SkipReason string

// Skip reasons.
const (
	SkipNoCommand SkipReason = "no command for target"
	SkipNotation  SkipReason = "key notation not translatable"
	SkipNoSection SkipReason = "mode has no keybinding section"
)

// Skipped is a binding the generator could not render.
type Skipped struct {
	Binding keymap.ClassifiedBinding
	Reason  SkipReason
	Detail  string
}

func (s Skipped) String() string {
	if s.Detail == "" {
		return fmt.Sprintf("[%s] %s: %s", s.Binding.Mode, s.Binding.LHS, s.Reason)
	}
	return fmt.Sprintf("[%s] %s: %s (%s)", s.Binding.Mode, s.Binding.LHS, s.Reason, s.Detail)
}

// VSCodeArtifact holds the generated keybinding sections.
type VSCodeArtifact struct {
	Bindings         map[string][]VSCodeBinding
	Manual           []Skipped
	DefaultsInjected int
}

// Len returns the number of generated entries across all sections.
func (a *VSCodeArtifact) Len() int {
	n := 0
	for _, entries := range a.Bindings {
		n += len(entries)
	}
	return n
}

// VSCode builds VSCodeVim keybinding sections from bindings with a
// resolved intent, followed by any defaults the user does not override.
func VSCode(bindings []keymap.ClassifiedBinding, reg pipeline.Lookup, opts ...Option) *VSCodeArtifact {
	art := &VSCodeArtifact{Bindings: make(map[string][]VSCodeBinding)}
	seen := make(map[string]struct{})

	add := func(b keymap.ClassifiedBinding, isDefault bool) bool {
		if !b.HasIntent() {
			return false
		}
		skip := func(reason SkipReason, detail string) bool {
			if !isDefault {
				art.Manual = append(art.Manual, Skipped{Binding: b, Reason: reason, Detail: detail})
			}
			return false
		}

		cmd, ok := reg.Lookup(b.Intent, registry.TargetVSCode)
		if !ok {
			return skip(SkipNoCommand, b.Intent)
		}
		section, ok := SectionForMode(b.Mode)
		if !ok {
			return skip(SkipNoSection, b.Mode)
		}
		tokens, err := notation.Translate(b.LHS)
		if err != nil {
			return skip(SkipNotation, err.Error())
		}

		key := section + "\x00" + notation.Join(tokens) + "\x00" + cmd
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}

		art.Bindings[section] = append(art.Bindings[section], VSCodeBinding{
			Before:    tokens,
			Commands:  []string{cmd},
			ManagedBy: ManagedByMarker,
		})
		return true
	}

	for _, b := range bindings {
		add(b, false)
	}

	art.DefaultsInjected = injectDefaults(bindings, applyOptions(opts), add)

	return art
}
