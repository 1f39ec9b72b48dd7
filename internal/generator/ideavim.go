package generator

import (
	"fmt"
	"strings"

	"github.com/dshills/nvim-keymap-migrator/internal/keymap"
	"github.com/dshills/nvim-keymap-migrator/internal/pipeline"
	"github.com/dshills/nvim-keymap-migrator/internal/registry"
)

// ideaVimModes are the modes IdeaVim accepts an <Action>() mapping in.
var ideaVimModes = map[string]string{
	"n": "nmap",
	"v": "vmap",
	"x": "xmap",
	"s": "smap",
	"o": "omap",
	"i": "imap",
}

// IdeaVimMapping is one rendered <Action>() line.
type IdeaVimMapping struct {
	Mode    string
	LHS     string
	Action  string
	Default bool
}

// String renders the mapping as an IdeaVim directive.
func (m IdeaVimMapping) String() string {
	return fmt.Sprintf("%s %s <Action>(%s)", ideaVimModes[m.Mode], escapeLHS(m.LHS), m.Action)
}

// IdeaVimArtifact is the generated intellij.rc content.
type IdeaVimArtifact struct {
	Mappings []IdeaVimMapping

	// Manual lists bindings with a resolved intent that could not be
	// rendered, either for lack of an action id or an unsupported mode.
	Manual []keymap.ClassifiedBinding

	DefaultsInjected int
}

// IdeaVim renders bindings with a resolved intent as IdeaVim actions.
func IdeaVim(bindings []keymap.ClassifiedBinding, reg pipeline.Lookup, opts ...Option) *IdeaVimArtifact {
	art := &IdeaVimArtifact{}
	seen := make(map[string]struct{})

	add := func(b keymap.ClassifiedBinding, isDefault bool) bool {
		if !b.HasIntent() {
			return false
		}
		action, ok := reg.Lookup(b.Intent, registry.TargetIntelliJ)
		if !ok {
			if !isDefault {
				art.Manual = append(art.Manual, b)
			}
			return false
		}
		if _, ok := ideaVimModes[b.Mode]; !ok {
			if !isDefault {
				art.Manual = append(art.Manual, b)
			}
			return false
		}

		key := b.Mode + "\x00" + b.LHS + "\x00" + action
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}

		art.Mappings = append(art.Mappings, IdeaVimMapping{
			Mode:    b.Mode,
			LHS:     b.LHS,
			Action:  action,
			Default: isDefault,
		})
		return true
	}

	for _, b := range bindings {
		add(b, false)
	}

	art.DefaultsInjected = injectDefaults(bindings, applyOptions(opts), add)

	return art
}

// Script renders the artifact as IdeaVim script text.
func (a *IdeaVimArtifact) Script() string {
	var b strings.Builder

	b.WriteString("\" IdeaVim actions generated by nvim-keymap-migrator.\n")
	b.WriteString("\" Regenerate instead of editing by hand.\n")

	wroteDefaults := false
	if len(a.Mappings) > 0 {
		b.WriteByte('\n')
	}
	for _, m := range a.Mappings {
		if m.Default && !wroteDefaults {
			b.WriteString("\n\" Editor defaults\n")
			wroteDefaults = true
		}
		b.WriteString(m.String())
		b.WriteByte('\n')
	}

	return b.String()
}
