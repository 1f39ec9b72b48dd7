package app

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dshills/nvim-keymap-migrator/internal/integrate"
	"github.com/dshills/nvim-keymap-migrator/internal/leader"
	"github.com/dshills/nvim-keymap-migrator/internal/namespace"
	"github.com/dshills/nvim-keymap-migrator/internal/registry"
)

// UninstallResult reports what Uninstall reverted.
type UninstallResult struct {
	// Previous is the install metadata found, or nil.
	Previous *namespace.Metadata

	// IdeaVim and VSCode are nil for a target that was not uninstalled.
	IdeaVim *integrate.TextResult
	VSCode  *integrate.SettingsResult

	// Remaining lists targets still installed after a partial uninstall.
	Remaining []string

	// SharedKept is true when the vimrc and metadata were left in place
	// for targets that may still load them.
	SharedKept bool

	// DirRemoved is false when the namespace directory still holds files
	// this tool did not write, such as config.toml.
	DirRemoved bool
	Dir        string

	Warnings []string

	now time.Time
}

// Uninstall reverts the given targets, or every target when none is
// given, whatever was installed. Settings scalars are removed only when
// the metadata records that an install set them. The shared namespace
// files are removed once no target remains installed.
func (app *Application) Uninstall(ctx context.Context, targets ...registry.Target) (*UninstallResult, error) {
	partial := len(targets) > 0
	if !partial {
		targets = registry.Targets()
	}

	res := &UninstallResult{Dir: app.paths.Dir(), now: app.now()}
	log := app.logger.WithComponent("integrate")

	meta, err := app.store.Load()
	if errors.Is(err, namespace.ErrCorruptMetadata) {
		res.warn(app.logger, fmt.Sprintf("ignoring unreadable install metadata; no settings scalars will be removed: %v", err))
		meta, err = nil, nil
	}
	if err != nil {
		return nil, NewOperationError("uninstall", "", err)
	}
	if meta != nil {
		prev := *meta
		prev.Targets = slices.Clone(meta.Targets)
		prev.Counts = maps.Clone(meta.Counts)
		res.Previous = &prev
	}

	for _, target := range targets {
		switch target {
		case registry.TargetIntelliJ:
			text, err := integrate.UninstallText(ctx, app.fs, app.paths.IdeaVimrc())
			if err != nil {
				return nil, NewOperationError("uninstall", app.paths.IdeaVimrc(), err)
			}
			res.IdeaVim = &text
			log.Info("%s: block %s", app.paths.IdeaVimrc(), text.Action)
			if err := app.store.RemoveIntelliJ(); err != nil {
				return nil, NewOperationError("uninstall", app.paths.IntelliJ(), err)
			}
		case registry.TargetVSCode:
			res.VSCode, err = integrate.UninstallSettings(ctx, app.fs, app.paths.VSCodeSettings(), ownedScalars(meta))
			if err != nil {
				return nil, NewOperationError("uninstall", app.paths.VSCodeSettings(), err)
			}
			for _, w := range res.VSCode.Warnings {
				res.warn(app.logger, w)
			}
			log.Info("%s: %s", app.paths.VSCodeSettings(), res.VSCode.Action)
			if meta != nil {
				meta.LeaderSet, meta.LeaderValue = false, ""
				meta.VimrcPathSet, meta.VimrcPath = false, ""
				meta.VimrcEnableSet = false
			}
		}
		if meta != nil {
			meta.RemoveTarget(string(target))
		}
	}

	switch {
	case meta != nil && len(meta.Targets) > 0:
		res.Remaining = meta.Targets
		res.SharedKept = true
		if err := app.store.Save(meta); err != nil {
			return nil, NewOperationError("uninstall", app.paths.Metadata(), err)
		}
		return res, nil
	case meta == nil && partial:
		// Without metadata the other target may still need the vimrc.
		res.SharedKept = true
		return res, nil
	}

	for _, remove := range []func() error{app.store.RemoveVimrc, app.store.Remove} {
		if err := remove(); err != nil {
			return nil, NewOperationError("uninstall", app.paths.Dir(), err)
		}
	}
	res.DirRemoved = app.store.RemoveDir()

	return res, nil
}

// ownedScalars lists the settings an earlier install wrote, with the
// values it wrote.
func ownedScalars(meta *namespace.Metadata) []integrate.Scalar {
	if meta == nil {
		return nil
	}

	var scalars []integrate.Scalar
	if meta.LeaderSet {
		scalars = append(scalars, integrate.Scalar{Key: integrate.KeyLeader, Value: writtenLeader(meta)})
	}
	if meta.VimrcPathSet {
		scalars = append(scalars, integrate.Scalar{Key: integrate.KeyVimrcPath, Value: meta.VimrcPath})
	}
	if meta.VimrcEnableSet {
		scalars = append(scalars, integrate.Scalar{Key: integrate.KeyVimrcEnable, Value: true})
	}
	return scalars
}

func (r *UninstallResult) warn(logger *Logger, msg string) {
	logger.WithComponent("integrate").Warn("%s", msg)
	r.Warnings = append(r.Warnings, msg)
}

// Text renders the result for the terminal.
func (r *UninstallResult) Text() string {
	var b strings.Builder

	b.WriteString("=== nvim-keymap-migrator uninstall ===\n")

	switch {
	case r.IdeaVim == nil:
	case r.IdeaVim.Action == integrate.ActionRemoved:
		fmt.Fprintf(&b, "IdeaVim: bootstrap block removed from %s\n", r.IdeaVim.Path)
	default:
		b.WriteString("IdeaVim: no bootstrap block found\n")
	}

	switch {
	case r.VSCode == nil:
	case r.VSCode.Action == integrate.ActionRemoved:
		removed := 0
		for _, n := range r.VSCode.Managed {
			removed += n
		}
		fmt.Fprintf(&b, "VS Code: %d keybinding(s) removed from %s\n", removed, r.VSCode.Path)
		for _, key := range []string{integrate.KeyLeader, integrate.KeyVimrcPath, integrate.KeyVimrcEnable} {
			if r.VSCode.Scalars[key] == integrate.ScalarRemoved {
				fmt.Fprintf(&b, "  %s removed\n", key)
			}
		}
	default:
		b.WriteString("VS Code: no managed keybindings found\n")
	}

	switch {
	case len(r.Remaining) > 0:
		fmt.Fprintf(&b, "Shared files kept in %s; still installed: %s\n", r.Dir, strings.Join(r.Remaining, ", "))
	case r.SharedKept:
		fmt.Fprintf(&b, "Shared files kept in %s\n", r.Dir)
	case r.DirRemoved:
		fmt.Fprintf(&b, "Namespace directory removed: %s\n", r.Dir)
	default:
		fmt.Fprintf(&b, "Namespace files removed; %s kept for remaining files\n", r.Dir)
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "  %s\n", w)
		}
	}

	if m := r.Previous; m != nil {
		b.WriteString("\nPrevious install info:\n")
		fmt.Fprintf(&b, "  Created: %s (%s)\n",
			m.CreatedAt.Format(time.RFC3339), humanize.RelTime(m.CreatedAt, r.now, "ago", "from now"))
		fmt.Fprintf(&b, "  Leader: %s\n", leader.Display(m.Leader))
		if len(m.Targets) > 0 {
			fmt.Fprintf(&b, "  Targets: %s\n", strings.Join(m.Targets, ", "))
		}
	}

	return b.String()
}
