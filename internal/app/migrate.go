package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dshills/nvim-keymap-migrator/internal/config"
	"github.com/dshills/nvim-keymap-migrator/internal/extract"
	"github.com/dshills/nvim-keymap-migrator/internal/generator"
	"github.com/dshills/nvim-keymap-migrator/internal/intent"
	"github.com/dshills/nvim-keymap-migrator/internal/keymap"
	"github.com/dshills/nvim-keymap-migrator/internal/pipeline"
	"github.com/dshills/nvim-keymap-migrator/internal/registry"
	"github.com/dshills/nvim-keymap-migrator/internal/report"
)

// migration holds everything derived from the input for one target.
type migration struct {
	target     registry.Target
	descriptor keymap.Descriptor
	bindings   []keymap.ClassifiedBinding
	result     *pipeline.Result
	report     *report.Report

	vimrc   string
	ideavim *generator.IdeaVimArtifact
	vscode  *generator.VSCodeArtifact
}

// loadBindings reads the configured input: a Lua file or dump named by
// Input, or else the Neovim configuration directory.
func (app *Application) loadBindings(ctx context.Context) (*keymap.Dump, error) {
	log := app.logger.WithComponent("extract")

	var (
		dump *keymap.Dump
		err  error
	)
	switch input := app.cfg.Input; {
	case input != "" && strings.EqualFold(filepath.Ext(input), ".lua"):
		log.Debug("evaluating %s", input)
		dump, err = extract.File(ctx, input)
	case input != "":
		log.Debug("reading dump %s", input)
		dump, err = keymap.LoadFile(input)
		if err == nil && dump.Descriptor.ConfigPath == "" {
			dump.Descriptor.ConfigPath = input
		}
	default:
		root := app.cfg.NvimConfig
		if root == "" {
			root = app.paths.NvimConfig()
		}
		log.Debug("evaluating config %s", root)
		dump, err = extract.Config(ctx, root)
	}
	if err != nil {
		return nil, NewOperationError("load", "bindings", err)
	}
	if len(dump.Bindings) == 0 {
		return nil, NewOperationError("load", "bindings", ErrNoBindings)
	}

	for _, w := range dump.Descriptor.Warnings {
		log.Warn("%s", w)
	}
	log.Info("captured %d bindings", len(dump.Bindings))
	return dump, nil
}

// migrate runs the whole in-memory pipeline for target.
func (app *Application) migrate(ctx context.Context, target registry.Target) (*migration, error) {
	dump, err := app.loadBindings(ctx)
	if err != nil {
		return nil, err
	}

	desc := dump.Descriptor
	if app.cfg.Leader != "" {
		// Validate already accepted it.
		desc.Leader, _ = config.ParseLeader(app.cfg.Leader)
	}

	reg, err := registry.Load(registry.WithOverlay(app.cfg.Mappings))
	if err != nil {
		return nil, NewOperationError("load", "registry", err)
	}
	unmapped, uncovered := coverage(reg, target)
	regLog := app.logger.WithComponent("registry").WithField("target", target)
	regLog.Debug("loaded %d intents; %d classifier intents unmapped, %d without a command",
		reg.Len(), len(unmapped), len(uncovered))
	if len(unmapped) > 0 {
		regLog.Debug("unmapped: %s", strings.Join(unmapped, ", "))
	}

	classified := intent.New(intent.WithAliases(reg)).ClassifyAll(dump.Bindings)
	matched := 0
	for _, b := range classified {
		if b.HasIntent() {
			matched++
		}
	}
	app.logger.WithComponent("classifier").Debug("resolved intents for %d of %d bindings", matched, len(classified))
	res := pipeline.Run(classified, reg, target)

	counts := res.Counts()
	app.logger.WithComponent("pipeline").WithField("target", target).Debug(
		"translated %d, manual %d, unsupported %d, pure vim %d of %d",
		counts.Translated, counts.Manual, counts.Unsupported, counts.PureVim, counts.Total)

	m := &migration{
		target:     target,
		descriptor: desc,
		bindings:   classified,
		result:     res,
		report:     report.New(res, desc),
		vimrc:      generator.Vimrc(classified, generator.VimrcOptions{Leader: desc.Leader}),
	}

	var genOpts []generator.Option
	if !app.cfg.Defaults {
		genOpts = append(genOpts, generator.WithoutDefaults())
	}

	switch target {
	case registry.TargetVSCode:
		m.vscode = generator.VSCode(classified, reg, genOpts...)
		m.report.DefaultsInjected = m.vscode.DefaultsInjected
		for _, s := range m.vscode.Manual {
			// Missing commands are already manual in the pipeline result.
			if s.Reason != generator.SkipNoCommand {
				m.report.Demote(s.Binding.Mode, s.Binding.LHS, string(s.Reason))
			}
		}
	case registry.TargetIntelliJ:
		m.ideavim = generator.IdeaVim(classified, reg, genOpts...)
		m.report.DefaultsInjected = m.ideavim.DefaultsInjected
		for _, b := range m.ideavim.Manual {
			m.report.Demote(b.Mode, b.LHS, "mode not supported by IdeaVim")
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}

	return m, nil
}

// coverage lists classifier intents the registry does not define, and
// registry intents with no command for target.
func coverage(reg *registry.Registry, target registry.Target) (unmapped, uncovered []string) {
	for _, name := range intent.Catalogue() {
		if !reg.Has(name) {
			unmapped = append(unmapped, name)
		}
	}
	for _, name := range reg.Intents() {
		if _, ok := reg.Lookup(name, target); !ok {
			uncovered = append(uncovered, name)
		}
	}
	return unmapped, uncovered
}

// warn logs a non-fatal problem and adds it to the report.
func (app *Application) warn(m *migration, component, msg string) {
	app.logger.WithComponent(component).Warn("%s", msg)
	m.report.Warnings = append(m.report.Warnings, msg)
}
