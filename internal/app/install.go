package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/nvim-keymap-migrator/internal/integrate"
	"github.com/dshills/nvim-keymap-migrator/internal/leader"
	"github.com/dshills/nvim-keymap-migrator/internal/namespace"
	"github.com/dshills/nvim-keymap-migrator/internal/pipeline"
	"github.com/dshills/nvim-keymap-migrator/internal/registry"
	"github.com/dshills/nvim-keymap-migrator/internal/report"
)

// Install writes the namespace files for target and integrates them into
// the editor's configuration, then records what was done.
//
// Files already written stay in place if a later step fails.
func (app *Application) Install(ctx context.Context, target registry.Target) (*report.Report, error) {
	m, err := app.migrate(ctx, target)
	if err != nil {
		return nil, err
	}

	meta, err := app.store.Load()
	if errors.Is(err, namespace.ErrCorruptMetadata) {
		app.warn(m, "namespace", fmt.Sprintf("ignoring unreadable install metadata: %v", err))
		meta, err = nil, nil
	}
	if err != nil {
		return nil, NewOperationError("install", string(target), err)
	}
	if meta == nil {
		meta = &namespace.Metadata{}
	}

	if err := app.store.WriteVimrc(m.vimrc); err != nil {
		return nil, NewOperationError("install", string(target), err)
	}
	m.report.Outputs = append(m.report.Outputs, app.paths.Vimrc())
	app.logger.WithComponent("namespace").Info("wrote %s", app.paths.Vimrc())

	switch target {
	case registry.TargetVSCode:
		err = app.installVSCode(ctx, m, meta)
	case registry.TargetIntelliJ:
		err = app.installIntelliJ(ctx, m)
	}
	if err != nil {
		return nil, NewOperationError("install", string(target), err)
	}

	if m.descriptor.Leader != "" {
		meta.Leader = m.descriptor.Leader
	}
	meta.ConfigPath = m.descriptor.ConfigPath
	meta.AddTarget(string(target))
	if meta.Counts == nil {
		meta.Counts = make(map[string]pipeline.Counts)
	}
	meta.Counts[string(target)] = m.result.Counts()

	if err := app.store.Save(meta); err != nil {
		return nil, NewOperationError("install", string(target), err)
	}
	m.report.Outputs = append(m.report.Outputs, app.paths.Metadata())

	return m.report, nil
}

func (app *Application) installVSCode(ctx context.Context, m *migration, meta *namespace.Metadata) error {
	vimrc := app.paths.Vimrc()
	scalars := []integrate.Scalar{
		{Key: integrate.KeyVimrcPath, Value: vimrc},
		{Key: integrate.KeyVimrcEnable, Value: true},
	}
	if m.descriptor.Leader != "" {
		scalars = append([]integrate.Scalar{{Key: integrate.KeyLeader, Value: leader.VSCode(m.descriptor.Leader)}}, scalars...)
	}

	path := app.paths.VSCodeSettings()
	res, err := integrate.InstallSettings(ctx, app.fs, path, m.vscode, scalars)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		app.warn(m, "integrate", w)
	}

	var value any
	meta.LeaderSet, value = owned(meta.LeaderSet, writtenLeader(meta), res, integrate.KeyLeader)
	meta.LeaderValue, _ = value.(string)
	meta.VimrcPathSet, value = owned(meta.VimrcPathSet, meta.VimrcPath, res, integrate.KeyVimrcPath)
	meta.VimrcPath, _ = value.(string)
	meta.VimrcEnableSet, _ = owned(meta.VimrcEnableSet, true, res, integrate.KeyVimrcEnable)

	managed := 0
	for _, n := range res.Managed {
		managed += n
	}
	m.report.Outputs = append(m.report.Outputs, path)
	m.report.Actions = append(m.report.Actions,
		fmt.Sprintf("%s: %s (%d managed bindings, %d user bindings kept)", path, res.Action, managed, res.UserEntries))

	keys := make([]string, 0, len(res.Scalars))
	for k := range res.Scalars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.report.Actions = append(m.report.Actions, fmt.Sprintf("%s: %s", k, res.Scalars[k]))
	}

	app.logger.WithComponent("integrate").Info("%s %s", res.Action, path)
	return nil
}

// owned decides whether a scalar stays ours after an install, and returns
// the value uninstall must find to remove it. A scalar is ours when this
// run wrote it, or when an earlier install did and the file still holds
// what was recorded. A scalar this run did not handle keeps its earlier
// ownership and value.
func owned(before bool, recorded any, res *integrate.SettingsResult, key string) (bool, any) {
	state, handled := res.Scalars[key]
	if !handled {
		return before, recorded
	}

	current := res.Values[key]
	switch state {
	case integrate.ScalarSet:
		return true, current
	case integrate.ScalarPresent:
		if before {
			return true, current
		}
	case integrate.ScalarConflict:
		if before && current == recorded {
			return true, recorded
		}
	}
	return false, recorded
}

// writtenLeader is the vim.leader value an earlier install recorded.
func writtenLeader(meta *namespace.Metadata) string {
	if meta.LeaderValue == "" && meta.Leader != "" {
		return leader.VSCode(meta.Leader)
	}
	return meta.LeaderValue
}

func (app *Application) installIntelliJ(ctx context.Context, m *migration) error {
	if err := app.store.WriteIntelliJ(m.ideavim.Script()); err != nil {
		return err
	}
	m.report.Outputs = append(m.report.Outputs, app.paths.IntelliJ())

	path := app.paths.IdeaVimrc()
	res, err := integrate.InstallText(ctx, app.fs, path, bootstrap(m.descriptor.Leader, app.paths))
	if err != nil {
		return err
	}
	if res.Action == integrate.ActionUpdated {
		app.warn(m, "integrate", fmt.Sprintf("replaced the existing managed block in %s", path))
	}

	m.report.Outputs = append(m.report.Outputs, path)
	m.report.Actions = append(m.report.Actions, fmt.Sprintf("%s: block %s", path, res.Action))
	app.logger.WithComponent("integrate").Info("%s block in %s", res.Action, path)
	return nil
}

// bootstrap is the managed block body that loads the namespace scripts
// from ~/.ideavimrc.
func bootstrap(lead string, paths namespace.Paths) string {
	var lines []string
	if lead != "" {
		lines = append(lines, leader.LetStatement(lead))
	}
	lines = append(lines,
		"source "+paths.Vimrc(),
		"source "+paths.IntelliJ(),
	)
	return strings.Join(lines, "\n")
}
