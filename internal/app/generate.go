package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/dshills/nvim-keymap-migrator/internal/registry"
	"github.com/dshills/nvim-keymap-migrator/internal/report"
)

// Output file names written by Generate.
const (
	GeneratedVimrc    = "nkm.vimrc"
	GeneratedIdeaVim  = "nkm.ideavimrc"
	GeneratedVSCode   = "nkm-vscode-keybindings.json"
	generatedFileMode = 0o644
)

// Generate writes the shared script and the target artifact into the
// configured output directory. With dryRun nothing is written.
func (app *Application) Generate(ctx context.Context, target registry.Target, dryRun bool) (*report.Report, error) {
	m, err := app.migrate(ctx, target)
	if err != nil {
		return nil, err
	}

	var (
		name    string
		content []byte
	)
	switch target {
	case registry.TargetIntelliJ:
		name, content = GeneratedIdeaVim, []byte(m.ideavim.Script())
	default:
		name = GeneratedVSCode
		content, err = encodeBindings(m)
		if err != nil {
			return nil, NewOperationError("generate", string(target), err)
		}
	}

	if dryRun {
		return m.report, nil
	}

	dir := app.cfg.OutputDir
	files := []struct {
		path string
		data []byte
	}{
		{filepath.Join(dir, GeneratedVimrc), []byte(m.vimrc)},
		{filepath.Join(dir, name), content},
	}

	if err := app.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, NewOperationError("generate", dir, err)
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := app.fs.WriteFile(f.path, f.data, generatedFileMode); err != nil {
			return nil, NewOperationError("generate", f.path, err)
		}
		app.logger.Info("wrote %s", f.path)
		m.report.Outputs = append(m.report.Outputs, f.path)
	}

	return m.report, nil
}

// encodeBindings renders the VS Code sections as a settings fragment.
func encodeBindings(m *migration) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m.vscode.Bindings); err != nil {
		return nil, fmt.Errorf("encoding keybindings: %w", err)
	}
	return buf.Bytes(), nil
}
