package integrate

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dshills/nvim-keymap-migrator/internal/fsys"
)

// Managed block markers.
const (
	BlockStart = `" <<< nvim-keymap-migrator start >>>`
	BlockEnd   = `" >>> nvim-keymap-migrator end <<<`

	blockNote = `" Managed by nvim-keymap-migrator. Run "keymap-migrator uninstall" or delete this block to remove.`
)

// Action is the outcome of an install or uninstall.
type Action string

// Actions.
const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionRemoved  Action = "removed"
	ActionNotFound Action = "not found"
)

// TextResult reports a text target operation.
type TextResult struct {
	Path   string
	Action Action
}

// RenderBlock wraps body in the managed block markers.
func RenderBlock(body string) string {
	var b strings.Builder
	b.WriteString(BlockStart)
	b.WriteByte('\n')
	b.WriteString(blockNote)
	b.WriteByte('\n')
	if body = strings.TrimRight(body, "\r\n"); body != "" {
		b.WriteString(body)
		b.WriteByte('\n')
	}
	b.WriteString(BlockEnd)
	return b.String()
}

// findBlock returns the byte span of the managed block, markers inclusive.
func findBlock(content string) (start, end int, found bool, err error) {
	start = strings.Index(content, BlockStart)
	if start == -1 {
		return 0, 0, false, nil
	}
	rel := strings.Index(content[start:], BlockEnd)
	if rel == -1 {
		return 0, 0, false, ErrUnterminatedBlock
	}
	return start, start + rel + len(BlockEnd), true, nil
}

// ApplyBlock installs body into content. An existing block is replaced in
// place; otherwise a new block is appended after the existing content.
func ApplyBlock(content, body string) (string, Action, error) {
	block := RenderBlock(body)

	start, end, found, err := findBlock(content)
	if err != nil {
		return "", "", err
	}
	if found {
		return content[:start] + block + content[end:], ActionUpdated, nil
	}

	existing := strings.TrimRight(content, " \t\r\n")
	if existing == "" {
		return block + "\n", ActionCreated, nil
	}
	return existing + "\n\n" + block + "\n", ActionCreated, nil
}

// StripBlock removes the managed block, markers inclusive, from content.
// The remaining text is trimmed; content that becomes blank is returned
// as the empty string.
func StripBlock(content string) (string, bool, error) {
	start, end, found, err := findBlock(content)
	if err != nil || !found {
		return content, false, err
	}

	before := strings.TrimRight(content[:start], " \t\r\n")
	after := strings.TrimLeft(content[end:], "\r\n")
	after = strings.TrimRight(after, " \t\r\n")

	var rest string
	switch {
	case before == "" && after == "":
		return "", true, nil
	case before == "":
		rest = after
	case after == "":
		rest = before
	default:
		rest = before + "\n\n" + after
	}
	return rest + "\n", true, nil
}

// InstallText writes body as the managed block of the file at path.
func InstallText(ctx context.Context, fs fsys.FS, path, body string) (TextResult, error) {
	res := TextResult{Path: path}

	data, _, err := fsys.ReadFileOrEmpty(fs, path)
	if err != nil {
		return res, fmt.Errorf("reading %s: %w", path, err)
	}

	updated, action, err := ApplyBlock(string(data), body)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	res.Action = action

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return res, fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := fs.WriteFile(path, []byte(updated), 0o644); err != nil {
		return res, fmt.Errorf("writing %s: %w", path, err)
	}
	return res, nil
}

// UninstallText removes the managed block from the file at path.
// A missing file or block is reported as ActionNotFound.
func UninstallText(ctx context.Context, fs fsys.FS, path string) (TextResult, error) {
	res := TextResult{Path: path, Action: ActionNotFound}

	data, ok, err := fsys.ReadFileOrEmpty(fs, path)
	if err != nil {
		return res, fmt.Errorf("reading %s: %w", path, err)
	}
	if !ok {
		return res, nil
	}

	stripped, found, err := StripBlock(string(data))
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	if !found {
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := fs.WriteFile(path, []byte(stripped), 0o644); err != nil {
		return res, fmt.Errorf("writing %s: %w", path, err)
	}
	res.Action = ActionRemoved
	return res, nil
}
