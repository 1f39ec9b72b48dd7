package integrate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/nvim-keymap-migrator/internal/fsys"
	"github.com/dshills/nvim-keymap-migrator/internal/generator"
)

// Scalar settings written alongside the keybinding sections.
const (
	KeyLeader      = "vim.leader"
	KeyVimrcPath   = "vim.vimrc.path"
	KeyVimrcEnable = "vim.vimrc.enable"
)

// Scalar is a top-level setting and the value the installer wants.
// Value must be a string or a bool.
type Scalar struct {
	Key   string
	Value any
}

// ScalarState is what happened to one scalar during install.
type ScalarState string

// Scalar states.
const (
	// ScalarSet means this run wrote the value.
	ScalarSet ScalarState = "set"
	// ScalarPresent means the setting already held the wanted value.
	ScalarPresent ScalarState = "present"
	// ScalarConflict means the user holds a different value, left untouched.
	ScalarConflict ScalarState = "conflict"
	// ScalarRemoved means uninstall deleted the setting.
	ScalarRemoved ScalarState = "removed"
	// ScalarKept means uninstall left a changed setting in place.
	ScalarKept ScalarState = "kept"
)

// SettingsResult reports a settings file operation.
type SettingsResult struct {
	Path   string
	Action Action

	// Scalars maps each handled key to its outcome.
	Scalars map[string]ScalarState

	// Values holds what each handled key contains after install: the
	// wanted value, or the user's value on conflict.
	Values map[string]any

	// Managed counts engine-owned entries per section after the operation
	// (install) or removed by it (uninstall).
	Managed map[string]int

	// UserEntries counts preserved user-owned entries across sections.
	UserEntries int

	Warnings []string
}

// WasSet reports whether this run wrote key.
func (r *SettingsResult) WasSet(key string) bool {
	return r.Scalars[key] == ScalarSet
}

// escapeKey makes a dotted VS Code setting name usable as a gjson/sjson path.
func escapeKey(key string) string {
	return strings.ReplaceAll(key, ".", `\.`)
}

// loadSettings reads and validates the settings document. Missing, blank
// and null files are treated as an empty object.
func loadSettings(fs fsys.FS, path string) ([]byte, bool, error) {
	data, ok, err := fsys.ReadFileOrEmpty(fs, path)
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return []byte("{}"), ok, nil
	}
	if !gjson.ValidBytes(trimmed) {
		if gjson.ValidBytes(jsonc.ToJSON(trimmed)) {
			return nil, ok, &SettingsError{Path: path, Err: fmt.Errorf("%w: %w", ErrInvalidSettings, ErrSettingsJSONC)}
		}
		return nil, ok, &SettingsError{Path: path, Err: ErrInvalidSettings}
	}
	if !gjson.ParseBytes(trimmed).IsObject() {
		return nil, ok, &SettingsError{Path: path, Err: ErrSettingsNotObject}
	}
	return trimmed, ok, nil
}

// matches reports whether res holds exactly value.
func matches(res gjson.Result, value any) bool {
	switch v := value.(type) {
	case string:
		return res.Type == gjson.String && res.Str == v
	case bool:
		return (res.Type == gjson.True && v) || (res.Type == gjson.False && !v)
	}
	return false
}

// splitSection separates a keybinding array into user-owned raw entries and
// the count of engine-owned ones.
func splitSection(doc []byte, section string) (user []string, managed int, exists bool, err error) {
	res := gjson.GetBytes(doc, escapeKey(section))
	if !res.Exists() {
		return nil, 0, false, nil
	}
	if !res.IsArray() {
		return nil, 0, true, ErrSectionNotArray
	}

	for _, entry := range res.Array() {
		if entry.Get(generator.ManagedByField).String() == generator.ManagedByMarker {
			managed++
			continue
		}
		user = append(user, entry.Raw)
	}
	return user, managed, true, nil
}

// joinArray renders raw JSON values as an array.
func joinArray(items []string) []byte {
	return []byte("[" + strings.Join(items, ",") + "]")
}

// marshalEntry encodes a keybinding entry without HTML escaping, so key
// tokens such as <leader> stay readable in the settings file.
func marshalEntry(e generator.VSCodeBinding) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func format(doc []byte) []byte {
	return pretty.PrettyOptions(doc, &pretty.Options{Width: 80, Indent: "  "})
}

// InstallSettings merges the artifact's sections and the scalars into the
// settings file at path.
//
// Previously managed entries are replaced; user entries keep their
// position ahead of the managed ones. A scalar is written only when absent.
func InstallSettings(ctx context.Context, fs fsys.FS, path string, art *generator.VSCodeArtifact, scalars []Scalar) (*SettingsResult, error) {
	res := &SettingsResult{
		Path:    path,
		Action:  ActionUpdated,
		Scalars: make(map[string]ScalarState),
		Values:  make(map[string]any),
		Managed: make(map[string]int),
	}

	doc, existed, err := loadSettings(fs, path)
	if err != nil {
		return res, err
	}
	if !existed {
		res.Action = ActionCreated
	}

	for _, s := range scalars {
		current := gjson.GetBytes(doc, escapeKey(s.Key))
		switch {
		case !current.Exists():
			doc, err = sjson.SetBytes(doc, escapeKey(s.Key), s.Value)
			if err != nil {
				return res, &SettingsError{Path: path, Key: s.Key, Err: err}
			}
			res.Scalars[s.Key] = ScalarSet
			res.Values[s.Key] = s.Value
		case matches(current, s.Value):
			res.Scalars[s.Key] = ScalarPresent
			res.Values[s.Key] = s.Value
		default:
			res.Scalars[s.Key] = ScalarConflict
			res.Values[s.Key] = current.Value()
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%s is already set to %s; keeping it (wanted %v)", s.Key, current.Raw, s.Value))
		}
	}

	for _, section := range generator.Sections() {
		user, managed, exists, err := splitSection(doc, section)
		if err != nil {
			return res, &SettingsError{Path: path, Key: section, Err: err}
		}
		if managed > 0 {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%s: replacing %d previously managed binding(s)", section, managed))
		}

		entries := art.Bindings[section]
		items := make([]string, 0, len(user)+len(entries))
		items = append(items, user...)
		for _, e := range entries {
			raw, err := marshalEntry(e)
			if err != nil {
				return res, fmt.Errorf("encoding %s entry: %w", section, err)
			}
			items = append(items, raw)
		}

		res.UserEntries += len(user)
		res.Managed[section] = len(entries)

		switch {
		case len(items) > 0:
			doc, err = sjson.SetRawBytes(doc, escapeKey(section), joinArray(items))
		case exists:
			doc, err = sjson.DeleteBytes(doc, escapeKey(section))
		}
		if err != nil {
			return res, &SettingsError{Path: path, Key: section, Err: err}
		}
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return res, fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := fs.WriteFile(path, format(doc), 0o644); err != nil {
		return res, fmt.Errorf("writing %s: %w", path, err)
	}
	return res, nil
}

// UninstallSettings strips every managed entry from the settings file and
// removes the owned scalars, which must be exactly those a previous install
// recorded as set. An owned scalar whose value has since changed is kept.
//
// A missing file, or one with nothing to remove, is left untouched and
// reported as ActionNotFound.
func UninstallSettings(ctx context.Context, fs fsys.FS, path string, owned []Scalar) (*SettingsResult, error) {
	res := &SettingsResult{
		Path:    path,
		Action:  ActionNotFound,
		Scalars: make(map[string]ScalarState),
		Managed: make(map[string]int),
	}

	if !fs.Exists(path) {
		return res, nil
	}
	doc, _, err := loadSettings(fs, path)
	if err != nil {
		return res, err
	}

	changed := false
	for _, s := range owned {
		current := gjson.GetBytes(doc, escapeKey(s.Key))
		if !current.Exists() {
			continue
		}
		if !matches(current, s.Value) {
			res.Scalars[s.Key] = ScalarKept
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%s changed since install (now %s); leaving it", s.Key, current.Raw))
			continue
		}
		doc, err = sjson.DeleteBytes(doc, escapeKey(s.Key))
		if err != nil {
			return res, &SettingsError{Path: path, Key: s.Key, Err: err}
		}
		res.Scalars[s.Key] = ScalarRemoved
		changed = true
	}

	for _, section := range generator.Sections() {
		user, managed, exists, err := splitSection(doc, section)
		if err != nil {
			return res, &SettingsError{Path: path, Key: section, Err: err}
		}
		res.UserEntries += len(user)
		if !exists || managed == 0 {
			continue
		}

		res.Managed[section] = managed
		changed = true
		if len(user) == 0 {
			doc, err = sjson.DeleteBytes(doc, escapeKey(section))
		} else {
			doc, err = sjson.SetRawBytes(doc, escapeKey(section), joinArray(user))
		}
		if err != nil {
			return res, &SettingsError{Path: path, Key: section, Err: err}
		}
	}

	if !changed {
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := fs.WriteFile(path, format(doc), 0o644); err != nil {
		return res, fmt.Errorf("writing %s: %w", path, err)
	}
	res.Action = ActionRemoved
	return res, nil
}

// ManagedEntries counts engine-owned entries per section in the file at
// path. A missing file has none.
func ManagedEntries(fs fsys.FS, path string) (map[string]int, error) {
	counts := make(map[string]int)
	if !fs.Exists(path) {
		return counts, nil
	}
	doc, _, err := loadSettings(fs, path)
	if err != nil {
		return nil, err
	}
	for _, section := range generator.Sections() {
		_, managed, _, err := splitSection(doc, section)
		if err != nil {
			return nil, &SettingsError{Path: path, Key: section, Err: err}
		}
		if managed > 0 {
			counts[section] = managed
		}
	}
	return counts, nil
}
