package keymap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader errors
var (
	ErrUnsupportedFormat = errors.New("unsupported bindings format")
	ErrInvalidDump       = errors.New("invalid bindings dump")
)

// Format identifies a dump encoding.
type Format string

// Dump formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a dump format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Dump is the decoded content of a bindings file.
type Dump struct {
	Bindings   []RawBinding
	Descriptor Descriptor
	// HasMeta is true when the dump carried a _meta block.
	HasMeta bool
}

// LoadFile loads a bindings dump from a JSON or YAML file.
func LoadFile(path string) (*Dump, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bindings file: %w", err)
	}
	defer f.Close()

	return Load(f, format)
}

// Load decodes a bindings dump from r.
func Load(r io.Reader, format Format) (*Dump, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading bindings: %w", err)
	}

	var doc any
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}

	return decodeDump(doc)
}

func decodeDump(doc any) (*Dump, error) {
	dump := &Dump{}

	var records []any
	switch v := doc.(type) {
	case []any:
		records = v
	case map[string]any:
		list, ok := v["keymaps"].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: missing keymaps array", ErrInvalidDump)
		}
		records = list

		if meta, ok := v["_meta"].(map[string]any); ok {
			dump.HasMeta = true
			dump.Descriptor.Leader = readString(meta["leader"])
			dump.Descriptor.ConfigPath = readString(meta["config_path"])
		}
		if warnings, ok := v["_warnings"].([]any); ok {
			for _, w := range warnings {
				dump.Descriptor.Warnings = append(dump.Descriptor.Warnings, fmt.Sprint(w))
			}
		}
	case nil:
		return dump, nil
	default:
		return nil, fmt.Errorf("%w: unexpected top-level %T", ErrInvalidDump, doc)
	}

	for i, rec := range records {
		fields, ok := rec.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: record %d is %T", ErrInvalidDump, i, rec)
		}
		dump.Bindings = append(dump.Bindings, decodeRecord(fields)...)
	}

	return dump, nil
}

// decodeRecord converts one record, expanding multi-mode entries.
func decodeRecord(fields map[string]any) []RawBinding {
	base := RawBinding{
		LHS:       readString(fields["lhs"]),
		RHS:       readString(fields["rhs"]),
		RHSSource: readString(fields["rhs_source"]),
		RHSName:   readString(fields["rhs_name"]),
		Desc:      readString(fields["desc"]),
		Silent:    truthy(fields["silent"], false),
		Noremap:   truthy(fields["noremap"], true),
		Buffer:    truthy(fields["buffer"], false),
		Nowait:    truthy(fields["nowait"], false),
		Expr:      truthy(fields["expr"], false),
	}
	if base.RHS == "" && (base.RHSSource != "" || base.RHSName != "") {
		base.RHS = LuaCallback
	}

	modes := readModes(fields["mode"])
	out := make([]RawBinding, 0, len(modes))
	for _, m := range modes {
		b := base
		b.Mode = m
		out = append(out, b)
	}
	return out
}

func readModes(v any) []string {
	switch m := v.(type) {
	case string:
		if m == "" {
			return []string{DefaultMode}
		}
		return []string{m}
	case []any:
		modes := make([]string, 0, len(m))
		for _, item := range m {
			if s := readString(item); s != "" {
				modes = append(modes, s)
			}
		}
		if len(modes) > 0 {
			return modes
		}
	}
	return []string{DefaultMode}
}

func readString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// truthy accepts Lua-style booleans: true, or a non-zero number.
func truthy(v any, fallback bool) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case int:
		return b != 0
	case nil:
		return fallback
	default:
		return fallback
	}
}
