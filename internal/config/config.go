// Package config loads the migrator's own settings.
//
// Settings come from an optional TOML file in the namespace directory,
// then an explicitly named file (last wins), then command-line flags
// applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dshills/nvim-keymap-migrator/internal/report"
)

// Config holds the tool settings.
type Config struct {
	LogLevel string `koanf:"log_level"`

	// Leader overrides the leader found in the Neovim configuration.
	Leader string `koanf:"leader"`

	// Input is a bindings file: .lua, .json, .yaml or .yml.
	Input string `koanf:"input"`

	// NvimConfig is the Neovim configuration root captured when Input is empty.
	NvimConfig string `koanf:"nvim_config"`

	// Mappings is an optional TOML overlay for the mapping registry.
	Mappings string `koanf:"mappings"`

	// Defaults enables injection of editor default bindings.
	Defaults bool `koanf:"defaults"`

	// Format is the report format: text, json or yaml.
	Format string `koanf:"format"`

	// OutputDir is where generate writes its files.
	OutputDir string `koanf:"output_dir"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		Defaults:  true,
		Format:    string(report.FormatText),
		OutputDir: ".",
	}
}

// Load reads defaultPath if it exists, then explicitPath, which must exist
// when given.
func Load(defaultPath, explicitPath string) (*Config, error) {
	k := koanf.New(".")

	if defaultPath != "" {
		if _, err := os.Stat(defaultPath); err == nil {
			if err := loadFile(k, defaultPath); err != nil {
				return nil, err
			}
		}
	}

	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, explicitPath)
			}
			return nil, err
		}
		if err := loadFile(k, explicitPath); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.Input = expandPath(cfg.Input)
	cfg.NvimConfig = expandPath(cfg.NvimConfig)
	cfg.Mappings = expandPath(cfg.Mappings)
	cfg.OutputDir = expandPath(cfg.OutputDir)

	return cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return nil
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks every setting that has a closed set of values.
func (c *Config) Validate() error {
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return &ValidationError{Key: "log_level", Value: c.LogLevel, Message: "must be debug, info, warn or error"}
	}
	if _, err := report.ParseFormat(c.Format); err != nil {
		return &ValidationError{Key: "format", Value: c.Format, Message: "must be text, json or yaml"}
	}
	if c.Input != "" {
		switch strings.ToLower(filepath.Ext(c.Input)) {
		case ".lua", ".json", ".yaml", ".yml":
		default:
			return &ValidationError{Key: "input", Value: c.Input, Message: "must be a .lua, .json, .yaml or .yml file"}
		}
	}
	if _, err := ParseLeader(c.Leader); err != nil {
		return &ValidationError{Key: "leader", Value: c.Leader, Message: err.Error()}
	}
	return nil
}

// namedLeaders are the key names accepted for the leader setting.
var namedLeaders = map[string]string{
	"<space>":     " ",
	"space":       " ",
	"<tab>":       "\t",
	"<bslash>":    "\\",
	"<backslash>": "\\",
	"<comma>":     ",",
}

// ParseLeader converts a configured leader to its raw key. A single
// character passes through; a few key names are accepted.
func ParseLeader(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	if raw, ok := namedLeaders[strings.ToLower(s)]; ok {
		return raw, nil
	}
	if len([]rune(s)) == 1 {
		return s, nil
	}
	return "", fmt.Errorf("leader must be a single key")
}
