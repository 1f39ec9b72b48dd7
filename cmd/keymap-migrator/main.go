// Package main is the entry point for nvim-keymap-migrator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dshills/nvim-keymap-migrator/internal/app"
	"github.com/dshills/nvim-keymap-migrator/internal/config"
	"github.com/dshills/nvim-keymap-migrator/internal/namespace"
	"github.com/dshills/nvim-keymap-migrator/internal/registry"
	"github.com/dshills/nvim-keymap-migrator/internal/report"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errUsage signals that usage was already printed.
var errUsage = errors.New("usage")

// invocation is a parsed command line.
type invocation struct {
	command    string
	target     registry.Target
	configPath string
	dryRun     bool

	// overrides holds flag values, applied only for flags actually given.
	overrides map[string]string
	noDefault bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	inv, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 2
	}

	if inv.command == "version" {
		fmt.Fprintf(stdout, "nvim-keymap-migrator %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	paths := namespace.Default()
	cfg, err := config.Load(paths.ConfigFile(), inv.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	inv.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	format, _ := report.ParseFormat(cfg.Format)

	logCfg := app.DefaultLoggerConfig()
	logCfg.Level = app.ParseLogLevel(cfg.LogLevel)
	logCfg.Output = stderr
	logger := app.NewLogger(logCfg)

	application, err := app.New(app.Options{Config: cfg, Paths: &paths, Logger: logger})
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch inv.command {
	case "generate", "install":
		var rep *report.Report
		if inv.command == "generate" {
			rep, err = application.Generate(ctx, inv.target, inv.dryRun)
		} else {
			rep, err = application.Install(ctx, inv.target)
		}
		if err != nil {
			logger.Error("%v", err)
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if err := report.Write(stdout, rep, format); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	case "uninstall":
		var targets []registry.Target
		if inv.target != "" {
			targets = append(targets, inv.target)
		}
		res, err := application.Uninstall(ctx, targets...)
		if err != nil {
			logger.Error("%v", err)
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprint(stdout, res.Text())
	}

	return 0
}

// parseArgs reads "<command> [editor] [flags]". Flags may appear before
// or after the editor. A bare editor name means generate.
func parseArgs(args []string, stderr io.Writer) (*invocation, error) {
	inv := &invocation{overrides: make(map[string]string)}

	fs := flag.NewFlagSet("nvim-keymap-migrator", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		logLevel, leader, input, nvimConfig string
		mappings, format, output            string
	)
	fs.StringVar(&inv.configPath, "config", "", "Path to a TOML configuration file")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&leader, "leader", "", "Leader key override (e.g. \",\" or \"<space>\")")
	fs.StringVar(&input, "input", "", "Bindings source: .lua file or JSON/YAML dump")
	fs.StringVar(&nvimConfig, "nvim-config", "", "Neovim configuration directory (default ~/.config/nvim)")
	fs.StringVar(&mappings, "mappings", "", "Extra TOML mapping table merged over the built-in registry")
	fs.StringVar(&format, "format", "", "Report format (text, json, yaml)")
	fs.StringVar(&output, "output", "", "Output directory for generate (default: current)")
	fs.BoolVar(&inv.dryRun, "dry-run", false, "Print the report only, do not write files")
	fs.BoolVar(&inv.noDefault, "no-defaults", false, "Do not add editor default bindings")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "nvim-keymap-migrator - carry Neovim key bindings to VS Code and IntelliJ\n\n")
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  nvim-keymap-migrator generate <vscode|intellij> [options]\n")
		fmt.Fprintf(stderr, "  nvim-keymap-migrator install <vscode|intellij> [options]\n")
		fmt.Fprintf(stderr, "  nvim-keymap-migrator uninstall [vscode|intellij]\n")
		fmt.Fprintf(stderr, "  nvim-keymap-migrator version\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return nil, errUsage
	}

	inv.command, rest = rest[0], rest[1:]
	if _, ok := registry.ParseTarget(inv.command); ok {
		inv.command, rest = "generate", append([]string{inv.command}, rest...)
	}

	switch inv.command {
	case "generate", "install":
		if len(rest) == 0 {
			return nil, fmt.Errorf("%s: missing editor (vscode or intellij)", inv.command)
		}
		target, ok := registry.ParseTarget(rest[0])
		if !ok {
			return nil, fmt.Errorf("%w: %q", app.ErrUnknownTarget, rest[0])
		}
		inv.target = target
		rest = rest[1:]
	case "uninstall":
		if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
			target, ok := registry.ParseTarget(rest[0])
			if !ok {
				return nil, fmt.Errorf("%w: %q", app.ErrUnknownTarget, rest[0])
			}
			inv.target = target
			rest = rest[1:]
		}
	case "version":
	default:
		fs.Usage()
		return nil, fmt.Errorf("unknown command %q", inv.command)
	}

	if err := fs.Parse(rest); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	values := map[string]string{
		"log-level":   logLevel,
		"leader":      leader,
		"input":       input,
		"nvim-config": nvimConfig,
		"mappings":    mappings,
		"format":      format,
		"output":      output,
	}
	fs.Visit(func(f *flag.Flag) {
		if v, ok := values[f.Name]; ok {
			inv.overrides[f.Name] = v
		}
	})

	return inv, nil
}

// apply overrides cfg with the flags given on the command line.
func (inv *invocation) apply(cfg *config.Config) {
	fields := map[string]*string{
		"log-level":   &cfg.LogLevel,
		"leader":      &cfg.Leader,
		"input":       &cfg.Input,
		"nvim-config": &cfg.NvimConfig,
		"mappings":    &cfg.Mappings,
		"format":      &cfg.Format,
		"output":      &cfg.OutputDir,
	}
	for name, v := range inv.overrides {
		*fields[name] = v
	}
	if inv.noDefault {
		cfg.Defaults = false
	}
}
