// Package cli provides the Cobra command tree and dependency injection
// wiring for the devkit CLI. This file defines the Dependencies struct
// (Composition Root) that wires all domain modules together.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modu-ai/devkit/internal/command"
	"github.com/modu-ai/devkit/internal/config"
	"github.com/modu-ai/devkit/internal/coverage"
	"github.com/modu-ai/devkit/internal/defs"
	"github.com/modu-ai/devkit/internal/github"
	"github.com/modu-ai/devkit/internal/suite"
	"github.com/modu-ai/devkit/internal/tools"
	"github.com/modu-ai/devkit/internal/ui"
)

// errNoProject indicates no go.mod or .devkit.yaml above the working directory.
var errNoProject = errors.New("not in a Go project (no go.mod found)")

// Dependencies holds all domain-level services used by CLI commands.
// This is the Composition Root: the only place where concrete types
// are instantiated and wired together.
type Dependencies struct {
	Root     string
	Config   *config.Config
	Runner   command.Runner
	GitHub   github.GHClient
	Theme    *ui.Theme
	Headless *ui.HeadlessManager
	Logger   *slog.Logger
}

// deps is the global dependencies instance, initialized by InitDependencies.
// Tests replace it through SetDeps.
var deps *Dependencies

// InitDependencies loads the configuration of the project at root, installs
// the default logger at the configured level and wires the services.
func InitDependencies(root string) (*Dependencies, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.System.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	hm := ui.NewHeadlessManager()
	if cfg.System.NonInteractive {
		hm.ForceHeadless(true)
	}

	return &Dependencies{
		Root:     root,
		Config:   cfg,
		Runner:   command.NewRunner(),
		GitHub:   github.NewGHClient(root),
		Theme:    ui.NewTheme(cfg.System.NoColor),
		Headless: hm,
		Logger:   slog.Default().With("module", "cli"),
	}, nil
}

// GetDeps returns the current Dependencies instance.
func GetDeps() *Dependencies {
	return deps
}

// SetDeps replaces the global dependencies (used for testing).
func SetDeps(d *Dependencies) {
	deps = d
}

// ensureDependencies initializes deps once per process and applies the
// persistent flags.
func ensureDependencies(cmd *cobra.Command, _ []string) error {
	if deps == nil {
		root, err := findProjectRoot()
		if err != nil {
			cwd, cwdErr := os.Getwd()
			if cwdErr != nil {
				return fmt.Errorf("get working directory: %w", cwdErr)
			}
			root = cwd
		}
		d, err := InitDependencies(root)
		if err != nil {
			return err
		}
		deps = d
	}

	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		deps.Theme = ui.NewTheme(true)
	}
	if nonInteractive, _ := cmd.Flags().GetBool("non-interactive"); nonInteractive {
		deps.Headless.ForceHeadless(true)
	}
	return nil
}

// findProjectRoot walks up from the working directory to the nearest
// directory holding go.mod or .devkit.yaml.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, marker := range []string{defs.GoMod, defs.ConfigFile} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errNoProject
		}
		dir = parent
	}
}

// Formatter returns the configured formatter wrapper.
func (d *Dependencies) Formatter() *tools.Formatter {
	return tools.NewFormatter(d.Config.Tools, d.Runner, d.Root)
}

// Linter returns the configured linter wrapper.
func (d *Dependencies) Linter() *tools.Linter {
	return tools.NewLinter(d.Config.Tools, d.Runner, d.Root)
}

// TypeChecker returns the configured type checker wrapper.
func (d *Dependencies) TypeChecker() *tools.TypeChecker {
	return tools.NewTypeChecker(d.Config.Tools, d.Runner, d.Root)
}

// Suites returns a test runner over the configured suites.
func (d *Dependencies) Suites() *suite.Runner {
	return suite.NewRunner(suite.NewRegistry(d.Config.Suites), d.Runner, d.Root)
}

// Coverage returns a coverage runner over the configured suites.
func (d *Dependencies) Coverage() *coverage.Runner {
	return coverage.NewRunner(d.Suites(), d.Runner, d.Config.Coverage, d.Root)
}

// Prompter returns a yes/no prompter honoring headless mode.
func (d *Dependencies) Prompter() *ui.Prompter {
	return ui.NewPrompter(d.Theme, d.Headless)
}
