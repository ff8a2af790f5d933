// Package tools wraps the external formatter, linter and type checker.
// Each wrapper builds the tool's argument list from configuration and the
// given file list, runs it and forwards its exit status.
package tools

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/modu-ai/devkit/internal/command"
	"github.com/modu-ai/devkit/internal/config"
)

// Result describes one tool run.
type Result struct {
	Tool    string
	Files   []string
	Skipped bool
}

// tool is the shared invocation logic of every wrapper.
type tool struct {
	name   string
	cfg    config.ToolConfig
	filter FileFilter
	runner command.Runner
	dir    string
	logger *slog.Logger

	// byPackage passes package directories instead of file names.
	byPackage bool
}

func newTool(name string, cfg config.ToolConfig, filter FileFilter, runner command.Runner, dir string) tool {
	return tool{
		name:   name,
		cfg:    cfg,
		filter: filter,
		runner: runner,
		dir:    dir,
		logger: slog.Default().With("module", "tools", "tool", name),
	}
}

// targets resolves the file arguments. An explicit list that filters down
// to nothing means there is nothing to check.
func (t tool) targets(files []string) ([]string, bool) {
	if len(files) == 0 {
		return t.cfg.DefaultTargets, true
	}
	kept := t.filter.Apply(files)
	if len(kept) == 0 {
		return nil, false
	}
	if t.byPackage {
		return PackageDirs(kept), true
	}
	return kept, true
}

// run executes the tool with args followed by targets.
func (t tool) run(ctx context.Context, extra []string, files []string, stdout, stderr io.Writer) (*Result, error) {
	targets, ok := t.targets(files)
	if !ok {
		t.logger.Info("no matching files, skipping", "given", len(files))
		return &Result{Tool: t.name, Skipped: true}, nil
	}

	args := make([]string, 0, len(t.cfg.Args)+len(extra)+len(targets))
	args = append(args, t.cfg.Args...)
	args = append(args, extra...)
	args = append(args, targets...)

	err := t.runner.Run(ctx, command.Invocation{
		Name:   t.cfg.Command,
		Args:   args,
		Dir:    t.dir,
		Stdout: stdout,
		Stderr: stderr,
	})
	if err != nil {
		return &Result{Tool: t.name, Files: targets}, fmt.Errorf("%s: %w", t.name, err)
	}
	return &Result{Tool: t.name, Files: targets}, nil
}

// Linter runs the configured linter on the packages of the given files.
type Linter struct {
	tool
}

// NewLinter creates a Linter rooted at dir.
func NewLinter(cfg config.ToolsConfig, runner command.Runner, dir string) *Linter {
	filter := FileFilter{Extensions: cfg.Extensions, Exclude: cfg.Exclude}
	t := newTool("lint", cfg.Linter, filter, runner, dir)
	t.byPackage = true
	return &Linter{tool: t}
}

// Run lints files (or the default targets) and applies fixes when fix is set.
func (l *Linter) Run(ctx context.Context, files []string, fix bool, stdout, stderr io.Writer) (*Result, error) {
	var extra []string
	if fix {
		extra = l.cfg.FixArgs
	}
	return l.run(ctx, extra, files, stdout, stderr)
}

// TypeChecker runs the configured static type checker on the packages of
// the given files.
type TypeChecker struct {
	tool
}

// NewTypeChecker creates a TypeChecker rooted at dir.
func NewTypeChecker(cfg config.ToolsConfig, runner command.Runner, dir string) *TypeChecker {
	filter := FileFilter{Extensions: cfg.Extensions, Exclude: cfg.Exclude}
	t := newTool("typecheck", cfg.TypeChecker, filter, runner, dir)
	t.byPackage = true
	return &TypeChecker{tool: t}
}

// Run type-checks files or the default targets.
func (c *TypeChecker) Run(ctx context.Context, files []string, stdout, stderr io.Writer) (*Result, error) {
	return c.run(ctx, nil, files, stdout, stderr)
}
