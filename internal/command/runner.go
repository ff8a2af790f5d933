package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Invocation describes one external tool run.
type Invocation struct {
	// Name is the binary to execute, resolved through PATH.
	Name string
	// Args are passed verbatim to the tool.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env holds extra variables layered over the process environment.
	Env map[string]string
	// Stdout and Stderr receive the tool output. Nil means os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the invocation as a shell-like command line for logs.
func (inv Invocation) String() string {
	return strings.TrimSpace(inv.Name + " " + strings.Join(inv.Args, " "))
}

// Runner executes external tools.
type Runner interface {
	// Run executes the tool, streaming its output, and returns an
	// *ExitError when it exits non-zero.
	Run(ctx context.Context, inv Invocation) error

	// Output executes the tool and returns its trimmed stdout.
	Output(ctx context.Context, inv Invocation) (string, error)
}

// ExecFunc is the low-level process launcher. Tests inject a fake.
type ExecFunc func(ctx context.Context, inv Invocation) error

// execRunner implements Runner on top of os/exec.
type execRunner struct {
	execFn ExecFunc
	logger *slog.Logger
}

// Compile-time interface compliance check.
var _ Runner = (*execRunner)(nil)

// NewRunner creates a Runner that launches real processes.
func NewRunner() *execRunner {
	return &execRunner{
		execFn: execProcess,
		logger: slog.Default().With("module", "command"),
	}
}

// NewRunnerWithExec creates a Runner backed by a custom exec function.
func NewRunnerWithExec(fn ExecFunc) *execRunner {
	return &execRunner{
		execFn: fn,
		logger: slog.Default().With("module", "command"),
	}
}

// Run executes the tool and forwards a non-zero exit as *ExitError.
func (r *execRunner) Run(ctx context.Context, inv Invocation) error {
	if inv.Name == "" {
		return ErrEmptyCommand
	}
	r.logger.Debug("running tool", "cmd", inv.String(), "dir", inv.Dir)

	err := r.execFn(ctx, inv)
	if err != nil {
		r.logger.Debug("tool failed", "cmd", inv.String(), "error", err)
	}
	return err
}

// Output executes the tool with stdout captured.
func (r *execRunner) Output(ctx context.Context, inv Invocation) (string, error) {
	var stdout, stderr bytes.Buffer
	inv.Stdout = &stdout
	inv.Stderr = &stderr

	if err := r.Run(ctx, inv); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Message == "" {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				exitErr.Message = fmt.Sprintf("%s: %s", inv.Name, msg)
			}
		}
		return "", err
	}

	return strings.TrimRight(stdout.String(), "\n\r"), nil
}

// binCache caches exec.LookPath results per binary name.
var binCache sync.Map

type lookup struct {
	path string
	err  error
}

// LookPath resolves a binary once and caches the result.
func LookPath(name string) (string, error) {
	if cached, ok := binCache.Load(name); ok {
		l := cached.(lookup)
		return l.path, l.err
	}
	path, err := exec.LookPath(name)
	if err != nil {
		err = fmt.Errorf("%s: %w", name, ErrToolNotFound)
	}
	binCache.Store(name, lookup{path: path, err: err})
	return path, err
}

// execProcess launches the tool as a child process.
func execProcess(ctx context.Context, inv Invocation) error {
	bin, err := LookPath(inv.Name)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, bin, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = orDefault(inv.Stdout, os.Stdout)
	cmd.Stderr = orDefault(inv.Stderr, os.Stderr)
	if len(inv.Env) > 0 {
		cmd.Env = MergeEnv(os.Environ(), inv.Env)
	}

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Tool: inv.Name, Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("run %s: %w", inv.Name, err)
	}
	return nil
}

// MergeEnv layers extra variables over a KEY=VALUE environment list.
// Later keys win; the order of untouched entries is preserved.
func MergeEnv(base []string, extra map[string]string) []string {
	merged := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, override := extra[key]; override {
			continue
		}
		merged = append(merged, kv)
	}
	for k, v := range extra {
		merged = append(merged, k+"="+v)
	}
	return merged
}

func orDefault(w io.Writer, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
