package suite

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/modu-ai/devkit/internal/command"
)

// Summary failures. Messages are printed verbatim by the CLI.
var (
	ErrNoTests     = command.Failf("No tests found.")
	ErrTestsFailed = command.Failf("One or more tests failed.")
)

// summaryWidth is the dot-padded column width of the suite name.
const summaryWidth = 80

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"})
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"})
)

// SummaryLine formats one suite result, e.g. "✅ unit.....[passed].".
func SummaryLine(name string, passed bool) string {
	pad := name
	if n := summaryWidth - len([]rune(name)); n > 0 {
		pad += strings.Repeat(".", n)
	}
	if passed {
		return passStyle.Render("✅") + " " + pad + "[" + passStyle.Render("passed") + "]."
	}
	return failStyle.Render("❌") + " " + pad + "[" + failStyle.Render("failed") + "]."
}

// Runner executes suites through `go test`.
type Runner struct {
	registry *Registry
	exec     command.Runner
	dir      string
	goBin    string
	stdout   io.Writer
	stderr   io.Writer
	logger   *slog.Logger
}

// NewRunner creates a Runner for the suites in reg, executed in dir.
func NewRunner(reg *Registry, exec command.Runner, dir string) *Runner {
	return &Runner{
		registry: reg,
		exec:     exec,
		dir:      dir,
		goBin:    "go",
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		logger:   slog.Default().With("module", "suite"),
	}
}

// SetOutput redirects test output and summary lines.
func (r *Runner) SetOutput(stdout, stderr io.Writer) {
	r.stdout = stdout
	r.stderr = stderr
}

// Registry returns the suites the runner knows about.
func (r *Runner) Registry() *Registry {
	return r.registry
}

// Args builds the `go test` argument list for s.
func Args(s Suite, extraFlags []string) []string {
	args := make([]string, 0, 1+len(s.Flags)+len(extraFlags)+len(s.Packages))
	args = append(args, "test")
	args = append(args, s.Flags...)
	args = append(args, extraFlags...)
	args = append(args, s.Packages...)
	return args
}

// Run executes a single suite and forwards the exit status of go test.
func (r *Runner) Run(ctx context.Context, s Suite, extraFlags []string) error {
	r.logger.Debug("running suite", "suite", s.Name, "packages", s.Packages)
	err := r.exec.Run(ctx, command.Invocation{
		Name:   r.goBin,
		Args:   Args(s, extraFlags),
		Dir:    r.dir,
		Env:    s.Env,
		Stdout: r.stdout,
		Stderr: r.stderr,
	})
	if err != nil {
		return fmt.Errorf("suite %s: %w", s.Name, err)
	}
	return nil
}

// RunNamed runs every registered suite whose name is listed and prints a
// summary. It fails with ErrNoTests when no suite matched.
func (r *Runner) RunNamed(ctx context.Context, names []string, extraFlags []string) error {
	selected := r.registry.Select(names)
	if len(selected) == 0 {
		return ErrNoTests
	}
	return r.runWithSummary(ctx, selected, extraFlags)
}

// RunAll runs every registered suite and prints a summary.
func (r *Runner) RunAll(ctx context.Context, extraFlags []string) error {
	return r.runWithSummary(ctx, r.registry.All(), extraFlags)
}

func (r *Runner) runWithSummary(ctx context.Context, suites []Suite, extraFlags []string) error {
	failed := false
	summary := make([]string, 0, len(suites))

	for _, s := range suites {
		if err := r.Run(ctx, s, extraFlags); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Debug("suite failed", "suite", s.Name, "error", err)
			failed = true
			summary = append(summary, SummaryLine(s.Name, false))
			continue
		}
		summary = append(summary, SummaryLine(s.Name, true))
	}

	for _, line := range summary {
		_, _ = fmt.Fprintln(r.stdout, line)
	}

	if failed {
		return ErrTestsFailed
	}
	return nil
}
