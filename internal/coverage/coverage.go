package coverage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/tools/cover"

	"github.com/modu-ai/devkit/internal/command"
	"github.com/modu-ai/devkit/internal/config"
	"github.com/modu-ai/devkit/internal/defs"
	"github.com/modu-ai/devkit/internal/suite"
)

// Options controls a coverage run.
type Options struct {
	// FailUnder fails the run when coverage is below this percentage.
	FailUnder int
	// NoReport skips writing the merged profile and the HTML report.
	NoReport bool
}

// Report is the outcome of a coverage run.
type Report struct {
	Percent     float64
	ProfilePath string
	HTMLPath    string
	// FailedSuites lists suites whose tests failed. Coverage is still
	// computed over them.
	FailedSuites []string
}

// Runner measures coverage over every registered suite.
type Runner struct {
	suites *suite.Runner
	exec   command.Runner
	cfg    config.CoverageConfig
	dir    string
	stdout io.Writer
	logger *slog.Logger
}

// NewRunner creates a coverage Runner rooted at dir.
func NewRunner(suites *suite.Runner, exec command.Runner, cfg config.CoverageConfig, dir string) *Runner {
	return &Runner{
		suites: suites,
		exec:   exec,
		cfg:    cfg,
		dir:    dir,
		stdout: os.Stdout,
		logger: slog.Default().With("module", "coverage"),
	}
}

// SetOutput redirects the report line.
func (r *Runner) SetOutput(w io.Writer) {
	r.stdout = w
}

// Run executes every suite with a cover profile, merges the profiles and
// applies opts.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	tmp, err := os.MkdirTemp("", "devkit-coverage-*")
	if err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	report := &Report{}
	var raws [][]byte

	for i, s := range r.suites.Registry().All() {
		profile := filepath.Join(tmp, fmt.Sprintf("%d-%s.out", i, s.Name))
		flags := []string{"-coverprofile=" + profile, "-covermode=" + r.cfg.Mode}

		if err := r.suites.Run(ctx, s, flags); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.Warn("suite failed, coverage still collected", "suite", s.Name, "error", err)
			report.FailedSuites = append(report.FailedSuites, s.Name)
		}

		raw, err := os.ReadFile(profile)
		if err != nil {
			r.logger.Debug("no profile written", "suite", s.Name, "error", err)
			continue
		}
		raws = append(raws, raw)
	}

	merged := Merge(r.cfg.Mode, raws...)
	profiles, err := Parse(bytes.NewReader(merged))
	if err != nil {
		return nil, err
	}
	pct, err := Percent(profiles)
	if err != nil {
		return nil, err
	}
	report.Percent = pct

	if !opts.NoReport {
		if err := r.writeReports(ctx, profiles, report); err != nil {
			return nil, err
		}
	}

	_, _ = fmt.Fprintf(r.stdout, "total coverage: %.1f%%\n", pct)

	if pct < float64(opts.FailUnder) {
		return report, command.Failf("Coverage is below %d%%. Current coverage is %.0f%%", opts.FailUnder, pct)
	}
	return report, nil
}

func (r *Runner) writeReports(ctx context.Context, profiles []*cover.Profile, report *Report) error {
	outDir := r.cfg.Dir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(r.dir, outDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create coverage dir: %w", err)
	}

	report.ProfilePath = filepath.Join(outDir, defs.CoverageProfile)
	f, err := os.Create(report.ProfilePath)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	if err := Write(f, profiles); err != nil {
		_ = f.Close()
		return fmt.Errorf("write profile: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close profile: %w", err)
	}

	report.HTMLPath = filepath.Join(outDir, defs.CoverageHTML)
	err = r.exec.Run(ctx, command.Invocation{
		Name:   "go",
		Args:   []string{"tool", "cover", "-html=" + report.ProfilePath, "-o", report.HTMLPath},
		Dir:    r.dir,
		Stdout: io.Discard,
	})
	if err != nil {
		return fmt.Errorf("html report: %w", err)
	}
	return nil
}
