package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/modu-ai/devkit/internal/command"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run format, lint, typecheck and imports concurrently",
	Long: `Run the format check, linter, type checker and import-boundary check in
parallel over the default targets, print each tool's output, then a
summary table. Fails when any check fails.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkStep is one check run by the check command.
type checkStep struct {
	name string
	run  func(ctx context.Context, w io.Writer) error
}

// checkOutcome captures the output and failure of one step.
type checkOutcome struct {
	out bytes.Buffer
	err error
}

func checkSteps() []checkStep {
	return []checkStep{
		{"format", func(ctx context.Context, w io.Writer) error {
			_, err := deps.Formatter().Run(ctx, nil, true, w, w)
			return err
		}},
		{"lint", func(ctx context.Context, w io.Writer) error {
			_, err := deps.Linter().Run(ctx, nil, false, w, w)
			return err
		}},
		{"typecheck", func(ctx context.Context, w io.Writer) error {
			_, err := deps.TypeChecker().Run(ctx, nil, w, w)
			return err
		}},
		{"imports", func(ctx context.Context, w io.Writer) error {
			return checkImports(ctx, w, false)
		}},
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	steps := checkSteps()
	outcomes := make([]checkOutcome, len(steps))

	// A step that fails its check is recorded; anything else (a missing
	// binary, a cancelled context) aborts the remaining steps.
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, step := range steps {
		g.Go(func() error {
			err := step.run(ctx, &outcomes[i].out)
			var exitErr *command.ExitError
			if err != nil && !errors.As(err, &exitErr) {
				return fmt.Errorf("%s: %w", step.name, err)
			}
			outcomes[i].err = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Check", "Status"})
	for i, step := range steps {
		o := &outcomes[i]
		if o.out.Len() > 0 {
			_, _ = fmt.Fprintf(out, "%s\n%s\n", deps.Theme.Title("== "+step.name), o.out.String())
		}
		status := deps.Theme.Success("passed")
		if o.err != nil {
			failed++
			status = deps.Theme.Error("failed")
		}
		t.AppendRow(table.Row{step.name, status})
	}
	_, _ = fmt.Fprintln(out, t.Render())

	if failed > 0 {
		return command.Failf("%d of %d checks failed", failed, len(steps))
	}
	return nil
}
