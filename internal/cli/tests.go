package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/modu-ai/devkit/internal/coverage"
)

var testCmd = &cobra.Command{
	Use:   "test [suite...] [-- go test flags]",
	Short: "Run test suites",
	Long: `Run the named test suites, or every registered suite when none are named
("ALL" also selects every suite). Arguments after "--" are passed to
go test. One summary line is printed per suite.`,
	RunE: runTest,
}

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Measure test coverage over all suites",
	Long: `Run every suite with a cover profile, merge the profiles and report the
total statement coverage. Unless --no-report is given, the merged profile
and an HTML report are written to the coverage directory.`,
	Args: cobra.NoArgs,
	RunE: runCoverage,
}

var suitesCmd = &cobra.Command{
	Use:   "suites",
	Short: "List registered test suites",
	Args:  cobra.NoArgs,
	RunE:  runSuites,
}

func init() {
	coverageCmd.Flags().Int("fail-under", 0, "Fail when total coverage is below this percentage (default from config)")
	coverageCmd.Flags().Bool("no-report", false, "Skip writing the merged profile and HTML report")

	rootCmd.AddCommand(testCmd, coverageCmd, suitesCmd)
}

// splitAtDash separates positional arguments from those after "--".
func splitAtDash(cmd *cobra.Command, args []string) (names, extra []string) {
	if at := cmd.ArgsLenAtDash(); at >= 0 {
		return args[:at], args[at:]
	}
	return args, nil
}

func runTest(cmd *cobra.Command, args []string) error {
	names, extra := splitAtDash(cmd, args)

	runner := deps.Suites()
	runner.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())

	if len(names) == 0 {
		return runner.RunAll(cmd.Context(), extra)
	}
	return runner.RunNamed(cmd.Context(), names, extra)
}

func runCoverage(cmd *cobra.Command, _ []string) error {
	opts := coverage.Options{FailUnder: deps.Config.Coverage.FailUnder}
	if cmd.Flags().Changed("fail-under") {
		opts.FailUnder, _ = cmd.Flags().GetInt("fail-under")
	}
	opts.NoReport, _ = cmd.Flags().GetBool("no-report")

	runner := deps.Coverage()
	runner.SetOutput(cmd.OutOrStdout())

	report, err := runner.Run(cmd.Context(), opts)
	if report != nil && len(report.FailedSuites) > 0 {
		deps.Logger.Warn("coverage measured over failing suites", "suites", report.FailedSuites)
	}
	return err
}

func runSuites(cmd *cobra.Command, _ []string) error {
	reg := deps.Suites().Registry()

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Suite", "Packages", "Flags", "Env"})
	for _, s := range reg.All() {
		env := make([]string, 0, len(s.Env))
		for k, v := range s.Env {
			env = append(env, k+"="+v)
		}
		slices.Sort(env)
		t.AppendRow(table.Row{s.Name, strings.Join(s.Packages, " "), strings.Join(s.Flags, " "), strings.Join(env, " ")})
	}
	t.Render()

	if reg.IsFallback() {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), deps.Theme.Muted("No suites configured; using the default unit suite."))
	}
	return nil
}
