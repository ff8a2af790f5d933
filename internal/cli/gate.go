package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/modu-ai/devkit/internal/command"
	"github.com/modu-ai/devkit/internal/gate"
	"github.com/modu-ai/devkit/internal/workflow"
)

// envNeedsJSON carries the JSON rendering of the workflow's needs context.
const envNeedsJSON = "NEEDS_JSON"

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Aggregate CI job results into one pass/fail status",
	Long: `Read the needs context of a GitHub Actions job (--needs or the
NEEDS_JSON environment variable) and fail when any job result is neither
success nor skipped. With --required only the listed jobs are considered
and a required job missing from the input fails.`,
	Args: cobra.NoArgs,
	RunE: runGate,
}

func init() {
	gateCmd.Flags().String("needs", "", "JSON object of job results (default $NEEDS_JSON)")
	gateCmd.Flags().StringSlice("required", nil, "Jobs that must pass (default all given jobs)")

	rootCmd.AddCommand(gateCmd)
}

func runGate(cmd *cobra.Command, _ []string) error {
	needs, _ := cmd.Flags().GetString("needs")
	if !cmd.Flags().Changed("needs") {
		needs = os.Getenv(envNeedsJSON)
	}
	required, _ := cmd.Flags().GetStringSlice("required")
	if len(required) == 1 && required[0] == workflow.KeywordAll {
		required = nil
	}

	results, err := gate.ParseNeeds([]byte(needs))
	if err != nil {
		return err
	}
	verdict := gate.Evaluate(results, required)

	out := cmd.OutOrStdout()
	if len(verdict.Results) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Job", "Result"})
		for _, r := range verdict.Results {
			result := deps.Theme.Success(r.Result)
			if !r.Passed() {
				result = deps.Theme.Error(r.Result)
			}
			t.AppendRow(table.Row{r.Job, result})
		}
		t.Render()
	}

	if !verdict.Passed() {
		for _, r := range verdict.Failed {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "job %s: %s\n", r.Job, r.Result)
		}
		return command.Failf("%s", verdict.Message())
	}
	_, _ = fmt.Fprintln(out, verdict.Message())
	return nil
}
