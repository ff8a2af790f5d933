package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/modu-ai/devkit/internal/command"
	"github.com/modu-ai/devkit/internal/imports"
	"github.com/modu-ai/devkit/internal/ui"
)

var importsCmd = &cobra.Command{
	Use:   "imports",
	Short: "Check import-boundary contracts",
	Long: `Load the module's packages and check the import contracts configured in
.devkit.yaml. Each contract forbids a source package and its subpackages
from importing a set of packages, directly or, when transitive, through
other packages.`,
	Args: cobra.NoArgs,
	RunE: runImports,
}

func init() {
	rootCmd.AddCommand(importsCmd)
}

func runImports(cmd *cobra.Command, _ []string) error {
	return checkImports(cmd.Context(), cmd.OutOrStdout(), true)
}

// checkImports loads the package graph and reports contract violations to
// out. A spinner runs while packages load when spin is set.
func checkImports(ctx context.Context, out io.Writer, spin bool) error {
	cfgs := deps.Config.Imports.Contracts
	if len(cfgs) == 0 {
		_, _ = fmt.Fprintln(out, deps.Theme.Muted("No import contracts configured."))
		return nil
	}

	modulePath, err := imports.ModulePath(deps.Root)
	if err != nil {
		return err
	}
	contracts := imports.FromConfig(cfgs, modulePath)

	var spinner ui.Spinner
	if spin {
		spinner = ui.NewSpinner(deps.Theme, deps.Headless, out, "Loading packages...")
	}
	graph, err := imports.LoadGraph(ctx, deps.Root)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	if err := imports.Validate(contracts, graph); err != nil {
		return command.Failf("invalid import contracts:\n%v", err)
	}

	violations := imports.Check(contracts, graph)
	broken := make(map[string]bool)
	for _, v := range violations {
		broken[v.Contract] = true
		_, _ = fmt.Fprintf(out, "%s %s: %s\n", deps.Theme.Error("✗"), v.Contract, v.String())
	}
	for _, c := range contracts {
		if !broken[c.Name] {
			_, _ = fmt.Fprintf(out, "%s %s\n", deps.Theme.Success("✓"), c.Name)
		}
	}

	_, _ = fmt.Fprintf(out, "Contracts: %d kept, %d broken.\n", len(contracts)-len(broken), len(broken))
	if len(broken) > 0 {
		return command.Failf("%d import contract(s) broken", len(broken))
	}
	return nil
}
