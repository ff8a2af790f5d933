package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modu-ai/devkit/internal/config"
	"github.com/modu-ai/devkit/internal/defs"
	"github.com/modu-ai/devkit/internal/imports"
	"github.com/modu-ai/devkit/internal/template"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default devkit and linter configuration",
	Long: `Write .devkit.yaml and .golangci.yml to the project root. Existing files
are kept unless --force is given. The default import contract forbids
internal/core from importing internal/cli and cmd.

CI steps call "go tool devkit" when go.mod declares devkit as a tool
(go get -tool github.com/modu-ai/devkit/cmd/devkit), otherwise "go run"
of the devkit package at this version.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing files")
	initCmd.Flags().Int("coverage-fail-under", 0, "Coverage threshold written to .devkit.yaml")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")
	failUnder, _ := cmd.Flags().GetInt("coverage-fail-under")

	opts := []template.ContextOption{template.WithCoverageFailUnder(failUnder)}
	if modulePath, err := imports.ModulePath(deps.Root); err == nil {
		opts = append(opts, template.WithModulePath(modulePath))
	} else {
		deps.Logger.Debug("no module path for templates", "error", err)
	}

	goMod, err := os.ReadFile(filepath.Join(deps.Root, defs.GoMod))
	if err != nil {
		deps.Logger.Debug("no go.mod for workflow command", "error", err)
	}
	command := template.WorkflowCommand(goMod)
	opts = append(opts, template.WithCommand(command))

	fsys := template.Files()
	deployer := template.NewDeployer(fsys, template.NewRenderer(fsys), force)
	results, err := deployer.Deploy(cmd.Context(), deps.Root, template.NewTemplateContext(opts...))
	if err != nil {
		return fmt.Errorf("deploy templates: %w", err)
	}

	details := make([]string, 0, len(results))
	for _, r := range results {
		details = append(details, fmt.Sprintf("  - %s (%s)", r.Path, r.Action))
	}
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, deps.Theme.SuccessCard("Project configuration initialized", details...))
	if command != config.DefaultCommand {
		_, _ = fmt.Fprintln(out, deps.Theme.Muted(fmt.Sprintf(
			"CI runs %q. Run `go get -tool %s` to pin devkit in go.mod and use %q instead.",
			command, defs.ToolPackage, config.DefaultCommand)))
	}
	return nil
}
