package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/modu-ai/devkit/internal/command"
	"github.com/modu-ai/devkit/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "devkit",
	Short: "Project tooling for Go repositories",
	Long: `devkit wraps the formatter, linter, type checker, test runner and
coverage tool behind stable entry points, checks import boundaries,
generates the GitHub Actions workflows that call those entry points, and
runs the CI gate, approval policy and commit linter inside them.`,
	Version:           version.GetVersion(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: ensureDependencies,
}

// Execute runs the root command and returns the process exit code. Tool
// exit codes are forwarded; messages of devkit's own failures go to stderr.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return command.ExitCode(err)
}

// printError reports err unless it is a bare tool exit whose output the
// tool already printed.
func printError(w io.Writer, err error) {
	var exitErr *command.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			_, _ = fmt.Fprintln(w, exitErr.Message)
		}
		return
	}
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("devkit %s\n", version.GetVersion()))

	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Never prompt; use default answers")
}
