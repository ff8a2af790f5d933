package cli

import (
	"github.com/spf13/cobra"

	"github.com/modu-ai/devkit/internal/tools"
)

var formatCmd = &cobra.Command{
	Use:   "format [files...]",
	Short: "Format Go sources",
	Long: `Run the configured formatter (gofmt by default) on the given files, or on
the configured default targets when none are given. With --check, list
unformatted files and fail instead of rewriting them.`,
	RunE: runFormat,
}

var lintCmd = &cobra.Command{
	Use:   "lint [files...]",
	Short: "Run the linter",
	Long: `Run the configured linter (golangci-lint run by default) on the given
files, or on the configured default targets when none are given. Files
that do not match the configured extensions or match an exclusion are
dropped; nothing to lint is a success.`,
	RunE: runLint,
}

var typecheckCmd = &cobra.Command{
	Use:   "typecheck [files...]",
	Short: "Run the static type checker",
	Long: `Run the configured type checker (go vet by default) on the given files,
or on the configured default targets when none are given.`,
	RunE: runTypecheck,
}

func init() {
	formatCmd.Flags().Bool("check", false, "List unformatted files and fail instead of rewriting")
	lintCmd.Flags().Bool("fix", false, "Apply automatic fixes")

	rootCmd.AddCommand(formatCmd, lintCmd, typecheckCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	check, _ := cmd.Flags().GetBool("check")
	_, err := deps.Formatter().Run(cmd.Context(), tools.SplitFileArgs(args), check, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return err
}

func runLint(cmd *cobra.Command, args []string) error {
	fix, _ := cmd.Flags().GetBool("fix")
	_, err := deps.Linter().Run(cmd.Context(), tools.SplitFileArgs(args), fix, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return err
}

func runTypecheck(cmd *cobra.Command, args []string) error {
	_, err := deps.TypeChecker().Run(cmd.Context(), tools.SplitFileArgs(args), cmd.OutOrStdout(), cmd.ErrOrStderr())
	return err
}
