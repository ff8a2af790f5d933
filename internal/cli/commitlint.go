package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modu-ai/devkit/internal/command"
	"github.com/modu-ai/devkit/internal/git"
	"github.com/modu-ai/devkit/internal/git/convention"
)

var commitlintCmd = &cobra.Command{
	Use:   "commitlint [message...]",
	Short: "Check commit messages against Conventional Commits",
	Long: `Validate the given messages, or the commits in --from..--to, against the
Conventional Commits format with the configured types, scopes and header
length. Merge commits and dependency bot commits are skipped.`,
	RunE: runCommitlint,
}

func init() {
	commitlintCmd.Flags().String("from", "", "Base revision (exclusive)")
	commitlintCmd.Flags().String("to", "", "Head revision (inclusive)")
	commitlintCmd.MarkFlagsRequiredTogether("from", "to")

	rootCmd.AddCommand(commitlintCmd)
}

func runCommitlint(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	linter := convention.NewLinter(convention.FromConfig(deps.Config.Commits), deps.Config.Approval.BotLogin)

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	if len(args) > 0 {
		failed := 0
		for _, r := range linter.LintMessages(args) {
			if !r.Valid {
				failed++
			}
			printValidation(out, header(r.Message), r)
		}
		return commitlintResult(failed)
	}

	if from == "" {
		return fmt.Errorf("commitlint: give messages or --from and --to")
	}

	commits, err := git.Log(cmd.Context(), deps.Runner, deps.Root, from, to)
	if err != nil {
		return err
	}
	results := linter.LintCommits(commits)
	for _, r := range results {
		label := r.Commit.ShortHash() + " " + header(r.Commit.Message)
		if r.Skipped {
			_, _ = fmt.Fprintf(out, "%s %s (%s)\n", deps.Theme.Muted("-"), label, r.Reason)
			continue
		}
		printValidation(out, label, r.Result)
	}
	return commitlintResult(convention.Failed(results))
}

func printValidation(w io.Writer, label string, r convention.ValidationResult) {
	if r.Valid {
		_, _ = fmt.Fprintf(w, "%s %s\n", deps.Theme.Success("✓"), label)
		return
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", deps.Theme.Error("✗"), label)
	for _, v := range r.Violations {
		_, _ = fmt.Fprintf(w, "    %s\n", v.String())
		if v.Suggestion != "" {
			_, _ = fmt.Fprintf(w, "    %s\n", deps.Theme.Muted("suggestion: "+v.Suggestion))
		}
	}
}

func commitlintResult(failed int) error {
	if failed > 0 {
		return command.Failf("%d commit message(s) do not follow the convention", failed)
	}
	return nil
}

// header returns the first line of a commit message.
func header(message string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(message), "\n")
	return first
}
