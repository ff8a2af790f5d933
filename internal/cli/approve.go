package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modu-ai/devkit/internal/github"
	"github.com/modu-ai/devkit/internal/policy"
	"github.com/modu-ai/devkit/internal/ui"
)

var approveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Apply the pull request approval policy",
	Long: `Decide whether to approve a pull request and apply the decision through
the gh CLI. Owner pull requests are approved. Dependency bot pull requests
are approved for patch and minor updates and for major updates of
development dependencies; major updates of production dependencies get a
comment, the manual QA label and the owner as assignee. Auto-merge is
enabled for every dependency bot pull request.

Missing --author, --owner or update metadata are read from the pull
request and the bot's commit message.`,
	Args: cobra.NoArgs,
	RunE: runApprove,
}

func init() {
	f := approveCmd.Flags()
	f.String("pr-url", "", "Pull request URL")
	f.String("author", "", "Pull request author login")
	f.String("owner", "", "Repository owner login")
	f.String("update-type", "", "Update type, e.g. version-update:semver-minor")
	f.String("dependency-type", "", "Dependency type: direct:production, direct:development or indirect")
	f.Bool("dry-run", false, "Print the decision without applying it")
	_ = approveCmd.MarkFlagRequired("pr-url")

	rootCmd.AddCommand(approveCmd)
}

func runApprove(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	f := cmd.Flags()

	prURL, _ := f.GetString("pr-url")
	author, _ := f.GetString("author")
	owner, _ := f.GetString("owner")
	updateType, _ := f.GetString("update-type")
	dependencyType, _ := f.GetString("dependency-type")
	dryRun, _ := f.GetBool("dry-run")

	rules := policy.Rules{
		BotLogin:      deps.Config.Approval.BotLogin,
		ManualQALabel: deps.Config.Approval.ManualQALabel,
		MergeMethod:   deps.Config.Approval.MergeMethod,
	}

	in, err := resolveApprovalInput(ctx, deps.GitHub, prURL, rules, policy.Input{
		Author: author,
		Owner:  owner,
		Metadata: policy.Metadata{
			UpdateType:     policy.UpdateType(updateType),
			DependencyType: policy.DependencyType(dependencyType),
		},
	})
	if err != nil {
		return err
	}

	decision := policy.Evaluate(in, rules)
	deps.Logger.Info("approval decision", "pr", prURL, "author", in.Author, "reason", decision.Reason)

	rendered, err := ui.RenderMarkdown(deps.Theme, deps.Headless, decision.Markdown())
	if err != nil {
		rendered = decision.Markdown()
	}
	_, _ = fmt.Fprint(cmd.OutOrStdout(), rendered)

	if dryRun || decision.NoAction() {
		return nil
	}
	return policy.Apply(ctx, deps.GitHub, prURL, decision)
}

// resolveApprovalInput fills what the flags left out: the owner from the
// URL, the author from the pull request, and the update metadata from the
// bot's commit messages. The pull request is only viewed when needed.
func resolveApprovalInput(ctx context.Context, gh github.GHClient, prURL string, rules policy.Rules, in policy.Input) (policy.Input, error) {
	if in.Owner == "" {
		owner, err := github.ExtractOwner(prURL)
		if err != nil {
			return in, err
		}
		in.Owner = owner
	}

	needsMetadata := in.Metadata.UpdateType == "" || in.Metadata.DependencyType == ""
	if in.Author != "" && (in.Author != rules.BotLogin || !needsMetadata) {
		return in, nil
	}

	pr, err := gh.PRView(ctx, prURL)
	if err != nil {
		return in, fmt.Errorf("view pull request: %w", err)
	}
	if in.Author == "" {
		in.Author = pr.Author.Login
	}

	if in.Author != rules.BotLogin || !needsMetadata {
		return in, nil
	}
	for _, c := range pr.Commits {
		md, err := policy.ParseMetadata(c.Message())
		if errors.Is(err, policy.ErrNoMetadata) {
			continue
		}
		if err != nil {
			return in, err
		}
		if in.Metadata.UpdateType == "" {
			in.Metadata.UpdateType = md.UpdateType
		}
		if in.Metadata.DependencyType == "" {
			in.Metadata.DependencyType = md.DependencyType
		}
		break
	}
	return in, nil
}
