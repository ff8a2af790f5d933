package workflow

import (
	"fmt"
	"slices"
	"strings"

	"github.com/modu-ai/devkit/internal/config"
)

// Approval workflow identity and job ids.
const (
	ApprovalWorkflowID   = "approval-bot"
	ApprovalWorkflowName = "Approval Bot"

	JobClearAutoMerge   = "clear-automerge"
	JobApproveOwner     = "auto-approve-owner"
	JobApproveBot       = "auto-approve-dependabot"
	JobCommitLinter     = "commit-linter"
	metadataStepID      = "dependabot-metadata"
	metadataOutputsExpr = "steps." + metadataStepID + ".outputs"
)

// ApprovalOptions selects the jobs of the approval workflow.
type ApprovalOptions struct {
	Owner          bool
	Dependabot     bool
	CommitLinter   bool
	ClearAutoMerge bool
}

// ApprovalGenerator builds the pull request approval workflow.
type ApprovalGenerator struct {
	cfg      config.WorkflowConfig
	approval config.ApprovalConfig
}

// NewApprovalGenerator creates an approval workflow generator.
func NewApprovalGenerator(cfg config.WorkflowConfig, approval config.ApprovalConfig) *ApprovalGenerator {
	return &ApprovalGenerator{cfg: cfg, approval: approval}
}

// Generate returns the approval workflow. Dependabot implies ClearAutoMerge.
func (g *ApprovalGenerator) Generate(opts ApprovalOptions) (*Workflow, error) {
	jobs := NewJobs()
	isBot := fmt.Sprintf("${{ github.event.pull_request.user.login == '%s' }}", g.approval.BotLogin)
	notBot := fmt.Sprintf("${{ github.event.pull_request.user.login != '%s' }}", g.approval.BotLogin)

	if opts.ClearAutoMerge || opts.Dependabot {
		jobs.Set(JobClearAutoMerge, Job{
			Name:   "Clear automerge",
			RunsOn: g.cfg.RunsOn,
			Steps: []Step{{
				Name: "Disable auto-merge",
				Run:  `gh pr merge --disable-auto "$PR_URL" || true`,
				Env:  prEnv(),
			}},
		})
	}

	if opts.Owner {
		jobs.Set(JobApproveOwner, Job{
			Name:   "Auto approve owner",
			RunsOn: g.cfg.RunsOn,
			If:     "${{ github.event.pull_request.user.login == github.repository_owner }}",
			Steps: []Step{{
				Name: "Auto approve owner",
				Run:  `gh pr review "$PR_URL" --approve`,
				Env:  prEnv(),
			}},
		})
	}

	if opts.Dependabot {
		env := prEnv()
		env["PR_AUTHOR"] = "${{ github.event.pull_request.user.login }}"
		env["REPO_OWNER"] = "${{ github.repository_owner }}"
		env["UPDATE_TYPE"] = "${{ " + metadataOutputsExpr + ".update-type }}"
		env["DEPENDENCY_TYPE"] = "${{ " + metadataOutputsExpr + ".dependency-type }}"

		jobs.Set(JobApproveBot, Job{
			Name:   "Auto approve dependabot",
			RunsOn: g.cfg.RunsOn,
			Needs:  []string{JobClearAutoMerge},
			If:     isBot,
			Steps: []Step{
				checkoutStep(),
				buildStep(),
				{
					Name: "Dependabot metadata",
					ID:   metadataStepID,
					Uses: fetchMetaAction,
				},
				{
					Name: "Apply approval policy",
					Run: strings.Join([]string{
						g.cfg.Command, "approve",
						`--pr-url "$PR_URL"`,
						`--author "$PR_AUTHOR"`,
						`--owner "$REPO_OWNER"`,
						`--update-type "$UPDATE_TYPE"`,
						`--dependency-type "$DEPENDENCY_TYPE"`,
					}, " "),
					Env: env,
				},
			},
		})
	}

	if opts.CommitLinter {
		jobs.Set(JobCommitLinter, Job{
			Name:   "Commit linter",
			RunsOn: g.cfg.RunsOn,
			If:     notBot,
			Steps: []Step{
				{
					Name: "Checkout",
					Uses: checkoutAction,
					With: map[string]string{"fetch-depth": "0"},
				},
				buildStep(),
				{
					Name: "Check commit messages",
					Run:  g.cfg.Command + ` commitlint --from "$BASE_SHA" --to "$HEAD_SHA"`,
					Env: map[string]string{
						"BASE_SHA": "${{ github.event.pull_request.base.sha }}",
						"HEAD_SHA": "${{ github.event.pull_request.head.sha }}",
					},
				},
			},
		})
	}

	if jobs.Len() == 0 {
		return nil, ErrNoJobs
	}

	return &Workflow{
		Name:    ApprovalWorkflowName,
		RunName: ApprovalWorkflowID,
		Permissions: map[string]string{
			"contents":      "write",
			"pull-requests": "write",
		},
		On: Triggers{
			PullRequest: &BranchFilter{Branches: slices.Clone(g.cfg.Branches)},
		},
		Jobs: jobs,
	}, nil
}
