package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modu-ai/devkit/internal/workflow"
)

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Create or delete GitHub Actions workflows",
}

var workflowTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Manage the Go test workflow",
}

var workflowTestCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create .github/workflows/go-test.yml and the build action",
	Long: `Create the test workflow. Jobs are chosen with --tests (job ids or ALL)
or, when omitted, by yes/no prompts. Jobs the gate waits for are chosen
with --required (job ids, ALL or NONE) or prompts. Without a terminal
every prompt takes its default (yes).`,
	Args: cobra.NoArgs,
	RunE: runWorkflowTestCreate,
}

var workflowTestDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete .github/workflows/go-test.yml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return deleteWorkflow(cmd, workflow.TestWorkflowID)
	},
}

var workflowApprovalCmd = &cobra.Command{
	Use:   "approval",
	Short: "Manage the pull request approval workflow",
}

var workflowApprovalCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create .github/workflows/approval-bot.yml",
	Long: `Create the approval workflow with the jobs selected by flags:
--owner approves pull requests opened by the repository owner,
--dependabot applies the dependency update policy (implies --clear-automerge),
--commit-linter lints the commit messages of the pull request.`,
	Args: cobra.NoArgs,
	RunE: runWorkflowApprovalCreate,
}

var workflowApprovalDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete .github/workflows/approval-bot.yml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return deleteWorkflow(cmd, workflow.ApprovalWorkflowID)
	},
}

var actionCmd = &cobra.Command{
	Use:   "action",
	Short: "Create or delete composite actions",
}

var actionBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Manage the shared build action",
}

var actionBuildCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create .github/actions/build/action.yml",
	Args:  cobra.NoArgs,
	RunE:  runActionBuildCreate,
}

var actionBuildDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete .github/actions/build/action.yml",
	Args:  cobra.NoArgs,
	RunE:  runActionBuildDelete,
}

func init() {
	f := workflowTestCreateCmd.Flags()
	f.StringSlice("tests", nil, "Jobs to include (job ids or ALL); prompts when omitted")
	f.StringSlice("required", nil, "Jobs the gate requires (job ids, ALL or NONE); prompts when omitted")
	f.Int("coverage-fail-under", 0, "Coverage threshold passed to the coverage job")
	f.Bool("coverage-fail-regressed", false, "Fail when coverage regresses (not implemented)")

	af := workflowApprovalCreateCmd.Flags()
	af.Bool("owner", false, "Approve pull requests opened by the repository owner")
	af.Bool("dependabot", false, "Apply the dependency update approval policy")
	af.Bool("commit-linter", false, "Lint commit messages")
	af.Bool("clear-automerge", false, "Disable auto-merge on every pull request update")

	workflowTestCmd.AddCommand(workflowTestCreateCmd, workflowTestDeleteCmd)
	workflowApprovalCmd.AddCommand(workflowApprovalCreateCmd, workflowApprovalDeleteCmd)
	workflowCmd.AddCommand(workflowTestCmd, workflowApprovalCmd)

	actionBuildCmd.AddCommand(actionBuildCreateCmd, actionBuildDeleteCmd)
	actionCmd.AddCommand(actionBuildCmd)

	rootCmd.AddCommand(workflowCmd, actionCmd)
}

func runWorkflowTestCreate(cmd *cobra.Command, _ []string) error {
	opts := workflow.TestOptions{}
	opts.Tests, _ = cmd.Flags().GetStringSlice("tests")
	if cmd.Flags().Changed("required") {
		required, _ := cmd.Flags().GetStringSlice("required")
		opts.Required = append([]string{}, required...)
	}
	opts.CoverageFailUnder = deps.Config.Coverage.FailUnder
	opts.CoverageDir = deps.Config.Coverage.Dir
	if cmd.Flags().Changed("coverage-fail-under") {
		opts.CoverageFailUnder, _ = cmd.Flags().GetInt("coverage-fail-under")
	}
	opts.CoverageFailRegressed, _ = cmd.Flags().GetBool("coverage-fail-regressed")

	reg := deps.Suites().Registry()
	var suites []string
	if !reg.IsFallback() {
		suites = reg.Names()
	}

	gen := workflow.NewTestGenerator(deps.Config.Workflow, suites, deps.Prompter())
	wf, err := gen.Generate(opts)
	if err != nil {
		return err
	}

	w := workflow.NewWriter(deps.Root)
	actionPath, err := w.WriteAction(workflow.BuildActionID, workflow.BuildAction(deps.Config.Workflow))
	if err != nil {
		return err
	}
	wfPath, err := w.WriteWorkflow(workflow.TestWorkflowID, wf)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), deps.Theme.SuccessCard(
		"Test workflow created",
		"  - "+relPath(wfPath),
		"  - "+relPath(actionPath),
		"",
		fmt.Sprintf("Jobs: %v", wf.Jobs.IDs()),
	))
	return nil
}

func runWorkflowApprovalCreate(cmd *cobra.Command, _ []string) error {
	var opts workflow.ApprovalOptions
	opts.Owner, _ = cmd.Flags().GetBool("owner")
	opts.Dependabot, _ = cmd.Flags().GetBool("dependabot")
	opts.CommitLinter, _ = cmd.Flags().GetBool("commit-linter")
	opts.ClearAutoMerge, _ = cmd.Flags().GetBool("clear-automerge")

	gen := workflow.NewApprovalGenerator(deps.Config.Workflow, deps.Config.Approval)
	wf, err := gen.Generate(opts)
	if err != nil {
		return err
	}

	w := workflow.NewWriter(deps.Root)
	details := []string{}
	if opts.Dependabot || opts.CommitLinter {
		actionPath, err := w.WriteAction(workflow.BuildActionID, workflow.BuildAction(deps.Config.Workflow))
		if err != nil {
			return err
		}
		details = append(details, "  - "+relPath(actionPath))
	}
	wfPath, err := w.WriteWorkflow(workflow.ApprovalWorkflowID, wf)
	if err != nil {
		return err
	}
	details = append([]string{"  - " + relPath(wfPath)}, details...)

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), deps.Theme.SuccessCard("Approval workflow created", details...))
	return nil
}

func deleteWorkflow(cmd *cobra.Command, id string) error {
	w := workflow.NewWriter(deps.Root)
	removed, err := w.DeleteWorkflow(id)
	if err != nil {
		return err
	}
	reportDeleted(cmd, removed, w.WorkflowPath(id))
	return nil
}

func runActionBuildCreate(cmd *cobra.Command, _ []string) error {
	path, err := workflow.NewWriter(deps.Root).WriteAction(workflow.BuildActionID, workflow.BuildAction(deps.Config.Workflow))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), deps.Theme.SuccessCard("Build action created", "  - "+relPath(path)))
	return nil
}

func runActionBuildDelete(cmd *cobra.Command, _ []string) error {
	w := workflow.NewWriter(deps.Root)
	removed, err := w.DeleteAction(workflow.BuildActionID)
	if err != nil {
		return err
	}
	reportDeleted(cmd, removed, w.ActionPath(workflow.BuildActionID))
	return nil
}

func reportDeleted(cmd *cobra.Command, removed bool, path string) {
	if !removed {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), deps.Theme.Muted(relPath(path)+" does not exist; nothing to delete."))
		return
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), deps.Theme.SuccessCard("Deleted", "  - "+relPath(path)))
}

// relPath renders path relative to the project root when possible.
func relPath(path string) string {
	if rel, err := filepath.Rel(deps.Root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
