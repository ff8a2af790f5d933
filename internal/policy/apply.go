package policy

import (
	"context"
	"fmt"
	"log/slog"
)

// Actions performs pull request operations. The GitHub client satisfies it.
type Actions interface {
	Approve(ctx context.Context, prURL, body string) error
	Comment(ctx context.Context, prURL, body string) error
	AddLabels(ctx context.Context, prURL string, labels ...string) error
	AddAssignees(ctx context.Context, prURL string, assignees ...string) error
	EnableAutoMerge(ctx context.Context, prURL, method string) error
	DisableAutoMerge(ctx context.Context, prURL string) error
}

// Apply executes d against the pull request at prURL. Failing to clear
// auto-merge is logged and ignored; every other failure stops the run.
func Apply(ctx context.Context, a Actions, prURL string, d Decision) error {
	logger := slog.Default().With("module", "policy", "pr", prURL)

	if d.ClearAutoMerge {
		if err := a.DisableAutoMerge(ctx, prURL); err != nil {
			logger.Info("clear auto-merge failed, continuing", "error", err)
		}
	}
	if d.Approve {
		if err := a.Approve(ctx, prURL, d.ApprovalBody); err != nil {
			return fmt.Errorf("approve: %w", err)
		}
	}
	if d.Comment != "" {
		if err := a.Comment(ctx, prURL, d.Comment); err != nil {
			return fmt.Errorf("comment: %w", err)
		}
	}
	if len(d.Labels) > 0 {
		if err := a.AddLabels(ctx, prURL, d.Labels...); err != nil {
			return fmt.Errorf("add labels: %w", err)
		}
	}
	if len(d.Assignees) > 0 {
		if err := a.AddAssignees(ctx, prURL, d.Assignees...); err != nil {
			return fmt.Errorf("add assignees: %w", err)
		}
	}
	if d.EnableAutoMerge {
		if err := a.EnableAutoMerge(ctx, prURL, d.MergeMethod); err != nil {
			return fmt.Errorf("enable auto-merge: %w", err)
		}
	}

	logger.Debug("decision applied", "approve", d.Approve, "reason", d.Reason)
	return nil
}
