package convention

import (
	"strings"

	"github.com/modu-ai/devkit/internal/git"
)

// CommitResult pairs a commit with its validation outcome.
type CommitResult struct {
	Commit  git.Commit
	Result  ValidationResult
	Skipped bool
	Reason  string
}

// Linter validates commit ranges.
type Linter struct {
	conv     *Convention
	botLogin string
}

// NewLinter creates a Linter. Commits authored by botLogin are skipped.
func NewLinter(conv *Convention, botLogin string) *Linter {
	return &Linter{conv: conv, botLogin: botLogin}
}

// LintCommits validates each commit, skipping merges and bot commits.
func (l *Linter) LintCommits(commits []git.Commit) []CommitResult {
	results := make([]CommitResult, 0, len(commits))
	for _, c := range commits {
		switch {
		case c.IsMerge() || strings.HasPrefix(c.Message, "Merge "):
			results = append(results, CommitResult{Commit: c, Skipped: true, Reason: "merge commit"})
		case l.botLogin != "" && c.Author == l.botLogin:
			results = append(results, CommitResult{Commit: c, Skipped: true, Reason: "dependency bot commit"})
		default:
			results = append(results, CommitResult{Commit: c, Result: Validate(c.Message, l.conv)})
		}
	}
	return results
}

// LintMessages validates plain messages.
func (l *Linter) LintMessages(messages []string) []ValidationResult {
	results := make([]ValidationResult, len(messages))
	for i, m := range messages {
		results[i] = Validate(m, l.conv)
	}
	return results
}

// Failed counts the invalid, non-skipped commit results.
func Failed(results []CommitResult) int {
	n := 0
	for _, r := range results {
		if !r.Skipped && !r.Result.Valid {
			n++
		}
	}
	return n
}
