// Package git reads commit history through the git CLI.
package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modu-ai/devkit/internal/command"
)

// ErrEmptyRange indicates a revision range without both ends.
var ErrEmptyRange = errors.New("git: revision range needs both from and to")

// Record and field separators in the log format.
const (
	recordSep = "\x1e"
	fieldSep  = "\x1f"
	logFormat = "--format=%H" + fieldSep + "%an" + fieldSep + "%P" + fieldSep + "%B" + recordSep
)

// Commit is one commit of a range.
type Commit struct {
	Hash    string
	Author  string
	Parents []string
	Message string
}

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

// ShortHash returns the first seven characters of the hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// Log returns the commits reachable from to but not from, oldest first.
func Log(ctx context.Context, runner command.Runner, dir, from, to string) ([]Commit, error) {
	if from == "" || to == "" {
		return nil, ErrEmptyRange
	}

	out, err := runner.Output(ctx, command.Invocation{
		Name: "git",
		Args: []string{"log", "--reverse", logFormat, from + ".." + to},
		Dir:  dir,
	})
	if err != nil {
		return nil, fmt.Errorf("git log %s..%s: %w", from, to, err)
	}
	return parseLog(out), nil
}

func parseLog(out string) []Commit {
	var commits []Commit
	for record := range strings.SplitSeq(out, recordSep) {
		record = strings.TrimLeft(record, "\n")
		if strings.TrimSpace(record) == "" {
			continue
		}
		fields := strings.SplitN(record, fieldSep, 4)
		if len(fields) < 4 {
			continue
		}
		commits = append(commits, Commit{
			Hash:    fields[0],
			Author:  fields[1],
			Parents: strings.Fields(fields[2]),
			Message: strings.TrimRight(fields[3], "\n"),
		})
	}
	return commits
}
