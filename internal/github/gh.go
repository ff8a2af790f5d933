// Package github drives pull request operations through the gh CLI.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/modu-ai/devkit/internal/policy"
)

// ghBin caches the resolved gh binary path to avoid repeated exec.LookPath calls.
var (
	ghBinOnce sync.Once
	ghBinPath string
	ghBinErr  error
)

// MergeMethod represents the Git merge strategy for a PR.
type MergeMethod string

const (
	// MergeMethodMerge creates a merge commit.
	MergeMethodMerge MergeMethod = "merge"

	// MergeMethodSquash squashes all commits into one.
	MergeMethodSquash MergeMethod = "squash"

	// MergeMethodRebase rebases commits onto the base branch.
	MergeMethodRebase MergeMethod = "rebase"
)

// flag returns the gh pr merge flag for the method.
func (m MergeMethod) flag() (string, error) {
	switch m {
	case MergeMethodMerge, MergeMethodSquash, MergeMethodRebase:
		return "--" + string(m), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMergeMethod, m)
	}
}

// User is a GitHub account reference.
type User struct {
	Login string `json:"login"`
}

// Commit is one commit of a pull request.
type Commit struct {
	OID             string `json:"oid"`
	MessageHeadline string `json:"messageHeadline"`
	MessageBody     string `json:"messageBody"`
}

// Message returns the full commit message.
func (c Commit) Message() string {
	if c.MessageBody == "" {
		return c.MessageHeadline
	}
	return c.MessageHeadline + "\n\n" + c.MessageBody
}

// PRDetails holds information about an existing pull request.
type PRDetails struct {
	Number    int      `json:"number"`
	Title     string   `json:"title"`
	State     string   `json:"state"`
	URL       string   `json:"url"`
	Author    User     `json:"author"`
	Assignees []User   `json:"assignees"`
	Commits   []Commit `json:"commits"`
}

// GHClient abstracts GitHub CLI (gh) operations for testability.
type GHClient interface {
	policy.Actions

	// PRView retrieves pull request details by URL.
	PRView(ctx context.Context, prURL string) (*PRDetails, error)

	// IsAuthenticated checks whether gh is authenticated.
	IsAuthenticated(ctx context.Context) error
}

// execFunc is the function signature for executing gh CLI commands.
// Used for dependency injection in tests.
type execFunc func(ctx context.Context, dir string, args ...string) (string, error)

// ghClient implements GHClient using the gh CLI binary.
type ghClient struct {
	root   string
	logger *slog.Logger
	// execFn is the function used to execute gh commands.
	// If nil, the package-level execGH function is used.
	execFn execFunc
}

// Compile-time interface compliance check.
var _ GHClient = (*ghClient)(nil)

// NewGHClient creates a new GitHub CLI client rooted at the given directory.
func NewGHClient(root string) *ghClient {
	return &ghClient{
		root:   root,
		logger: slog.Default().With("module", "github"),
	}
}

// newGHClientWithExec creates a ghClient with a custom exec function for testing.
func newGHClientWithExec(root string, fn execFunc) *ghClient {
	return &ghClient{
		root:   root,
		logger: slog.Default().With("module", "github"),
		execFn: fn,
	}
}

// exec runs a gh command using execFn if set, otherwise falls back to execGH.
func (c *ghClient) exec(ctx context.Context, args ...string) (string, error) {
	if c.execFn != nil {
		return c.execFn(ctx, c.root, args...)
	}
	return execGH(ctx, c.root, args...)
}

// IsAuthenticated checks whether the gh CLI is authenticated.
func (c *ghClient) IsAuthenticated(ctx context.Context) error {
	_, err := c.exec(ctx, "auth", "status")
	if err != nil {
		return fmt.Errorf("check auth: %w", ErrGHNotAuthenticated)
	}
	return nil
}

// PRView retrieves pull request details including author, assignees and
// commits.
func (c *ghClient) PRView(ctx context.Context, prURL string) (*PRDetails, error) {
	if _, err := ExtractPRNumber(prURL); err != nil {
		return nil, err
	}

	output, err := c.exec(ctx,
		"pr", "view", prURL,
		"--json", "number,title,state,url,author,assignees,commits",
	)
	if err != nil {
		if strings.Contains(err.Error(), "not found") || strings.Contains(err.Error(), "Could not resolve") {
			return nil, fmt.Errorf("view PR %s: %w", prURL, ErrPRNotFound)
		}
		return nil, fmt.Errorf("view PR %s: %w", prURL, err)
	}

	var details PRDetails
	if err := json.Unmarshal([]byte(output), &details); err != nil {
		return nil, fmt.Errorf("parse PR %s JSON: %w", prURL, err)
	}

	return &details, nil
}

// Approve submits an approving review, with body when given.
func (c *ghClient) Approve(ctx context.Context, prURL, body string) error {
	args := []string{"pr", "review", prURL, "--approve"}
	if body != "" {
		args = append(args, "--body", body)
	}
	if _, err := c.exec(ctx, args...); err != nil {
		return fmt.Errorf("approve PR %s: %w", prURL, err)
	}
	c.logger.Info("pull request approved", "pr", prURL)
	return nil
}

// Comment posts a comment on the pull request.
func (c *ghClient) Comment(ctx context.Context, prURL, body string) error {
	if _, err := c.exec(ctx, "pr", "comment", prURL, "--body", body); err != nil {
		return fmt.Errorf("comment on PR %s: %w", prURL, err)
	}
	return nil
}

// AddLabels adds labels to the pull request.
func (c *ghClient) AddLabels(ctx context.Context, prURL string, labels ...string) error {
	args := []string{"pr", "edit", prURL}
	for _, l := range labels {
		args = append(args, "--add-label", l)
	}
	if _, err := c.exec(ctx, args...); err != nil {
		return fmt.Errorf("label PR %s: %w", prURL, err)
	}
	return nil
}

// AddAssignees assigns users to the pull request.
func (c *ghClient) AddAssignees(ctx context.Context, prURL string, assignees ...string) error {
	args := []string{"pr", "edit", prURL}
	for _, a := range assignees {
		args = append(args, "--add-assignee", a)
	}
	if _, err := c.exec(ctx, args...); err != nil {
		return fmt.Errorf("assign PR %s: %w", prURL, err)
	}
	return nil
}

// EnableAutoMerge turns on auto-merge with the given method.
func (c *ghClient) EnableAutoMerge(ctx context.Context, prURL, method string) error {
	flag, err := MergeMethod(method).flag()
	if err != nil {
		return fmt.Errorf("auto-merge PR %s: %w", prURL, err)
	}

	c.logger.Debug("enabling auto-merge", "pr", prURL, "method", method)

	if _, err := c.exec(ctx, "pr", "merge", "--auto", flag, prURL); err != nil {
		return fmt.Errorf("auto-merge PR %s: %w", prURL, err)
	}
	return nil
}

// DisableAutoMerge turns auto-merge off.
func (c *ghClient) DisableAutoMerge(ctx context.Context, prURL string) error {
	if _, err := c.exec(ctx, "pr", "merge", "--disable-auto", prURL); err != nil {
		return fmt.Errorf("disable auto-merge PR %s: %w", prURL, err)
	}
	return nil
}

// execGH runs a gh CLI command and returns its stdout output.
func execGH(ctx context.Context, dir string, args ...string) (string, error) {
	ghBinOnce.Do(func() {
		ghBinPath, ghBinErr = exec.LookPath("gh")
	})
	if ghBinErr != nil {
		return "", fmt.Errorf("gh lookup: %w", ErrGHNotFound)
	}

	cmd := exec.CommandContext(ctx, ghBinPath, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = err.Error()
		}
		if len(args) == 0 {
			return "", fmt.Errorf("gh: %s: %w", errMsg, err)
		}
		return "", fmt.Errorf("gh %s: %s: %w", args[0], errMsg, err)
	}

	return strings.TrimRight(stdout.String(), "\n\r"), nil
}

// ExtractPRNumber parses the number from a pull request URL of the form
// https://github.com/owner/repo/pull/123.
func ExtractPRNumber(prURL string) (int, error) {
	prURL = strings.TrimSuffix(strings.TrimSpace(prURL), "/")
	if prURL == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidPRURL)
	}

	parts := strings.Split(prURL, "/")
	if len(parts) < 2 || parts[len(parts)-2] != "pull" {
		return 0, fmt.Errorf("%w: missing /pull/ segment: %q", ErrInvalidPRURL, prURL)
	}

	lastPart := parts[len(parts)-1]
	number, err := strconv.Atoi(lastPart)
	if err != nil {
		return 0, fmt.Errorf("%w: parse number %q: %v", ErrInvalidPRURL, lastPart, err)
	}
	if number <= 0 {
		return 0, fmt.Errorf("%w: number %d", ErrInvalidPRURL, number)
	}

	return number, nil
}

// ExtractOwner returns the repository owner of a pull request URL of the
// form https://github.com/owner/repo/pull/123.
func ExtractOwner(prURL string) (string, error) {
	if _, err := ExtractPRNumber(prURL); err != nil {
		return "", err
	}
	parts := strings.Split(strings.TrimSuffix(strings.TrimSpace(prURL), "/"), "/")
	// owner, repo, "pull", number
	if len(parts) < 4 || parts[len(parts)-4] == "" {
		return "", fmt.Errorf("%w: missing owner: %q", ErrInvalidPRURL, prURL)
	}
	return parts[len(parts)-4], nil
}
