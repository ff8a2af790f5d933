package github

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
)

const testPR = "https://github.com/owner/repo/pull/42"

// newTestGHClient creates a ghClient with a mock exec function for testing.
func newTestGHClient(fn execFunc) *ghClient {
	return newGHClientWithExec("/tmp/test-repo", fn)
}

// recordArgs returns an exec function that stores the last args.
func recordArgs(got *[]string, output string, err error) execFunc {
	return func(_ context.Context, _ string, args ...string) (string, error) {
		*got = args
		return output, err
	}
}

func TestGHClient_IsAuthenticated(t *testing.T) {
	t.Parallel()

	ok := newTestGHClient(func(_ context.Context, _ string, args ...string) (string, error) {
		if len(args) >= 2 && args[0] == "auth" && args[1] == "status" {
			return "Logged in", nil
		}
		return "", fmt.Errorf("unexpected args: %v", args)
	})
	if err := ok.IsAuthenticated(context.Background()); err != nil {
		t.Errorf("IsAuthenticated() error = %v, want nil", err)
	}

	bad := newTestGHClient(func(context.Context, string, ...string) (string, error) {
		return "", errors.New("not authenticated")
	})
	if err := bad.IsAuthenticated(context.Background()); !errors.Is(err, ErrGHNotAuthenticated) {
		t.Errorf("IsAuthenticated() error = %v, want ErrGHNotAuthenticated", err)
	}
}

func TestGHClient_PRView(t *testing.T) {
	t.Parallel()

	const payload = `{
		"number": 42,
		"title": "Bump cobra",
		"state": "OPEN",
		"url": "https://github.com/owner/repo/pull/42",
		"author": {"login": "dependabot[bot]"},
		"assignees": [{"login": "owner"}],
		"commits": [{"oid": "abc", "messageHeadline": "Bump cobra", "messageBody": "body"}]
	}`
	var args []string
	client := newTestGHClient(recordArgs(&args, payload, nil))

	pr, err := client.PRView(context.Background(), testPR)
	if err != nil {
		t.Fatalf("PRView() error = %v", err)
	}
	if pr.Author.Login != "dependabot[bot]" {
		t.Errorf("Author = %q", pr.Author.Login)
	}
	if len(pr.Assignees) != 1 || pr.Assignees[0].Login != "owner" {
		t.Errorf("Assignees = %v", pr.Assignees)
	}
	if got := pr.Commits[0].Message(); got != "Bump cobra\n\nbody" {
		t.Errorf("Commit.Message() = %q", got)
	}
	if args[0] != "pr" || args[1] != "view" || args[2] != testPR {
		t.Errorf("args = %v", args)
	}
}

func TestGHClient_PRView_NotFound(t *testing.T) {
	t.Parallel()

	client := newTestGHClient(func(context.Context, string, ...string) (string, error) {
		return "", errors.New("gh pr: Could not resolve to a PullRequest")
	})
	if _, err := client.PRView(context.Background(), testPR); !errors.Is(err, ErrPRNotFound) {
		t.Errorf("PRView() error = %v, want ErrPRNotFound", err)
	}
	if _, err := client.PRView(context.Background(), "https://github.com/owner/repo"); !errors.Is(err, ErrInvalidPRURL) {
		t.Errorf("PRView(bad url) error = %v, want ErrInvalidPRURL", err)
	}
}

func TestGHClient_Commands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		call func(c *ghClient) error
		want []string
	}{
		{
			name: "approve without body",
			call: func(c *ghClient) error { return c.Approve(context.Background(), testPR, "") },
			want: []string{"pr", "review", testPR, "--approve"},
		},
		{
			name: "approve with body",
			call: func(c *ghClient) error { return c.Approve(context.Background(), testPR, "ok") },
			want: []string{"pr", "review", testPR, "--approve", "--body", "ok"},
		},
		{
			name: "comment",
			call: func(c *ghClient) error { return c.Comment(context.Background(), testPR, "hi") },
			want: []string{"pr", "comment", testPR, "--body", "hi"},
		},
		{
			name: "labels",
			call: func(c *ghClient) error { return c.AddLabels(context.Background(), testPR, "a", "b") },
			want: []string{"pr", "edit", testPR, "--add-label", "a", "--add-label", "b"},
		},
		{
			name: "assignees",
			call: func(c *ghClient) error { return c.AddAssignees(context.Background(), testPR, "owner") },
			want: []string{"pr", "edit", testPR, "--add-assignee", "owner"},
		},
		{
			name: "enable auto-merge",
			call: func(c *ghClient) error { return c.EnableAutoMerge(context.Background(), testPR, "squash") },
			want: []string{"pr", "merge", "--auto", "--squash", testPR},
		},
		{
			name: "disable auto-merge",
			call: func(c *ghClient) error { return c.DisableAutoMerge(context.Background(), testPR) },
			want: []string{"pr", "merge", "--disable-auto", testPR},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var args []string
			client := newTestGHClient(recordArgs(&args, "", nil))
			if err := tt.call(client); err != nil {
				t.Fatalf("call error = %v", err)
			}
			if !slices.Equal(args, tt.want) {
				t.Errorf("args = %v, want %v", args, tt.want)
			}
		})
	}
}

func TestGHClient_EnableAutoMerge_UnsupportedMethod(t *testing.T) {
	t.Parallel()

	called := false
	client := newTestGHClient(func(context.Context, string, ...string) (string, error) {
		called = true
		return "", nil
	})
	err := client.EnableAutoMerge(context.Background(), testPR, "fast-forward")
	if !errors.Is(err, ErrUnsupportedMergeMethod) {
		t.Errorf("EnableAutoMerge() error = %v, want ErrUnsupportedMergeMethod", err)
	}
	if called {
		t.Error("gh invoked for unsupported method")
	}
}

func TestGHClient_ErrorsWrapped(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("boom")
	client := newTestGHClient(func(context.Context, string, ...string) (string, error) {
		return "", sentinel
	})
	if err := client.Comment(context.Background(), testPR, "x"); !errors.Is(err, sentinel) {
		t.Errorf("Comment() error = %v, want wrapped sentinel", err)
	}
}

func TestExtractPRNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"https://github.com/owner/repo/pull/42", 42, false},
		{"https://github.com/owner/repo/pull/7/", 7, false},
		{"  https://github.com/owner/repo/pull/1\n", 1, false},
		{"", 0, true},
		{"https://github.com/owner/repo/issues/3", 0, true},
		{"https://github.com/owner/repo/pull/abc", 0, true},
		{"https://github.com/owner/repo/pull/0", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ExtractPRNumber(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractPRNumber(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidPRURL) {
				t.Errorf("error = %v, want ErrInvalidPRURL", err)
			}
			if got != tt.want {
				t.Errorf("ExtractPRNumber(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractOwner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"https://github.com/octo/repo/pull/42", "octo", false},
		{"https://github.com/octo/repo/pull/42/", "octo", false},
		{"repo/pull/1", "", true},
		{"https://github.com/octo/repo/issues/3", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ExtractOwner(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractOwner(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractOwner(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
