package cli

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/modu-ai/devkit/internal/command"
	"github.com/modu-ai/devkit/internal/config"
	"github.com/modu-ai/devkit/internal/github"
	"github.com/modu-ai/devkit/internal/ui"
)

// fakeRunner records invocations and returns canned results.
type fakeRunner struct {
	mu     sync.Mutex
	calls  []command.Invocation
	err    map[string]error
	output map[string]string
}

func (f *fakeRunner) Run(_ context.Context, inv command.Invocation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, inv)
	return f.err[inv.Name]
}

func (f *fakeRunner) Output(ctx context.Context, inv command.Invocation) (string, error) {
	if err := f.Run(ctx, inv); err != nil {
		return "", err
	}
	return f.output[inv.Name], nil
}

func (f *fakeRunner) commandLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, len(f.calls))
	for i, c := range f.calls {
		lines[i] = c.String()
	}
	return lines
}

// fakeGH records pull request operations.
type fakeGH struct {
	pr    *github.PRDetails
	calls []string
}

var _ github.GHClient = (*fakeGH)(nil)

func (f *fakeGH) record(call string) error {
	f.calls = append(f.calls, call)
	return nil
}

func (f *fakeGH) Approve(_ context.Context, _, body string) error {
	return f.record("approve:" + body)
}

func (f *fakeGH) Comment(_ context.Context, _, body string) error {
	return f.record("comment:" + body)
}

func (f *fakeGH) AddLabels(_ context.Context, _ string, labels ...string) error {
	return f.record("labels:" + strings.Join(labels, ","))
}

func (f *fakeGH) AddAssignees(_ context.Context, _ string, assignees ...string) error {
	return f.record("assignees:" + strings.Join(assignees, ","))
}

func (f *fakeGH) EnableAutoMerge(_ context.Context, _, method string) error {
	return f.record("automerge:" + method)
}

func (f *fakeGH) DisableAutoMerge(_ context.Context, _ string) error {
	return f.record("disable-automerge")
}

func (f *fakeGH) PRView(_ context.Context, _ string) (*github.PRDetails, error) {
	f.calls = append(f.calls, "view")
	if f.pr == nil {
		return nil, github.ErrPRNotFound
	}
	return f.pr, nil
}

func (f *fakeGH) IsAuthenticated(context.Context) error {
	return nil
}

// setupDeps installs test dependencies rooted at a temp dir and restores
// the globals afterwards.
func setupDeps(t *testing.T, runner command.Runner, gh github.GHClient) *Dependencies {
	t.Helper()

	hm := ui.NewHeadlessManager()
	hm.ForceHeadless(true)
	d := &Dependencies{
		Root:     t.TempDir(),
		Config:   config.NewDefaultConfig(),
		Runner:   runner,
		GitHub:   gh,
		Theme:    ui.NewTheme(true),
		Headless: hm,
		Logger:   slog.Default(),
	}

	orig := deps
	SetDeps(d)
	t.Cleanup(func() { SetDeps(orig) })
	return d
}

// executeCommand runs the root command with args after resetting every
// flag left over from earlier executions.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
