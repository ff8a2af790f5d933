package cli

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/modu-ai/devkit/internal/command"
	"github.com/modu-ai/devkit/internal/github"
	"github.com/modu-ai/devkit/internal/policy"
	"github.com/modu-ai/devkit/internal/suite"
)

func TestLintCmd_FiltersFiles(t *testing.T) {
	runner := &fakeRunner{}
	setupDeps(t, runner, &fakeGH{})

	if _, err := executeCommand(t, "lint", "main.go README.md vendor/x/y.go", "pkg/a.go"); err != nil {
		t.Fatalf("lint error: %v", err)
	}

	want := []string{"golangci-lint run . ./pkg"}
	if got := runner.commandLines(); !slices.Equal(got, want) {
		t.Errorf("invocations = %v, want %v", got, want)
	}
}

func TestLintCmd_NoMatchingFiles(t *testing.T) {
	runner := &fakeRunner{}
	setupDeps(t, runner, &fakeGH{})

	if _, err := executeCommand(t, "lint", "README.md"); err != nil {
		t.Fatalf("lint error: %v", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("linter ran %d times, want 0", len(runner.calls))
	}
}

func TestTypecheckCmd_ForwardsExitCode(t *testing.T) {
	runner := &fakeRunner{err: map[string]error{"go": &command.ExitError{Tool: "go", Code: 3}}}
	setupDeps(t, runner, &fakeGH{})

	_, err := executeCommand(t, "typecheck")
	if got := command.ExitCode(err); got != 3 {
		t.Errorf("ExitCode() = %d, want 3 (err %v)", got, err)
	}
}

func TestTestCmd_NamedSuiteWithExtraFlags(t *testing.T) {
	runner := &fakeRunner{}
	setupDeps(t, runner, &fakeGH{})

	out, err := executeCommand(t, "test", suite.DefaultName, "--", "-run", "TestX")
	if err != nil {
		t.Fatalf("test error: %v", err)
	}

	want := []string{"go test -run TestX ./..."}
	if got := runner.commandLines(); !slices.Equal(got, want) {
		t.Errorf("invocations = %v, want %v", got, want)
	}
	if !strings.Contains(out, "[passed].") {
		t.Errorf("output = %q, want summary line", out)
	}
}

func TestTestCmd_UnknownSuite(t *testing.T) {
	setupDeps(t, &fakeRunner{}, &fakeGH{})

	_, err := executeCommand(t, "test", "nope")
	if !errors.Is(err, suite.ErrNoTests) {
		t.Errorf("error = %v, want ErrNoTests", err)
	}
}

func TestSuitesCmd(t *testing.T) {
	setupDeps(t, &fakeRunner{}, &fakeGH{})

	out, err := executeCommand(t, "suites")
	if err != nil {
		t.Fatalf("suites error: %v", err)
	}
	if !strings.Contains(out, suite.DefaultName) || !strings.Contains(out, "./...") {
		t.Errorf("output = %q, want default suite row", out)
	}
}

func TestGateCmd(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantFail bool
		wantOut  string
	}{
		{
			name:    "all_passed",
			args:    []string{"--needs", `{"lint":{"result":"success"},"test":{"result":"skipped"}}`},
			wantOut: "All tests passed",
		},
		{
			name:     "failure",
			args:     []string{"--needs", `{"lint":{"result":"failure"},"test":{"result":"success"}}`},
			wantFail: true,
			wantOut:  "job lint: failure",
		},
		{
			name:     "missing_required",
			args:     []string{"--needs", `{"lint":{"result":"success"}}`, "--required", "lint,test"},
			wantFail: true,
			wantOut:  "job test: missing",
		},
		{
			name:    "required_all_keyword",
			args:    []string{"--needs", `{"lint":{"result":"success"}}`, "--required", "ALL"},
			wantOut: "All tests passed",
		},
		{
			name:    "empty_input",
			args:    []string{"--needs", ""},
			wantOut: "All tests passed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupDeps(t, &fakeRunner{}, &fakeGH{})

			out, err := executeCommand(t, append([]string{"gate"}, tt.args...)...)
			if (err != nil) != tt.wantFail {
				t.Fatalf("gate error = %v, wantFail %v", err, tt.wantFail)
			}
			if tt.wantFail && command.ExitCode(err) != 1 {
				t.Errorf("ExitCode() = %d, want 1", command.ExitCode(err))
			}
			if !strings.Contains(out, tt.wantOut) {
				t.Errorf("output = %q, want %q", out, tt.wantOut)
			}
		})
	}
}

func TestGateCmd_ReadsEnv(t *testing.T) {
	setupDeps(t, &fakeRunner{}, &fakeGH{})
	t.Setenv(envNeedsJSON, `{"lint":{"result":"cancelled"}}`)

	_, err := executeCommand(t, "gate")
	if err == nil || !strings.Contains(err.Error(), "Some tests failed") {
		t.Errorf("gate error = %v, want failure verdict", err)
	}
}

func TestCommitlintCmd_Messages(t *testing.T) {
	setupDeps(t, &fakeRunner{}, &fakeGH{})

	out, err := executeCommand(t, "commitlint", "feat(cli): add gate", "fixed stuff")
	if err == nil {
		t.Fatal("expected failure for invalid message")
	}
	if !strings.Contains(err.Error(), "1 commit message(s)") {
		t.Errorf("error = %v, want one failing message", err)
	}
	if !strings.Contains(out, "✓ feat(cli): add gate") || !strings.Contains(out, "✗ fixed stuff") {
		t.Errorf("output = %q", out)
	}
}

func TestCommitlintCmd_Range(t *testing.T) {
	log := strings.Join([]string{
		"aaaaaaaaa\x1fdev\x1fp1\x1ffeat: add thing\n\x1e",
		"bbbbbbbbb\x1fdependabot[bot]\x1fp2\x1fBump x from 1 to 2\n\x1e",
		"ccccccccc\x1fdev\x1fp3 p4\x1fMerge branch 'main'\n\x1e",
	}, "")
	runner := &fakeRunner{output: map[string]string{"git": log}}
	setupDeps(t, runner, &fakeGH{})

	out, err := executeCommand(t, "commitlint", "--from", "base", "--to", "head")
	if err != nil {
		t.Fatalf("commitlint error: %v (output %q)", err, out)
	}
	if !strings.Contains(out, "dependency bot commit") || !strings.Contains(out, "merge commit") {
		t.Errorf("output = %q, want skipped bot and merge commits", out)
	}
}

func TestWorkflowTestCreateAndDelete(t *testing.T) {
	d := setupDeps(t, &fakeRunner{}, &fakeGH{})

	out, err := executeCommand(t, "workflow", "test", "create", "--tests", "ALL", "--required", "lint,test")
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	wfPath := filepath.Join(d.Root, ".github", "workflows", "go-test.yml")
	data, err := os.ReadFile(wfPath)
	if err != nil {
		t.Fatalf("workflow not written: %v", err)
	}
	if !strings.Contains(string(data), "tests-passed:") {
		t.Errorf("workflow lacks gate job:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join(d.Root, ".github", "actions", "build", "action.yml")); err != nil {
		t.Errorf("build action not written: %v", err)
	}
	if !strings.Contains(out, ".github/workflows/go-test.yml") {
		t.Errorf("output = %q", out)
	}

	if _, err := executeCommand(t, "workflow", "test", "delete"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if _, err := os.Stat(wfPath); !os.IsNotExist(err) {
		t.Errorf("workflow still exists after delete: %v", err)
	}

	out, err = executeCommand(t, "workflow", "test", "delete")
	if err != nil {
		t.Fatalf("second delete error: %v", err)
	}
	if !strings.Contains(out, "nothing to delete") {
		t.Errorf("output = %q, want nothing to delete", out)
	}
}

func TestWorkflowTestCreate_HeadlessPromptsDefault(t *testing.T) {
	d := setupDeps(t, &fakeRunner{}, &fakeGH{})

	if _, err := executeCommand(t, "workflow", "test", "create"); err != nil {
		t.Fatalf("create error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(d.Root, ".github", "workflows", "go-test.yml"))
	if err != nil {
		t.Fatal(err)
	}
	for _, job := range []string{"lint:", "mod-tidy:", "typecheck:", "imports:", "test:", "coverage:", "tests-passed:"} {
		if !strings.Contains(string(data), job) {
			t.Errorf("workflow lacks job %s", job)
		}
	}
}

func TestWorkflowTestCreate_FailRegressedRejected(t *testing.T) {
	setupDeps(t, &fakeRunner{}, &fakeGH{})

	_, err := executeCommand(t, "workflow", "test", "create", "--tests", "ALL", "--coverage-fail-regressed")
	if err == nil || !strings.Contains(err.Error(), "not implemented") {
		t.Errorf("error = %v, want not implemented", err)
	}
}

func TestWorkflowApprovalCreate(t *testing.T) {
	d := setupDeps(t, &fakeRunner{}, &fakeGH{})

	if _, err := executeCommand(t, "workflow", "approval", "create", "--dependabot", "--commit-linter"); err != nil {
		t.Fatalf("create error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(d.Root, ".github", "workflows", "approval-bot.yml"))
	if err != nil {
		t.Fatal(err)
	}
	for _, job := range []string{"clear-automerge:", "auto-approve-dependabot:", "commit-linter:"} {
		if !strings.Contains(string(data), job) {
			t.Errorf("workflow lacks job %s", job)
		}
	}
	if strings.Contains(string(data), "auto-approve-owner:") {
		t.Error("owner job generated without --owner")
	}
}

func TestActionBuildCreateAndDelete(t *testing.T) {
	d := setupDeps(t, &fakeRunner{}, &fakeGH{})

	if _, err := executeCommand(t, "action", "build", "create"); err != nil {
		t.Fatalf("create error: %v", err)
	}
	path := filepath.Join(d.Root, ".github", "actions", "build", "action.yml")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("action not written: %v", err)
	}
	if _, err := executeCommand(t, "action", "build", "delete"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("action still exists: %v", err)
	}
}

func TestApproveCmd_Owner(t *testing.T) {
	gh := &fakeGH{}
	setupDeps(t, &fakeRunner{}, gh)

	_, err := executeCommand(t, "approve", "--pr-url", "https://github.com/octo/repo/pull/1", "--author", "octo")
	if err != nil {
		t.Fatalf("approve error: %v", err)
	}
	if !slices.Equal(gh.calls, []string{"approve:"}) {
		t.Errorf("calls = %v, want [approve:]", gh.calls)
	}
}

func TestApproveCmd_BotMetadataFromCommits(t *testing.T) {
	gh := &fakeGH{pr: &github.PRDetails{
		Author: github.User{Login: "dependabot[bot]"},
		Commits: []github.Commit{{
			MessageHeadline: "Bump x from 1.0.0 to 2.0.0",
			MessageBody: strings.Join([]string{
				"---",
				"updated-dependencies:",
				"- dependency-name: x",
				"  dependency-type: direct:production",
				"  update-type: version-update:semver-major",
				"...",
			}, "\n"),
		}},
	}}
	setupDeps(t, &fakeRunner{}, gh)

	out, err := executeCommand(t, "approve", "--pr-url", "https://github.com/octo/repo/pull/2")
	if err != nil {
		t.Fatalf("approve error: %v", err)
	}

	want := []string{
		"view",
		"disable-automerge",
		"comment:" + policy.BodyMajorProd,
		"labels:requires-manual-qa",
		"assignees:octo",
		"automerge:merge",
	}
	if !slices.Equal(gh.calls, want) {
		t.Errorf("calls = %v, want %v", gh.calls, want)
	}
	if !strings.Contains(out, "Approval policy") {
		t.Errorf("output = %q, want rendered decision", out)
	}
}

func TestApproveCmd_BotWithExplicitMetadata(t *testing.T) {
	gh := &fakeGH{}
	setupDeps(t, &fakeRunner{}, gh)

	_, err := executeCommand(t, "approve",
		"--pr-url", "https://github.com/octo/repo/pull/4",
		"--author", "dependabot[bot]",
		"--update-type", "version-update:semver-minor",
		"--dependency-type", "direct:production",
	)
	if err != nil {
		t.Fatalf("approve error: %v", err)
	}

	want := []string{
		"disable-automerge",
		"approve:" + policy.BodyPatchOrMinor,
		"automerge:merge",
	}
	if !slices.Equal(gh.calls, want) {
		t.Errorf("calls = %v, want %v", gh.calls, want)
	}
}

func TestApproveCmd_DryRun(t *testing.T) {
	gh := &fakeGH{}
	setupDeps(t, &fakeRunner{}, gh)

	_, err := executeCommand(t, "approve",
		"--pr-url", "https://github.com/octo/repo/pull/3",
		"--author", "dependabot[bot]",
		"--update-type", "version-update:semver-patch",
		"--dependency-type", "direct:production",
		"--dry-run",
	)
	if err != nil {
		t.Fatalf("approve error: %v", err)
	}
	if len(gh.calls) != 0 {
		t.Errorf("dry run made calls %v", gh.calls)
	}
}

func TestApproveCmd_RequiresURL(t *testing.T) {
	setupDeps(t, &fakeRunner{}, &fakeGH{})

	if _, err := executeCommand(t, "approve", "--author", "octo"); err == nil {
		t.Error("expected error without --pr-url")
	}
}

func TestInitCmd(t *testing.T) {
	d := setupDeps(t, &fakeRunner{}, &fakeGH{})
	if err := os.WriteFile(filepath.Join(d.Root, "go.mod"), []byte("module example.com/app\n\ngo 1.25\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, "init", "--coverage-fail-under", "80")
	if err != nil {
		t.Fatalf("init error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(d.Root, ".devkit.yaml"))
	if err != nil {
		t.Fatalf(".devkit.yaml not written: %v", err)
	}
	if !strings.Contains(string(data), "example.com/app") || !strings.Contains(string(data), "fail_under: 80") {
		t.Errorf(".devkit.yaml = %s", data)
	}
	if !strings.Contains(out, ".golangci.yml (written)") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(string(data), `command: "go run github.com/modu-ai/devkit/cmd/devkit@`) {
		t.Errorf(".devkit.yaml workflow command = %s, want go run", data)
	}
	if !strings.Contains(out, "go get -tool github.com/modu-ai/devkit/cmd/devkit") {
		t.Errorf("output = %q, want go get -tool hint", out)
	}

	out, err = executeCommand(t, "init")
	if err != nil {
		t.Fatalf("second init error: %v", err)
	}
	if !strings.Contains(out, ".devkit.yaml (skipped)") {
		t.Errorf("output = %q, want skipped", out)
	}
}

func TestInitCmd_ToolDirective(t *testing.T) {
	d := setupDeps(t, &fakeRunner{}, &fakeGH{})
	goMod := "module example.com/app\n\ngo 1.25\n\ntool github.com/modu-ai/devkit/cmd/devkit\n"
	if err := os.WriteFile(filepath.Join(d.Root, "go.mod"), []byte(goMod), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, "init")
	if err != nil {
		t.Fatalf("init error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(d.Root, ".devkit.yaml"))
	if err != nil {
		t.Fatalf(".devkit.yaml not written: %v", err)
	}
	if !strings.Contains(string(data), `command: "go tool devkit"`) {
		t.Errorf(".devkit.yaml = %s, want go tool command", data)
	}
	if strings.Contains(out, "go get -tool") {
		t.Errorf("output = %q, want no hint", out)
	}
}

func TestImportsCmd_NoContracts(t *testing.T) {
	setupDeps(t, &fakeRunner{}, &fakeGH{})

	out, err := executeCommand(t, "imports")
	if err != nil {
		t.Fatalf("imports error: %v", err)
	}
	if !strings.Contains(out, "No import contracts configured") {
		t.Errorf("output = %q", out)
	}
}
