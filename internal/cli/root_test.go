package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/modu-ai/devkit/internal/command"
)

func TestCommandTree(t *testing.T) {
	paths := []string{
		"format", "lint", "typecheck", "imports", "check",
		"test", "coverage", "suites",
		"workflow test create", "workflow test delete",
		"workflow approval create", "workflow approval delete",
		"action build create", "action build delete",
		"approve", "gate", "commitlint", "init", "version",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			cmd, rest, err := rootCmd.Find(strings.Fields(path))
			if err != nil {
				t.Fatalf("Find(%q) error: %v", path, err)
			}
			if len(rest) != 0 {
				t.Fatalf("Find(%q) left args %v", path, rest)
			}
			if cmd.CommandPath() != "devkit "+path {
				t.Errorf("CommandPath() = %q, want %q", cmd.CommandPath(), "devkit "+path)
			}
			if cmd.Short == "" {
				t.Errorf("%s has no short description", path)
			}
			if cmd.RunE == nil {
				t.Errorf("%s is not runnable", path)
			}
		})
	}
}

func TestRootCmd_Silenced(t *testing.T) {
	if !rootCmd.SilenceUsage || !rootCmd.SilenceErrors {
		t.Error("root command should silence usage and errors")
	}
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"tool_exit_is_silent", &command.ExitError{Tool: "gofmt", Code: 2}, ""},
		{"failure_message", command.Failf("One or more tests failed."), "One or more tests failed.\n"},
		{"plain_error", errors.New("boom"), "Error: boom\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printError(&buf, tt.err)
			if buf.String() != tt.want {
				t.Errorf("printError() wrote %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestVersionCmd(t *testing.T) {
	setupDeps(t, &fakeRunner{}, &fakeGH{})

	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.HasPrefix(out, "devkit ") {
		t.Errorf("output = %q, want devkit prefix", out)
	}
}
