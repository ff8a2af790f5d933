// Package command runs external tools on behalf of devkit entry points and
// forwards their exit status.
package command

import (
	"errors"
	"fmt"
)

// Sentinel errors for tool execution.
var (
	// ErrToolNotFound indicates the tool binary is not on PATH.
	ErrToolNotFound = errors.New("command: tool not found in PATH")

	// ErrEmptyCommand indicates a tool invocation without a binary name.
	ErrEmptyCommand = errors.New("command: empty command")
)

// ExitError reports a tool that ran and exited with a non-zero status.
// Code is forwarded as the devkit process exit code.
type ExitError struct {
	Tool    string
	Code    int
	Message string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s exited with status %d", e.Tool, e.Code)
}

// Failf returns an ExitError with code 1 and a formatted message. It is used
// by commands that fail on their own account rather than a tool's.
func Failf(format string, args ...any) *ExitError {
	return &ExitError{Code: 1, Message: fmt.Sprintf(format, args...)}
}

// ExitCode maps an error to a process exit code: 0 for nil, the forwarded
// tool status for an ExitError, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}
