package ui

import (
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
)

// HeadlessManager decides whether UI components may interact with the user.
type HeadlessManager struct {
	forced *bool
	getenv func(string) string
	isTTY  func() bool
}

// NewHeadlessManager creates a HeadlessManager that detects headless mode
// from the TTY state of os.Stdin and the CI environment variable.
func NewHeadlessManager() *HeadlessManager {
	return &HeadlessManager{
		getenv: os.Getenv,
		isTTY: func() bool {
			fd := os.Stdin.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
	}
}

// IsHeadless returns true when prompts must fall back to their defaults.
// ForceHeadless overrides detection. Otherwise a CI environment or a
// non-terminal stdin means headless.
func (h *HeadlessManager) IsHeadless() bool {
	if h.forced != nil {
		return *h.forced
	}
	if ci, err := strconv.ParseBool(h.getenv("CI")); err == nil && ci {
		return true
	}
	return !h.isTTY()
}

// ForceHeadless overrides detection. Pass true to force headless mode,
// or false to force interactive mode regardless of TTY state.
func (h *HeadlessManager) ForceHeadless(force bool) {
	h.forced = &force
}

// ClearForce removes any forced override, reverting to automatic detection.
func (h *HeadlessManager) ClearForce() {
	h.forced = nil
}
