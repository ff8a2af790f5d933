package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// ErrCancelled indicates the user aborted a prompt.
var ErrCancelled = errors.New("ui: cancelled by user")

// Prompter asks yes/no questions. Headless prompts answer with the default.
type Prompter struct {
	theme    *Theme
	headless *HeadlessManager
	// runForm is replaced in tests.
	runForm func(*huh.Form) error
}

// NewPrompter creates a Prompter.
func NewPrompter(theme *Theme, hm *HeadlessManager) *Prompter {
	return &Prompter{
		theme:    theme,
		headless: hm,
		runForm:  func(f *huh.Form) error { return f.Run() },
	}
}

// Confirm asks message and returns the answer, or def when headless.
func (p *Prompter) Confirm(message string, def bool) (bool, error) {
	if p.headless.IsHeadless() {
		return def, nil
	}

	answer := def
	confirm := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)

	form := huh.NewForm(huh.NewGroup(confirm)).
		WithTheme(p.theme.huhTheme()).
		WithAccessible(p.theme.NoColor)

	if err := p.runForm(form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrCancelled
		}
		return false, fmt.Errorf("prompt: %w", err)
	}
	return answer, nil
}
