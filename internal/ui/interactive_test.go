package ui

import (
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// newTestProgram creates a tea.Program configured for test environments without a TTY.
func newTestProgram(m tea.Model) *tea.Program {
	return tea.NewProgram(m,
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
	)
}

// startTestProgram starts a tea.Program in a goroutine and returns a done channel.
func startTestProgram(p *tea.Program) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.Run()
	}()
	// Allow the program goroutine to initialize before sending messages.
	time.Sleep(10 * time.Millisecond)
	return done
}

// waitForProgram waits for the program to exit, failing the test if it exceeds timeout.
func waitForProgram(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("tea.Program did not exit within 2 second timeout")
	}
}

func TestInteractiveSpinner_SetTitleThenStop(t *testing.T) {
	m := newSpinnerModel(NewTheme(false), "Loading packages")
	p := newTestProgram(m)
	s := &interactiveSpinner{program: p, once: sync.Once{}}
	done := startTestProgram(p)

	s.SetTitle("Checking contracts")
	s.Stop()

	waitForProgram(t, done)
}

func TestInteractiveSpinner_Stop_Idempotent(t *testing.T) {
	m := newSpinnerModel(NewTheme(false), "Loading")
	p := newTestProgram(m)
	s := &interactiveSpinner{program: p, once: sync.Once{}}
	done := startTestProgram(p)

	s.Stop()
	s.Stop()

	waitForProgram(t, done)
}

func TestSpinnerModel_Update(t *testing.T) {
	t.Parallel()

	m := newSpinnerModel(NewTheme(true), "Loading")

	updated, _ := m.Update(spinnerTitleMsg("Next"))
	if got := updated.(spinnerModel).title; got != "Next" {
		t.Errorf("title = %q, want Next", got)
	}
	if !strings.Contains(updated.View(), "Next") {
		t.Errorf("View() = %q, want title", updated.View())
	}

	stopped, cmd := updated.Update(spinnerStopMsg{})
	if !stopped.(spinnerModel).done || cmd == nil {
		t.Error("stop message must finish the model and quit")
	}
	if stopped.View() != "" {
		t.Errorf("View() after stop = %q, want empty", stopped.View())
	}

	quit, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !quit.(spinnerModel).done {
		t.Error("ctrl+c must stop the spinner")
	}
}

func TestSpinnerModel_Tick(t *testing.T) {
	t.Parallel()

	m := newSpinnerModel(NewTheme(false), "Ticking")
	tickCmd := m.Init()
	if tickCmd == nil {
		t.Fatal("Init should return a non-nil tick command")
	}
	msg, ok := tickCmd().(spinner.TickMsg)
	if !ok {
		t.Skip("unexpected message type from tick command")
	}
	updated, _ := m.Update(msg)
	if updated.(spinnerModel).done {
		t.Error("tick should not stop the spinner")
	}
}
