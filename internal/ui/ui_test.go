package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/huh"
)

func headless(force bool) *HeadlessManager {
	hm := NewHeadlessManager()
	hm.ForceHeadless(force)
	return hm
}

func TestHeadlessManager(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ci   string
		tty  bool
		want bool
	}{
		{"terminal", "", true, false},
		{"no terminal", "", false, true},
		{"ci on terminal", "true", true, true},
		{"ci false", "false", true, false},
		{"ci garbage", "maybe", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hm := &HeadlessManager{
				getenv: func(string) string { return tt.ci },
				isTTY:  func() bool { return tt.tty },
			}
			if got := hm.IsHeadless(); got != tt.want {
				t.Errorf("IsHeadless() = %v, want %v", got, tt.want)
			}
			hm.ForceHeadless(!tt.want)
			if got := hm.IsHeadless(); got == tt.want {
				t.Error("ForceHeadless() did not override detection")
			}
			hm.ClearForce()
			if got := hm.IsHeadless(); got != tt.want {
				t.Errorf("IsHeadless() after ClearForce = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrompter_HeadlessUsesDefault(t *testing.T) {
	t.Parallel()

	p := NewPrompter(NewTheme(true), headless(true))
	p.runForm = func(*huh.Form) error {
		t.Fatal("form must not run headless")
		return nil
	}
	for _, def := range []bool{true, false} {
		got, err := p.Confirm("Run lint?", def)
		if err != nil || got != def {
			t.Errorf("Confirm(def=%v) = %v, %v", def, got, err)
		}
	}
}

func TestPrompter_Interactive(t *testing.T) {
	t.Parallel()

	p := NewPrompter(NewTheme(false), headless(false))
	p.runForm = func(*huh.Form) error { return nil }
	got, err := p.Confirm("Run lint?", true)
	if err != nil || !got {
		t.Errorf("Confirm() = %v, %v; want default true when the form keeps it", got, err)
	}

	p.runForm = func(*huh.Form) error { return huh.ErrUserAborted }
	if _, err := p.Confirm("Run lint?", true); !errors.Is(err, ErrCancelled) {
		t.Errorf("Confirm() error = %v, want ErrCancelled", err)
	}

	p.runForm = func(*huh.Form) error { return errors.New("tty gone") }
	if _, err := p.Confirm("Run lint?", true); err == nil || errors.Is(err, ErrCancelled) {
		t.Errorf("Confirm() error = %v, want wrapped form error", err)
	}
}

func TestHeadlessSpinner(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSpinner(NewTheme(false), headless(true), &buf, "Loading packages")
	s.SetTitle("Checking")
	s.Stop()
	s.SetTitle("ignored")

	if got := buf.String(); got != "Loading packages\nChecking\n" {
		t.Errorf("output = %q", got)
	}
}

func TestCards(t *testing.T) {
	t.Parallel()

	theme := NewTheme(true)
	tests := []struct {
		name string
		card string
		want []string
	}{
		{"success", theme.SuccessCard("Workflow created", "path: a.yml"), []string{"✓", "Workflow created", "path: a.yml"}},
		{"error", theme.ErrorCard("Gate failed"), []string{"✗", "Gate failed"}},
		{"info", theme.InfoCard("Suites", "unit"), []string{"Suites", "unit"}},
	}
	for _, tt := range tests {
		for _, w := range tt.want {
			if !strings.Contains(tt.card, w) {
				t.Errorf("%s card missing %q:\n%s", tt.name, w, tt.card)
			}
		}
	}
}

func TestTheme_NoColorIsPlain(t *testing.T) {
	t.Parallel()

	theme := NewTheme(true)
	for _, got := range []string{theme.Success("ok"), theme.Error("ok"), theme.Muted("ok"), theme.Title("ok")} {
		if got != "ok" {
			t.Errorf("styled output = %q, want plain", got)
		}
	}
}

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	out, err := RenderMarkdown(NewTheme(true), headless(true), "# Approval policy\n\n- Approve\n")
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if !strings.Contains(out, "Approval policy") || !strings.Contains(out, "Approve") {
		t.Errorf("RenderMarkdown() = %q", out)
	}
}
