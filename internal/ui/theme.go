// Package ui holds the terminal presentation layer: theme, prompts,
// spinners, cards and markdown rendering. Every component degrades to plain
// text when running headless.
package ui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Brand colors (dark variants).
const (
	ColorPrimary   = "#DA7756"
	ColorSecondary = "#8B5CF6"
	ColorSuccess   = "#10B981"
	ColorError     = "#EF4444"
	ColorMuted     = "#9CA3AF"
	ColorBorder    = "#4B5563"
	ColorText      = "#E5E7EB"
)

// ThemeColors holds the palette used by styled components.
type ThemeColors struct {
	Primary   string
	Secondary string
	Success   string
	Error     string
	Muted     string
}

// Theme configures colored output.
type Theme struct {
	NoColor bool
	Colors  ThemeColors
}

// NewTheme returns the default theme. noColor disables all styling.
func NewTheme(noColor bool) *Theme {
	return &Theme{
		NoColor: noColor,
		Colors: ThemeColors{
			Primary:   ColorPrimary,
			Secondary: ColorSecondary,
			Success:   ColorSuccess,
			Error:     ColorError,
			Muted:     ColorMuted,
		},
	}
}

// Adaptive color pairs for light and dark terminals.
var (
	primary = lipgloss.AdaptiveColor{Light: "#C45A3C", Dark: ColorPrimary}
	green   = lipgloss.AdaptiveColor{Light: "#059669", Dark: ColorSuccess}
	red     = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: ColorError}
	muted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: ColorMuted}
	border  = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: ColorBorder}
	text    = lipgloss.AdaptiveColor{Light: "#111827", Dark: ColorText}
)

// style returns s, or an unstyled style when colors are off.
func (t *Theme) style(s lipgloss.Style) lipgloss.Style {
	if t.NoColor {
		return lipgloss.NewStyle()
	}
	return s
}

// Success renders text in the success color.
func (t *Theme) Success(s string) string {
	return t.style(lipgloss.NewStyle().Foreground(green)).Render(s)
}

// Error renders text in the error color.
func (t *Theme) Error(s string) string {
	return t.style(lipgloss.NewStyle().Foreground(red)).Render(s)
}

// Muted renders secondary text.
func (t *Theme) Muted(s string) string {
	return t.style(lipgloss.NewStyle().Foreground(muted)).Render(s)
}

// Title renders a bold heading.
func (t *Theme) Title(s string) string {
	return t.style(lipgloss.NewStyle().Foreground(primary).Bold(true)).Render(s)
}

// huhTheme maps the palette onto confirm prompts.
func (t *Theme) huhTheme() *huh.Theme {
	h := huh.ThemeBase()
	if t.NoColor {
		return h
	}

	h.Focused.Base = h.Focused.Base.BorderForeground(border)
	h.Focused.Title = h.Focused.Title.Foreground(primary).Bold(true)
	h.Focused.Description = h.Focused.Description.Foreground(muted)
	h.Focused.ErrorIndicator = h.Focused.ErrorIndicator.Foreground(red)
	h.Focused.ErrorMessage = h.Focused.ErrorMessage.Foreground(red)
	h.Focused.FocusedButton = h.Focused.FocusedButton.
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}).
		Background(primary)
	h.Focused.BlurredButton = h.Focused.BlurredButton.
		Foreground(text).
		Background(lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#374151"})

	h.Blurred = h.Focused
	h.Blurred.Base = h.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	return h
}
