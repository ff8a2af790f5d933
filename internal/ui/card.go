package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (t *Theme) cardStyle() lipgloss.Style {
	if t.NoColor {
		return lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 2)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 2)
}

// SuccessCard renders a bordered card with a check mark title.
func (t *Theme) SuccessCard(title string, details ...string) string {
	return t.card(t.Success("✓")+" "+title, details)
}

// ErrorCard renders a bordered card with a cross title.
func (t *Theme) ErrorCard(title string, details ...string) string {
	return t.card(t.Error("✗")+" "+title, details)
}

// InfoCard renders a bordered card with a bold title.
func (t *Theme) InfoCard(title string, details ...string) string {
	return t.card(t.Title(title), details)
}

func (t *Theme) card(titleLine string, details []string) string {
	var body strings.Builder
	body.WriteString(titleLine)
	if len(details) > 0 {
		body.WriteString("\n\n")
		body.WriteString(strings.Join(details, "\n"))
	}
	return t.cardStyle().Render(body.String())
}
