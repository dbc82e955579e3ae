package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const helpOverlayContent = `## Steps

**When a step control has focus**
  ←/→ h/l   Previous / next control
  ↑/↓ k/j   Previous / next control
  Home/g    First control
  End/G     Last control
  Enter     Activate the focused step
  Space     Activate the focused step

**Anywhere**
  Tab       Focus the current step
  Shift+Tab Move focus to the content
  n/p       Next / previous enabled step
  s         Jump to a step
  y         Copy the current step title
  Click     Activate a step

**Content**
  j/k       Scroll
  Ctrl+d/u  Half page`

// RenderHelpOverlay renders the key reference modal.
func RenderHelpOverlay(theme Theme, width, height int) string {
	r := theme.Renderer

	modalWidth := 60
	if modalWidth > width-4 {
		modalWidth = width - 4
	}
	if modalWidth < 30 {
		modalWidth = 30
	}

	titleStyle := r.NewStyle().
		Bold(true).
		Foreground(theme.Primary)

	contentStyle := r.NewStyle().
		Foreground(theme.Subtext)

	footerStyle := r.NewStyle().
		Foreground(theme.Muted).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quick Reference"))
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", modalWidth-4)))
	b.WriteString("\n\n")
	b.WriteString(contentStyle.Render(helpOverlayContent))
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("? or Esc to close"))

	modalStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(1, 2).
		Width(modalWidth)

	modal := modalStyle.Render(b.String())
	if width <= 0 || height <= 0 {
		return modal
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
