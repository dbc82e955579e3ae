package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the colors and renderer used by every view in the package.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	// Step state colors
	Completed lipgloss.AdaptiveColor
	Active    lipgloss.AdaptiveColor
	Loading   lipgloss.AdaptiveColor
	Inactive  lipgloss.AdaptiveColor
	Disabled  lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor

	Base lipgloss.Style
}

// DefaultTheme returns the stock palette bound to r.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#1F7A8C", Dark: "#8BE9FD"},
		Text:      lipgloss.AdaptiveColor{Light: "#000000", Dark: "#f8f8f2"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#444444", Dark: "#BFBFBF"},
		Muted:     lipgloss.AdaptiveColor{Light: "#888888", Dark: "#6272A4"},
		Border:    lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E8E0FF", Dark: "#3B3F58"},

		Completed: lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#50FA7B"},
		Active:    lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#BD93F9"},
		Loading:   lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFB86C"},
		Inactive:  lipgloss.AdaptiveColor{Light: "#888888", Dark: "#6272A4"},
		Disabled:  lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#44475A"},
		Error:     lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF5555"},
	}
	t.Base = r.NewStyle().Foreground(t.Text)
	return t
}

// ThemeForMode returns DefaultTheme with the renderer's background forced
// to "dark" or "light". Any other mode keeps terminal detection.
func ThemeForMode(r *lipgloss.Renderer, mode string) Theme {
	switch strings.ToLower(mode) {
	case "dark":
		r.SetHasDarkBackground(true)
	case "light":
		r.SetHasDarkBackground(false)
	}
	return DefaultTheme(r)
}
