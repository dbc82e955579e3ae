package ui

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// MarkdownRenderer renders step content with glamour, optionally using
// colors taken from a Theme.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
	useTheme bool
	theme    *Theme
}

// NewMarkdownRenderer creates a renderer that picks glamour's dark or light
// style from the terminal background.
func NewMarkdownRenderer(width int) *MarkdownRenderer {
	mr := &MarkdownRenderer{width: width}
	mr.rebuild()
	return mr
}

// NewMarkdownRendererWithTheme creates a renderer styled from theme.
func NewMarkdownRendererWithTheme(width int, theme Theme) *MarkdownRenderer {
	mr := &MarkdownRenderer{width: width, useTheme: true, theme: &theme}
	mr.rebuild()
	return mr
}

func (mr *MarkdownRenderer) rebuild() {
	var opts []glamour.TermRendererOption
	if mr.useTheme && mr.theme != nil {
		opts = append(opts, glamour.WithStyles(buildStyleFromTheme(*mr.theme, mr.IsDarkMode())))
	} else if mr.IsDarkMode() {
		opts = append(opts, glamour.WithStandardStyle(styles.DarkStyle))
	} else {
		opts = append(opts, glamour.WithStandardStyle(styles.LightStyle))
	}
	opts = append(opts, glamour.WithWordWrap(mr.width))

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		r = nil
	}
	mr.renderer = r
}

// Render returns the rendered markdown. Without a renderer the input is
// returned unchanged.
func (mr *MarkdownRenderer) Render(markdown string) (string, error) {
	if mr.renderer == nil {
		return markdown, nil
	}
	return mr.renderer.Render(markdown)
}

// SetWidth rebuilds the renderer for a new wrap width. Non-positive and
// unchanged widths are ignored.
func (mr *MarkdownRenderer) SetWidth(width int) {
	if width <= 0 || width == mr.width {
		return
	}
	mr.width = width
	mr.rebuild()
}

// SetWidthWithTheme switches to theme colors and a new width.
func (mr *MarkdownRenderer) SetWidthWithTheme(width int, theme Theme) {
	if width > 0 {
		mr.width = width
	}
	mr.useTheme = true
	mr.theme = &theme
	mr.rebuild()
}

// IsDarkMode reports whether the renderer uses dark colors.
func (mr *MarkdownRenderer) IsDarkMode() bool {
	if mr.theme != nil && mr.theme.Renderer != nil {
		return mr.theme.Renderer.HasDarkBackground()
	}
	return lipgloss.HasDarkBackground()
}

func extractHex(c lipgloss.AdaptiveColor, dark bool) string {
	if dark {
		return c.Dark
	}
	return c.Light
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// buildStyleFromTheme starts from glamour's stock style for the background
// and recolors the elements step content uses.
func buildStyleFromTheme(theme Theme, dark bool) ansi.StyleConfig {
	cfg := styles.LightStyleConfig
	if dark {
		cfg = styles.DarkStyleConfig
	}

	text := strPtr(extractHex(theme.Text, dark))
	primary := strPtr(extractHex(theme.Primary, dark))
	secondary := strPtr(extractHex(theme.Secondary, dark))
	muted := strPtr(extractHex(theme.Muted, dark))

	cfg.Document.Color = text
	cfg.Document.Margin = nil
	cfg.Heading.Color = primary
	cfg.Heading.Bold = boolPtr(true)
	cfg.H1.Color = primary
	cfg.H1.BackgroundColor = nil
	cfg.H2.Color = primary
	cfg.H3.Color = secondary
	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary
	cfg.BlockQuote.Color = muted
	cfg.Code.Color = secondary
	cfg.HorizontalRule.Color = muted
	cfg.Item.BlockPrefix = "• "

	return cfg
}
