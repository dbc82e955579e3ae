package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/stepwise/pkg/model"
	"github.com/vanderheijden86/stepwise/pkg/stepper"
)

// pickerEntry is one row of the step picker.
type pickerEntry struct {
	ordinal  int
	title    string
	state    stepper.StepState
	disabled bool
}

// StepPickerModel is a modal list for jumping straight to a step.
type StepPickerModel struct {
	entries       []pickerEntry
	active        int // Active ordinal when the picker opened
	selectedIndex int
	width         int
	height        int
	theme         Theme
}

// NewStepPickerModel lists the steps of def with the states derived from
// the given active ordinal. The active step starts selected.
func NewStepPickerModel(def *model.Definition, active int, theme Theme) StepPickerModel {
	entries := make([]pickerEntry, 0, len(def.Steps))
	selectedIdx := 0
	for i, s := range def.Steps {
		entries = append(entries, pickerEntry{
			ordinal:  s.Ordinal,
			title:    s.Title,
			state:    stepper.Derive(s.Ordinal, active, stepper.Flags{Completed: s.Completed, Loading: s.Loading}),
			disabled: s.Disabled,
		})
		if s.Ordinal == active {
			selectedIdx = i
		}
	}

	return StepPickerModel{
		entries:       entries,
		active:        active,
		selectedIndex: selectedIdx,
		theme:         theme,
	}
}

// SetSize updates the picker dimensions
func (m *StepPickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// MoveUp moves selection up
func (m *StepPickerModel) MoveUp() {
	if m.selectedIndex > 0 {
		m.selectedIndex--
	}
}

// MoveDown moves selection down
func (m *StepPickerModel) MoveDown() {
	if m.selectedIndex < len(m.entries)-1 {
		m.selectedIndex++
	}
}

// SelectedOrdinal returns the highlighted step's ordinal.
func (m *StepPickerModel) SelectedOrdinal() (int, bool) {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.entries) {
		return m.entries[m.selectedIndex].ordinal, true
	}
	return 0, false
}

// SelectedDisabled reports whether the highlighted step is disabled.
func (m *StepPickerModel) SelectedDisabled() bool {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.entries) {
		return m.entries[m.selectedIndex].disabled
	}
	return false
}

// View renders the picker overlay
func (m *StepPickerModel) View() string {
	if m.width == 0 {
		m.width = 60
	}
	if m.height == 0 {
		m.height = 20
	}

	t := m.theme

	boxWidth := 40
	if m.width < 50 {
		boxWidth = m.width - 10
	}
	if boxWidth < 25 {
		boxWidth = 25
	}

	var lines []string

	titleStyle := t.Renderer.NewStyle().
		Foreground(t.Primary).
		Bold(true)
	lines = append(lines, titleStyle.Render("Jump to Step"))
	lines = append(lines, "")

	for i, e := range m.entries {
		isSelected := i == m.selectedIndex

		itemStyle := t.Renderer.NewStyle().Foreground(t.Text)
		switch {
		case e.disabled:
			itemStyle = itemStyle.Foreground(t.Disabled)
		case isSelected:
			itemStyle = itemStyle.Foreground(t.Primary).Bold(true)
		}

		prefix := "  "
		if isSelected {
			prefix = "> "
		}

		stateStyle := t.Renderer.NewStyle().Foreground(t.Muted)
		switch e.state {
		case stepper.StateCompleted:
			stateStyle = stateStyle.Foreground(t.Completed)
		case stepper.StateActive:
			stateStyle = stateStyle.Foreground(t.Active)
		case stepper.StateLoading:
			stateStyle = stateStyle.Foreground(t.Loading)
		}

		label := fmt.Sprintf("%d. %s", e.ordinal, truncate(e.title, boxWidth-18))
		lines = append(lines, itemStyle.Render(prefix+label)+" "+stateStyle.Render(e.state.String()))
	}

	lines = append(lines, "")
	footerStyle := t.Renderer.NewStyle().
		Foreground(t.Secondary).
		Italic(true)
	lines = append(lines, footerStyle.Render("j/k: navigate | enter: jump | esc: cancel"))

	content := strings.Join(lines, "\n")

	boxStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(boxWidth)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		boxStyle.Render(content),
	)
}
