package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/vanderheijden86/stepwise/pkg/model"
)

type overlay int

const (
	overlayNone overlay = iota
	overlayPicker
	overlayHelp
)

// AppModel is the top-level tea.Model: the stepper view plus the step
// picker and help overlays.
type AppModel struct {
	stepper StepperModel
	picker  StepPickerModel
	overlay overlay

	theme Theme
	zones *zone.Manager

	width   int
	height  int
	ready   bool
	loadErr error
}

// NewAppModel creates the application model for def.
func NewAppModel(def *model.Definition, theme Theme) AppModel {
	return AppModel{
		stepper: NewStepperModel(def, theme),
		theme:   theme,
	}
}

// WithZones enables mouse support through z. The manager must outlive
// the program.
func (m AppModel) WithZones(z *zone.Manager) AppModel {
	m.zones = z
	m.stepper.SetZoneManager(z)
	return m
}

// Stepper returns the embedded stepper view.
func (m AppModel) Stepper() StepperModel { return m.stepper }

// ShowingPicker reports whether the step picker is open.
func (m AppModel) ShowingPicker() bool { return m.overlay == overlayPicker }

// ShowingHelp reports whether the help overlay is open.
func (m AppModel) ShowingHelp() bool { return m.overlay == overlayHelp }

// LoadError returns the last reload error, cleared by a successful reload.
func (m AppModel) LoadError() error { return m.loadErr }

func (m AppModel) Init() tea.Cmd {
	return m.stepper.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.stepper.SetSize(msg.Width, msg.Height)
		m.picker.SetSize(msg.Width, msg.Height)
		return m, nil

	case DefinitionReloadedMsg:
		m.stepper.Reload(msg.Definition)
		m.loadErr = nil
		if m.overlay == overlayPicker {
			m.openPicker()
		}
		return m, nil

	case DefinitionErrorMsg:
		m.loadErr = msg.Err
		return m, nil

	case tea.KeyMsg:
		switch m.overlay {
		case overlayPicker:
			return m.handlePickerKeys(msg), nil
		case overlayHelp:
			switch msg.String() {
			case "?", "esc", "q":
				m.overlay = overlayNone
			}
			return m, nil
		}

		keys := m.stepper.KeyMap()
		switch {
		case key.Matches(msg, keys.Quit):
			m.stepper.Close()
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.overlay = overlayHelp
			return m, nil
		case key.Matches(msg, keys.Picker):
			m.openPicker()
			return m, nil
		}
	}

	m.stepper, cmd = m.stepper.Update(msg)
	return m, cmd
}

func (m *AppModel) openPicker() {
	m.picker = NewStepPickerModel(m.stepper.Definition(), m.stepper.Root().ActiveStep(), m.theme)
	m.picker.SetSize(m.width, m.height)
	m.overlay = overlayPicker
}

func (m AppModel) handlePickerKeys(msg tea.KeyMsg) AppModel {
	switch msg.String() {
	case "j", "down":
		m.picker.MoveDown()
	case "k", "up":
		m.picker.MoveUp()
	case "enter":
		if ordinal, ok := m.picker.SelectedOrdinal(); ok {
			m.stepper.RequestStep(ordinal)
		}
		m.overlay = overlayNone
	case "esc", "q", "s":
		m.overlay = overlayNone
	}
	return m
}

func (m AppModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var view string
	switch m.overlay {
	case overlayPicker:
		view = m.picker.View()
	case overlayHelp:
		view = RenderHelpOverlay(m.theme, m.width, m.height)
	default:
		view = m.stepper.View()
		if m.loadErr != nil {
			view += "\n" + m.theme.Renderer.NewStyle().Foreground(m.theme.Error).
				Render(fmt.Sprintf("Reload failed: %v", m.loadErr))
		}
	}

	if m.zones != nil {
		return m.zones.Scan(view)
	}
	return view
}
