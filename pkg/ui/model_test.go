package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/vanderheijden86/stepwise/pkg/model"
)

func updateApp(t *testing.T, m AppModel, msgs ...tea.Msg) AppModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(AppModel)
		if !ok {
			t.Fatalf("Update returned %T, want AppModel", next)
		}
	}
	return m
}

func readyApp(t *testing.T, def *model.Definition) AppModel {
	t.Helper()
	return updateApp(t, NewAppModel(def, testTheme()), tea.WindowSizeMsg{Width: 100, Height: 40})
}

func TestAppModel_InitializingUntilSized(t *testing.T) {
	m := NewAppModel(testDefinition(), testTheme())
	if got := m.View(); got != "Initializing..." {
		t.Errorf("Expected placeholder before first WindowSizeMsg, got %q", got)
	}

	m = updateApp(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if !strings.Contains(m.View(), "Onboarding") {
		t.Error("Expected stepper view after sizing")
	}
}

func TestAppModel_HelpOverlay(t *testing.T) {
	m := readyApp(t, testDefinition())

	m = updateApp(t, m, keyRunes("?"))
	if !m.ShowingHelp() {
		t.Fatal("? should open help")
	}

	m = updateApp(t, m, keyRunes("n"))
	if m.Stepper().Root().ActiveStep() != 2 {
		t.Error("Keys must not reach the stepper while help is open")
	}

	m = updateApp(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.ShowingHelp() {
		t.Error("esc should close help")
	}
}

func TestAppModel_PickerJump(t *testing.T) {
	m := readyApp(t, testDefinition())

	m = updateApp(t, m, keyRunes("s"))
	if !m.ShowingPicker() {
		t.Fatal("s should open the picker")
	}
	if !strings.Contains(m.View(), "Jump to Step") {
		t.Error("Picker view expected")
	}

	m = updateApp(t, m, keyRunes("j"), keyRunes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.ShowingPicker() {
		t.Error("enter should close the picker")
	}
	if got := m.Stepper().Root().ActiveStep(); got != 4 {
		t.Errorf("Expected jump to 4, got %d", got)
	}
}

func TestAppModel_PickerCancel(t *testing.T) {
	m := readyApp(t, testDefinition())

	m = updateApp(t, m, keyRunes("s"), keyRunes("k"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.ShowingPicker() {
		t.Error("esc should close the picker")
	}
	if got := m.Stepper().Root().ActiveStep(); got != 2 {
		t.Errorf("Cancel must not change the active step, got %d", got)
	}
}

func TestAppModel_ControlledPickerRejectsDisabled(t *testing.T) {
	def := testDefinition()
	active := 2
	def.ActiveStep = &active
	m := readyApp(t, def)

	m = updateApp(t, m, keyRunes("s"), keyRunes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.Stepper().Root().ActiveStep(); got != 2 {
		t.Errorf("Controlled host should reject disabled step, got %d", got)
	}
	if !strings.Contains(m.View(), "Step 3 is disabled") {
		t.Error("Expected rejection in the status line")
	}
}

func TestAppModel_Quit(t *testing.T) {
	m := readyApp(t, testDefinition())

	_, cmd := m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestAppModel_ReloadMessages(t *testing.T) {
	m := readyApp(t, testDefinition())

	m = updateApp(t, m, DefinitionErrorMsg{Err: errors.New("boom"), Recoverable: true})
	if m.LoadError() == nil {
		t.Fatal("Expected load error to be kept")
	}
	if !strings.Contains(m.View(), "Reload failed: boom") {
		t.Error("Expected reload failure in view")
	}

	next := testDefinition()
	next.Steps = append(next.Steps, model.Step{Ordinal: 5, Title: "Feedback"})
	m = updateApp(t, m, DefinitionReloadedMsg{Definition: next})
	if m.LoadError() != nil {
		t.Error("Successful reload should clear the error")
	}
	if got := len(m.Stepper().Triggers()); got != 5 {
		t.Errorf("Expected 5 controls after reload, got %d", got)
	}
	if !strings.Contains(m.View(), "Feedback") {
		t.Error("Reloaded step should be rendered")
	}
}

func TestAppModel_ReloadRefreshesOpenPicker(t *testing.T) {
	m := readyApp(t, testDefinition())
	m = updateApp(t, m, keyRunes("s"))

	next := testDefinition()
	next.Steps[0].Title = "Sign up"
	m = updateApp(t, m, DefinitionReloadedMsg{Definition: next})

	if !m.ShowingPicker() {
		t.Fatal("Picker should stay open across a reload")
	}
	if !strings.Contains(m.View(), "Sign up") {
		t.Error("Picker should list the reloaded titles")
	}
}

func TestAppModel_WithZones(t *testing.T) {
	z := zone.New()
	defer z.Close()

	m := NewAppModel(testDefinition(), testTheme()).WithZones(z)
	m = updateApp(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	if view := m.View(); !strings.Contains(view, "Profile") {
		t.Error("Scanned view should keep its content")
	}
}
