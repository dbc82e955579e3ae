package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/stepwise/pkg/stepper"
)

func TestKeyMap_ControlKey(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		msg  tea.KeyMsg
		want stepper.Key
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, stepper.KeyArrowLeft},
		{keyRunes("l"), stepper.KeyArrowRight},
		{tea.KeyMsg{Type: tea.KeyUp}, stepper.KeyArrowUp},
		{keyRunes("j"), stepper.KeyArrowDown},
		{keyRunes("g"), stepper.KeyHome},
		{tea.KeyMsg{Type: tea.KeyEnd}, stepper.KeyEnd},
		{tea.KeyMsg{Type: tea.KeyEnter}, stepper.KeyEnter},
		{tea.KeyMsg{Type: tea.KeySpace}, stepper.KeySpace},
	}
	for _, tt := range tests {
		got, ok := keys.controlKey(tt.msg)
		if !ok || got != tt.want {
			t.Errorf("controlKey(%q) = %q, %v; want %q", tt.msg.String(), got, ok, tt.want)
		}
	}

	if _, ok := keys.controlKey(keyRunes("x")); ok {
		t.Error("Unbound key should not map to the protocol")
	}
}

func TestKeyMap_Help(t *testing.T) {
	keys := DefaultKeyMap()

	if len(keys.ShortHelp()) == 0 {
		t.Error("ShortHelp should not be empty")
	}
	total := 0
	for _, col := range keys.FullHelp() {
		total += len(col)
	}
	if total != 16 {
		t.Errorf("FullHelp should list every binding once, got %d", total)
	}
}

func TestRenderHelpOverlay(t *testing.T) {
	view := RenderHelpOverlay(testTheme(), 100, 40)

	for _, want := range []string{"Quick Reference", "Activate the focused step", "Jump to a step"} {
		if !strings.Contains(view, want) {
			t.Errorf("Help overlay missing %q", want)
		}
	}
}
