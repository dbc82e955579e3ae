package ui

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/stepwise/pkg/stepper"
)

func TestStepPicker_StartsOnActiveStep(t *testing.T) {
	p := NewStepPickerModel(testDefinition(), 2, testTheme())

	got, ok := p.SelectedOrdinal()
	if !ok || got != 2 {
		t.Errorf("Expected active step 2 selected, got %d (ok=%v)", got, ok)
	}

	want := []stepper.StepState{stepper.StateCompleted, stepper.StateActive, stepper.StateInactive, stepper.StateInactive}
	for i, e := range p.entries {
		if e.state != want[i] {
			t.Errorf("Entry %d: state %s, want %s", i, e.state, want[i])
		}
	}
}

func TestStepPicker_MissingActiveSelectsFirst(t *testing.T) {
	p := NewStepPickerModel(testDefinition(), 99, testTheme())

	if got, _ := p.SelectedOrdinal(); got != 1 {
		t.Errorf("Expected first entry selected, got %d", got)
	}
}

func TestStepPicker_Navigation(t *testing.T) {
	p := NewStepPickerModel(testDefinition(), 1, testTheme())

	p.MoveUp()
	if got, _ := p.SelectedOrdinal(); got != 1 {
		t.Errorf("MoveUp at top should stay, got %d", got)
	}

	p.MoveDown()
	p.MoveDown()
	if got, _ := p.SelectedOrdinal(); got != 3 {
		t.Errorf("Expected 3 after two MoveDown, got %d", got)
	}
	if !p.SelectedDisabled() {
		t.Error("Step 3 should be reported as disabled")
	}

	for i := 0; i < 10; i++ {
		p.MoveDown()
	}
	if got, _ := p.SelectedOrdinal(); got != 4 {
		t.Errorf("MoveDown should clamp at the last entry, got %d", got)
	}
}

func TestStepPicker_View(t *testing.T) {
	p := NewStepPickerModel(testDefinition(), 2, testTheme())
	p.SetSize(80, 24)

	view := p.View()
	for _, want := range []string{"Jump to Step", "1. Account", "> 2. Profile", "completed", "active", "enter: jump"} {
		if !strings.Contains(view, want) {
			t.Errorf("Picker view missing %q", want)
		}
	}
}
