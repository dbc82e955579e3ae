package export

import (
	"bytes"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/stepwise/pkg/model"
	"github.com/vanderheijden86/stepwise/pkg/stepper"
)

func sampleDefinition() *model.Definition {
	return &model.Definition{
		Title:             "Checkout",
		DefaultActiveStep: 2,
		Indicators:        map[string]string{"completed": "ok"},
		Steps: []model.Step{
			{Ordinal: 1, Title: "Cart", Content: "Review your cart."},
			{Ordinal: 2, Title: "Shipping", Description: "Where to send it", Content: "Enter an address."},
			{Ordinal: 3, Title: "Payment", Disabled: true, ForceMount: true},
			{Ordinal: 4, Title: "Confirm", Loading: true},
		},
	}
}

func TestNewSnapshot_DerivesStates(t *testing.T) {
	snap := NewSnapshot(sampleDefinition(), nil)

	if snap.ActiveStep != 2 || snap.Controlled {
		t.Fatalf("Expected self-managed at 2, got active=%d controlled=%v", snap.ActiveStep, snap.Controlled)
	}
	if snap.Total != 4 || snap.Completed != 1 || snap.Percent() != 25 {
		t.Errorf("Progress = %d/%d (%d%%)", snap.Completed, snap.Total, snap.Percent())
	}

	want := []stepper.StepState{stepper.StateCompleted, stepper.StateActive, stepper.StateInactive, stepper.StateInactive}
	for i, st := range snap.Steps {
		if st.State != want[i] {
			t.Errorf("Step %d state = %s, want %s", st.Ordinal, st.State, want[i])
		}
	}

	cart, _ := snap.Step(1)
	if cart.Indicator != "ok" {
		t.Errorf("Completed override should win, got %q", cart.Indicator)
	}
	shipping, _ := snap.Step(2)
	if !shipping.Selected || shipping.TabIndex != 0 || shipping.Trigger["aria-selected"] != "true" {
		t.Errorf("Active step should be the tab stop: %+v", shipping)
	}
	if shipping.Indicator != "2" {
		t.Errorf("Active indicator falls back to ordinal, got %q", shipping.Indicator)
	}
	if shipping.Separator == nil || shipping.Separator.Filled {
		t.Error("Active step has an unfilled connector")
	}
	if !shipping.Content.Visible || shipping.Content.Attributes["role"] != "tabpanel" {
		t.Errorf("Active content should be visible: %+v", shipping.Content)
	}

	payment, _ := snap.Step(3)
	if payment.TabIndex != -1 || payment.Trigger["aria-disabled"] != "true" {
		t.Errorf("Disabled step attributes wrong: %+v", payment.Trigger)
	}
	if _, hidden := payment.Content.Attributes["hidden"]; !payment.Content.Mounted || payment.Content.Visible || !hidden {
		t.Errorf("Force-mounted content should be mounted and hidden: %+v", payment.Content)
	}

	confirm, _ := snap.Step(4)
	if !confirm.IsLast || confirm.Separator != nil {
		t.Error("Last step has no connector")
	}
	if !confirm.Loading || confirm.Indicator != "4" {
		t.Errorf("Loading flag without the active step keeps the ordinal indicator: %+v", confirm)
	}
	if confirm.Content.Mounted {
		t.Error("Inactive content is unmounted")
	}

	if snap.Nav["role"] != "tablist" || snap.Nav["aria-orientation"] != "horizontal" {
		t.Errorf("Nav attributes = %v", snap.Nav)
	}
}

func TestNewSnapshot_ActiveOverride(t *testing.T) {
	def := sampleDefinition()

	snap := NewSnapshot(def, stepper.ActiveAt(4))
	confirm, _ := snap.Step(4)
	if confirm.State != stepper.StateLoading || confirm.Indicator != "…" {
		t.Errorf("Loading active step: state=%s indicator=%q", confirm.State, confirm.Indicator)
	}
	if snap.Completed != 3 {
		t.Errorf("Steps before the active one are completed, got %d", snap.Completed)
	}

	active := 1
	def.ActiveStep = &active
	snap = NewSnapshot(def, stepper.ActiveAt(3))
	if !snap.Controlled || snap.ActiveStep != 3 {
		t.Errorf("Override should replace the controlled value, got controlled=%v active=%d", snap.Controlled, snap.ActiveStep)
	}
	if *def.ActiveStep != 1 {
		t.Error("Snapshot must not modify the definition")
	}
}

func TestNewSnapshot_MissingActiveStep(t *testing.T) {
	snap := NewSnapshot(sampleDefinition(), stepper.ActiveAt(99))

	for _, st := range snap.Steps {
		if st.Selected || st.TabIndex != -1 {
			t.Errorf("No step should be selected, step %d is", st.Ordinal)
		}
		if st.Content.Visible {
			t.Errorf("No content should be visible, step %d is", st.Ordinal)
		}
	}
	if _, ok := snap.Step(99); ok {
		t.Error("Step(99) should not exist")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewSnapshot(sampleDefinition(), nil)); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded struct {
		Title      string `json:"title"`
		ActiveStep int    `json:"active_step"`
		Steps      []struct {
			Ordinal  int    `json:"ordinal"`
			State    string `json:"state"`
			TabIndex int    `json:"tab_index"`
		} `json:"steps"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, buf.String())
	}
	if decoded.Title != "Checkout" || decoded.ActiveStep != 2 || len(decoded.Steps) != 4 {
		t.Errorf("Decoded = %+v", decoded)
	}
	if decoded.Steps[1].State != "active" || decoded.Steps[1].TabIndex != 0 {
		t.Errorf("Step 2 = %+v", decoded.Steps[1])
	}
	if !strings.Contains(buf.String(), "\n  \"title\"") {
		t.Error("Expected indented output")
	}
}
