// Package export renders a stepper definition outside the terminal: a JSON
// snapshot for scripts, a Markdown progress report, SVG and PNG progress
// strips, and a live-reloading browser preview.
package export

import (
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/stepwise/pkg/model"
	"github.com/vanderheijden86/stepwise/pkg/stepper"
)

// Snapshot is the derived view of a definition at one active step. Every
// field is computed by a headless root, so it matches what the terminal
// view shows for the same input.
type Snapshot struct {
	Title       string              `json:"title"`
	Path        string              `json:"path,omitempty"`
	Orientation stepper.Orientation `json:"orientation"`
	Variant     stepper.Variant     `json:"variant"`
	Controlled  bool                `json:"controlled"`
	ActiveStep  int                 `json:"active_step"`
	Completed   int                 `json:"completed"`
	Total       int                 `json:"total"`
	OutOfOrder  bool                `json:"out_of_order,omitempty"`
	Nav         map[string]string   `json:"nav"`
	Steps       []StepSnapshot      `json:"steps"`
}

// StepSnapshot is one step of a Snapshot.
type StepSnapshot struct {
	Ordinal     int               `json:"ordinal"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	State       stepper.StepState `json:"state"`
	Indicator   string            `json:"indicator"`
	Selected    bool              `json:"selected"`
	Disabled    bool              `json:"disabled,omitempty"`
	Loading     bool              `json:"loading,omitempty"`
	IsLast      bool              `json:"is_last,omitempty"`
	TabIndex    int               `json:"tab_index"`
	Separator   *SeparatorInfo    `json:"separator,omitempty"`
	Content     ContentInfo       `json:"content"`
	Trigger     map[string]string `json:"trigger"`
	Panel       map[string]string `json:"panel"`
}

// SeparatorInfo describes the connector after a step.
type SeparatorInfo struct {
	Filled bool `json:"filled"`
}

// ContentInfo describes the step's content panel.
type ContentInfo struct {
	Mounted    bool              `json:"mounted"`
	Visible    bool              `json:"visible"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// NewSnapshot mounts def on a fresh root and records every step. If active
// is non-nil it replaces the definition's starting step: the controlled
// value for a controlled definition, the default otherwise.
func NewSnapshot(def *model.Definition, active *int) Snapshot {
	opts := def.RootOptions()
	if active != nil {
		if opts.ActiveStep != nil {
			opts.ActiveStep = stepper.ActiveAt(*active)
		} else {
			opts.DefaultActiveStep = *active
		}
	}
	root := stepper.New(opts)

	steps := make([]*stepper.Step, len(def.Steps))
	triggers := make([]*stepper.Trigger, len(def.Steps))
	for i := range def.Steps {
		steps[i] = stepper.NewStep(root, def.StepProps(i))
		triggers[i] = stepper.NewTrigger(steps[i])
		triggers[i].Mount()
	}

	snap := Snapshot{
		Title:       def.Title,
		Path:        def.Path,
		Orientation: root.Orientation(),
		Variant:     root.Variant(),
		Controlled:  root.Controlled(),
		ActiveStep:  root.ActiveStep(),
		Total:       len(steps),
		OutOfOrder:  root.OutOfOrder(),
		Nav:         root.Nav().Map(),
		Steps:       make([]StepSnapshot, 0, len(steps)),
	}

	for i, step := range steps {
		src := def.Steps[i]
		state := step.State()
		if state == stepper.StateCompleted {
			snap.Completed++
		}

		cp := stepper.Content(root, step.Ordinal(), src.ForceMount)
		ss := StepSnapshot{
			Ordinal:     step.Ordinal(),
			Title:       src.Title,
			Description: src.Description,
			State:       state,
			Indicator:   stepper.Indicator(step, defaultIndicator(step)),
			Selected:    triggers[i].Selected(),
			Disabled:    step.Disabled(),
			Loading:     src.Loading,
			IsLast:      step.IsLast(),
			TabIndex:    triggers[i].TabIndex(),
			Content:     ContentInfo{Mounted: cp.Mounted, Visible: cp.Visible()},
			Trigger:     triggers[i].Attributes().Map(),
			Panel:       step.Panel().Map(),
		}
		if cp.Mounted {
			ss.Content.Attributes = cp.Attributes().Map()
		}
		if sep := stepper.Separator(step, false); sep.Visible {
			ss.Separator = &SeparatorInfo{Filled: sep.Filled}
		}
		snap.Steps = append(snap.Steps, ss)
	}

	return snap
}

// Step returns the snapshot of the step with ordinal.
func (s Snapshot) Step(ordinal int) (StepSnapshot, bool) {
	for _, st := range s.Steps {
		if st.Ordinal == ordinal {
			return st, true
		}
	}
	return StepSnapshot{}, false
}

// Percent returns the completed share of steps, rounded down.
func (s Snapshot) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return s.Completed * 100 / s.Total
}

// WriteJSON writes s as indented JSON.
func WriteJSON(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// defaultIndicator is the indicator shown when no override applies.
func defaultIndicator(step *stepper.Step) string {
	switch step.State() {
	case stepper.StateCompleted:
		return "✓"
	case stepper.StateLoading:
		return "…"
	default:
		return strconv.Itoa(step.Ordinal())
	}
}
