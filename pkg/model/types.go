package model

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/stepwise/pkg/stepper"
)

// Definition describes one wizard: its presentation options and its steps
// in mount order.
type Definition struct {
	Title             string            `yaml:"title" json:"title"`
	Orientation       string            `yaml:"orientation,omitempty" json:"orientation,omitempty"`
	Variant           string            `yaml:"variant,omitempty" json:"variant,omitempty"`
	DefaultActiveStep int               `yaml:"default_active_step,omitempty" json:"default_active_step,omitempty"`
	ActiveStep        *int              `yaml:"active_step,omitempty" json:"active_step,omitempty"` // Set = controlled mode
	Indicators        map[string]string `yaml:"indicators,omitempty" json:"indicators,omitempty"`
	Steps             []Step            `yaml:"steps" json:"steps"`

	// Path is the file the definition was loaded from, if any.
	Path string `yaml:"-" json:"path,omitempty"`
}

// Step is one step of a wizard definition.
type Step struct {
	Ordinal     int    `yaml:"ordinal" json:"ordinal"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Content     string `yaml:"content,omitempty" json:"content,omitempty"` // Markdown
	Completed   bool   `yaml:"completed,omitempty" json:"completed,omitempty"`
	Disabled    bool   `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	Loading     bool   `yaml:"loading,omitempty" json:"loading,omitempty"`
	ForceMount  bool   `yaml:"force_mount,omitempty" json:"force_mount,omitempty"`
}

// ValidationError lists every problem found in a definition.
type ValidationError struct {
	Path     string
	Problems []string
}

func (e *ValidationError) Error() string {
	prefix := "invalid definition"
	if e.Path != "" {
		prefix += " " + e.Path
	}
	return prefix + ": " + strings.Join(e.Problems, "; ")
}

// Validate checks the definition and returns a *ValidationError describing
// all problems, or nil.
func (d *Definition) Validate() error {
	var problems []string

	if len(d.Steps) == 0 {
		problems = append(problems, "at least one step is required")
	}
	if d.Orientation != "" && !stepper.Orientation(d.Orientation).IsValid() {
		problems = append(problems, fmt.Sprintf("invalid orientation: %s", d.Orientation))
	}
	if d.Variant != "" && !stepper.Variant(d.Variant).IsValid() {
		problems = append(problems, fmt.Sprintf("invalid variant: %s", d.Variant))
	}
	for key := range d.Indicators {
		if _, err := stepper.ParseStepState(key); err != nil {
			problems = append(problems, fmt.Sprintf("invalid indicator key: %s", key))
		}
	}

	seen := make(map[int]bool, len(d.Steps))
	for i, s := range d.Steps {
		if seen[s.Ordinal] {
			problems = append(problems, fmt.Sprintf("duplicate ordinal %d", s.Ordinal))
		}
		seen[s.Ordinal] = true
		if strings.TrimSpace(s.Title) == "" {
			problems = append(problems, fmt.Sprintf("step %d (ordinal %d) has no title", i+1, s.Ordinal))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Path: d.Path, Problems: problems}
	}
	return nil
}

// Controlled reports whether the definition pins the active step.
func (d *Definition) Controlled() bool {
	return d.ActiveStep != nil
}

// InitialActiveStep is the step the wizard opens on.
func (d *Definition) InitialActiveStep() int {
	if d.ActiveStep != nil {
		return *d.ActiveStep
	}
	return d.DefaultActiveStep
}

// IndicatorOverrides converts the indicator map to typed keys. Unknown keys
// are skipped; Validate reports them.
func (d *Definition) IndicatorOverrides() map[stepper.StepState]string {
	if len(d.Indicators) == 0 {
		return nil
	}
	out := make(map[stepper.StepState]string, len(d.Indicators))
	for key, content := range d.Indicators {
		state, err := stepper.ParseStepState(key)
		if err != nil {
			continue
		}
		out[state] = content
	}
	return out
}

// RootOptions returns stepper options for this definition. Callbacks are
// left for the host to fill in.
func (d *Definition) RootOptions() stepper.Options {
	opts := stepper.Options{
		DefaultActiveStep:  d.DefaultActiveStep,
		Orientation:        stepper.Orientation(d.Orientation),
		Variant:            stepper.Variant(d.Variant),
		IndicatorOverrides: d.IndicatorOverrides(),
	}
	if d.ActiveStep != nil {
		opts.ActiveStep = stepper.ActiveAt(*d.ActiveStep)
	}
	return opts
}

// StepProps returns the stepper props for the step at index i.
func (d *Definition) StepProps(i int) stepper.StepProps {
	s := d.Steps[i]
	return stepper.StepProps{
		Ordinal:   s.Ordinal,
		Completed: s.Completed,
		Disabled:  s.Disabled,
		Loading:   s.Loading,
		IsLast:    i == len(d.Steps)-1,
	}
}

// StepByOrdinal returns the step with the given ordinal.
func (d *Definition) StepByOrdinal(ordinal int) (Step, bool) {
	for _, s := range d.Steps {
		if s.Ordinal == ordinal {
			return s, true
		}
	}
	return Step{}, false
}

// Clone creates a deep copy of the definition.
func (d Definition) Clone() Definition {
	clone := d
	if d.ActiveStep != nil {
		v := *d.ActiveStep
		clone.ActiveStep = &v
	}
	if d.Indicators != nil {
		clone.Indicators = make(map[string]string, len(d.Indicators))
		for k, v := range d.Indicators {
			clone.Indicators[k] = v
		}
	}
	if d.Steps != nil {
		clone.Steps = make([]Step, len(d.Steps))
		copy(clone.Steps, d.Steps)
	}
	return clone
}
