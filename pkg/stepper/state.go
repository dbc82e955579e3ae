package stepper

import "fmt"

// StepState is the derived visual and semantic state of a step.
// It is computed on demand and never stored.
type StepState string

const (
	StateInactive  StepState = "inactive"
	StateActive    StepState = "active"
	StateCompleted StepState = "completed"
	StateLoading   StepState = "loading"
)

// AllStates lists every derived state in indicator priority order.
var AllStates = []StepState{StateLoading, StateCompleted, StateActive, StateInactive}

// String returns the string representation of the state.
func (s StepState) String() string {
	return string(s)
}

// IsValid reports whether s is one of the four known states.
func (s StepState) IsValid() bool {
	switch s {
	case StateInactive, StateActive, StateCompleted, StateLoading:
		return true
	}
	return false
}

// IsCurrent is true for the states a step can only be in while it is the
// active step.
func (s StepState) IsCurrent() bool {
	return s == StateActive || s == StateLoading
}

// ParseStepState converts a name such as "completed" into a StepState.
func ParseStepState(name string) (StepState, error) {
	s := StepState(name)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown step state %q", name)
	}
	return s, nil
}

// Flags are the explicit per-step overrides that take part in derivation.
type Flags struct {
	Completed bool
	Loading   bool
}

// Derive maps a step ordinal and the active ordinal to a StepState.
//
// Loading only applies to the active step. An explicit Completed flag wins
// over position, otherwise steps before the active one are completed, the
// active one is active and everything after it is inactive.
func Derive(ordinal, active int, flags Flags) StepState {
	switch {
	case flags.Loading && ordinal == active:
		return StateLoading
	case flags.Completed || ordinal < active:
		return StateCompleted
	case ordinal == active:
		return StateActive
	default:
		return StateInactive
	}
}
