package stepper

import "errors"

var (
	// ErrNoRoot is raised when a component is built without a Root.
	ErrNoRoot = errors.New("stepper: component used outside of a Root")
	// ErrNoStep is raised when a step-scoped component is built without a Step.
	ErrNoStep = errors.New("stepper: component used outside of a Step")
	// ErrNotControlled is returned by Sync on a self-managed Root.
	ErrNotControlled = errors.New("stepper: root is not in controlled mode")
)

// UsageError reports a programming mistake in how components are composed.
// Components panic with a *UsageError instead of degrading silently.
type UsageError struct {
	Component string
	Err       error
}

func (e *UsageError) Error() string {
	return e.Component + ": " + e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func requireRoot(component string, r *Root) {
	if r == nil {
		panic(&UsageError{Component: component, Err: ErrNoRoot})
	}
}

func requireStep(component string, s *Step) {
	if s == nil {
		panic(&UsageError{Component: component, Err: ErrNoStep})
	}
	requireRoot(component, s.root)
}
