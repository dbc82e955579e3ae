package stepper

// StepProps is the per-step construction contract.
type StepProps struct {
	Ordinal   int
	Completed bool
	Disabled  bool
	Loading   bool
	IsLast    bool
}

// Step is the scope of one step. Its state is derived from the Root on
// every read, so it always reflects the current active step.
type Step struct {
	root  *Root
	props StepProps
}

// NewStep creates a step scope under root. It panics with a *UsageError if
// root is nil.
func NewStep(root *Root, props StepProps) *Step {
	requireRoot("Step", root)
	return &Step{root: root, props: props}
}

// Root returns the owning root.
func (s *Step) Root() *Root {
	return s.root
}

// Ordinal returns the step's ordinal.
func (s *Step) Ordinal() int {
	return s.props.Ordinal
}

// Props returns the props the step was last rendered with.
func (s *Step) Props() StepProps {
	return s.props
}

// Update replaces the step's props, as a re-render with new props would.
func (s *Step) Update(props StepProps) {
	s.props = props
}

// State derives the step's current state.
func (s *Step) State() StepState {
	return Derive(s.props.Ordinal, s.root.active, Flags{
		Completed: s.props.Completed,
		Loading:   s.props.Loading,
	})
}

// Disabled reports whether activation of this step is suppressed.
func (s *Step) Disabled() bool {
	return s.props.Disabled
}

// IsLoading reports whether the step is the active step and busy. A
// loading flag on any other step has no effect.
func (s *Step) IsLoading() bool {
	return s.props.Loading && s.props.Ordinal == s.root.ActiveStep()
}

// IsLast reports whether the step is the last one and has no trailing separator.
func (s *Step) IsLast() bool {
	return s.props.IsLast
}

// Panel describes the wrapper element of the step.
func (s *Step) Panel() Attributes {
	return Attributes{
		Role:            RoleGroup,
		DataState:       s.State(),
		DataOrientation: s.root.orientation,
	}
}
