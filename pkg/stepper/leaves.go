package stepper

// Indicator resolves the content shown in a step's indicator. Overrides
// are checked in priority order loading, completed, active, inactive, and
// the first one that applies wins; fallback is used when none does.
func Indicator(step *Step, fallback string) string {
	requireStep("Indicator", step)
	root := step.root
	state := step.State()

	if step.IsLoading() {
		if content, ok := root.Indicator(StateLoading); ok {
			return content
		}
	}
	if state == StateCompleted {
		if content, ok := root.Indicator(StateCompleted); ok {
			return content
		}
	}
	if state == StateActive {
		if content, ok := root.Indicator(StateActive); ok {
			return content
		}
	}
	if state == StateInactive {
		if content, ok := root.Indicator(StateInactive); ok {
			return content
		}
	}
	return fallback
}

// Emphasis is the visual weight of a step's text.
type Emphasis string

const (
	EmphasisStrong Emphasis = "strong"
	EmphasisNormal Emphasis = "normal"
	EmphasisMuted  Emphasis = "muted"
)

// Title returns the emphasis of a step title.
func Title(step *Step) Emphasis {
	requireStep("Title", step)
	switch step.State() {
	case StateActive, StateLoading:
		return EmphasisStrong
	case StateCompleted:
		return EmphasisNormal
	default:
		return EmphasisMuted
	}
}

// Description returns the emphasis of a step description.
func Description(step *Step) Emphasis {
	requireStep("Description", step)
	if step.State().IsCurrent() {
		return EmphasisNormal
	}
	return EmphasisMuted
}

// SeparatorProps describes the connector drawn after a step.
type SeparatorProps struct {
	Visible     bool
	Filled      bool
	Orientation Orientation
}

// Separator returns the connector after step. It is suppressed when hidden
// is set or the step is the last one, and filled once the step completes.
func Separator(step *Step, hidden bool) SeparatorProps {
	requireStep("Separator", step)
	return SeparatorProps{
		Visible:     !hidden && !step.IsLast(),
		Filled:      step.State() == StateCompleted,
		Orientation: step.root.orientation,
	}
}

// ContentProps describes the panel attached to one step value.
type ContentProps struct {
	Value   int
	Mounted bool
	Hidden  bool
}

// Visible reports whether the content is rendered and perceivable.
func (c ContentProps) Visible() bool {
	return c.Mounted && !c.Hidden
}

// Attributes describes the panel for assistive technology.
func (c ContentProps) Attributes() Attributes {
	state := StateInactive
	if !c.Hidden {
		state = StateActive
	}
	return Attributes{
		Role:       RoleTabPanel,
		AriaHidden: c.Hidden,
		Hidden:     c.Hidden,
		DataState:  state,
	}
}

// Content gates a panel on the active step. Inactive content is unmounted
// unless forceMount is set, in which case it stays mounted but hidden.
func Content(root *Root, value int, forceMount bool) ContentProps {
	requireRoot("Content", root)
	active := value == root.active
	return ContentProps{
		Value:   value,
		Mounted: active || forceMount,
		Hidden:  !active,
	}
}
