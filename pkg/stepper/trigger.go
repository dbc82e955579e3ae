package stepper

// Key is a host-independent key name understood by Trigger.HandleKey.
type Key string

const (
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeyHome       Key = "Home"
	KeyEnd        Key = "End"
	KeyEnter      Key = "Enter"
	KeySpace      Key = "Space"
)

// Trigger is the focusable, selectable control of a step. It is a Handle:
// the registry gives it focus by calling Focus.
type Trigger struct {
	step    *Step
	mounted bool
}

// NewTrigger creates the control for step. It panics with a *UsageError if
// step is nil or has no root.
func NewTrigger(step *Step) *Trigger {
	requireStep("Trigger", step)
	return &Trigger{step: step}
}

// Step returns the step scope the trigger belongs to.
func (t *Trigger) Step() *Step {
	return t.step
}

// Mount registers the trigger with its root's focus registry.
func (t *Trigger) Mount() {
	t.step.root.registry.Register(t)
	t.mounted = true
}

// Unmount removes the trigger from the registry and drops focus if it held it.
func (t *Trigger) Unmount() {
	t.step.root.registry.Unregister(t)
	t.step.root.blur(t)
	t.mounted = false
}

// Mounted reports whether the trigger is registered.
func (t *Trigger) Mounted() bool {
	return t.mounted
}

// Index returns the trigger's registry position, which follows mount order.
// It is -1 while unmounted.
func (t *Trigger) Index() int {
	return t.step.root.registry.IndexOf(t)
}

// Focus implements Handle.
func (t *Trigger) Focus() {
	t.step.root.focus(t)
}

// Blur drops focus if this trigger holds it.
func (t *Trigger) Blur() {
	t.step.root.blur(t)
}

// Focused reports whether this trigger holds focus within its root.
func (t *Trigger) Focused() bool {
	return t.step.root.focused == t
}

// Activate requests a transition to this trigger's step. Disabled triggers
// ignore activation. The return value reports whether a request was made.
func (t *Trigger) Activate() bool {
	if t.step.Disabled() {
		return false
	}
	t.step.root.SetActiveStep(t.step.Ordinal())
	return true
}

// HandleKey applies the keyboard protocol for a focused trigger and reports
// whether key was consumed. All four arrows are honoured in both
// orientations.
func (t *Trigger) HandleKey(key Key) bool {
	if !t.mounted {
		return false
	}
	reg := t.step.root.registry

	switch key {
	case KeyArrowRight, KeyArrowDown:
		reg.FocusNext(t.Index())
	case KeyArrowLeft, KeyArrowUp:
		reg.FocusPrev(t.Index())
	case KeyHome:
		reg.FocusFirst()
	case KeyEnd:
		reg.FocusLast()
	case KeyEnter, KeySpace:
		t.Activate()
	default:
		return false
	}
	return true
}

// Selected reports whether this trigger's step is the active step,
// independent of its derived state.
func (t *Trigger) Selected() bool {
	return t.step.Ordinal() == t.step.root.active
}

// TabIndex is 0 for the selected trigger and -1 for every other one, so
// the whole step group is a single stop in sequential navigation.
func (t *Trigger) TabIndex() int {
	if t.Selected() {
		return 0
	}
	return -1
}

// Attributes describes the trigger for assistive technology.
func (t *Trigger) Attributes() Attributes {
	selected := t.Selected()
	tabIndex := t.TabIndex()
	state := t.step.State()
	return Attributes{
		Role:            RoleTab,
		AriaSelected:    &selected,
		AriaDisabled:    t.step.Disabled(),
		AriaBusy:        state == StateLoading,
		TabIndex:        &tabIndex,
		DataState:       state,
		DataOrientation: t.step.root.orientation,
	}
}
