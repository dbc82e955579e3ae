package stepper

import (
	"io"
	"log"
)

// Orientation controls layout and the labels shown for arrow keys.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// IsValid reports whether o is a known orientation.
func (o Orientation) IsValid() bool {
	return o == Horizontal || o == Vertical
}

// Variant is the visual style of a stepper. It has no behavioural effect.
type Variant string

const (
	VariantCard    Variant = "card"
	VariantMinimal Variant = "minimal"
)

// IsValid reports whether v is a known variant.
func (v Variant) IsValid() bool {
	return v == VariantCard || v == VariantMinimal
}

// Options configures a Root. Setting ActiveStep switches the Root into
// controlled mode for its whole lifetime.
type Options struct {
	DefaultActiveStep  int
	ActiveStep         *int
	OnActiveStepChange func(step int)

	// OnFocus is the host's native focus hook. It runs whenever a Trigger
	// is given focus through the registry.
	OnFocus func(t *Trigger)

	Orientation        Orientation
	Variant            Variant
	IndicatorOverrides map[StepState]string

	Logger *log.Logger
}

// ActiveAt returns a pointer to step, for use as Options.ActiveStep.
func ActiveAt(step int) *int {
	return &step
}

type subscriber struct {
	id int
	fn func(step int)
}

// Root is the single source of truth for the active step of one stepper
// instance. It hosts the FocusRegistry shared by the instance's triggers.
type Root struct {
	controlled bool
	active     int

	onChange func(step int)
	onFocus  func(t *Trigger)

	orientation Orientation
	variant     Variant
	indicators  map[StepState]string

	registry *FocusRegistry
	focused  *Trigger

	subscribers []subscriber
	nextSubID   int

	logger *log.Logger
}

// New builds a Root. The presence of opts.ActiveStep decides the mode once.
func New(opts Options) *Root {
	r := &Root{
		onChange:    opts.OnActiveStepChange,
		onFocus:     opts.OnFocus,
		orientation: opts.Orientation,
		variant:     opts.Variant,
		registry:    NewFocusRegistry(),
		logger:      opts.Logger,
	}

	if opts.ActiveStep != nil {
		r.controlled = true
		r.active = *opts.ActiveStep
	} else {
		r.active = opts.DefaultActiveStep
	}

	if !r.orientation.IsValid() {
		r.orientation = Horizontal
	}
	if !r.variant.IsValid() {
		r.variant = VariantCard
	}

	if len(opts.IndicatorOverrides) > 0 {
		r.indicators = make(map[StepState]string, len(opts.IndicatorOverrides))
		for state, content := range opts.IndicatorOverrides {
			r.indicators[state] = content
		}
	}

	if r.logger == nil {
		r.logger = log.New(io.Discard, "", 0)
	}

	return r
}

// ActiveStep returns the current active ordinal.
func (r *Root) ActiveStep() int {
	return r.active
}

// Controlled reports whether the caller owns the active step.
func (r *Root) Controlled() bool {
	return r.controlled
}

// Orientation returns the instance orientation.
func (r *Root) Orientation() Orientation {
	return r.orientation
}

// Variant returns the instance variant.
func (r *Root) Variant() Variant {
	return r.variant
}

// Indicator returns the override content configured for state, if any.
func (r *Root) Indicator(state StepState) (string, bool) {
	content, ok := r.indicators[state]
	return content, ok
}

// Registry returns the focus registry of this instance.
func (r *Root) Registry() *FocusRegistry {
	return r.registry
}

// Focused returns the trigger that last received focus, or nil.
func (r *Root) Focused() *Trigger {
	return r.focused
}

// SetActiveStep requests a transition to step. The value is not validated:
// an ordinal without a matching step leaves every step without the active
// state.
//
// In self-managed mode the new value is stored before OnActiveStepChange
// runs. In controlled mode only the callback runs; the caller decides
// whether to Sync.
func (r *Root) SetActiveStep(step int) {
	r.logger.Printf("stepper: transition request %d (active=%d, controlled=%t)", step, r.active, r.controlled)

	if !r.controlled {
		r.active = step
	}
	if r.onChange != nil {
		r.onChange(step)
	}
	if !r.controlled {
		r.notify()
	}
}

// Sync mirrors the caller-owned active step into a controlled Root.
func (r *Root) Sync(step int) error {
	if !r.controlled {
		return ErrNotControlled
	}
	if step == r.active {
		return nil
	}
	r.active = step
	r.notify()
	return nil
}

// Subscribe registers fn to be called after every change of the active
// step. The returned function removes the subscription and may be called
// more than once.
func (r *Root) Subscribe(fn func(step int)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	r.nextSubID++
	id := r.nextSubID
	r.subscribers = append(r.subscribers, subscriber{id: id, fn: fn})

	return func() {
		for i, s := range r.subscribers {
			if s.id == id {
				r.subscribers = append(r.subscribers[:i], r.subscribers[i+1:]...)
				return
			}
		}
	}
}

// notify fans the current value out to a snapshot of the subscriber list,
// so callbacks may unsubscribe while being notified.
func (r *Root) notify() {
	if len(r.subscribers) == 0 {
		return
	}
	subs := make([]subscriber, len(r.subscribers))
	copy(subs, r.subscribers)
	for _, s := range subs {
		s.fn(r.active)
	}
}

// OutOfOrder reports whether the mounted triggers, in registry order, do not
// ascend by ordinal. Focus movement follows registry order, so hosts can use
// this to warn about steps that mounted out of visual sequence.
func (r *Root) OutOfOrder() bool {
	prev := 0
	first := true
	for _, h := range r.registry.handles {
		t, ok := h.(*Trigger)
		if !ok {
			continue
		}
		ord := t.step.Ordinal()
		if !first && ord < prev {
			return true
		}
		prev = ord
		first = false
	}
	return false
}

// TabStop returns the mounted trigger reached by sequential navigation: the
// selected one. It is nil when the active ordinal has no mounted trigger.
func (r *Root) TabStop() *Trigger {
	for _, h := range r.registry.handles {
		if t, ok := h.(*Trigger); ok && t.Selected() {
			return t
		}
	}
	return nil
}

// Nav describes the container that groups the triggers.
func (r *Root) Nav() Attributes {
	return Attributes{
		Role:            RoleTabList,
		AriaOrientation: r.orientation,
		DataOrientation: r.orientation,
		DataVariant:     r.variant,
	}
}

func (r *Root) focus(t *Trigger) {
	r.focused = t
	if r.onFocus != nil {
		r.onFocus(t)
	}
}

func (r *Root) blur(t *Trigger) {
	if r.focused == t {
		r.focused = nil
	}
}
