package stepper

import "reflect"

// Handle is anything that can be given keyboard focus by the host runtime.
// Handles are compared by identity, so implementations should be pointers.
// Handles of uncomparable types (funcs, structs holding slices) are never
// registered.
type Handle interface {
	Focus()
}

// FocusRegistry is the ordered set of focusable handles currently mounted
// under one Root. Order is registration (mount) order, not ordinal order.
//
// Every focus operation tolerates a registry that changed shape since the
// caller last looked at it: out of range indices and empty registries are
// no-ops.
type FocusRegistry struct {
	handles []Handle
}

// NewFocusRegistry returns an empty registry.
func NewFocusRegistry() *FocusRegistry {
	return &FocusRegistry{}
}

// Register appends h unless it is already present.
func (r *FocusRegistry) Register(h Handle) {
	if !isComparable(h) || r.IndexOf(h) >= 0 {
		return
	}
	r.handles = append(r.handles, h)
}

// Unregister removes h. Absent handles are ignored.
func (r *FocusRegistry) Unregister(h Handle) {
	i := r.IndexOf(h)
	if i < 0 {
		return
	}
	r.handles = append(r.handles[:i], r.handles[i+1:]...)
}

// IndexOf returns the position of h, or -1.
func (r *FocusRegistry) IndexOf(h Handle) int {
	if !isComparable(h) {
		return -1
	}
	for i, existing := range r.handles {
		if existing == h {
			return i
		}
	}
	return -1
}

// Len returns the number of registered handles.
func (r *FocusRegistry) Len() int {
	return len(r.handles)
}

// Handles returns a copy of the registered handles in registration order.
func (r *FocusRegistry) Handles() []Handle {
	out := make([]Handle, len(r.handles))
	copy(out, r.handles)
	return out
}

// FocusAt gives focus to the handle at index. Stale indices are ignored.
func (r *FocusRegistry) FocusAt(index int) {
	if index < 0 || index >= len(r.handles) {
		return
	}
	r.handles[index].Focus()
}

// FocusNext focuses the handle after from, wrapping to the first one.
func (r *FocusRegistry) FocusNext(from int) {
	r.FocusAt(r.wrap(from + 1))
}

// FocusPrev focuses the handle before from, wrapping to the last one.
func (r *FocusRegistry) FocusPrev(from int) {
	r.FocusAt(r.wrap(from - 1))
}

// FocusFirst focuses the first registered handle.
func (r *FocusRegistry) FocusFirst() {
	r.FocusAt(0)
}

// FocusLast focuses the last registered handle.
func (r *FocusRegistry) FocusLast() {
	r.FocusAt(len(r.handles) - 1)
}

// wrap maps i into [0, Len()) with Go's truncated modulo corrected for
// negative values. It returns -1 for an empty registry.
func (r *FocusRegistry) wrap(i int) int {
	n := len(r.handles)
	if n == 0 {
		return -1
	}
	return ((i % n) + n) % n
}

func isComparable(h Handle) bool {
	return h != nil && reflect.TypeOf(h).Comparable()
}
