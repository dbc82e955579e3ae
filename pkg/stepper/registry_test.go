package stepper

import "testing"

type fakeHandle struct {
	name    string
	focused *[]string
}

func (h *fakeHandle) Focus() {
	*h.focused = append(*h.focused, h.name)
}

func newFakeHandles(names ...string) ([]*fakeHandle, *[]string) {
	var log []string
	handles := make([]*fakeHandle, len(names))
	for i, n := range names {
		handles[i] = &fakeHandle{name: n, focused: &log}
	}
	return handles, &log
}

func lastFocus(log *[]string) string {
	if len(*log) == 0 {
		return ""
	}
	return (*log)[len(*log)-1]
}

func TestRegistryRegisterIsIdempotent(t *testing.T) {
	hs, _ := newFakeHandles("a", "b")
	r := NewFocusRegistry()

	r.Register(hs[0])
	r.Register(hs[0])
	r.Register(hs[1])

	if r.Len() != 2 {
		t.Fatalf("Expected 2 handles, got %d", r.Len())
	}
	if r.IndexOf(hs[1]) != 1 {
		t.Errorf("Expected b at index 1, got %d", r.IndexOf(hs[1]))
	}

	r.Register(nil)
	if r.Len() != 2 {
		t.Errorf("Registering nil should be ignored, got len %d", r.Len())
	}
}

func TestRegistryUnregister(t *testing.T) {
	hs, _ := newFakeHandles("a", "b", "c", "stranger")
	r := NewFocusRegistry()
	r.Register(hs[0])
	r.Register(hs[1])
	r.Register(hs[2])

	r.Unregister(hs[3])
	if r.Len() != 3 {
		t.Fatalf("Unregistering an absent handle changed len to %d", r.Len())
	}

	r.Unregister(hs[1])
	if r.Len() != 2 {
		t.Fatalf("Expected 2 handles after unregister, got %d", r.Len())
	}
	if r.IndexOf(hs[2]) != 1 {
		t.Errorf("Expected c to shift to index 1, got %d", r.IndexOf(hs[2]))
	}
	if r.IndexOf(hs[1]) != -1 {
		t.Errorf("Expected b to be gone, got index %d", r.IndexOf(hs[1]))
	}

	r.Unregister(hs[1])
	if r.Len() != 2 {
		t.Errorf("Second unregister should be a no-op, got len %d", r.Len())
	}
}

func TestRegistryWraparound(t *testing.T) {
	hs, log := newFakeHandles("a", "b", "c")
	r := NewFocusRegistry()
	for _, h := range hs {
		r.Register(h)
	}

	tests := []struct {
		name string
		move func()
		want string
	}{
		{"next from last wraps to first", func() { r.FocusNext(2) }, "a"},
		{"prev from first wraps to last", func() { r.FocusPrev(0) }, "c"},
		{"next from middle", func() { r.FocusNext(0) }, "b"},
		{"prev from middle", func() { r.FocusPrev(2) }, "b"},
		{"first", func() { r.FocusFirst() }, "a"},
		{"last", func() { r.FocusLast() }, "c"},
		{"prev from unregistered index", func() { r.FocusPrev(-1) }, "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.move()
			if got := lastFocus(log); got != tt.want {
				t.Errorf("focused %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegistryEmptyAndStale(t *testing.T) {
	hs, log := newFakeHandles("a")
	r := NewFocusRegistry()

	r.FocusNext(0)
	r.FocusPrev(0)
	r.FocusFirst()
	r.FocusLast()
	r.FocusAt(3)
	if len(*log) != 0 {
		t.Fatalf("Empty registry should not focus anything, got %v", *log)
	}

	r.Register(hs[0])
	r.FocusAt(1)
	r.FocusAt(-1)
	if len(*log) != 0 {
		t.Errorf("Stale indices should be no-ops, got %v", *log)
	}

	r.FocusNext(0)
	if lastFocus(log) != "a" {
		t.Errorf("Single handle should wrap onto itself, got %v", *log)
	}
}

func TestRegistryHandlesIsACopy(t *testing.T) {
	hs, _ := newFakeHandles("a", "b")
	r := NewFocusRegistry()
	r.Register(hs[0])
	r.Register(hs[1])

	out := r.Handles()
	out[0] = nil
	if r.IndexOf(hs[0]) != 0 {
		t.Error("Mutating Handles() result changed the registry")
	}
}

type funcHandle func()

func (f funcHandle) Focus() { f() }

type sliceHandle struct{ names []string }

func (sliceHandle) Focus() {}

func TestRegistryIgnoresUncomparableHandles(t *testing.T) {
	hs, _ := newFakeHandles("a")
	r := NewFocusRegistry()
	r.Register(hs[0])

	for _, h := range []Handle{funcHandle(func() {}), sliceHandle{names: []string{"x"}}} {
		r.Register(h)
		if i := r.IndexOf(h); i != -1 {
			t.Errorf("IndexOf(%T) = %d, want -1", h, i)
		}
		r.Unregister(h)
	}
	if r.Len() != 1 || r.IndexOf(hs[0]) != 0 {
		t.Errorf("Registry changed: len=%d", r.Len())
	}
}
