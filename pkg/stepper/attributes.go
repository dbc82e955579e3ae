package stepper

import "strconv"

// Accessibility roles used by the components.
const (
	RoleTabList  = "tablist"
	RoleTab      = "tab"
	RoleTabPanel = "tabpanel"
	RoleGroup    = "group"
)

// Attributes is what a component exposes to assistive technology and to
// styling hooks. Hosts render it in whatever form their runtime needs;
// Map gives the canonical attribute names.
type Attributes struct {
	Role            string
	AriaOrientation Orientation
	AriaSelected    *bool
	AriaDisabled    bool
	AriaBusy        bool
	AriaHidden      bool
	Hidden          bool
	TabIndex        *int

	DataState       StepState
	DataOrientation Orientation
	DataVariant     Variant
}

// Map returns the attributes keyed by their DOM-style names. Unset optional
// attributes are omitted.
func (a Attributes) Map() map[string]string {
	m := make(map[string]string)
	if a.Role != "" {
		m["role"] = a.Role
	}
	if a.AriaOrientation != "" {
		m["aria-orientation"] = string(a.AriaOrientation)
	}
	if a.AriaSelected != nil {
		m["aria-selected"] = strconv.FormatBool(*a.AriaSelected)
	}
	if a.AriaDisabled {
		m["aria-disabled"] = "true"
	}
	if a.AriaBusy {
		m["aria-busy"] = "true"
	}
	if a.AriaHidden {
		m["aria-hidden"] = "true"
	}
	if a.Hidden {
		m["hidden"] = ""
	}
	if a.TabIndex != nil {
		m["tabindex"] = strconv.Itoa(*a.TabIndex)
	}
	if a.DataState != "" {
		m["data-state"] = string(a.DataState)
	}
	if a.DataOrientation != "" {
		m["data-orientation"] = string(a.DataOrientation)
	}
	if a.DataVariant != "" {
		m["data-variant"] = string(a.DataVariant)
	}
	return m
}
