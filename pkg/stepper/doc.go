// Package stepper implements a sequential disclosure controller: the state
// and focus model behind wizards and step indicators.
//
// A Root owns the active step, either on behalf of the caller (controlled
// mode, the caller mirrors its value in with Sync) or privately (self-managed
// mode, seeded from DefaultActiveStep). The mode is fixed when the Root is
// built. Steps derive their state from the Root on every read, Triggers
// register themselves into the Root's FocusRegistry when mounted and turn
// key presses into focus moves or transition requests.
//
// The package is headless. Hosts (see pkg/ui) render the values exposed
// here, implement "give focus" behind the Handle interface and drive every
// call from a single goroutine; nothing in this package locks.
package stepper
