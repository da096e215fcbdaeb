// Package form is the form engine. Given a mutation descriptor and a schema
// source it derives the editable fields, holds their values and validation
// errors, exposes per-field modifiers and submits through a transport.
//
// A Form is an in-memory, view-scoped object. Hosts read snapshots with
// State, drive it through Modifiers (or Change) and Submit, and are told about
// every state change through Subscribe. The Payload handed to observers
// carries the snapshot, the modifiers and the form itself, so a host can
// render and wire controls from a single callback.
//
// Submissions follow two paths:
//
//	Idle -> Validating -> Idle      local validation failed, transport not called
//	Idle -> Submitting -> Idle      transport called exactly once
//
// A Submit issued while another is in flight returns ErrBusy without touching
// the transport. Change calls are applied immediately, even mid-submit.
package form
