// Package connection manages the lifecycle of the single agent session.
//
// # Lifecycle
//
// A Manager starts Disconnected and moves through:
//
//	Disconnected -> Connecting -> Connected
//	                          \-> Failed (reason) -> connectable again
//
// Connect validates the config before any network attempt, generates a
// session id when none is supplied, builds a transport via the injected
// Factory, and runs the transport's cheap self-test. A concurrent or
// duplicate Connect is rejected with ErrAlreadyConnected rather than
// superseding the in-flight attempt.
//
// Disconnect is idempotent: it drops the transport handle and clears only the
// session id, keeping credentials and agent identifiers so reconnecting does
// not require re-entry.
//
// # Ownership
//
// The manager exclusively owns the live session config. Status and
// CurrentConfig return copies; callers cannot corrupt internal state.
package connection
