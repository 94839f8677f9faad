// Package transport defines the contract between the conversation engine and
// the remote agent.
//
// # Contract
//
// A Transport carries one turn to the agent and streams the response back as
// an ordered channel of tagged events:
//
//	events, err := tr.Invoke(ctx, cfg, "hello")
//
// The channel yields zero or more EventFragment events followed by exactly
// one terminal event (EventDone or EventError), then closes. Fragments are
// delivered one at a time, in order, and never concurrently for a given turn.
//
// # Failure taxonomy
//
// Failures are classified values, not panics:
//
//   - KindConnection: construction or self-test failure
//   - KindNotFound: agent/alias/region mismatch, agent not ready
//   - KindAccessDenied: credential or permission failure
//   - KindValidation: malformed request parameters
//   - KindUnknown: everything else, message passed through verbatim
//
// NeedsTroubleshooting decides whether a failure should surface guided
// remediation. When no structured kind is available it falls back to
// substring matching on the message text; treat that path as best-effort.
package transport
