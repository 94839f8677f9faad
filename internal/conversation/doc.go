// Package conversation implements the streaming conversation engine.
//
// # Overview
//
// An Engine owns one conversation: the ordered message log, the
// single-turn-in-flight invariant, and the consumer-facing snapshot emitted
// after every state change.
//
//	engine := conversation.NewEngine(manager, logger)
//	engine.SubmitTurn(ctx, "hello")
//
// # Turn lifecycle
//
// SubmitTurn appends the user message, appends an empty agent placeholder
// marked as the streaming target, and invokes the transport. Each streamed
// fragment replaces the placeholder's text with the cumulative assembled
// text so far; the cumulative text only ever grows. Completion finalizes the
// placeholder (transport final text, else assembled text, else a fixed
// fallback) and clears the last error. Failure removes the placeholder
// entirely and appends a single classified error message; the log never
// shows a dangling empty agent message.
//
// Exactly one of completion or failure happens per turn. A second submit
// while a turn is in flight is a silent no-op.
//
// # Snapshots
//
// Every mutation publishes a Snapshot through the Broadcaster. Snapshots are
// copies; consumers observe a strictly increasing sequence of states and can
// never regress except through the explicit, user-visible Clear.
//
// The engine is rendering-agnostic: it does not throttle fragment emission,
// and surfacing decisions (auto-scroll, troubleshooting views) belong to the
// consumer, driven by StreamingMessageID, message count, and LastError.
//
// # Staleness
//
// Every turn captures the engine epoch and the originating session id at
// submission. Late fragments, completions, or failures from a turn whose
// epoch or session is no longer current are discarded, so Clear or a
// disconnect cannot be undone by a straggling stream.
package conversation
