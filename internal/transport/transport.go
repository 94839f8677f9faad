// ABOUTME: AgentTransport contract and the streamed event types it delivers.
// ABOUTME: A turn produces an ordered event channel: fragments, then done or error.

package transport

import (
	"context"

	"github.com/2389/agent-connect/internal/session"
)

// Transport is the opaque capability that carries one turn to the remote
// agent and streams the response back. Fragments for a turn are delivered
// in order, one at a time, and the channel is closed after the terminal
// Done or Error event.
type Transport interface {
	// Invoke dispatches a turn. An immediate error means the request never
	// started; otherwise the returned channel yields zero or more fragment
	// events terminated by exactly one Done or Error event.
	Invoke(ctx context.Context, cfg session.Config, text string) (<-chan *Event, error)

	// SelfTest is a cheap reachability check run at connect time. It only
	// confirms the transport was constructed correctly; it does not
	// guarantee that subsequent turns will succeed.
	SelfTest(ctx context.Context) error
}

// EventKind indicates the type of a streamed event.
type EventKind int

const (
	// EventFragment carries an incremental piece of response text.
	EventFragment EventKind = iota
	// EventDone terminates the stream; Text carries the transport's final
	// full-text value when it provides one.
	EventDone
	// EventError terminates the stream with a classified failure.
	EventError
)

// Event is one element of a turn's response stream.
type Event struct {
	Kind EventKind
	Text string   // fragment text, or final full text for EventDone
	Err  *Failure // set for EventError
	Done bool     // true for terminal events
}
