// ABOUTME: Message and Snapshot types exposed to conversation consumers.
// ABOUTME: Messages are owned by the engine's log; snapshots are immutable copies.

package conversation

import "time"

// Role identifies who a message belongs to.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleError Role = "error"
)

// Message is one entry in the conversation log. IDs are derived from
// creation time and strictly increase within a conversation; a turn's
// request/response pair is allocated adjacent ids so they never collide.
// Text is mutable only while the message is the active streaming target.
type Message struct {
	ID        int64
	Role      Role
	Text      string
	CreatedAt time.Time
}

// Timestamp formats the creation time for display. Formatting is deferred to
// render time rather than stored on the message.
func (m Message) Timestamp() string {
	return m.CreatedAt.Format("15:04:05")
}

// Snapshot is an immutable consumer-facing view of conversation state,
// emitted after every state-changing operation. At most one message has its
// id equal to StreamingMessageID; TurnInFlight is true from submission until
// the turn completes or fails.
type Snapshot struct {
	Messages           []Message
	StreamingMessageID int64
	TurnInFlight       bool
	LastError          *TurnError
}

// TurnError is the classified failure of the most recent turn, cleared on
// the next successful one.
type TurnError struct {
	Kind            string
	Message         string
	Troubleshooting bool
}
