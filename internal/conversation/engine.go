// ABOUTME: ConversationEngine owns the message log and the single-turn-in-flight invariant.
// ABOUTME: Drives turns through the transport, assembles fragments, classifies failures.

package conversation

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/2389/agent-connect/internal/connection"
	"github.com/2389/agent-connect/internal/session"
	"github.com/2389/agent-connect/internal/transport"
)

// completedFallbackText is used when a turn completes with no assembled text
// and no transport-supplied final text.
const completedFallbackText = "Agent response completed"

// Conn is what the engine needs from the connection layer.
type Conn interface {
	Status() connection.State
	Transport() transport.Transport
	CurrentConfig() session.Config
}

// Engine coordinates one conversation: an append-only message log, at most
// one turn in flight, and a snapshot emitted after every change. All state
// mutations are synchronous and atomic per fragment; the only suspension
// point is the transport call itself.
type Engine struct {
	conn   Conn
	bcast  *Broadcaster
	logger *slog.Logger

	mu          sync.Mutex
	messages    []Message
	streamingID int64
	inFlight    bool
	lastErr     *TurnError
	epoch       uint64
	lastID      int64
}

// NewEngine creates an engine bound to a connection. Pass nil logger for the
// default. Multiple independent conversations require multiple engines; logs
// are never shared.
func NewEngine(conn Conn, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		conn:   conn,
		bcast:  NewBroadcaster(logger),
		logger: logger.With("component", "conversation"),
	}
}

// Snapshot returns an immutable copy of the current conversation state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Subscribe registers for a snapshot after every state change. The
// subscription is cleaned up when ctx is cancelled.
func (e *Engine) Subscribe(ctx context.Context) (<-chan Snapshot, string) {
	return e.bcast.Subscribe(ctx)
}

// SubmitTurn appends the user message and a streaming placeholder, then
// drives the turn through the transport asynchronously. It returns
// immediately.
//
// Preconditions: connected, non-blank text, no turn in flight. A violating
// call is a silent no-op so the single-turn invariant holds even under a
// racing double-submit; callers are expected to have checked state first.
func (e *Engine) SubmitTurn(ctx context.Context, text string) {
	text = strings.TrimSpace(text)

	e.mu.Lock()
	if text == "" || e.inFlight {
		e.mu.Unlock()
		e.logger.Debug("turn rejected", "in_flight", e.inFlight)
		return
	}
	if e.conn.Status().Phase != connection.PhaseConnected {
		e.mu.Unlock()
		e.logger.Debug("turn rejected, not connected")
		return
	}
	tr := e.conn.Transport()
	if tr == nil {
		e.mu.Unlock()
		return
	}

	cfg := e.conn.CurrentConfig()
	epoch := e.epoch
	userID, agentID := e.allocTurnIDs()
	now := time.Now()

	e.messages = append(e.messages, Message{ID: userID, Role: RoleUser, Text: text, CreatedAt: now})
	e.publishLocked()

	e.messages = append(e.messages, Message{ID: agentID, Role: RoleAgent, CreatedAt: now})
	e.streamingID = agentID
	e.inFlight = true
	e.publishLocked()
	e.mu.Unlock()

	go e.runTurn(ctx, tr, cfg, text, epoch, agentID)
}

// Clear resets the message log and error state without touching the
// connection. Bumping the epoch makes any in-flight turn's late events
// stale, so a cleared conversation cannot be resurrected by them.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.epoch++
	e.messages = nil
	e.streamingID = 0
	e.inFlight = false
	e.lastErr = nil
	e.publishLocked()
	e.logger.Debug("conversation cleared", "epoch", e.epoch)
}

// runTurn consumes the transport's event stream for one turn. Exactly one of
// complete or fail happens per turn; a closed stream with no terminal event
// counts as completion with whatever was assembled.
func (e *Engine) runTurn(ctx context.Context, tr transport.Transport, cfg session.Config, text string, epoch uint64, agentID int64) {
	events, err := tr.Invoke(ctx, cfg, text)
	if err != nil {
		e.failTurn(epoch, cfg.SessionID, agentID, transport.AsFailure(err))
		return
	}

	var assembled strings.Builder
	for ev := range events {
		switch ev.Kind {
		case transport.EventFragment:
			assembled.WriteString(ev.Text)
			e.applyFragment(epoch, cfg.SessionID, agentID, assembled.String())
		case transport.EventDone:
			e.completeTurn(epoch, cfg.SessionID, agentID, ev.Text, assembled.String())
			return
		case transport.EventError:
			e.failTurn(epoch, cfg.SessionID, agentID, ev.Err)
			return
		}
	}

	e.completeTurn(epoch, cfg.SessionID, agentID, "", assembled.String())
}

// applyFragment replaces the placeholder's text with the cumulative
// assembled text. Fragments never reorder and the text never shrinks.
func (e *Engine) applyFragment(epoch uint64, sessionID string, agentID int64, cumulative string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.staleLocked(epoch, sessionID) {
		return
	}
	if i := e.indexOfLocked(agentID); i >= 0 {
		e.messages[i].Text = cumulative
		e.publishLocked()
	}
}

// completeTurn finalizes the placeholder: transport final text wins, then
// the assembled text, then the completion fallback.
func (e *Engine) completeTurn(epoch uint64, sessionID string, agentID int64, finalText, assembled string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.staleLocked(epoch, sessionID) {
		e.logger.Debug("discarding stale completion", "message_id", agentID)
		e.settleStaleTurnLocked(epoch, agentID)
		return
	}

	final := finalText
	if final == "" {
		final = assembled
	}
	if final == "" {
		final = completedFallbackText
	}

	if i := e.indexOfLocked(agentID); i >= 0 {
		e.messages[i].Text = final
	}
	e.streamingID = 0
	e.inFlight = false
	e.lastErr = nil
	e.publishLocked()
}

// failTurn removes the placeholder so a failed turn leaves no empty agent
// message behind, then appends a single error message.
func (e *Engine) failTurn(epoch uint64, sessionID string, agentID int64, failure *transport.Failure) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.staleLocked(epoch, sessionID) {
		e.logger.Debug("discarding stale failure", "message_id", agentID)
		e.settleStaleTurnLocked(epoch, agentID)
		return
	}

	if i := e.indexOfLocked(agentID); i >= 0 {
		e.messages = append(e.messages[:i], e.messages[i+1:]...)
	}

	turnErr := &TurnError{
		Kind:            failure.Kind.String(),
		Message:         failure.Message,
		Troubleshooting: failure.NeedsTroubleshooting(),
	}
	e.messages = append(e.messages, Message{
		ID:        e.nextIDLocked(),
		Role:      RoleError,
		Text:      "Error: " + failure.Message,
		CreatedAt: time.Now(),
	})
	e.lastErr = turnErr
	e.streamingID = 0
	e.inFlight = false
	e.publishLocked()

	e.logger.Warn("turn failed",
		"kind", turnErr.Kind,
		"troubleshooting", turnErr.Troubleshooting,
		"error", failure.Message)
}

// settleStaleTurnLocked handles a terminal event from a turn whose session
// died under it (disconnect mid-stream, same epoch). The dead turn's
// placeholder is removed and the in-flight bookkeeping cleared so the engine
// stays usable after a reconnect; nothing is appended and no error is set.
// Turns invalidated by Clear (epoch bump) need no settling: Clear already
// reset the bookkeeping.
func (e *Engine) settleStaleTurnLocked(epoch uint64, agentID int64) {
	if e.epoch != epoch || e.streamingID != agentID {
		return
	}
	if i := e.indexOfLocked(agentID); i >= 0 {
		e.messages = append(e.messages[:i], e.messages[i+1:]...)
	}
	e.streamingID = 0
	e.inFlight = false
	e.publishLocked()
}

// staleLocked reports whether an event belongs to an earlier epoch or a
// session that is no longer current; such events must not mutate state.
func (e *Engine) staleLocked(epoch uint64, sessionID string) bool {
	if e.epoch != epoch {
		return true
	}
	return e.conn.CurrentConfig().SessionID != sessionID
}

// allocTurnIDs reserves adjacent ids for a request/response pair.
func (e *Engine) allocTurnIDs() (userID, agentID int64) {
	userID = e.nextIDLocked()
	agentID = e.nextIDLocked()
	return userID, agentID
}

func (e *Engine) nextIDLocked() int64 {
	id := time.Now().UnixMilli()
	if id <= e.lastID {
		id = e.lastID + 1
	}
	e.lastID = id
	return id
}

func (e *Engine) indexOfLocked(id int64) int {
	for i := len(e.messages) - 1; i >= 0; i-- {
		if e.messages[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) snapshotLocked() Snapshot {
	msgs := make([]Message, len(e.messages))
	copy(msgs, e.messages)

	var lastErr *TurnError
	if e.lastErr != nil {
		cp := *e.lastErr
		lastErr = &cp
	}

	return Snapshot{
		Messages:           msgs,
		StreamingMessageID: e.streamingID,
		TurnInFlight:       e.inFlight,
		LastError:          lastErr,
	}
}

func (e *Engine) publishLocked() {
	e.bcast.Publish(e.snapshotLocked())
}
