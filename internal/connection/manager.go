// ABOUTME: ConnectionManager owns the zero-or-one active agent session.
// ABOUTME: Validates config, derives the session id, and exposes connect/disconnect/status.

package connection

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/2389/agent-connect/internal/session"
	"github.com/2389/agent-connect/internal/transport"
)

// ErrAlreadyConnected indicates a connect attempt while a connection is
// already establishing or established. The prior attempt is never silently
// superseded.
var ErrAlreadyConnected = errors.New("already connecting or connected")

// Phase is the connection lifecycle phase.
type Phase int

const (
	PhaseDisconnected Phase = iota
	PhaseConnecting
	PhaseConnected
	PhaseFailed
)

// String returns the phase name for logging and display.
func (p Phase) String() string {
	switch p {
	case PhaseConnecting:
		return "connecting"
	case PhaseConnected:
		return "connected"
	case PhaseFailed:
		return "failed"
	default:
		return "disconnected"
	}
}

// State is a snapshot of the connection lifecycle. SessionID and AgentID are
// set when connected; Reason is set when failed.
type State struct {
	Phase     Phase
	SessionID string
	AgentID   string
	Reason    string
}

// Factory builds a transport handle bound to a config's region and
// credentials. Injected so tests can substitute a scripted transport.
type Factory func(ctx context.Context, cfg session.Config) (transport.Transport, error)

// Manager owns the live session config and transport handle. Callers only
// ever see copies of the config; the manager is safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	phase   Phase
	reason  string
	current session.Config
	tr      transport.Transport
	gen     uint64

	factory Factory
	logger  *slog.Logger
}

// NewManager creates a manager that builds transports with the given factory.
// Pass nil logger for the default.
func NewManager(factory Factory, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		phase:   PhaseDisconnected,
		factory: factory,
		logger:  logger.With("component", "connection"),
	}
}

// Connect validates the config, generates a session id when absent, builds a
// transport, and runs its self-test. Returns the resulting state; the error
// is non-nil only when the attempt was rejected outright (ErrAlreadyConnected).
//
// On any construction or self-test failure the returned state is Failed with
// a human-readable reason and the manager is immediately connectable again;
// it never sticks in Connecting. A validation failure never touches the
// stored current config. A Disconnect that arrives while the attempt is in
// flight wins: the attempt is abandoned and the manager stays Disconnected.
func (m *Manager) Connect(ctx context.Context, cfg session.Config) (State, error) {
	m.mu.Lock()
	if m.phase == PhaseConnecting || m.phase == PhaseConnected {
		st := m.stateLocked()
		m.mu.Unlock()
		return st, ErrAlreadyConnected
	}

	if err := cfg.Validate(); err != nil {
		// Rejected before any network attempt; prior config stays intact.
		m.phase = PhaseFailed
		m.reason = "Configuration invalid: " + err.Error()
		st := m.stateLocked()
		m.mu.Unlock()
		m.logger.Warn("connect rejected", "reason", err.Error())
		return st, nil
	}

	resolved := cfg.Clone()
	if resolved.SessionID == "" {
		resolved.SessionID = session.NewSessionID()
	}

	m.phase = PhaseConnecting
	m.current = resolved
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	tr, err := m.factory(ctx, resolved)
	if err == nil {
		err = tr.SelfTest(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != gen {
		// A Disconnect landed while the lock was released. The attempt is
		// abandoned: the manager stays in whatever state the interleaved
		// call left it, and the transport is discarded.
		m.logger.Info("connect abandoned", "agent_id", resolved.AgentID)
		return m.stateLocked(), nil
	}

	if err != nil {
		m.phase = PhaseFailed
		m.reason = transport.AsFailure(err).Message
		m.tr = nil
		m.logger.Warn("connect failed",
			"agent_id", resolved.AgentID,
			"region", resolved.Region,
			"error", err)
		return m.stateLocked(), nil
	}

	m.phase = PhaseConnected
	m.reason = ""
	m.tr = tr
	m.logger.Info("connected to agent",
		"agent_id", resolved.AgentID,
		"region", resolved.Region,
		"session_id", resolved.SessionID)
	return m.stateLocked(), nil
}

// Disconnect drops the transport handle and returns to Disconnected. The
// stored config keeps its credentials and agent identifiers so a reconnect
// needs no re-entry; only the session id is cleared so a fresh one is
// generated next time. Idempotent.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase == PhaseDisconnected && m.tr == nil {
		return
	}

	m.tr = nil
	m.phase = PhaseDisconnected
	m.reason = ""
	m.current.SessionID = ""
	m.gen++
	m.logger.Info("disconnected")
}

// Status returns the current connection state. Pure read.
func (m *Manager) Status() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

// CurrentConfig returns a copy of the stored config. Mutating the copy never
// affects the live configuration.
func (m *Manager) CurrentConfig() session.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Clone()
}

// Transport returns the live transport handle, or nil when not connected.
func (m *Manager) Transport() transport.Transport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tr
}

func (m *Manager) stateLocked() State {
	st := State{Phase: m.phase, Reason: m.reason}
	if m.phase == PhaseConnected {
		st.SessionID = m.current.SessionID
		st.AgentID = m.current.AgentID
	}
	return st
}
