// ABOUTME: SessionConfig holds the credential and identity bundle for one agent connection.
// ABOUTME: Provides validation, session-id generation, defensive copies, and redaction.

package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config is the identity/credential/address tuple bound to a connection.
// Region, AgentID, AgentAliasID and both credential fields are required.
// SessionID is optional; the connection layer generates one when empty.
type Config struct {
	Region       string
	AgentID      string
	AgentAliasID string

	AccessKeyID     string
	SecretAccessKey string

	SessionID string
}

// Validate checks that all required fields are present.
// Returns an error describing the first missing field encountered.
// A missing SessionID is not an error.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Region) == "":
		return fmt.Errorf("region is required")
	case strings.TrimSpace(c.AgentID) == "":
		return fmt.Errorf("agent_id is required")
	case strings.TrimSpace(c.AgentAliasID) == "":
		return fmt.Errorf("agent_alias_id is required")
	case strings.TrimSpace(c.AccessKeyID) == "":
		return fmt.Errorf("access_key_id is required")
	case strings.TrimSpace(c.SecretAccessKey) == "":
		return fmt.Errorf("secret_access_key is required")
	}
	return nil
}

// Clone returns an independent copy of the config. Callers only ever see
// clones of the live config held by the connection manager.
func (c Config) Clone() Config {
	return c
}

// Redacted returns a copy safe for logging and display: the secret key is
// masked, the access key id keeps its first four characters.
func (c Config) Redacted() Config {
	out := c
	if len(out.AccessKeyID) > 4 {
		out.AccessKeyID = out.AccessKeyID[:4] + strings.Repeat("*", len(out.AccessKeyID)-4)
	}
	if out.SecretAccessKey != "" {
		out.SecretAccessKey = "********"
	}
	return out
}

// NewSessionID generates a session identifier with a time-based prefix and a
// random suffix, unique with overwhelming probability across the process.
func NewSessionID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("session-%d-%s", time.Now().UnixMilli(), suffix)
}
