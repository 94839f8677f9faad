// ABOUTME: Tests for session config validation, id generation, and redaction.
// ABOUTME: Covers required-field checks and clone independence.

package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Region:          "us-east-1",
		AgentID:         "A1",
		AgentAliasID:    "TSTALIASID",
		AccessKeyID:     "AKIAEXAMPLE",
		SecretAccessKey: "secret",
	}
}

func TestValidate_AllFieldsPresent(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"region", func(c *Config) { c.Region = "" }, "region"},
		{"agent id", func(c *Config) { c.AgentID = "  " }, "agent_id"},
		{"alias id", func(c *Config) { c.AgentAliasID = "" }, "agent_alias_id"},
		{"access key", func(c *Config) { c.AccessKeyID = "" }, "access_key_id"},
		{"secret key", func(c *Config) { c.SecretAccessKey = "" }, "secret_access_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_SessionIDOptional(t *testing.T) {
	cfg := validConfig()
	cfg.SessionID = ""
	require.NoError(t, cfg.Validate())
}

func TestNewSessionID_PrefixAndUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewSessionID()
		assert.True(t, strings.HasPrefix(id, "session-"), "id %q missing prefix", id)
		assert.False(t, seen[id], "duplicate session id %q", id)
		seen[id] = true
	}
}

func TestClone_Independent(t *testing.T) {
	cfg := validConfig()
	clone := cfg.Clone()
	clone.AgentID = "other"
	assert.Equal(t, "A1", cfg.AgentID)
}

func TestRedacted_MasksSecrets(t *testing.T) {
	cfg := validConfig()
	red := cfg.Redacted()

	assert.Equal(t, "********", red.SecretAccessKey)
	assert.True(t, strings.HasPrefix(red.AccessKeyID, "AKIA"))
	assert.NotContains(t, red.AccessKeyID[4:], "E")

	// Original untouched.
	assert.Equal(t, "secret", cfg.SecretAccessKey)
	assert.Equal(t, "us-east-1", red.Region)
}
