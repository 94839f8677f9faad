// ABOUTME: Tests for YAML config loading, env expansion, and validation.
// ABOUTME: Uses temp files; no real config touched.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validYAML = `
agent:
  region: "us-east-1"
  agent_id: "A1"
  agent_alias_id: "TSTALIASID"
credentials:
  access_key_id: "AKIAEXAMPLE"
  secret_access_key: "topsecret"
logging:
  level: "debug"
  format: "json"
`

func TestLoad_Valid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "us-east-1", cfg.Agent.Region)
	assert.Equal(t, "A1", cfg.Agent.AgentID)
	assert.Equal(t, "TSTALIASID", cfg.Agent.AgentAliasID)
	assert.Equal(t, "AKIAEXAMPLE", cfg.Credentials.AccessKeyID)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_SECRET_KEY", "from-env")

	yaml := `
agent:
  region: "us-east-1"
  agent_id: "A1"
  agent_alias_id: "TSTALIASID"
credentials:
  access_key_id: "AKIAEXAMPLE"
  secret_access_key: "${TEST_SECRET_KEY}"
`
	cfg, err := Load(writeConfig(t, yaml))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Credentials.SecretAccessKey)
}

func TestLoad_MissingRequiredField(t *testing.T) {
	yaml := `
agent:
  region: "us-east-1"
  agent_alias_id: "TSTALIASID"
credentials:
  access_key_id: "AKIAEXAMPLE"
  secret_access_key: "topsecret"
`
	_, err := Load(writeConfig(t, yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent_id")
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "agent: [not a mapping"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestSessionConfig_Bridge(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	sc := cfg.SessionConfig()
	assert.Equal(t, "A1", sc.AgentID)
	assert.Equal(t, "topsecret", sc.SecretAccessKey)
	assert.Empty(t, sc.SessionID)
	require.NoError(t, sc.Validate())
}

func TestDefaultPath_EnvOverride(t *testing.T) {
	t.Setenv("AGENT_CONNECT_CONFIG", "/tmp/custom.yaml")
	assert.Equal(t, "/tmp/custom.yaml", DefaultPath())
}
