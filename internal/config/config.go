// ABOUTME: Configuration loading and parsing for agent-connect.
// ABOUTME: Supports YAML files with environment variable expansion.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/2389/agent-connect/internal/session"
)

// Config represents the complete agent-connect configuration.
type Config struct {
	Agent       AgentConfig       `yaml:"agent"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// AgentConfig names the remote agent to connect to.
type AgentConfig struct {
	Region       string `yaml:"region"`
	AgentID      string `yaml:"agent_id"`
	AgentAliasID string `yaml:"agent_alias_id"`
	// SessionID pins a session identifier; leave empty to generate a fresh
	// one at connect time.
	SessionID string `yaml:"session_id"`
}

// CredentialsConfig holds the credential pair for the agent's region.
type CredentialsConfig struct {
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded
// before parsing, so secrets can live outside the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables expand to the empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	return c.SessionConfig().Validate()
}

// SessionConfig bridges the file configuration into the session config
// consumed by the connection layer.
func (c *Config) SessionConfig() session.Config {
	return session.Config{
		Region:          c.Agent.Region,
		AgentID:         c.Agent.AgentID,
		AgentAliasID:    c.Agent.AgentAliasID,
		AccessKeyID:     c.Credentials.AccessKeyID,
		SecretAccessKey: c.Credentials.SecretAccessKey,
		SessionID:       c.Agent.SessionID,
	}
}

// DefaultPath returns the path to the config file.
// Priority: AGENT_CONNECT_CONFIG env var > XDG_CONFIG_HOME/agent-connect/config.yaml
// > ~/.config/agent-connect/config.yaml
func DefaultPath() string {
	if envPath := os.Getenv("AGENT_CONNECT_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "agent-connect", "config.yaml")
}
