// Package config handles configuration loading for agent-connect.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable
// expansion and validated before use.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from AGENT_CONNECT_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/agent-connect/config.yaml
//  3. ~/.config/agent-connect/config.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	credentials:
//	  access_key_id: "${AWS_ACCESS_KEY_ID}"
//	  secret_access_key: "${AWS_SECRET_ACCESS_KEY}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Agent identity:
//
//	agent:
//	  region: "us-east-1"
//	  agent_id: "ABCDEF1234"
//	  agent_alias_id: "TSTALIASID"
//	  session_id: ""            # empty: generated at connect time
//
// Credentials:
//
//	credentials:
//	  access_key_id: "${AWS_ACCESS_KEY_ID}"
//	  secret_access_key: "${AWS_SECRET_ACCESS_KEY}"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
