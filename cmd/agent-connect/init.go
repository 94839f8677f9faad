// ABOUTME: Interactive config creation for agent-connect.
// ABOUTME: Prompts for agent identity and credentials; the secret is read without echo.

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/2389/agent-connect/internal/config"
)

func runInit() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("agent-connect configuration setup")
	fmt.Println("=================================")
	fmt.Println()

	outputFile := prompt(reader, "Config file path", config.DefaultPath())

	if _, err := os.Stat(outputFile); err == nil {
		overwrite := prompt(reader, "File exists. Overwrite?", "no")
		if strings.ToLower(overwrite) != "yes" && strings.ToLower(overwrite) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	fmt.Println("\n--- Agent Configuration ---")
	region := prompt(reader, "Region", "us-east-1")
	agentID := prompt(reader, "Agent ID", "")
	aliasID := prompt(reader, "Agent alias ID", "TSTALIASID")

	fmt.Println("\n--- Credentials ---")
	accessKey := prompt(reader, "Access key ID", "")
	secretKey, err := promptSecret("Secret access key")
	if err != nil {
		return fmt.Errorf("reading secret: %w", err)
	}

	fmt.Println("\n--- Logging Configuration ---")
	logLevel := prompt(reader, "Log level (debug/info/warn/error)", "warn")
	logFormat := prompt(reader, "Log format (text/json)", "text")

	var cfg strings.Builder
	cfg.WriteString("# agent-connect configuration\n")
	cfg.WriteString("# Generated by agent-connect init\n\n")

	cfg.WriteString("agent:\n")
	cfg.WriteString(fmt.Sprintf("  region: %q\n", region))
	cfg.WriteString(fmt.Sprintf("  agent_id: %q\n", agentID))
	cfg.WriteString(fmt.Sprintf("  agent_alias_id: %q\n", aliasID))
	cfg.WriteString("  session_id: \"\"\n")
	cfg.WriteString("\n")

	cfg.WriteString("credentials:\n")
	cfg.WriteString(fmt.Sprintf("  access_key_id: %q\n", accessKey))
	if secretKey == "" {
		// Keep the secret out of the file; read it from the environment.
		cfg.WriteString("  secret_access_key: \"${AWS_SECRET_ACCESS_KEY}\"\n")
	} else {
		cfg.WriteString(fmt.Sprintf("  secret_access_key: %q\n", secretKey))
	}
	cfg.WriteString("\n")

	cfg.WriteString("logging:\n")
	cfg.WriteString(fmt.Sprintf("  level: %q\n", logLevel))
	cfg.WriteString(fmt.Sprintf("  format: %q\n", logFormat))

	configDir := filepath.Dir(outputFile)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Credentials inside: owner-only.
	if err := os.WriteFile(outputFile, []byte(cfg.String()), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Printf("\nConfig written to %s\n", outputFile)
	fmt.Println("\nTo start chatting:")
	fmt.Println("  agent-connect chat")

	return nil
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", question, defaultVal)
	} else {
		fmt.Printf("%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		// On EOF or error, return default
		fmt.Println()
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}

// promptSecret reads a value without echoing it. Outside a terminal (piped
// input) it falls back to a plain read. Empty input means "take it from the
// environment instead of the file".
func promptSecret(question string) (string, error) {
	fmt.Printf("%s (empty to use $AWS_SECRET_ACCESS_KEY): ", question)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	secret, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}
