// ABOUTME: Entry point for the agent-connect CLI.
// ABOUTME: Wires config, connection manager, and conversation engine into a terminal chat.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/agent-connect/internal/config"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                          _                                      _
  __ _  __ _  ___ _ __ | |_        ___ ___  _ __  _ __   ___  ___| |_
 / _' |/ _' |/ _ \ '_ \| __|_____ / __/ _ \| '_ \| '_ \ / _ \/ __| __|
| (_| | (_| |  __/ | | | |_|_____| (_| (_) | | | | | | |  __/ (__| |_
 \__,_|\__, |\___|_| |_|\__|      \___\___/|_| |_|_| |_|\___|\___|\__|
       |___/
`

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: agent-connect <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  chat     Connect to the configured agent and start a conversation")
		fmt.Println("  init     Create a new config file interactively")
		fmt.Println("  status   Validate and print the effective configuration")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "chat":
		err = runChat(ctx)
	case "init":
		err = runInit()
	case "status":
		err = runStatus()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
// Logs go to stderr so they interleave cleanly with the chat on stdout.
type colorHandler struct {
	mu    sync.Mutex
	level slog.Level
	attrs []slog.Attr
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	_, err := os.Stderr.WriteString(buf.String())
	return err
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &colorHandler{
		level: h.level,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *colorHandler) WithGroup(_ string) slog.Handler {
	return h
}

func runStatus() error {
	configPath := config.DefaultPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	red := cfg.SessionConfig().Redacted()
	green := color.New(color.FgGreen)

	fmt.Printf("Config: %s\n\n", configPath)
	green.Print("  ▶ ")
	fmt.Printf("Region:      %s\n", red.Region)
	green.Print("  ▶ ")
	fmt.Printf("Agent:       %s (alias %s)\n", red.AgentID, red.AgentAliasID)
	green.Print("  ▶ ")
	fmt.Printf("Access key:  %s\n", red.AccessKeyID)
	if red.SessionID != "" {
		green.Print("  ▶ ")
		fmt.Printf("Session:     %s (pinned)\n", red.SessionID)
	}
	fmt.Println("\nConfiguration is valid.")
	return nil
}
