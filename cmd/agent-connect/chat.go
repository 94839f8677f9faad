// ABOUTME: Interactive terminal chat: the presentation adapter over the conversation engine.
// ABOUTME: Renders streamed snapshots incrementally and surfaces troubleshooting guidance.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/2389/agent-connect/internal/config"
	"github.com/2389/agent-connect/internal/connection"
	"github.com/2389/agent-connect/internal/conversation"
	"github.com/2389/agent-connect/internal/session"
	"github.com/2389/agent-connect/internal/transport"
	"github.com/2389/agent-connect/internal/transport/bedrock"
)

func runChat(ctx context.Context) error {
	configPath := config.DefaultPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w (run 'agent-connect init' to create one)", err)
	}

	logger := setupLogger(cfg.Logging)

	factory := func(ctx context.Context, sc session.Config) (transport.Transport, error) {
		return bedrock.New(ctx, sc, logger)
	}
	manager := connection.NewManager(factory, logger)
	engine := conversation.NewEngine(manager, logger)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:  %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Region:  %s\n", cfg.Agent.Region)
	green.Print("    ▶ ")
	fmt.Printf("Agent:   %s (alias %s)\n", cfg.Agent.AgentID, cfg.Agent.AgentAliasID)
	fmt.Println()

	state, err := manager.Connect(ctx, cfg.SessionConfig())
	if err != nil {
		return err
	}
	if state.Phase != connection.PhaseConnected {
		color.Red("Connection failed: %s", state.Reason)
		printTroubleshooting(manager.CurrentConfig(), transport.Connection(state.Reason).NeedsTroubleshooting())
		return fmt.Errorf("could not connect to agent")
	}
	defer manager.Disconnect()

	green.Print("    ▶ ")
	fmt.Print("Session: ")
	cyan.Println(state.SessionID)
	fmt.Println()
	gray.Println("Type a message and press enter. Commands: /clear /status /quit")
	fmt.Println()

	renderCtx, stopRender := context.WithCancel(ctx)
	defer stopRender()
	snaps, _ := engine.Subscribe(renderCtx)

	r := &renderer{out: os.Stdout}
	go func() {
		for snap := range snaps {
			r.apply(snap)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	prompt := color.New(color.FgCyan, color.Bold)
	for {
		prompt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			fmt.Println("bye")
			return nil
		case "/clear":
			engine.Clear()
			gray.Println("(conversation cleared)")
			continue
		case "/status":
			st := manager.Status()
			fmt.Printf("%s  session=%s agent=%s\n", st.Phase, st.SessionID, st.AgentID)
			continue
		}

		engine.SubmitTurn(ctx, line)
		if err := waitForIdle(ctx, engine); err != nil {
			return err
		}

		if snap := engine.Snapshot(); snap.LastError != nil && snap.LastError.Troubleshooting {
			printTroubleshooting(manager.CurrentConfig(), true)
		}
	}

	return scanner.Err()
}

// waitForIdle blocks until the in-flight turn settles. The engine never
// blocks on its own; this is purely the REPL pacing its prompt.
func waitForIdle(ctx context.Context, engine *conversation.Engine) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !engine.Snapshot().TurnInFlight {
				// Let the renderer drain the final snapshots.
				time.Sleep(50 * time.Millisecond)
				return nil
			}
		}
	}
}

// renderer turns a sequence of snapshots into incremental terminal output.
// It tracks how many messages are fully printed and, for the streaming
// message, how many bytes of its growing text have been written, so each
// snapshot prints only the new suffix.
type renderer struct {
	out       io.Writer
	done      int   // messages fully printed
	streamID  int64 // message currently being streamed to the terminal
	streamLen int   // bytes of the streaming message already written
}

func (r *renderer) apply(snap conversation.Snapshot) {
	if r.streamID != 0 && !containsID(snap.Messages, r.streamID) {
		// The message being streamed was removed (failed or abandoned
		// turn). Terminate the partial line before printing anything else.
		fmt.Fprintln(r.out)
		r.streamID, r.streamLen = 0, 0
	}

	if len(snap.Messages) < r.done {
		// Deliberate reset (clear); start over.
		r.done, r.streamID, r.streamLen = 0, 0, 0
	}

	for i := r.done; i < len(snap.Messages); i++ {
		m := snap.Messages[i]

		if m.ID == snap.StreamingMessageID {
			if r.streamID != m.ID {
				r.printPrefix(m)
				r.streamID = m.ID
				r.streamLen = 0
			}
			fmt.Fprint(r.out, m.Text[r.streamLen:])
			r.streamLen = len(m.Text)
			return
		}

		if m.ID == r.streamID {
			// Streaming message finalized.
			fmt.Fprint(r.out, m.Text[min(r.streamLen, len(m.Text)):])
			fmt.Fprintln(r.out)
			r.streamID, r.streamLen = 0, 0
			r.done = i + 1
			continue
		}

		if m.Role == conversation.RoleUser {
			// The user already typed this line; don't echo it back.
			r.done = i + 1
			continue
		}

		r.printPrefix(m)
		fmt.Fprintln(r.out, m.Text)
		r.done = i + 1
	}
}

func containsID(messages []conversation.Message, id int64) bool {
	for _, m := range messages {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (r *renderer) printPrefix(m conversation.Message) {
	ts := color.HiBlackString(m.Timestamp())
	switch m.Role {
	case conversation.RoleAgent:
		fmt.Fprintf(r.out, "%s %s ", ts, color.GreenString("agent>"))
	case conversation.RoleError:
		fmt.Fprintf(r.out, "%s %s ", ts, color.New(color.FgRed, color.Bold).Sprint("error>"))
	default:
		fmt.Fprintf(r.out, "%s %s ", ts, color.CyanString("you>"))
	}
}

// printTroubleshooting prints the guided remediation checklist for
// not-found and access-denied failures.
func printTroubleshooting(cfg session.Config, show bool) {
	if !show {
		return
	}

	yellow := color.New(color.FgYellow, color.Bold)
	fmt.Println()
	yellow.Println("Troubleshooting")

	fmt.Println("  Verify agent configuration:")
	fmt.Printf("    • Agent ID %q is correct and exists in your console\n", cfg.AgentID)
	fmt.Printf("    • Agent alias ID %q is valid (test agents usually use TSTALIASID)\n", cfg.AgentAliasID)
	fmt.Printf("    • Region %q matches where the agent lives\n", cfg.Region)

	fmt.Println("  Check agent status:")
	fmt.Println("    • Console → Amazon Bedrock → Agents → your agent")
	fmt.Println("    • The agent must be in the PREPARED state to receive requests")

	fmt.Println("  Verify IAM permissions:")
	fmt.Println("    • The credentials need bedrock:InvokeAgent on this agent")
	fmt.Println("    • bedrock:GetAgent helps when diagnosing further")
	fmt.Println()
}
