package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/soyeahso/voli/internal/config"
)

const defaultCommandTimeout = 10 * time.Second

// CommandHandler returns a Handler that runs a shell command with the JSON
// payload on stdin.
func CommandHandler(entry config.HookEntry) Handler {
	timeout := defaultCommandTimeout
	if entry.Timeout > 0 {
		timeout = time.Duration(entry.Timeout) * time.Millisecond
	}
	return func(ctx context.Context, p Payload) error {
		input, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding payload: %w", err)
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		cmd := exec.CommandContext(ctx, "sh", "-c", entry.Command)
		cmd.Stdin = bytes.NewReader(input)
		cmd.WaitDelay = time.Second
		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return fmt.Errorf("hook %q: %w: %s", entry.Command, err, msg)
			}
			return fmt.Errorf("hook %q: %w", entry.Command, err)
		}
		return nil
	}
}

// RegisterCommands wires the configured shell hooks into m and returns the
// number registered.
func RegisterCommands(m *Manager, cfg config.HooksConfig) int {
	byEvent := map[string][]config.HookEntry{
		EventSessionStart:     cfg.SessionStart,
		EventSessionEnd:       cfg.SessionEnd,
		EventMessageReceived:  cfg.MessageReceived,
		EventReplySent:        cfg.ReplySent,
		EventGenerationFailed: cfg.GenerationFailed,
		EventGatewayStart:     cfg.GatewayStart,
		EventGatewayStop:      cfg.GatewayStop,
	}

	n := 0
	for _, event := range AllEvents {
		for i, entry := range byEvent[event] {
			m.On(event, fmt.Sprintf("command:%s:%d", event, i), CommandHandler(entry))
			n++
		}
	}
	return n
}
