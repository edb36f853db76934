package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

var (
	validBinds         = []string{"lan", "loopback", "custom"}
	validLogLevels     = []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	validConsoleStyles = []string{"pretty", "json"}
	validTools         = []string{"urlContext", "googleSearch"}
)

// Validate checks a Config for issues. Returns nil if valid.
// A missing API key is not an issue here; serve checks it separately so
// `config validate` works before the secret is exported.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue
	add := func(path, format string, args ...any) {
		issues = append(issues, ValidationIssue{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if cfg.Gateway.Port < 0 || cfg.Gateway.Port > 65535 {
		add("gateway.port", "port must be 0-65535, got %d", cfg.Gateway.Port)
	}
	if cfg.Gateway.Bind != "" && !slices.Contains(validBinds, cfg.Gateway.Bind) {
		add("gateway.bind", "must be one of %v, got %q", validBinds, cfg.Gateway.Bind)
	}
	if cfg.Gateway.ChatPath != "" && !strings.HasPrefix(cfg.Gateway.ChatPath, "/") {
		add("gateway.chatPath", "must start with /, got %q", cfg.Gateway.ChatPath)
	}
	if cfg.Gateway.MaxMessageSize < 0 {
		add("gateway.maxMessageSize", "must not be negative, got %d", cfg.Gateway.MaxMessageSize)
	}

	if t := cfg.Model.Temperature; t != nil && (*t < 0 || *t > 2) {
		add("model.temperature", "must be within 0-2, got %v", *t)
	}
	if p := cfg.Model.TopP; p != nil && (*p < 0 || *p > 1) {
		add("model.topP", "must be within 0-1, got %v", *p)
	}
	if b := cfg.Model.ThinkingBudget; b != nil && *b < -1 {
		add("model.thinkingBudget", "must be -1 or greater, got %d", *b)
	}
	for i, tool := range cfg.Model.Tools {
		if !slices.Contains(validTools, tool) {
			add(fmt.Sprintf("model.tools[%d]", i), "must be one of %v, got %q", validTools, tool)
		}
	}

	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		add("logging.level", "must be one of %v, got %q", validLogLevels, cfg.Logging.Level)
	}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validConsoleStyles, cfg.Logging.ConsoleStyle) {
		add("logging.consoleStyle", "must be one of %v, got %q", validConsoleStyles, cfg.Logging.ConsoleStyle)
	}

	for name, entries := range cfg.Hooks.byEvent() {
		for i, h := range entries {
			if strings.TrimSpace(h.Command) == "" {
				add(fmt.Sprintf("hooks.%s[%d].command", name, i), "command is required")
			}
			if h.Timeout < 0 {
				add(fmt.Sprintf("hooks.%s[%d].timeout", name, i), "must not be negative, got %d", h.Timeout)
			}
		}
	}

	return issues
}

// byEvent returns the configured hook entries keyed by their YAML name.
func (h HooksConfig) byEvent() map[string][]HookEntry {
	return map[string][]HookEntry{
		"sessionStart":     h.SessionStart,
		"sessionEnd":       h.SessionEnd,
		"messageReceived":  h.MessageReceived,
		"replySent":        h.ReplySent,
		"generationFailed": h.GenerationFailed,
		"gatewayStart":     h.GatewayStart,
		"gatewayStop":      h.GatewayStop,
	}
}
