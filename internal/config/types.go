package config

// Config is the root configuration for voli.
type Config struct {
	Gateway GatewayConfig `yaml:"gateway,omitempty"`
	Model   ModelConfig   `yaml:"model,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Hooks   HooksConfig   `yaml:"hooks,omitempty"`
}

// GatewayConfig controls the HTTP/WebSocket server.
type GatewayConfig struct {
	Port           int      `yaml:"port,omitempty"`
	Bind           string   `yaml:"bind,omitempty"` // "lan" | "loopback" | "custom"
	CustomBindHost string   `yaml:"customBindHost,omitempty"`
	ChatPath       string   `yaml:"chatPath,omitempty"`
	StaticDir      string   `yaml:"staticDir,omitempty"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
	MaxMessageSize int64    `yaml:"maxMessageSize,omitempty"` // bytes per inbound frame
}

// ModelConfig selects the generation service and its fixed options.
// Options apply identically to every call in every session.
type ModelConfig struct {
	APIKey            string   `yaml:"apiKey,omitempty"`
	Name              string   `yaml:"name,omitempty"`
	Temperature       *float64 `yaml:"temperature,omitempty"`
	TopP              *float64 `yaml:"topP,omitempty"`
	ThinkingBudget    *int     `yaml:"thinkingBudget,omitempty"` // -1 lets the model decide
	Tools             []string `yaml:"tools,omitempty"`          // "urlContext" | "googleSearch"
	SystemInstruction string   `yaml:"systemInstruction,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"`        // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "json"
}

// HooksConfig defines shell commands run on lifecycle events.
type HooksConfig struct {
	SessionStart     []HookEntry `yaml:"sessionStart,omitempty"`
	SessionEnd       []HookEntry `yaml:"sessionEnd,omitempty"`
	MessageReceived  []HookEntry `yaml:"messageReceived,omitempty"`
	ReplySent        []HookEntry `yaml:"replySent,omitempty"`
	GenerationFailed []HookEntry `yaml:"generationFailed,omitempty"`
	GatewayStart     []HookEntry `yaml:"gatewayStart,omitempty"`
	GatewayStop      []HookEntry `yaml:"gatewayStop,omitempty"`
}

// HookEntry defines a single hook action.
type HookEntry struct {
	Command string `yaml:"command"`
	Timeout int    `yaml:"timeout,omitempty"` // milliseconds
}
