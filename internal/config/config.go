package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

const (
	DefaultPort     = 3000
	DefaultChatPath = "/chat"
	DefaultStatic   = "public"
	DefaultModel    = "gemini-2.5-pro"

	defaultMaxMessageSize = 100 << 20
)

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Gateway: GatewayConfig{
			Port:           DefaultPort,
			Bind:           "lan",
			ChatPath:       DefaultChatPath,
			StaticDir:      DefaultStatic,
			MaxMessageSize: defaultMaxMessageSize,
		},
		Model: ModelConfig{
			Name: DefaultModel,
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
	}
}
