package config

import "time"

// Default values for configuration.
const (
	DefaultInputDir  = "chat logs"
	DefaultPattern   = "*.txt"
	DefaultOutput    = "combined_chat.txt"
	DefaultFormat    = FormatText
	DefaultOnError   = ErrorPolicyAbort
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"

	DefaultWebhookTrigger = WebhookTriggerAlways
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable prefix; CHATMERGE_INPUT_DIR overrides input_dir and so on.
const EnvPrefix = "CHATMERGE"

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		InputDir: DefaultInputDir,
		Pattern:  DefaultPattern,
		Output:   DefaultOutput,
		Format:   DefaultFormat,
		OnError:  DefaultOnError,
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
