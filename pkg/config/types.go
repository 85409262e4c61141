// Package config provides configuration loading and validation for chatmerge.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// InputDir is the directory holding the chat exports.
	InputDir string `yaml:"input_dir"`

	// Pattern selects files inside InputDir (filepath.Match syntax).
	Pattern string `yaml:"pattern"`

	// Output is the path of the merged transcript. It is truncated on every run.
	Output string `yaml:"output"`

	Format  OutputFormat  `yaml:"format,omitempty"`
	OnError ErrorPolicy   `yaml:"on_error,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`

	// Webhooks receive the run report after a merge.
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// OutputFormat selects how merged messages are written.
type OutputFormat string

const (
	// FormatText writes one "[time] sender: text" line per message.
	FormatText OutputFormat = "text"
	// FormatJSON writes the messages as a JSON array.
	FormatJSON OutputFormat = "json"
)

// ErrorPolicy decides what happens when an entry's timestamp cannot be parsed.
type ErrorPolicy string

const (
	// ErrorPolicyAbort stops the run at the first malformed entry (default).
	ErrorPolicyAbort ErrorPolicy = "abort"
	// ErrorPolicySkip drops malformed entries, logs them and reports them in the result.
	ErrorPolicySkip ErrorPolicy = "skip"
)

// LoggingConfig controls diagnostic logging on stderr.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level,omitempty"`

	// Format is pretty (console) or json.
	Format string `yaml:"format,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerAlways fires after every merge (default).
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerOnMalformed fires only when malformed entries were skipped.
	WebhookTriggerOnMalformed WebhookTrigger = "on_malformed"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending run reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token. ${VAR} and $VAR are read from the
	// environment.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
