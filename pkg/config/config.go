package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and fills empty enum fields
// with their defaults.
func Validate(cfg *Config) error {
	if cfg.InputDir == "" {
		return errors.New("input_dir: is required")
	}

	if cfg.Pattern == "" {
		return errors.New("pattern: is required")
	}
	if _, err := filepath.Match(cfg.Pattern, ""); err != nil {
		return fmt.Errorf("pattern: invalid glob %q: %w", cfg.Pattern, err)
	}

	if cfg.Output == "" {
		return errors.New("output: is required")
	}

	switch cfg.Format {
	case "":
		cfg.Format = DefaultFormat
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("format: invalid value %q (must be text or json)", cfg.Format)
	}

	switch cfg.OnError {
	case "":
		cfg.OnError = DefaultOnError
	case ErrorPolicyAbort, ErrorPolicySkip:
	default:
		return fmt.Errorf("on_error: invalid value %q (must be abort or skip)", cfg.OnError)
	}

	if err := validateLogging(&cfg.Logging); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	for i := range cfg.Webhooks {
		if err := ValidateWebhook(&cfg.Webhooks[i]); err != nil {
			return fmt.Errorf("webhooks[%d]: %w", i, err)
		}
	}

	return nil
}

func validateLogging(lc *LoggingConfig) error {
	switch lc.Level {
	case "":
		lc.Level = DefaultLogLevel
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid level %q (must be debug, info, warn, or error)", lc.Level)
	}

	switch lc.Format {
	case "":
		lc.Format = DefaultLogFormat
	case "pretty", "json":
	default:
		return fmt.Errorf("invalid format %q (must be pretty or json)", lc.Format)
	}

	return nil
}

// ValidateWebhook checks a webhook and fills in its defaults.
func ValidateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = expandEnvVar(wh.Token)

	switch wh.Trigger {
	case "":
		wh.Trigger = DefaultWebhookTrigger
	case WebhookTriggerAlways, WebhookTriggerOnMalformed, WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be always, on_malformed, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	if strings.HasPrefix(s, "$") && len(s) > 1 {
		return os.Getenv(s[1:])
	}
	return s
}
