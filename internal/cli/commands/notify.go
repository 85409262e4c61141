package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ccollicutt/chatmerge/pkg/config"
	"github.com/ccollicutt/chatmerge/pkg/output"
	"github.com/ccollicutt/chatmerge/pkg/webhook"
)

// WebhookOptions holds the command-line webhook.
type WebhookOptions struct {
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

func addWebhookFlags(fs *pflag.FlagSet, opts *WebhookOptions) {
	fs.StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL receiving the run report")
	fs.StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	fs.StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.DefaultWebhookTrigger), "When to fire webhook (always|on_malformed|never)")
}

// collectWebhooks merges config file webhooks with the one given by flags or
// CHATMERGE_WEBHOOK_* variables.
func collectWebhooks(cmd *cobra.Command, cfg *config.Config, opts *WebhookOptions) ([]config.WebhookConfig, error) {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	v := newEnv()
	url := flagOrEnv(cmd, v, "webhook-url", "webhook.url", opts.WebhookURL)
	if url == "" {
		return webhooks, nil
	}

	wh := config.WebhookConfig{
		Name:    "cli",
		URL:     url,
		Token:   flagOrEnv(cmd, v, "webhook-token", "webhook.token", opts.WebhookToken),
		Trigger: config.WebhookTrigger(flagOrEnv(cmd, v, "webhook-trigger", "webhook.trigger", opts.WebhookTrigger)),
	}
	if err := config.ValidateWebhook(&wh); err != nil {
		return nil, fmt.Errorf("invalid webhook: %w", err)
	}

	return append(webhooks, wh), nil
}

// shouldFireWebhook determines if a webhook should fire for a report.
func shouldFireWebhook(trigger config.WebhookTrigger, hasMalformed bool) bool {
	switch trigger {
	case config.WebhookTriggerNever:
		return false
	case config.WebhookTriggerOnMalformed:
		return hasMalformed
	default:
		return true
	}
}

// sendWebhooks sends the report to every webhook whose trigger matches.
// Failures are logged and do not fail the merge.
func sendWebhooks(ctx context.Context, log zerolog.Logger, webhooks []config.WebhookConfig, report *output.Report) {
	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		if !shouldFireWebhook(wh.Trigger, report.HasMalformed()) {
			continue
		}

		name := wh.Name
		if name == "" {
			name = wh.URL
		}
		trigger := wh.Trigger
		if trigger == "" {
			trigger = config.DefaultWebhookTrigger
		}

		resp := client.Send(ctx, webhook.NewPayload(report, name, string(trigger)), webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		if resp.Success() {
			log.Info().Str("webhook", name).Int("status", resp.StatusCode).Dur("duration", resp.Duration).Msg("webhook sent")
		} else {
			log.Warn().Str("webhook", name).Err(resp.Error).Msg("webhook failed")
		}
	}
}
