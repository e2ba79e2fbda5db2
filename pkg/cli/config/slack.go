package config

import (
	"github.com/slipway-ci/slipway/pkg/domain/interfaces"
	"github.com/slipway-ci/slipway/pkg/infra/notify"
	"github.com/urfave/cli/v3"
)

// Slack holds notification configuration. Notifications are disabled when
// no webhook URL is provided.
type Slack struct {
	WebhookURL string `masq:"secret"`
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL for run notifications",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars("SLIPWAY_SLACK_WEBHOOK_URL"),
		},
	}
}

// Notifier returns a Slack notifier, or nil when disabled.
func (c *Slack) Notifier() interfaces.Notifier {
	if c.WebhookURL == "" {
		return nil
	}
	return notify.NewSlackNotifier(c.WebhookURL)
}
