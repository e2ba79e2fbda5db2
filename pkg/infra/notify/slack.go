package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"github.com/slipway-ci/slipway/pkg/domain/interfaces"
	"github.com/slipway-ci/slipway/pkg/domain/model"
)

type slackNotifier struct {
	webhookURL string
}

// NewSlackNotifier creates a Notifier posting run results to a Slack
// incoming webhook.
func NewSlackNotifier(webhookURL string) interfaces.Notifier {
	return &slackNotifier{webhookURL: webhookURL}
}

// Notify posts a summary of the run. Failed runs include the failed step
// and its error.
func (n *slackNotifier) Notify(ctx context.Context, run *model.PipelineRun) error {
	attachment := slack.Attachment{
		Color: "good",
		Title: fmt.Sprintf("Release pipeline %s: %s %s", run.Status, run.Repository, run.Tag),
		Fields: []slack.AttachmentField{
			{Title: "Run", Value: run.ID, Short: true},
			{Title: "Duration", Value: run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String(), Short: true},
		},
	}

	if run.Status == model.RunFailed {
		attachment.Color = "danger"
		if step, ok := run.FailedStep(); ok {
			attachment.Fields = append(attachment.Fields,
				slack.AttachmentField{Title: "Failed step", Value: string(step.Step), Short: true},
				slack.AttachmentField{Title: "Error", Value: step.Error},
			)
		}
	}

	if run.ReleaseURL != "" {
		attachment.TitleLink = run.ReleaseURL
	}

	msg := &slack.WebhookMessage{
		Attachments: []slack.Attachment{attachment},
	}
	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack notification")
	}

	return nil
}
