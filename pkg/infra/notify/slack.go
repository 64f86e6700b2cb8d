// Package notify reports run failures to Slack via incoming webhook.
package notify

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/m-mizutani/tagship/pkg/domain/model"
)

// SlackNotifier posts run failures to a Slack incoming webhook
type SlackNotifier struct {
	webhookURL string
}

// NewSlack creates a SlackNotifier
func NewSlack(webhookURL string) *SlackNotifier {
	return &SlackNotifier{webhookURL: webhookURL}
}

// NotifyRunFailure posts a message naming the repository, tag, failed
// step and error
func (x *SlackNotifier) NotifyRunFailure(ctx context.Context, run *model.PipelineRun) error {
	msg := &slack.WebhookMessage{
		Attachments: []slack.Attachment{
			{
				Color: "danger",
				Title: fmt.Sprintf("Release pipeline failed: %s %s", run.Repository, run.Tag),
				Fields: []slack.AttachmentField{
					{Title: "Failed step", Value: string(run.FailedStep), Short: true},
					{Title: "Run ID", Value: run.ID.String(), Short: true},
					{Title: "Commit", Value: run.CommitSHA, Short: true},
					{Title: "Error", Value: run.Error},
				},
			},
		},
	}

	if err := slack.PostWebhookContext(ctx, x.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post slack notification", goerr.V("run_id", run.ID))
	}

	return nil
}
