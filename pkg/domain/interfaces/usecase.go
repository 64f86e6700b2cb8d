package interfaces

import (
	"context"

	"github.com/m-mizutani/tagship/pkg/domain/model"
)

// WebhookUseCase defines the interface for webhook event triage
type WebhookUseCase interface {
	// ProcessEvent processes a webhook event
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) error
}

// PipelineUseCase runs the release pipeline for one trigger
type PipelineUseCase interface {
	// Execute runs provision, fetch, package and publish in order.
	// The returned run records every finished step; err is non-nil
	// when any step failed.
	Execute(ctx context.Context, trigger *model.Trigger) (*model.PipelineRun, error)
}
