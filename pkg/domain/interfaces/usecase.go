package interfaces

import (
	"context"

	"github.com/slipway-ci/slipway/pkg/domain/model"
)

// WebhookUseCase defines the interface for webhook event processing
type WebhookUseCase interface {
	// ProcessEvent processes a webhook event
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) error
}

// PipelineUseCase executes the release pipeline for one tag.
type PipelineUseCase interface {
	// Execute runs the pipeline end to end and returns the run record.
	// The returned run is non-nil even on failure.
	Execute(ctx context.Context, tag string) (*model.PipelineRun, error)
}

// NotesGenerator produces a release body for a tag.
type NotesGenerator interface {
	Generate(ctx context.Context, owner, repo, tag string) (string, error)
}
