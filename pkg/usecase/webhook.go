package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/slipway-ci/slipway/pkg/domain/interfaces"
	"github.com/slipway-ci/slipway/pkg/domain/model"
	"github.com/slipway-ci/slipway/pkg/utils/async"
)

type webhookUseCase struct {
	pipeline   interfaces.PipelineUseCase
	repository string

	mu         sync.Mutex
	dispatched map[string]struct{}
}

// NewWebhook creates the webhook use case. Tag creation events for the
// configured repository trigger exactly one pipeline run each; everything
// else is logged and ignored. The run executes asynchronously so the
// webhook response is not held open for the duration of a build.
func NewWebhook(pipeline interfaces.PipelineUseCase, repository string) interfaces.WebhookUseCase {
	return &webhookUseCase{
		pipeline:   pipeline,
		repository: repository,
		dispatched: make(map[string]struct{}),
	}
}

// ProcessEvent processes a webhook event
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	logger.Info("Processing webhook event",
		"id", event.ID,
		"type", event.Type,
		"ref", event.Ref,
		"repository", event.Repository,
		"sender", event.Sender,
	)

	tag, ok := event.TagName()
	if !ok {
		logger.Debug("Ignoring non-tag event",
			"type", event.Type,
			"ref", event.Ref,
		)
		return nil
	}

	if uc.repository != "" && event.Repository != uc.repository {
		logger.Warn("Ignoring tag event for unconfigured repository",
			"repository", event.Repository,
			"configured", uc.repository,
		)
		return nil
	}

	// GitHub delivers one tag creation as both a push and a create event
	// when the webhook subscribes to both. Only the first delivery for a
	// tag dispatches a run.
	if !uc.markDispatched(tag) {
		logger.Info("Ignoring duplicate delivery for already dispatched tag",
			"tag", tag,
			"type", event.Type,
		)
		return nil
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		_, err := uc.pipeline.Execute(ctx, tag)
		return err
	})

	return nil
}

// markDispatched records the tag and reports whether this delivery is the
// first one seen for it.
func (uc *webhookUseCase) markDispatched(tag string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if _, ok := uc.dispatched[tag]; ok {
		return false
	}
	uc.dispatched[tag] = struct{}{}
	return true
}
