package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/slipway-ci/slipway/pkg/domain/model"
	"github.com/slipway-ci/slipway/pkg/usecase"
)

// MockPipeline signals each Execute call through a channel so tests can
// wait for the asynchronous dispatch.
type MockPipeline struct {
	executed chan string
}

func NewMockPipeline() *MockPipeline {
	return &MockPipeline{executed: make(chan string, 8)}
}

func (m *MockPipeline) Execute(ctx context.Context, tag string) (*model.PipelineRun, error) {
	m.executed <- tag
	return model.NewPipelineRun("acme/widget", tag), nil
}

func (m *MockPipeline) waitForExecution(t *testing.T) string {
	t.Helper()
	select {
	case tag := <-m.executed:
		return tag
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline was not executed within timeout")
		return ""
	}
}

func (m *MockPipeline) assertNoExecution(t *testing.T) {
	t.Helper()
	select {
	case tag := <-m.executed:
		t.Fatalf("unexpected pipeline execution for tag %q", tag)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWebhook_ProcessEvent_TagPush(t *testing.T) {
	ctx := context.Background()
	pipeline := NewMockPipeline()
	uc := usecase.NewWebhook(pipeline, "acme/widget")

	event := &model.WebhookEvent{
		ID:         "delivery-1",
		Type:       model.EventTypePush,
		Ref:        "refs/tags/2.0.3",
		Repository: "acme/widget",
		Sender:     "maintainer",
	}

	gt.NoError(t, uc.ProcessEvent(ctx, event))

	// Exactly one run per tag event.
	gt.Value(t, pipeline.waitForExecution(t)).Equal("2.0.3")
	pipeline.assertNoExecution(t)
}

func TestWebhook_ProcessEvent_TagCreate(t *testing.T) {
	ctx := context.Background()
	pipeline := NewMockPipeline()
	uc := usecase.NewWebhook(pipeline, "acme/widget")

	event := &model.WebhookEvent{
		Type:       model.EventTypeCreate,
		Ref:        "2.0.3",
		RefType:    "tag",
		Repository: "acme/widget",
	}

	gt.NoError(t, uc.ProcessEvent(ctx, event))
	gt.Value(t, pipeline.waitForExecution(t)).Equal("2.0.3")
}

func TestWebhook_ProcessEvent_DuplicateDelivery(t *testing.T) {
	ctx := context.Background()
	pipeline := NewMockPipeline()
	uc := usecase.NewWebhook(pipeline, "acme/widget")

	// One tag creation arrives as both a push and a create delivery when
	// the webhook subscribes to both event types.
	pushEvent := &model.WebhookEvent{
		ID:         "delivery-1",
		Type:       model.EventTypePush,
		Ref:        "refs/tags/2.0.3",
		Repository: "acme/widget",
	}
	createEvent := &model.WebhookEvent{
		ID:         "delivery-2",
		Type:       model.EventTypeCreate,
		Ref:        "2.0.3",
		RefType:    "tag",
		Repository: "acme/widget",
	}

	gt.NoError(t, uc.ProcessEvent(ctx, pushEvent))
	gt.NoError(t, uc.ProcessEvent(ctx, createEvent))

	// Exactly one run for the tag, not one per delivery.
	gt.Value(t, pipeline.waitForExecution(t)).Equal("2.0.3")
	pipeline.assertNoExecution(t)

	// A different tag still dispatches.
	gt.NoError(t, uc.ProcessEvent(ctx, &model.WebhookEvent{
		Type:       model.EventTypePush,
		Ref:        "refs/tags/2.0.4",
		Repository: "acme/widget",
	}))
	gt.Value(t, pipeline.waitForExecution(t)).Equal("2.0.4")
}

func TestWebhook_ProcessEvent_BranchPush(t *testing.T) {
	ctx := context.Background()
	pipeline := NewMockPipeline()
	uc := usecase.NewWebhook(pipeline, "acme/widget")

	event := &model.WebhookEvent{
		Type:       model.EventTypePush,
		Ref:        "refs/heads/main",
		Repository: "acme/widget",
	}

	gt.NoError(t, uc.ProcessEvent(ctx, event))
	pipeline.assertNoExecution(t)
}

func TestWebhook_ProcessEvent_OtherRepository(t *testing.T) {
	ctx := context.Background()
	pipeline := NewMockPipeline()
	uc := usecase.NewWebhook(pipeline, "acme/widget")

	event := &model.WebhookEvent{
		Type:       model.EventTypePush,
		Ref:        "refs/tags/2.0.3",
		Repository: "acme/other",
	}

	gt.NoError(t, uc.ProcessEvent(ctx, event))
	pipeline.assertNoExecution(t)
}
