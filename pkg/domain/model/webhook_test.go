package model_test

import (
	"testing"

	"github.com/slipway-ci/slipway/pkg/domain/model"
)

func TestWebhookEvent_TagName(t *testing.T) {
	tests := []struct {
		name    string
		event   *model.WebhookEvent
		wantTag string
		wantOK  bool
	}{
		{
			name: "Push with tag ref",
			event: &model.WebhookEvent{
				Type: model.EventTypePush,
				Ref:  "refs/tags/2.0.3",
			},
			wantTag: "2.0.3",
			wantOK:  true,
		},
		{
			name: "Push with v-prefixed tag ref",
			event: &model.WebhookEvent{
				Type: model.EventTypePush,
				Ref:  "refs/tags/v1.2.3-rc1",
			},
			wantTag: "v1.2.3-rc1",
			wantOK:  true,
		},
		{
			name: "Push with branch ref",
			event: &model.WebhookEvent{
				Type: model.EventTypePush,
				Ref:  "refs/heads/main",
			},
			wantOK: false,
		},
		{
			name: "Push with empty tag name",
			event: &model.WebhookEvent{
				Type: model.EventTypePush,
				Ref:  "refs/tags/",
			},
			wantOK: false,
		},
		{
			name: "Create event for tag",
			event: &model.WebhookEvent{
				Type:    model.EventTypeCreate,
				Ref:     "2.0.3",
				RefType: "tag",
			},
			wantTag: "2.0.3",
			wantOK:  true,
		},
		{
			name: "Create event for branch",
			event: &model.WebhookEvent{
				Type:    model.EventTypeCreate,
				Ref:     "feature/x",
				RefType: "branch",
			},
			wantOK: false,
		},
		{
			name: "Unknown event type",
			event: &model.WebhookEvent{
				Type: model.EventTypeUnknown,
				Ref:  "refs/tags/2.0.3",
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, ok := tt.event.TagName()
			if ok != tt.wantOK {
				t.Errorf("TagName() ok = %v, want %v", ok, tt.wantOK)
			}
			if tag != tt.wantTag {
				t.Errorf("TagName() = %q, want %q", tag, tt.wantTag)
			}
			if got := tt.event.IsTagEvent(); got != tt.wantOK {
				t.Errorf("IsTagEvent() = %v, want %v", got, tt.wantOK)
			}
		})
	}
}

func TestTagFromRef(t *testing.T) {
	tests := []struct {
		ref     string
		wantTag string
		wantOK  bool
	}{
		{ref: "refs/tags/1.0.0", wantTag: "1.0.0", wantOK: true},
		{ref: "refs/heads/main", wantOK: false},
		{ref: "refs/tags/", wantOK: false},
		{ref: "", wantOK: false},
		{ref: "1.0.0", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			tag, ok := model.TagFromRef(tt.ref)
			if ok != tt.wantOK || tag != tt.wantTag {
				t.Errorf("TagFromRef(%q) = (%q, %v), want (%q, %v)",
					tt.ref, tag, ok, tt.wantTag, tt.wantOK)
			}
		})
	}
}
