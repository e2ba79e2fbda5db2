package model

import (
	"strings"
	"time"
)

// WebhookEventType represents the type of webhook event received
type WebhookEventType string

const (
	EventTypePush    WebhookEventType = "push"
	EventTypeCreate  WebhookEventType = "create"
	EventTypeUnknown WebhookEventType = "unknown"
)

// WebhookEvent represents a webhook event received from GitHub
type WebhookEvent struct {
	ID         string           // Retrieved from X-GitHub-Delivery header
	Type       WebhookEventType // Retrieved from X-GitHub-Event header
	Ref        string           // Git ref (e.g. refs/tags/1.2.3) or bare ref name for create events
	RefType    string           // "tag" or "branch" for create events, empty otherwise
	Repository string           // Repository full name (owner/name)
	Sender     string           // Sender username
	ReceivedAt time.Time        // Time when the event was received
	RawPayload []byte           // Raw JSON payload
}

// TagName returns the tag referenced by the event and whether the event
// is a tag creation at all. Push events carry a fully qualified ref,
// create events carry the bare ref name plus a ref type.
func (e *WebhookEvent) TagName() (string, bool) {
	switch e.Type {
	case EventTypePush:
		return TagFromRef(e.Ref)
	case EventTypeCreate:
		if e.RefType == "tag" && e.Ref != "" {
			return e.Ref, true
		}
	}
	return "", false
}

// IsTagEvent reports whether the event should trigger a pipeline run.
// Any tag name matches, mirroring a wildcard tag trigger.
func (e *WebhookEvent) IsTagEvent() bool {
	_, ok := e.TagName()
	return ok
}

// TagFromRef extracts a tag name from a fully qualified git ref.
// Returns false for branch refs and malformed input.
func TagFromRef(ref string) (string, bool) {
	const prefix = "refs/tags/"
	if !strings.HasPrefix(ref, prefix) {
		return "", false
	}
	tag := strings.TrimPrefix(ref, prefix)
	if tag == "" {
		return "", false
	}
	return tag, true
}
