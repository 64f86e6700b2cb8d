package model_test

import (
	"testing"

	"github.com/m-mizutani/tagship/pkg/domain/model"
)

func TestWebhookEvent_IsSupportedEvent(t *testing.T) {
	tests := []struct {
		name     string
		event    *model.WebhookEvent
		expected bool
	}{
		{
			name: "Push event - supported",
			event: &model.WebhookEvent{
				Type: model.EventTypePush,
				Ref:  "refs/tags/v1.0.0",
			},
			expected: true,
		},
		{
			name: "Branch push is still a push event",
			event: &model.WebhookEvent{
				Type: model.EventTypePush,
				Ref:  "refs/heads/main",
			},
			expected: true,
		},
		{
			name: "Unknown event type",
			event: &model.WebhookEvent{
				Type: model.EventTypeUnknown,
			},
			expected: false,
		},
		{
			name: "Different event type",
			event: &model.WebhookEvent{
				Type: model.WebhookEventType("issues"),
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.event.IsSupportedEvent()
			if got != tt.expected {
				t.Errorf("IsSupportedEvent() = %v, want %v", got, tt.expected)
			}
		})
	}
}
