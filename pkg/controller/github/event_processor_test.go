package github_test

import (
	"context"
	"testing"

	gogithub "github.com/google/go-github/v75/github"
	"github.com/m-mizutani/gt"

	controller "github.com/m-mizutani/tagship/pkg/controller/github"
	"github.com/m-mizutani/tagship/pkg/domain/model"
)

type mockPipelineUseCase struct {
	executed []*model.Trigger
}

func (m *mockPipelineUseCase) Execute(ctx context.Context, trigger *model.Trigger) (*model.PipelineRun, error) {
	m.executed = append(m.executed, trigger)
	return model.NewPipelineRun(trigger), nil
}

// syncDispatch runs the handler inline so tests can observe the pipeline
// calls without waiting on goroutines.
func syncDispatch(ctx context.Context, handler func(ctx context.Context) error) {
	_ = handler(ctx)
}

func pushEvent(ref, after string) *gogithub.PushEvent {
	return &gogithub.PushEvent{
		Ref:   gogithub.Ptr(ref),
		After: gogithub.Ptr(after),
		Repo: &gogithub.PushEventRepository{
			Name:     gogithub.Ptr("ezdxf"),
			FullName: gogithub.Ptr("mozman/ezdxf"),
			Owner:    &gogithub.User{Login: gogithub.Ptr("mozman")},
		},
		Sender: &gogithub.User{Login: gogithub.Ptr("mozman")},
	}
}

func TestEventProcessor_TagPush(t *testing.T) {
	pipeline := &mockPipelineUseCase{}
	processor := controller.NewEventProcessor(pipeline,
		controller.WithDispatcher(syncDispatch))

	event := pushEvent("refs/tags/v1.2.3", "abc123")
	gt.NoError(t, processor.ProcessEvent(context.Background(), "push", event))

	// A matching tag push starts exactly one run
	gt.Number(t, len(pipeline.executed)).Equal(1)

	trigger := pipeline.executed[0]
	gt.Value(t, trigger.Owner).Equal("mozman")
	gt.Value(t, trigger.Repo).Equal("ezdxf")
	gt.Value(t, trigger.Tag).Equal("v1.2.3")
	gt.Value(t, trigger.CommitSHA).Equal("abc123")
	gt.Value(t, trigger.Ref).Equal("refs/tags/v1.2.3")
	gt.Value(t, trigger.Sender).Equal("mozman")
}

func TestEventProcessor_IgnoredPushes(t *testing.T) {
	tests := []struct {
		name  string
		event *gogithub.PushEvent
	}{
		{
			name:  "Branch push",
			event: pushEvent("refs/heads/main", "abc123"),
		},
		{
			name:  "Non-matching tag",
			event: pushEvent("refs/tags/release-1.0", "abc123"),
		},
		{
			name: "Tag deletion",
			event: func() *gogithub.PushEvent {
				e := pushEvent("refs/tags/v1.2.3", "abc123")
				e.Deleted = gogithub.Ptr(true)
				return e
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := &mockPipelineUseCase{}
			processor := controller.NewEventProcessor(pipeline,
				controller.WithDispatcher(syncDispatch))

			gt.NoError(t, processor.ProcessEvent(context.Background(), "push", tt.event))
			gt.Number(t, len(pipeline.executed)).Equal(0)
		})
	}
}

func TestEventProcessor_CustomTagPattern(t *testing.T) {
	pipeline := &mockPipelineUseCase{}
	processor := controller.NewEventProcessor(pipeline,
		controller.WithTagPattern("release-*"),
		controller.WithDispatcher(syncDispatch))

	gt.NoError(t, processor.ProcessEvent(context.Background(), "push",
		pushEvent("refs/tags/v1.2.3", "abc123")))
	gt.Number(t, len(pipeline.executed)).Equal(0)

	gt.NoError(t, processor.ProcessEvent(context.Background(), "push",
		pushEvent("refs/tags/release-1.0", "abc123")))
	gt.Number(t, len(pipeline.executed)).Equal(1)
	gt.Value(t, pipeline.executed[0].Tag).Equal("release-1.0")
}

func TestEventProcessor_UnsupportedEventType(t *testing.T) {
	pipeline := &mockPipelineUseCase{}
	processor := controller.NewEventProcessor(pipeline,
		controller.WithDispatcher(syncDispatch))

	gt.NoError(t, processor.ProcessEvent(context.Background(), "issues", &gogithub.IssuesEvent{}))
	gt.NoError(t, processor.ProcessEvent(context.Background(), "ping", &gogithub.PingEvent{}))
	gt.Number(t, len(pipeline.executed)).Equal(0)
}

func TestEventProcessor_MissingFields(t *testing.T) {
	pipeline := &mockPipelineUseCase{}
	processor := controller.NewEventProcessor(pipeline,
		controller.WithDispatcher(syncDispatch))

	event := &gogithub.PushEvent{
		Ref:   gogithub.Ptr("refs/tags/v1.2.3"),
		After: gogithub.Ptr("abc123"),
	}
	gt.Error(t, processor.ProcessEvent(context.Background(), "push", event))
	gt.Number(t, len(pipeline.executed)).Equal(0)
}
