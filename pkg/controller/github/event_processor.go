package github

import (
	"context"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/tagship/pkg/domain/interfaces"
	"github.com/m-mizutani/tagship/pkg/domain/model"
	"github.com/m-mizutani/tagship/pkg/utils/async"
)

// EventProcessor turns GitHub webhook events into pipeline runs. A push
// whose ref is a tag matching the pattern starts exactly one run; every
// other event is acknowledged and ignored.
type EventProcessor struct {
	pipelineUC interfaces.PipelineUseCase
	tagPattern string
	dispatch   func(ctx context.Context, handler func(ctx context.Context) error)
}

// Option is a functional option for EventProcessor configuration
type Option func(*EventProcessor)

// WithTagPattern overrides the tag glob (default "v*")
func WithTagPattern(pattern string) Option {
	return func(p *EventProcessor) {
		p.tagPattern = pattern
	}
}

// WithDispatcher overrides how matched triggers are executed. Tests use
// a synchronous dispatcher.
func WithDispatcher(dispatch func(ctx context.Context, handler func(ctx context.Context) error)) Option {
	return func(p *EventProcessor) {
		p.dispatch = dispatch
	}
}

// NewEventProcessor creates a new GitHub event processor
func NewEventProcessor(pipelineUC interfaces.PipelineUseCase, opts ...Option) *EventProcessor {
	p := &EventProcessor{
		pipelineUC: pipelineUC,
		tagPattern: model.DefaultTagPattern,
		dispatch:   async.Dispatch,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessEvent processes a GitHub webhook event
func (p *EventProcessor) ProcessEvent(ctx context.Context, eventType string, payload interface{}) error {
	logger := ctxlog.From(ctx)

	switch eventType {
	case "push":
		return p.processPushEvent(ctx, payload)
	default:
		logger.Info("Ignoring unsupported event type", "event_type", eventType)
		return nil
	}
}

// processPushEvent matches the pushed ref against the tag pattern and
// dispatches one pipeline run for a match. Branch pushes, non-matching
// tags and tag deletions produce no run.
func (p *EventProcessor) processPushEvent(ctx context.Context, payload interface{}) error {
	logger := ctxlog.From(ctx)

	pushEvent, ok := payload.(*github.PushEvent)
	if !ok {
		logger.Warn("Invalid push event payload")
		return nil
	}

	if pushEvent.GetDeleted() {
		logger.Debug("Ignoring ref deletion", "ref", pushEvent.GetRef())
		return nil
	}

	tag, ok := model.MatchTagRef(pushEvent.GetRef(), p.tagPattern)
	if !ok {
		logger.Debug("Ref does not match tag pattern",
			"ref", pushEvent.GetRef(),
			"pattern", p.tagPattern,
		)
		return nil
	}

	trigger, err := p.extractTrigger(pushEvent, tag)
	if err != nil {
		logger.Error("Failed to extract trigger from push event", "error", err)
		return err
	}

	logger.Info("Tag push matched, starting pipeline run",
		"repository", trigger.Repository(),
		"tag", trigger.Tag,
		"commit_sha", trigger.CommitSHA,
	)

	// Acknowledge the webhook immediately; the run continues in the
	// background with its own context
	p.dispatch(ctx, func(ctx context.Context) error {
		_, err := p.pipelineUC.Execute(ctx, trigger)
		return err
	})

	return nil
}

// extractTrigger extracts run inputs from a GitHub push event
func (p *EventProcessor) extractTrigger(event *github.PushEvent, tag string) (*model.Trigger, error) {
	owner := event.GetRepo().GetOwner().GetLogin()
	repo := event.GetRepo().GetName()
	commitSHA := event.GetAfter()

	if owner == "" || repo == "" || commitSHA == "" {
		return nil, goerr.New("missing required fields in push event",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("commit_sha", commitSHA))
	}

	return &model.Trigger{
		Owner:      owner,
		Repo:       repo,
		Tag:        tag,
		CommitSHA:  commitSHA,
		Ref:        event.GetRef(),
		Sender:     event.GetSender().GetLogin(),
		ReceivedAt: time.Now(),
	}, nil
}
