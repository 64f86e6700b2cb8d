package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/tagship/pkg/cli/config"
	"github.com/m-mizutani/tagship/pkg/domain/interfaces"
	"github.com/m-mizutani/tagship/pkg/infra/exec"
	"github.com/m-mizutani/tagship/pkg/infra/firestore"
	"github.com/m-mizutani/tagship/pkg/infra/notify"
	"github.com/m-mizutani/tagship/pkg/infra/storage"
	"github.com/m-mizutani/tagship/pkg/usecase"
)

// pipelineConfigs bundles the configuration both commands share
type pipelineConfigs struct {
	github    config.GitHub
	index     config.Index
	pipeline  config.Pipeline
	firestore config.Firestore
	storage   config.Storage
	slack     config.Slack
}

func (x *pipelineConfigs) flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.github.Flags()...)
	flags = append(flags, x.index.Flags()...)
	flags = append(flags, x.pipeline.Flags()...)
	flags = append(flags, x.firestore.Flags()...)
	flags = append(flags, x.storage.Flags()...)
	flags = append(flags, x.slack.Flags()...)
	return flags
}

// build assembles the pipeline use case with its infrastructure. The
// returned cleanup releases clients that hold connections.
func (x *pipelineConfigs) build(ctx context.Context) (interfaces.PipelineUseCase, func(), error) {
	cleanup := func() {}

	if err := x.pipeline.Validate(); err != nil {
		return nil, nil, err
	}

	githubClient, err := x.github.Configure()
	if err != nil {
		return nil, nil, err
	}

	indexClient := x.index.Configure()

	opts := []usecase.PipelineOption{
		usecase.WithPythonVersion(x.pipeline.PythonVersion),
	}

	if x.firestore.ProjectID != "" {
		runs, err := firestore.New(ctx, x.firestore.ProjectID)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { _ = runs.Close() }
		opts = append(opts, usecase.WithRunRepository(runs))
	}

	if x.storage.Bucket != "" {
		artifacts, err := storage.New(ctx, x.storage.Bucket)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		opts = append(opts, usecase.WithArtifactStore(artifacts))
	}

	if x.slack.WebhookURL != "" {
		opts = append(opts, usecase.WithNotifier(notify.NewSlack(x.slack.WebhookURL)))
	}

	return usecase.NewPipeline(githubClient, indexClient, exec.New(), opts...), cleanup, nil
}
