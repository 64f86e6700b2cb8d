// Package firestore persists pipeline run records.
package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/m-mizutani/tagship/pkg/domain/model"
	"github.com/m-mizutani/tagship/pkg/domain/types"
)

const runCollection = "runs"

// Repository stores run records in Firestore
type Repository struct {
	client *firestore.Client
}

// New creates a run repository backed by Firestore
func New(ctx context.Context, projectID string, opts ...option.ClientOption) (*Repository, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project_id", projectID))
	}

	return &Repository{client: client}, nil
}

// Close releases the underlying client
func (r *Repository) Close() error {
	return r.client.Close()
}

// Put writes a run record, overwriting any previous state of the run
func (r *Repository) Put(ctx context.Context, run *model.PipelineRun) error {
	if _, err := r.client.Collection(runCollection).Doc(run.ID.String()).Set(ctx, run); err != nil {
		return goerr.Wrap(err, "failed to put run record", goerr.V("run_id", run.ID))
	}
	return nil
}

// Get returns the run record for the ID
func (r *Repository) Get(ctx context.Context, id types.RunID) (*model.PipelineRun, error) {
	doc, err := r.client.Collection(runCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.New("run not found", goerr.V("run_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get run record", goerr.V("run_id", id))
	}

	var run model.PipelineRun
	if err := doc.DataTo(&run); err != nil {
		return nil, goerr.Wrap(err, "failed to decode run record", goerr.V("run_id", id))
	}

	return &run, nil
}

// ListByRepository returns the most recent runs for a repository
func (r *Repository) ListByRepository(ctx context.Context, repository string, limit int) ([]*model.PipelineRun, error) {
	iter := r.client.Collection(runCollection).
		Where("repository", "==", repository).
		OrderBy("started_at", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var runs []*model.PipelineRun
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list run records",
				goerr.V("repository", repository))
		}

		var run model.PipelineRun
		if err := doc.DataTo(&run); err != nil {
			return nil, goerr.Wrap(err, "failed to decode run record", goerr.V("doc", doc.Ref.ID))
		}
		runs = append(runs, &run)
	}

	return runs, nil
}
