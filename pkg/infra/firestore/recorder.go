package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slipway-ci/slipway/pkg/domain/model"
	"google.golang.org/api/option"
)

// Recorder persists pipeline run records to a Firestore collection, keyed
// by run ID.
type Recorder struct {
	client     *firestore.Client
	collection string
}

// NewRecorder creates a run recorder. credentialsFile may be empty to use
// application default credentials.
func NewRecorder(ctx context.Context, projectID, collection, credentialsFile string) (*Recorder, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Firestore client",
			goerr.V("project_id", projectID),
		)
	}

	return &Recorder{
		client:     client,
		collection: collection,
	}, nil
}

// Record writes the run document. Later writes for the same run ID
// overwrite earlier ones, so the final document reflects the final state.
func (r *Recorder) Record(ctx context.Context, run *model.PipelineRun) error {
	if _, err := r.client.Collection(r.collection).Doc(run.ID).Set(ctx, run); err != nil {
		return goerr.Wrap(err, "failed to record pipeline run",
			goerr.V("run_id", run.ID),
			goerr.V("collection", r.collection),
		)
	}

	ctxlog.From(ctx).Debug("Recorded pipeline run",
		"run_id", run.ID,
		"status", run.Status,
	)
	return nil
}

// Close releases the underlying client.
func (r *Recorder) Close() error {
	return r.client.Close()
}
