package storage

import (
	"context"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slipway-ci/slipway/pkg/domain/model"
	"google.golang.org/api/option"
)

// Archiver copies built installers to a Cloud Storage bucket after a
// successful upload, so artifacts outlive the ephemeral workspace.
type Archiver struct {
	client *storage.Client
	bucket string
}

// NewArchiver creates an artifact archiver. credentialsFile may be empty
// to use application default credentials.
func NewArchiver(ctx context.Context, bucket, credentialsFile string) (*Archiver, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	return &Archiver{
		client: client,
		bucket: bucket,
	}, nil
}

// Archive stores the artifact under <repository>/<tag>/<name>.
func (a *Archiver) Archive(ctx context.Context, run *model.PipelineRun, name string, r io.Reader) error {
	object := path.Join(run.Repository, run.Tag, name)

	w := a.client.Bucket(a.bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write artifact to bucket",
			goerr.V("bucket", a.bucket),
			goerr.V("object", object),
		)
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize artifact object",
			goerr.V("bucket", a.bucket),
			goerr.V("object", object),
		)
	}

	ctxlog.From(ctx).Info("Archived artifact",
		"bucket", a.bucket,
		"object", object,
	)
	return nil
}

// Close releases the underlying client.
func (a *Archiver) Close() error {
	return a.client.Close()
}
