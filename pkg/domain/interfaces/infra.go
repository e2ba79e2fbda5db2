package interfaces

import (
	"context"
	"io"

	"github.com/slipway-ci/slipway/pkg/domain/model"
)

// SourceFetcher retrieves repository contents at a tagged commit into a
// local workspace directory.
type SourceFetcher interface {
	// Fetch clones cloneURL at tag into dir and returns the resolved
	// commit SHA.
	Fetch(ctx context.Context, cloneURL, tag, dir string) (string, error)
}

// CommandRunner executes external commands on the runner.
type CommandRunner interface {
	Run(ctx context.Context, cmd model.Command) error
}

// RunRecorder persists pipeline run records.
type RunRecorder interface {
	Record(ctx context.Context, run *model.PipelineRun) error
}

// Archiver stores built artifacts outside the ephemeral workspace.
type Archiver interface {
	Archive(ctx context.Context, run *model.PipelineRun, name string, r io.Reader) error
}

// Notifier reports run completion to an external channel.
type Notifier interface {
	Notify(ctx context.Context, run *model.PipelineRun) error
}
