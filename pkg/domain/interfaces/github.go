package interfaces

import (
	"context"

	"github.com/slipway-ci/slipway/pkg/domain/model"
)

// ReleasePublisher defines the release hosting operations used by the
// pipeline: creating a draft release for a tag and attaching assets to it.
type ReleasePublisher interface {
	// CreateDraftRelease creates a draft (prerelease disabled) release
	// keyed by the tag in draft.TagName.
	CreateDraftRelease(ctx context.Context, owner, repo string, draft *model.ReleaseDraft) (*model.Release, error)

	// UploadAsset attaches the artifact file to the release created by
	// CreateDraftRelease in the same run.
	UploadAsset(ctx context.Context, owner, repo string, releaseID int64, artifact model.Artifact) (*model.ReleaseAsset, error)

	// ListCommitMessages returns up to limit commit messages reachable
	// from ref, newest first.
	ListCommitMessages(ctx context.Context, owner, repo, ref string, limit int) ([]string, error)
}
