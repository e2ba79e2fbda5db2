package github

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slipway-ci/slipway/pkg/domain/interfaces"
	"github.com/slipway-ci/slipway/pkg/domain/model"
)

// uploadAttempts bounds the network-level retry of a single asset upload.
// A final failure still aborts the pipeline run.
const uploadAttempts = 3

type client struct {
	githubClient *github.Client
}

// NewAppClient creates a release publisher authenticated as a GitHub App
// installation.
func NewAppClient(appID, installationID int64, privateKey []byte) (interfaces.ReleasePublisher, error) {
	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport")
	}

	return &client{
		githubClient: github.NewClient(&http.Client{Transport: itr}),
	}, nil
}

// NewTokenClient creates a release publisher authenticated with a personal
// access or CI-provided token.
func NewTokenClient(token string) interfaces.ReleasePublisher {
	return &client{
		githubClient: github.NewClient(nil).WithAuthToken(token),
	}
}

// CreateDraftRelease creates a release for the tag in draft state with
// prerelease disabled.
func (c *client) CreateDraftRelease(ctx context.Context, owner, repo string, draft *model.ReleaseDraft) (*model.Release, error) {
	logger := ctxlog.From(ctx)

	req := &github.RepositoryRelease{
		TagName:    github.Ptr(draft.TagName),
		Name:       github.Ptr(draft.Name),
		Body:       github.Ptr(draft.Body),
		Draft:      github.Ptr(true),
		Prerelease: github.Ptr(false),
	}
	if draft.TargetCommitish != "" {
		req.TargetCommitish = github.Ptr(draft.TargetCommitish)
	}

	created, _, err := c.githubClient.Repositories.CreateRelease(ctx, owner, repo, req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create draft release",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("tag", draft.TagName),
		)
	}

	logger.Info("Created draft release",
		"owner", owner,
		"repo", repo,
		"tag", draft.TagName,
		"release_id", created.GetID(),
		"html_url", created.GetHTMLURL(),
	)

	return &model.Release{
		ID:        created.GetID(),
		TagName:   created.GetTagName(),
		HTMLURL:   created.GetHTMLURL(),
		UploadURL: created.GetUploadURL(),
		Draft:     created.GetDraft(),
	}, nil
}

// UploadAsset attaches the artifact file to the release. The upload is
// retried with backoff on transient failures.
func (c *client) UploadAsset(ctx context.Context, owner, repo string, releaseID int64, artifact model.Artifact) (*model.ReleaseAsset, error) {
	logger := ctxlog.From(ctx)

	var uploaded *github.ReleaseAsset
	err := retry.Do(
		func() error {
			f, err := os.Open(artifact.Path)
			if err != nil {
				return retry.Unrecoverable(goerr.Wrap(err, "failed to open artifact",
					goerr.V("path", artifact.Path),
				))
			}
			defer f.Close()

			opts := &github.UploadOptions{
				Name:      artifact.Name,
				MediaType: artifact.Kind.ContentType(),
			}
			asset, _, err := c.githubClient.Repositories.UploadReleaseAsset(ctx, owner, repo, releaseID, opts, f)
			if err != nil {
				return err
			}
			uploaded = asset
			return nil
		},
		retry.Attempts(uploadAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.Delay(2*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("Retrying asset upload",
				"asset", artifact.Name,
				"attempt", n+1,
				"error", err,
			)
		}),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upload release asset",
			goerr.V("asset", artifact.Name),
			goerr.V("release_id", releaseID),
		)
	}

	logger.Info("Uploaded release asset",
		"asset", uploaded.GetName(),
		"content_type", uploaded.GetContentType(),
		"size", uploaded.GetSize(),
	)

	return &model.ReleaseAsset{
		ID:          uploaded.GetID(),
		Name:        uploaded.GetName(),
		ContentType: uploaded.GetContentType(),
		Size:        int64(uploaded.GetSize()),
		DownloadURL: uploaded.GetBrowserDownloadURL(),
	}, nil
}

// ListCommitMessages returns up to limit commit messages reachable from
// ref, newest first.
func (c *client) ListCommitMessages(ctx context.Context, owner, repo, ref string, limit int) ([]string, error) {
	commits, _, err := c.githubClient.Repositories.ListCommits(ctx, owner, repo, &github.CommitsListOptions{
		SHA:         ref,
		ListOptions: github.ListOptions{PerPage: limit},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list commits",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("ref", ref),
		)
	}

	messages := make([]string, 0, len(commits))
	for _, commit := range commits {
		messages = append(messages, commit.GetCommit().GetMessage())
	}
	return messages, nil
}
