package git

import (
	"context"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slipway-ci/slipway/pkg/domain/interfaces"
)

type fetcher struct {
	token string
}

// Option is a functional option for the fetcher.
type Option func(*fetcher)

// WithToken sets an access token for private repository clones.
func WithToken(token string) Option {
	return func(f *fetcher) {
		f.token = token
	}
}

// NewFetcher creates a SourceFetcher that shallow-clones the repository
// at the requested tag.
func NewFetcher(opts ...Option) interfaces.SourceFetcher {
	f := &fetcher{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch clones cloneURL at tag into dir and returns the commit SHA the
// tag resolves to.
func (f *fetcher) Fetch(ctx context.Context, cloneURL, tag, dir string) (string, error) {
	logger := ctxlog.From(ctx)

	cloneOpts := &gogit.CloneOptions{
		URL:           cloneURL,
		ReferenceName: plumbing.NewTagReferenceName(tag),
		SingleBranch:  true,
		Depth:         1,
		Tags:          gogit.NoTags,
	}
	if f.token != "" {
		cloneOpts.Auth = &http.BasicAuth{
			Username: "x-access-token",
			Password: f.token,
		}
	}

	logger.Info("Checking out tagged commit",
		"url", cloneURL,
		"tag", tag,
		"dir", dir,
	)

	repo, err := gogit.PlainCloneContext(ctx, dir, false, cloneOpts)
	if err != nil {
		return "", goerr.Wrap(err, "failed to clone repository at tag",
			goerr.V("url", cloneURL),
			goerr.V("tag", tag),
		)
	}

	head, err := repo.Head()
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve HEAD after clone")
	}

	sha := head.Hash().String()
	logger.Debug("Checkout complete", "commit_sha", sha)

	return sha, nil
}
