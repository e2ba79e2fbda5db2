package cli

import (
	"context"
	"io"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slipway-ci/slipway/pkg/cli/config"
	"github.com/slipway-ci/slipway/pkg/domain/interfaces"
	"github.com/slipway-ci/slipway/pkg/domain/model"
	"github.com/slipway-ci/slipway/pkg/infra/command"
	"github.com/slipway-ci/slipway/pkg/infra/git"
	"github.com/slipway-ci/slipway/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// pipelineConfigs groups the per-concern configs shared by the run and
// serve commands.
type pipelineConfigs struct {
	github    config.GitHub
	pipeline  config.Pipeline
	slack     config.Slack
	firestore config.Firestore
	storage   config.Storage
	gemini    config.Gemini
}

func (c *pipelineConfigs) flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, c.github.Flags()...)
	flags = append(flags, c.pipeline.Flags()...)
	flags = append(flags, c.slack.Flags()...)
	flags = append(flags, c.firestore.Flags()...)
	flags = append(flags, c.storage.Flags()...)
	flags = append(flags, c.gemini.Flags()...)
	return flags
}

// buildPipeline assembles the pipeline use case and its infrastructure
// from the resolved configuration. The returned closer releases any
// clients that were created for optional integrations.
func buildPipeline(ctx context.Context, cfgs *pipelineConfigs) (interfaces.PipelineUseCase, *model.PipelineConfig, func(), error) {
	logger := ctxlog.From(ctx)

	pipelineCfg, err := cfgs.pipeline.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	publisher, err := cfgs.github.Publisher()
	if err != nil {
		return nil, nil, nil, err
	}

	var gitOpts []git.Option
	if cfgs.github.Token != "" {
		gitOpts = append(gitOpts, git.WithToken(cfgs.github.Token))
	}
	fetcher := git.NewFetcher(gitOpts...)
	runner := command.NewRunner()

	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Warn("Failed to close client", "error", err)
			}
		}
	}

	opts := []usecase.Option{}

	if notifier := cfgs.slack.Notifier(); notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier))
	}

	recorder, err := cfgs.firestore.Recorder(ctx)
	if err != nil {
		closeAll()
		return nil, nil, nil, goerr.Wrap(err, "failed to create run recorder")
	}
	if recorder != nil {
		closers = append(closers, recorder)
		opts = append(opts, usecase.WithRecorder(recorder))
	}

	archiver, err := cfgs.storage.Archiver(ctx)
	if err != nil {
		closeAll()
		return nil, nil, nil, goerr.Wrap(err, "failed to create artifact archiver")
	}
	if archiver != nil {
		closers = append(closers, archiver)
		opts = append(opts, usecase.WithArchiver(archiver))
	}

	llmClient, err := cfgs.gemini.Client(ctx)
	if err != nil {
		closeAll()
		return nil, nil, nil, goerr.Wrap(err, "failed to create LLM client")
	}
	if llmClient != nil {
		notes, err := usecase.NewNotesGenerator(llmClient, publisher)
		if err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		opts = append(opts, usecase.WithNotesGenerator(notes))
	}

	pipelineUC := usecase.NewPipeline(pipelineCfg, fetcher, runner, publisher, opts...)
	return pipelineUC, pipelineCfg, closeAll, nil
}
