package usecase

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"text/template"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slipway-ci/slipway/pkg/domain/interfaces"
	"github.com/slipway-ci/slipway/pkg/domain/model"
)

type pipelineUseCase struct {
	cfg       *model.PipelineConfig
	fetcher   interfaces.SourceFetcher
	runner    interfaces.CommandRunner
	publisher interfaces.ReleasePublisher

	recorder interfaces.RunRecorder
	archiver interfaces.Archiver
	notifier interfaces.Notifier
	notes    interfaces.NotesGenerator
	workRoot string
}

// Option is a functional option for the pipeline use case.
type Option func(*pipelineUseCase)

// WithRecorder enables run record persistence.
func WithRecorder(r interfaces.RunRecorder) Option {
	return func(uc *pipelineUseCase) {
		uc.recorder = r
	}
}

// WithArchiver enables artifact archival after a successful upload.
func WithArchiver(a interfaces.Archiver) Option {
	return func(uc *pipelineUseCase) {
		uc.archiver = a
	}
}

// WithNotifier enables completion notifications.
func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *pipelineUseCase) {
		uc.notifier = n
	}
}

// WithNotesGenerator replaces the static body template with generated
// release notes.
func WithNotesGenerator(g interfaces.NotesGenerator) Option {
	return func(uc *pipelineUseCase) {
		uc.notes = g
	}
}

// WithWorkRoot places run workspaces under dir instead of the system
// temporary directory.
func WithWorkRoot(dir string) Option {
	return func(uc *pipelineUseCase) {
		uc.workRoot = dir
	}
}

// NewPipeline creates the release pipeline use case. The pipeline is
// strictly sequential and fail-fast: checkout, toolchain setup, dependency
// install, build, artifact verification, draft release creation, asset
// upload. A failed step aborts the run and no later step executes.
func NewPipeline(
	cfg *model.PipelineConfig,
	fetcher interfaces.SourceFetcher,
	runner interfaces.CommandRunner,
	publisher interfaces.ReleasePublisher,
	opts ...Option,
) interfaces.PipelineUseCase {
	uc := &pipelineUseCase{
		cfg:       cfg,
		fetcher:   fetcher,
		runner:    runner,
		publisher: publisher,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute runs the pipeline for one tag. The returned run record is
// non-nil even on failure; it is also persisted and notified when those
// integrations are configured.
func (uc *pipelineUseCase) Execute(ctx context.Context, tag string) (*model.PipelineRun, error) {
	logger := ctxlog.From(ctx)
	run := model.NewPipelineRun(uc.cfg.Repository.FullName(), tag)

	logger.Info("Pipeline run started",
		"run_id", run.ID,
		"repository", run.Repository,
		"tag", tag,
	)

	err := uc.execute(ctx, run, tag)
	run.Finish(err)
	uc.finalize(ctx, run)

	if err != nil {
		logger.Error("Pipeline run failed",
			"run_id", run.ID,
			"tag", tag,
			"error", err,
		)
		return run, err
	}

	logger.Info("Pipeline run succeeded",
		"run_id", run.ID,
		"tag", tag,
		"release_url", run.ReleaseURL,
	)
	return run, nil
}

func (uc *pipelineUseCase) execute(ctx context.Context, run *model.PipelineRun, tag string) error {
	logger := ctxlog.From(ctx)

	workspace, err := os.MkdirTemp(uc.workRoot, "slipway-run-*")
	if err != nil {
		return goerr.Wrap(err, "failed to create run workspace")
	}
	defer func() {
		if removeErr := os.RemoveAll(workspace); removeErr != nil {
			logger.Warn("Failed to clean up run workspace",
				"workspace", workspace,
				"error", removeErr,
			)
		}
	}()

	srcDir := filepath.Join(workspace, "src")
	product := uc.cfg.Product.Name

	// Checkout: repository contents at the tagged commit.
	if err := uc.step(ctx, run, model.StepCheckout, func(ctx context.Context) error {
		sha, err := uc.fetcher.Fetch(ctx, uc.cfg.Repository.ResolveCloneURL(), tag, srcDir)
		if err != nil {
			return err
		}
		run.CommitSHA = sha
		return nil
	}); err != nil {
		return err
	}

	// Toolchain setup.
	if err := uc.step(ctx, run, model.StepSetup, func(ctx context.Context) error {
		return uc.runShell(ctx, srcDir, uc.cfg.Build.Setup)
	}); err != nil {
		return err
	}

	// Dependency installation.
	if err := uc.step(ctx, run, model.StepInstall, func(ctx context.Context) error {
		return uc.runShell(ctx, srcDir, uc.cfg.Build.Install)
	}); err != nil {
		return err
	}

	// Build: the script receives exactly the product name and the tag.
	if err := uc.step(ctx, run, model.StepBuild, func(ctx context.Context) error {
		script := uc.cfg.Build.Script
		if !filepath.IsAbs(script) {
			script = filepath.Join(srcDir, script)
		}
		return uc.runner.Run(ctx, model.Command{
			Dir:  srcDir,
			Name: script,
			Args: []string{product, tag},
		})
	}); err != nil {
		return err
	}

	// Verify: both installers must exist before any release call.
	artifacts := model.ExpectedArtifacts(filepath.Join(srcDir, uc.cfg.Build.DistDir), product, tag)
	if err := uc.step(ctx, run, model.StepVerify, func(ctx context.Context) error {
		for i := range artifacts {
			info, err := os.Stat(artifacts[i].Path)
			if err != nil {
				return goerr.Wrap(err, "expected build artifact is missing",
					goerr.V("path", artifacts[i].Path),
				)
			}
			artifacts[i].Size = info.Size()
		}
		return nil
	}); err != nil {
		return err
	}

	// Release creation: always draft, never prerelease.
	var release *model.Release
	if err := uc.step(ctx, run, model.StepRelease, func(ctx context.Context) error {
		draft := &model.ReleaseDraft{
			TagName:         tag,
			Name:            product + " " + tag,
			Body:            uc.releaseBody(ctx, tag),
			TargetCommitish: run.CommitSHA,
		}
		created, err := uc.publisher.CreateDraftRelease(ctx, uc.cfg.Repository.Owner, uc.cfg.Repository.Name, draft)
		if err != nil {
			return err
		}
		release = created
		run.ReleaseID = created.ID
		run.ReleaseURL = created.HTMLURL
		return nil
	}); err != nil {
		return err
	}

	// Asset upload: one upload per artifact, both against the release
	// created above. A partial failure leaves the draft in place.
	if err := uc.step(ctx, run, model.StepUpload, func(ctx context.Context) error {
		for _, artifact := range artifacts {
			asset, err := uc.publisher.UploadAsset(ctx, uc.cfg.Repository.Owner, uc.cfg.Repository.Name, release.ID, artifact)
			if err != nil {
				return err
			}
			run.Assets = append(run.Assets, asset.Name)
		}
		return nil
	}); err != nil {
		return err
	}

	uc.archive(ctx, run, artifacts)
	return nil
}

// step executes one pipeline step and records its outcome on the run.
func (uc *pipelineUseCase) step(ctx context.Context, run *model.PipelineRun, id model.StepID, fn func(context.Context) error) error {
	logger := ctxlog.From(ctx)
	logger.Info("Pipeline step started", "run_id", run.ID, "step", id)

	idx := run.StartStep(id)
	err := fn(ctx)
	run.FinishStep(idx, err)

	if err != nil {
		return goerr.Wrap(err, "pipeline step failed", goerr.V("step", string(id)))
	}

	logger.Info("Pipeline step finished", "run_id", run.ID, "step", id)
	return nil
}

func (uc *pipelineUseCase) runShell(ctx context.Context, dir string, lines []string) error {
	for _, line := range lines {
		if err := uc.runner.Run(ctx, model.ShellCommand(dir, line)); err != nil {
			return err
		}
	}
	return nil
}

// releaseBody renders the release description. When a notes generator is
// configured its output wins; generation failures fall back to the
// template so a flaky LLM cannot abort a release.
func (uc *pipelineUseCase) releaseBody(ctx context.Context, tag string) string {
	logger := ctxlog.From(ctx)

	if uc.notes != nil {
		body, err := uc.notes.Generate(ctx, uc.cfg.Repository.Owner, uc.cfg.Repository.Name, tag)
		if err == nil && body != "" {
			return body
		}
		logger.Warn("Release notes generation failed, falling back to template",
			"error", err,
		)
	}

	tmpl, err := template.New("body").Parse(uc.cfg.Release.BodyTemplate)
	if err != nil {
		logger.Warn("Invalid release body template", "error", err)
		return uc.cfg.Product.Name + " " + tag
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]string{
		"Product":    uc.cfg.Product.Name,
		"Tag":        tag,
		"Repository": uc.cfg.Repository.FullName(),
	}); err != nil {
		logger.Warn("Failed to render release body template", "error", err)
		return uc.cfg.Product.Name + " " + tag
	}
	return buf.String()
}

// archive copies artifacts to external storage. Runs after a successful
// upload and never fails the run.
func (uc *pipelineUseCase) archive(ctx context.Context, run *model.PipelineRun, artifacts []model.Artifact) {
	if uc.archiver == nil {
		return
	}
	logger := ctxlog.From(ctx)

	for _, artifact := range artifacts {
		f, err := os.Open(artifact.Path)
		if err != nil {
			logger.Warn("Failed to open artifact for archival",
				"path", artifact.Path,
				"error", err,
			)
			continue
		}
		if err := uc.archiver.Archive(ctx, run, artifact.Name, f); err != nil {
			logger.Warn("Failed to archive artifact",
				"asset", artifact.Name,
				"error", err,
			)
		}
		_ = f.Close()
	}
}

// finalize persists and notifies the finished run. Both integrations are
// best-effort: the pipeline outcome is already decided.
func (uc *pipelineUseCase) finalize(ctx context.Context, run *model.PipelineRun) {
	logger := ctxlog.From(ctx)

	if uc.recorder != nil {
		if err := uc.recorder.Record(ctx, run); err != nil {
			logger.Warn("Failed to record pipeline run",
				"run_id", run.ID,
				"error", err,
			)
		}
	}
	if uc.notifier != nil {
		if err := uc.notifier.Notify(ctx, run); err != nil {
			logger.Warn("Failed to send run notification",
				"run_id", run.ID,
				"error", err,
			)
		}
	}
}
