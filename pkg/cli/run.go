package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/slipway-ci/slipway/pkg/cli/config"
	"github.com/slipway-ci/slipway/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdRun() *cli.Command {
	var (
		cfgs      pipelineConfigs
		sentryCfg config.Sentry
		tag       string
	)

	flags := append(cfgs.flags(), sentryCfg.Flags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "tag",
			Usage:       "Tag to build and release",
			Required:    true,
			Destination: &tag,
			Sources:     cli.EnvVars("SLIPWAY_TAG"),
		},
	)

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Run the release pipeline once for a tag",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := sentryCfg.Configure(); err != nil {
				return err
			}
			defer sentry.Flush(2 * time.Second)

			pipelineUC, pipelineCfg, closeDeps, err := buildPipeline(ctx, &cfgs)
			if err != nil {
				return err
			}
			defer closeDeps()

			logger.Info("Running release pipeline",
				"repository", pipelineCfg.Repository.FullName(),
				"tag", tag,
			)

			run, execErr := pipelineUC.Execute(ctx, tag)
			printRunSummary(run)
			if execErr != nil {
				sentry.CaptureException(execErr)
				return execErr
			}
			return nil
		},
	}
}

// printRunSummary writes a human-readable per-step summary to stdout.
func printRunSummary(run *model.PipelineRun) {
	if run == nil {
		return
	}

	okMark := color.New(color.FgGreen).Sprint("ok")
	failMark := color.New(color.FgRed).Sprint("failed")

	fmt.Printf("\nrun %s (%s %s)\n", run.ID, run.Repository, run.Tag)
	for _, step := range run.Steps {
		mark := okMark
		if step.Status == model.RunFailed {
			mark = failMark
		}
		fmt.Printf("  %-10s %-8s %s\n", step.Step, mark,
			step.FinishedAt.Sub(step.StartedAt).Round(time.Millisecond))
	}

	if run.Status == model.RunSucceeded {
		fmt.Printf("draft release: %s\n", run.ReleaseURL)
		for _, asset := range run.Assets {
			fmt.Printf("  uploaded %s\n", asset)
		}
		return
	}

	if step, ok := run.FailedStep(); ok {
		fmt.Printf("%s at step %s: %s\n", color.RedString("failed"), step.Step, step.Error)
	}
}
