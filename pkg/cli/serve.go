package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slipway-ci/slipway/pkg/cli/config"
	controller "github.com/slipway-ci/slipway/pkg/controller/http"
	"github.com/slipway-ci/slipway/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		cfgs      pipelineConfigs
		serverCfg config.Server
		sentryCfg config.Sentry
	)

	flags := append(cfgs.flags(), serverCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the webhook server and run pipelines on tag pushes",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := sentryCfg.Configure(); err != nil {
				return err
			}
			defer sentry.Flush(2 * time.Second)

			if cfgs.github.WebhookSecret == "" {
				return goerr.New("github-webhook-secret is required in serve mode")
			}

			pipelineUC, pipelineCfg, closeDeps, err := buildPipeline(ctx, &cfgs)
			if err != nil {
				return err
			}
			defer closeDeps()

			logger.Info("Starting slipway server",
				slog.String("addr", serverCfg.Addr),
				slog.String("repository", pipelineCfg.Repository.FullName()),
			)

			webhookUC := usecase.NewWebhook(pipelineUC, pipelineCfg.Repository.FullName())

			server, err := controller.NewServer(
				ctx,
				webhookUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(cfgs.github.WebhookSecret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
