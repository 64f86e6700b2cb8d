package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/tagship/pkg/cli/config"
	githubctrl "github.com/m-mizutani/tagship/pkg/controller/github"
	controller "github.com/m-mizutani/tagship/pkg/controller/http"
	"github.com/m-mizutani/tagship/pkg/usecase"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		cfgs      pipelineConfigs
	)

	flags := append(serverCfg.Flags(), cfgs.flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server receiving tag push webhooks",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if cfgs.github.WebhookSecret == "" {
				return goerr.New("webhook secret is required to serve")
			}

			pipelineUC, cleanup, err := cfgs.build(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			events := githubctrl.NewEventProcessor(
				pipelineUC,
				githubctrl.WithTagPattern(cfgs.pipeline.TagPattern),
			)
			webhookUC := usecase.NewWebhook()

			server, err := controller.NewServer(
				ctx,
				webhookUC,
				events,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(cfgs.github.WebhookSecret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			logger.Info("Starting tagship server",
				slog.String("addr", serverCfg.Addr),
				slog.String("tag_pattern", cfgs.pipeline.TagPattern),
				slog.String("python_version", cfgs.pipeline.PythonVersion),
			)

			// Start server in goroutine
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
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
