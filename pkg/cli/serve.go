package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/conformity/pkg/cli/config"
	httpctrl "github.com/secmon-lab/conformity/pkg/controller/http"
	"github.com/secmon-lab/conformity/pkg/usecase"
	"github.com/secmon-lab/conformity/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var baseURL string
	var catalogCfg config.Catalog
	var repoCfg config.Repository
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("CONFORMITY_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Base URL for the application, used for links in notifications (e.g., https://your-domain.com)",
			Sources:     cli.EnvVars("CONFORMITY_BASE_URL"),
			Destination: &baseURL,
		},
	}

	flags = append(flags, catalogCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()
			ctx = logging.With(ctx, logger)

			frameworks, err := catalogCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to load framework catalog")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			ucOpts := []usecase.Option{
				usecase.WithBaseURL(baseURL),
			}

			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure slack")
			}
			if slackSvc != nil {
				ucOpts = append(ucOpts, usecase.WithSlack(slackSvc, slackCfg.ChannelID()))
				logger.Info("Slack completion notifications enabled", "slack", slackCfg)
			} else {
				logger.Info("Slack not configured, completion notifications disabled")
			}

			uc := usecase.New(repo, ucOpts...)

			created, err := uc.Framework.Seed(ctx, frameworks)
			if err != nil {
				return goerr.Wrap(err, "failed to seed frameworks")
			}
			logger.Info("Frameworks seeded", "catalog", catalogCfg, "total", len(frameworks), "created", created)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server", "addr", addr, "repository", repoCfg)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logger.Info("Server shutdown completed")
				return nil
			}
		},
	}
}
