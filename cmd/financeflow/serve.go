package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"financeflow/internal/auth"
	"financeflow/internal/backend"
	"financeflow/internal/cli"
	"financeflow/internal/config"
	apphttp "financeflow/internal/http"
	"financeflow/internal/ledger"
	applog "financeflow/internal/log"
)

func newServeCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := load(os.Stdout)
			if err != nil {
				return err
			}
			ctx, stop := cli.GracefulShutdown(cmd.Context(), logger)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

// newLedger builds the ledger service over the backend storage.
func newLedger(cfg *config.Config, be *backend.BackendResult) *ledger.Service {
	opts := []ledger.Option{ledger.WithDemoSeed(cfg.SeedDemo)}
	if be.Notifier != nil {
		opts = append(opts, ledger.WithNotifier(be.Notifier))
	}
	return ledger.NewService(be.Ledger, opts...)
}

func serve(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	be, err := cli.OpenBackend(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := be.Close(); err != nil {
			logger.Error("Failed to close backend", "error", err)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Ledger:   newLedger(cfg, be),
		Auth:     auth.NewService(be.KV),
		Exporter: be.Exporter,
		Ready:    be.Ready,
		Logger:   logger,
	}, apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		CacheTTL:           cfg.CacheTTL,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting financeflow server", append(applog.NewFields().WithOperation(applog.OpStartup).ToSlice(),
			"port", cfg.Port, "backend", cfg.DataBackend, "amqp", cfg.AMQPEnabled(), "sheets", cfg.SheetsEnabled())...)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cli.ShutdownTimeout)
		defer cancel()
		logger.Info("Shutting down server", applog.NewFields().WithOperation(applog.OpShutdown).ToSlice()...)
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
