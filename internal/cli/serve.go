package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/storm-damage-report/internal/adapter/httpapi"
	"github.com/couchcryptid/storm-damage-report/internal/observability"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pipeline and serve report aggregations over HTTP",
	Long: `Load and normalize the storm dataset, then keep serving the report
aggregations under /v1 together with /healthz, /readyz, and /metrics.
The readiness probe fails until the first pipeline run completes.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	m := observability.NewMetrics()

	p, closer, err := buildPipeline(cfg, m, logger)
	if err != nil {
		return err
	}
	defer closer()

	srv := httpapi.NewServer(cfg.HTTPAddr, p, m, httpapi.Options{
		CacheTTL:  cfg.ResponseCacheTTL,
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	}, logger.With("component", "http"))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	pipelineErr := make(chan error, 1)
	go func() {
		if _, err := p.Run(ctx); err != nil {
			pipelineErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case err := <-pipelineErr:
		logger.Error("pipeline run failed", "error", err)
		shutdown(srv, cfg.ShutdownTimeout, logger)
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdown(srv, cfg.ShutdownTimeout, logger)
		return nil
	}
}

func shutdown(srv *httpapi.Server, timeout time.Duration, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown", "error", err)
	}
}
