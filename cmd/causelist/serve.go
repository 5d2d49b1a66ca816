package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/causelist/internal/api"
	"github.com/nao1215/causelist/internal/config"
	"github.com/nao1215/causelist/internal/database"
	cllog "github.com/nao1215/causelist/internal/log"
)

// shutdownTimeout bounds the wait for in-flight requests on shutdown.
const shutdownTimeout = 15 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cause list HTTP API",
		Long: `Serve starts the HTTP API.

  GET  /health
  POST /fetch-cause-list  {"date", "side", "advocate", "base_url"?, "api_key"?}

The API key is read from CAUSELIST_API_KEY (or API_KEY) or from the
configuration file, and clients send it in the X-API-Key header or the
api_key field. PORT overrides the port of the listen address.

Examples:
  CAUSELIST_API_KEY=secret causelist serve
  CAUSELIST_API_KEY=secret causelist serve --listen 127.0.0.1:8080 --log-json`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	addFetchFlags(cmd)

	cmd.Flags().StringP("listen", "l", "",
		fmt.Sprintf("Listen address (default \":%d\")", config.DefaultPort))
	cmd.Flags().Bool("log-json", false, "Write logs as JSON")

	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := serverLogger(cmd, cfg)
	slog.SetDefault(logger)

	handler, cleanup, err := newServerHandler(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return serve(ctx, srv, logger)
}

// buildServeConfig loads the configuration and applies the serve flags.
func buildServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := applyFetchFlags(cmd, cfg); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("listen") {
		if cfg.ListenAddress, err = cmd.Flags().GetString("listen"); err != nil {
			return nil, err
		}
	}
	if cfg.LogJSON, err = cmd.Flags().GetBool("log-json"); err != nil {
		return nil, err
	}
	return cfg, nil
}

// serverLogger logs at Info, or Debug when verbose.
func serverLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return cllog.NewLogger(cmd.ErrOrStderr(), cllog.Options{Level: level, JSON: cfg.LogJSON})
}

// newServerHandler wires the pipeline, the optional history database and
// the API server. cleanup closes the database.
func newServerHandler(cfg *config.Config, logger *slog.Logger) (http.Handler, func(), error) {
	runner, err := newPipeline(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	opts := []api.Option{
		api.WithAPIKey(cfg.APIKey),
		api.WithDefaultBaseURL(cfg.BaseURL),
		api.WithMaxBodySize(config.DefaultMaxRequestBody),
		api.WithLogger(logger),
	}

	cleanup := func() {}
	if cfg.HistoryEnabled {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open history database: %w", err)
		}
		logger.Info("recording lookup history", "path", db.Path())
		opts = append(opts, api.WithHistory(db))
		cleanup = func() { _ = db.Close() }
	}

	return api.NewServer(runner, opts...).Handler(), cleanup, nil
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
