package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/listings-api/internal/config"
	"github.com/diewo77/listings-api/internal/db"
	"github.com/diewo77/listings-api/internal/events"
	"github.com/diewo77/listings-api/internal/media"
	"github.com/diewo77/listings-api/internal/metrics"
	"github.com/diewo77/listings-api/internal/server"
	"github.com/diewo77/listings-api/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Warn("closing database pool", zap.Error(err))
		}
	}()

	// Run migrations on startup if enabled
	if cfg.App.AutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		log.Info("migrations completed")
	}

	pub, err := newPublisher(cfg.Events, log)
	if err != nil {
		return err
	}
	defer pub.Close()

	images, err := newImageStore(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}

	handler := server.New(server.Deps{
		Store:          store.New(gdb, log.Named("store")),
		Events:         pub,
		Images:         images,
		Metrics:        metrics.New(),
		Logger:         log,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	// Create server with config timeouts
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.Bool("dev", cfg.App.Dev))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
	log.Info("server stopped gracefully")
	return nil
}

// newPublisher connects to NATS when NATS_URL is set and discards events otherwise.
func newPublisher(cfg config.EventsConfig, log *zap.Logger) (events.Publisher, error) {
	if cfg.NATSURL == "" {
		log.Info("NATS_URL not set, events disabled")
		return events.Nop{}, nil
	}
	pub, err := events.NewNATSPublisher(cfg.NATSURL)
	if err != nil {
		return nil, err
	}
	log.Info("publishing events to NATS", zap.String("url", cfg.NATSURL))
	return pub, nil
}

// newImageStore returns nil, leaving image uploads disabled, when no
// MINIO_ENDPOINT is configured.
func newImageStore(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (media.ImageStore, error) {
	if !cfg.Enabled() {
		log.Info("MINIO_ENDPOINT not set, image uploads disabled")
		return nil, nil
	}
	st, err := media.NewMinioStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("image storage ready", zap.String("endpoint", cfg.Endpoint), zap.String("bucket", cfg.Bucket))
	return st, nil
}
