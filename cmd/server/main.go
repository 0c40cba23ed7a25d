package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rohits-web03/filebridge/internal/api"
	"github.com/rohits-web03/filebridge/internal/api/handlers"
	"github.com/rohits-web03/filebridge/internal/config"
	"github.com/rohits-web03/filebridge/internal/observability"
	"github.com/rohits-web03/filebridge/internal/repositories"
	"github.com/rohits-web03/filebridge/internal/services"
	"go.uber.org/zap"
)

// @title FileBridge API
// @version 1.0
// @description Stores files in S3-compatible object storage and keeps their metadata in PostgreSQL.
// @BasePath /
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := observability.InitLogger(cfg.IsDevelopment())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := repositories.ConnectDatabase(cfg.DBURL, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	store, err := repositories.NewObjectStore(ctx, cfg.S3)
	if err != nil {
		return err
	}
	logger.Info("object storage configured",
		zap.String("bucket", store.Bucket()),
		zap.String("endpoint", cfg.S3.Endpoint),
	)

	files := repositories.NewFileRepository(db, cfg.DBTimeout)
	cleanup := repositories.NewCleanupRepository(db, cfg.DBTimeout)

	coordinator := services.NewCoordinator(store, files, cleanup, services.Options{
		PresignTTL:        cfg.PresignTTL,
		PresignWorkers:    cfg.PresignWorkers,
		AllowedExtensions: cfg.AllowedExtensions,
	}, logger)

	reaper := services.NewReaper(cleanup, store, services.ReaperOptions{
		Interval:    cfg.Cleanup.Interval,
		BatchSize:   cfg.Cleanup.BatchSize,
		MaxAttempts: cfg.Cleanup.MaxAttempts,
	}, logger)
	reaper.Start(ctx)
	defer reaper.Stop()

	router := api.SetupRouter(
		handlers.NewFileHandler(coordinator, cfg.MaxUploadSize, logger),
		handlers.NewHealthHandler(map[string]handlers.Pinger{
			"database": files,
			"storage":  store,
		}, 3*time.Second, logger),
		cfg.CorsConfig,
		logger,
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
		// Uploads stream the whole body before responding, so reads and
		// writes get far more room than the header timeout.
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting FileBridge server", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on port %s: %w", cfg.Port, err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
