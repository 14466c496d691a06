// Package main provides the entry point for the protection service.
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

	"github.com/beast-69-bot/azprotectionbot/internal/config"
	"github.com/beast-69-bot/azprotectionbot/internal/job"
	"github.com/beast-69-bot/azprotectionbot/internal/media"
	"github.com/beast-69-bot/azprotectionbot/internal/server"
	"github.com/beast-69-bot/azprotectionbot/internal/storage"
	"github.com/beast-69-bot/azprotectionbot/internal/workspace"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Create structured logger
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting azprotection service",
		slog.Int("port", cfg.Port),
		slog.String("log_format", cfg.LogFormat),
		slog.String("log_level", cfg.LogLevel),
		slog.String("temp_dir", cfg.TempDir),
		slog.String("output_dir", cfg.OutputDir),
		slog.Int("engine_timeout_sec", cfg.EngineTimeoutSec),
		slog.Bool("s3_enabled", cfg.S3Enabled()),
	)

	// Initialize storage
	var store storage.Storage
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Storage(cfg.OutputDir, s3Cfg)
		if err != nil {
			return fmt.Errorf("create S3 storage: %w", err)
		}
		store = s3Store
		logger.Info("S3 storage configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
	} else {
		localStore, err := storage.NewLocalStorage(cfg.OutputDir)
		if err != nil {
			return fmt.Errorf("create local storage: %w", err)
		}
		store = localStore
		logger.Info("local storage configured",
			slog.String("output_dir", cfg.OutputDir),
		)
	}

	// Initialize the workspace manager and media engine
	workspaces, err := workspace.NewManager(cfg.TempDir)
	if err != nil {
		return fmt.Errorf("create workspace manager: %w", err)
	}

	engine := media.NewEngine(cfg.FFmpegPath, cfg.FFprobePath,
		media.WithTimeout(cfg.EngineTimeout()),
	)
	prober := media.NewProber(engine)

	profile := media.DefaultEncodeProfile()
	profile.Preset = cfg.VideoPreset
	profile.CRF = cfg.VideoCRF
	profile.AudioBitrate = cfg.AudioBitrate
	profile.Width = cfg.TargetWidth
	profile.Height = cfg.TargetHeight
	profile.FrameRate = cfg.TargetFPS

	composer := media.NewComposer(engine, profile, logger)
	thumbnailer := media.NewThumbnailer(engine, prober, 0)

	// Initialize job repository
	repo := job.NewMemoryRepository()

	// Initialize ProtectVideoService
	svc := job.NewProtectVideoService(
		repo,
		prober,
		composer,
		thumbnailer,
		workspaces,
		store,
		logger,
		job.WithClipBounds(job.ClipBounds{MinSec: cfg.ClipMinSec, MaxSec: cfg.ClipMaxSec}),
	)

	// Initialize HTTP handlers and router
	handlers := server.NewHandlers(svc, logger)
	router := server.NewRouter(handlers, logger, server.DefaultConfig())

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Allow for long video processing
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening",
			slog.String("addr", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server failed: %w", err)
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-shutdownCh:
		logger.Info("received shutdown signal",
			slog.String("signal", sig.String()),
		)
	case err := <-errCh:
		return err
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
