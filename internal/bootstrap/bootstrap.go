// Package bootstrap provides dependency initialization for the
// protection service.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/beast-69-bot/azprotectionbot/internal/config"
	"github.com/beast-69-bot/azprotectionbot/internal/job"
	"github.com/beast-69-bot/azprotectionbot/internal/media"
	"github.com/beast-69-bot/azprotectionbot/internal/storage"
	"github.com/beast-69-bot/azprotectionbot/internal/workspace"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	VideoService *job.ProtectVideoService
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	workspaces, err := workspace.NewManager(cfg.TempDir)
	if err != nil {
		return nil, fmt.Errorf("create workspace manager: %w", err)
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

	repo := job.NewMemoryRepository()

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

	return &Dependencies{
		VideoService: svc,
	}, nil
}

// initStorage creates the appropriate storage backend based on configuration.
func initStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
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
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 storage configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStorage(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local storage configured",
		slog.String("output_dir", cfg.OutputDir),
	)
	return localStore, nil
}
