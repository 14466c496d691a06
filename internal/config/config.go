// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrInvalidCRF is returned when VIDEO_CRF is outside the 0-51 range.
	ErrInvalidCRF = errors.New("config: VIDEO_CRF must be between 0 and 51")
	// ErrInvalidClipBounds is returned when the clip duration bounds are
	// not positive or the minimum exceeds the maximum.
	ErrInvalidClipBounds = errors.New("config: invalid clip duration bounds")
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port int `env:"PORT, default=8080" json:"port"`

	// Engine settings
	FFmpegPath       string `env:"FFMPEG_PATH" json:"ffmpeg_path,omitempty"`
	FFprobePath      string `env:"FFPROBE_PATH" json:"ffprobe_path,omitempty"`
	EngineTimeoutSec int    `env:"ENGINE_TIMEOUT_SEC, default=600" json:"engine_timeout_sec"`

	// Encoding target
	VideoPreset  string `env:"VIDEO_PRESET, default=medium" json:"video_preset"`
	VideoCRF     int    `env:"VIDEO_CRF, default=23" json:"video_crf"`
	AudioBitrate string `env:"AUDIO_BITRATE, default=128k" json:"audio_bitrate"`
	TargetWidth  int    `env:"TARGET_WIDTH, default=1280" json:"target_width"`
	TargetHeight int    `env:"TARGET_HEIGHT, default=720" json:"target_height"`
	TargetFPS    int    `env:"TARGET_FPS, default=30" json:"target_fps"`

	// Protection clip bounds
	ClipMinSec float64 `env:"CLIP_MIN_SEC, default=2" json:"clip_min_sec"`
	ClipMaxSec float64 `env:"CLIP_MAX_SEC, default=10" json:"clip_max_sec"`

	// Storage settings
	TempDir   string `env:"TEMP_DIR, default=/tmp/azprotection" json:"temp_dir"`
	OutputDir string `env:"OUTPUT_DIR, default=/tmp/azprotection-out" json:"output_dir"`

	// Optional S3 settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// EngineTimeout returns the per-invocation engine deadline.
func (c *Config) EngineTimeout() time.Duration {
	return time.Duration(c.EngineTimeoutSec) * time.Second
}

// Load reads configuration from environment variables using go-envconfig
// and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.VideoCRF < 0 || c.VideoCRF > 51 {
		return fmt.Errorf("%w: got %d", ErrInvalidCRF, c.VideoCRF)
	}
	if c.ClipMinSec <= 0 || c.ClipMaxSec <= 0 || c.ClipMinSec > c.ClipMaxSec {
		return fmt.Errorf("%w: min=%.1f max=%.1f", ErrInvalidClipBounds, c.ClipMinSec, c.ClipMaxSec)
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, TempDir: %s, OutputDir: %s, EngineTimeoutSec: %d, VideoPreset: %s, VideoCRF: %d, AudioBitrate: %s, Target: %dx%d@%d, ClipBounds: %.1f-%.1fs, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.TempDir,
		c.OutputDir,
		c.EngineTimeoutSec,
		c.VideoPreset,
		c.VideoCRF,
		c.AudioBitrate,
		c.TargetWidth,
		c.TargetHeight,
		c.TargetFPS,
		c.ClipMinSec,
		c.ClipMaxSec,
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
