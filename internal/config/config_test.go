package config

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable the loader reads so previous test runs
// or the developer's shell cannot leak into assertions.
func clearEnv() {
	vars := []string{
		"PORT",
		"FFMPEG_PATH", "FFPROBE_PATH", "ENGINE_TIMEOUT_SEC",
		"VIDEO_PRESET", "VIDEO_CRF", "AUDIO_BITRATE",
		"TARGET_WIDTH", "TARGET_HEIGHT", "TARGET_FPS",
		"CLIP_MIN_SEC", "CLIP_MAX_SEC",
		"TEMP_DIR", "OUTPUT_DIR",
		"S3_BUCKET", "S3_REGION", "S3_ENDPOINT",
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
		"LOG_FORMAT", "LOG_LEVEL",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 600, cfg.EngineTimeoutSec)
	assert.Equal(t, "medium", cfg.VideoPreset)
	assert.Equal(t, 23, cfg.VideoCRF)
	assert.Equal(t, "128k", cfg.AudioBitrate)
	assert.Equal(t, 1280, cfg.TargetWidth)
	assert.Equal(t, 720, cfg.TargetHeight)
	assert.Equal(t, 30, cfg.TargetFPS)
	assert.Equal(t, 2.0, cfg.ClipMinSec)
	assert.Equal(t, 10.0, cfg.ClipMaxSec)
	assert.Equal(t, "/tmp/azprotection", cfg.TempDir)
	assert.Equal(t, "/tmp/azprotection-out", cfg.OutputDir)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv()
	t.Setenv("PORT", "9000")
	t.Setenv("ENGINE_TIMEOUT_SEC", "120")
	t.Setenv("VIDEO_PRESET", "fast")
	t.Setenv("VIDEO_CRF", "18")
	t.Setenv("CLIP_MIN_SEC", "1.5")
	t.Setenv("CLIP_MAX_SEC", "8")
	t.Setenv("TEMP_DIR", "/var/scratch")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 120, cfg.EngineTimeoutSec)
	assert.Equal(t, "fast", cfg.VideoPreset)
	assert.Equal(t, 18, cfg.VideoCRF)
	assert.Equal(t, 1.5, cfg.ClipMinSec)
	assert.Equal(t, 8.0, cfg.ClipMaxSec)
	assert.Equal(t, "/var/scratch", cfg.TempDir)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("CRF above range", func(t *testing.T) {
		clearEnv()
		t.Setenv("VIDEO_CRF", "99")

		_, err := Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidCRF)
	})

	t.Run("CRF below range", func(t *testing.T) {
		clearEnv()
		t.Setenv("VIDEO_CRF", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidCRF)
	})

	t.Run("clip min above max", func(t *testing.T) {
		clearEnv()
		t.Setenv("CLIP_MIN_SEC", "12")
		t.Setenv("CLIP_MAX_SEC", "10")

		_, err := Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidClipBounds)
	})

	t.Run("non-positive clip bound", func(t *testing.T) {
		clearEnv()
		t.Setenv("CLIP_MIN_SEC", "0")

		_, err := Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidClipBounds)
	})
}

func TestConfig_S3Enabled(t *testing.T) {
	t.Run("disabled without bucket", func(t *testing.T) {
		cfg := &Config{S3Region: "us-east-1"}
		assert.False(t, cfg.S3Enabled())
	})

	t.Run("disabled without region", func(t *testing.T) {
		cfg := &Config{S3Bucket: "outputs"}
		assert.False(t, cfg.S3Enabled())
	})

	t.Run("enabled with bucket and region", func(t *testing.T) {
		cfg := &Config{S3Bucket: "outputs", S3Region: "us-east-1"}
		assert.True(t, cfg.S3Enabled())
	})
}

func TestConfig_EngineTimeout(t *testing.T) {
	cfg := &Config{EngineTimeoutSec: 90}
	assert.Equal(t, 90*time.Second, cfg.EngineTimeout())
}

func TestConfig_NewLogger(t *testing.T) {
	t.Run("text format", func(t *testing.T) {
		cfg := &Config{LogFormat: "text", LogLevel: "info"}
		logger := cfg.NewLogger()
		require.NotNil(t, logger)
	})

	t.Run("json format", func(t *testing.T) {
		cfg := &Config{LogFormat: "json", LogLevel: "debug"}
		logger := cfg.NewLogger()
		require.NotNil(t, logger)
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestConfig_String_MasksSecrets(t *testing.T) {
	cfg := &Config{
		Port:               8080,
		AWSAccessKeyID:     "AKIAEXAMPLE",
		AWSSecretAccessKey: "super-secret-value",
		S3Bucket:           "outputs",
	}

	s := cfg.String()
	assert.NotContains(t, s, "AKIAEXAMPLE")
	assert.NotContains(t, s, "super-secret-value")
	assert.Contains(t, s, "outputs")
}

func TestLogOutput(t *testing.T) {
	// Logger must produce parseable output at the configured level.
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(handler)

	logger.Info("test message", slog.String("key", "value"))

	out := buf.String()
	assert.True(t, strings.Contains(out, "test message"))
	assert.True(t, strings.Contains(out, `"key":"value"`))
}
