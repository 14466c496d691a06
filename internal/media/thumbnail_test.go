package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/beast-69-bot/azprotectionbot/internal/protect"
)

func TestThumbnailer_Extract(t *testing.T) {
	skipIfNoFFmpeg(t)

	engine := NewEngine("", "")
	prober := NewProber(engine)
	ctx := context.Background()

	videoPath := filepath.Join(t.TempDir(), "video.mp4")
	createTestVideo(t, videoPath, 4.0, "blue", true)

	t.Run("default offset", func(t *testing.T) {
		ws := openTestWorkspace(t)
		tn := NewThumbnailer(engine, prober, 0)

		thumb, err := tn.Extract(ctx, ws, videoPath)
		if err != nil {
			t.Fatalf("extract failed: %v", err)
		}
		info, err := os.Stat(thumb)
		if err != nil || info.Size() == 0 {
			t.Errorf("expected non-empty thumbnail: %v", err)
		}
		if filepath.Ext(thumb) != ".jpg" {
			t.Errorf("expected .jpg thumbnail, got %s", thumb)
		}
	})

	t.Run("offset beyond duration falls back to midpoint", func(t *testing.T) {
		ws := openTestWorkspace(t)
		tn := NewThumbnailer(engine, prober, 60)

		thumb, err := tn.Extract(ctx, ws, videoPath)
		if err != nil {
			t.Fatalf("extract failed: %v", err)
		}
		if info, err := os.Stat(thumb); err != nil || info.Size() == 0 {
			t.Errorf("expected non-empty thumbnail: %v", err)
		}
	})

	t.Run("missing video fails with thumbnail error", func(t *testing.T) {
		ws := openTestWorkspace(t)
		tn := NewThumbnailer(engine, prober, 0)

		_, err := tn.Extract(ctx, ws, filepath.Join(t.TempDir(), "missing.mp4"))
		if !errors.Is(err, protect.ErrThumbnail) {
			t.Errorf("expected ErrThumbnail, got %v", err)
		}
	})
}
