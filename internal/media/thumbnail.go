package media

import (
	"context"
	"fmt"
	"os"

	"github.com/beast-69-bot/azprotectionbot/internal/protect"
	"github.com/beast-69-bot/azprotectionbot/internal/workspace"
)

// defaultThumbnailOffsetSec is where the frame is captured. Outputs
// shorter than this use their midpoint instead.
const defaultThumbnailOffsetSec = 1.0

// Thumbnailer captures a single frame from a finished output.
type Thumbnailer struct {
	engine    *Engine
	prober    *Prober
	offsetSec float64
}

// NewThumbnailer creates a Thumbnailer. A non-positive offset falls back
// to the default.
func NewThumbnailer(engine *Engine, prober *Prober, offsetSec float64) *Thumbnailer {
	if offsetSec <= 0 {
		offsetSec = defaultThumbnailOffsetSec
	}
	return &Thumbnailer{engine: engine, prober: prober, offsetSec: offsetSec}
}

// Extract captures one frame from videoPath into the workspace and
// returns the thumbnail path. Failure here is non-fatal to the job; the
// caller decides whether a missing thumbnail blocks delivery.
func (t *Thumbnailer) Extract(ctx context.Context, ws *workspace.Handle, videoPath string) (string, error) {
	offset := t.offsetSec
	if desc, err := t.prober.Probe(ctx, videoPath); err == nil && desc.DurationSec < offset {
		offset = desc.DurationSec / 2
	}

	dst := ws.Path("thumbnail.jpg")
	if err := t.engine.RunFFmpeg(ctx, ThumbnailArgs(videoPath, dst, offset)); err != nil {
		return "", fmt.Errorf("%w: %w", protect.ErrThumbnail, err)
	}

	if info, err := os.Stat(dst); err != nil || info.Size() == 0 {
		return "", fmt.Errorf("%w: thumbnail file missing or empty", protect.ErrThumbnail)
	}

	return dst, nil
}
