package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/beast-69-bot/azprotectionbot/internal/audio"
	"github.com/beast-69-bot/azprotectionbot/internal/protect"
	"github.com/beast-69-bot/azprotectionbot/internal/workspace"
)

// minSegmentSec is the duration below which a trim segment is omitted
// from the concat list rather than passed through.
const minSegmentSec = 0.1

// Composer merges the protection clip with the original video using one
// of two strategies: plain concatenation for boundary offsets, or
// split-insert-rejoin for interior offsets. All parts are normalized to
// one encoding profile before the final concat.
type Composer struct {
	engine  *Engine
	mixer   audio.Mixer
	profile EncodeProfile
	logger  *slog.Logger
}

// NewComposer creates a Composer.
func NewComposer(engine *Engine, profile EncodeProfile, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{
		engine:  engine,
		profile: profile,
		logger:  logger,
	}
}

// Compose produces the merged output inside the workspace and returns its
// path. Any engine failure or a missing output after a clean exit is a
// composition error carrying the engine's diagnostic output.
func (c *Composer) Compose(ctx context.Context, ws *workspace.Handle, original, clip Descriptor, plan protect.Plan, mode protect.AudioMode) (string, error) {
	treatment, err := c.mixer.ResolveClipTreatment(mode, clip.HasAudio, original.HasAudio)
	if err != nil {
		return "", err
	}

	c.logger.Debug("composing",
		slog.String("strategy", string(plan.Strategy())),
		slog.Float64("offset_sec", plan.OffsetSec),
		slog.String("clip_audio", treatment.String()),
	)

	clipPart, err := c.normalizeClip(ctx, ws, original, clip, plan, treatment)
	if err != nil {
		return "", err
	}

	var parts []string
	switch plan.Strategy() {
	case protect.StrategyConcat:
		originalPart := ws.Path("part_original.mp4")
		args := NormalizeArgs(original.Path, originalPart, c.profile, originalTreatment(original), "")
		if err := c.engine.RunFFmpeg(ctx, args); err != nil {
			return "", fmt.Errorf("%w: normalize original: %w", protect.ErrComposition, err)
		}
		if plan.ClipFirst() {
			parts = []string{clipPart, originalPart}
		} else {
			parts = []string{originalPart, clipPart}
		}
	case protect.StrategySplit:
		parts, err = c.splitParts(ctx, ws, original, clipPart, plan)
		if err != nil {
			return "", err
		}
	}

	listFile, err := writeConcatList(ws, parts)
	if err != nil {
		return "", err
	}

	output := ws.Path("output.mp4")

	// Parts share one profile, so stream copy normally succeeds; fall
	// back to a re-encode if the demuxer still objects.
	if err := c.engine.RunFFmpeg(ctx, ConcatCopyArgs(listFile, output)); err != nil {
		c.logger.Warn("concat stream copy failed, re-encoding",
			slog.String("error", err.Error()),
		)
		if err := c.engine.RunFFmpeg(ctx, ConcatReencodeArgs(listFile, output, c.profile)); err != nil {
			return "", fmt.Errorf("%w: concat: %w", protect.ErrComposition, err)
		}
	}

	info, err := os.Stat(output)
	if err != nil || info.Size() == 0 {
		return "", fmt.Errorf("%w: output file missing or empty after concat", protect.ErrComposition)
	}

	return output, nil
}

// normalizeClip re-encodes the clip to the target profile with the
// resolved audio treatment, extracting the original's audio window first
// when mixing.
func (c *Composer) normalizeClip(ctx context.Context, ws *workspace.Handle, original, clip Descriptor, plan protect.Plan, treatment audio.Treatment) (string, error) {
	var windowPath string
	if treatment == audio.TreatmentMix {
		start, dur := c.mixer.MixWindow(plan.OffsetSec, clip.DurationSec, original.DurationSec)
		if dur < minSegmentSec {
			treatment = audio.TreatmentKeep
		} else {
			windowPath = ws.Path("mix_window.m4a")
			args := AudioWindowArgs(original.Path, windowPath, start, dur, c.profile)
			if err := c.engine.RunFFmpeg(ctx, args); err != nil {
				return "", fmt.Errorf("%w: extract audio window: %w", protect.ErrComposition, err)
			}
		}
	}

	clipPart := ws.Path("part_clip.mp4")
	args := NormalizeArgs(clip.Path, clipPart, c.profile, treatment, windowPath)
	if err := c.engine.RunFFmpeg(ctx, args); err != nil {
		return "", fmt.Errorf("%w: normalize clip: %w", protect.ErrComposition, err)
	}
	return clipPart, nil
}

// splitParts cuts the original at the planned offset and returns the
// ordered part list. Near-zero segments are skipped, not failed.
func (c *Composer) splitParts(ctx context.Context, ws *workspace.Handle, original Descriptor, clipPart string, plan protect.Plan) ([]string, error) {
	headDur := plan.OffsetSec
	tailDur := original.DurationSec - plan.OffsetSec
	silence := !original.HasAudio

	parts := make([]string, 0, 3)

	if headDur >= minSegmentSec {
		head := ws.Path("part_head.mp4")
		args := TrimArgs(original.Path, head, 0, headDur, c.profile, silence)
		if err := c.engine.RunFFmpeg(ctx, args); err != nil {
			return nil, fmt.Errorf("%w: trim head segment: %w", protect.ErrComposition, err)
		}
		parts = append(parts, head)
	}

	parts = append(parts, clipPart)

	if tailDur >= minSegmentSec {
		tail := ws.Path("part_tail.mp4")
		args := TrimArgs(original.Path, tail, plan.OffsetSec, tailDur, c.profile, silence)
		if err := c.engine.RunFFmpeg(ctx, args); err != nil {
			return nil, fmt.Errorf("%w: trim tail segment: %w", protect.ErrComposition, err)
		}
		parts = append(parts, tail)
	}

	return parts, nil
}

// originalTreatment keeps the original's own audio, substituting silence
// only when it has no audio track, so every part carries an audio stream.
func originalTreatment(original Descriptor) audio.Treatment {
	if original.HasAudio {
		return audio.TreatmentKeep
	}
	return audio.TreatmentSilence
}

// writeConcatList writes the concat demuxer manifest into the workspace:
// one absolute, quote-escaped path per line.
func writeConcatList(ws *workspace.Handle, parts []string) (string, error) {
	listFile := ws.Path("concat_list.txt")

	var b strings.Builder
	for _, part := range parts {
		absPath, err := filepath.Abs(part)
		if err != nil {
			return "", fmt.Errorf("%w: resolve part path %s: %w", protect.ErrComposition, part, err)
		}
		escaped := strings.ReplaceAll(absPath, "'", "'\\''")
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}

	if err := os.WriteFile(listFile, []byte(b.String()), 0600); err != nil {
		return "", fmt.Errorf("%w: write concat list: %w", protect.ErrComposition, err)
	}
	return listFile, nil
}
