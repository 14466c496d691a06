package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/beast-69-bot/azprotectionbot/internal/protect"
)

// Descriptor holds the probed metadata of one input file. It is read-only
// after creation and only recreated by a re-probe, never mutated.
type Descriptor struct {
	// Path is the probed file.
	Path string
	// DurationSec is the container duration in seconds.
	DurationSec float64
	// HasVideo reports the presence of at least one video stream.
	HasVideo bool
	// HasAudio reports the presence of at least one audio stream.
	HasAudio bool
}

// probeOutput mirrors the ffprobe JSON fields the prober reads.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
	} `json:"streams"`
}

// Prober extracts duration and stream presence from media files.
type Prober struct {
	engine *Engine
}

// NewProber creates a Prober backed by the given engine.
func NewProber(engine *Engine) *Prober {
	return &Prober{engine: engine}
}

// Probe validates and measures a media file. Missing or zero-byte files
// fail validation; an unparsable duration or an absent video stream is a
// probe failure.
func (p *Prober) Probe(ctx context.Context, path string) (Descriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: file not found: %s", protect.ErrValidation, path)
	}
	if info.Size() == 0 {
		return Descriptor{}, fmt.Errorf("%w: file is empty: %s", protect.ErrValidation, path)
	}

	out, err := p.engine.RunFFprobe(ctx, ProbeArgs(path))
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %w", protect.ErrProbe, err)
	}

	desc, err := parseProbeOutput(path, out)
	if err != nil {
		return Descriptor{}, err
	}
	return desc, nil
}

// parseProbeOutput converts raw ffprobe JSON into a Descriptor.
func parseProbeOutput(path, raw string) (Descriptor, error) {
	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return Descriptor{}, fmt.Errorf("%w: parse ffprobe output: %w", protect.ErrProbe, err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(out.Format.Duration), 64)
	if err != nil || duration <= 0 {
		return Descriptor{}, fmt.Errorf("%w: no parsable duration for %s", protect.ErrProbe, path)
	}

	desc := Descriptor{Path: path, DurationSec: duration}
	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			desc.HasVideo = true
		case "audio":
			desc.HasAudio = true
		}
	}

	if !desc.HasVideo {
		return Descriptor{}, fmt.Errorf("%w: no video stream in %s", protect.ErrProbe, path)
	}

	return desc, nil
}
