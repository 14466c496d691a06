package media

import (
	"fmt"

	"github.com/beast-69-bot/azprotectionbot/internal/audio"
)

// EncodeProfile is the single output encoding target for the whole
// pipeline. Every part is normalized to this profile before concatenation
// so the concat demuxer always sees compatible streams.
type EncodeProfile struct {
	// VideoCodec is the target video codec.
	VideoCodec string
	// Preset is the encoder speed/quality preset.
	Preset string
	// CRF is the constant rate factor (0-51, lower is better).
	CRF int
	// AudioCodec is the target audio codec.
	AudioCodec string
	// AudioBitrate is the target audio bitrate, e.g. "128k".
	AudioBitrate string
	// Width and Height are the normalized frame dimensions.
	Width  int
	Height int
	// FrameRate is the normalized frame rate.
	FrameRate int
}

// DefaultEncodeProfile returns the pipeline's default encoding target:
// H.264 at CRF 23 with AAC audio, 1280x720 at 30fps.
func DefaultEncodeProfile() EncodeProfile {
	return EncodeProfile{
		VideoCodec:   "libx264",
		Preset:       "medium",
		CRF:          23,
		AudioCodec:   "aac",
		AudioBitrate: "128k",
		Width:        1280,
		Height:       720,
		FrameRate:    30,
	}
}

// videoFilter scales with aspect ratio preservation, pads to the exact
// target dimensions, and locks the frame rate and pixel format.
func (p EncodeProfile) videoFilter() string {
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:black,fps=%d,format=yuv420p",
		p.Width, p.Height, p.Width, p.Height, p.FrameRate,
	)
}

// videoArgs returns the video encoder arguments.
func (p EncodeProfile) videoArgs() []string {
	return []string{
		"-c:v", p.VideoCodec,
		"-preset", p.Preset,
		"-crf", fmt.Sprintf("%d", p.CRF),
	}
}

// audioArgs returns the audio encoder arguments. Sample rate and channel
// layout are pinned so all normalized parts share one audio profile.
func (p EncodeProfile) audioArgs() []string {
	return []string{
		"-c:a", p.AudioCodec,
		"-b:a", p.AudioBitrate,
		"-ar", "48000",
		"-ac", "2",
	}
}

// ProbeArgs builds the ffprobe invocation for duration and stream layout.
func ProbeArgs(path string) []string {
	return []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}
}

// NormalizeArgs builds the ffmpeg invocation that re-encodes one part to
// the target profile. The treatment selects the part's audio: its own
// track, generated silence, or a blend with the supplied window file.
func NormalizeArgs(src, dst string, p EncodeProfile, treatment audio.Treatment, mixWindowPath string) []string {
	args := []string{"-y", "-i", src}

	switch treatment {
	case audio.TreatmentSilence:
		args = append(args,
			"-f", "lavfi", "-i", audio.SilenceSource,
			"-map", "0:v", "-map", "1:a",
			"-vf", p.videoFilter(),
			"-shortest",
		)
	case audio.TreatmentMix:
		// Video and audio graphs live in one filter_complex so the maps
		// reference filter outputs consistently.
		filter := fmt.Sprintf("[0:v]%s[vout];%s", p.videoFilter(), audio.MixFilter)
		args = append(args,
			"-i", mixWindowPath,
			"-filter_complex", filter,
			"-map", "[vout]", "-map", "[aout]",
		)
	default: // TreatmentKeep
		args = append(args,
			"-vf", p.videoFilter(),
		)
	}

	args = append(args, p.videoArgs()...)
	args = append(args, p.audioArgs()...)
	return append(args, dst)
}

// TrimArgs builds the ffmpeg invocation that cuts one segment out of the
// original while normalizing it to the target profile. The cut point is
// not a keyframe boundary; re-encoding across it keeps the result clean.
// withSilence substitutes generated silence when the original carries no
// audio track.
func TrimArgs(src, dst string, startSec, durationSec float64, p EncodeProfile, withSilence bool) []string {
	args := []string{"-y"}
	if startSec > 0 {
		args = append(args, "-ss", fmt.Sprintf("%.3f", startSec))
	}
	args = append(args, "-i", src, "-t", fmt.Sprintf("%.3f", durationSec))

	if withSilence {
		args = append(args,
			"-f", "lavfi", "-i", audio.SilenceSource,
			"-map", "0:v", "-map", "1:a",
			"-shortest",
		)
	}

	args = append(args, "-vf", p.videoFilter())
	args = append(args, p.videoArgs()...)
	args = append(args, p.audioArgs()...)
	return append(args, dst)
}

// AudioWindowArgs builds the ffmpeg invocation that extracts the span of
// original audio blended under the clip in mix mode.
func AudioWindowArgs(src, dst string, startSec, durationSec float64, p EncodeProfile) []string {
	args := []string{"-y"}
	if startSec > 0 {
		args = append(args, "-ss", fmt.Sprintf("%.3f", startSec))
	}
	args = append(args, "-i", src, "-t", fmt.Sprintf("%.3f", durationSec), "-vn")
	args = append(args, p.audioArgs()...)
	return append(args, dst)
}

// ConcatCopyArgs builds the concat demuxer invocation with stream copy.
// Safe once all parts are normalized to one profile.
func ConcatCopyArgs(listFile, output string) []string {
	return []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		output,
	}
}

// ConcatReencodeArgs builds the concat demuxer invocation with a full
// re-encode, the fallback when stream copy fails.
func ConcatReencodeArgs(listFile, output string, p EncodeProfile) []string {
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
	}
	args = append(args, p.videoArgs()...)
	args = append(args, p.audioArgs()...)
	return append(args, output)
}

// ThumbnailArgs builds the single-frame extraction invocation.
func ThumbnailArgs(src, dst string, offsetSec float64) []string {
	return []string{
		"-y",
		"-ss", fmt.Sprintf("%.3f", offsetSec),
		"-i", src,
		"-vframes", "1",
		"-q:v", "2",
		dst,
	}
}
