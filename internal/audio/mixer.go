// Package audio resolves the job's audio policy into the concrete
// treatment applied to the clip's span during composition. The mixer runs
// before any command is built so the chosen ffmpeg invocation never
// requests a stream that does not exist.
package audio

import (
	"fmt"

	"github.com/beast-69-bot/azprotectionbot/internal/protect"
)

// Treatment is the resolved handling for the clip's audio span.
type Treatment int

const (
	// TreatmentKeep retains the clip's own audio track.
	TreatmentKeep Treatment = iota
	// TreatmentSilence replaces the clip's span with generated silence.
	TreatmentSilence
	// TreatmentMix blends the clip's audio with the original audio
	// adjacent to the insertion point.
	TreatmentMix
)

// String returns a human-readable name for logging.
func (t Treatment) String() string {
	switch t {
	case TreatmentKeep:
		return "keep"
	case TreatmentSilence:
		return "silence"
	case TreatmentMix:
		return "mix"
	default:
		return fmt.Sprintf("treatment(%d)", int(t))
	}
}

// SilenceSource is the lavfi source used for generated silence. The rate
// and layout match the pipeline's audio encoding target.
const SilenceSource = "anullsrc=r=48000:cl=stereo"

// MixFilter is the filter_complex applied when blending the clip's audio
// (input 0) with the original's window audio (input 1). duration=first
// keeps the blended track exactly as long as the clip.
const MixFilter = "[0:a][1:a]amix=inputs=2:duration=first:dropout_transition=0[aout]"

// Mixer decides the clip-span audio treatment from the job's audio mode
// and the probed stream presence of both inputs.
type Mixer struct{}

// ResolveClipTreatment maps the audio mode onto a treatment. An
// unrecognized mode is a configuration error, never a silent default.
// A clip with no audio stream has nothing to mix or substitute, so mix
// and clip modes degrade to silence, same as original mode. Mix without
// original audio degrades to the clip's track alone.
func (Mixer) ResolveClipTreatment(mode protect.AudioMode, clipHasAudio, originalHasAudio bool) (Treatment, error) {
	if !mode.IsValid() {
		return 0, fmt.Errorf("%w: unknown audio mode %q", protect.ErrValidation, mode)
	}
	if !clipHasAudio {
		return TreatmentSilence, nil
	}
	switch mode {
	case protect.AudioClip:
		return TreatmentKeep, nil
	case protect.AudioOriginal:
		return TreatmentSilence, nil
	default: // protect.AudioMix
		if !originalHasAudio {
			return TreatmentKeep, nil
		}
		return TreatmentMix, nil
	}
}

// MixWindow returns the span of original audio blended under the clip in
// mix mode: a clip-length window starting at the insertion offset, pulled
// back so it never runs past the original's end. Originals shorter than
// the clip yield the whole original; amix pads the remainder.
func (Mixer) MixWindow(offsetSec, clipSec, originalSec float64) (start, duration float64) {
	start = offsetSec
	if start > originalSec-clipSec {
		start = originalSec - clipSec
	}
	if start < 0 {
		start = 0
	}
	duration = clipSec
	if duration > originalSec-start {
		duration = originalSec - start
	}
	return start, duration
}
