// Package protect defines the domain values for the video protection
// pipeline: insertion position, audio policy, per-job settings, and the
// insertion planner that maps a symbolic position to a concrete offset.
package protect

import "fmt"

// Position is the symbolic insertion point for the protection clip.
type Position string

const (
	// PositionStart inserts the clip before the original video.
	PositionStart Position = "start"
	// PositionMiddle inserts the clip at the midpoint of the original.
	PositionMiddle Position = "middle"
	// PositionEnd appends the clip after the original video.
	PositionEnd Position = "end"
	// PositionRandom inserts the clip at a random interior point.
	PositionRandom Position = "random"
)

// IsValid returns true if the position is one of the recognized values.
func (p Position) IsValid() bool {
	switch p {
	case PositionStart, PositionMiddle, PositionEnd, PositionRandom:
		return true
	}
	return false
}

// AudioMode is the policy governing how the clip's and the original's audio
// tracks combine in the composed output.
type AudioMode string

const (
	// AudioMix blends the clip's audio with the original audio adjacent to
	// the insertion point.
	AudioMix AudioMode = "mix"
	// AudioClip uses the clip's own audio exclusively for the clip's span.
	AudioClip AudioMode = "clip"
	// AudioOriginal discards the clip's audio entirely; the clip's span is
	// silent since the original has no audio coverage there.
	AudioOriginal AudioMode = "original"
)

// IsValid returns true if the audio mode is one of the recognized values.
func (m AudioMode) IsValid() bool {
	switch m {
	case AudioMix, AudioClip, AudioOriginal:
		return true
	}
	return false
}

// Settings is the immutable per-job protection configuration. It is owned
// by the caller and passed in at job creation; the core never persists it.
type Settings struct {
	// Position is where the clip is inserted.
	Position Position
	// AudioMode is how the audio tracks are reconciled.
	AudioMode AudioMode
}

// Validate checks that both enum fields carry recognized values.
// An unrecognized value is a configuration error, never a silent default.
func (s Settings) Validate() error {
	if !s.Position.IsValid() {
		return fmt.Errorf("%w: unknown position %q", ErrValidation, s.Position)
	}
	if !s.AudioMode.IsValid() {
		return fmt.Errorf("%w: unknown audio mode %q", ErrValidation, s.AudioMode)
	}
	return nil
}

// DefaultSettings returns the settings used when the caller expresses no
// preference: clip at the start, audio tracks mixed.
func DefaultSettings() Settings {
	return Settings{
		Position:  PositionStart,
		AudioMode: AudioMix,
	}
}
