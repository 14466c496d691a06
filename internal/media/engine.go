// Package media wraps the external ffmpeg/ffprobe engine: probing,
// trimming, concatenation, and frame extraction. All invocations are
// blocking, capture stderr, and honor a per-call wall-clock timeout.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/beast-69-bot/azprotectionbot/internal/protect"
)

// Engine runs the external media tools.
type Engine struct {
	ffmpegPath  string
	ffprobePath string
	// timeout bounds each invocation. Zero means no deadline beyond the
	// caller's context.
	timeout time.Duration
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithTimeout sets the per-invocation wall-clock timeout.
func WithTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.timeout = d
	}
}

// NewEngine creates an Engine. Empty paths default to "ffmpeg" and
// "ffprobe" resolved via PATH.
func NewEngine(ffmpegPath, ffprobePath string, opts ...EngineOption) *Engine {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	e := &Engine{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunFFmpeg executes ffmpeg with the given arguments. A non-zero exit
// returns an *EngineError carrying the captured stderr; a deadline hit
// maps to protect.ErrTimeout.
func (e *Engine) RunFFmpeg(ctx context.Context, args []string) error {
	_, err := e.run(ctx, e.ffmpegPath, args)
	return err
}

// RunFFprobe executes ffprobe and returns its stdout.
func (e *Engine) RunFFprobe(ctx context.Context, args []string) (string, error) {
	return e.run(ctx, e.ffprobePath, args)
}

func (e *Engine) run(ctx context.Context, bin string, args []string) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	// #nosec G204 - bin is set by the application, not user input
	cmd := exec.CommandContext(ctx, bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s after %s", protect.ErrTimeout, bin, e.timeout)
		}
		if ctx.Err() != nil {
			return "", fmt.Errorf("%s cancelled: %w", bin, ctx.Err())
		}
		return "", &EngineError{
			Bin:    bin,
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return stdout.String(), nil
}

// EngineError represents a failed engine invocation, including the
// captured stderr diagnostic output.
type EngineError struct {
	Bin    string
	Args   []string
	Stderr string
	Err    error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s error: %v\nargs: %v\nstderr: %s", e.Bin, e.Err, e.Args, e.Stderr)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}
