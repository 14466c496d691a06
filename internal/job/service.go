package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/beast-69-bot/azprotectionbot/internal/media"
	"github.com/beast-69-bot/azprotectionbot/internal/protect"
	"github.com/beast-69-bot/azprotectionbot/internal/storage"
	"github.com/beast-69-bot/azprotectionbot/internal/workspace"
)

// Prober measures and validates one media input.
type Prober interface {
	Probe(ctx context.Context, path string) (media.Descriptor, error)
}

// Composer merges the clip with the original inside the workspace and
// returns the output path.
type Composer interface {
	Compose(ctx context.Context, ws *workspace.Handle, original, clip media.Descriptor, plan protect.Plan, mode protect.AudioMode) (string, error)
}

// Thumbnailer captures a single frame of the composed output.
type Thumbnailer interface {
	Extract(ctx context.Context, ws *workspace.Handle, videoPath string) (string, error)
}

// ProtectVideoInput contains the input parameters for one protection job.
type ProtectVideoInput struct {
	// OriginalPath is the original video handed in by the caller.
	OriginalPath string
	// ClipPath is the protection clip.
	ClipPath string
	// Settings is the position and audio policy for this job.
	Settings protect.Settings
	// PushToS3 indicates whether to upload the output to S3.
	PushToS3 bool
}

// ProtectVideoOutput contains the result of one protection job.
type ProtectVideoOutput struct {
	// JobID is the unique identifier for the job.
	JobID string
	// Status is the final job status.
	Status Status
	// OutputPath is the published output video path.
	OutputPath string
	// ThumbnailPath is the published thumbnail path; empty when
	// extraction failed (non-fatal).
	ThumbnailPath string
	// VideoURL is the S3 URL of the output if pushed.
	VideoURL string
	// Error contains any error message if processing failed.
	Error string
}

// ClipBounds is the inclusive duration range a protection clip must satisfy.
type ClipBounds struct {
	MinSec float64
	MaxSec float64
}

// DefaultClipBounds returns the standard 2-10 second clip bound.
func DefaultClipBounds() ClipBounds {
	return ClipBounds{MinSec: 2, MaxSec: 10}
}

// ProtectVideoService orchestrates the transformation pipeline: probe the
// inputs, plan the insertion, compose, extract a thumbnail, and publish
// the artifacts. One job is processed to completion before the next; the
// service exposes no internal concurrency and relies on its caller to
// serialize submissions.
type ProtectVideoService struct {
	repo       Repository
	prober     Prober
	composer   Composer
	thumbnail  Thumbnailer
	workspaces *workspace.Manager
	store      storage.Storage
	logger     *slog.Logger
	clipBounds ClipBounds
}

// ServiceOption configures a ProtectVideoService.
type ServiceOption func(*ProtectVideoService)

// WithClipBounds overrides the clip duration bound enforced before any
// engine call.
func WithClipBounds(b ClipBounds) ServiceOption {
	return func(s *ProtectVideoService) {
		if b.MinSec > 0 && b.MaxSec >= b.MinSec {
			s.clipBounds = b
		}
	}
}

// NewProtectVideoService creates a new ProtectVideoService.
func NewProtectVideoService(
	repo Repository,
	prober Prober,
	composer Composer,
	thumbnail Thumbnailer,
	workspaces *workspace.Manager,
	store storage.Storage,
	logger *slog.Logger,
	opts ...ServiceOption,
) *ProtectVideoService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ProtectVideoService{
		repo:       repo,
		prober:     prober,
		composer:   composer,
		thumbnail:  thumbnail,
		workspaces: workspaces,
		store:      store,
		logger:     logger,
		clipBounds: DefaultClipBounds(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateJob validates the settings, creates a job, and persists it in
// QUEUED state ready for processing.
func (s *ProtectVideoService) CreateJob(ctx context.Context, input ProtectVideoInput) (*Job, error) {
	if err := input.Settings.Validate(); err != nil {
		return nil, err
	}

	j := New(input.OriginalPath, input.ClipPath, input.Settings)
	j.PushToS3 = input.PushToS3

	s.logger.Info("creating protection job",
		slog.String("job_id", j.ID),
		slog.String("original", input.OriginalPath),
		slog.String("clip", input.ClipPath),
		slog.String("position", string(input.Settings.Position)),
		slog.String("audio_mode", string(input.Settings.AudioMode)),
	)

	if err := s.repo.Save(ctx, j); err != nil {
		s.logger.Error("failed to save job",
			slog.String("job_id", j.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	return j, nil
}

// GetJob retrieves a job by ID.
func (s *ProtectVideoService) GetJob(ctx context.Context, id string) (*Job, error) {
	return s.repo.FindByID(ctx, id)
}

// Process creates a job and runs it to completion.
func (s *ProtectVideoService) Process(ctx context.Context, input ProtectVideoInput) (*ProtectVideoOutput, error) {
	j, err := s.CreateJob(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.ProcessExistingJob(ctx, j.ID)
}

// ProcessExistingJob runs a previously created job to completion. The
// returned output reflects the job's terminal state; pipeline failures
// are recorded on the job rather than returned as errors.
func (s *ProtectVideoService) ProcessExistingJob(ctx context.Context, jobID string) (*ProtectVideoOutput, error) {
	j, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if err := j.Start(); err != nil {
		return nil, fmt.Errorf("start job %s: %w", jobID, err)
	}
	_ = s.repo.Save(ctx, j)

	outputPath, thumbPath, videoURL, runErr := s.runPipeline(ctx, j)
	if runErr != nil {
		// A failure after local publication keeps the published paths
		// on the job so they are not orphaned on disk.
		if outputPath != "" {
			j.SetResult(outputPath, thumbPath, videoURL)
		}
		s.failJob(ctx, j, runErr)
	} else {
		j.SetResult(outputPath, thumbPath, videoURL)
		if err := j.Complete(); err != nil {
			return nil, err
		}
		_ = s.repo.Save(ctx, j)
	}

	final := j.Clone()
	return &ProtectVideoOutput{
		JobID:         final.ID,
		Status:        final.Status,
		OutputPath:    final.OutputPath,
		ThumbnailPath: final.ThumbnailPath,
		VideoURL:      final.VideoURL,
		Error:         final.Error,
	}, nil
}

// runPipeline executes probe -> plan -> compose -> extract -> publish
// strictly in order inside a scoped workspace. The workspace is released
// on every path out; the original input files are never modified.
func (s *ProtectVideoService) runPipeline(ctx context.Context, j *Job) (outputPath, thumbPath, videoURL string, err error) {
	ws, err := s.workspaces.Open(j.ID)
	if err != nil {
		return "", "", "", err
	}
	defer func() {
		if relErr := ws.Release(); relErr != nil {
			// Never overturns an otherwise successful result.
			s.logger.Warn("workspace release failed",
				slog.String("job_id", j.ID),
				slog.String("error", relErr.Error()),
			)
		}
	}()

	original, err := s.prober.Probe(ctx, j.OriginalPath)
	if err != nil {
		return "", "", "", fmt.Errorf("original video: %w", err)
	}

	clip, err := s.prober.Probe(ctx, j.ClipPath)
	if err != nil {
		return "", "", "", fmt.Errorf("protection clip: %w", err)
	}
	if clip.DurationSec < s.clipBounds.MinSec || clip.DurationSec > s.clipBounds.MaxSec {
		return "", "", "", fmt.Errorf("%w: clip duration %.1fs outside %.1f-%.1fs",
			protect.ErrValidation, clip.DurationSec, s.clipBounds.MinSec, s.clipBounds.MaxSec)
	}

	plan, err := protect.PlanInsertion(j.Settings.Position, original.DurationSec)
	if err != nil {
		return "", "", "", err
	}

	s.logger.Info("insertion planned",
		slog.String("job_id", j.ID),
		slog.Float64("original_sec", original.DurationSec),
		slog.Float64("clip_sec", clip.DurationSec),
		slog.Float64("offset_sec", plan.OffsetSec),
		slog.String("strategy", string(plan.Strategy())),
	)

	composed, err := s.composer.Compose(ctx, ws, original, clip, plan, j.Settings.AudioMode)
	if err != nil {
		return "", "", "", err
	}

	s.verifyOutput(ctx, j, composed, original.DurationSec+clip.DurationSec)

	// Thumbnail failure is reported but never fails a composed job.
	thumb, thumbErr := s.thumbnail.Extract(ctx, ws, composed)
	if thumbErr != nil {
		s.logger.Warn("thumbnail extraction failed",
			slog.String("job_id", j.ID),
			slog.String("error", thumbErr.Error()),
		)
	}

	outputPath, err = s.store.Publish(ctx, j.ID+filepath.Ext(composed), composed)
	if err != nil {
		return "", "", "", fmt.Errorf("publish output: %w", err)
	}

	if thumb != "" {
		published, pubErr := s.store.Publish(ctx, j.ID+filepath.Ext(thumb), thumb)
		if pubErr != nil {
			s.logger.Warn("thumbnail publish failed",
				slog.String("job_id", j.ID),
				slog.String("error", pubErr.Error()),
			)
		} else {
			thumbPath = published
		}
	}

	if j.PushToS3 {
		videoURL, err = s.uploadOutput(ctx, j.ID, outputPath)
		if err != nil {
			// The output and thumbnail are already published locally.
			// They stay recorded on the job even though it fails.
			return outputPath, thumbPath, "", err
		}
	}

	return outputPath, thumbPath, videoURL, nil
}

// verifyOutput re-probes the composed output and logs the actual against
// the expected duration. A failed verification probe is only logged; the
// composer has already confirmed the file exists.
func (s *ProtectVideoService) verifyOutput(ctx context.Context, j *Job, path string, expectedSec float64) {
	desc, err := s.prober.Probe(ctx, path)
	if err != nil {
		s.logger.Warn("output verification probe failed",
			slog.String("job_id", j.ID),
			slog.String("error", err.Error()),
		)
		return
	}
	s.logger.Info("output composed",
		slog.String("job_id", j.ID),
		slog.Float64("duration_sec", desc.DurationSec),
		slog.Float64("expected_sec", expectedSec),
		slog.Float64("drift_sec", math.Abs(desc.DurationSec-expectedSec)),
	)
}

// uploadOutput pushes the published output to S3.
func (s *ProtectVideoService) uploadOutput(ctx context.Context, key, path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 - path was produced by this pipeline
	if err != nil {
		return "", fmt.Errorf("open output for upload: %w", err)
	}
	defer func() { _ = f.Close() }()

	url, err := s.store.UploadToS3(ctx, key+filepath.Ext(path), f)
	if err != nil {
		return "", fmt.Errorf("upload output: %w", err)
	}
	return url, nil
}

// failJob records a pipeline failure on the job, mapping timeouts to
// their own terminal state.
func (s *ProtectVideoService) failJob(ctx context.Context, j *Job, runErr error) {
	s.logger.Error("job failed",
		slog.String("job_id", j.ID),
		slog.String("error", runErr.Error()),
	)
	if errors.Is(runErr, protect.ErrTimeout) {
		_ = j.Timeout(runErr.Error())
	} else {
		_ = j.Fail(runErr.Error())
	}
	_ = s.repo.Save(ctx, j)
}
