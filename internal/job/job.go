// Package job provides the Job aggregate for video protection jobs.
// It includes the Job entity with state machine transitions, repository
// interfaces for persistence, and the ProtectVideoService that runs the
// transformation pipeline.
package job

import (
	"errors"
	"sync"
	"time"

	"github.com/beast-69-bot/azprotectionbot/internal/job/id"
	"github.com/beast-69-bot/azprotectionbot/internal/protect"
)

// Status represents the current state of a Job.
type Status string

const (
	// StatusQueued indicates the job is waiting to be processed.
	StatusQueued Status = "QUEUED"
	// StatusRunning indicates the job is being processed.
	StatusRunning Status = "RUNNING"
	// StatusCompleted indicates the job finished successfully.
	StatusCompleted Status = "COMPLETED"
	// StatusFailed indicates the job encountered an error during execution.
	StatusFailed Status = "FAILED"
	// StatusTimedOut indicates an engine invocation exceeded its deadline.
	StatusTimedOut Status = "TIMED_OUT"
)

// ErrInvalidTransition is returned when an invalid state transition is attempted.
var ErrInvalidTransition = errors.New("invalid state transition")

// validTransitions defines which state transitions are allowed.
var validTransitions = map[Status][]Status{
	StatusQueued:    {StatusRunning, StatusFailed},
	StatusRunning:   {StatusCompleted, StatusFailed, StatusTimedOut},
	StatusCompleted: {},
	StatusFailed:    {},
	StatusTimedOut:  {},
}

// canTransition checks if a transition from one status to another is valid.
func canTransition(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Job represents one video protection job aggregate. It contains all
// state related to inserting the protection clip into one original video.
type Job struct {
	mu sync.RWMutex

	// ID is the unique identifier for this job.
	ID string
	// Status is the current job state.
	Status Status
	// Error contains any error message if the job failed.
	Error string
	// OriginalPath is the path to the original video handed in by the caller.
	OriginalPath string
	// ClipPath is the path to the protection clip.
	ClipPath string
	// Settings is the immutable protection configuration for this job.
	Settings protect.Settings
	// PushToS3 indicates whether to upload the result to S3.
	PushToS3 bool
	// OutputPath is the published path of the composed video.
	OutputPath string
	// ThumbnailPath is the published thumbnail path; empty when extraction failed.
	ThumbnailPath string
	// VideoURL is the S3 URL of the output if PushToS3 was true.
	VideoURL string
	// CreatedAt is when the job was created.
	CreatedAt time.Time
	// UpdatedAt is when the job was last updated.
	UpdatedAt time.Time
	// StartedAt is when processing started.
	StartedAt time.Time
	// CompletedAt is when processing finished.
	CompletedAt time.Time
}

// New creates a new Job with a generated ID and initial QUEUED status.
func New(originalPath, clipPath string, settings protect.Settings) *Job {
	now := time.Now()
	return &Job{
		ID:           id.Generate(),
		Status:       StatusQueued,
		OriginalPath: originalPath,
		ClipPath:     clipPath,
		Settings:     settings,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// TransitionTo attempts to change the job status to the specified state.
// Returns ErrInvalidTransition if the transition is not allowed.
func (j *Job) TransitionTo(status Status) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !canTransition(j.Status, status) {
		return ErrInvalidTransition
	}

	j.Status = status
	j.UpdatedAt = time.Now()

	switch status {
	case StatusRunning:
		j.StartedAt = j.UpdatedAt
	case StatusCompleted, StatusFailed, StatusTimedOut:
		j.CompletedAt = j.UpdatedAt
	}

	return nil
}

// Start transitions the job from QUEUED to RUNNING.
func (j *Job) Start() error {
	return j.TransitionTo(StatusRunning)
}

// Complete transitions the job to COMPLETED state.
func (j *Job) Complete() error {
	return j.TransitionTo(StatusCompleted)
}

// Fail transitions the job to FAILED state with an error message.
func (j *Job) Fail(errMsg string) error {
	j.mu.Lock()
	j.Error = errMsg
	j.mu.Unlock()
	return j.TransitionTo(StatusFailed)
}

// Timeout transitions the job to TIMED_OUT state with an error message.
func (j *Job) Timeout(errMsg string) error {
	j.mu.Lock()
	j.Error = errMsg
	j.mu.Unlock()
	return j.TransitionTo(StatusTimedOut)
}

// GetStatus returns the current job status (thread-safe).
func (j *Job) GetStatus() Status {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status
}

// SetResult records the published artifact locations.
func (j *Job) SetResult(outputPath, thumbnailPath, videoURL string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.OutputPath = outputPath
	j.ThumbnailPath = thumbnailPath
	j.VideoURL = videoURL
	j.UpdatedAt = time.Now()
}

// IsTerminal returns true if the job is in a terminal state.
func (j *Job) IsTerminal() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status == StatusCompleted ||
		j.Status == StatusFailed ||
		j.Status == StatusTimedOut
}

// Clone creates a deep copy of the job for safe reads.
func (j *Job) Clone() *Job {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return &Job{
		ID:            j.ID,
		Status:        j.Status,
		Error:         j.Error,
		OriginalPath:  j.OriginalPath,
		ClipPath:      j.ClipPath,
		Settings:      j.Settings,
		PushToS3:      j.PushToS3,
		OutputPath:    j.OutputPath,
		ThumbnailPath: j.ThumbnailPath,
		VideoURL:      j.VideoURL,
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
		StartedAt:     j.StartedAt,
		CompletedAt:   j.CompletedAt,
	}
}
