// Package server provides the HTTP caller surface for the protection
// pipeline. It includes handlers, middleware, routes, and DTOs separated
// from domain types.
package server

// CreateJobRequest is the HTTP request body for creating a protection job.
// The enum fields are validated here; an unrecognized value is rejected,
// never silently defaulted.
type CreateJobRequest struct {
	// OriginalPath is the path to the original video on shared storage.
	OriginalPath string `json:"original_path" validate:"required"`
	// ClipPath is the path to the protection clip.
	ClipPath string `json:"clip_path" validate:"required"`
	// Position is where the clip is inserted.
	Position string `json:"position" validate:"required,oneof=start middle end random"`
	// AudioMode is how the audio tracks are reconciled.
	AudioMode string `json:"audio_mode" validate:"required,oneof=mix clip original"`
	// PushToS3 indicates whether to upload the output to S3.
	PushToS3 bool `json:"push_to_s3"`
}

// CreateJobResponse is the HTTP response after creating a job.
type CreateJobResponse struct {
	// ID is the unique identifier for the created job.
	ID string `json:"id"`
	// Status is the initial job status.
	Status string `json:"status"`
}

// JobResponse is the HTTP response for getting job details.
type JobResponse struct {
	// ID is the unique identifier for the job.
	ID string `json:"id"`
	// Status is the current job status.
	Status string `json:"status"`
	// Error contains a short diagnostic if the job failed.
	Error string `json:"error,omitempty"`
	// OutputPath is the published output video path (once published,
	// even when a later upload step failed the job).
	OutputPath string `json:"output_path,omitempty"`
	// ThumbnailPath is the published thumbnail path; absent when
	// extraction failed on an otherwise successful job.
	ThumbnailPath string `json:"thumbnail_path,omitempty"`
	// VideoURL is the S3 URL of the output (if push_to_s3=true and completed).
	VideoURL string `json:"video_url,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}
