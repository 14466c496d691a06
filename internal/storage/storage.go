// Package storage relocates finished job artifacts out of the workspace
// into a durable location. It defines the Storage interface (port) for
// hexagonal architecture and implementations for local disk and S3.
package storage

import (
	"context"
	"io"
)

// Storage defines the interface for publishing job artifacts.
// Implementations move files from the job workspace into a durable output
// directory and optionally upload them to S3 for external delivery.
type Storage interface {
	// Publish moves srcPath out of the workspace into durable storage
	// under the given name and returns the final path. The source file
	// no longer exists at srcPath afterwards.
	Publish(ctx context.Context, name, srcPath string) (path string, err error)

	// UploadToS3 uploads data to S3 and returns the public URL.
	// Returns ErrS3NotConfigured if S3 is not configured.
	UploadToS3(ctx context.Context, key string, data io.Reader) (url string, err error)
}
