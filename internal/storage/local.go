package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrS3NotConfigured is returned when S3 operations are attempted
// without proper configuration.
var ErrS3NotConfigured = errors.New("S3 storage is not configured")

// LocalStorage implements the Storage interface using local disk. It
// publishes artifacts into a configurable output directory and does not
// support S3 operations unless wrapped with S3Storage.
type LocalStorage struct {
	outputDir string
}

// NewLocalStorage creates a new LocalStorage instance.
// The outputDir parameter specifies where published artifacts live.
// If outputDir is empty, a subdirectory of os.TempDir() is used.
// The directory is created if it doesn't exist.
func NewLocalStorage(outputDir string) (*LocalStorage, error) {
	if outputDir == "" {
		outputDir = filepath.Join(os.TempDir(), "azprotection-out")
	}

	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	return &LocalStorage{outputDir: outputDir}, nil
}

// OutputDir returns the published-artifact directory path.
func (s *LocalStorage) OutputDir() string {
	return s.outputDir
}

// Publish moves srcPath into the output directory under name. Rename is
// tried first; a cross-device move falls back to copy and remove.
func (s *LocalStorage) Publish(ctx context.Context, name, srcPath string) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	dst := filepath.Join(s.outputDir, name)

	if err := os.Rename(srcPath, dst); err == nil {
		return dst, nil
	}

	if err := copyFile(srcPath, dst); err != nil {
		return "", fmt.Errorf("publish %s: %w", name, err)
	}
	if err := os.Remove(srcPath); err != nil {
		return "", fmt.Errorf("remove source after publish: %w", err)
	}

	return dst, nil
}

// copyFile copies src to dst, creating or truncating dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 - src is provided by trusted internal code
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600) // #nosec G304
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copy contents: %w", err)
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("close destination: %w", err)
	}

	return nil
}

// UploadToS3 is not supported by LocalStorage and returns ErrS3NotConfigured.
func (s *LocalStorage) UploadToS3(_ context.Context, _ string, _ io.Reader) (string, error) {
	return "", ErrS3NotConfigured
}
