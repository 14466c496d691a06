package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLocalStorage(t *testing.T) {
	t.Run("creates directory if not exists", func(t *testing.T) {
		outputDir := filepath.Join(t.TempDir(), "published")

		store, err := NewLocalStorage(outputDir)
		if err != nil {
			t.Fatalf("NewLocalStorage() error = %v", err)
		}

		if store.OutputDir() != outputDir {
			t.Errorf("OutputDir() = %v, want %v", store.OutputDir(), outputDir)
		}

		info, err := os.Stat(outputDir)
		if err != nil {
			t.Fatalf("directory not created: %v", err)
		}
		if !info.IsDir() {
			t.Error("expected directory, got file")
		}
	})

	t.Run("uses default directory when empty", func(t *testing.T) {
		store, err := NewLocalStorage("")
		if err != nil {
			t.Fatalf("NewLocalStorage() error = %v", err)
		}
		if !strings.HasPrefix(store.OutputDir(), os.TempDir()) {
			t.Errorf("expected default under %s, got %s", os.TempDir(), store.OutputDir())
		}
	})
}

func TestLocalStorage_Publish(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	t.Run("moves source into output directory", func(t *testing.T) {
		src := filepath.Join(t.TempDir(), "output.mp4")
		if err := os.WriteFile(src, []byte("video data"), 0600); err != nil {
			t.Fatalf("write source: %v", err)
		}

		published, err := store.Publish(ctx, "pj-123.mp4", src)
		if err != nil {
			t.Fatalf("Publish() error = %v", err)
		}

		if filepath.Dir(published) != store.OutputDir() {
			t.Errorf("expected publication inside %s, got %s", store.OutputDir(), published)
		}

		content, err := os.ReadFile(published)
		if err != nil {
			t.Fatalf("read published file: %v", err)
		}
		if string(content) != "video data" {
			t.Errorf("unexpected content %q", content)
		}

		// Source must be gone after publication.
		if _, err := os.Stat(src); !os.IsNotExist(err) {
			t.Error("expected source to be removed")
		}
	})

	t.Run("missing source fails", func(t *testing.T) {
		_, err := store.Publish(ctx, "pj-456.mp4", filepath.Join(t.TempDir(), "missing.mp4"))
		if err == nil {
			t.Fatal("expected error for missing source")
		}
	})

	t.Run("cancelled context fails", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := store.Publish(cancelled, "pj-789.mp4", "anything")
		if err == nil {
			t.Fatal("expected error for cancelled context")
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("republishing overwrites", func(t *testing.T) {
		first := filepath.Join(t.TempDir(), "v1.mp4")
		second := filepath.Join(t.TempDir(), "v2.mp4")
		_ = os.WriteFile(first, []byte("one"), 0600)
		_ = os.WriteFile(second, []byte("two"), 0600)

		if _, err := store.Publish(ctx, "pj-same.mp4", first); err != nil {
			t.Fatalf("first publish: %v", err)
		}
		published, err := store.Publish(ctx, "pj-same.mp4", second)
		if err != nil {
			t.Fatalf("second publish: %v", err)
		}

		content, _ := os.ReadFile(published)
		if string(content) != "two" {
			t.Errorf("expected replacement content, got %q", content)
		}
	})
}

func TestLocalStorage_UploadToS3_NotConfigured(t *testing.T) {
	store := setupTestStorage(t)

	_, err := store.UploadToS3(context.Background(), "key", bytes.NewReader([]byte("data")))
	if !errors.Is(err, ErrS3NotConfigured) {
		t.Errorf("expected ErrS3NotConfigured, got %v", err)
	}
}

func setupTestStorage(t *testing.T) *LocalStorage {
	t.Helper()

	store, err := NewLocalStorage(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	return store
}
