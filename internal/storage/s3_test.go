package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testS3Config(endpoint string) S3Config {
	return S3Config{
		Bucket:          "test-bucket",
		Region:          "us-east-1",
		Endpoint:        endpoint,
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
	}
}

func TestNewS3Storage(t *testing.T) {
	store, err := NewS3Storage(filepath.Join(t.TempDir(), "out"), testS3Config("http://localhost:4566"))
	if err != nil {
		t.Fatalf("NewS3Storage() error = %v", err)
	}

	if store.bucket != "test-bucket" {
		t.Errorf("bucket = %v, want test-bucket", store.bucket)
	}
	if store.region != "us-east-1" {
		t.Errorf("region = %v, want us-east-1", store.region)
	}
}

func TestS3Storage_InheritsLocalPublish(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "out")
	store, err := NewS3Storage(outputDir, testS3Config("http://localhost:4566"))
	if err != nil {
		t.Fatalf("NewS3Storage() error = %v", err)
	}

	src := filepath.Join(t.TempDir(), "output.mp4")
	if err := os.WriteFile(src, []byte("video data"), 0600); err != nil {
		t.Fatalf("write source: %v", err)
	}

	published, err := store.Publish(context.Background(), "pj-1.mp4", src)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if filepath.Dir(published) != outputDir {
		t.Errorf("expected publication in %s, got %s", outputDir, published)
	}
}

func TestS3Storage_UploadToS3_MockServer(t *testing.T) {
	// Fake S3 endpoint capturing the PUT request.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT method, got %s", r.Method)
		}

		if !strings.Contains(r.URL.Path, "/pj-1.mp4") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read body: %v", err)
		}
		if string(body) != "video content" {
			t.Errorf("unexpected body: %s", string(body))
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store, err := NewS3Storage(filepath.Join(t.TempDir(), "out"), testS3Config(server.URL))
	if err != nil {
		t.Fatalf("NewS3Storage() error = %v", err)
	}

	url, err := store.UploadToS3(context.Background(), "pj-1.mp4", bytes.NewReader([]byte("video content")))
	if err != nil {
		t.Fatalf("UploadToS3() error = %v", err)
	}

	expectedURL := "https://test-bucket.s3.us-east-1.amazonaws.com/pj-1.mp4"
	if url != expectedURL {
		t.Errorf("url = %v, want %v", url, expectedURL)
	}
}
