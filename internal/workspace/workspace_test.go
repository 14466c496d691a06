package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewManager(t *testing.T) {
	t.Run("creates root directory", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "nested", "scratch")
		m, err := NewManager(root)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.Root() != root {
			t.Errorf("expected root %q, got %q", root, m.Root())
		}
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			t.Errorf("expected root directory to exist: %v", err)
		}
	})

	t.Run("empty root uses default under temp dir", func(t *testing.T) {
		m, err := NewManager("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(m.Root(), os.TempDir()) {
			t.Errorf("expected default root under %s, got %s", os.TempDir(), m.Root())
		}
	})
}

func TestManager_Open(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ws, err := m.Open("pj-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = ws.Release() }()

	if !strings.HasPrefix(filepath.Base(ws.Dir()), "pj-test_") {
		t.Errorf("expected directory keyed by job ID, got %s", ws.Dir())
	}
	if info, err := os.Stat(ws.Dir()); err != nil || !info.IsDir() {
		t.Errorf("expected workspace directory to exist: %v", err)
	}

	// Two handles for the same job must not collide.
	ws2, err := m.Open("pj-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = ws2.Release() }()
	if ws.Dir() == ws2.Dir() {
		t.Error("expected distinct directories for consecutive opens")
	}
}

func TestHandle_PathRegistersArtifact(t *testing.T) {
	m, _ := NewManager(t.TempDir())
	ws, err := m.Open("pj-artifacts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = ws.Release() }()

	p := ws.Path("part_clip.mp4")
	if filepath.Dir(p) != ws.Dir() {
		t.Errorf("expected path inside workspace, got %s", p)
	}

	ws.Register(filepath.Join(ws.Dir(), "extra.txt"))

	artifacts := ws.Artifacts()
	if len(artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(artifacts))
	}
	if artifacts[0] != p {
		t.Errorf("expected first artifact %s, got %s", p, artifacts[0])
	}
}

func TestHandle_Release(t *testing.T) {
	m, _ := NewManager(t.TempDir())
	ws, err := m.Open("pj-release")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Populate the workspace with an artifact.
	file := ws.Path("output.mp4")
	if err := os.WriteFile(file, []byte("data"), 0600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	if err := ws.Release(); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if _, err := os.Stat(ws.Dir()); !os.IsNotExist(err) {
		t.Error("expected workspace directory to be removed")
	}

	// Repeated release is a no-op.
	if err := ws.Release(); err != nil {
		t.Errorf("second release should be nil, got %v", err)
	}
}
