package job

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/beast-69-bot/azprotectionbot/internal/protect"
)

func newTestJob() *Job {
	return New("/in/original.mp4", "/in/clip.mp4", protect.DefaultSettings())
}

func TestMemoryRepository_Save(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	j := newTestJob()

	if err := repo.Save(ctx, j); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saved, err := repo.FindByID(ctx, j.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ID != j.ID {
		t.Errorf("expected ID %s, got %s", j.ID, saved.ID)
	}
}

func TestMemoryRepository_Save_Update(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	j := newTestJob()

	_ = repo.Save(ctx, j)

	_ = j.Start()
	j.SetResult("/out/video.mp4", "", "")
	_ = repo.Save(ctx, j)

	saved, _ := repo.FindByID(ctx, j.ID)
	if saved.Status != StatusRunning {
		t.Errorf("expected status %s, got %s", StatusRunning, saved.Status)
	}
	if saved.OutputPath != "/out/video.mp4" {
		t.Errorf("expected updated output path, got %q", saved.OutputPath)
	}
}

func TestMemoryRepository_FindByID_NotFound(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.FindByID(context.Background(), "pj-missing")
	if !errors.Is(err, ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
}

func TestMemoryRepository_FindByID_ReturnsClone(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	j := newTestJob()
	_ = repo.Save(ctx, j)

	found, _ := repo.FindByID(ctx, j.ID)
	found.Status = StatusFailed

	again, _ := repo.FindByID(ctx, j.ID)
	if again.Status != StatusQueued {
		t.Error("mutating a returned job must not affect the repository")
	}
}

func TestMemoryRepository_List(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	jobs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("expected empty list, got %d", len(jobs))
	}

	_ = repo.Save(ctx, newTestJob())
	_ = repo.Save(ctx, newTestJob())

	jobs, _ = repo.List(ctx)
	if len(jobs) != 2 {
		t.Errorf("expected 2 jobs, got %d", len(jobs))
	}
}

func TestMemoryRepository_Delete(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	j := newTestJob()
	_ = repo.Save(ctx, j)

	if err := repo.Delete(ctx, j.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.FindByID(ctx, j.ID); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound after delete, got %v", err)
	}

	if err := repo.Delete(ctx, j.ID); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound for second delete, got %v", err)
	}
}

func TestMemoryRepository_ConcurrentAccess(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j := newTestJob()
			_ = repo.Save(ctx, j)
			_, _ = repo.FindByID(ctx, j.ID)
			_, _ = repo.List(ctx)
		}()
	}
	wg.Wait()

	jobs, _ := repo.List(ctx)
	if len(jobs) != 50 {
		t.Errorf("expected 50 jobs, got %d", len(jobs))
	}
}
