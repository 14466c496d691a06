// Package workspace provides job-scoped temporary directories for
// intermediate artifacts. Every path written during a job is registered
// with its handle, and Release removes the whole directory on every exit
// path, success or failure.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/beast-69-bot/azprotectionbot/internal/protect"
)

// Manager allocates scoped scratch directories under a single root.
type Manager struct {
	root string
}

// NewManager creates a Manager rooted at the given directory.
// If root is empty, a subdirectory of os.TempDir() is used.
// The root is created if it doesn't exist.
func NewManager(root string) (*Manager, error) {
	if root == "" {
		root = filepath.Join(os.TempDir(), "azprotection")
	}
	if err := os.MkdirAll(root, 0750); err != nil {
		return nil, fmt.Errorf("%w: create workspace root: %w", protect.ErrWorkspace, err)
	}
	return &Manager{root: root}, nil
}

// Root returns the directory under which workspaces are created.
func (m *Manager) Root() string {
	return m.root
}

// Open creates a private, collision-resistant scratch directory for one
// job. The jobID keys the directory name; a random suffix guards against
// collisions across restarts.
func (m *Manager) Open(jobID string) (*Handle, error) {
	dir, err := os.MkdirTemp(m.root, jobID+"_*")
	if err != nil {
		return nil, fmt.Errorf("%w: create job directory: %w", protect.ErrWorkspace, err)
	}
	return &Handle{dir: dir}, nil
}

// Handle is an exclusively-owned scoped directory plus the list of
// artifacts created inside it.
type Handle struct {
	mu        sync.Mutex
	dir       string
	artifacts []string
	released  bool
}

// Dir returns the workspace directory.
func (h *Handle) Dir() string {
	return h.dir
}

// Path joins name onto the workspace directory and registers the result
// as an artifact of this job.
func (h *Handle) Path(name string) string {
	p := filepath.Join(h.dir, name)
	h.Register(p)
	return p
}

// Register records a path as belonging to this workspace so it is
// accounted for at release time.
func (h *Handle) Register(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.artifacts = append(h.artifacts, path)
}

// Artifacts returns a copy of the registered paths.
func (h *Handle) Artifacts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.artifacts))
	copy(out, h.artifacts)
	return out
}

// Release deletes the directory and all contents regardless of job
// outcome. It is safe to call more than once; subsequent calls are no-ops.
func (h *Handle) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return nil
	}
	h.released = true
	if err := os.RemoveAll(h.dir); err != nil {
		return fmt.Errorf("%w: remove %s: %w", protect.ErrWorkspace, h.dir, err)
	}
	return nil
}
