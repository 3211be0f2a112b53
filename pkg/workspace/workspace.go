// Package workspace owns the intermediate files of one pipeline run: the
// template copy and every rendered artifact. All of them live in a run-scoped
// directory that Cleanup removes unconditionally.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Prefix starts every run directory name.
const Prefix = "certgen-"

// Workspace is a run-scoped temporary directory plus the set of files created
// inside or registered with it.
type Workspace struct {
	mu      sync.Mutex
	id      string
	dir     string
	tracked []string
	index   map[string]struct{}
	closed  bool
}

// New creates a fresh run directory under parent (os.TempDir when empty).
func New(parent string) (*Workspace, error) {
	id := uuid.NewString()
	if parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, fmt.Errorf("workspace: create parent: %w", err)
		}
	}
	dir, err := os.MkdirTemp(parent, Prefix+id[:8]+"-")
	if err != nil {
		return nil, fmt.Errorf("workspace: create run dir: %w", err)
	}
	return &Workspace{
		id:    id,
		dir:   dir,
		index: make(map[string]struct{}),
	}, nil
}

// ID returns the run identifier.
func (w *Workspace) ID() string {
	return w.id
}

// Dir returns the run directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path returns dir/name and tracks it for cleanup. The file does not need to
// exist yet.
func (w *Workspace) Path(name string) string {
	path := filepath.Join(w.dir, filepath.Base(name))
	w.Track(path)
	return path
}

// Track registers an intermediate file for deletion during Cleanup. Tracking
// the same path twice is a no-op.
func (w *Workspace) Track(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.index[path]; ok {
		return
	}
	w.index[path] = struct{}{}
	w.tracked = append(w.tracked, path)
}

// Tracked returns the registered paths in registration order.
func (w *Workspace) Tracked() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.tracked...)
}

// WriteFile writes data to a tracked file inside the run directory.
func (w *Workspace) WriteFile(name string, data []byte) (string, error) {
	path := w.Path(name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("workspace: write %s: %w", name, err)
	}
	return path, nil
}

// Cleanup removes every tracked file and then the run directory. Missing files
// are ignored and calling Cleanup more than once is safe.
func (w *Workspace) Cleanup() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	for _, path := range w.tracked {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if err := os.RemoveAll(w.dir); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("workspace: cleanup: %w", err)
	}
	return nil
}
