package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driven"
)

// Ensure Lister implements the interface.
var _ driven.ImageLister = (*Lister)(nil)

// Lister lists the entries of a directory.
type Lister struct{}

// NewLister creates a lister.
func NewLister() *Lister {
	return &Lister{}
}

// List returns dir's non-hidden entries sorted by name. Every entry is
// kept, including subdirectories, symlinks and non-images, so that each one
// gets a slot in the batch. Subdirectories are not descended into.
func (l *Lister) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, dir)
		}
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}

	// os.ReadDir returns entries sorted by file name.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if isHidden(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if len(part) > 1 && part[0] == '.' && part != ".." {
			return true
		}
	}
	return false
}
