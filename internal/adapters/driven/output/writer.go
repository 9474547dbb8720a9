package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driven"
)

// Ensure FileWriter implements the interface.
var _ driven.ArtifactWriter = (*FileWriter)(nil)

// Default permissions.
const (
	DefaultFilePerm os.FileMode = 0o644
	DefaultDirPerm  os.FileMode = 0o755
)

// FileWriter writes artifacts atomically: data goes to a temporary file in
// the target directory, which is synced and then renamed into place.
type FileWriter struct {
	filePerm os.FileMode
	dirPerm  os.FileMode
}

// NewFileWriter creates a writer with the default permissions.
func NewFileWriter() *FileWriter {
	return &FileWriter{filePerm: DefaultFilePerm, dirPerm: DefaultDirPerm}
}

// Write stores data as dir/name, creating dir if needed.
// name must be a plain file name.
func (w *FileWriter) Write(ctx context.Context, dir, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if dir == "" {
		return "", fmt.Errorf("%w: output directory is empty", domain.ErrInvalidInput)
	}
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: invalid artifact name %q", domain.ErrInvalidInput, name)
	}
	if err := os.MkdirAll(dir, w.dirPerm); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	dest := filepath.Join(dir, name)
	if err := w.writeAtomic(dir, dest, data); err != nil {
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	return dest, nil
}

func (w *FileWriter) writeAtomic(dir, dest string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(w.filePerm); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	// Best effort: persist the rename on platforms that support it.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}
