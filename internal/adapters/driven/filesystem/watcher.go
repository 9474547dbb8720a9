package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driven"
	"github.com/custodia-labs/schemex/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.DirectoryWatcher = (*Watcher)(nil)

// DefaultSettle is how long a file must be quiet before it is reported.
const DefaultSettle = 250 * time.Millisecond

// Watcher reports supported images created or rewritten in a directory.
// Bursts of events for one file (create, then several writes) are merged
// and reported once the file has been quiet for the settle period.
type Watcher struct {
	settle time.Duration
}

// NewWatcher creates a watcher with the default settle period.
func NewWatcher() *Watcher {
	return &Watcher{settle: DefaultSettle}
}

// NewWatcherWithSettle creates a watcher with a custom settle period.
func NewWatcherWithSettle(settle time.Duration) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{settle: settle}
}

// Watch starts watching dir (not recursive).
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan driven.WatchEvent, error) {
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

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	out := make(chan driven.WatchEvent)
	go w.run(ctx, fsw, out)
	return out, nil
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, out chan<- driven.WatchEvent) {
	defer close(out)
	defer fsw.Close()

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	send := func(ev driven.WatchEvent) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if path, ok := handleFsEvent(event); ok {
				pending[path] = time.Now()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if !send(driven.WatchEvent{Err: fmt.Errorf("watch: %w", err)}) {
				return
			}

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < w.settle {
					continue
				}
				delete(pending, path)
				logger.Debug("Watch: %s is ready", path)
				if !send(driven.WatchEvent{Path: path}) {
					return
				}
			}
		}
	}
}

// handleFsEvent returns the path of a created or written supported image.
// Hidden files, directories, removals and attribute changes are ignored.
func handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(filepath.Base(event.Name)) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	if !domain.IsSupportedImage(event.Name) {
		logger.Debug("Watch: ignoring unsupported file %s", event.Name)
		return "", false
	}
	return event.Name, true
}
