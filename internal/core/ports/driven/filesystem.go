package driven

import "context"

// ImageLister enumerates the entries of a batch directory.
type ImageLister interface {
	// List returns the paths of the regular, non-hidden entries of dir in
	// lexicographic order. Unsupported files are included; the pipeline
	// reports them as absent.
	List(ctx context.Context, dir string) ([]string, error)
}

// WatchEvent is a file that became ready for extraction, or a watcher error.
type WatchEvent struct {
	Path string
	Err  error
}

// DirectoryWatcher reports files created or rewritten in a directory.
type DirectoryWatcher interface {
	// Watch starts watching dir. The channel is closed when ctx is done.
	Watch(ctx context.Context, dir string) (<-chan WatchEvent, error)
}
