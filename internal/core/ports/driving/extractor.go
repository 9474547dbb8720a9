package driving

import (
	"context"

	"github.com/custodia-labs/schemex/internal/core/domain"
)

// SchemeExtractor runs the extraction pipeline.
//
// The two operations deliberately differ in how they fail:
//
//   - ExtractImage returns absent outcomes for expected conditions (the file
//     cannot be loaded, or no diagrams were found) and returns an error for
//     anything unexpected. Callers that need strict failure use it.
//   - ExtractDir never returns a per-item error. Each entry gets one slot;
//     unexpected errors and panics become absent slots with a reason. It only
//     fails when the directory itself cannot be processed.
type SchemeExtractor interface {
	// ExtractImage extracts a single image.
	ExtractImage(ctx context.Context, path string, opts domain.ExtractOptions) (domain.Outcome, error)

	// ExtractDir extracts every entry of dir in lexicographic order.
	// Returns domain.ErrOutputDirRequired when opts.OutputDir is empty.
	ExtractDir(ctx context.Context, dir string, opts domain.ExtractOptions) (*domain.BatchOutcome, error)
}

// WatchService extracts images as they appear in a directory.
type WatchService interface {
	// Watch runs until ctx is done, sending one outcome per extracted file.
	// The returned channel is closed when watching stops.
	Watch(ctx context.Context, dir string, opts domain.ExtractOptions) (<-chan domain.Outcome, error)
}
