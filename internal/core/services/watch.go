package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driven"
	"github.com/custodia-labs/schemex/internal/core/ports/driving"
	"github.com/custodia-labs/schemex/internal/logger"
)

// Ensure WatchService implements the interface.
var _ driving.WatchService = (*WatchService)(nil)

// WatchService extracts images as they land in a directory.
// Each file gets batch-style containment, and the whole session is kept
// in the ledger as one watch run that grows with every file.
type WatchService struct {
	extractor *ExtractionService
	watcher   driven.DirectoryWatcher
}

// NewWatchService creates a new watch service.
func NewWatchService(extractor *ExtractionService, watcher driven.DirectoryWatcher) *WatchService {
	return &WatchService{
		extractor: extractor,
		watcher:   watcher,
	}
}

// Watch runs until ctx is done, sending one outcome per extracted file.
func (w *WatchService) Watch(ctx context.Context, dir string, opts domain.ExtractOptions) (<-chan domain.Outcome, error) {
	if w.watcher == nil {
		return nil, fmt.Errorf("watch %s: directory watcher not configured", dir)
	}

	events, err := w.watcher.Watch(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	outcomes := make(chan domain.Outcome)
	go w.run(ctx, dir, opts, events, outcomes)
	return outcomes, nil
}

func (w *WatchService) run(
	ctx context.Context,
	dir string,
	opts domain.ExtractOptions,
	events <-chan driven.WatchEvent,
	outcomes chan<- domain.Outcome,
) {
	defer close(outcomes)

	session := &domain.BatchOutcome{
		RunID:     w.extractor.newID(),
		Root:      dir,
		StartedAt: w.extractor.now(),
	}
	logger.Info("Watching %s (run %s)", dir, session.RunID)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Err != nil {
				logger.Warn("Watcher error in %s: %v", dir, ev.Err)
				continue
			}

			out := w.extractor.extractContained(ctx, ev.Path, opts)
			out.Index = len(session.Items)
			session.Items = append(session.Items, out)
			session.FinishedAt = w.extractor.now()
			w.extractor.record(ctx, domain.RunModeWatch, session)

			select {
			case outcomes <- out:
			case <-ctx.Done():
				return
			}
		}
	}
}
