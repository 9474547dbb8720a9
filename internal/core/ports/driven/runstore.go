package driven

import (
	"context"

	"github.com/custodia-labs/schemex/internal/core/domain"
)

// RunStore persists extraction run records.
type RunStore interface {
	// Save stores a run and its items, replacing any run with the same ID.
	Save(ctx context.Context, run domain.RunRecord) error

	// Get retrieves a run with its items.
	// Returns domain.ErrNotFound if the run does not exist.
	Get(ctx context.Context, id string) (*domain.RunRecord, error)

	// List returns the most recent runs first, at most limit of them.
	// A limit of zero or less returns all runs.
	List(ctx context.Context, limit int) ([]domain.RunSummary, error)

	// Close releases the store.
	Close() error
}
