package driving

import (
	"context"

	"github.com/custodia-labs/schemex/internal/core/domain"
)

// RunHistory exposes past extraction runs.
type RunHistory interface {
	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.RunSummary, error)

	// Get returns one run with its items.
	Get(ctx context.Context, id string) (*domain.RunRecord, error)
}
