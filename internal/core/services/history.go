package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driven"
	"github.com/custodia-labs/schemex/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.RunHistory = (*HistoryService)(nil)

// HistoryService exposes recorded extraction runs.
type HistoryService struct {
	store driven.RunStore
}

// NewHistoryService creates a new history service.
// The store is optional - without it there is no history.
func NewHistoryService(store driven.RunStore) *HistoryService {
	return &HistoryService{store: store}
}

// List returns the most recent runs, newest first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidInput)
	}
	if s.store == nil {
		return []domain.RunSummary{}, nil
	}
	runs, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get returns one run with its items.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.RunRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}
	if s.store == nil {
		return nil, domain.ErrNotFound
	}
	run, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}
