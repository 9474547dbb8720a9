package mcp

import (
	"context"

	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driving"
)

var (
	_ driving.SchemeExtractor = (*mockExtractor)(nil)
	_ driving.RunHistory      = (*mockHistory)(nil)
)

// mockExtractor is a mock implementation of driving.SchemeExtractor.
type mockExtractor struct {
	outcome domain.Outcome
	batch   *domain.BatchOutcome
	err     error

	gotPath string
	gotOpts domain.ExtractOptions
}

func (m *mockExtractor) ExtractImage(
	_ context.Context,
	path string,
	opts domain.ExtractOptions,
) (domain.Outcome, error) {
	m.gotPath, m.gotOpts = path, opts
	return m.outcome, m.err
}

func (m *mockExtractor) ExtractDir(
	_ context.Context,
	dir string,
	opts domain.ExtractOptions,
) (*domain.BatchOutcome, error) {
	m.gotPath, m.gotOpts = dir, opts
	return m.batch, m.err
}

// mockHistory is a mock implementation of driving.RunHistory.
type mockHistory struct {
	runs []domain.RunSummary
	run  *domain.RunRecord
	err  error

	gotLimit int
}

func (m *mockHistory) List(_ context.Context, limit int) ([]domain.RunSummary, error) {
	m.gotLimit = limit
	return m.runs, m.err
}

func (m *mockHistory) Get(_ context.Context, _ string) (*domain.RunRecord, error) {
	return m.run, m.err
}
