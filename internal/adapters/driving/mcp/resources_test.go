package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/schemex/internal/core/domain"
)

func TestExtractRunID(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"valid URI", "schemex://runs/run-123", "run-123"},
		{"uuid", "schemex://runs/6f1c2a9e-1b2c-4d3e-8f90-a1b2c3d4e5f6", "6f1c2a9e-1b2c-4d3e-8f90-a1b2c3d4e5f6"},
		{"list URI", "schemex://runs", ""},
		{"nested path", "schemex://runs/run-1/items", ""},
		{"wrong scheme", "file://runs/run-1", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractRunID(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleRunsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil history returns empty list", func(t *testing.T) {
		server := newTestServer(t, &Ports{Extractor: &mockExtractor{}})

		result, err := server.handleRunsResource(ctx, makeReadResourceRequest("schemex://runs"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})

	t.Run("returns runs", func(t *testing.T) {
		history := &mockHistory{runs: []domain.RunSummary{
			{ID: "run-2", Mode: domain.RunModeWatch, Root: "/inbox"},
			{ID: "run-1", Mode: domain.RunModeBatch, Root: "/in"},
		}}
		server := newTestServer(t, &Ports{Extractor: &mockExtractor{}, History: history})

		result, err := server.handleRunsResource(ctx, makeReadResourceRequest("schemex://runs"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "schemex://runs", result.Contents[0].URI)
		assert.Contains(t, result.Contents[0].Text, `"id": "run-2"`)
		assert.Contains(t, result.Contents[0].Text, `"mode": "watch"`)
		assert.Contains(t, result.Contents[0].Text, `"root": "/in"`)
		assert.Equal(t, defaultRunLimit, history.gotLimit)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		history := &mockHistory{err: errors.New("database error")}
		server := newTestServer(t, &Ports{Extractor: &mockExtractor{}, History: history})

		_, err := server.handleRunsResource(ctx, makeReadResourceRequest("schemex://runs"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing runs")
	})
}

func TestServer_handleRunResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil history returns not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{Extractor: &mockExtractor{}})

		_, err := server.handleRunResource(ctx, makeReadResourceRequest("schemex://runs/run-1"))

		require.Error(t, err)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{Extractor: &mockExtractor{}, History: &mockHistory{}})

		_, err := server.handleRunResource(ctx, makeReadResourceRequest("schemex://invalid/uri"))

		require.Error(t, err)
	})

	t.Run("unknown run returns not found", func(t *testing.T) {
		history := &mockHistory{err: domain.ErrNotFound}
		server := newTestServer(t, &Ports{Extractor: &mockExtractor{}, History: history})

		_, err := server.handleRunResource(ctx, makeReadResourceRequest("schemex://runs/nope"))

		require.Error(t, err)
		assert.NotContains(t, err.Error(), "getting run")
	})

	t.Run("returns run with items", func(t *testing.T) {
		history := &mockHistory{run: &domain.RunRecord{
			ID:   "run-1",
			Mode: domain.RunModeBatch,
			Root: "/in",
			Items: []domain.RunItem{
				{Index: 0, Path: "/in/a.png", Kind: domain.OutcomeScheme},
				{Index: 1, Path: "/in/b.png", Kind: domain.OutcomeAbsent, Reason: "no diagrams found"},
			},
		}}
		server := newTestServer(t, &Ports{Extractor: &mockExtractor{}, History: history})

		result, err := server.handleRunResource(ctx, makeReadResourceRequest("schemex://runs/run-1"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		text := result.Contents[0].Text
		assert.Contains(t, text, `"id": "run-1"`)
		assert.Contains(t, text, `"path": "/in/b.png"`)
		assert.Contains(t, text, `"reason": "no diagrams found"`)
	})

	t.Run("wraps other errors", func(t *testing.T) {
		history := &mockHistory{err: errors.New("disk I/O error")}
		server := newTestServer(t, &Ports{Extractor: &mockExtractor{}, History: history})

		_, err := server.handleRunResource(ctx, makeReadResourceRequest("schemex://runs/run-1"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "getting run")
	})
}
