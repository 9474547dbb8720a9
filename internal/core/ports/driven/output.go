package driven

import (
	"context"

	"github.com/custodia-labs/schemex/internal/core/domain"
)

// Serialiser encodes extraction outcomes into artifacts.
type Serialiser interface {
	// Extension is the artifact file extension without the dot.
	Extension() string

	// Marshal encodes a scheme or diagrams-only outcome.
	// Absent outcomes are rejected with domain.ErrInvalidInput.
	Marshal(o domain.Outcome) ([]byte, error)

	// Unmarshal decodes an artifact back into an outcome.
	Unmarshal(data []byte) (domain.Outcome, error)
}

// ArtifactWriter persists artifacts.
type ArtifactWriter interface {
	// Write stores data as dir/name and returns the written path.
	// A partially written artifact is never left at the final path.
	Write(ctx context.Context, dir, name string, data []byte) (string, error)
}

// Visualiser renders extraction results over the source figure.
type Visualiser interface {
	// Render writes an overlay image into dir and returns its path.
	Render(ctx context.Context, fig domain.Figure, o domain.Outcome, dir string) (string, error)
}
