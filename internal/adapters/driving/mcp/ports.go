package mcp

import (
	"github.com/custodia-labs/schemex/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Extractor runs the extraction pipeline.
	Extractor driving.SchemeExtractor

	// History exposes recorded runs.
	History driving.RunHistory
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Extractor == nil {
		return ErrMissingExtractor
	}
	// History is optional: without it the run tools report no runs.
	return nil
}
