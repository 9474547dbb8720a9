// Package mcp provides an MCP (Model Context Protocol) server adapter for schemex.
// It lets AI assistants extract reaction schemes from local images and
// browse the run history.
package mcp

import "errors"

// ErrMissingExtractor is returned when the extraction service is not provided.
var ErrMissingExtractor = errors.New("mcp: extractor is required")
