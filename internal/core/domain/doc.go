// Package domain defines the core entities for schemex.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceImage / View: a scheme image and its role-tuned renditions
//   - Figure: the explicit per-image context handed to every subsystem
//   - Arrow, Diagram, Label, Condition: detected regions
//   - Detection: the three-way result of a detector (detected, not found, failed)
//   - ReactionScheme / DiagramsOnlyResult: the two kinds of extraction output
//   - Outcome / BatchOutcome: per-image and per-directory results
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
