package domain

import "fmt"

// ReactionStep is one inferred transformation in a scheme.
type ReactionStep struct {
	// Index is the zero-based position in the scheme.
	Index int

	// Reactants and Products hold diagram ids.
	Reactants []string
	Products  []string

	ArrowID string

	// Conditions holds condition ids.
	Conditions []string
}

// RoleProbeResult is what the role probe infers from arrows and diagrams.
type RoleProbeResult struct {
	Steps      []ReactionStep
	Incomplete bool
}

// ReactionScheme is the full extraction result for an image with arrows.
type ReactionScheme struct {
	Source     SourceImage
	Arrows     []Arrow
	Steps      []ReactionStep
	Incomplete bool
	Diagrams   []Diagram
	Labels     []Label
	Conditions []Condition
}

// NewReactionScheme assembles a scheme from the detector and role probe
// results. It refuses an empty arrow set. A scheme with no steps is always
// marked incomplete.
func NewReactionScheme(src SourceImage, arrows []Arrow, unified UnifiedResult, probe RoleProbeResult) (*ReactionScheme, error) {
	if len(arrows) == 0 {
		return nil, fmt.Errorf("assemble scheme for %s: %w", src.Path, ErrNoArrows)
	}
	return &ReactionScheme{
		Source:     src,
		Arrows:     arrows,
		Steps:      probe.Steps,
		Incomplete: probe.Incomplete || len(probe.Steps) == 0,
		Diagrams:   unified.Diagrams,
		Labels:     unified.Labels,
		Conditions: unified.Conditions,
	}, nil
}

// DiagramsOnlyResult is the degraded result for an image without arrows.
type DiagramsOnlyResult struct {
	Source     SourceImage
	Diagrams   []Diagram
	Labels     []Label
	Conditions []Condition
}

// NewDiagramsOnlyResult wraps the unified detector output.
func NewDiagramsOnlyResult(src SourceImage, unified UnifiedResult) *DiagramsOnlyResult {
	return &DiagramsOnlyResult{
		Source:     src,
		Diagrams:   unified.Diagrams,
		Labels:     unified.Labels,
		Conditions: unified.Conditions,
	}
}
