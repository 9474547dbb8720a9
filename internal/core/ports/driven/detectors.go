package driven

import (
	"context"
	"image"

	"github.com/custodia-labs/schemex/internal/core/domain"
)

// ArrowDetector finds reaction arrows.
type ArrowDetector interface {
	// DetectArrows returns NotFound when the view holds no arrows.
	DetectArrows(ctx context.Context, fig domain.Figure, view domain.View) domain.Detection[[]domain.Arrow]
}

// UnifiedRequest is the input of the unified detector.
type UnifiedRequest struct {
	Figure domain.Figure

	Diagrams   domain.View
	Labels     domain.View
	Conditions domain.View

	// Arrows may be empty when DiagramsOnly is set.
	Arrows []domain.Arrow

	// DiagramsOnly tells the detector no arrows were found.
	DiagramsOnly bool

	// Finegrained selects the tiling search strategy.
	Finegrained bool
}

// UnifiedDetector finds diagrams, labels and conditions in one pass.
type UnifiedDetector interface {
	// Detect returns NotFound when the image holds no diagrams.
	Detect(ctx context.Context, req UnifiedRequest) domain.Detection[domain.UnifiedResult]
}

// Recogniser turns a diagram crop into a structure string.
type Recogniser interface {
	Recognise(ctx context.Context, crop image.Image) (string, error)
}

// RoleProbe infers ordered reaction steps.
type RoleProbe interface {
	Probe(ctx context.Context, fig domain.Figure, arrows []domain.Arrow, unified domain.UnifiedResult) (domain.RoleProbeResult, error)
}

// Model is a model-backed adapter that can be checked for readiness.
type Model interface {
	// Name identifies the model in logs and errors.
	Name() string

	// Ping verifies the model is loaded and reachable.
	Ping(ctx context.Context) error
}
