package driven

import (
	"context"
	"image"

	"github.com/custodia-labs/schemex/internal/core/domain"
)

// Preprocessor turns a source image into role-tuned views.
// The source is loaded once; each role view is derived from the decoded
// image without modifying it, so Prepare may be called concurrently.
type Preprocessor interface {
	// Load reads and decodes the source image.
	// Returns an error matching domain.IsLoadFailure for missing,
	// unsupported or undecodable files.
	Load(ctx context.Context, path string) (domain.SourceImage, image.Image, error)

	// Prepare produces the view for role from the decoded source.
	Prepare(ctx context.Context, src domain.SourceImage, img image.Image, role domain.Role) (domain.View, error)
}

// Upsampler enlarges an image (super-resolution).
type Upsampler interface {
	// Upsample returns a new image factor times larger in each dimension.
	Upsample(ctx context.Context, img image.Image, factor int) (image.Image, error)
}

// BondEstimator estimates the single-bond length of a figure in pixels.
type BondEstimator interface {
	EstimateBondLength(view domain.View) (float64, error)
}
