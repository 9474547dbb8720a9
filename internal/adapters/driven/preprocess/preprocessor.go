package preprocess

import (
	"context"
	"fmt"
	"image"

	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driven"
)

// Ensure Preprocessor implements the interface.
var _ driven.Preprocessor = (*Preprocessor)(nil)

// Config holds the recipe parameters.
type Config struct {
	GeneralMinDim    int
	ArrowsMinDim     int
	DiagramsMinDim   int
	ConditionsMinDim int

	// Labels views larger than SRMaxWidth x SRMaxHeight skip super-resolution.
	SRMaxWidth  int
	SRMaxHeight int
	SRFactor    int
}

// ConfigFromSettings derives the recipe parameters from settings.
func ConfigFromSettings(s domain.PreprocessSettings) Config {
	return Config{
		GeneralMinDim:    s.GeneralMinDim,
		ArrowsMinDim:     s.ArrowsMinDim,
		DiagramsMinDim:   s.DiagramsMinDim,
		ConditionsMinDim: s.ConditionsMinDim,
		SRMaxWidth:       s.SRMaxWidth,
		SRMaxHeight:      s.SRMaxHeight,
		SRFactor:         s.SRFactor,
	}
}

// DefaultConfig returns the recipe parameters of the default settings.
func DefaultConfig() Config {
	return ConfigFromSettings(domain.DefaultSettings().Preprocess)
}

// Preprocessor loads source images and derives role views.
type Preprocessor struct {
	recipes map[domain.Role][]Stage
}

// NewPreprocessor creates a preprocessor.
// The upsampler is optional; without one the labels view is sharpened only.
func NewPreprocessor(cfg Config, upsampler driven.Upsampler) *Preprocessor {
	return &Preprocessor{recipes: recipes(cfg, upsampler)}
}

// Load reads, digests and decodes the source image.
func (p *Preprocessor) Load(ctx context.Context, path string) (domain.SourceImage, image.Image, error) {
	return load(ctx, path)
}

// Prepare runs the recipe for role over img.
func (p *Preprocessor) Prepare(ctx context.Context, src domain.SourceImage, img image.Image, role domain.Role) (domain.View, error) {
	stages, ok := p.recipes[role]
	if !ok {
		return domain.View{}, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	if img == nil {
		return domain.View{}, fmt.Errorf("%w: no image for %s", domain.ErrInvalidInput, src.Path)
	}
	out, err := Run(ctx, img, stages...)
	if err != nil {
		return domain.View{}, fmt.Errorf("%s recipe: %w", role, err)
	}
	return domain.NewView(role, src, out), nil
}
