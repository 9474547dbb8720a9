package services

import (
	"context"
	"image"
	"image/draw"

	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/logger"
)

// recognise attaches SMILES strings to the diagrams.
// Diagram boxes are in figure coordinates and are mapped onto the diagrams
// view before cropping. A failed crop keeps an empty SMILES; only context
// cancellation stops the step.
func (s *ExtractionService) recognise(ctx context.Context, fig domain.Figure, view domain.View, diagrams []domain.Diagram) ([]domain.Diagram, error) {
	if len(diagrams) == 0 {
		return diagrams, nil
	}

	scale := 1.0
	if fig.Width() > 0 && view.Width() > 0 {
		scale = float64(view.Width()) / float64(fig.Width())
	}

	out := make([]domain.Diagram, len(diagrams))
	copy(out, diagrams)

	recognised := 0
	for i := range out {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		crop, ok := cropView(view, out[i].Box.Scale(scale))
		if !ok {
			logger.Warn("Diagram %s of %s lies outside the diagrams view", out[i].ID, view.Source.Path)
			continue
		}

		smiles, err := s.recogniser.Recognise(ctx, crop)
		if err != nil {
			logger.Warn("Recognition failed for diagram %s of %s: %v", out[i].ID, view.Source.Path, err)
			continue
		}
		out[i].Smiles = smiles
		recognised++
	}

	logger.Debug("Recognised %d of %d diagrams in %s", recognised, len(out), view.Source.Path)
	return out, nil
}

// cropView copies box out of the view image. The copy keeps recognisers
// from seeing pixels outside the box.
func cropView(view domain.View, box domain.Rect) (image.Image, bool) {
	if view.Image == nil {
		return nil, false
	}
	r := box.ImageRect().Intersect(view.Image.Bounds())
	if r.Empty() {
		return nil, false
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), view.Image, r.Min, draw.Src)
	return dst, true
}
