// Package visualise renders extraction results over the source figure.
package visualise

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driven"
)

// Ensure OverlayRenderer implements the interface.
var _ driven.Visualiser = (*OverlayRenderer)(nil)

// overlaySuffix is appended to the image stem.
const overlaySuffix = ".overlay.png"

// Box colours.
var (
	ArrowColour     = color.RGBA{R: 220, G: 40, B: 40, A: 255}
	DiagramColour   = color.RGBA{R: 30, G: 160, B: 60, A: 255}
	LabelColour     = color.RGBA{R: 40, G: 90, B: 220, A: 255}
	ConditionColour = color.RGBA{R: 230, G: 140, B: 20, A: 255}
)

// OverlayRenderer draws detection boxes on the general view and writes the
// result as PNG.
type OverlayRenderer struct {
	writer    driven.ArtifactWriter
	thickness int
}

// NewOverlayRenderer creates a renderer that persists through writer.
func NewOverlayRenderer(writer driven.ArtifactWriter) *OverlayRenderer {
	return &OverlayRenderer{writer: writer, thickness: 2}
}

// Render writes <stem>.overlay.png into dir, or the system temp directory
// when dir is empty.
func (r *OverlayRenderer) Render(ctx context.Context, fig domain.Figure, o domain.Outcome, dir string) (string, error) {
	if fig.General.IsZero() {
		return "", fmt.Errorf("%w: figure has no general view", domain.ErrInvalidInput)
	}
	if o.IsAbsent() {
		return "", fmt.Errorf("%w: nothing to render for %s", domain.ErrInvalidInput, o.Path)
	}
	if dir == "" {
		dir = os.TempDir()
	}

	canvas := r.Draw(fig, o)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return "", fmt.Errorf("encode overlay: %w", err)
	}
	return r.writer.Write(ctx, dir, domain.Stem(o.Path)+overlaySuffix, buf.Bytes())
}

// Draw returns the overlay image without writing it.
func (r *OverlayRenderer) Draw(fig domain.Figure, o domain.Outcome) *image.RGBA {
	src := fig.General.Image
	b := src.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(canvas, canvas.Bounds(), src, b.Min, xdraw.Src)

	var (
		labels     []domain.Label
		conditions []domain.Condition
		arrows     []domain.Arrow
	)
	switch {
	case o.Scheme != nil:
		labels, conditions, arrows = o.Scheme.Labels, o.Scheme.Conditions, o.Scheme.Arrows
	case o.DiagramsOnly != nil:
		labels, conditions = o.DiagramsOnly.Labels, o.DiagramsOnly.Conditions
	}

	for _, d := range o.Diagrams() {
		r.outline(canvas, d.Box, DiagramColour)
	}
	for _, l := range labels {
		r.outline(canvas, l.Box, LabelColour)
	}
	for _, c := range conditions {
		r.outline(canvas, c.Box, ConditionColour)
	}
	for _, a := range arrows {
		r.outline(canvas, a.Box, ArrowColour)
		head := domain.Rect{Left: a.Head.X - 3, Top: a.Head.Y - 3, Right: a.Head.X + 4, Bottom: a.Head.Y + 4}
		fill(canvas, head, ArrowColour)
	}
	return canvas
}

// outline draws the border of box, clipped to the canvas.
func (r *OverlayRenderer) outline(canvas *image.RGBA, box domain.Rect, c color.Color) {
	if box.IsEmpty() {
		return
	}
	t := min(r.thickness, box.Width(), box.Height())
	fill(canvas, domain.Rect{Left: box.Left, Top: box.Top, Right: box.Right, Bottom: box.Top + t}, c)
	fill(canvas, domain.Rect{Left: box.Left, Top: box.Bottom - t, Right: box.Right, Bottom: box.Bottom}, c)
	fill(canvas, domain.Rect{Left: box.Left, Top: box.Top, Right: box.Left + t, Bottom: box.Bottom}, c)
	fill(canvas, domain.Rect{Left: box.Right - t, Top: box.Top, Right: box.Right, Bottom: box.Bottom}, c)
}

func fill(canvas *image.RGBA, box domain.Rect, c color.Color) {
	rect := box.ImageRect().Intersect(canvas.Bounds())
	if rect.Empty() {
		return
	}
	xdraw.Draw(canvas, rect, image.NewUniform(c), image.Point{}, xdraw.Src)
}
