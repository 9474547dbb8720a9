// Package upscale provides a local upsampler for the labels view.
package upscale

import (
	"context"
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driven"
)

// Ensure Interpolator implements the interface.
var _ driven.Upsampler = (*Interpolator)(nil)

// MaxFactor bounds the scale factor.
const MaxFactor = 8

// Interpolator upsamples with a resampling kernel.
type Interpolator struct {
	kernel xdraw.Interpolator
}

// NewInterpolator creates a Catmull-Rom upsampler.
func NewInterpolator() *Interpolator {
	return &Interpolator{kernel: xdraw.CatmullRom}
}

// NewInterpolatorWithKernel creates an upsampler using kernel.
func NewInterpolatorWithKernel(kernel xdraw.Interpolator) *Interpolator {
	return &Interpolator{kernel: kernel}
}

// Upsample returns img enlarged factor times. Grayscale input stays grayscale.
func (u *Interpolator) Upsample(ctx context.Context, img image.Image, factor int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", domain.ErrUpsample)
	}
	if factor < 1 || factor > MaxFactor {
		return nil, fmt.Errorf("%w: factor %d outside 1..%d", domain.ErrUpsample, factor, MaxFactor)
	}

	b := img.Bounds()
	r := image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor)
	var dst xdraw.Image
	switch img.(type) {
	case *image.Gray:
		dst = image.NewGray(r)
	default:
		dst = image.NewRGBA(r)
	}
	u.kernel.Scale(dst, r, img, b, xdraw.Src, nil)
	return dst, nil
}
