package preprocess

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driven"
	"github.com/custodia-labs/schemex/internal/logger"
)

// Stage is a pure image transform. A stage must not modify its input; it
// returns either a new image or the input itself when there is nothing to do.
type Stage func(ctx context.Context, img image.Image) (image.Image, error)

// Run applies stages in order, checking ctx between stages.
func Run(ctx context.Context, img image.Image, stages ...Stage) (image.Image, error) {
	out := img
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := stage(ctx, out)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}

// Gray converts to 8-bit grayscale. Transparent areas become white.
func Gray(_ context.Context, img image.Image) (image.Image, error) {
	flat := flatten(img)
	dst := image.NewGray(flat.Bounds())
	xdraw.Copy(dst, image.Point{}, flat, flat.Bounds(), xdraw.Src, nil)
	return dst, nil
}

// RGB converts to opaque RGBA. Transparent areas become white.
func RGB(_ context.Context, img image.Image) (image.Image, error) {
	return flatten(img), nil
}

// ScaleMinDim resizes so the smaller side equals target, keeping the
// aspect ratio. Grayscale input stays grayscale.
func ScaleMinDim(target int) Stage {
	return func(_ context.Context, img image.Image) (image.Image, error) {
		if target <= 0 {
			return nil, fmt.Errorf("%w: scale target must be positive", domain.ErrInvalidInput)
		}
		b := img.Bounds()
		short := min(b.Dx(), b.Dy())
		if short == 0 {
			return nil, fmt.Errorf("%w: empty image", domain.ErrInvalidInput)
		}
		if short == target {
			return img, nil
		}
		f := float64(target) / float64(short)
		w := max(1, int(math.Round(float64(b.Dx())*f)))
		h := max(1, int(math.Round(float64(b.Dy())*f)))
		return resample(img, w, h), nil
	}
}

// Normalise stretches intensities to the full 0-255 range.
// A flat image is returned unchanged.
func Normalise(ctx context.Context, img image.Image) (image.Image, error) {
	if _, ok := img.(*image.Gray); ok {
		g, err := asGray(ctx, img)
		if err != nil {
			return nil, err
		}
		return normaliseGray(g), nil
	}
	return normaliseRGBA(flatten(img)), nil
}

func normaliseGray(g *image.Gray) image.Image {
	lo, hi := uint8(255), uint8(0)
	for _, v := range g.Pix {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi <= lo || (lo == 0 && hi == 255) {
		return g
	}
	dst := image.NewGray(g.Bounds())
	span := int(hi - lo)
	for i, v := range g.Pix {
		dst.Pix[i] = uint8(int(v-lo) * 255 / span)
	}
	return dst
}

func normaliseRGBA(src *image.RGBA) image.Image {
	lo, hi := uint8(255), uint8(0)
	for i := 0; i < len(src.Pix); i += 4 {
		for _, v := range src.Pix[i : i+3] {
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	if hi <= lo || (lo == 0 && hi == 255) {
		return src
	}
	dst := image.NewRGBA(src.Bounds())
	span := int(hi - lo)
	for i := 0; i < len(src.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			dst.Pix[i+c] = uint8(int(src.Pix[i+c]-lo) * 255 / span)
		}
		dst.Pix[i+3] = 255
	}
	return dst
}

// Binarise thresholds to black ink on white background using Otsu's method.
func Binarise(ctx context.Context, img image.Image) (image.Image, error) {
	g, err := asGray(ctx, img)
	if err != nil {
		return nil, err
	}
	t := otsu(g)
	dst := image.NewGray(g.Bounds())
	for i, v := range g.Pix {
		if v > t {
			dst.Pix[i] = 255
		}
	}
	return dst, nil
}

// otsu returns the threshold maximising between-class variance.
func otsu(g *image.Gray) uint8 {
	var hist [256]int
	for _, v := range g.Pix {
		hist[v]++
	}
	total := len(g.Pix)
	sum := 0
	for i, n := range hist {
		sum += i * n
	}

	var (
		sumB, weightB int
		best          float64
		threshold     uint8
	)
	for i, n := range hist {
		weightB += n
		if weightB == 0 {
			continue
		}
		weightF := total - weightB
		if weightF == 0 {
			break
		}
		sumB += i * n
		meanB := float64(sumB) / float64(weightB)
		meanF := float64(sum-sumB) / float64(weightF)
		between := float64(weightB) * float64(weightF) * (meanB - meanF) * (meanB - meanF)
		if between > best {
			best = between
			threshold = uint8(i)
		}
	}
	return threshold
}

// sharpenKernel is a 3x3 Laplacian sharpening kernel.
var sharpenKernel = [3][3]int{
	{0, -1, 0},
	{-1, 5, -1},
	{0, -1, 0},
}

// Sharpen applies a 3x3 sharpening kernel on the grayscale image.
// Edge pixels reuse their nearest neighbour.
func Sharpen(ctx context.Context, img image.Image) (image.Image, error) {
	g, err := asGray(ctx, img)
	if err != nil {
		return nil, err
	}
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := 0
			for ky := -1; ky <= 1; ky++ {
				sy := clamp(y+ky, 0, h-1)
				for kx := -1; kx <= 1; kx++ {
					sx := clamp(x+kx, 0, w-1)
					acc += sharpenKernel[ky+1][kx+1] * int(g.Pix[sy*g.Stride+sx])
				}
			}
			dst.Pix[y*dst.Stride+x] = uint8(clamp(acc, 0, 255))
		}
	}
	return dst, nil
}

// SRGuard upsamples with up unless the image exceeds maxW x maxH.
// Oversized images, a nil upsampler and upsampling errors all return the
// input unchanged.
func SRGuard(maxW, maxH, factor int, up driven.Upsampler) Stage {
	return func(ctx context.Context, img image.Image) (image.Image, error) {
		b := img.Bounds()
		if b.Dx() > maxW || b.Dy() > maxH {
			logger.Debug("Skipping super-resolution for %dx%d image (limit %dx%d)", b.Dx(), b.Dy(), maxW, maxH)
			return img, nil
		}
		if up == nil || factor <= 1 {
			return img, nil
		}
		out, err := up.Upsample(ctx, img, factor)
		if err != nil {
			logger.Warn("Super-resolution failed, using sharpened image: %v", err)
			return img, nil
		}
		return out, nil
	}
}

// asGray returns img as a zero-origin *image.Gray, converting if needed.
// The result may alias img and must not be written to.
func asGray(ctx context.Context, img image.Image) (*image.Gray, error) {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) && g.Stride == g.Rect.Dx() {
		return g, nil
	}
	out, err := Gray(ctx, img)
	if err != nil {
		return nil, err
	}
	return out.(*image.Gray), nil
}

// flatten composites img over white into a zero-origin RGBA.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Over)
	return dst
}

// resample scales img to w x h with a Catmull-Rom kernel.
func resample(img image.Image, w, h int) image.Image {
	r := image.Rect(0, 0, w, h)
	var dst xdraw.Image
	if _, ok := img.(*image.Gray); ok {
		dst = image.NewGray(r)
	} else {
		dst = image.NewRGBA(r)
	}
	xdraw.CatmullRom.Scale(dst, r, img, img.Bounds(), xdraw.Src, nil)
	return dst
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
