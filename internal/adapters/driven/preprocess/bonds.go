package preprocess

import (
	"context"
	"fmt"
	"slices"

	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driven"
)

// Ensure BondEstimator implements the interface.
var _ driven.BondEstimator = (*BondEstimator)(nil)

// Defaults for bond length estimation.
const (
	DefaultInkThreshold = 128
	DefaultMinRun       = 5
)

// BondEstimator estimates the single-bond length as the median length of
// straight horizontal and vertical ink runs. Runs shorter than MinRun are
// treated as text or noise.
type BondEstimator struct {
	InkThreshold uint8
	MinRun       int
}

// NewBondEstimator creates an estimator with the default thresholds.
func NewBondEstimator() *BondEstimator {
	return &BondEstimator{InkThreshold: DefaultInkThreshold, MinRun: DefaultMinRun}
}

// EstimateBondLength returns the estimate in view pixels.
func (e *BondEstimator) EstimateBondLength(view domain.View) (float64, error) {
	if view.IsZero() {
		return 0, fmt.Errorf("%w: empty view", domain.ErrInvalidInput)
	}
	g, err := asGray(context.Background(), view.Image)
	if err != nil {
		return 0, err
	}

	w, h := g.Rect.Dx(), g.Rect.Dy()
	ink := func(x, y int) bool { return g.Pix[y*g.Stride+x] < e.InkThreshold }

	var runs []int
	keep := func(n int) {
		if n >= e.MinRun {
			runs = append(runs, n)
		}
	}
	for y := 0; y < h; y++ {
		n := 0
		for x := 0; x < w; x++ {
			if ink(x, y) {
				n++
				continue
			}
			keep(n)
			n = 0
		}
		keep(n)
	}
	for x := 0; x < w; x++ {
		n := 0
		for y := 0; y < h; y++ {
			if ink(x, y) {
				n++
				continue
			}
			keep(n)
			n = 0
		}
		keep(n)
	}

	if len(runs) == 0 {
		return 0, fmt.Errorf("%w: no ink runs of at least %d pixels", domain.ErrInvalidInput, e.MinRun)
	}
	slices.Sort(runs)
	mid := len(runs) / 2
	if len(runs)%2 == 0 {
		return float64(runs[mid-1]+runs[mid]) / 2, nil
	}
	return float64(runs[mid]), nil
}
