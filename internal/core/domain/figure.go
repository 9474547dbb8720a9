package domain

// Figure is the per-image context handed to every subsystem call.
// It is built once from the general view and passed by value, so two
// images can be processed at the same time without sharing state.
type Figure struct {
	Source  SourceImage
	General View

	// SingleBondLength is the estimated length of a single bond in pixels
	// of the general view. Zero means no estimate is available.
	SingleBondLength float64
}

// NewFigure creates a figure context from the general view.
func NewFigure(general View) Figure {
	return Figure{Source: general.Source, General: general}
}

// WithBondLength returns a copy of the figure with the bond length set.
func (f Figure) WithBondLength(l float64) Figure {
	f.SingleBondLength = l
	return f
}

// Width returns the general view width.
func (f Figure) Width() int {
	return f.General.Width()
}

// Height returns the general view height.
func (f Figure) Height() int {
	return f.General.Height()
}
