package domain

import (
	"image"
	"math"
)

// Point is a pixel coordinate.
type Point struct {
	X int
	Y int
}

// Rect is an axis-aligned box with exclusive Right and Bottom edges.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// RectFromImage converts an image.Rectangle.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{Left: r.Min.X, Top: r.Min.Y, Right: r.Max.X, Bottom: r.Max.Y}
}

// ImageRect converts to an image.Rectangle.
func (r Rect) ImageRect() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

// Width returns the box width.
func (r Rect) Width() int {
	return r.Right - r.Left
}

// Height returns the box height.
func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// Area returns the box area, zero for empty boxes.
func (r Rect) Area() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Width() * r.Height()
}

// IsEmpty returns true if the box has no pixels.
func (r Rect) IsEmpty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Center returns the box centre (rounded down).
func (r Rect) Center() Point {
	return Point{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// Contains reports whether p lies inside the box.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// Intersect returns the overlap of r and o (empty if disjoint).
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		Left:   max(r.Left, o.Left),
		Top:    max(r.Top, o.Top),
		Right:  min(r.Right, o.Right),
		Bottom: min(r.Bottom, o.Bottom),
	}
	if out.IsEmpty() {
		return Rect{}
	}
	return out
}

// Scale multiplies every coordinate by f, used to map boxes between views
// of different sizes.
func (r Rect) Scale(f float64) Rect {
	return Rect{
		Left:   int(math.Floor(float64(r.Left) * f)),
		Top:    int(math.Floor(float64(r.Top) * f)),
		Right:  int(math.Ceil(float64(r.Right) * f)),
		Bottom: int(math.Ceil(float64(r.Bottom) * f)),
	}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Hypot(dx, dy)
}
