package domain

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRect_Basics(t *testing.T) {
	r := Rect{Left: 10, Top: 20, Right: 40, Bottom: 60}

	assert.Equal(t, 30, r.Width())
	assert.Equal(t, 40, r.Height())
	assert.Equal(t, 1200, r.Area())
	assert.Equal(t, Point{X: 25, Y: 40}, r.Center())
	assert.False(t, r.IsEmpty())
	assert.True(t, r.Contains(Point{X: 10, Y: 20}))
	assert.False(t, r.Contains(Point{X: 40, Y: 20}))
}

func TestRect_Empty(t *testing.T) {
	r := Rect{Left: 5, Top: 5, Right: 5, Bottom: 10}
	assert.True(t, r.IsEmpty())
	assert.Zero(t, r.Area())
}

func TestRect_Intersect(t *testing.T) {
	a := Rect{Left: 0, Top: 0, Right: 10, Bottom: 10}
	b := Rect{Left: 5, Top: 5, Right: 20, Bottom: 20}
	c := Rect{Left: 50, Top: 50, Right: 60, Bottom: 60}

	assert.Equal(t, Rect{Left: 5, Top: 5, Right: 10, Bottom: 10}, a.Intersect(b))
	assert.Equal(t, Rect{}, a.Intersect(c))
}

func TestRect_ImageConversion(t *testing.T) {
	ir := image.Rect(1, 2, 3, 4)
	r := RectFromImage(ir)
	assert.Equal(t, Rect{Left: 1, Top: 2, Right: 3, Bottom: 4}, r)
	assert.Equal(t, ir, r.ImageRect())
}

func TestRect_Scale(t *testing.T) {
	r := Rect{Left: 3, Top: 3, Right: 5, Bottom: 5}
	assert.Equal(t, Rect{Left: 1, Top: 1, Right: 3, Bottom: 3}, r.Scale(0.5))
	assert.Equal(t, Rect{Left: 6, Top: 6, Right: 10, Bottom: 10}, r.Scale(2))
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(Point{}, Point{X: 3, Y: 4}), 1e-9)
}
