package raster

import (
	"image"
	"strings"
)

// Mirror is a set of symmetry axes. Every cell written through a Mirrored
// surface is also written at its reflections.
type Mirror uint8

const (
	// Horizontal reflects left to right, (x, y) -> (w-1-x, y).
	Horizontal Mirror = 1 << iota
	// Vertical reflects top to bottom, (x, y) -> (x, h-1-y).
	Vertical
	// Diagonal reflects across the main diagonal, (x, y) -> (y, x).
	Diagonal
	// AntiDiagonal reflects across the other diagonal, (x, y) -> (h-1-y, w-1-x).
	AntiDiagonal
)

func (m Mirror) Has(flag Mirror) bool {
	return m&flag != 0
}

func (m Mirror) String() string {
	if m == 0 {
		return "none"
	}
	var names []string
	for _, f := range []struct {
		flag Mirror
		name string
	}{{Horizontal, "horizontal"}, {Vertical, "vertical"}, {Diagonal, "diagonal"}, {AntiDiagonal, "antidiagonal"}} {
		if m.Has(f.flag) {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, "+")
}

// Images returns p and its reflections on a w x h surface, each reflection
// applied to all the points produced by the axes before it. Points falling
// outside the surface are left out.
func (m Mirror) Images(p image.Point, w, h int) []image.Point {
	points := []image.Point{p}
	reflect := func(f func(image.Point) image.Point) {
		for _, q := range points {
			r := f(q)
			if !containsPoint(points, r) {
				points = append(points, r)
			}
		}
	}
	if m.Has(Horizontal) {
		reflect(func(q image.Point) image.Point { return image.Pt(w-1-q.X, q.Y) })
	}
	if m.Has(Vertical) {
		reflect(func(q image.Point) image.Point { return image.Pt(q.X, h-1-q.Y) })
	}
	if m.Has(Diagonal) {
		reflect(func(q image.Point) image.Point { return image.Pt(q.Y, q.X) })
	}
	if m.Has(AntiDiagonal) {
		reflect(func(q image.Point) image.Point { return image.Pt(h-1-q.Y, w-1-q.X) })
	}

	bounds := image.Rect(0, 0, w, h)
	visible := points[:0]
	for _, q := range points {
		if q.In(bounds) {
			visible = append(visible, q)
		}
	}
	return visible
}

func containsPoint(points []image.Point, p image.Point) bool {
	for _, q := range points {
		if q == p {
			return true
		}
	}
	return false
}

// Mirrored wraps a surface so writes land on every reflection of the target
// cell. Reads are unchanged.
type Mirrored struct {
	Surface
	Mirror Mirror
}

func (m Mirrored) Set(x, y int, on bool) error {
	if m.Mirror == 0 {
		return m.Surface.Set(x, y, on)
	}
	if err := checkPoints(m.Surface, image.Pt(x, y)); err != nil {
		return err
	}
	for _, p := range m.Mirror.Images(image.Pt(x, y), m.Width(), m.Height()) {
		if err := m.Surface.Set(p.X, p.Y, on); err != nil {
			return err
		}
	}
	return nil
}
