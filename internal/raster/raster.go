// Package raster draws lines, rectangles, ellipses, flood fills and brush
// strokes onto any surface that can get and set pixels.
//
// Every primitive checks the points it was given before it writes anything,
// so a call that fails leaves the surface untouched.
package raster

import (
	"fmt"
	"image"

	"tomgalvin.uk/msxsprite/internal/bitmap"
)

type Surface interface {
	Width() int
	Height() int
	Get(x, y int) (bool, error)
	Set(x, y int, on bool) error
}

func inside(s Surface, p image.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < s.Width() && p.Y < s.Height()
}

func checkPoints(s Surface, points ...image.Point) error {
	for _, p := range points {
		if !inside(s, p) {
			return fmt.Errorf("%w: %v outside %dx%d surface", bitmap.ErrOutOfBounds, p, s.Width(), s.Height())
		}
	}
	return nil
}

func plot(s Surface, points []image.Point, on bool) error {
	for _, p := range points {
		if err := s.Set(p.X, p.Y, on); err != nil {
			return err
		}
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// LinePoints returns the cells of the line from a to b, both ends included,
// each cell once.
func LinePoints(a, b image.Point) []image.Point {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	points := make([]image.Point, 0, max(dx, -dy)+1)
	err := dx + dy
	x, y := a.X, a.Y
	for {
		points = append(points, image.Pt(x, y))
		if x == b.X && y == b.Y {
			return points
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func Line(s Surface, a, b image.Point, on bool) error {
	if err := checkPoints(s, a, b); err != nil {
		return err
	}
	return plot(s, LinePoints(a, b), on)
}

// RectPoints returns the outline, or the whole area when filled, of the
// rectangle with opposite corners a and b.
func RectPoints(a, b image.Point, filled bool) []image.Point {
	r := image.Rect(a.X, a.Y, b.X, b.Y)
	var points []image.Point
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		for x := r.Min.X; x <= r.Max.X; x++ {
			edge := x == r.Min.X || x == r.Max.X || y == r.Min.Y || y == r.Max.Y
			if filled || edge {
				points = append(points, image.Pt(x, y))
			}
		}
	}
	return points
}

func Rect(s Surface, a, b image.Point, filled bool, on bool) error {
	if err := checkPoints(s, a, b); err != nil {
		return err
	}
	return plot(s, RectPoints(a, b, filled), on)
}

// EllipsePoints returns the cells of the ellipse inscribed in the rectangle
// with opposite corners a and b. Filled ellipses include every cell between
// the left and right edge of each row.
func EllipsePoints(a, b image.Point, filled bool) []image.Point {
	box := image.Rect(a.X, a.Y, b.X, b.Y)
	// Leftmost and rightmost outline cell per row.
	spans := make(map[int][2]int)
	seen := make(map[image.Point]bool)
	var points []image.Point

	add := func(x, y int) {
		if x < box.Min.X || x > box.Max.X || y < box.Min.Y || y > box.Max.Y {
			return
		}
		if span, ok := spans[y]; ok {
			spans[y] = [2]int{min(span[0], x), max(span[1], x)}
		} else {
			spans[y] = [2]int{x, x}
		}
		p := image.Pt(x, y)
		if !seen[p] {
			seen[p] = true
			points = append(points, p)
		}
	}
	walkEllipse(box, add)

	if !filled {
		return points
	}
	points = points[:0]
	for y := box.Min.Y; y <= box.Max.Y; y++ {
		span, ok := spans[y]
		if !ok {
			continue
		}
		for x := span[0]; x <= span[1]; x++ {
			points = append(points, image.Pt(x, y))
		}
	}
	return points
}

// walkEllipse steps round the four quadrants of the ellipse in box together,
// tracking the residual error of the ellipse equation at the next candidate
// cell. Works for boxes of even and odd size alike.
func walkEllipse(box image.Rectangle, visit func(x, y int)) {
	x0, y0, x1, y1 := box.Min.X, box.Min.Y, box.Max.X, box.Max.Y
	a, b := int64(x1-x0), int64(y1-y0)
	b1 := b & 1

	dx := 4 * (1 - a) * b * b
	dy := 4 * (b1 + 1) * a * a
	err := dx + dy + b1*a*a

	y0 += int((b + 1) / 2)
	y1 = y0 - int(b1)
	a8 := 8 * a * a
	b8 := 8 * b * b

	for x0 <= x1 {
		visit(x1, y0)
		visit(x0, y0)
		visit(x0, y1)
		visit(x1, y1)
		e2 := 2 * err
		if e2 <= dy {
			y0++
			y1--
			dy += a8
			err += dy
		}
		if e2 >= dx || 2*err > dy {
			x0++
			x1--
			dx += b8
			err += dx
		}
	}

	// Very flat ellipses stop before reaching the tips. The tips sit b rows
	// apart, so the last pass is the one with y0-y1 == b.
	for int64(y0-y1) <= b {
		visit(x0-1, y0)
		visit(x1+1, y0)
		y0++
		visit(x0-1, y1)
		visit(x1+1, y1)
		y1--
	}
}

func Ellipse(s Surface, a, b image.Point, filled bool, on bool) error {
	if err := checkPoints(s, a, b); err != nil {
		return err
	}
	return plot(s, EllipsePoints(a, b, filled), on)
}
