package raster

import (
	"image"

	"tomgalvin.uk/msxsprite/internal/brush"
)

// Stamp writes the brush centred on at. Brush cells falling outside the
// surface are dropped.
func Stamp(s Surface, b *brush.Brush, at image.Point, on bool) error {
	if err := checkPoints(s, at); err != nil {
		return err
	}
	return stamp(s, b, at, on)
}

func stamp(s Surface, b *brush.Brush, at image.Point, on bool) error {
	for _, o := range b.Offsets() {
		p := at.Add(image.Pt(o.X, o.Y))
		if !inside(s, p) {
			continue
		}
		if err := s.Set(p.X, p.Y, on); err != nil {
			return err
		}
	}
	return nil
}

// Stroke stamps the brush at every point of path.
func Stroke(s Surface, b *brush.Brush, path []image.Point, on bool) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := checkPoints(s, path...); err != nil {
		return err
	}
	for _, p := range path {
		if err := stamp(s, b, p, on); err != nil {
			return err
		}
	}
	return nil
}

// Join connects consecutive points of a pointer path with lines, so a fast
// drag leaves no gaps.
func Join(path []image.Point) []image.Point {
	if len(path) < 2 {
		return path
	}
	joined := []image.Point{path[0]}
	for i := 1; i < len(path); i++ {
		joined = append(joined, LinePoints(path[i-1], path[i])[1:]...)
	}
	return joined
}
