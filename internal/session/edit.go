package session

import (
	"errors"
	"fmt"
	"image"

	"tomgalvin.uk/msxsprite/internal/canvas"
	"tomgalvin.uk/msxsprite/internal/raster"
	"tomgalvin.uk/msxsprite/internal/shift"
	"tomgalvin.uk/msxsprite/internal/undo"
)

// painter remembers which sprites had pixels turned on, so they can take the
// drawing colour once the edit is done.
type painter struct {
	canvas.Surface
	painted map[int]bool
}

func (p *painter) Set(x, y int, on bool) error {
	if on {
		if idx, _, _, err := p.Locate(x, y); err == nil {
			p.painted[idx] = true
		}
	}
	return p.Surface.Set(x, y, on)
}

// mutate captures the targets of the current surface, runs f and arms undo
// with the captured state. If f fails the targets are put back and the
// previous undo stays armed.
func (s *Session) mutate(op string, f func(surf canvas.Surface) error) error {
	surf, err := s.Surface()
	if err != nil {
		return fmt.Errorf("Couldn't %s:\n%w", op, err)
	}

	targets := surf.Targets()
	entries := make([]undo.Entry, 0, len(targets))
	for _, idx := range targets {
		entries = append(entries, undo.CaptureEntry(idx, s.project.Sprites[idx].Bitmap, s.Buffers(idx)))
	}

	if err := f(surf); err != nil {
		for _, e := range entries {
			if rerr := e.Snapshot.Restore(e.Bitmap, e.Buffers); rerr != nil {
				s.logger.Error("Couldn't roll back sprite", "sprite", e.Index, "err", rerr)
			}
		}
		return fmt.Errorf("Couldn't %s:\n%w", op, err)
	}

	s.undo.Arm(entries...)
	s.logger.Debug("Edited sprites", "op", op, "sprites", targets)
	return nil
}

// draw runs a drawing primitive. Sprites it turns pixels on in take the
// session colour, and writes are reflected by the mirror set when mirrored.
func (s *Session) draw(op string, mirrored bool, f func(target raster.Surface) error) error {
	return s.mutate(op, func(surf canvas.Surface) error {
		p := &painter{Surface: surf, painted: make(map[int]bool)}
		var target raster.Surface = p
		if mirrored && s.mirror != 0 {
			target = raster.Mirrored{Surface: p, Mirror: s.mirror}
		}
		if err := f(target); err != nil {
			return err
		}
		for idx := range p.painted {
			if err := s.project.Sprites[idx].Bitmap.SetColor(s.color); err != nil {
				return err
			}
		}
		return nil
	})
}

// Plot sets a single cell, and its mirror images.
func (s *Session) Plot(at image.Point, on bool) error {
	return s.draw("plot", true, func(t raster.Surface) error {
		return raster.Line(t, at, at, on)
	})
}

func (s *Session) Line(a, b image.Point, on bool) error {
	return s.draw("draw line", true, func(t raster.Surface) error {
		return raster.Line(t, a, b, on)
	})
}

func (s *Session) Rect(a, b image.Point, filled bool, on bool) error {
	return s.draw("draw rectangle", true, func(t raster.Surface) error {
		return raster.Rect(t, a, b, filled, on)
	})
}

func (s *Session) Ellipse(a, b image.Point, filled bool, on bool) error {
	return s.draw("draw ellipse", true, func(t raster.Surface) error {
		return raster.Ellipse(t, a, b, filled, on)
	})
}

// Fill flood fills from seed and returns the size of the filled region.
// Every cell of the region is written with its mirror images.
func (s *Session) Fill(seed image.Point, on bool) (int, error) {
	changed := 0
	err := s.draw("flood fill", true, func(t raster.Surface) error {
		var err error
		changed, err = raster.FloodFill(t, seed, on)
		return err
	})
	return changed, err
}

// Stroke stamps the active brush along a pointer path.
func (s *Session) Stroke(path []image.Point, on bool) error {
	return s.draw("paint", true, func(t raster.Surface) error {
		return raster.Stroke(t, s.brush, raster.Join(path), on)
	})
}

// Erase clears cells under the eraser along a pointer path.
func (s *Session) Erase(path []image.Point) error {
	return s.draw("erase", true, func(t raster.Surface) error {
		return raster.Stroke(t, s.eraser, raster.Join(path), false)
	})
}

// Shift moves every target sprite one pixel, each on its own, using the
// session's shift mode.
func (s *Session) Shift(dir shift.Direction) error {
	return s.mutate("shift "+dir.String(), func(surf canvas.Surface) error {
		for _, idx := range surf.Targets() {
			if err := shift.Shift(s.project.Sprites[idx].Bitmap, s.Buffers(idx), dir, s.shiftMode); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Session) transform(op string, f func(raster.Surface) error) error {
	return s.mutate(op, func(surf canvas.Surface) error {
		return f(surf)
	})
}

// FlipHorizontal mirrors the whole surface left to right.
func (s *Session) FlipHorizontal() error {
	return s.transform("flip horizontally", raster.FlipHorizontal)
}

// FlipVertical mirrors the whole surface top to bottom.
func (s *Session) FlipVertical() error {
	return s.transform("flip vertically", raster.FlipVertical)
}

func (s *Session) Invert() error {
	return s.transform("invert", raster.Invert)
}

func (s *Session) Clear() error {
	return s.transform("clear", raster.Clear)
}

// FillAll turns every cell on and gives the targets the session colour.
func (s *Session) FillAll() error {
	return s.draw("fill", false, raster.FillAll)
}

// SetColor makes c the drawing colour and recolours the targets.
func (s *Session) SetColor(c uint8) error {
	return s.mutate("set colour", func(surf canvas.Surface) error {
		for _, idx := range surf.Targets() {
			if err := s.project.Sprites[idx].Bitmap.SetColor(c); err != nil {
				return err
			}
		}
		s.color = c
		return nil
	})
}

var ErrNoShape = errors.New("no shape in progress")

type Shape int

const (
	LineShape Shape = iota
	RectShape
	FilledRectShape
	EllipseShape
	FilledEllipseShape
)

func (sh Shape) String() string {
	switch sh {
	case LineShape:
		return "line"
	case RectShape:
		return "rect"
	case FilledRectShape:
		return "filled rect"
	case EllipseShape:
		return "ellipse"
	case FilledEllipseShape:
		return "filled ellipse"
	}
	return fmt.Sprintf("Shape(%d)", int(sh))
}

type pendingShape struct {
	shape Shape
	start image.Point
	on    bool
}

// BeginShape records the first corner of a two-click shape. Nothing is
// drawn until CommitShape.
func (s *Session) BeginShape(shape Shape, start image.Point, on bool) error {
	surf, err := s.Surface()
	if err != nil {
		return err
	}
	if _, _, _, err := surf.Locate(start.X, start.Y); err != nil {
		return err
	}
	s.shape = &pendingShape{shape, start, on}
	return nil
}

// PendingShape returns the shape waiting for its second click, if any.
func (s *Session) PendingShape() (Shape, image.Point, bool) {
	if s.shape == nil {
		return 0, image.Point{}, false
	}
	return s.shape.shape, s.shape.start, true
}

// CommitShape draws the pending shape from its start to end.
func (s *Session) CommitShape(end image.Point) error {
	if s.shape == nil {
		return ErrNoShape
	}
	pending := s.shape
	s.shape = nil

	switch pending.shape {
	case LineShape:
		return s.Line(pending.start, end, pending.on)
	case RectShape, FilledRectShape:
		return s.Rect(pending.start, end, pending.shape == FilledRectShape, pending.on)
	case EllipseShape, FilledEllipseShape:
		return s.Ellipse(pending.start, end, pending.shape == FilledEllipseShape, pending.on)
	}
	return fmt.Errorf("unknown shape %s", pending.shape)
}

func (s *Session) CancelShape() {
	s.shape = nil
}
